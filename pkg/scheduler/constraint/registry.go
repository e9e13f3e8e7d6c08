package constraint

import (
	"sort"

	"github.com/shiftsolver/core/pkg/model"
	"github.com/shiftsolver/core/pkg/shifterrors"
)

// Registration is one constraint's entry in the registry: its factory and
// the defaults a caller's ConstraintConfig overrides (§4.7).
type Registration struct {
	Name           string
	Factory        func(cfg model.ConstraintConfig) Constraint
	DefaultEnabled bool
	DefaultHard    bool
	DefaultWeight  int
}

// Registry is a static, process-wide immutable table of constraint
// registrations, keyed by name, in a fixed declared order. It is the
// single source of defaults; constraints themselves must never override
// a default in their own constructor. A Registry is built once at
// startup and never mutated during a solve — a host that needs
// different defaults constructs a fresh Registry rather than mutating
// this one (§9).
type Registry struct {
	order        []string
	registration map[string]Registration
}

// NewRegistry builds a Registry from an explicit, ordered list of
// registrations. Hard constraints conventionally come first for
// clarity, though apply order never affects correctness (§4.8).
func NewRegistry(registrations ...Registration) *Registry {
	r := &Registry{registration: make(map[string]Registration, len(registrations))}
	for _, reg := range registrations {
		r.order = append(r.order, reg.Name)
		r.registration[reg.Name] = reg
	}
	return r
}

// Get returns the registration for name, or an error naming the unknown
// constraint (ConfigError.UnknownConstraint, spec §7) if none exists.
func (r *Registry) Get(name string) (Registration, error) {
	reg, ok := r.registration[name]
	if !ok {
		return Registration{}, shifterrors.Newf(shifterrors.CodeUnknownConstraint, "unknown constraint %q", name)
	}
	return reg, nil
}

// Names returns every registered constraint name in declared order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Build instantiates every registered constraint, applying overrides
// from configs (keyed by constraint name) over each registration's
// defaults, in the registry's declared order. A config naming a
// constraint absent from the registry is a ConfigError.UnknownConstraint.
func (r *Registry) Build(configs map[string]model.ConstraintConfig) ([]Constraint, error) {
	for name := range configs {
		if _, err := r.Get(name); err != nil {
			return nil, err
		}
	}

	constraints := make([]Constraint, 0, len(r.order))
	for _, name := range r.order {
		reg := r.registration[name]
		cfg, overridden := configs[name]
		if !overridden {
			cfg = model.ConstraintConfig{
				Enabled: reg.DefaultEnabled,
				IsHard:  reg.DefaultHard,
				Weight:  reg.DefaultWeight,
			}
		}
		if cfg.Weight == 0 && !cfg.IsHard {
			cfg.Weight = reg.DefaultWeight
		}
		constraints = append(constraints, reg.Factory(cfg))
	}

	// Hard constraints first, for clarity (§4.8); stable so that within
	// each group the registry's declared order is preserved.
	sort.SliceStable(constraints, func(i, j int) bool {
		return constraints[i].IsHard() && !constraints[j].IsHard()
	})
	return constraints, nil
}
