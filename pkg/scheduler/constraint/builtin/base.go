// Package builtin provides the concrete constraints of §4.5: coverage,
// worker-restriction, availability, fairness, frequency, request,
// sequence, max-absence, shift-frequency, and shift-order-preference.
package builtin

import (
	"github.com/shiftsolver/core/pkg/model"
)

// Base is the embeddable struct every concrete constraint in this
// package carries for its name/enabled/hard/weight/parameter bookkeeping,
// generalizing the registry-driven config pattern to Go struct embedding
// (§4.7).
type Base struct {
	name string
	cfg  model.ConstraintConfig
}

// NewBase constructs the embeddable bookkeeping for a constraint named
// name, configured by cfg.
func NewBase(name string, cfg model.ConstraintConfig) Base {
	return Base{name: name, cfg: cfg}
}

// Name returns the constraint's registry key.
func (b *Base) Name() string { return b.name }

// IsEnabled reports whether this constraint should be applied.
func (b *Base) IsEnabled() bool { return b.cfg.Enabled }

// IsHard reports whether this constraint enforces its rule as hard.
func (b *Base) IsHard() bool { return b.cfg.IsHard }

// Weight returns the soft-mode objective multiplier.
func (b *Base) Weight() int { return b.cfg.Weight }

// Param, ParamInt, ParamStringSlice, and ParamBool expose the
// constraint's parameters (§4.7 parameter_schema).
func (b *Base) Param(key string, def any) any       { return b.cfg.Param(key, def) }
func (b *Base) ParamInt(key string, def int) int     { return b.cfg.ParamInt(key, def) }
func (b *Base) ParamBool(key string, def bool) bool  { return b.cfg.ParamBool(key, def) }
func (b *Base) ParamStringSlice(key string) []string { return b.cfg.ParamStringSlice(key) }
