package builtin

import "github.com/shiftsolver/core/pkg/scheduler/constraint"

// NewDefaultRegistry returns the registry of every built-in constraint
// with its default {enabled, hard, weight} triple (§4.7). Coverage,
// restriction, and availability are structural and always hard;
// fairness, frequency, request, sequence, max_absence,
// shift_frequency, and shift_order_preference ship with the defaults
// below. Weight is meaningless for hard constraints and left at zero.
func NewDefaultRegistry() *constraint.Registry {
	return constraint.NewRegistry(
		constraint.Registration{
			Name: "coverage", Factory: NewCoverage,
			DefaultEnabled: true, DefaultHard: true,
		},
		constraint.Registration{
			Name: "restriction", Factory: NewRestriction,
			DefaultEnabled: true, DefaultHard: true,
		},
		constraint.Registration{
			Name: "availability", Factory: NewAvailability,
			DefaultEnabled: true, DefaultHard: true,
		},
		constraint.Registration{
			Name: "fairness", Factory: NewFairness,
			DefaultEnabled: true, DefaultHard: false, DefaultWeight: 1000,
		},
		constraint.Registration{
			Name: "frequency", Factory: NewFrequency,
			DefaultEnabled: false, DefaultHard: false, DefaultWeight: 100,
		},
		constraint.Registration{
			Name: "request", Factory: NewRequest,
			DefaultEnabled: true, DefaultHard: false, DefaultWeight: 150,
		},
		constraint.Registration{
			Name: "sequence", Factory: NewSequence,
			DefaultEnabled: false, DefaultHard: false, DefaultWeight: 100,
		},
		constraint.Registration{
			Name: "max_absence", Factory: NewMaxAbsence,
			DefaultEnabled: false, DefaultHard: false, DefaultWeight: 100,
		},
		constraint.Registration{
			Name: "shift_frequency", Factory: NewShiftFrequency,
			DefaultEnabled: false, DefaultHard: false, DefaultWeight: 500,
		},
		constraint.Registration{
			Name: "shift_order_preference", Factory: NewShiftOrderPreference,
			DefaultEnabled: false, DefaultHard: false, DefaultWeight: 200,
		},
	)
}
