package builtin

import (
	"github.com/shiftsolver/core/pkg/cpmodel"
	"github.com/shiftsolver/core/pkg/model"
	"github.com/shiftsolver/core/pkg/scheduler/constraint"
	"github.com/shiftsolver/core/pkg/scheduler/solver/types"
)

// Restriction is the hard rule forbidding a worker from ever being
// assigned to a shift type listed in their restricted_shifts (§4.5.2).
type Restriction struct {
	Base
}

// NewRestriction constructs the worker-restriction constraint.
func NewRestriction(cfg model.ConstraintConfig) constraint.Constraint {
	return &Restriction{Base: NewBase("restriction", cfg)}
}

// Apply adds x[w,p,s] == 0 for every (w,p,s) with s in w's restricted
// shifts, for every period in the horizon.
func (c *Restriction) Apply(solver cpmodel.Solver, vars *types.SolverVariables, ctx *constraint.Context) ([]constraint.Violation, error) {
	if !c.IsEnabled() {
		return nil, nil
	}

	validShifts := map[string]struct{}{}
	for _, st := range ctx.ShiftTypes {
		validShifts[st.ID] = struct{}{}
	}

	for _, w := range ctx.Workers {
		for restrictedID := range w.RestrictedShifts {
			if _, ok := validShifts[restrictedID]; !ok {
				continue
			}
			for p := 0; p < ctx.NumPeriods; p++ {
				v, err := vars.AssignmentVar(w.ID, p, restrictedID)
				if err != nil {
					return nil, err
				}
				solver.AddLinearEq(cpmodel.NewLinearExpr().Add(v), 0)
			}
		}
	}
	return nil, nil
}
