package builtin

import (
	"github.com/shiftsolver/core/pkg/cpmodel"
	"github.com/shiftsolver/core/pkg/model"
	"github.com/shiftsolver/core/pkg/scheduler/constraint"
	"github.com/shiftsolver/core/pkg/scheduler/solver/types"
)

// Availability is the hard rule forbidding assignment during a worker's
// Unavailable windows (§4.5.3). Preferred and Required records are
// informational only and are never enforced here (§9).
type Availability struct {
	Base
}

// NewAvailability constructs the availability constraint.
func NewAvailability(cfg model.ConstraintConfig) constraint.Constraint {
	return &Availability{Base: NewBase("availability", cfg)}
}

// Apply adds, for every Unavailable record and every period it overlaps,
// either x[w,p,s] == 0 for the named shift type, or sum_s x[w,p,s] == 0
// when no shift type is named.
func (c *Availability) Apply(solver cpmodel.Solver, vars *types.SolverVariables, ctx *constraint.Context) ([]constraint.Violation, error) {
	if !c.IsEnabled() {
		return nil, nil
	}

	validWorkers := map[string]struct{}{}
	for _, w := range ctx.Workers {
		validWorkers[w.ID] = struct{}{}
	}

	for _, a := range ctx.Availabilities {
		if a.Type != model.Unavailable {
			continue
		}
		if _, ok := validWorkers[a.WorkerID]; !ok {
			continue
		}

		for p := 0; p < ctx.NumPeriods && p < len(ctx.PeriodDates); p++ {
			period := ctx.PeriodDates[p]
			if !a.OverlapsRange(period.Start, period.End) {
				continue
			}

			if a.ShiftTypeID != "" {
				v, err := vars.AssignmentVar(a.WorkerID, p, a.ShiftTypeID)
				if err != nil {
					return nil, err
				}
				solver.AddLinearEq(cpmodel.NewLinearExpr().Add(v), 0)
				continue
			}

			periodVars, err := vars.WorkerPeriodVars(a.WorkerID, p)
			if err != nil {
				return nil, err
			}
			sum := cpmodel.NewLinearExpr()
			for _, v := range periodVars {
				sum.Add(v)
			}
			solver.AddLinearEq(sum, 0)
		}
	}
	return nil, nil
}
