package builtin

import (
	"fmt"

	"github.com/shiftsolver/core/pkg/cpmodel"
	"github.com/shiftsolver/core/pkg/logger"
	"github.com/shiftsolver/core/pkg/model"
	"github.com/shiftsolver/core/pkg/scheduler/constraint"
	"github.com/shiftsolver/core/pkg/scheduler/solver/types"
)

// MaxAbsence is the soft rule penalizing a worker going too long
// without any assignment to a given shift type (§4.5.8).
type MaxAbsence struct {
	Base
}

// NewMaxAbsence constructs the max-absence constraint. The
// "shift_types" parameter, if set, restricts which shift types are
// tracked; unset means all of them.
func NewMaxAbsence(cfg model.ConstraintConfig) constraint.Constraint {
	return &MaxAbsence{Base: NewBase("max_absence", cfg)}
}

// Apply adds, for every worker, every tracked shift type, and every
// window [p,p+M] of size M+1, sum_{i=p..p+M} x[w,i,s] + v >= 1 with a
// per-window violation bool v. Skipped with a WARN log when the window
// is larger than the horizon.
func (c *MaxAbsence) Apply(solver cpmodel.Solver, vars *types.SolverVariables, ctx *constraint.Context) ([]constraint.Violation, error) {
	if !c.IsEnabled() {
		return nil, nil
	}

	m := c.ParamInt("max_periods_absent", 8)
	windowSize := m + 1
	if windowSize > ctx.NumPeriods {
		logger.Warn().Int("window_size", windowSize).Int("num_periods", ctx.NumPeriods).Msg("max_absence window larger than horizon, skipping")
		return nil, nil
	}

	target := c.ParamStringSlice("shift_types")
	var tracked []model.ShiftType
	if len(target) > 0 {
		targetSet := map[string]struct{}{}
		for _, id := range target {
			targetSet[id] = struct{}{}
		}
		for _, st := range ctx.ShiftTypes {
			if _, ok := targetSet[st.ID]; ok {
				tracked = append(tracked, st)
			}
		}
	} else {
		tracked = ctx.ShiftTypes
	}
	if len(tracked) == 0 {
		return nil, nil
	}

	var violations []constraint.Violation
	for _, w := range ctx.Workers {
		for _, st := range tracked {
			for p := 0; p+windowSize <= ctx.NumPeriods; p++ {
				sum := cpmodel.NewLinearExpr()
				for i := p; i < p+windowSize; i++ {
					v, err := vars.AssignmentVar(w.ID, i, st.ID)
					if err != nil {
						return nil, err
					}
					sum.Add(v)
				}

				if c.IsHard() {
					solver.AddLinearGE(sum, 1)
					continue
				}

				v := solver.NewBool()
				sum.Add(v)
				solver.AddLinearGE(sum, 1)

				name := fmt.Sprintf("abs_viol_%s_%s_w%d", w.ID, st.ID, p)
				violations = append(violations, constraint.Violation{Name: name, Var: v, Type: constraint.VarViolation})
			}
		}
	}
	return violations, nil
}
