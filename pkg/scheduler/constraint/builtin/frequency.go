package builtin

import (
	"fmt"

	"github.com/shiftsolver/core/pkg/cpmodel"
	"github.com/shiftsolver/core/pkg/logger"
	"github.com/shiftsolver/core/pkg/model"
	"github.com/shiftsolver/core/pkg/scheduler/constraint"
	"github.com/shiftsolver/core/pkg/scheduler/solver/types"
)

// Frequency is the soft rule that no worker goes more than
// default_max_periods_between periods without any assignment (§4.5.5).
type Frequency struct {
	Base
}

// NewFrequency constructs the frequency constraint.
func NewFrequency(cfg model.ConstraintConfig) constraint.Constraint {
	return &Frequency{Base: NewBase("frequency", cfg)}
}

// Apply adds, for every worker and every window [p,p+N] of size N+1
// intersecting the horizon, sum_{i=p..p+N} sum_s x[w,i,s] >= 1 in hard
// mode, or sum + v >= 1 with a per-window violation bool v in soft mode.
// Skipped with a WARN log when the window is larger than the horizon.
func (c *Frequency) Apply(solver cpmodel.Solver, vars *types.SolverVariables, ctx *constraint.Context) ([]constraint.Violation, error) {
	if !c.IsEnabled() {
		return nil, nil
	}

	n := c.ParamInt("default_max_periods_between", 4)
	windowSize := n + 1
	if windowSize > ctx.NumPeriods {
		logger.Warn().Int("window_size", windowSize).Int("num_periods", ctx.NumPeriods).Msg("frequency window larger than horizon, skipping")
		return nil, nil
	}

	var violations []constraint.Violation
	for _, w := range ctx.Workers {
		for p := 0; p+windowSize <= ctx.NumPeriods; p++ {
			sum := cpmodel.NewLinearExpr()
			for i := p; i < p+windowSize; i++ {
				periodVars, err := vars.WorkerPeriodVars(w.ID, i)
				if err != nil {
					return nil, err
				}
				for _, v := range periodVars {
					sum.Add(v)
				}
			}

			if c.IsHard() {
				solver.AddLinearGE(sum, 1)
				continue
			}

			v := solver.NewBool()
			sum.Add(v)
			solver.AddLinearGE(sum, 1)

			name := fmt.Sprintf("freq_viol_%s_w%d", w.ID, p)
			violations = append(violations, constraint.Violation{Name: name, Var: v, Type: constraint.VarViolation})
		}
	}
	return violations, nil
}
