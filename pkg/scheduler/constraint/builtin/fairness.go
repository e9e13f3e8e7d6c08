package builtin

import (
	"github.com/shiftsolver/core/pkg/cpmodel"
	"github.com/shiftsolver/core/pkg/model"
	"github.com/shiftsolver/core/pkg/scheduler/constraint"
	"github.com/shiftsolver/core/pkg/scheduler/solver/types"
)

// Fairness balances the load of undesirable shifts across active
// workers by minimizing the spread between the most- and
// least-loaded worker's undesirable-shift total (§4.5.4).
type Fairness struct {
	Base
}

// NewFairness constructs the fairness constraint. The "categories"
// parameter, if set, restricts the balanced shift set to those
// categories instead of the is_undesirable flag.
func NewFairness(cfg model.ConstraintConfig) constraint.Constraint {
	return &Fairness{Base: NewBase("fairness", cfg)}
}

func (c *Fairness) Apply(solver cpmodel.Solver, vars *types.SolverVariables, ctx *constraint.Context) ([]constraint.Violation, error) {
	if !c.IsEnabled() {
		return nil, nil
	}

	activeWorkers := make([]model.Worker, 0, len(ctx.Workers))
	for _, w := range ctx.Workers {
		if w.IsActive {
			activeWorkers = append(activeWorkers, w)
		}
	}
	if len(activeWorkers) < 2 {
		return nil, nil
	}

	categories := c.ParamStringSlice("categories")
	var selected []string
	if len(categories) > 0 {
		catSet := map[string]struct{}{}
		for _, cat := range categories {
			catSet[cat] = struct{}{}
		}
		for _, st := range ctx.ShiftTypes {
			if _, ok := catSet[st.Category]; ok {
				selected = append(selected, st.ID)
			}
		}
	} else {
		for _, st := range ctx.ShiftTypes {
			if st.IsUndesirable {
				selected = append(selected, st.ID)
			}
		}
	}
	if len(selected) == 0 {
		return nil, nil
	}

	totals := make([]cpmodel.IntVar, 0, len(activeWorkers))
	maxPossible := int64(ctx.NumPeriods) * int64(len(selected))

	if len(categories) == 0 {
		for _, w := range activeWorkers {
			total, err := vars.UndesirableTotalVar(w.ID)
			if err != nil {
				return nil, err
			}
			totals = append(totals, total)
		}
	} else {
		for _, w := range activeWorkers {
			total := solver.NewInt(0, maxPossible)
			sum := cpmodel.NewLinearExpr()
			for p := 0; p < ctx.NumPeriods; p++ {
				for _, shiftID := range selected {
					v, err := vars.AssignmentVar(w.ID, p, shiftID)
					if err != nil {
						return nil, err
					}
					sum.Add(v)
				}
			}
			sum.AddTerm(-1, total)
			solver.AddLinearEq(sum, 0)
			totals = append(totals, total)
		}
	}
	if len(totals) < 2 {
		return nil, nil
	}

	maxU := solver.NewInt(0, maxPossible)
	minU := solver.NewInt(0, maxPossible)
	for _, total := range totals {
		solver.AddLinearGE(cpmodel.NewLinearExpr().Add(maxU).AddTerm(-1, total), 0)
		solver.AddLinearLE(cpmodel.NewLinearExpr().Add(minU).AddTerm(-1, total), 0)
	}

	spread := solver.NewInt(0, maxPossible)
	spreadExpr := cpmodel.NewLinearExpr().Add(spread).AddTerm(-1, maxU).AddTerm(1, minU)
	solver.AddLinearEq(spreadExpr, 0)

	violations := []constraint.Violation{
		{Name: "fairness_max_undesirable", Var: maxU, Type: constraint.VarAuxiliary},
		{Name: "fairness_min_undesirable", Var: minU, Type: constraint.VarAuxiliary},
		{Name: "fairness_spread", Var: spread, Type: constraint.VarObjectiveTarget},
	}

	if c.IsHard() {
		solver.AddLinearEq(cpmodel.NewLinearExpr().Add(spread), 0)
	}
	return violations, nil
}
