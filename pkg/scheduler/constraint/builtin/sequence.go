package builtin

import (
	"fmt"

	"github.com/shiftsolver/core/pkg/cpmodel"
	"github.com/shiftsolver/core/pkg/model"
	"github.com/shiftsolver/core/pkg/scheduler/constraint"
	"github.com/shiftsolver/core/pkg/scheduler/solver/types"
)

// Sequence is the soft rule discouraging a worker from being assigned
// to any of the selected shift types in two consecutive periods; the
// shifts are summed per period, so the two shifts need not be the same
// one (§4.5.7).
type Sequence struct {
	Base
}

// NewSequence constructs the sequence constraint. The "categories"
// parameter restricts which shift categories count; unset means all.
func NewSequence(cfg model.ConstraintConfig) constraint.Constraint {
	return &Sequence{Base: NewBase("sequence", cfg)}
}

func (c *Sequence) Apply(solver cpmodel.Solver, vars *types.SolverVariables, ctx *constraint.Context) ([]constraint.Violation, error) {
	if !c.IsEnabled() || ctx.NumPeriods < 2 {
		return nil, nil
	}

	categories := c.ParamStringSlice("categories")
	var catSet map[string]struct{}
	if len(categories) > 0 {
		catSet = map[string]struct{}{}
		for _, cat := range categories {
			catSet[cat] = struct{}{}
		}
	}

	var selected []string
	for _, st := range ctx.ShiftTypes {
		if catSet == nil {
			selected = append(selected, st.ID)
			continue
		}
		if _, ok := catSet[st.Category]; ok {
			selected = append(selected, st.ID)
		}
	}
	if len(selected) == 0 {
		return nil, nil
	}

	periodSum := func(workerID string, period int) *cpmodel.LinearExpr {
		sum := cpmodel.NewLinearExpr()
		for _, shiftID := range selected {
			v, err := vars.AssignmentVar(workerID, period, shiftID)
			if err != nil {
				continue
			}
			sum.Add(v)
		}
		return sum
	}

	var violations []constraint.Violation
	for _, w := range ctx.Workers {
		for p := 0; p < ctx.NumPeriods-1; p++ {
			aP := periodSum(w.ID, p)
			aNext := periodSum(w.ID, p+1)

			c1 := solver.NewBool()

			// c - a_p - a_{p+1} >= -1, i.e. c >= a_p + a_{p+1} - 1
			ge := cpmodel.NewLinearExpr().Add(c1)
			ge.Terms = append(ge.Terms, negate(aP.Terms)...)
			ge.Terms = append(ge.Terms, negate(aNext.Terms)...)
			solver.AddLinearGE(ge, -1)

			// c <= a_p
			le1 := cpmodel.NewLinearExpr().Add(c1)
			le1.Terms = append(le1.Terms, negate(aP.Terms)...)
			solver.AddLinearLE(le1, 0)

			// c <= a_{p+1}
			le2 := cpmodel.NewLinearExpr().Add(c1)
			le2.Terms = append(le2.Terms, negate(aNext.Terms)...)
			solver.AddLinearLE(le2, 0)

			name := fmt.Sprintf("seq_viol_%s_p%d", w.ID, p)
			violations = append(violations, constraint.Violation{Name: name, Var: c1, Type: constraint.VarViolation})
		}
	}
	return violations, nil
}

func negate(terms []cpmodel.Term) []cpmodel.Term {
	out := make([]cpmodel.Term, len(terms))
	for i, t := range terms {
		out[i] = cpmodel.Term{Coeff: -t.Coeff, Var: t.Var}
	}
	return out
}
