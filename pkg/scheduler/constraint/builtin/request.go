package builtin

import (
	"fmt"

	"github.com/shiftsolver/core/pkg/cpmodel"
	"github.com/shiftsolver/core/pkg/model"
	"github.com/shiftsolver/core/pkg/scheduler/constraint"
	"github.com/shiftsolver/core/pkg/scheduler/solver/types"
)

// Request honors per-worker scheduling preferences, soft by default but
// hard per-request when the request's own IsHard is set (§4.5.6).
type Request struct {
	Base
}

// NewRequest constructs the request constraint.
func NewRequest(cfg model.ConstraintConfig) constraint.Constraint {
	return &Request{Base: NewBase("request", cfg)}
}

// Apply maps each request to its x[w,p,s] variable and either enforces
// it directly (hard) or registers a reified violation bool priced by the
// request's own priority (soft), via a violation_priorities side-channel
// rather than by parsing the variable's name (§9).
func (c *Request) Apply(solver cpmodel.Solver, vars *types.SolverVariables, ctx *constraint.Context) ([]constraint.Violation, error) {
	if !c.IsEnabled() {
		return nil, nil
	}

	validWorkers := map[string]struct{}{}
	for _, w := range ctx.Workers {
		validWorkers[w.ID] = struct{}{}
	}
	validShifts := map[string]struct{}{}
	for _, st := range ctx.ShiftTypes {
		validShifts[st.ID] = struct{}{}
	}

	var violations []constraint.Violation
	for idx, r := range ctx.Requests {
		if _, ok := validWorkers[r.WorkerID]; !ok {
			continue
		}
		if _, ok := validShifts[r.ShiftTypeID]; !ok {
			continue
		}
		if r.PeriodIndex < 0 || r.PeriodIndex >= ctx.NumPeriods {
			continue
		}

		x, err := vars.AssignmentVar(r.WorkerID, r.PeriodIndex, r.ShiftTypeID)
		if err != nil {
			return nil, err
		}

		if r.IsHard {
			if r.IsPositive {
				solver.AddLinearGE(cpmodel.NewLinearExpr().Add(x), 1)
			} else {
				solver.AddLinearEq(cpmodel.NewLinearExpr().Add(x), 0)
			}
			continue
		}

		v := solver.NewBool()
		zeroRef := solver.AddLinearEq(cpmodel.NewLinearExpr().Add(x), 0)
		oneRef := solver.AddLinearGE(cpmodel.NewLinearExpr().Add(x), 1)

		if r.IsPositive {
			// v <=> x==0: v implies x==0; not-v implies x>=1.
			solver.AddImplication(v.Lit(), zeroRef)
			solver.AddImplication(v.Not(), oneRef)
		} else {
			// v <=> x>=1: v implies x>=1; not-v implies x==0.
			solver.AddImplication(v.Lit(), oneRef)
			solver.AddImplication(v.Not(), zeroRef)
		}

		name := fmt.Sprintf("req_viol_%s_%s_p%d_r%d", r.WorkerID, r.ShiftTypeID, r.PeriodIndex, idx)
		violations = append(violations, constraint.Violation{
			Name: name, Var: v, Type: constraint.VarViolation, Priority: r.Priority,
		})
	}
	return violations, nil
}
