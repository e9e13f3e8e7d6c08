package builtin

import (
	"fmt"

	"github.com/shiftsolver/core/pkg/cpmodel"
	"github.com/shiftsolver/core/pkg/model"
	"github.com/shiftsolver/core/pkg/scheduler/constraint"
	"github.com/shiftsolver/core/pkg/scheduler/solver/types"
)

// ShiftFrequency enforces per-worker, per-requirement frequency rules
// over a caller-supplied shift-type group: worker w must work at least
// one shift from S_R within every sliding window of size N_R (§4.5.9).
//
// Unlike Frequency, which applies uniformly to all workers over all
// shift types, this constraint is driven entirely by the caller's
// ShiftFrequencyRequirements — distinct workers can carry distinct
// requirements over distinct shift-type groups.
type ShiftFrequency struct {
	Base
}

// NewShiftFrequency constructs the shift-frequency constraint.
func NewShiftFrequency(cfg model.ConstraintConfig) constraint.Constraint {
	return &ShiftFrequency{Base: NewBase("shift_frequency", cfg)}
}

func (c *ShiftFrequency) Apply(solver cpmodel.Solver, vars *types.SolverVariables, ctx *constraint.Context) ([]constraint.Violation, error) {
	if !c.IsEnabled() || len(ctx.ShiftFrequencyRequirements) == 0 {
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
	for _, req := range ctx.ShiftFrequencyRequirements {
		if _, ok := validWorkers[req.WorkerID]; !ok {
			continue
		}

		var selected []string
		for id := range req.ShiftTypes {
			if _, ok := validShifts[id]; ok {
				selected = append(selected, id)
			}
		}
		if len(selected) == 0 {
			continue
		}

		windowSize := req.MaxPeriodsBetween
		if windowSize <= 0 {
			continue
		}
		if windowSize > ctx.NumPeriods {
			windowSize = ctx.NumPeriods
		}

		for p := 0; p+windowSize <= ctx.NumPeriods; p++ {
			sum := cpmodel.NewLinearExpr()
			hasVar := false
			for i := p; i < p+windowSize; i++ {
				for _, shiftID := range selected {
					v, err := vars.AssignmentVar(req.WorkerID, i, shiftID)
					if err != nil {
						continue
					}
					sum.Add(v)
					hasVar = true
				}
			}

			name := fmt.Sprintf("sf_viol_%s_w%d", req.WorkerID, p)

			if !hasVar {
				// No assignment variable exists anywhere in this window
				// (every lookup for the worker and the group's shifts
				// failed) — the requirement can never be met here.
				if c.IsHard() {
					solver.AddLinearLE(cpmodel.NewLinearExpr(), -1)
				} else {
					v := solver.NewBool()
					solver.AddLinearGE(cpmodel.NewLinearExpr().Add(v), 1)
					violations = append(violations, constraint.Violation{Name: name, Var: v, Type: constraint.VarViolation})
				}
				continue
			}

			if c.IsHard() {
				solver.AddLinearGE(sum, 1)
				continue
			}

			v := solver.NewBool()
			zeroRef := solver.AddLinearEq(sum, 0)
			oneRef := solver.AddLinearGE(sum, 1)
			solver.AddImplication(v.Lit(), zeroRef)
			solver.AddImplication(v.Not(), oneRef)

			violations = append(violations, constraint.Violation{Name: name, Var: v, Type: constraint.VarViolation})
		}
	}
	return violations, nil
}
