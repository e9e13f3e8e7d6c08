package builtin

import (
	"fmt"

	"github.com/shiftsolver/core/pkg/cpmodel"
	"github.com/shiftsolver/core/pkg/model"
	"github.com/shiftsolver/core/pkg/scheduler/constraint"
	"github.com/shiftsolver/core/pkg/scheduler/solver/types"
)

// ShiftOrderPreference is the soft rule rewarding a preferred shift-type
// or category transition between two adjacent periods once a trigger
// fires — a shift type, a category, or the worker's own unavailability
// (§4.5.10).
type ShiftOrderPreference struct {
	Base
}

// NewShiftOrderPreference constructs the shift-order-preference constraint.
func NewShiftOrderPreference(cfg model.ConstraintConfig) constraint.Constraint {
	return &ShiftOrderPreference{Base: NewBase("shift_order_preference", cfg)}
}

// Apply registers one violation per (worker, rule, trigger period) where
// the rule's trigger fires but its preferred transition is not met. A
// constant trigger (unavailability) reifies directly as "violation <=>
// preferred not met"; a variable trigger (shift_type/category) reifies
// as "violation <=> trigger AND NOT preferred" using the same
// three-inequality AND pattern Sequence uses for its own adjacency check.
func (c *ShiftOrderPreference) Apply(solver cpmodel.Solver, vars *types.SolverVariables, ctx *constraint.Context) ([]constraint.Violation, error) {
	if !c.IsEnabled() || ctx.NumPeriods < 2 {
		return nil, nil
	}

	shiftByID := map[string]model.ShiftType{}
	shiftsByCategory := map[string][]string{}
	for _, st := range ctx.ShiftTypes {
		shiftByID[st.ID] = st
		shiftsByCategory[st.Category] = append(shiftsByCategory[st.Category], st.ID)
	}

	restrictedSum := func(workerID string, period int, shiftIDs []string, restricted map[string]struct{}) (*cpmodel.LinearExpr, bool) {
		sum := cpmodel.NewLinearExpr()
		found := false
		for _, id := range shiftIDs {
			if _, isRestricted := restricted[id]; isRestricted {
				continue
			}
			v, err := vars.AssignmentVar(workerID, period, id)
			if err != nil {
				continue
			}
			sum.Add(v)
			found = true
		}
		return sum, found
	}

	workerUnavailable := func(workerID string, period int) bool {
		if period < 0 || period >= len(ctx.PeriodDates) {
			return false
		}
		p := ctx.PeriodDates[period]
		for _, a := range ctx.Availabilities {
			if a.WorkerID != workerID || a.Type != model.Unavailable {
				continue
			}
			if a.OverlapsRange(p.Start, p.End) {
				return true
			}
		}
		return false
	}

	var violations []constraint.Violation
	for _, rule := range ctx.ShiftOrderPreferences {
		var triggerShiftIDs []string
		switch rule.TriggerType {
		case model.OrderTriggerShiftType:
			if _, ok := shiftByID[rule.TriggerValue]; !ok {
				continue
			}
			triggerShiftIDs = []string{rule.TriggerValue}
		case model.OrderTriggerCategory:
			triggerShiftIDs = shiftsByCategory[rule.TriggerValue]
			if len(triggerShiftIDs) == 0 {
				continue
			}
		case model.OrderTriggerUnavailability:
			// no shift-type lookup; the trigger is the worker's own
			// unavailability on the trigger period.
		default:
			continue
		}

		var preferredShiftIDs []string
		switch rule.PreferredType {
		case model.OrderPreferredShiftType:
			if _, ok := shiftByID[rule.PreferredValue]; !ok {
				continue
			}
			preferredShiftIDs = []string{rule.PreferredValue}
		case model.OrderPreferredCategory:
			preferredShiftIDs = shiftsByCategory[rule.PreferredValue]
			if len(preferredShiftIDs) == 0 {
				continue
			}
		default:
			continue
		}

		for _, w := range ctx.Workers {
			if !rule.AppliesToWorker(w.ID) {
				continue
			}

			for p := 0; p < ctx.NumPeriods-1; p++ {
				var triggerPeriod, preferredPeriod int
				switch rule.Direction {
				case model.OrderAfter:
					triggerPeriod, preferredPeriod = p, p+1
				case model.OrderBefore:
					triggerPeriod, preferredPeriod = p+1, p
				default:
					continue
				}

				preferredExpr, ok := restrictedSum(w.ID, preferredPeriod, preferredShiftIDs, w.RestrictedShifts)
				if !ok {
					continue
				}

				name := fmt.Sprintf("sop_viol_%s_%s_p%d", w.ID, rule.RuleID, triggerPeriod)

				if rule.TriggerType == model.OrderTriggerUnavailability {
					if !workerUnavailable(w.ID, triggerPeriod) {
						continue
					}
					v := solver.NewBool()
					zeroRef := solver.AddLinearEq(preferredExpr, 0)
					oneRef := solver.AddLinearGE(preferredExpr, 1)
					solver.AddImplication(v.Lit(), zeroRef)
					solver.AddImplication(v.Not(), oneRef)
					violations = append(violations, constraint.Violation{
						Name: name, Var: v, Type: constraint.VarViolation, Priority: rule.Priority,
					})
					continue
				}

				triggerExpr := cpmodel.NewLinearExpr()
				for _, id := range triggerShiftIDs {
					tv, err := vars.AssignmentVar(w.ID, triggerPeriod, id)
					if err != nil {
						continue
					}
					triggerExpr.Add(tv)
				}

				v := solver.NewBool()

				// v >= trigger - preferred, i.e. v - trigger + preferred >= 0
				ge := cpmodel.NewLinearExpr().Add(v)
				ge.Terms = append(ge.Terms, negate(triggerExpr.Terms)...)
				ge.Terms = append(ge.Terms, preferredExpr.Terms...)
				solver.AddLinearGE(ge, 0)

				// v <= trigger
				le1 := cpmodel.NewLinearExpr().Add(v)
				le1.Terms = append(le1.Terms, negate(triggerExpr.Terms)...)
				solver.AddLinearLE(le1, 0)

				// v <= 1 - preferred, i.e. v + preferred <= 1
				le2 := cpmodel.NewLinearExpr().Add(v)
				le2.Terms = append(le2.Terms, preferredExpr.Terms...)
				solver.AddLinearLE(le2, 1)

				violations = append(violations, constraint.Violation{
					Name: name, Var: v, Type: constraint.VarViolation, Priority: rule.Priority,
				})
			}
		}
	}
	return violations, nil
}
