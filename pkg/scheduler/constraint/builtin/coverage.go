package builtin

import (
	"time"

	"github.com/shiftsolver/core/pkg/calendar"
	"github.com/shiftsolver/core/pkg/cpmodel"
	"github.com/shiftsolver/core/pkg/model"
	"github.com/shiftsolver/core/pkg/scheduler/constraint"
	"github.com/shiftsolver/core/pkg/scheduler/solver/types"
)

// Coverage is the hard, always-enabled rule that every (period, shift
// type) pair is staffed to exactly workers_required (§4.5.1).
type Coverage struct {
	Base
}

// NewCoverage constructs the coverage constraint. cfg is normally
// {Enabled: true, IsHard: true} — the registry enforces that as the
// non-overridable default.
func NewCoverage(cfg model.ConstraintConfig) constraint.Constraint {
	return &Coverage{Base: NewBase("coverage", cfg)}
}

// Apply adds sum_w x[w,p,s] == s.workers_required for every (p,s) whose
// period contains at least one of s.applicable_days; the equation is
// omitted entirely (not forced to zero) when a period has none, so no
// infeasibility is manufactured by a shift type that simply doesn't run
// that period.
func (c *Coverage) Apply(solver cpmodel.Solver, vars *types.SolverVariables, ctx *constraint.Context) ([]constraint.Violation, error) {
	if !c.IsEnabled() {
		return nil, nil
	}

	for p := 0; p < ctx.NumPeriods; p++ {
		for _, st := range ctx.ShiftTypes {
			if st.ApplicableDays != nil && !periodHasApplicableDay(ctx.PeriodDates, p, st) {
				continue
			}

			sum := cpmodel.NewLinearExpr()
			for _, w := range ctx.Workers {
				v, err := vars.AssignmentVar(w.ID, p, st.ID)
				if err != nil {
					return nil, err
				}
				sum.Add(v)
			}
			solver.AddLinearEq(sum, int64(st.WorkersRequired))
		}
	}
	return nil, nil
}

// periodHasApplicableDay reports whether period p (as dated by
// periodDates) contains at least one weekday the shift type applies on.
// Availability applies date-by-date (§9); a period outside periodDates'
// range is treated as having no applicable days.
func periodHasApplicableDay(periodDates []calendar.Period, p int, st model.ShiftType) bool {
	if p < 0 || p >= len(periodDates) {
		return false
	}
	period := periodDates[p]
	for d := period.Start; !d.After(period.End); d = d.AddDate(0, 0, 1) {
		if st.IsApplicableOn(isoWeekday(d)) {
			return true
		}
	}
	return false
}

// isoWeekday converts a time.Weekday (0=Sunday..6=Saturday) to the
// model package's weekday index (0=Monday..6=Sunday).
func isoWeekday(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}
