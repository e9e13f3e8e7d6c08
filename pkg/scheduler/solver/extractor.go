package solver

import (
	"sort"

	"github.com/shiftsolver/core/pkg/calendar"
	"github.com/shiftsolver/core/pkg/cpmodel"
	"github.com/shiftsolver/core/pkg/model"
	"github.com/shiftsolver/core/pkg/scheduler/objective"
	"github.com/shiftsolver/core/pkg/scheduler/solver/types"
)

// SolutionExtractor reads a solved model back into a model.Schedule and
// computes per-constraint violation statistics (§4.9).
type SolutionExtractor struct {
	solver     cpmodel.Solver
	vars       *types.SolverVariables
	workers    []model.Worker
	shiftTypes []model.ShiftType
	cal        *calendar.Calendar
	obj        *objective.Builder
}

// NewSolutionExtractor constructs an extractor bound to one solved model.
func NewSolutionExtractor(
	solver cpmodel.Solver,
	vars *types.SolverVariables,
	workers []model.Worker,
	shiftTypes []model.ShiftType,
	cal *calendar.Calendar,
	obj *objective.Builder,
) *SolutionExtractor {
	return &SolutionExtractor{
		solver: solver, vars: vars, workers: workers, shiftTypes: shiftTypes, cal: cal, obj: obj,
	}
}

// Extract reads every true x[w,p,s] variable, groups them by period into
// PeriodAssignments, and computes per-constraint statistics (§4.9). Only
// meaningful after a Solve call returning Optimal or Feasible.
func (e *SolutionExtractor) Extract(scheduleID string, solveResult cpmodel.Result) (model.Schedule, error) {
	periods := make([]model.PeriodAssignment, e.cal.NumPeriods())
	for p := 0; p < e.cal.NumPeriods(); p++ {
		period := e.cal.Period(p)
		periods[p] = model.PeriodAssignment{
			Start:       period.Start,
			End:         period.End,
			Assignments: map[string][]model.Assignment{},
		}
	}

	for _, entry := range e.vars.AllAssignmentVars() {
		if e.solver.ValueOf(entry.Var) != 1 {
			continue
		}
		dates := e.cal.DatesInPeriod(entry.Period)
		date := dates[0]
		periods[entry.Period].Assignments[entry.WorkerID] = append(
			periods[entry.Period].Assignments[entry.WorkerID],
			model.Assignment{WorkerID: entry.WorkerID, ShiftTypeID: entry.ShiftTypeID, Date: date},
		)
	}

	schedule := model.Schedule{
		ID:              scheduleID,
		StartDate:       e.cal.StartDate(),
		EndDate:         e.cal.EndDate(),
		PeriodType:      e.cal.PeriodType(),
		Workers:         e.workers,
		ShiftTypes:      e.shiftTypes,
		Periods:         periods,
		Status:          statusFromCPStatus(solveResult.Status),
		ObjectiveValue:  solveResult.ObjectiveValue,
		WallTimeSeconds: solveResult.WallTime.Seconds(),
		Statistics:      e.constraintStats(),
	}
	return schedule, nil
}

func statusFromCPStatus(s cpmodel.Status) model.SolveStatus {
	switch s {
	case cpmodel.Optimal:
		return model.StatusOptimal
	case cpmodel.Feasible:
		return model.StatusFeasible
	case cpmodel.Infeasible:
		return model.StatusInfeasible
	case cpmodel.PreSolveInfeasible:
		return model.StatusPreSolveInfeasible
	default:
		return model.StatusUnknown
	}
}

// constraintStats groups the objective builder's accumulated terms by
// constraint, counting active (true) violation variables and summing
// the weighted penalty each contributed, with named worst offenders for
// per-request/per-worker violation names (§4.9).
func (e *SolutionExtractor) constraintStats() []model.ConstraintStat {
	if e.obj == nil {
		return nil
	}

	type accum struct {
		count     int
		penalty   float64
		offenders []string
	}
	byConstraint := map[string]*accum{}
	var order []string

	for _, term := range e.obj.Terms() {
		a, ok := byConstraint[term.ConstraintName]
		if !ok {
			a = &accum{}
			byConstraint[term.ConstraintName] = a
			order = append(order, term.ConstraintName)
		}

		value := e.solver.ValueOf(term.Violation.Var)
		if value == 0 {
			continue
		}
		a.count++
		a.penalty += float64(term.Coefficient) * float64(value)
		a.offenders = append(a.offenders, term.Violation.Name)
	}

	sort.Strings(order)
	stats := make([]model.ConstraintStat, 0, len(order))
	for _, name := range order {
		a := byConstraint[name]
		sort.Strings(a.offenders)
		stats = append(stats, model.ConstraintStat{
			ConstraintName:  name,
			ViolationCount:  a.count,
			WeightedPenalty: a.penalty,
			WorstOffenders:  a.offenders,
		})
	}
	return stats
}
