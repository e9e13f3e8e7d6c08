package model

import "time"

// SolveStatus mirrors the backend solver's terminal status (§4.2, §6).
type SolveStatus string

const (
	StatusOptimal            SolveStatus = "optimal"
	StatusFeasible           SolveStatus = "feasible"
	StatusInfeasible         SolveStatus = "infeasible"
	StatusUnknown            SolveStatus = "unknown"
	StatusPreSolveInfeasible SolveStatus = "pre_solve_infeasible"
)

// Assignment is one worker assigned to one shift type on one date. Duration
// and time-of-day are not duplicated here; callers resolve them from the
// ShiftType looked up by ShiftTypeID (§3 invariant).
type Assignment struct {
	WorkerID    string
	ShiftTypeID string
	Date        time.Time
}

// PeriodAssignment groups Assignments for a single period by worker.
type PeriodAssignment struct {
	Start       time.Time
	End         time.Time
	Assignments map[string][]Assignment // worker_id -> assignments
}

// ConstraintStat summarizes one constraint's contribution to a solved
// Schedule (§4.9).
type ConstraintStat struct {
	ConstraintName  string
	ViolationCount  int
	WeightedPenalty float64
	WorstOffenders  []string
}

// Schedule is the sole output type that survives a solve (§3). All other
// model, variable, and accumulator state is owned by the orchestrator for
// the duration of one solve and dropped afterward.
type Schedule struct {
	ID              string
	StartDate       time.Time
	EndDate         time.Time
	PeriodType      string
	Workers         []Worker
	ShiftTypes      []ShiftType
	Periods         []PeriodAssignment
	Status          SolveStatus
	ObjectiveValue  *float64
	WallTimeSeconds float64
	Statistics      []ConstraintStat
}

// NumPeriods is the number of periods in the schedule.
func (s Schedule) NumPeriods() int {
	return len(s.Periods)
}
