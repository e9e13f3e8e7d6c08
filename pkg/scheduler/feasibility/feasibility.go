// Package feasibility runs the pre-solve sanity checks of §4.4: cheap,
// solver-free scans that catch obviously infeasible input before the
// orchestrator ever builds a model, so a misconfigured schedule fails
// fast with an actionable message instead of a slow infeasible solve.
package feasibility

import (
	"fmt"

	"github.com/shiftsolver/core/pkg/calendar"
	"github.com/shiftsolver/core/pkg/model"
)

// Severity classifies an Issue. Fatal issues make the orchestrator
// short-circuit straight to PreSolveInfeasible; Warning issues are
// surfaced to the caller but never block a solve attempt.
type Severity string

const (
	Fatal   Severity = "fatal"
	Warning Severity = "warning"
)

// Kind names which of the six checks in §4.4 produced an Issue.
type Kind string

const (
	KindCoverageReachability Kind = "coverage_reachability"
	KindPeriodAvailability   Kind = "period_availability"
	KindDuplicateID          Kind = "duplicate_id"
	KindRequestRestriction   Kind = "request_restriction"
	KindShiftFrequency       Kind = "shift_frequency"
	KindHorizon              Kind = "horizon"
)

// Issue is one actionable finding: which check produced it, how severe
// it is, and a human-readable message naming the worker/shift/window
// involved.
type Issue struct {
	Severity Severity
	Kind     Kind
	Message  string
}

// Input is the full immutable input set the checker inspects — the
// same shape the constraint library's apply() receives, since the
// checks are a cheap pre-pass over the same data (§4.4).
type Input struct {
	Workers                    []model.Worker
	ShiftTypes                 []model.ShiftType
	PeriodDates                []calendar.Period
	Availabilities             []model.Availability
	Requests                   []model.SchedulingRequest
	ShiftFrequencyRequirements []model.ShiftFrequencyRequirement
	NumPeriods                 int
	PeriodLengthDays           int
}

// Check runs all six checks of §4.4 and returns every Issue found, in
// check order. The caller (the orchestrator) decides what to do with
// the result; Check itself never fails.
func Check(in Input) []Issue {
	var issues []Issue
	issues = append(issues, checkHorizon(in)...)
	issues = append(issues, checkDuplicateIDs(in)...)
	issues = append(issues, checkCoverageReachability(in)...)
	issues = append(issues, checkPeriodAvailability(in)...)
	issues = append(issues, checkRequestRestrictionConflicts(in)...)
	issues = append(issues, checkShiftFrequencySolvability(in)...)
	return issues
}

// HasFatal reports whether issues contains at least one Fatal entry.
func HasFatal(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == Fatal {
			return true
		}
	}
	return false
}

// 6. Horizon sanity: P >= 1, period_length_days >= 1.
func checkHorizon(in Input) []Issue {
	var issues []Issue
	if in.NumPeriods < 1 {
		issues = append(issues, Issue{
			Severity: Fatal, Kind: KindHorizon,
			Message: fmt.Sprintf("horizon has %d periods, at least 1 is required", in.NumPeriods),
		})
	}
	if in.PeriodLengthDays < 1 {
		issues = append(issues, Issue{
			Severity: Fatal, Kind: KindHorizon,
			Message: fmt.Sprintf("period length is %d days, at least 1 is required", in.PeriodLengthDays),
		})
	}
	return issues
}

// 3. Duplicate IDs: worker IDs and shift-type IDs must be unique.
func checkDuplicateIDs(in Input) []Issue {
	var issues []Issue
	seen := map[string]struct{}{}
	for _, w := range in.Workers {
		if _, ok := seen[w.ID]; ok {
			issues = append(issues, Issue{
				Severity: Fatal, Kind: KindDuplicateID,
				Message: fmt.Sprintf("duplicate worker id %q", w.ID),
			})
			continue
		}
		seen[w.ID] = struct{}{}
	}
	seenShift := map[string]struct{}{}
	for _, st := range in.ShiftTypes {
		if _, ok := seenShift[st.ID]; ok {
			issues = append(issues, Issue{
				Severity: Fatal, Kind: KindDuplicateID,
				Message: fmt.Sprintf("duplicate shift-type id %q", st.ID),
			})
			continue
		}
		seenShift[st.ID] = struct{}{}
	}
	return issues
}

// 1. Coverage reachability: for each s, the active non-restricted pool
// must be at least workers_required, ignoring availability entirely.
func checkCoverageReachability(in Input) []Issue {
	var issues []Issue
	for _, st := range in.ShiftTypes {
		eligible := 0
		for _, w := range in.Workers {
			if !w.IsActive {
				continue
			}
			if w.CanWorkShift(st.ID) {
				eligible++
			}
		}
		if eligible < st.WorkersRequired {
			issues = append(issues, Issue{
				Severity: Fatal, Kind: KindCoverageReachability,
				Message: fmt.Sprintf(
					"shift-type %q cannot be covered: %d required, %d eligible",
					st.Name, st.WorkersRequired, eligible,
				),
			})
		}
	}
	return issues
}

// 2. Per-period availability: combine coverage reachability with
// per-period unavailability to find the actually-eligible pool.
func checkPeriodAvailability(in Input) []Issue {
	var issues []Issue
	if len(in.Availabilities) == 0 {
		return nil
	}

	for p := 0; p < in.NumPeriods && p < len(in.PeriodDates); p++ {
		period := in.PeriodDates[p]
		unavailable := map[string]struct{}{}
		for _, a := range in.Availabilities {
			if a.Type != model.Unavailable {
				continue
			}
			if a.OverlapsRange(period.Start, period.End) {
				unavailable[a.WorkerID] = struct{}{}
			}
		}

		for _, st := range in.ShiftTypes {
			eligible := 0
			for _, w := range in.Workers {
				if !w.IsActive || !w.CanWorkShift(st.ID) {
					continue
				}
				if _, out := unavailable[w.ID]; out {
					continue
				}
				eligible++
			}
			if eligible < st.WorkersRequired {
				issues = append(issues, Issue{
					Severity: Fatal, Kind: KindPeriodAvailability,
					Message: fmt.Sprintf(
						"period %d: shift-type %q cannot be covered after availability: %d required, %d eligible",
						p, st.Name, st.WorkersRequired, eligible,
					),
				})
			}
		}
	}
	return issues
}

// 4. Request-restriction conflicts (hard requests only): a hard
// positive request naming a restricted shift is Fatal.
func checkRequestRestrictionConflicts(in Input) []Issue {
	var issues []Issue
	workerByID := map[string]model.Worker{}
	for _, w := range in.Workers {
		workerByID[w.ID] = w
	}

	for _, r := range in.Requests {
		if !r.IsHard || !r.IsPositive {
			continue
		}
		w, ok := workerByID[r.WorkerID]
		if !ok {
			continue
		}
		if !w.CanWorkShift(r.ShiftTypeID) {
			issues = append(issues, Issue{
				Severity: Fatal, Kind: KindRequestRestriction,
				Message: fmt.Sprintf(
					"worker %q has a hard request for restricted shift-type %q",
					w.Name, r.ShiftTypeID,
				),
			})
		}
	}
	return issues
}

// 5. Shift-frequency solvability: every shift type and worker referenced
// must exist, max_periods_between must fit the horizon, and the worker
// must not be restricted from every shift type in the requirement.
func checkShiftFrequencySolvability(in Input) []Issue {
	var issues []Issue
	workerByID := map[string]model.Worker{}
	for _, w := range in.Workers {
		workerByID[w.ID] = w
	}
	validShifts := map[string]struct{}{}
	for _, st := range in.ShiftTypes {
		validShifts[st.ID] = struct{}{}
	}

	for _, req := range in.ShiftFrequencyRequirements {
		w, ok := workerByID[req.WorkerID]
		if !ok {
			issues = append(issues, Issue{
				Severity: Fatal, Kind: KindShiftFrequency,
				Message: fmt.Sprintf("shift-frequency requirement names unknown worker %q", req.WorkerID),
			})
			continue
		}

		for id := range req.ShiftTypes {
			if _, ok := validShifts[id]; !ok {
				issues = append(issues, Issue{
					Severity: Fatal, Kind: KindShiftFrequency,
					Message: fmt.Sprintf("shift-frequency requirement for worker %q names unknown shift-type %q", w.Name, id),
				})
			}
		}

		if req.MaxPeriodsBetween > in.NumPeriods {
			issues = append(issues, Issue{
				Severity: Fatal, Kind: KindShiftFrequency,
				Message: fmt.Sprintf(
					"shift-frequency requirement for worker %q needs a window of %d periods, horizon only has %d",
					w.Name, req.MaxPeriodsBetween, in.NumPeriods,
				),
			})
		}

		allRestricted := true
		var names []string
		for id := range req.ShiftTypes {
			names = append(names, id)
			if w.CanWorkShift(id) {
				allRestricted = false
			}
		}
		if allRestricted && len(names) > 0 {
			issues = append(issues, Issue{
				Severity: Fatal, Kind: KindShiftFrequency,
				Message: fmt.Sprintf(
					"worker %q is restricted from every shift-type in their frequency requirement %v",
					w.Name, names,
				),
			})
		}
	}
	return issues
}
