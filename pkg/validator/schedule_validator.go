// Package validator performs post-solve validation of a solved Schedule:
// independent re-checks of the hard constraints a solve is supposed to
// have already satisfied, plus fairness and request-fulfillment
// statistics (§4.10). It never touches the solver backend.
package validator

import (
	"fmt"
	"math"
	"sort"

	"github.com/shiftsolver/core/pkg/logger"
	"github.com/shiftsolver/core/pkg/model"
)

// ViolationType classifies one entry in a Report.
type ViolationType string

const (
	ViolationCoverage       ViolationType = "coverage"
	ViolationRestriction    ViolationType = "restriction"
	ViolationAvailability   ViolationType = "availability"
	ViolationShiftFrequency ViolationType = "shift_frequency"
	ViolationData           ViolationType = "data"
)

// Severity distinguishes a hard failure from an informational finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Violation is one finding against a solved Schedule.
type Violation struct {
	Type        ViolationType
	Severity    Severity
	Message     string
	WorkerID    string
	ShiftTypeID string
	PeriodIndex int
}

// FairnessStats summarizes assignment balance across workers (§4.10).
type FairnessStats struct {
	AverageAssignments  float64
	StdDeviation        float64
	MinAssignments      int
	MaxAssignments      int
	AverageUndesirable  float64
	AssignmentsByWorker map[string]int
}

// RequestFulfillment summarizes how many SchedulingRequests the schedule
// honored.
type RequestFulfillment struct {
	TotalRequests int
	Fulfilled     int
	Violated      int
	Rate          float64 // 1.0 when there were no requests to check
}

// Report is the full result of validating one Schedule.
type Report struct {
	IsValid            bool
	Violations         []Violation
	Fairness           FairnessStats
	RequestFulfillment RequestFulfillment
}

// addViolation appends a finding and, for errors, flips IsValid.
func (r *Report) addViolation(v Violation) {
	r.Violations = append(r.Violations, v)
	if v.Severity == SeverityError {
		r.IsValid = false
	}
}

// Validator re-checks a solved Schedule against the inputs that produced
// it. It is constructed fresh per schedule; it holds no solver state.
type Validator struct {
	schedule                   model.Schedule
	availabilities             []model.Availability
	requests                   []model.SchedulingRequest
	shiftFrequencyRequirements []model.ShiftFrequencyRequirement

	workerByID    map[string]model.Worker
	shiftTypeByID map[string]model.ShiftType
}

// New constructs a Validator for schedule. availabilities, requests, and
// shiftFrequencyRequirements are optional; pass nil to skip those
// checks/statistics.
func New(schedule model.Schedule, availabilities []model.Availability, requests []model.SchedulingRequest, shiftFrequencyRequirements []model.ShiftFrequencyRequirement) *Validator {
	workerByID := make(map[string]model.Worker, len(schedule.Workers))
	for _, w := range schedule.Workers {
		workerByID[w.ID] = w
	}
	shiftTypeByID := make(map[string]model.ShiftType, len(schedule.ShiftTypes))
	for _, st := range schedule.ShiftTypes {
		shiftTypeByID[st.ID] = st
	}
	return &Validator{
		schedule:                   schedule,
		availabilities:             availabilities,
		requests:                   requests,
		shiftFrequencyRequirements: shiftFrequencyRequirements,
		workerByID:                 workerByID,
		shiftTypeByID:              shiftTypeByID,
	}
}

// Validate runs every check and returns the combined Report.
func (v *Validator) Validate() Report {
	report := Report{IsValid: true}

	v.checkCoverage(&report)
	v.checkRestrictions(&report)
	v.checkAvailability(&report)
	v.checkShiftFrequency(&report)

	report.Fairness = v.computeFairness()
	report.RequestFulfillment = v.computeRequestFulfillment()

	if report.IsValid {
		logger.Get().Info().Str("schedule_id", v.schedule.ID).Msg("schedule validation passed")
	} else {
		logger.Get().Warn().Str("schedule_id", v.schedule.ID).Int("violations", len(report.Violations)).Msg("schedule validation failed")
	}

	return report
}

// checkCoverage re-verifies that every shift type reaches its required
// headcount in every period (§4.5.1).
func (v *Validator) checkCoverage(report *Report) {
	for pIdx, period := range v.schedule.Periods {
		counts := map[string]int{}
		for _, assignments := range period.Assignments {
			for _, a := range assignments {
				counts[a.ShiftTypeID]++
			}
		}
		for _, st := range v.schedule.ShiftTypes {
			count := counts[st.ID]
			if count < st.WorkersRequired {
				report.addViolation(Violation{
					Type:        ViolationCoverage,
					Severity:    SeverityError,
					Message:     fmt.Sprintf("period %d: shift %q has %d workers, requires %d", pIdx, st.Name, count, st.WorkersRequired),
					ShiftTypeID: st.ID,
					PeriodIndex: pIdx,
				})
			}
		}
	}
}

// checkRestrictions re-verifies that no worker is assigned to a shift
// type it is restricted from (§4.5.2).
func (v *Validator) checkRestrictions(report *Report) {
	for pIdx, period := range v.schedule.Periods {
		for workerID, assignments := range period.Assignments {
			worker, ok := v.workerByID[workerID]
			if !ok {
				report.addViolation(Violation{
					Type:        ViolationData,
					Severity:    SeverityError,
					Message:     fmt.Sprintf("unknown worker %q in assignments", workerID),
					WorkerID:    workerID,
					PeriodIndex: pIdx,
				})
				continue
			}
			for _, a := range assignments {
				if worker.CanWorkShift(a.ShiftTypeID) {
					continue
				}
				name := a.ShiftTypeID
				if st, ok := v.shiftTypeByID[a.ShiftTypeID]; ok {
					name = st.Name
				}
				report.addViolation(Violation{
					Type:        ViolationRestriction,
					Severity:    SeverityError,
					Message:     fmt.Sprintf("worker %q assigned to restricted shift %q in period %d", worker.Name, name, pIdx),
					WorkerID:    workerID,
					ShiftTypeID: a.ShiftTypeID,
					PeriodIndex: pIdx,
				})
			}
		}
	}
}

// checkAvailability re-verifies that no worker is assigned during a
// period an Unavailable record covers (§4.5.3). Preferred and Required
// records carry no enforcement here — only an explicit SchedulingRequest
// makes them binding, matching the constraint's own semantics.
func (v *Validator) checkAvailability(report *Report) {
	if len(v.availabilities) == 0 {
		return
	}

	for pIdx, period := range v.schedule.Periods {
		for workerID, assignments := range period.Assignments {
			for _, a := range assignments {
				for _, av := range v.availabilities {
					if av.Type != model.Unavailable {
						continue
					}
					if av.WorkerID != workerID {
						continue
					}
					if !av.AppliesToShift(a.ShiftTypeID) {
						continue
					}
					if !av.OverlapsRange(period.Start, period.End) {
						continue
					}
					worker := v.workerByID[workerID]
					name := worker.Name
					if name == "" {
						name = workerID
					}
					report.addViolation(Violation{
						Type:        ViolationAvailability,
						Severity:    SeverityError,
						Message:     fmt.Sprintf("worker %q assigned in period %d but marked unavailable", name, pIdx),
						WorkerID:    workerID,
						ShiftTypeID: a.ShiftTypeID,
						PeriodIndex: pIdx,
					})
					break
				}
			}
		}
	}
}

// checkShiftFrequency re-verifies that every ShiftFrequencyRequirement's
// sliding windows each contain at least one assignment from the
// requirement's shift-type group (§4.5.9), mirroring the constraint's own
// window logic.
func (v *Validator) checkShiftFrequency(report *Report) {
	if len(v.shiftFrequencyRequirements) == 0 {
		return
	}
	numPeriods := len(v.schedule.Periods)

	assigned := map[string]map[int]map[string]bool{}
	for pIdx, period := range v.schedule.Periods {
		for workerID, assignments := range period.Assignments {
			for _, a := range assignments {
				byPeriod, ok := assigned[workerID]
				if !ok {
					byPeriod = map[int]map[string]bool{}
					assigned[workerID] = byPeriod
				}
				byShift, ok := byPeriod[pIdx]
				if !ok {
					byShift = map[string]bool{}
					byPeriod[pIdx] = byShift
				}
				byShift[a.ShiftTypeID] = true
			}
		}
	}

	for _, req := range v.shiftFrequencyRequirements {
		if _, ok := v.workerByID[req.WorkerID]; !ok {
			continue
		}

		var selected []string
		for id := range req.ShiftTypes {
			if _, ok := v.shiftTypeByID[id]; ok {
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
		if windowSize > numPeriods {
			windowSize = numPeriods
		}

		for p := 0; p+windowSize <= numPeriods; p++ {
			found := false
			for i := p; i < p+windowSize && !found; i++ {
				for _, shiftID := range selected {
					if assigned[req.WorkerID][i][shiftID] {
						found = true
						break
					}
				}
			}
			if found {
				continue
			}
			worker := v.workerByID[req.WorkerID]
			name := worker.Name
			if name == "" {
				name = req.WorkerID
			}
			report.addViolation(Violation{
				Type:        ViolationShiftFrequency,
				Severity:    SeverityError,
				Message:     fmt.Sprintf("worker %q has no assignment from the required shift group in the window starting at period %d", name, p),
				WorkerID:    req.WorkerID,
				PeriodIndex: p,
			})
		}
	}
}

// computeFairness summarizes total and undesirable assignment counts
// per worker (§4.10).
func (v *Validator) computeFairness() FairnessStats {
	perWorker := map[string]int{}
	undesirablePerWorker := map[string]int{}

	for _, period := range v.schedule.Periods {
		for workerID, assignments := range period.Assignments {
			for _, a := range assignments {
				perWorker[workerID]++
				if st, ok := v.shiftTypeByID[a.ShiftTypeID]; ok && st.IsUndesirable {
					undesirablePerWorker[workerID]++
				}
			}
		}
	}

	if len(perWorker) == 0 {
		return FairnessStats{AssignmentsByWorker: map[string]int{}}
	}

	counts := make([]int, 0, len(perWorker))
	for _, c := range perWorker {
		counts = append(counts, c)
	}
	sort.Ints(counts)

	var sum float64
	for _, c := range counts {
		sum += float64(c)
	}
	avg := sum / float64(len(counts))

	var variance float64
	for _, c := range counts {
		d := float64(c) - avg
		variance += d * d
	}
	variance /= float64(len(counts))

	var undesirableSum float64
	for _, c := range undesirablePerWorker {
		undesirableSum += float64(c)
	}
	undesirableAvg := 0.0
	if len(v.schedule.Workers) > 0 {
		undesirableAvg = undesirableSum / float64(len(v.schedule.Workers))
	}

	byWorker := make(map[string]int, len(perWorker))
	for k, c := range perWorker {
		byWorker[k] = c
	}

	return FairnessStats{
		AverageAssignments:  avg,
		StdDeviation:        math.Sqrt(variance),
		MinAssignments:      counts[0],
		MaxAssignments:      counts[len(counts)-1],
		AverageUndesirable:  undesirableAvg,
		AssignmentsByWorker: byWorker,
	}
}

// computeRequestFulfillment reports how many requests were honored, by
// (worker, period, shift-type) lookup against the solved assignments
// (§4.10). A positive request is fulfilled when the assignment exists; a
// negative request is fulfilled when it does not.
func (v *Validator) computeRequestFulfillment() RequestFulfillment {
	if len(v.requests) == 0 {
		return RequestFulfillment{Rate: 1.0}
	}

	type key struct {
		workerID    string
		periodIndex int
		shiftTypeID string
	}
	assigned := map[key]bool{}
	for pIdx, period := range v.schedule.Periods {
		for workerID, assignments := range period.Assignments {
			for _, a := range assignments {
				assigned[key{workerID, pIdx, a.ShiftTypeID}] = true
			}
		}
	}

	var fulfilled, violated int
	for _, req := range v.requests {
		isAssigned := assigned[key{req.WorkerID, req.PeriodIndex, req.ShiftTypeID}]
		honored := isAssigned == req.IsPositive
		if honored {
			fulfilled++
		} else {
			violated++
		}
	}

	total := fulfilled + violated
	rate := 1.0
	if total > 0 {
		rate = float64(fulfilled) / float64(total)
	}

	return RequestFulfillment{
		TotalRequests: total,
		Fulfilled:     fulfilled,
		Violated:      violated,
		Rate:          rate,
	}
}
