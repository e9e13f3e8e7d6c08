// Package types holds the strongly-typed variable container the variable
// builder produces and every constraint reads from (§4.3).
package types

import (
	"sort"

	"github.com/shiftsolver/core/pkg/cpmodel"
	"github.com/shiftsolver/core/pkg/shifterrors"
)

// SolverVariables is a type-safe accessor over every decision variable the
// variable builder allocates. Accessors fail with *shifterrors.AppError
// naming the offending key instead of returning zero values (§4.3).
type SolverVariables struct {
	// Assignment: worker_id -> period -> shift_type_id -> x[w,p,s]
	Assignment map[string]map[int]map[string]cpmodel.BoolVar
	// ShiftCounts: worker_id -> shift_type_id -> total[w,s]
	ShiftCounts map[string]map[string]cpmodel.IntVar
	// UndesirableTotals: worker_id -> undesirable_total[w]
	UndesirableTotals map[string]cpmodel.IntVar
	// Coverage: period -> shift_type_id -> coverage[p,s], built on demand
	// by CoverageVar (§4.3).
	Coverage map[int]map[string]cpmodel.IntVar
}

// New constructs an empty container sized for later allocation.
func New() *SolverVariables {
	return &SolverVariables{
		Assignment:        map[string]map[int]map[string]cpmodel.BoolVar{},
		ShiftCounts:       map[string]map[string]cpmodel.IntVar{},
		UndesirableTotals: map[string]cpmodel.IntVar{},
		Coverage:          map[int]map[string]cpmodel.IntVar{},
	}
}

// AssignmentVar returns x[worker,period,shiftType].
func (v *SolverVariables) AssignmentVar(workerID string, period int, shiftTypeID string) (cpmodel.BoolVar, error) {
	periods, ok := v.Assignment[workerID]
	if !ok {
		return cpmodel.BoolVar{}, shifterrors.Newf(shifterrors.CodeUnknownWorker, "worker %q not found in assignment variables", workerID)
	}
	shiftTypes, ok := periods[period]
	if !ok {
		return cpmodel.BoolVar{}, shifterrors.Newf(shifterrors.CodeBadPeriod, "assignment variable not found for worker %q, period %d", workerID, period)
	}
	v1, ok := shiftTypes[shiftTypeID]
	if !ok {
		return cpmodel.BoolVar{}, shifterrors.Newf(shifterrors.CodeUnknownShift, "assignment variable not found for worker %q, period %d, shift type %q", workerID, period, shiftTypeID)
	}
	return v1, nil
}

// ShiftCountVar returns total[worker,shiftType].
func (v *SolverVariables) ShiftCountVar(workerID, shiftTypeID string) (cpmodel.IntVar, error) {
	counts, ok := v.ShiftCounts[workerID]
	if !ok {
		return cpmodel.IntVar{}, shifterrors.Newf(shifterrors.CodeUnknownWorker, "worker %q not found in shift count variables", workerID)
	}
	v1, ok := counts[shiftTypeID]
	if !ok {
		return cpmodel.IntVar{}, shifterrors.Newf(shifterrors.CodeUnknownShift, "shift count variable not found for worker %q, shift type %q", workerID, shiftTypeID)
	}
	return v1, nil
}

// UndesirableTotalVar returns undesirable_total[worker].
func (v *SolverVariables) UndesirableTotalVar(workerID string) (cpmodel.IntVar, error) {
	v1, ok := v.UndesirableTotals[workerID]
	if !ok {
		return cpmodel.IntVar{}, shifterrors.Newf(shifterrors.CodeUnknownWorker, "undesirable total variable not found for worker %q", workerID)
	}
	return v1, nil
}

// WorkerPeriodVars returns every shift-type assignment variable for one
// worker in one period.
func (v *SolverVariables) WorkerPeriodVars(workerID string, period int) (map[string]cpmodel.BoolVar, error) {
	periods, ok := v.Assignment[workerID]
	if !ok {
		return nil, shifterrors.Newf(shifterrors.CodeUnknownWorker, "worker %q not found in assignment variables", workerID)
	}
	shiftTypes, ok := periods[period]
	if !ok {
		return nil, shifterrors.Newf(shifterrors.CodeBadPeriod, "period %d not found for worker %q", period, workerID)
	}
	return shiftTypes, nil
}

// AssignmentEntry is one (worker,period,shiftType,var) tuple yielded by
// AllAssignmentVars in deterministic order.
type AssignmentEntry struct {
	WorkerID    string
	Period      int
	ShiftTypeID string
	Var         cpmodel.BoolVar
}

// AllAssignmentVars iterates every assignment variable in deterministic
// (worker, period, shift type) order, so callers building constraints get
// stable variable-allocation order regardless of Go's map iteration.
func (v *SolverVariables) AllAssignmentVars() []AssignmentEntry {
	var entries []AssignmentEntry
	workerIDs := sortedKeysStr(v.Assignment)
	for _, workerID := range workerIDs {
		periods := v.Assignment[workerID]
		periodIndices := sortedKeysInt(periods)
		for _, period := range periodIndices {
			shiftTypes := periods[period]
			shiftTypeIDs := sortedKeysStr(shiftTypes)
			for _, shiftTypeID := range shiftTypeIDs {
				entries = append(entries, AssignmentEntry{
					WorkerID:    workerID,
					Period:      period,
					ShiftTypeID: shiftTypeID,
					Var:         shiftTypes[shiftTypeID],
				})
			}
		}
	}
	return entries
}

func sortedKeysStr[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeysInt[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
