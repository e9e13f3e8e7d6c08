// Package model defines the immutable domain value types the scheduling
// core operates on: Worker, ShiftType, Availability, SchedulingRequest,
// ShiftFrequencyRequirement, ConstraintConfig, Schedule, and Assignment.
// Values are constructed once and never mutated after that; identity is
// by stable string ID, never by shared pointer.
package model

import (
	"sort"

	"github.com/shiftsolver/core/pkg/shifterrors"
)

// Worker is a schedulable person with a stable identity, an FTE fraction,
// and the shift-type restrictions/preferences that constrain assignment.
type Worker struct {
	ID               string
	Name             string
	WorkerType       string
	FTE              float64
	IsActive         bool
	RestrictedShifts map[string]struct{}
	PreferredShifts  map[string]struct{}
	Attributes       map[string]any
}

// WorkerInput is the constructor-facing shape; NewWorker validates it and
// returns an immutable Worker.
type WorkerInput struct {
	ID               string
	Name             string
	WorkerType       string
	FTE              float64
	IsActive         bool
	RestrictedShifts []string
	PreferredShifts  []string
	Attributes       map[string]any
}

// NewWorker validates the input and constructs a Worker. It fails with
// ValidationError(InvalidWorker) when a shift type is both restricted and
// preferred, or when FTE is out of (0,1].
func NewWorker(in WorkerInput) (Worker, error) {
	if in.ID == "" {
		return Worker{}, shifterrors.New(shifterrors.CodeInvalidWorker, "worker id cannot be empty")
	}
	if in.Name == "" {
		return Worker{}, shifterrors.New(shifterrors.CodeInvalidWorker, "worker name cannot be empty").WithField("worker_id", in.ID)
	}
	if in.FTE <= 0 || in.FTE > 1 {
		return Worker{}, shifterrors.Newf(shifterrors.CodeInvalidWorker, "fte must be in (0,1], got %v", in.FTE).WithField("worker_id", in.ID)
	}

	restricted := toSet(in.RestrictedShifts)
	preferred := toSet(in.PreferredShifts)

	var conflicts []string
	for s := range restricted {
		if _, ok := preferred[s]; ok {
			conflicts = append(conflicts, s)
		}
	}
	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		return Worker{}, shifterrors.Newf(
			shifterrors.CodeInvalidWorker,
			"shift types cannot be both restricted and preferred: %v", conflicts,
		).WithField("worker_id", in.ID)
	}

	attrs := in.Attributes
	if attrs == nil {
		attrs = map[string]any{}
	}

	return Worker{
		ID:               in.ID,
		Name:             in.Name,
		WorkerType:       in.WorkerType,
		FTE:              in.FTE,
		IsActive:         in.IsActive,
		RestrictedShifts: restricted,
		PreferredShifts:  preferred,
		Attributes:       attrs,
	}, nil
}

// CanWorkShift reports whether the worker is not restricted from shiftTypeID.
func (w Worker) CanWorkShift(shiftTypeID string) bool {
	_, restricted := w.RestrictedShifts[shiftTypeID]
	return !restricted
}

// PrefersShift reports whether the worker has marked shiftTypeID as preferred.
func (w Worker) PrefersShift(shiftTypeID string) bool {
	_, ok := w.PreferredShifts[shiftTypeID]
	return ok
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
