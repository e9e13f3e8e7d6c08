package model

import "github.com/shiftsolver/core/pkg/shifterrors"

// SchedulingRequest is a per-worker, per-period, per-shift-type
// preference: either "I want this shift" (positive) or "I want to avoid
// this shift" (negative), weighted by priority.
//
// A request naming a restricted shift is admissible — the Request
// constraint will always treat it as violated in soft mode, and the
// feasibility checker rejects it outright when the request is hard
// (spec §3, §4.4 check 4).
type SchedulingRequest struct {
	WorkerID    string
	ShiftTypeID string
	PeriodIndex int
	IsPositive  bool
	Priority    int
	IsHard      bool
}

// SchedulingRequestInput is the constructor-facing shape.
type SchedulingRequestInput struct {
	WorkerID    string
	ShiftTypeID string
	PeriodIndex int
	IsPositive  bool
	Priority    int
	IsHard      bool
}

// NewSchedulingRequest validates and constructs a SchedulingRequest.
// Priority must be >= 1 (spec §9 Open Question: priority=0 is rejected).
func NewSchedulingRequest(in SchedulingRequestInput) (SchedulingRequest, error) {
	if in.WorkerID == "" || in.ShiftTypeID == "" {
		return SchedulingRequest{}, shifterrors.New(shifterrors.CodeInvalidRequest, "request worker_id and shift_type_id are required")
	}
	if in.PeriodIndex < 0 {
		return SchedulingRequest{}, shifterrors.Newf(shifterrors.CodeInvalidRequest, "period_index cannot be negative, got %d", in.PeriodIndex)
	}
	if in.Priority < 1 {
		return SchedulingRequest{}, shifterrors.Newf(shifterrors.CodeInvalidRequest, "priority must be >= 1, got %d", in.Priority)
	}
	return SchedulingRequest{
		WorkerID:    in.WorkerID,
		ShiftTypeID: in.ShiftTypeID,
		PeriodIndex: in.PeriodIndex,
		IsPositive:  in.IsPositive,
		Priority:    in.Priority,
		IsHard:      in.IsHard,
	}, nil
}
