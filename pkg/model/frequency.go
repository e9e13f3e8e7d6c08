package model

import "github.com/shiftsolver/core/pkg/shifterrors"

// ShiftFrequencyRequirement demands that a worker work at least one shift
// from ShiftTypes within every contiguous window of MaxPeriodsBetween
// periods (§4.5.9). This differs from the Frequency constraint (§4.5.5),
// which applies uniformly to every worker.
type ShiftFrequencyRequirement struct {
	WorkerID          string
	ShiftTypes        map[string]struct{}
	MaxPeriodsBetween int
}

// ShiftFrequencyRequirementInput is the constructor-facing shape.
type ShiftFrequencyRequirementInput struct {
	WorkerID          string
	ShiftTypes        []string
	MaxPeriodsBetween int
}

// NewShiftFrequencyRequirement validates and constructs a requirement.
func NewShiftFrequencyRequirement(in ShiftFrequencyRequirementInput) (ShiftFrequencyRequirement, error) {
	if in.WorkerID == "" {
		return ShiftFrequencyRequirement{}, shifterrors.New(shifterrors.CodeInvalidFrequencyReq, "worker_id is required")
	}
	if len(in.ShiftTypes) == 0 {
		return ShiftFrequencyRequirement{}, shifterrors.New(shifterrors.CodeInvalidFrequencyReq, "shift_types cannot be empty").WithField("worker_id", in.WorkerID)
	}
	if in.MaxPeriodsBetween < 1 {
		return ShiftFrequencyRequirement{}, shifterrors.Newf(shifterrors.CodeInvalidFrequencyReq, "max_periods_between must be >= 1, got %d", in.MaxPeriodsBetween).WithField("worker_id", in.WorkerID)
	}
	return ShiftFrequencyRequirement{
		WorkerID:          in.WorkerID,
		ShiftTypes:        toSet(in.ShiftTypes),
		MaxPeriodsBetween: in.MaxPeriodsBetween,
	}, nil
}
