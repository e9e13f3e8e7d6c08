package model

import (
	"time"

	"github.com/shiftsolver/core/pkg/shifterrors"
)

// AvailabilityType classifies an Availability record.
type AvailabilityType string

const (
	Unavailable AvailabilityType = "unavailable"
	Preferred   AvailabilityType = "preferred"
	Required    AvailabilityType = "required"
)

// Availability restricts or signals a worker's status over a date range.
// Only Unavailable enforces anything by itself (§4.5.3); Preferred and
// Required are informational unless promoted to an explicit
// SchedulingRequest (spec §9 Open Question: they never implicitly create
// requests).
type Availability struct {
	WorkerID         string
	StartDate        time.Time
	EndDate          time.Time
	Type             AvailabilityType
	ShiftTypeID      string // empty means "applies to all shift types"
}

// AvailabilityInput is the constructor-facing shape.
type AvailabilityInput struct {
	WorkerID    string
	StartDate   time.Time
	EndDate     time.Time
	Type        AvailabilityType
	ShiftTypeID string
}

// NewAvailability validates and constructs an Availability record.
func NewAvailability(in AvailabilityInput) (Availability, error) {
	if in.WorkerID == "" {
		return Availability{}, shifterrors.New(shifterrors.CodeInvalidWorker, "availability worker_id cannot be empty")
	}
	if in.EndDate.Before(in.StartDate) {
		return Availability{}, shifterrors.Newf(shifterrors.CodeBadHorizon, "availability end_date %s is before start_date %s", in.EndDate, in.StartDate).WithField("worker_id", in.WorkerID)
	}
	switch in.Type {
	case Unavailable, Preferred, Required:
	default:
		return Availability{}, shifterrors.Newf(shifterrors.CodeInvalidWorker, "unknown availability_type %q", in.Type).WithField("worker_id", in.WorkerID)
	}
	return Availability{
		WorkerID:    in.WorkerID,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Type:        in.Type,
		ShiftTypeID: in.ShiftTypeID,
	}, nil
}

// CoversDate reports whether date falls within [StartDate, EndDate].
func (a Availability) CoversDate(date time.Time) bool {
	return !date.Before(a.StartDate) && !date.After(a.EndDate)
}

// AppliesToShift reports whether this record constrains shiftTypeID —
// true for every shift type when ShiftTypeID is unset.
func (a Availability) AppliesToShift(shiftTypeID string) bool {
	return a.ShiftTypeID == "" || a.ShiftTypeID == shiftTypeID
}

// OverlapsRange reports whether [a.StartDate,a.EndDate] overlaps
// [rangeStart,rangeEnd].
func (a Availability) OverlapsRange(rangeStart, rangeEnd time.Time) bool {
	return !a.StartDate.After(rangeEnd) && !a.EndDate.Before(rangeStart)
}
