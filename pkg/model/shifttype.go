package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shiftsolver/core/pkg/shifterrors"
)

// ClockTime is a parsed HH:MM time-of-day, stored as minutes since
// midnight so shift types compare and sort cheaply.
type ClockTime struct {
	MinutesSinceMidnight int
}

// ParseClockTime parses "HH:MM" with 0<=H<=23, 0<=M<=59.
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return ClockTime{}, shifterrors.Newf(shifterrors.CodeInvalidTime, "invalid time %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return ClockTime{}, shifterrors.Newf(shifterrors.CodeInvalidTime, "invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return ClockTime{}, shifterrors.Newf(shifterrors.CodeInvalidTime, "invalid minute in %q", s)
	}
	return ClockTime{MinutesSinceMidnight: h*60 + m}, nil
}

// String renders the time back as "HH:MM".
func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.MinutesSinceMidnight/60, t.MinutesSinceMidnight%60)
}

// ShiftType is a template describing a kind of shift: when it starts, how
// long it runs, how many workers it needs per period, and the
// restrictions (applicable weekdays) that qualify a period for it.
type ShiftType struct {
	ID               string
	Name             string
	Category         string
	StartTime        ClockTime
	DurationHours    float64
	WorkersRequired  int
	MaxWorkers       int
	IsUndesirable    bool
	ApplicableDays   map[int]struct{} // nil means "all days"
}

// ShiftTypeInput is the constructor-facing shape for a ShiftType.
type ShiftTypeInput struct {
	ID              string
	Name            string
	Category        string
	StartTime       string // "HH:MM"
	DurationHours   float64
	WorkersRequired int
	MaxWorkers      int // 0 => defaults to WorkersRequired
	IsUndesirable   bool
	ApplicableDays  []int // weekday indices 0=Mon..6=Sun; nil/empty means all days
}

// NewShiftType validates the input and constructs a ShiftType.
func NewShiftType(in ShiftTypeInput) (ShiftType, error) {
	if in.ID == "" {
		return ShiftType{}, shifterrors.New(shifterrors.CodeInvalidShiftType, "shift type id cannot be empty")
	}
	if in.DurationHours <= 0 {
		return ShiftType{}, shifterrors.Newf(shifterrors.CodeInvalidShiftType, "duration_hours must be positive, got %v", in.DurationHours).WithField("shift_type_id", in.ID)
	}
	if in.WorkersRequired < 0 {
		return ShiftType{}, shifterrors.Newf(shifterrors.CodeInvalidShiftType, "workers_required must be >= 0, got %d", in.WorkersRequired).WithField("shift_type_id", in.ID)
	}

	start, err := ParseClockTime(in.StartTime)
	if err != nil {
		return ShiftType{}, shifterrors.Wrap(err, shifterrors.CodeInvalidShiftType, "invalid start_time").WithField("shift_type_id", in.ID)
	}

	maxWorkers := in.MaxWorkers
	if maxWorkers == 0 {
		maxWorkers = in.WorkersRequired
	}
	if maxWorkers < in.WorkersRequired {
		return ShiftType{}, shifterrors.Newf(shifterrors.CodeInvalidShiftType, "max_workers (%d) cannot be less than workers_required (%d)", maxWorkers, in.WorkersRequired).WithField("shift_type_id", in.ID)
	}

	var days map[int]struct{}
	if len(in.ApplicableDays) > 0 {
		days = make(map[int]struct{}, len(in.ApplicableDays))
		for _, d := range in.ApplicableDays {
			if d < 0 || d > 6 {
				return ShiftType{}, shifterrors.Newf(shifterrors.CodeInvalidShiftType, "applicable_days must be 0-6, got %d", d).WithField("shift_type_id", in.ID)
			}
			days[d] = struct{}{}
		}
	}

	return ShiftType{
		ID:              in.ID,
		Name:            in.Name,
		Category:        in.Category,
		StartTime:       start,
		DurationHours:   in.DurationHours,
		WorkersRequired: in.WorkersRequired,
		MaxWorkers:      maxWorkers,
		IsUndesirable:   in.IsUndesirable,
		ApplicableDays:  days,
	}, nil
}

// IsApplicableOn reports whether the shift type applies on the given
// weekday (0=Monday .. 6=Sunday).
func (s ShiftType) IsApplicableOn(weekday int) bool {
	if s.ApplicableDays == nil {
		return true
	}
	_, ok := s.ApplicableDays[weekday]
	return ok
}
