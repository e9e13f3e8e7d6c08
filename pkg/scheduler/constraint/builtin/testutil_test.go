package builtin

import (
	"testing"
	"time"

	"github.com/shiftsolver/core/pkg/model"
)

func timeDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func mustShift(t *testing.T, id string, required int, undesirable bool) model.ShiftType {
	t.Helper()
	st, err := model.NewShiftType(model.ShiftTypeInput{
		ID: id, Name: id, StartTime: "08:00", DurationHours: 8,
		WorkersRequired: required, IsUndesirable: undesirable,
	})
	if err != nil {
		t.Fatalf("NewShiftType(%s): %v", id, err)
	}
	return st
}
