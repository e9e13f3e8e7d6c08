package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewRejectsNonMultipleSpan(t *testing.T) {
	_, err := New(date(2026, 2, 1), date(2026, 2, 9), 7)
	if err == nil {
		t.Fatal("expected BadHorizon error for a 9-day span with 7-day periods")
	}
}

func TestNewRejectsInvertedRange(t *testing.T) {
	_, err := New(date(2026, 2, 9), date(2026, 2, 1), 7)
	if err == nil {
		t.Fatal("expected error when end_date precedes start_date")
	}
}

func TestWeeklyHorizon(t *testing.T) {
	cal, err := New(date(2026, 2, 1), date(2026, 2, 14), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cal.NumPeriods() != 2 {
		t.Fatalf("expected 2 periods, got %d", cal.NumPeriods())
	}
	if cal.PeriodType() != "week" {
		t.Fatalf("expected period_type=week, got %s", cal.PeriodType())
	}
	p0 := cal.Period(0)
	if !p0.Start.Equal(date(2026, 2, 1)) || !p0.End.Equal(date(2026, 2, 7)) {
		t.Fatalf("unexpected period 0 bounds: %v - %v", p0.Start, p0.End)
	}
}

func TestPeriodForDate(t *testing.T) {
	cal, err := New(date(2026, 2, 1), date(2026, 2, 14), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cal.PeriodForDate(date(2026, 2, 8)); got != 1 {
		t.Fatalf("expected period 1 for 2026-02-08, got %d", got)
	}
	if got := cal.PeriodForDate(date(2026, 1, 31)); got != -1 {
		t.Fatalf("expected -1 for a date before the horizon, got %d", got)
	}
	if got := cal.PeriodForDate(date(2026, 2, 15)); got != -1 {
		t.Fatalf("expected -1 for a date after the horizon, got %d", got)
	}
}

func TestDatesInPeriod(t *testing.T) {
	cal, err := New(date(2026, 2, 1), date(2026, 2, 7), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dates := cal.DatesInPeriod(0)
	if len(dates) != 7 {
		t.Fatalf("expected 7 dates, got %d", len(dates))
	}
	if !dates[0].Equal(date(2026, 2, 1)) || !dates[6].Equal(date(2026, 2, 7)) {
		t.Fatalf("unexpected date range: %v .. %v", dates[0], dates[6])
	}
}

func TestPeriodTypeLabels(t *testing.T) {
	cases := []struct {
		lengthDays int
		want       string
	}{
		{1, "day"},
		{7, "week"},
		{14, "biweek"},
		{28, "month"},
		{30, "month"},
		{10, "custom"},
	}
	for _, tc := range cases {
		cal, err := New(date(2026, 1, 1), date(2026, 1, tc.lengthDays), tc.lengthDays)
		if err != nil {
			t.Fatalf("length %d: unexpected error: %v", tc.lengthDays, err)
		}
		if got := cal.PeriodType(); got != tc.want {
			t.Errorf("length %d: expected %s, got %s", tc.lengthDays, tc.want, got)
		}
	}
}

func TestSinglePeriodHorizon(t *testing.T) {
	cal, err := New(date(2026, 2, 1), date(2026, 2, 1), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cal.NumPeriods() != 1 {
		t.Fatalf("expected 1 period, got %d", cal.NumPeriods())
	}
}
