// Package calendar maps a schedule horizon (start date, end date, period
// length) to an ordered sequence of equal-length periods (§4.1).
package calendar

import (
	"time"

	"github.com/shiftsolver/core/pkg/shifterrors"
)

const dayHours = 24 * time.Hour

// Period is one [Start,End] inclusive span of equal length within a
// Calendar's horizon.
type Period struct {
	Start time.Time
	End   time.Time
}

// Calendar is the ordered sequence of periods covering a horizon.
type Calendar struct {
	startDate       time.Time
	endDate         time.Time
	periodLengthDays int
	periods         []Period
}

// New builds a Calendar from (start_date, end_date, period_length_days).
// The total span must be a positive multiple of period_length_days;
// otherwise it fails ConfigError(BadHorizon) (§4.1).
func New(startDate, endDate time.Time, periodLengthDays int) (*Calendar, error) {
	start := truncateToDay(startDate)
	end := truncateToDay(endDate)

	if periodLengthDays < 1 {
		return nil, shifterrors.Newf(shifterrors.CodeBadHorizon, "period_length_days must be >= 1, got %d", periodLengthDays)
	}
	if end.Before(start) {
		return nil, shifterrors.Newf(shifterrors.CodeBadHorizon, "end_date %s is before start_date %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	totalDays := int(end.Sub(start)/dayHours) + 1
	if totalDays%periodLengthDays != 0 {
		return nil, shifterrors.Newf(
			shifterrors.CodeBadHorizon,
			"horizon span of %d days is not a positive multiple of period_length_days=%d",
			totalDays, periodLengthDays,
		)
	}

	numPeriods := totalDays / periodLengthDays
	periods := make([]Period, 0, numPeriods)
	cursor := start
	for i := 0; i < numPeriods; i++ {
		periodEnd := cursor.AddDate(0, 0, periodLengthDays-1)
		periods = append(periods, Period{Start: cursor, End: periodEnd})
		cursor = periodEnd.AddDate(0, 0, 1)
	}

	return &Calendar{
		startDate:        start,
		endDate:          end,
		periodLengthDays: periodLengthDays,
		periods:          periods,
	}, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NumPeriods returns the number of periods in the calendar.
func (c *Calendar) NumPeriods() int {
	return len(c.periods)
}

// Period returns the p-th period.
func (c *Calendar) Period(p int) Period {
	return c.periods[p]
}

// Periods returns the full ordered period list.
func (c *Calendar) Periods() []Period {
	return c.periods
}

// PeriodForDate returns the index of the period containing date, or -1 if
// date falls outside the horizon.
func (c *Calendar) PeriodForDate(date time.Time) int {
	d := truncateToDay(date)
	if d.Before(c.startDate) || d.After(c.endDate) {
		return -1
	}
	offset := int(d.Sub(c.startDate) / dayHours)
	return offset / c.periodLengthDays
}

// DatesInPeriod returns every calendar date in period p, in order.
func (c *Calendar) DatesInPeriod(p int) []time.Time {
	period := c.periods[p]
	dates := make([]time.Time, 0, c.periodLengthDays)
	for d := period.Start; !d.After(period.End); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// PeriodType derives a label from the per-period duration (§3): 1 day ->
// "day", 7 -> "week", 14 -> "biweek", 28-31 -> "month", else "custom".
func (c *Calendar) PeriodType() string {
	switch {
	case c.periodLengthDays == 1:
		return "day"
	case c.periodLengthDays == 7:
		return "week"
	case c.periodLengthDays == 14:
		return "biweek"
	case c.periodLengthDays >= 28 && c.periodLengthDays <= 31:
		return "month"
	default:
		return "custom"
	}
}

// StartDate returns the horizon's first day.
func (c *Calendar) StartDate() time.Time { return c.startDate }

// EndDate returns the horizon's last day.
func (c *Calendar) EndDate() time.Time { return c.endDate }
