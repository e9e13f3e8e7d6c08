package model

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/shiftsolver/core/pkg/shifterrors"
)

const isoDateLayout = "2006-01-02"

type jsonWorker struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	WorkerType       string         `json:"worker_type"`
	FTE              float64        `json:"fte"`
	IsActive         bool           `json:"is_active"`
	RestrictedShifts []string       `json:"restricted_shifts"`
	PreferredShifts  []string       `json:"preferred_shifts"`
	Attributes       map[string]any `json:"attributes,omitempty"`
}

type jsonShiftType struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	StartTime       string `json:"start_time"`
	DurationHours   float64 `json:"duration_hours"`
	WorkersRequired int    `json:"workers_required"`
	MaxWorkers      int    `json:"max_workers"`
	IsUndesirable   bool   `json:"is_undesirable"`
	ApplicableDays  []int  `json:"applicable_days,omitempty"`
}

type jsonAssignment struct {
	ShiftTypeID string `json:"shift_type_id"`
	Date        string `json:"date"`
}

type jsonPeriod struct {
	Start       string                      `json:"start"`
	End         string                      `json:"end"`
	Assignments map[string][]jsonAssignment `json:"assignments"`
}

type jsonConstraintStat struct {
	ConstraintName  string   `json:"constraint_name"`
	ViolationCount  int      `json:"violation_count"`
	WeightedPenalty float64  `json:"weighted_penalty"`
	WorstOffenders  []string `json:"worst_offenders,omitempty"`
}

type jsonSchedule struct {
	ScheduleID     string               `json:"schedule_id"`
	StartDate      string               `json:"start_date"`
	EndDate        string               `json:"end_date"`
	PeriodType     string               `json:"period_type"`
	NumPeriods     int                  `json:"num_periods"`
	Workers        []jsonWorker         `json:"workers"`
	ShiftTypes     []jsonShiftType      `json:"shift_types"`
	Periods        []jsonPeriod         `json:"periods"`
	Status         string               `json:"status"`
	ObjectiveValue *float64             `json:"objective_value"`
	SolveTime      float64              `json:"solve_time"`
	Statistics     []jsonConstraintStat `json:"statistics"`
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON renders the §6 persisted Schedule shape.
func (s Schedule) MarshalJSON() ([]byte, error) {
	js := jsonSchedule{
		ScheduleID: s.ID,
		StartDate:  s.StartDate.Format(isoDateLayout),
		EndDate:    s.EndDate.Format(isoDateLayout),
		PeriodType: s.PeriodType,
		NumPeriods: len(s.Periods),
		Status:     string(s.Status),
		SolveTime:  s.WallTimeSeconds,
	}
	if s.ObjectiveValue != nil {
		v := *s.ObjectiveValue
		js.ObjectiveValue = &v
	}

	for _, w := range s.Workers {
		var days []int
		js.Workers = append(js.Workers, jsonWorker{
			ID:               w.ID,
			Name:             w.Name,
			WorkerType:       w.WorkerType,
			FTE:              w.FTE,
			IsActive:         w.IsActive,
			RestrictedShifts: sortedKeys(w.RestrictedShifts),
			PreferredShifts:  sortedKeys(w.PreferredShifts),
			Attributes:       w.Attributes,
		})
		_ = days
	}

	for _, st := range s.ShiftTypes {
		var days []int
		if st.ApplicableDays != nil {
			for d := range st.ApplicableDays {
				days = append(days, d)
			}
			sort.Ints(days)
		}
		js.ShiftTypes = append(js.ShiftTypes, jsonShiftType{
			ID:              st.ID,
			Name:            st.Name,
			Category:        st.Category,
			StartTime:       st.StartTime.String(),
			DurationHours:   st.DurationHours,
			WorkersRequired: st.WorkersRequired,
			MaxWorkers:      st.MaxWorkers,
			IsUndesirable:   st.IsUndesirable,
			ApplicableDays:  days,
		})
	}

	for _, p := range s.Periods {
		jp := jsonPeriod{
			Start:       p.Start.Format(isoDateLayout),
			End:         p.End.Format(isoDateLayout),
			Assignments: map[string][]jsonAssignment{},
		}
		for workerID, assignments := range p.Assignments {
			list := make([]jsonAssignment, 0, len(assignments))
			for _, a := range assignments {
				list = append(list, jsonAssignment{
					ShiftTypeID: a.ShiftTypeID,
					Date:        a.Date.Format(isoDateLayout),
				})
			}
			jp.Assignments[workerID] = list
		}
		js.Periods = append(js.Periods, jp)
	}

	for _, stat := range s.Statistics {
		js.Statistics = append(js.Statistics, jsonConstraintStat{
			ConstraintName:  stat.ConstraintName,
			ViolationCount:  stat.ViolationCount,
			WeightedPenalty: stat.WeightedPenalty,
			WorstOffenders:  stat.WorstOffenders,
		})
	}

	return json.Marshal(js)
}

// UnmarshalJSON reconstructs a Schedule from the §6 persisted shape.
// Deserialize(Serialize(schedule)) == schedule is a tested property (§8).
func (s *Schedule) UnmarshalJSON(data []byte) error {
	var js jsonSchedule
	if err := json.Unmarshal(data, &js); err != nil {
		return shifterrors.Wrap(err, shifterrors.CodeCoreInvariantBroken, "malformed schedule JSON")
	}

	start, err := time.Parse(isoDateLayout, js.StartDate)
	if err != nil {
		return shifterrors.Wrap(err, shifterrors.CodeInvalidTime, "invalid schedule start_date")
	}
	end, err := time.Parse(isoDateLayout, js.EndDate)
	if err != nil {
		return shifterrors.Wrap(err, shifterrors.CodeInvalidTime, "invalid schedule end_date")
	}

	out := Schedule{
		ID:              js.ScheduleID,
		StartDate:       start,
		EndDate:         end,
		PeriodType:      js.PeriodType,
		Status:          SolveStatus(js.Status),
		WallTimeSeconds: js.SolveTime,
	}
	if js.ObjectiveValue != nil {
		v := *js.ObjectiveValue
		out.ObjectiveValue = &v
	}

	for _, jw := range js.Workers {
		w, err := NewWorker(WorkerInput{
			ID:               jw.ID,
			Name:             jw.Name,
			WorkerType:       jw.WorkerType,
			FTE:              jw.FTE,
			IsActive:         jw.IsActive,
			RestrictedShifts: jw.RestrictedShifts,
			PreferredShifts:  jw.PreferredShifts,
			Attributes:       jw.Attributes,
		})
		if err != nil {
			return err
		}
		out.Workers = append(out.Workers, w)
	}

	for _, jst := range js.ShiftTypes {
		st, err := NewShiftType(ShiftTypeInput{
			ID:              jst.ID,
			Name:            jst.Name,
			Category:        jst.Category,
			StartTime:       jst.StartTime,
			DurationHours:   jst.DurationHours,
			WorkersRequired: jst.WorkersRequired,
			MaxWorkers:      jst.MaxWorkers,
			IsUndesirable:   jst.IsUndesirable,
			ApplicableDays:  jst.ApplicableDays,
		})
		if err != nil {
			return err
		}
		out.ShiftTypes = append(out.ShiftTypes, st)
	}

	for _, jp := range js.Periods {
		pStart, err := time.Parse(isoDateLayout, jp.Start)
		if err != nil {
			return shifterrors.Wrap(err, shifterrors.CodeInvalidTime, "invalid period start")
		}
		pEnd, err := time.Parse(isoDateLayout, jp.End)
		if err != nil {
			return shifterrors.Wrap(err, shifterrors.CodeInvalidTime, "invalid period end")
		}
		period := PeriodAssignment{
			Start:       pStart,
			End:         pEnd,
			Assignments: map[string][]Assignment{},
		}
		for workerID, jas := range jp.Assignments {
			list := make([]Assignment, 0, len(jas))
			for _, ja := range jas {
				d, err := time.Parse(isoDateLayout, ja.Date)
				if err != nil {
					return shifterrors.Wrap(err, shifterrors.CodeInvalidTime, "invalid assignment date").WithField("worker_id", workerID)
				}
				list = append(list, Assignment{
					WorkerID:    workerID,
					ShiftTypeID: ja.ShiftTypeID,
					Date:        d,
				})
			}
			period.Assignments[workerID] = list
		}
		out.Periods = append(out.Periods, period)
	}

	for _, jstat := range js.Statistics {
		out.Statistics = append(out.Statistics, ConstraintStat{
			ConstraintName:  jstat.ConstraintName,
			ViolationCount:  jstat.ViolationCount,
			WeightedPenalty: jstat.WeightedPenalty,
			WorstOffenders:  jstat.WorstOffenders,
		})
	}

	*s = out
	return nil
}
