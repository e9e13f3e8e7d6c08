//go:build integration

// These scenarios need the real CP-SAT backend rather than the
// brute-force stub: S4's window interacts with coverage's forced-zero
// equations in a way the stub's exhaustive per-bool-assignment search
// would blow well past its node budget on (§9), and S5's availability
// window is small enough for the stub but is kept alongside S4 here so
// every orchestrator-level scenario that needs or-tools lives in one
// file, run under `go test -tags=integration`.
package solver

import (
	"testing"
	"time"

	"github.com/shiftsolver/core/pkg/calendar"
	"github.com/shiftsolver/core/pkg/cpmodel"
	"github.com/shiftsolver/core/pkg/cpmodel/ortools"
	"github.com/shiftsolver/core/pkg/model"
	"github.com/shiftsolver/core/pkg/scheduler/constraint/builtin"
)

// TestOrchestratorShiftFrequencySoft mirrors scenario S4: a single
// worker, a coverage-free pair of shift types X/Y carrying a soft
// shift-frequency requirement, and an always-staffed shift Z that
// leaves no room for A to ever work X or Y. The requirement is
// necessarily violated in every window; the solve must still reach
// Optimal and the penalty must show up in shift_frequency's stats.
func TestOrchestratorShiftFrequencySoft(t *testing.T) {
	req, err := model.NewShiftFrequencyRequirement(model.ShiftFrequencyRequirementInput{
		WorkerID: "a", ShiftTypes: []string{"x", "y"}, MaxPeriodsBetween: 2,
	})
	if err != nil {
		t.Fatalf("NewShiftFrequencyRequirement: %v", err)
	}

	in := Input{
		Workers: []model.Worker{mustWorker(t, "a")},
		ShiftTypes: []model.ShiftType{
			mustShift(t, "x", 0, false),
			mustShift(t, "y", 0, false),
			mustShift(t, "z", 1, false),
		},
		Calendar:                   mustCalendar(t, 4),
		ShiftFrequencyRequirements: []model.ShiftFrequencyRequirement{req},
		ConstraintConfigs: map[string]model.ConstraintConfig{
			"shift_frequency": {Enabled: true, IsHard: false, Weight: 500},
		},
		ScheduleID: "s4",
	}

	o := New(ortools.New(), builtin.NewDefaultRegistry(), in)
	res, err := o.Run(Params{TimeLimitSeconds: 10})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != cpmodel.Optimal && res.Status != cpmodel.Feasible {
		t.Fatalf("expected Optimal or Feasible, got %s", res.Status)
	}

	var sfStat *model.ConstraintStat
	for i := range res.PerConstraintStats {
		if res.PerConstraintStats[i].ConstraintName == "shift_frequency" {
			sfStat = &res.PerConstraintStats[i]
		}
	}
	if sfStat == nil || sfStat.ViolationCount == 0 {
		t.Fatalf("expected a nonzero shift_frequency violation count, got %+v", res.PerConstraintStats)
	}
}

// TestOrchestratorUnavailability mirrors scenario S5: worker A is
// unavailable on the middle of 3 single-day periods, so day-1 must go
// to B while day-0 and day-2 may go to either worker.
func TestOrchestratorUnavailability(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	av, err := model.NewAvailability(model.AvailabilityInput{
		WorkerID:  "a",
		StartDate: start.AddDate(0, 0, 1),
		EndDate:   start.AddDate(0, 0, 1),
		Type:      model.Unavailable,
	})
	if err != nil {
		t.Fatalf("NewAvailability: %v", err)
	}

	cal, err := calendar.New(start, start.AddDate(0, 0, 2), 1)
	if err != nil {
		t.Fatalf("calendar.New: %v", err)
	}

	in := Input{
		Workers:        []model.Worker{mustWorker(t, "a"), mustWorker(t, "b")},
		ShiftTypes:     []model.ShiftType{mustShift(t, "day", 1, false)},
		Calendar:       cal,
		Availabilities: []model.Availability{av},
		ScheduleID:     "s5",
	}

	o := New(ortools.New(), builtin.NewDefaultRegistry(), in)
	res, err := o.Run(Params{TimeLimitSeconds: 10})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != cpmodel.Optimal && res.Status != cpmodel.Feasible {
		t.Fatalf("expected Optimal or Feasible, got %s", res.Status)
	}
	for p, period := range res.Schedule.Periods {
		dayCount := 0
		for workerID, assignments := range period.Assignments {
			for _, a := range assignments {
				if a.ShiftTypeID != "day" {
					continue
				}
				dayCount++
				if p == 1 && workerID == "a" {
					t.Fatalf("worker a is unavailable in period 1 but was assigned to day")
				}
			}
		}
		if dayCount != 1 {
			t.Errorf("period %d: expected exactly 1 day assignment, got %d", p, dayCount)
		}
	}
}
