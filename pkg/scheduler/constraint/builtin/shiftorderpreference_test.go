package builtin

import (
	"testing"

	"github.com/shiftsolver/core/pkg/cpmodel"
	"github.com/shiftsolver/core/pkg/cpmodel/stubsolver"
	"github.com/shiftsolver/core/pkg/model"
	"github.com/shiftsolver/core/pkg/scheduler/constraint"
	"github.com/shiftsolver/core/pkg/scheduler/solver/variables"
)

func mustOrderShiftCat(t *testing.T, id, category string) model.ShiftType {
	t.Helper()
	st, err := model.NewShiftType(model.ShiftTypeInput{
		ID: id, Name: id, Category: category, StartTime: "08:00", DurationHours: 8,
		WorkersRequired: 0,
	})
	if err != nil {
		t.Fatalf("NewShiftType(%s): %v", id, err)
	}
	return st
}

func mustOrderRule(t *testing.T, in model.ShiftOrderPreferenceInput) model.ShiftOrderPreference {
	t.Helper()
	r, err := model.NewShiftOrderPreference(in)
	if err != nil {
		t.Fatalf("NewShiftOrderPreference: %v", err)
	}
	return r
}

func findViolation(t *testing.T, violations []constraint.Violation, name string) constraint.Violation {
	t.Helper()
	for _, v := range violations {
		if v.Name == name {
			return v
		}
	}
	t.Fatalf("no violation named %q among %+v", name, violations)
	return constraint.Violation{}
}

func TestShiftOrderPreferenceShiftTypeTriggerAfterDirection(t *testing.T) {
	workers := []model.Worker{mustCoverageWorker(t, "a")}
	shiftTypes := []model.ShiftType{mustOrderShiftCat(t, "x", "cat1"), mustOrderShiftCat(t, "y", "cat2")}
	numPeriods := 2

	s := stubsolver.New()
	b, err := variables.New(s, workers, shiftTypes, numPeriods)
	if err != nil {
		t.Fatalf("variables.New: %v", err)
	}
	vars := b.Build()

	forceAssignment(t, s, vars, "a", 0, "x", 1)
	forceAssignment(t, s, vars, "a", 1, "y", 0)

	rule := mustOrderRule(t, model.ShiftOrderPreferenceInput{
		RuleID: "r1", TriggerType: model.OrderTriggerShiftType, TriggerValue: "x",
		Direction: model.OrderAfter, PreferredType: model.OrderPreferredShiftType, PreferredValue: "y",
	})

	c := NewShiftOrderPreference(model.ConstraintConfig{Enabled: true, Weight: 200})
	violations, err := c.Apply(s, vars, &constraint.Context{
		Workers: workers, ShiftTypes: shiftTypes, ShiftOrderPreferences: []model.ShiftOrderPreference{rule}, NumPeriods: numPeriods,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	v := findViolation(t, violations, "sop_viol_a_r1_p0")

	res, err := s.Solve(cpmodel.Params{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != cpmodel.Optimal {
		t.Fatalf("expected Optimal, got %s", res.Status)
	}
	if got := s.ValueOf(v.Var); got != 1 {
		t.Fatalf("expected trigger-without-preferred to violate, got %d", got)
	}
}

func TestShiftOrderPreferenceNoViolationWhenPreferredMet(t *testing.T) {
	workers := []model.Worker{mustCoverageWorker(t, "a")}
	shiftTypes := []model.ShiftType{mustOrderShiftCat(t, "x", "cat1"), mustOrderShiftCat(t, "y", "cat2")}
	numPeriods := 2

	s := stubsolver.New()
	b, err := variables.New(s, workers, shiftTypes, numPeriods)
	if err != nil {
		t.Fatalf("variables.New: %v", err)
	}
	vars := b.Build()

	forceAssignment(t, s, vars, "a", 0, "x", 1)
	forceAssignment(t, s, vars, "a", 1, "y", 1)

	rule := mustOrderRule(t, model.ShiftOrderPreferenceInput{
		RuleID: "r1", TriggerType: model.OrderTriggerShiftType, TriggerValue: "x",
		Direction: model.OrderAfter, PreferredType: model.OrderPreferredShiftType, PreferredValue: "y",
	})

	c := NewShiftOrderPreference(model.ConstraintConfig{Enabled: true, Weight: 200})
	violations, err := c.Apply(s, vars, &constraint.Context{
		Workers: workers, ShiftTypes: shiftTypes, ShiftOrderPreferences: []model.ShiftOrderPreference{rule}, NumPeriods: numPeriods,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	v := findViolation(t, violations, "sop_viol_a_r1_p0")

	res, err := s.Solve(cpmodel.Params{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != cpmodel.Optimal {
		t.Fatalf("expected Optimal, got %s", res.Status)
	}
	if got := s.ValueOf(v.Var); got != 0 {
		t.Fatalf("expected the preferred transition to satisfy the rule, got violation %d", got)
	}
}

func TestShiftOrderPreferenceCategoryTrigger(t *testing.T) {
	workers := []model.Worker{mustCoverageWorker(t, "a")}
	shiftTypes := []model.ShiftType{
		mustOrderShiftCat(t, "x1", "early"), mustOrderShiftCat(t, "x2", "early"),
		mustOrderShiftCat(t, "y", "late"),
	}
	numPeriods := 2

	s := stubsolver.New()
	b, err := variables.New(s, workers, shiftTypes, numPeriods)
	if err != nil {
		t.Fatalf("variables.New: %v", err)
	}
	vars := b.Build()

	forceAssignment(t, s, vars, "a", 0, "x1", 0)
	forceAssignment(t, s, vars, "a", 0, "x2", 1)
	forceAssignment(t, s, vars, "a", 1, "y", 0)

	rule := mustOrderRule(t, model.ShiftOrderPreferenceInput{
		RuleID: "r1", TriggerType: model.OrderTriggerCategory, TriggerValue: "early",
		Direction: model.OrderAfter, PreferredType: model.OrderPreferredCategory, PreferredValue: "late",
	})

	c := NewShiftOrderPreference(model.ConstraintConfig{Enabled: true, Weight: 200})
	violations, err := c.Apply(s, vars, &constraint.Context{
		Workers: workers, ShiftTypes: shiftTypes, ShiftOrderPreferences: []model.ShiftOrderPreference{rule}, NumPeriods: numPeriods,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	v := findViolation(t, violations, "sop_viol_a_r1_p0")

	res, err := s.Solve(cpmodel.Params{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != cpmodel.Optimal {
		t.Fatalf("expected Optimal, got %s", res.Status)
	}
	if got := s.ValueOf(v.Var); got != 1 {
		t.Fatalf("expected a category-trigger violation, got %d", got)
	}
}

func TestShiftOrderPreferenceUnavailabilityTrigger(t *testing.T) {
	workers := []model.Worker{mustCoverageWorker(t, "a")}
	shiftTypes := []model.ShiftType{mustOrderShiftCat(t, "y", "late")}
	numPeriods := 2

	s := stubsolver.New()
	b, err := variables.New(s, workers, shiftTypes, numPeriods)
	if err != nil {
		t.Fatalf("variables.New: %v", err)
	}
	vars := b.Build()

	forceAssignment(t, s, vars, "a", 1, "y", 0)

	cal := mustCoverageCalendar(t, 2)
	av, err := model.NewAvailability(model.AvailabilityInput{
		WorkerID: "a", StartDate: cal.Period(0).Start, EndDate: cal.Period(0).End, Type: model.Unavailable,
	})
	if err != nil {
		t.Fatalf("NewAvailability: %v", err)
	}

	rule := mustOrderRule(t, model.ShiftOrderPreferenceInput{
		RuleID: "r1", TriggerType: model.OrderTriggerUnavailability,
		Direction: model.OrderAfter, PreferredType: model.OrderPreferredShiftType, PreferredValue: "y",
	})

	c := NewShiftOrderPreference(model.ConstraintConfig{Enabled: true, Weight: 200})
	violations, err := c.Apply(s, vars, &constraint.Context{
		Workers: workers, ShiftTypes: shiftTypes, PeriodDates: cal.Periods(),
		Availabilities: []model.Availability{av}, ShiftOrderPreferences: []model.ShiftOrderPreference{rule}, NumPeriods: numPeriods,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	v := findViolation(t, violations, "sop_viol_a_r1_p0")

	res, err := s.Solve(cpmodel.Params{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != cpmodel.Optimal {
		t.Fatalf("expected Optimal, got %s", res.Status)
	}
	if got := s.ValueOf(v.Var); got != 1 {
		t.Fatalf("expected unavailability-without-recovery to violate, got %d", got)
	}
}

func TestShiftOrderPreferenceBeforeDirection(t *testing.T) {
	workers := []model.Worker{mustCoverageWorker(t, "a")}
	shiftTypes := []model.ShiftType{mustOrderShiftCat(t, "x", "cat1"), mustOrderShiftCat(t, "y", "cat2")}
	numPeriods := 2

	s := stubsolver.New()
	b, err := variables.New(s, workers, shiftTypes, numPeriods)
	if err != nil {
		t.Fatalf("variables.New: %v", err)
	}
	vars := b.Build()

	// direction=before: trigger at p+1, preferred at p. Trigger fires at
	// period 1 (worker works x), period 0 (preferred y) is left unworked.
	forceAssignment(t, s, vars, "a", 1, "x", 1)
	forceAssignment(t, s, vars, "a", 0, "y", 0)

	rule := mustOrderRule(t, model.ShiftOrderPreferenceInput{
		RuleID: "r1", TriggerType: model.OrderTriggerShiftType, TriggerValue: "x",
		Direction: model.OrderBefore, PreferredType: model.OrderPreferredShiftType, PreferredValue: "y",
	})

	c := NewShiftOrderPreference(model.ConstraintConfig{Enabled: true, Weight: 200})
	violations, err := c.Apply(s, vars, &constraint.Context{
		Workers: workers, ShiftTypes: shiftTypes, ShiftOrderPreferences: []model.ShiftOrderPreference{rule}, NumPeriods: numPeriods,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	// direction=before still names the violation after the trigger period,
	// which is p+1 == 1 for the loop index p == 0.
	v := findViolation(t, violations, "sop_viol_a_r1_p1")

	res, err := s.Solve(cpmodel.Params{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != cpmodel.Optimal {
		t.Fatalf("expected Optimal, got %s", res.Status)
	}
	if got := s.ValueOf(v.Var); got != 1 {
		t.Fatalf("expected a before-direction violation, got %d", got)
	}
}

func TestShiftOrderPreferenceWorkerIDsFiltering(t *testing.T) {
	workers := []model.Worker{mustCoverageWorker(t, "a"), mustCoverageWorker(t, "b")}
	shiftTypes := []model.ShiftType{mustOrderShiftCat(t, "x", "cat1"), mustOrderShiftCat(t, "y", "cat2")}
	numPeriods := 2

	s := stubsolver.New()
	b, err := variables.New(s, workers, shiftTypes, numPeriods)
	if err != nil {
		t.Fatalf("variables.New: %v", err)
	}
	vars := b.Build()

	forceAssignment(t, s, vars, "a", 0, "x", 1)
	forceAssignment(t, s, vars, "a", 1, "y", 0)
	forceAssignment(t, s, vars, "b", 0, "x", 1)
	forceAssignment(t, s, vars, "b", 1, "y", 0)

	rule := mustOrderRule(t, model.ShiftOrderPreferenceInput{
		RuleID: "r1", TriggerType: model.OrderTriggerShiftType, TriggerValue: "x",
		Direction: model.OrderAfter, PreferredType: model.OrderPreferredShiftType, PreferredValue: "y",
		WorkerIDs: []string{"a"},
	})

	c := NewShiftOrderPreference(model.ConstraintConfig{Enabled: true, Weight: 200})
	violations, err := c.Apply(s, vars, &constraint.Context{
		Workers: workers, ShiftTypes: shiftTypes, ShiftOrderPreferences: []model.ShiftOrderPreference{rule}, NumPeriods: numPeriods,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(violations) != 1 {
		t.Fatalf("expected exactly 1 violation var scoped to worker a, got %d: %+v", len(violations), violations)
	}
	findViolation(t, violations, "sop_viol_a_r1_p0")
}

func TestShiftOrderPreferenceUnknownShiftIsSkipped(t *testing.T) {
	workers := []model.Worker{mustCoverageWorker(t, "a")}
	shiftTypes := []model.ShiftType{mustOrderShiftCat(t, "x", "cat1")}
	numPeriods := 2

	s := stubsolver.New()
	b, err := variables.New(s, workers, shiftTypes, numPeriods)
	if err != nil {
		t.Fatalf("variables.New: %v", err)
	}
	vars := b.Build()

	rule := mustOrderRule(t, model.ShiftOrderPreferenceInput{
		RuleID: "r1", TriggerType: model.OrderTriggerShiftType, TriggerValue: "x",
		Direction: model.OrderAfter, PreferredType: model.OrderPreferredShiftType, PreferredValue: "does-not-exist",
	})

	c := NewShiftOrderPreference(model.ConstraintConfig{Enabled: true, Weight: 200})
	violations, err := c.Apply(s, vars, &constraint.Context{
		Workers: workers, ShiftTypes: shiftTypes, ShiftOrderPreferences: []model.ShiftOrderPreference{rule}, NumPeriods: numPeriods,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if violations != nil {
		t.Fatalf("expected no violations for a rule naming an unknown shift type, got %+v", violations)
	}
}

func TestShiftOrderPreferenceRestrictedPreferredIsSkipped(t *testing.T) {
	worker, err := model.NewWorker(model.WorkerInput{ID: "a", Name: "a", FTE: 1, IsActive: true, RestrictedShifts: []string{"y"}})
	if err != nil {
		t.Fatalf("NewWorker: %v", err)
	}
	workers := []model.Worker{worker}
	shiftTypes := []model.ShiftType{mustOrderShiftCat(t, "x", "cat1"), mustOrderShiftCat(t, "y", "cat2")}
	numPeriods := 2

	s := stubsolver.New()
	b, err := variables.New(s, workers, shiftTypes, numPeriods)
	if err != nil {
		t.Fatalf("variables.New: %v", err)
	}
	vars := b.Build()

	forceAssignment(t, s, vars, "a", 0, "x", 1)

	rule := mustOrderRule(t, model.ShiftOrderPreferenceInput{
		RuleID: "r1", TriggerType: model.OrderTriggerShiftType, TriggerValue: "x",
		Direction: model.OrderAfter, PreferredType: model.OrderPreferredShiftType, PreferredValue: "y",
	})

	c := NewShiftOrderPreference(model.ConstraintConfig{Enabled: true, Weight: 200})
	violations, err := c.Apply(s, vars, &constraint.Context{
		Workers: workers, ShiftTypes: shiftTypes, ShiftOrderPreferences: []model.ShiftOrderPreference{rule}, NumPeriods: numPeriods,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if violations != nil {
		t.Fatalf("expected no violations when the worker is restricted from the only preferred shift, got %+v", violations)
	}
}

func TestShiftOrderPreferenceDisabledAddsNothing(t *testing.T) {
	workers := []model.Worker{mustCoverageWorker(t, "a")}
	shiftTypes := []model.ShiftType{mustOrderShiftCat(t, "x", "cat1"), mustOrderShiftCat(t, "y", "cat2")}
	numPeriods := 2

	s := stubsolver.New()
	b, err := variables.New(s, workers, shiftTypes, numPeriods)
	if err != nil {
		t.Fatalf("variables.New: %v", err)
	}
	vars := b.Build()

	rule := mustOrderRule(t, model.ShiftOrderPreferenceInput{
		RuleID: "r1", TriggerType: model.OrderTriggerShiftType, TriggerValue: "x",
		Direction: model.OrderAfter, PreferredType: model.OrderPreferredShiftType, PreferredValue: "y",
	})

	c := NewShiftOrderPreference(model.ConstraintConfig{Enabled: false})
	violations, err := c.Apply(s, vars, &constraint.Context{
		Workers: workers, ShiftTypes: shiftTypes, ShiftOrderPreferences: []model.ShiftOrderPreference{rule}, NumPeriods: numPeriods,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if violations != nil {
		t.Fatalf("expected no violations from a disabled constraint, got %+v", violations)
	}
}

func TestShiftOrderPreferenceSinglePeriodIsNoOp(t *testing.T) {
	workers := []model.Worker{mustCoverageWorker(t, "a")}
	shiftTypes := []model.ShiftType{mustOrderShiftCat(t, "x", "cat1"), mustOrderShiftCat(t, "y", "cat2")}

	s := stubsolver.New()
	b, err := variables.New(s, workers, shiftTypes, 1)
	if err != nil {
		t.Fatalf("variables.New: %v", err)
	}
	vars := b.Build()

	rule := mustOrderRule(t, model.ShiftOrderPreferenceInput{
		RuleID: "r1", TriggerType: model.OrderTriggerShiftType, TriggerValue: "x",
		Direction: model.OrderAfter, PreferredType: model.OrderPreferredShiftType, PreferredValue: "y",
	})

	c := NewShiftOrderPreference(model.ConstraintConfig{Enabled: true, Weight: 200})
	violations, err := c.Apply(s, vars, &constraint.Context{
		Workers: workers, ShiftTypes: shiftTypes, ShiftOrderPreferences: []model.ShiftOrderPreference{rule}, NumPeriods: 1,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if violations != nil {
		t.Fatalf("expected no violations with only one period, got %+v", violations)
	}
}
