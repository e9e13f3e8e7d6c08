package builtin

import (
	"testing"

	"github.com/shiftsolver/core/pkg/cpmodel"
	"github.com/shiftsolver/core/pkg/cpmodel/stubsolver"
	"github.com/shiftsolver/core/pkg/model"
	"github.com/shiftsolver/core/pkg/scheduler/constraint"
	"github.com/shiftsolver/core/pkg/scheduler/solver/variables"
)

func mustShiftFrequencyReq(t *testing.T, workerID string, shiftTypes []string, maxPeriodsBetween int) model.ShiftFrequencyRequirement {
	t.Helper()
	req, err := model.NewShiftFrequencyRequirement(model.ShiftFrequencyRequirementInput{
		WorkerID: workerID, ShiftTypes: shiftTypes, MaxPeriodsBetween: maxPeriodsBetween,
	})
	if err != nil {
		t.Fatalf("NewShiftFrequencyRequirement: %v", err)
	}
	return req
}

func TestShiftFrequencyHardModeForcesPresenceInEveryWindow(t *testing.T) {
	workers := []model.Worker{mustCoverageWorker(t, "a")}
	shiftTypes := []model.ShiftType{mustShift(t, "day", 0, false), mustShift(t, "night", 0, true)}
	numPeriods := 3

	s := stubsolver.New()
	b, err := variables.New(s, workers, shiftTypes, numPeriods)
	if err != nil {
		t.Fatalf("variables.New: %v", err)
	}
	vars := b.Build()

	reqs := []model.ShiftFrequencyRequirement{mustShiftFrequencyReq(t, "a", []string{"day"}, 1)}

	c := NewShiftFrequency(model.ConstraintConfig{Enabled: true, IsHard: true})
	if _, err := c.Apply(s, vars, &constraint.Context{
		Workers: workers, ShiftTypes: shiftTypes, ShiftFrequencyRequirements: reqs, NumPeriods: numPeriods,
	}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	res, err := s.Solve(cpmodel.Params{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != cpmodel.Optimal {
		t.Fatalf("expected a feasible pattern, got %s", res.Status)
	}

	for p := 0; p < numPeriods-1; p++ {
		v0, _ := vars.AssignmentVar("a", p, "day")
		v1, _ := vars.AssignmentVar("a", p+1, "day")
		if s.ValueOf(v0)+s.ValueOf(v1) < 1 {
			t.Fatalf("window [%d,%d] has no day assignment", p, p+1)
		}
	}
}

func TestShiftFrequencySoftModeRegistersViolationWhenWindowIsEmpty(t *testing.T) {
	workers := []model.Worker{mustCoverageWorker(t, "a")}
	shiftTypes := []model.ShiftType{mustShift(t, "day", 0, false), mustShift(t, "night", 0, true)}
	numPeriods := 2

	s := stubsolver.New()
	b, err := variables.New(s, workers, shiftTypes, numPeriods)
	if err != nil {
		t.Fatalf("variables.New: %v", err)
	}
	vars := b.Build()

	forceAssignment(t, s, vars, "a", 0, "day", 0)
	forceAssignment(t, s, vars, "a", 1, "day", 0)

	reqs := []model.ShiftFrequencyRequirement{mustShiftFrequencyReq(t, "a", []string{"day"}, 1)}

	c := NewShiftFrequency(model.ConstraintConfig{Enabled: true, Weight: 500})
	violations, err := c.Apply(s, vars, &constraint.Context{
		Workers: workers, ShiftTypes: shiftTypes, ShiftFrequencyRequirements: reqs, NumPeriods: numPeriods,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(violations) != 2 {
		t.Fatalf("expected exactly 2 window violations (one per single-period window), got %d", len(violations))
	}

	res, err := s.Solve(cpmodel.Params{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != cpmodel.Optimal {
		t.Fatalf("expected Optimal, got %s", res.Status)
	}
	if got := s.ValueOf(violations[0].Var); got != 1 {
		t.Fatalf("expected the empty window to flag a violation, got %d", got)
	}
}

func TestShiftFrequencyHardModeIsUnsatisfiableWhenNoVariableCoversTheGroup(t *testing.T) {
	// vars is built for a different worker set than ctx.Workers names, so
	// the requirement's worker passes the context's own validity check but
	// every AssignmentVar lookup against vars still fails.
	buildWorkers := []model.Worker{mustCoverageWorker(t, "other")}
	ctxWorkers := []model.Worker{mustCoverageWorker(t, "a")}
	shiftTypes := []model.ShiftType{mustShift(t, "day", 0, false)}
	numPeriods := 1

	s := stubsolver.New()
	b, err := variables.New(s, buildWorkers, shiftTypes, numPeriods)
	if err != nil {
		t.Fatalf("variables.New: %v", err)
	}
	vars := b.Build()

	reqs := []model.ShiftFrequencyRequirement{mustShiftFrequencyReq(t, "a", []string{"day"}, 1)}

	c := NewShiftFrequency(model.ConstraintConfig{Enabled: true, IsHard: true})
	if _, err := c.Apply(s, vars, &constraint.Context{
		Workers: ctxWorkers, ShiftTypes: shiftTypes, ShiftFrequencyRequirements: reqs, NumPeriods: numPeriods,
	}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	res, err := s.Solve(cpmodel.Params{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != cpmodel.Infeasible {
		t.Fatalf("expected Infeasible since no variable can ever satisfy the requirement, got %s", res.Status)
	}
}

func TestShiftFrequencyNoRequirementsIsNoOp(t *testing.T) {
	workers := []model.Worker{mustCoverageWorker(t, "a")}
	shiftTypes := []model.ShiftType{mustShift(t, "day", 0, false)}

	s := stubsolver.New()
	b, err := variables.New(s, workers, shiftTypes, 1)
	if err != nil {
		t.Fatalf("variables.New: %v", err)
	}
	vars := b.Build()

	c := NewShiftFrequency(model.ConstraintConfig{Enabled: true})
	violations, err := c.Apply(s, vars, &constraint.Context{
		Workers: workers, ShiftTypes: shiftTypes, NumPeriods: 1,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if violations != nil {
		t.Fatalf("expected no violations with no requirements configured, got %+v", violations)
	}
}
