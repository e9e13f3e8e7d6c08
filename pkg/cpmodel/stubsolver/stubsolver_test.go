package stubsolver

import (
	"testing"

	"github.com/shiftsolver/core/pkg/cpmodel"
)

func TestSolvesSimpleEquality(t *testing.T) {
	s := New()
	x := s.NewInt(0, 10)
	y := s.NewInt(0, 10)
	s.AddLinearEq(cpmodel.NewLinearExpr().Add(x).Add(y), 10)
	s.Minimize(cpmodel.NewLinearExpr().Add(x))

	result, err := s.Solve(cpmodel.Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != cpmodel.Optimal {
		t.Fatalf("expected Optimal, got %v", result.Status)
	}
	if s.ValueOf(x) != 0 || s.ValueOf(y) != 10 {
		t.Fatalf("expected x=0,y=10 minimizing x; got x=%d,y=%d", s.ValueOf(x), s.ValueOf(y))
	}
}

func TestInfeasibleModel(t *testing.T) {
	s := New()
	x := s.NewInt(0, 5)
	s.AddLinearGE(cpmodel.NewLinearExpr().Add(x), 10)

	result, err := s.Solve(cpmodel.Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != cpmodel.Infeasible {
		t.Fatalf("expected Infeasible, got %v", result.Status)
	}
}

func TestImplicationOnlyAppliesWhenLiteralHolds(t *testing.T) {
	s := New()
	b := s.NewBool()
	x := s.NewInt(0, 1)
	ref := s.AddLinearEq(cpmodel.NewLinearExpr().Add(x), 1)
	s.AddImplication(b.Lit(), ref)
	s.Minimize(cpmodel.NewLinearExpr().Add(b))

	result, err := s.Solve(cpmodel.Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != cpmodel.Optimal {
		t.Fatalf("expected Optimal, got %v", result.Status)
	}
	// Minimizing b should drive it to 0, which frees x==1 from applying.
	if s.ValueOf(b) != 0 {
		t.Fatalf("expected b=0, got %d", s.ValueOf(b))
	}
}

func TestBoolVarDomain(t *testing.T) {
	s := New()
	b := s.NewBool()
	s.Minimize(cpmodel.NewLinearExpr().Add(b).AddTerm(-1, b))

	result, err := s.Solve(cpmodel.Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != cpmodel.Optimal {
		t.Fatalf("expected Optimal, got %v", result.Status)
	}
	if *result.ObjectiveValue != 0 {
		t.Fatalf("expected objective 0, got %v", *result.ObjectiveValue)
	}
}
