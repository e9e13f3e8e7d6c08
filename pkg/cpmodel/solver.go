// Package cpmodel defines the abstract constraint-programming solver
// interface the scheduling core depends on (§4.2). Any CP-SAT-compatible
// backend can implement Solver; the core never imports a concrete backend
// directly. Two implementations live in subpackages: ortools (wraps Google
// OR-Tools' CP-SAT) and stubsolver (a deterministic brute-force backend for
// tests that don't need real search).
package cpmodel

import "time"

// Var is any variable the builder can reference in a linear expression —
// either a BoolVar (domain {0,1}) or an IntVar (bounded integer domain).
type Var interface {
	varID() int
}

// BoolVar is a boolean decision variable.
type BoolVar struct{ id int }

func (v BoolVar) varID() int { return v.id }

// ID returns the variable's stable index within its model.
func (v BoolVar) ID() int { return v.id }

// Lit returns the positive literal for v.
func (v BoolVar) Lit() Literal { return Literal{Var: v} }

// Not returns the negated literal for v.
func (v BoolVar) Not() Literal { return Literal{Var: v, Negated: true} }

// IntVar is a bounded integer decision variable.
type IntVar struct{ id int }

func (v IntVar) varID() int { return v.id }

// ID returns the variable's stable index within its model.
func (v IntVar) ID() int { return v.id }

// Literal is a BoolVar or its negation, the unit OnlyEnforceIf conditions
// are expressed in.
type Literal struct {
	Var     BoolVar
	Negated bool
}

// Term is one coefficient*variable addend of a LinearExpr.
type Term struct {
	Coeff int64
	Var   Var
}

// LinearExpr is a sum of weighted variables plus a constant offset.
type LinearExpr struct {
	Terms    []Term
	Constant int64
}

// NewLinearExpr returns an empty expression.
func NewLinearExpr() *LinearExpr {
	return &LinearExpr{}
}

// Add appends v with coefficient 1.
func (e *LinearExpr) Add(v Var) *LinearExpr {
	return e.AddTerm(1, v)
}

// AddTerm appends coeff*v.
func (e *LinearExpr) AddTerm(coeff int64, v Var) *LinearExpr {
	e.Terms = append(e.Terms, Term{Coeff: coeff, Var: v})
	return e
}

// AddConstant shifts the expression's constant offset.
func (e *LinearExpr) AddConstant(c int64) *LinearExpr {
	e.Constant += c
	return e
}

// ConstraintRef is an opaque handle to a previously added linear
// constraint, used only as the target of AddImplication (§4.2).
type ConstraintRef struct{ id int }

// ID returns the constraint's stable index within its model.
func (c ConstraintRef) ID() int { return c.id }

// NewBoolVarWithID and the constructors below let a Solver implementation
// build Var/ConstraintRef values carrying its own id bookkeeping; the id
// fields stay unexported so nothing outside a backend can fabricate a
// handle into someone else's model.
func NewBoolVarWithID(id int) BoolVar             { return BoolVar{id: id} }
func NewIntVarWithID(id int) IntVar               { return IntVar{id: id} }
func NewConstraintRefWithID(id int) ConstraintRef { return ConstraintRef{id: id} }

// Status is the backend's terminal solve status (§4.2, §6).
type Status string

const (
	Optimal            Status = "optimal"
	Feasible           Status = "feasible"
	Infeasible         Status = "infeasible"
	Unknown            Status = "unknown"
	PreSolveInfeasible Status = "pre_solve_infeasible"
)

// Params configures one Solve call (§5, §6).
type Params struct {
	TimeLimitSeconds    float64
	QuickSolveSeconds   float64 // 0 disables quick-solve
	NumSearchWorkers    int
	LogSearchProgress   bool
	OptimalityTolerance float64
}

// Result is a backend's verdict for one Solve call.
type Result struct {
	Status         Status
	ObjectiveValue *float64
	WallTime       time.Duration
}

// Solver is the only surface the scheduling core depends on (§4.2, §9). A
// real backend is wired in by the host; a deterministic stub suffices for
// tests that don't exercise sliding-window interaction (§9).
type Solver interface {
	NewBool() BoolVar
	NewInt(lo, hi int64) IntVar

	AddLinearEq(expr *LinearExpr, rhs int64) ConstraintRef
	AddLinearLE(expr *LinearExpr, rhs int64) ConstraintRef
	AddLinearGE(expr *LinearExpr, rhs int64) ConstraintRef

	// AddImplication enforces constraint c only when lit holds — "the
	// linear constraint holds if the literal is true" (§4.2).
	AddImplication(lit Literal, c ConstraintRef)

	Minimize(expr *LinearExpr)

	Solve(params Params) (Result, error)

	// ValueOf reads back a variable's value from a solved model. It is
	// only meaningful after a Solve call returning Optimal or Feasible.
	ValueOf(v Var) int64
}
