// Package objective builds the weighted minimization objective from the
// violation variables every enabled soft constraint registers (§4.6).
package objective

import (
	"github.com/shiftsolver/core/pkg/cpmodel"
	"github.com/shiftsolver/core/pkg/scheduler/constraint"
)

// Term is one constraint's contribution to the objective: one violation
// variable, the coefficient it carries, and which constraint registered
// it — kept around for the solution extractor's per-constraint stats.
type Term struct {
	ConstraintName string
	Violation      constraint.Violation
	Coefficient    int64
}

// Builder accumulates Terms from every enabled soft constraint's
// returned violations and emits a single minimize(...) call.
type Builder struct {
	terms []Term
}

// New returns an empty Builder.
func New() *Builder { return &Builder{} }

// Add registers the violations one constraint's Apply call returned.
// Hard constraints contribute nothing to the objective and should not
// be passed here; the caller (the orchestrator) filters them out.
func (b *Builder) Add(constraintName string, weight int, violations []constraint.Violation) {
	for _, v := range violations {
		coef := coefficientFor(v, weight)
		if coef == 0 {
			continue
		}
		b.terms = append(b.terms, Term{ConstraintName: constraintName, Violation: v, Coefficient: coef})
	}
}

// coefficientFor computes weight_c * coef(v) per the rules of §4.6:
// violation variables are priced by their declared priority (default
// 1), objective-target variables by the constraint weight alone, and
// auxiliary variables never contribute.
func coefficientFor(v constraint.Violation, weight int) int64 {
	switch v.Type {
	case constraint.VarViolation:
		priority := v.Priority
		if priority == 0 {
			priority = 1
		}
		return int64(weight) * int64(priority)
	case constraint.VarObjectiveTarget:
		return int64(weight)
	case constraint.VarAuxiliary:
		return 0
	default:
		return 0
	}
}

// Terms returns every accumulated term, for introspection and the
// solution extractor's per-constraint violation statistics (§4.9).
func (b *Builder) Terms() []Term {
	return b.terms
}

// Build emits the single minimize(...) call the objective requires. An
// empty term set minimizes the constant zero, exactly as an empty
// constraint set should (§4.6) — CP-SAT backends require a minimize
// call to have run before solve either way.
func (b *Builder) Build(solver cpmodel.Solver) {
	expr := cpmodel.NewLinearExpr()
	for _, t := range b.terms {
		expr.AddTerm(t.Coefficient, t.Violation.Var)
	}
	solver.Minimize(expr)
}
