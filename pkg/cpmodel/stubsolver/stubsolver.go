// Package stubsolver implements a deterministic, exhaustive-search backend
// for pkg/cpmodel.Solver. It is sufficient for every core test except the
// sliding-window interaction tests (§4.5.5-§4.5.9), which exercise search
// heuristics only a real CP-SAT backend has (§9).
package stubsolver

import (
	"time"

	"github.com/shiftsolver/core/pkg/cpmodel"
)

// maxNodesExplored bounds the exhaustive search so a misused stub (e.g. a
// model with wide integer domains) ends as Unknown (or Feasible, when a
// solution was already found) instead of hanging a test.
const maxNodesExplored = 2_000_000

type relKind int

const (
	relEq relKind = iota
	relLE
	relGE
)

type storedConstraint struct {
	kind    relKind
	expr    *cpmodel.LinearExpr
	rhs     int64
	literal *cpmodel.Literal
}

// Solver is a brute-force cpmodel.Solver: it enumerates every assignment of
// every variable's domain and keeps the feasible one with the lowest
// objective value. A search that completes is exhaustive, so its solution
// is reported Optimal; a search cut short by maxNodesExplored reports its
// best solution so far as Feasible.
type Solver struct {
	numBool     int
	intDomains  [][2]int64
	constraints []storedConstraint
	objective   *cpmodel.LinearExpr

	boolValues []int64
	intValues  []int64
}

// New constructs an empty stub model.
func New() *Solver {
	return &Solver{}
}

var _ cpmodel.Solver = (*Solver)(nil)

func (s *Solver) NewBool() cpmodel.BoolVar {
	id := s.numBool
	s.numBool++
	return cpmodel.NewBoolVarWithID(id)
}

func (s *Solver) NewInt(lo, hi int64) cpmodel.IntVar {
	id := len(s.intDomains)
	s.intDomains = append(s.intDomains, [2]int64{lo, hi})
	return cpmodel.NewIntVarWithID(id)
}

func (s *Solver) addConstraint(kind relKind, expr *cpmodel.LinearExpr, rhs int64) cpmodel.ConstraintRef {
	id := len(s.constraints)
	s.constraints = append(s.constraints, storedConstraint{kind: kind, expr: expr, rhs: rhs})
	return cpmodel.NewConstraintRefWithID(id)
}

func (s *Solver) AddLinearEq(expr *cpmodel.LinearExpr, rhs int64) cpmodel.ConstraintRef {
	return s.addConstraint(relEq, expr, rhs)
}

func (s *Solver) AddLinearLE(expr *cpmodel.LinearExpr, rhs int64) cpmodel.ConstraintRef {
	return s.addConstraint(relLE, expr, rhs)
}

func (s *Solver) AddLinearGE(expr *cpmodel.LinearExpr, rhs int64) cpmodel.ConstraintRef {
	return s.addConstraint(relGE, expr, rhs)
}

func (s *Solver) AddImplication(lit cpmodel.Literal, c cpmodel.ConstraintRef) {
	l := lit
	s.constraints[c.ID()].literal = &l
}

func (s *Solver) Minimize(expr *cpmodel.LinearExpr) {
	s.objective = expr
}

func evalExpr(expr *cpmodel.LinearExpr, boolValues, intValues []int64) int64 {
	if expr == nil {
		return 0
	}
	total := expr.Constant
	for _, t := range expr.Terms {
		switch v := t.Var.(type) {
		case cpmodel.BoolVar:
			total += t.Coeff * boolValues[v.ID()]
		case cpmodel.IntVar:
			total += t.Coeff * intValues[v.ID()]
		}
	}
	return total
}

func (s *Solver) satisfiesAll(boolValues, intValues []int64) bool {
	for _, c := range s.constraints {
		if c.literal != nil {
			litValue := boolValues[c.literal.Var.ID()]
			holds := (litValue == 1) != c.literal.Negated
			if !holds {
				continue
			}
		}
		val := evalExpr(c.expr, boolValues, intValues)
		switch c.kind {
		case relEq:
			if val != c.rhs {
				return false
			}
		case relLE:
			if val > c.rhs {
				return false
			}
		case relGE:
			if val < c.rhs {
				return false
			}
		}
	}
	return true
}

// Solve exhaustively enumerates every variable assignment. params.
// TimeLimitSeconds is not enforced; the stub is deterministic and only
// meant for the small models unit tests build.
func (s *Solver) Solve(cpmodel.Params) (cpmodel.Result, error) {
	start := time.Now()

	boolAssignment := make([]int64, s.numBool)
	intAssignment := make([]int64, len(s.intDomains))

	var bestObjective *int64
	var bestBool, bestInt []int64
	nodesExplored := 0
	timedOut := false

	var recurseInt func(i int) bool
	recurseInt = func(i int) bool {
		if i == len(s.intDomains) {
			nodesExplored++
			if nodesExplored > maxNodesExplored {
				return true
			}
			if s.satisfiesAll(boolAssignment, intAssignment) {
				obj := evalExpr(s.objective, boolAssignment, intAssignment)
				if bestObjective == nil || obj < *bestObjective {
					o := obj
					bestObjective = &o
					bestBool = append([]int64(nil), boolAssignment...)
					bestInt = append([]int64(nil), intAssignment...)
				}
			}
			return false
		}
		lo, hi := s.intDomains[i][0], s.intDomains[i][1]
		for v := lo; v <= hi; v++ {
			intAssignment[i] = v
			if recurseInt(i + 1) {
				return true
			}
		}
		return false
	}

	var recurseBool func(i int) bool
	recurseBool = func(i int) bool {
		if i == s.numBool {
			return recurseInt(0)
		}
		for v := int64(0); v <= 1; v++ {
			boolAssignment[i] = v
			if recurseBool(i + 1) {
				return true
			}
		}
		return false
	}

	timedOut = recurseBool(0)
	wall := time.Since(start)

	if bestObjective == nil {
		if timedOut {
			return cpmodel.Result{Status: cpmodel.Unknown, WallTime: wall}, nil
		}
		return cpmodel.Result{Status: cpmodel.Infeasible, WallTime: wall}, nil
	}

	s.boolValues = bestBool
	s.intValues = bestInt
	objective := float64(*bestObjective)
	status := cpmodel.Optimal
	if timedOut {
		status = cpmodel.Feasible
	}
	return cpmodel.Result{Status: status, ObjectiveValue: &objective, WallTime: wall}, nil
}

func (s *Solver) ValueOf(v cpmodel.Var) int64 {
	switch vv := v.(type) {
	case cpmodel.BoolVar:
		return s.boolValues[vv.ID()]
	case cpmodel.IntVar:
		return s.intValues[vv.ID()]
	default:
		return 0
	}
}
