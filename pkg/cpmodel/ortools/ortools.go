// Package ortools wires the abstract solver interface (pkg/cpmodel) to
// Google OR-Tools' CP-SAT backend. This is the only package in the core
// that imports a concrete constraint-programming engine.
package ortools

import (
	"time"

	realcp "github.com/google/or-tools/ortools/sat/go/cpmodel"
	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"
	sppb "github.com/google/or-tools/ortools/sat/proto/satparameters"
	"google.golang.org/protobuf/proto"

	"github.com/shiftsolver/core/pkg/cpmodel"
	"github.com/shiftsolver/core/pkg/logger"
	"github.com/shiftsolver/core/pkg/shifterrors"
)

// Backend implements cpmodel.Solver over a real CP-SAT model.
type Backend struct {
	builder     *realcp.CpModelBuilder
	boolVars    []realcp.BoolVar
	intVars     []realcp.IntVar
	constraints []realcp.Constraint
	response    *cmpb.CpSolverResponse
}

// New constructs an empty CP-SAT-backed model.
func New() *Backend {
	return &Backend{builder: realcp.NewCpModelBuilder()}
}

var _ cpmodel.Solver = (*Backend)(nil)

func (b *Backend) NewBool() cpmodel.BoolVar {
	id := len(b.boolVars)
	b.boolVars = append(b.boolVars, b.builder.NewBoolVar())
	return cpmodel.NewBoolVarWithID(id)
}

func (b *Backend) NewInt(lo, hi int64) cpmodel.IntVar {
	id := len(b.intVars)
	b.intVars = append(b.intVars, b.builder.NewIntVar(lo, hi))
	return cpmodel.NewIntVarWithID(id)
}

func (b *Backend) buildExpr(expr *cpmodel.LinearExpr) realcp.LinearExpr {
	le := realcp.NewConstant(expr.Constant)
	for _, t := range expr.Terms {
		switch v := t.Var.(type) {
		case cpmodel.BoolVar:
			le.AddTerm(b.boolVars[v.ID()], t.Coeff)
		case cpmodel.IntVar:
			le.AddTerm(b.intVars[v.ID()], t.Coeff)
		}
	}
	return le
}

func (b *Backend) storeConstraint(c realcp.Constraint) cpmodel.ConstraintRef {
	id := len(b.constraints)
	b.constraints = append(b.constraints, c)
	return cpmodel.NewConstraintRefWithID(id)
}

func (b *Backend) AddLinearEq(expr *cpmodel.LinearExpr, rhs int64) cpmodel.ConstraintRef {
	return b.storeConstraint(b.builder.AddEquality(b.buildExpr(expr), realcp.NewConstant(rhs)))
}

func (b *Backend) AddLinearLE(expr *cpmodel.LinearExpr, rhs int64) cpmodel.ConstraintRef {
	return b.storeConstraint(b.builder.AddLessOrEqual(b.buildExpr(expr), realcp.NewConstant(rhs)))
}

func (b *Backend) AddLinearGE(expr *cpmodel.LinearExpr, rhs int64) cpmodel.ConstraintRef {
	return b.storeConstraint(b.builder.AddGreaterOrEqual(b.buildExpr(expr), realcp.NewConstant(rhs)))
}

func (b *Backend) AddImplication(lit cpmodel.Literal, c cpmodel.ConstraintRef) {
	var realLit realcp.Literal = b.boolVars[lit.Var.ID()]
	if lit.Negated {
		realLit = b.boolVars[lit.Var.ID()].Not()
	}
	b.constraints[c.ID()].OnlyEnforceIf(realLit)
}

func (b *Backend) Minimize(expr *cpmodel.LinearExpr) {
	b.builder.Minimize(b.buildExpr(expr))
}

// Solve runs quick-solve first when params.QuickSolveSeconds > 0: a short
// search that returns immediately on any feasible solution, falling
// through to the full time limit otherwise (§5).
func (b *Backend) Solve(params cpmodel.Params) (cpmodel.Result, error) {
	m, err := b.builder.Model()
	if err != nil {
		return cpmodel.Result{}, shifterrors.Wrap(err, shifterrors.CodeBackendError, "failed to instantiate CP-SAT model")
	}

	if params.QuickSolveSeconds > 0 {
		quick := satParameters(cpmodel.Params{
			TimeLimitSeconds:  params.QuickSolveSeconds,
			NumSearchWorkers:  params.NumSearchWorkers,
			LogSearchProgress: params.LogSearchProgress,
		})
		resp, err := realcp.SolveCpModelWithParameters(m, quick)
		if err != nil {
			return cpmodel.Result{}, shifterrors.Wrap(err, shifterrors.CodeBackendError, "quick-solve failed")
		}
		if resp.GetStatus() == cmpb.CpSolverStatus_OPTIMAL || resp.GetStatus() == cmpb.CpSolverStatus_FEASIBLE {
			logger.Debug().Float64("quick_solve_seconds", params.QuickSolveSeconds).Msg("quick-solve found a feasible solution")
			b.response = resp
			return resultFrom(resp), nil
		}
	}

	resp, err := realcp.SolveCpModelWithParameters(m, satParameters(params))
	if err != nil {
		return cpmodel.Result{}, shifterrors.Wrap(err, shifterrors.CodeBackendError, "solve failed")
	}
	b.response = resp
	return resultFrom(resp), nil
}

func (b *Backend) ValueOf(v cpmodel.Var) int64 {
	switch vv := v.(type) {
	case cpmodel.BoolVar:
		if realcp.SolutionBooleanValue(b.response, b.boolVars[vv.ID()]) {
			return 1
		}
		return 0
	case cpmodel.IntVar:
		return realcp.SolutionIntegerValue(b.response, b.intVars[vv.ID()])
	default:
		return 0
	}
}

func satParameters(params cpmodel.Params) *sppb.SatParameters {
	p := &sppb.SatParameters{
		MaxTimeInSeconds:  proto.Float64(params.TimeLimitSeconds),
		LogSearchProgress: proto.Bool(params.LogSearchProgress),
	}
	if params.NumSearchWorkers > 0 {
		p.NumSearchWorkers = proto.Int32(int32(params.NumSearchWorkers))
	}
	if params.OptimalityTolerance > 0 {
		p.RelativeGapLimit = proto.Float64(params.OptimalityTolerance)
	}
	return p
}

func resultFrom(resp *cmpb.CpSolverResponse) cpmodel.Result {
	result := cpmodel.Result{
		Status:   statusFrom(resp.GetStatus()),
		WallTime: time.Duration(resp.GetWallTime() * float64(time.Second)),
	}
	if result.Status == cpmodel.Optimal || result.Status == cpmodel.Feasible {
		v := resp.GetObjectiveValue()
		result.ObjectiveValue = &v
	}
	return result
}

func statusFrom(s cmpb.CpSolverStatus) cpmodel.Status {
	switch s {
	case cmpb.CpSolverStatus_OPTIMAL:
		return cpmodel.Optimal
	case cmpb.CpSolverStatus_FEASIBLE:
		return cpmodel.Feasible
	case cmpb.CpSolverStatus_INFEASIBLE:
		return cpmodel.Infeasible
	default:
		return cpmodel.Unknown
	}
}
