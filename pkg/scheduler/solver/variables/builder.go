// Package variables builds the decision variables every constraint and the
// objective read from: per-(worker,period,shift) booleans, per-(worker,
// shift) totals, and per-worker undesirable-shift totals (§4.3).
package variables

import (
	"github.com/shiftsolver/core/pkg/cpmodel"
	"github.com/shiftsolver/core/pkg/model"
	"github.com/shiftsolver/core/pkg/scheduler/solver/types"
	"github.com/shiftsolver/core/pkg/shifterrors"
)

// Builder allocates solver variables from domain models onto a
// cpmodel.Solver.
type Builder struct {
	solver     cpmodel.Solver
	workers    []model.Worker
	shiftTypes []model.ShiftType
	numPeriods int

	undesirableShiftIDs map[string]struct{}
}

// New constructs a Builder. workers and shiftTypes must be non-empty and
// numPeriods must be positive.
func New(solver cpmodel.Solver, workers []model.Worker, shiftTypes []model.ShiftType, numPeriods int) (*Builder, error) {
	if len(workers) == 0 {
		return nil, shifterrors.New(shifterrors.CodeInvalidWorker, "workers list cannot be empty")
	}
	if len(shiftTypes) == 0 {
		return nil, shifterrors.New(shifterrors.CodeInvalidShiftType, "shift_types list cannot be empty")
	}
	if numPeriods <= 0 {
		return nil, shifterrors.Newf(shifterrors.CodeBadHorizon, "num_periods must be positive, got %d", numPeriods)
	}

	undesirable := map[string]struct{}{}
	for _, st := range shiftTypes {
		if st.IsUndesirable {
			undesirable[st.ID] = struct{}{}
		}
	}

	return &Builder{
		solver:              solver,
		workers:             workers,
		shiftTypes:          shiftTypes,
		numPeriods:          numPeriods,
		undesirableShiftIDs: undesirable,
	}, nil
}

// Build allocates every assignment/count/undesirable-total variable and
// their linking constraints, in deterministic worker/period/shift-type
// iteration order (§5).
func (b *Builder) Build() *types.SolverVariables {
	vars := types.New()
	b.buildAssignmentVars(vars)
	b.buildShiftCountVars(vars)
	b.buildUndesirableTotalVars(vars)
	return vars
}

func (b *Builder) buildAssignmentVars(vars *types.SolverVariables) {
	for _, w := range b.workers {
		vars.Assignment[w.ID] = map[int]map[string]cpmodel.BoolVar{}
		for p := 0; p < b.numPeriods; p++ {
			vars.Assignment[w.ID][p] = map[string]cpmodel.BoolVar{}
			for _, st := range b.shiftTypes {
				vars.Assignment[w.ID][p][st.ID] = b.solver.NewBool()
			}
		}
	}
}

func (b *Builder) buildShiftCountVars(vars *types.SolverVariables) {
	for _, w := range b.workers {
		vars.ShiftCounts[w.ID] = map[string]cpmodel.IntVar{}
		for _, st := range b.shiftTypes {
			total := b.solver.NewInt(0, int64(b.numPeriods))
			vars.ShiftCounts[w.ID][st.ID] = total

			sum := cpmodel.NewLinearExpr()
			for p := 0; p < b.numPeriods; p++ {
				sum.Add(vars.Assignment[w.ID][p][st.ID])
			}
			sum.AddTerm(-1, total)
			b.solver.AddLinearEq(sum, 0)
		}
	}
}

func (b *Builder) buildUndesirableTotalVars(vars *types.SolverVariables) {
	numUndesirableTypes := len(b.undesirableShiftIDs)
	maxUndesirable := int64(b.numPeriods) * int64(max(1, numUndesirableTypes))

	for _, w := range b.workers {
		total := b.solver.NewInt(0, maxUndesirable)
		vars.UndesirableTotals[w.ID] = total

		sum := cpmodel.NewLinearExpr()
		for p := 0; p < b.numPeriods; p++ {
			for _, st := range b.shiftTypes {
				if _, ok := b.undesirableShiftIDs[st.ID]; !ok {
					continue
				}
				sum.Add(vars.Assignment[w.ID][p][st.ID])
			}
		}
		sum.AddTerm(-1, total)
		b.solver.AddLinearEq(sum, 0)
	}
}

// CoverageVar returns coverage[period,shiftType] = sum_w x[w,period,
// shiftType], materialising it (and its linking constraint) the first time
// it's requested (§4.3).
func (b *Builder) CoverageVar(vars *types.SolverVariables, period int, shiftTypeID string) cpmodel.IntVar {
	if byShift, ok := vars.Coverage[period]; ok {
		if v, ok := byShift[shiftTypeID]; ok {
			return v
		}
	} else {
		vars.Coverage[period] = map[string]cpmodel.IntVar{}
	}

	coverage := b.solver.NewInt(0, int64(len(b.workers)))
	sum := cpmodel.NewLinearExpr()
	for _, w := range b.workers {
		sum.Add(vars.Assignment[w.ID][period][shiftTypeID])
	}
	sum.AddTerm(-1, coverage)
	b.solver.AddLinearEq(sum, 0)

	vars.Coverage[period][shiftTypeID] = coverage
	return coverage
}
