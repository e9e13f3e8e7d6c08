// Package constraint defines the shape every scheduling rule implements:
// a pure function of (solver, variables, context) that adds equations to
// the model and, for soft rules, registers the violation variables the
// objective builder later sums over (§4.5).
package constraint

import (
	"github.com/shiftsolver/core/pkg/calendar"
	"github.com/shiftsolver/core/pkg/cpmodel"
	"github.com/shiftsolver/core/pkg/model"
	"github.com/shiftsolver/core/pkg/scheduler/solver/types"
)

// VariableType classifies a registered violation variable for the
// objective builder (§4.6), replacing name-parsing with an explicit
// side-channel the builder reads directly (§9).
type VariableType string

const (
	// VarViolation variables contribute weight*priority(v)*v to the
	// objective, priority defaulting to 1 when undeclared.
	VarViolation VariableType = "violation"
	// VarObjectiveTarget variables contribute weight*v with no further
	// multiplier — the variable itself is the penalty.
	VarObjectiveTarget VariableType = "objective_target"
	// VarAuxiliary variables are tracked for introspection only and never
	// contribute to the objective.
	VarAuxiliary VariableType = "auxiliary"
)

// Context is the full immutable input set every constraint's Apply sees
// (§4.5). It is built once per solve and never mutated by a constraint.
type Context struct {
	Workers                    []model.Worker
	ShiftTypes                 []model.ShiftType
	PeriodDates                []calendar.Period
	Availabilities             []model.Availability
	Requests                   []model.SchedulingRequest
	ShiftFrequencyRequirements []model.ShiftFrequencyRequirement
	ShiftOrderPreferences      []model.ShiftOrderPreference
	NumPeriods                 int
}

// Violation is one registered violation (or auxiliary/objective-target)
// variable, carrying exactly the metadata the objective builder needs.
// Var is usually a BoolVar (a per-window or per-request violation flag)
// but is an IntVar for Fairness's objective_target spread (§4.5.4).
type Violation struct {
	Name     string
	Var      cpmodel.Var
	Type     VariableType
	Priority int // 0 means "undeclared"; objective builder defaults to 1
}

// Constraint is one scheduling rule, uniformly shaped around apply +
// violation-variable metadata regardless of whether it is hard or soft
// (§9 — no inheritance chain beyond this contract).
type Constraint interface {
	// Name is the constraint's registry key (e.g. "coverage", "fairness").
	Name() string
	// IsEnabled reports whether this constraint should be applied at all.
	IsEnabled() bool
	// IsHard reports whether this application enforces the rule as a hard
	// constraint rather than a penalized soft one.
	IsHard() bool
	// Weight is the objective multiplier for this constraint's
	// violations. Ignored when IsHard is true.
	Weight() int
	// Apply adds the constraint's equations to solver given the allocated
	// decision variables and the full input context, returning any
	// violation variables it registered.
	Apply(solver cpmodel.Solver, vars *types.SolverVariables, ctx *Context) ([]Violation, error)
}
