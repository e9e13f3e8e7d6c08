// Package solver owns the end-to-end solve: pre-check, variable and
// constraint construction, backend invocation, and solution extraction
// (§4.8-§4.9). One Orchestrator instance owns one model and one solve; it
// is not safe to share across goroutines (§5).
package solver

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shiftsolver/core/pkg/calendar"
	"github.com/shiftsolver/core/pkg/cpmodel"
	"github.com/shiftsolver/core/pkg/logger"
	"github.com/shiftsolver/core/pkg/model"
	"github.com/shiftsolver/core/pkg/scheduler/constraint"
	"github.com/shiftsolver/core/pkg/scheduler/feasibility"
	"github.com/shiftsolver/core/pkg/scheduler/objective"
	"github.com/shiftsolver/core/pkg/scheduler/solver/types"
	"github.com/shiftsolver/core/pkg/scheduler/solver/variables"
	"github.com/shiftsolver/core/pkg/shifterrors"
)

// Phase names the orchestrator's state machine position (§4.8).
type Phase string

const (
	PhaseInit     Phase = "init"
	PhasePreCheck Phase = "pre_check"
	PhaseBuild    Phase = "build"
	PhaseSolve    Phase = "solve"
	PhaseExtract  Phase = "extract"
	PhaseDone     Phase = "done"
	PhaseFailed   Phase = "failed"
)

// Input is the full immutable problem description one Orchestrator
// instance solves once.
type Input struct {
	Workers                    []model.Worker
	ShiftTypes                 []model.ShiftType
	Calendar                   *calendar.Calendar
	Availabilities             []model.Availability
	Requests                   []model.SchedulingRequest
	ShiftFrequencyRequirements []model.ShiftFrequencyRequirement
	ShiftOrderPreferences      []model.ShiftOrderPreference

	// ConstraintConfigs overrides the registry's defaults, keyed by
	// constraint name. A caller that supplies no override for "request"
	// while at least one request is present gets one auto-enabled with
	// the registry's default request config (§4.5.6).
	ConstraintConfigs map[string]model.ConstraintConfig

	ScheduleID string
}

// Params configures the backend solve call (§6).
type Params struct {
	TimeLimitSeconds    float64
	QuickSolveSeconds   float64
	NumSearchWorkers    int
	LogSearchProgress   bool
	OptimalityTolerance float64
}

// Result is the orchestrator's final output (§6).
type Result struct {
	Status             cpmodel.Status
	Schedule           *model.Schedule
	FeasibilityIssues  []feasibility.Issue
	ObjectiveValue     *float64
	WallTimeSeconds    float64
	PerConstraintStats []model.ConstraintStat
}

// Orchestrator runs one Init->PreCheck->Build->Solve->Extract->Done
// solve. It is constructed fresh for every solve.
type Orchestrator struct {
	solver   cpmodel.Solver
	registry *constraint.Registry
	in       Input
	phase    Phase

	vars        *types.SolverVariables
	constraints []constraint.Constraint
	obj         *objective.Builder
}

// New constructs an Orchestrator bound to one backend solver instance and
// one constraint registry. A caller that leaves ScheduleID empty gets one
// generated for them, so every solve is traceable even when the host
// doesn't mint its own identifiers.
func New(solver cpmodel.Solver, registry *constraint.Registry, in Input) *Orchestrator {
	if in.ScheduleID == "" {
		in.ScheduleID = uuid.NewString()
	}
	return &Orchestrator{solver: solver, registry: registry, in: in, phase: PhaseInit}
}

// Phase returns the orchestrator's current state-machine position.
func (o *Orchestrator) Phase() Phase { return o.phase }

// Run drives the full state machine to completion and returns the final
// Result. A Fatal pre-check issue yields a Result with status
// PreSolveInfeasible and the issue list, and a nil err; a Build failure
// surfaces through err rather than a panic (§4.8).
func (o *Orchestrator) Run(params Params) (Result, error) {
	issues, err := o.preCheck()
	if err != nil {
		o.phase = PhaseFailed
		return Result{}, err
	}
	if feasibility.HasFatal(issues) {
		o.phase = PhaseFailed
		return Result{
			Status:            cpmodel.PreSolveInfeasible,
			FeasibilityIssues: issues,
		}, nil
	}

	if err := o.build(); err != nil {
		o.phase = PhaseFailed
		return Result{}, err
	}

	solveResult, err := o.solve(params)
	if err != nil {
		o.phase = PhaseFailed
		return Result{}, err
	}

	res := Result{
		Status:            solveResult.Status,
		ObjectiveValue:    solveResult.ObjectiveValue,
		WallTimeSeconds:   solveResult.WallTime.Seconds(),
		FeasibilityIssues: issues,
	}

	if solveResult.Status != cpmodel.Optimal && solveResult.Status != cpmodel.Feasible {
		o.phase = PhaseDone
		return res, nil
	}

	schedule, err := o.extract(solveResult)
	if err != nil {
		o.phase = PhaseFailed
		return Result{}, err
	}
	res.Schedule = &schedule
	res.PerConstraintStats = schedule.Statistics
	o.phase = PhaseDone
	return res, nil
}

func (o *Orchestrator) numPeriods() int {
	return o.in.Calendar.NumPeriods()
}

// preCheck runs §4.4 over the orchestrator's input.
func (o *Orchestrator) preCheck() ([]feasibility.Issue, error) {
	o.phase = PhasePreCheck
	issues := feasibility.Check(feasibility.Input{
		Workers:                    o.in.Workers,
		ShiftTypes:                 o.in.ShiftTypes,
		PeriodDates:                o.in.Calendar.Periods(),
		Availabilities:             o.in.Availabilities,
		Requests:                   o.in.Requests,
		ShiftFrequencyRequirements: o.in.ShiftFrequencyRequirements,
		NumPeriods:                 o.numPeriods(),
		PeriodLengthDays:           periodLengthDays(o.in.Calendar),
	})
	for _, iss := range issues {
		logger.Warn().Str("kind", string(iss.Kind)).Str("severity", string(iss.Severity)).Msg(iss.Message)
	}
	return issues, nil
}

// periodLengthDays recovers the calendar's period length from its first
// period, since *calendar.Calendar does not expose the raw configured
// value directly.
func periodLengthDays(cal *calendar.Calendar) int {
	if cal.NumPeriods() == 0 {
		return 0
	}
	p := cal.Period(0)
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

// build allocates variables and applies every enabled constraint in
// registry order (§4.8). A failure in variable allocation or in a
// constraint's Apply is wrapped as CoreInvariantBroken, since pre-check
// already ruled out the input-shape problems that would make construction
// itself impossible; an unknown name in ConstraintConfigs is returned as
// the registry's own UnknownConstraint error.
func (o *Orchestrator) build() error {
	o.phase = PhaseBuild

	builder, err := variables.New(o.solver, o.in.Workers, o.in.ShiftTypes, o.numPeriods())
	if err != nil {
		return shifterrors.Wrap(err, shifterrors.CodeCoreInvariantBroken, "variable allocation failed after a passing pre-check")
	}
	o.vars = builder.Build()

	configs := o.effectiveConfigs()
	constraints, err := o.registry.Build(configs)
	if err != nil {
		return err
	}
	o.constraints = constraints

	ctx := &constraint.Context{
		Workers:                    o.in.Workers,
		ShiftTypes:                 o.in.ShiftTypes,
		PeriodDates:                o.in.Calendar.Periods(),
		Availabilities:             o.in.Availabilities,
		Requests:                   o.in.Requests,
		ShiftFrequencyRequirements: o.in.ShiftFrequencyRequirements,
		ShiftOrderPreferences:      o.in.ShiftOrderPreferences,
		NumPeriods:                 o.numPeriods(),
	}

	o.obj = objective.New()
	for _, c := range o.constraints {
		violations, err := c.Apply(o.solver, o.vars, ctx)
		if err != nil {
			return shifterrors.Wrap(err, shifterrors.CodeCoreInvariantBroken, fmt.Sprintf("constraint %q failed to apply", c.Name()))
		}
		if !c.IsHard() {
			o.obj.Add(c.Name(), c.Weight(), violations)
		}
	}
	o.obj.Build(o.solver)
	return nil
}

// effectiveConfigs applies the request auto-enable policy of §4.5.6 on
// top of the caller's overrides, since Registry.Build has no visibility
// into ctx.Requests.
func (o *Orchestrator) effectiveConfigs() map[string]model.ConstraintConfig {
	configs := map[string]model.ConstraintConfig{}
	for name, cfg := range o.in.ConstraintConfigs {
		configs[name] = cfg
	}
	if _, overridden := configs["request"]; !overridden && len(o.in.Requests) > 0 {
		if reg, err := o.registry.Get("request"); err == nil {
			configs["request"] = model.ConstraintConfig{
				Enabled: true,
				IsHard:  reg.DefaultHard,
				Weight:  reg.DefaultWeight,
			}
		}
	}
	return configs
}

func (o *Orchestrator) solve(params Params) (cpmodel.Result, error) {
	o.phase = PhaseSolve
	return o.solver.Solve(cpmodel.Params{
		TimeLimitSeconds:    params.TimeLimitSeconds,
		QuickSolveSeconds:   params.QuickSolveSeconds,
		NumSearchWorkers:    params.NumSearchWorkers,
		LogSearchProgress:   params.LogSearchProgress,
		OptimalityTolerance: params.OptimalityTolerance,
	})
}

func (o *Orchestrator) extract(solveResult cpmodel.Result) (model.Schedule, error) {
	o.phase = PhaseExtract
	extractor := NewSolutionExtractor(o.solver, o.vars, o.in.Workers, o.in.ShiftTypes, o.in.Calendar, o.obj)
	return extractor.Extract(o.in.ScheduleID, solveResult)
}
