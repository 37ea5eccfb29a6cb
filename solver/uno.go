package solver

import (
	"context"
	"log/slog"

	"github.com/amontoison/Uno/hessian"
	"github.com/amontoison/Uno/internal/unoerr"
	"github.com/amontoison/Uno/iterate"
	"github.com/amontoison/Uno/mechanism"
	"github.com/amontoison/Uno/model"
	"github.com/amontoison/Uno/problem"
	"github.com/amontoison/Uno/qpsolve"
	"github.com/amontoison/Uno/relaxation"
	"github.com/amontoison/Uno/strategy"
	"github.com/amontoison/Uno/subproblem"
	"github.com/prometheus/client_golang/prometheus"
)

// Uno is the top-level controller of spec §2 item 10: it builds the four ingredients
// named by Options, then iterates the constraint-relaxation strategy through the
// globalization mechanism until the termination classifier of spec §4.11 fires.
type Uno struct {
	Options Options
	Stats   *Statistics
	Logger  *slog.Logger
}

// New builds a Uno controller. A nil logger falls back to slog.Default(); a nil registry
// is fine even when Options.MetricsEnabled is set (metrics are simply skipped).
func New(opts Options, logger *slog.Logger, registry prometheus.Registerer) *Uno {
	if logger == nil {
		logger = slog.Default()
	}
	return &Uno{
		Options: opts,
		Stats:   NewStatistics(opts.MetricsEnabled, registry),
		Logger:  logger,
	}
}

// Optimize runs the core loop against base starting from x0, returning the best iterate
// found and its terminal status. Cancellation is cooperative: ctx is checked between
// outer iterations, and on cancellation the last accepted iterate is returned with
// status USER_REQUESTED_STOP (spec §5).
func (u *Uno) Optimize(ctx context.Context, base model.Model, x0 []float64) (*iterate.Iterate, error) {
	strat := u.buildGlobalizationStrategy()
	crs := u.buildRelaxationStrategy(base, strat)
	method := u.buildInequalityHandlingMethod()
	hess := u.buildHessianModel(base)
	mech := u.buildGlobalizationMechanism()

	p := crs.CurrentProblem()
	current := method.GenerateInitialIterate(p, x0)
	current.ObjectiveMultiplier = p.DefaultObjectiveMultiplier()
	computeResiduals(p, current, u.Options.ResidualNorm, u.Options.ResidualScalingThreshold)

	prevPrimals := cloneFloats(current.Primals)
	prevGradient := cloneLagrangianGradient(current.Residuals.LagrangianGradient)

	evaluate := func(_ problem.OptimizationProblem, it *iterate.Iterate) iterate.ProgressMeasures {
		return crs.ProgressMeasures(it)
	}

	looseStreak := 0

	for iteration := 0; iteration < u.Options.MaxIterations; iteration++ {
		select {
		case <-ctx.Done():
			current.Status = iterate.UserRequestedStop
			return current, nil
		default:
		}

		runner := func(p problem.OptimizationProblem, it *iterate.Iterate) (*iterate.Iterate, *iterate.Direction, bool) {
			outcome := mech.Run(p, method, hess, strat, it, evaluate)
			u.Stats.RecordSubproblemSolved()
			return outcome.Trial, outcome.Direction, outcome.Accepted
		}

		step := crs.AttemptStep(current, runner)
		activeProblem := crs.CurrentProblem()

		if !step.Accepted {
			u.Logger.Info("outer iteration failed to produce an acceptable step",
				"iteration", iteration, "in_feasibility_mode", crs.InFeasibilityMode())
			current.Status = iterate.NotOptimal
			return current, unoerr.New(unoerr.FatalForCall, "solver.Uno.Optimize", "globalization mechanism exhausted")
		}

		trial := step.Trial
		computeResiduals(activeProblem, trial, u.Options.ResidualNorm, u.Options.ResidualScalingThreshold)

		hess.NotifyAccepted(prevPrimals, trial.Primals, prevGradient, trial.Residuals.LagrangianGradient)
		u.Stats.RecordHessianEvaluation()
		prevPrimals = cloneFloats(trial.Primals)
		prevGradient = cloneLagrangianGradient(trial.Residuals.LagrangianGradient)

		if ip, ok := method.(*subproblem.InteriorPoint); ok {
			ip.ResetBoundMultipliers(activeProblem, trial, u.Options.BarrierKSigma)
		}

		current = trial
		status := classifyTermination(activeProblem, current, u.Options)

		u.Stats.RecordOuterIteration(IterationSnapshot{
			ObjectiveValue:    activeProblem.EvaluateObjective(current.Primals),
			Infeasibility:     current.Residuals.PrimalFeasibility,
			Stationarity:      current.Residuals.Stationarity,
			Complementarity:   current.Residuals.Complementarity,
			StepLength:        1,
			InFeasibilityMode: crs.InFeasibilityMode(),
		})

		if status != iterate.NotOptimal {
			current.Status = status
			return current, nil
		}

		if looseTerminationHolds(current, u.Options) {
			looseStreak++
			if looseStreak >= u.Options.LooseToleranceConsecutiveIterationThreshold {
				current.Status = iterate.FeasibleKKTPoint
				return current, nil
			}
		} else {
			looseStreak = 0
		}
	}

	current.Status = iterate.NotOptimal
	return current, nil
}

func looseTerminationHolds(it *iterate.Iterate, opts Options) bool {
	return it.Residuals.IsStationary(opts.LooseTolerance) &&
		it.Residuals.IsPrimalFeasible(opts.LooseTolerance) &&
		it.Residuals.IsComplementary(opts.LooseTolerance)
}

func cloneFloats(x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	return out
}

func cloneLagrangianGradient(g iterate.LagrangianGradient) iterate.LagrangianGradient {
	return iterate.LagrangianGradient{
		ObjectiveContribution:   cloneFloats(g.ObjectiveContribution),
		ConstraintsContribution: cloneFloats(g.ConstraintsContribution),
	}
}

func (u *Uno) buildRelaxationStrategy(base model.Model, strat strategy.GlobalizationStrategy) relaxation.ConstraintRelaxationStrategy {
	if u.Options.ConstraintRelaxationStrategy == "l1_relaxation" {
		return relaxation.NewL1Relaxation(base, u.Options.L1ConstraintViolationCoefficient)
	}
	return relaxation.NewFeasibilityRestoration(base, strat)
}

func (u *Uno) buildGlobalizationStrategy() strategy.GlobalizationStrategy {
	switch u.Options.GlobalizationStrategy {
	case "funnel":
		return strategy.NewFunnel()
	case "l1_merit":
		return strategy.NewL1Merit()
	case "filter":
		return strategy.NewFletcherFilter()
	default:
		return strategy.NewWaechterFilter()
	}
}

func (u *Uno) buildInequalityHandlingMethod() subproblem.InequalityHandlingMethod {
	if u.Options.InequalityHandlingMethod == "IPM" {
		ip := subproblem.NewInteriorPoint()
		ip.Mu = u.Options.BarrierInitialParameter
		ip.KappaMu = u.Options.BarrierKMu
		ip.ThetaMu = u.Options.BarrierThetaMu
		ip.KappaEpsilon = u.Options.BarrierKEpsilon
		ip.Tolerance = u.Options.Tolerance
		ip.FractionToBoundaryTau = u.Options.BarrierTauMin
		ip.DefaultMultiplier = u.Options.BarrierDefaultMultiplier
		ip.PushK1 = u.Options.BarrierPushVariableToInteriorK1
		ip.PushK2 = u.Options.BarrierPushVariableToInteriorK2
		ip.LeastSquareMultiplierMaxNorm = u.Options.LeastSquareMultiplierMaxNorm
		ip.RegularizationExponent = u.Options.BarrierRegularizationExponent
		ip.DampingFactor = u.Options.BarrierDampingFactor
		ip.SmallDirectionFactor = u.Options.BarrierSmallDirectionFactor
		ip.Reg.FirstIncrease = u.Options.RegularizationInitialValue
		ip.Reg.IncreaseFactor = u.Options.RegularizationIncreaseFactor
		ip.Reg.MaxDeltaP = u.Options.RegularizationFailureThreshold
		return ip
	}
	return subproblem.NewSQP(qpsolve.NewActiveSet())
}

func (u *Uno) buildHessianModel(base model.Model) hessian.Model {
	switch u.Options.HessianModel {
	case "zero":
		return hessian.NewZero()
	case "identity":
		return hessian.NewBFGS(base.NumberVariables())
	default:
		return hessian.NewExact()
	}
}

func (u *Uno) buildGlobalizationMechanism() mechanism.GlobalizationMechanism {
	if u.Options.GlobalizationMechanism == "LS" {
		ls := mechanism.NewLineSearch()
		ls.BacktrackFactor = u.Options.LSBacktrackingRatio
		ls.MinStepLength = u.Options.LSMinStepLength
		return ls
	}
	tr := mechanism.NewTrustRegion()
	tr.Radius = u.Options.TRRadius
	tr.GrowFactor = u.Options.TRIncreaseFactor
	tr.ShrinkFactor = u.Options.TRDecreaseFactor
	tr.MinRadius = u.Options.TRMinRadius
	return tr
}
