package mechanism

import (
	"math"

	"github.com/amontoison/Uno/hessian"
	"github.com/amontoison/Uno/iterate"
	"github.com/amontoison/Uno/problem"
	"github.com/amontoison/Uno/strategy"
	"github.com/amontoison/Uno/subproblem"
)

// TrustRegion repeatedly solves the subproblem bounded to a shrinking/growing radius
// until the globalization strategy accepts a trial point or the radius collapses below
// MinRadius (spec §4.10).
type TrustRegion struct {
	Radius        float64
	MinRadius     float64
	MaxRadius     float64
	ShrinkFactor  float64
	GrowFactor    float64
	MaxIterations int
}

// NewTrustRegion returns a trust-region mechanism with the conventional defaults.
func NewTrustRegion() *TrustRegion {
	return &TrustRegion{Radius: 1, MinRadius: 1e-10, MaxRadius: 1e10, ShrinkFactor: 0.5, GrowFactor: 2, MaxIterations: 50}
}

func (tr *TrustRegion) Run(p problem.OptimizationProblem, method subproblem.InequalityHandlingMethod, hess hessian.Model,
	strat strategy.GlobalizationStrategy, current *iterate.Iterate, evaluate EvaluateProgress) Outcome {

	n, m := p.NumberVariables(), p.NumberConstraints()
	currentProgress := evaluate(p, current)

	for k := 0; k < tr.MaxIterations; k++ {
		if tr.Radius < tr.MinRadius {
			return Outcome{Accepted: false, Iterations: k}
		}

		direction := method.ComputeDirection(p, current, hess, tr.Radius)
		if direction.Status != iterate.Optimal {
			tr.Radius *= tr.ShrinkFactor
			continue
		}

		trial := current.Clone()
		trialPrimals := make([]float64, n)
		for i := range trialPrimals {
			trialPrimals[i] = current.Primals[i] + direction.Primals[i]
		}
		trial.SetPrimals(trialPrimals)
		trial.Multipliers.AddDisplacement(direction.Multipliers)
		_ = m

		predictedReduction := method.PredictedReduction(direction, 1)
		trialProgress := evaluate(p, trial)

		accepted := predictedReduction > 0 && strat.IsAcceptable(currentProgress, trialProgress, predictedReduction, current.ObjectiveMultiplier)
		if accepted || direction.SmallStep {
			if direction.BarrierParameterChanged {
				strat.Reset()
			}
			// Radius update of spec §4.10: never shrink below twice the step just taken,
			// capped at MaxRadius.
			tr.Radius = math.Min(tr.MaxRadius, math.Max(tr.GrowFactor*tr.Radius, 2*direction.Norm))
			return Outcome{Accepted: true, Trial: trial, Direction: direction, Iterations: k + 1}
		}
		tr.Radius = math.Min(tr.ShrinkFactor*tr.Radius, 0.5*direction.Norm)
	}
	return Outcome{Accepted: false, Iterations: tr.MaxIterations}
}
