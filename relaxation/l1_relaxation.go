package relaxation

import (
	"github.com/amontoison/Uno/iterate"
	"github.com/amontoison/Uno/model"
	"github.com/amontoison/Uno/problem"
)

// L1Relaxation drives a single l1-penalized problem throughout, growing the penalty
// coefficient rho when a trial step fails to produce descent on the merit function
// (spec §4.9 "rho may increase when a trial step fails to produce descent").
type L1Relaxation struct {
	relaxed *problem.L1RelaxedProblem

	RhoGrowthFactor float64
	MaxRho          float64
	consecutiveFails int
	FailuresBeforeGrowth int
}

// NewL1Relaxation builds the strategy over base with an initial penalty coefficient and
// sigma=1 (it never switches sigma to zero; only rho moves).
func NewL1Relaxation(base model.Model, initialRho float64) *L1Relaxation {
	return &L1Relaxation{
		relaxed:              problem.NewL1RelaxedProblem(base, initialRho, 1),
		RhoGrowthFactor:      10,
		MaxRho:               1e7,
		FailuresBeforeGrowth: 1,
	}
}

func (l *L1Relaxation) CurrentProblem() problem.OptimizationProblem { return l.relaxed }

func (l *L1Relaxation) InFeasibilityMode() bool { return false }

func (l *L1Relaxation) AttemptStep(current *iterate.Iterate, runMechanism MechanismRunner) Step {
	trial, direction, accepted := runMechanism(l.relaxed, current)
	if accepted {
		l.consecutiveFails = 0
		return Step{Trial: trial, Direction: direction, Accepted: true}
	}

	l.consecutiveFails++
	if l.consecutiveFails >= l.FailuresBeforeGrowth {
		l.growPenalty()
		l.consecutiveFails = 0
	}
	return Step{Accepted: false}
}

func (l *L1Relaxation) ProgressMeasures(it *iterate.Iterate) iterate.ProgressMeasures {
	h := InfeasibilityMeasure(l.relaxed, it.Primals)
	return iterate.NewProgressMeasures(h, l.relaxed.EvaluateObjective(it.Primals), 0)
}

func (l *L1Relaxation) growPenalty() {
	rho := l.relaxed.PenaltyCoefficient() * l.RhoGrowthFactor
	if rho > l.MaxRho {
		rho = l.MaxRho
	}
	l.relaxed.SetPenaltyCoefficient(rho)
}
