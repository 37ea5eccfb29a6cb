package solver

import (
	"github.com/amontoison/Uno/iterate"
	"github.com/amontoison/Uno/problem"
	"github.com/amontoison/Uno/relaxation"
)

// computeResiduals fills it.Residuals (optimality interpretation: sigma=it.ObjectiveMultiplier,
// primary multipliers) and it.FeasibilityResiduals (feasibility interpretation: sigma=0,
// feasibility multipliers) from the same cached Lagrangian gradient ingredients but two
// different multiplier streams and objective multipliers, per spec §4.11.
func computeResiduals(p problem.OptimizationProblem, it *iterate.Iterate, residualNorm string, scalingThreshold float64) {
	ev := it.Evaluations
	if ev.GradientIsDirty() {
		p.EvaluateObjectiveGradient(it.Primals, ev.ObjectiveGradient)
		ev.SetGradientClean()
	}
	if ev.JacobianIsDirty() {
		p.EvaluateConstraintJacobian(it.Primals, ev.ConstraintJacobian)
		ev.SetJacobianClean()
	}
	if ev.ConstraintsAreDirty() {
		p.EvaluateConstraints(it.Primals, ev.Constraints)
		ev.SetConstraintsClean()
	}

	h := relaxation.InfeasibilityMeasure(p, it.Primals)

	optGrad := it.Residuals.LagrangianGradient
	p.EvaluateLagrangianGradient(&optGrad, it.Primals, ev.ObjectiveGradient, ev.ConstraintJacobian, it.ObjectiveMultiplier, it.Multipliers)
	it.Residuals.Stationarity = p.StationarityError(optGrad, it.ObjectiveMultiplier, residualNorm)
	it.Residuals.PrimalFeasibility = h
	it.Residuals.Complementarity = p.ComplementarityError(it.Primals, ev.Constraints, it.Multipliers, 0, residualNorm)
	it.Residuals.StationarityScaling = scaling(it.Multipliers, scalingThreshold)
	it.Residuals.ComplementarityScaling = it.Residuals.StationarityScaling

	feasGrad := it.FeasibilityResiduals.LagrangianGradient
	p.EvaluateLagrangianGradient(&feasGrad, it.Primals, ev.ObjectiveGradient, ev.ConstraintJacobian, 0, it.FeasibilityMultipliers)
	it.FeasibilityResiduals.Stationarity = p.StationarityError(feasGrad, 0, residualNorm)
	it.FeasibilityResiduals.PrimalFeasibility = h
	it.FeasibilityResiduals.Complementarity = p.ComplementarityError(it.Primals, ev.Constraints, it.FeasibilityMultipliers, 0, residualNorm)
	it.FeasibilityResiduals.StationarityScaling = scaling(it.FeasibilityMultipliers, scalingThreshold)
	it.FeasibilityResiduals.ComplementarityScaling = it.FeasibilityResiduals.StationarityScaling
}

// scaling implements spec §4.11's residual scaling: when the average multiplier
// magnitude exceeds scalingThreshold, residuals are divided down by it so a problem with
// large multipliers isn't judged by an unreasonably tight absolute tolerance.
func scaling(m iterate.Multipliers, threshold float64) float64 {
	sum, count := 0.0, 0
	for _, y := range m.Constraints {
		sum += abs(y)
		count++
	}
	for _, z := range m.LowerBounds {
		sum += abs(z)
		count++
	}
	for _, z := range m.UpperBounds {
		sum += abs(z)
		count++
	}
	if count == 0 {
		return 1
	}
	avg := sum / float64(count)
	if avg <= threshold {
		return 1
	}
	return avg / threshold
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// classifyTermination applies spec §4.11's decision tree, given residuals already
// computed on it via computeResiduals and both multiplier streams populated.
func classifyTermination(p problem.OptimizationProblem, it *iterate.Iterate, opts Options) iterate.Status {
	if it.ObjectiveMultiplier > 0 && p.EvaluateObjective(it.Primals)*it.ObjectiveMultiplier < opts.UnboundedObjectiveThreshold {
		return iterate.Unbounded
	}

	optimalityTight := it.Residuals.IsStationary(opts.Tolerance) &&
		it.Residuals.IsPrimalFeasible(opts.Tolerance) &&
		it.Residuals.IsComplementary(opts.Tolerance)

	if optimalityTight && it.ObjectiveMultiplier > 0 {
		return iterate.FeasibleKKTPoint
	}

	if optimalityTight && it.ObjectiveMultiplier == 0 && hasNontrivialMultipliers(it.FeasibilityMultipliers) {
		return iterate.FeasibleFJPoint
	}

	feasibilityTight := it.FeasibilityResiduals.IsStationary(opts.Tolerance) &&
		it.FeasibilityResiduals.IsComplementary(opts.Tolerance)

	if p.NumberConstraints() > 0 && feasibilityTight && !it.FeasibilityResiduals.IsPrimalFeasible(opts.Tolerance) &&
		hasNontrivialMultipliers(it.FeasibilityMultipliers) {
		return iterate.InfeasibleStationaryPoint
	}

	return iterate.NotOptimal
}

func hasNontrivialMultipliers(m iterate.Multipliers) bool {
	for _, y := range m.Constraints {
		if y != 0 {
			return true
		}
	}
	for _, z := range m.LowerBounds {
		if z != 0 {
			return true
		}
	}
	for _, z := range m.UpperBounds {
		if z != 0 {
			return true
		}
	}
	return false
}
