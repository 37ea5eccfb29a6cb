// Package relaxation implements the ConstraintRelaxationStrategy ingredient of spec §4.9:
// the top-level per-iteration driver that calls an inequality-handling method, falls back
// to a feasibility view of the problem on failure, and computes the progress measures and
// predicted reductions the globalization strategy judges trial points against.
package relaxation

import (
	"github.com/amontoison/Uno/internal/blas"
	"github.com/amontoison/Uno/iterate"
	"github.com/amontoison/Uno/problem"
)

// Step is what a ConstraintRelaxationStrategy hands back after driving one outer
// iteration: the trial iterate it produced (nil on failure) and whether it is currently
// operating in feasibility-restoration mode.
type Step struct {
	Trial               *iterate.Iterate
	Direction           *iterate.Direction
	InFeasibilityMode   bool
	Accepted            bool
}

// ConstraintRelaxationStrategy is the spec §4.9 contract.
type ConstraintRelaxationStrategy interface {
	// CurrentProblem returns the problem view the strategy is currently driving the
	// mechanism against: the original NLP, or (once switched) the feasibility view.
	CurrentProblem() problem.OptimizationProblem

	// AttemptStep drives one outer iteration from current using mechanism/strategy
	// machinery supplied by the caller through runMechanism, switching to feasibility
	// mode internally if the optimality attempt fails.
	AttemptStep(current *iterate.Iterate, runMechanism MechanismRunner) Step

	// ProgressMeasures computes the (infeasibility, objective, auxiliary) triple for it.
	// FeasibilityRestoration measures against the original problem in both modes;
	// L1Relaxation measures against its relaxed problem.
	ProgressMeasures(it *iterate.Iterate) iterate.ProgressMeasures

	// InFeasibilityMode reports whether the strategy is currently solving the
	// feasibility (restoration) problem rather than the original NLP.
	InFeasibilityMode() bool
}

// MechanismRunner drives a GlobalizationMechanism against a given problem view and
// returns whether it produced an accepted trial iterate. ConstraintRelaxationStrategy
// implementations call it once for the optimality attempt and, if needed, once more
// against the feasibility problem.
type MechanismRunner func(p problem.OptimizationProblem, current *iterate.Iterate) (trial *iterate.Iterate, direction *iterate.Direction, accepted bool)

// InfeasibilityMeasure computes h(x) = ||max(0, c_L-c, c-c_U)||_1 (spec §4.9), the l1
// constraint violation the rest of the core uses as the infeasibility progress measure.
// Exported so the termination classifier can compute the same measure against either
// problem interpretation without duplicating the formula.
func InfeasibilityMeasure(p problem.OptimizationProblem, x []float64) float64 {
	m := p.NumberConstraints()
	if m == 0 {
		return 0
	}
	c := make([]float64, m)
	p.EvaluateConstraints(x, c)
	violation := make([]float64, m)
	for j := 0; j < m; j++ {
		lo, hi := p.ConstraintLowerBound(j), p.ConstraintUpperBound(j)
		v := 0.0
		if d := lo - c[j]; d > v {
			v = d
		}
		if d := c[j] - hi; d > v {
			v = d
		}
		violation[j] = v
	}
	return blas.Norm1(m, violation)
}
