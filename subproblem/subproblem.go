// Package subproblem implements the inequality-handling methods of spec §4.4/§4.5: given
// an Iterate and a Hessian model, build and solve the local model that produces a
// candidate Direction.
package subproblem

import (
	"github.com/amontoison/Uno/hessian"
	"github.com/amontoison/Uno/iterate"
	"github.com/amontoison/Uno/problem"
)

// InequalityHandlingMethod is the spec §4.4/§4.5 contract every subproblem solver
// implements: given the current iterate, compute a Direction.
type InequalityHandlingMethod interface {
	GenerateInitialIterate(p problem.OptimizationProblem, x0 []float64) *iterate.Iterate
	ComputeDirection(p problem.OptimizationProblem, it *iterate.Iterate, hess hessian.Model, trustRegionRadius float64) *iterate.Direction
	// PredictedReduction evaluates the subproblem's own model of the merit/objective
	// decrease for a direction scaled by stepLength (spec §4.4).
	PredictedReduction(direction *iterate.Direction, stepLength float64) float64
}
