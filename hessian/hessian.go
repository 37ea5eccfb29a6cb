// Package hessian implements the HessianModel contract of spec §4.2: a pluggable way to
// fill the Lagrangian Hessian block used by the subproblem assemblers.
package hessian

import (
	"github.com/amontoison/Uno/iterate"
	"github.com/amontoison/Uno/problem"
	"github.com/amontoison/Uno/sparse"
)

// Model fills the symmetric Lagrangian Hessian into out for the given problem, point,
// objective multiplier and constraint multipliers.
type Model interface {
	Evaluate(p problem.OptimizationProblem, x []float64, sigma float64, y []float64, out *sparse.SymmetricMatrix)
	// IsPositiveDefinite reports whether this model's output is already positive
	// definite, letting the caller skip primal regularization (spec §4.2).
	IsPositiveDefinite() bool
	NumberNonzeros(p problem.OptimizationProblem) int
	// NotifyAccepted updates any internal state (quasi-Newton curvature pairs) after an
	// iterate is accepted; exact/zero models ignore it.
	NotifyAccepted(xPrev, xNew []float64, gradPrev, gradNew iterate.LagrangianGradient)
}
