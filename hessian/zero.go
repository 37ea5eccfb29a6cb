package hessian

import (
	"github.com/amontoison/Uno/iterate"
	"github.com/amontoison/Uno/problem"
	"github.com/amontoison/Uno/sparse"
)

// Zero clears the Hessian block, producing an LP relaxation of the subproblem
// (spec §4.2).
type Zero struct{}

func NewZero() *Zero { return &Zero{} }

func (z *Zero) Evaluate(p problem.OptimizationProblem, x []float64, sigma float64, y []float64, out *sparse.SymmetricMatrix) {
	out.ResetStructure()
}

func (z *Zero) IsPositiveDefinite() bool { return false }

func (z *Zero) NumberNonzeros(p problem.OptimizationProblem) int { return 0 }

func (z *Zero) NotifyAccepted(xPrev, xNew []float64, gradPrev, gradNew iterate.LagrangianGradient) {}
