package hessian

import (
	"github.com/amontoison/Uno/iterate"
	"github.com/amontoison/Uno/problem"
	"github.com/amontoison/Uno/sparse"
)

// Exact invokes the model's own Hessian routine (spec §4.2).
type Exact struct{}

func NewExact() *Exact { return &Exact{} }

func (e *Exact) Evaluate(p problem.OptimizationProblem, x []float64, sigma float64, y []float64, out *sparse.SymmetricMatrix) {
	p.EvaluateLagrangianHessian(x, sigma, y, out)
}

func (e *Exact) IsPositiveDefinite() bool { return false }

func (e *Exact) NumberNonzeros(p problem.OptimizationProblem) int { return p.NumberHessianNonzeros() }

func (e *Exact) NotifyAccepted(xPrev, xNew []float64, gradPrev, gradNew iterate.LagrangianGradient) {}
