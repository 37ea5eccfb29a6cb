// Package problem implements the OptimizationProblem view over a model.Model: a thin,
// read-only wrapper uniform across the optimality problem (the original NLP) and the
// l1-relaxed feasibility problem (spec §4.1).
package problem

import (
	"github.com/amontoison/Uno/iterate"
	"github.com/amontoison/Uno/model"
	"github.com/amontoison/Uno/sparse"
)

// OptimizationProblem is the uniform API every ingredient programs against instead of
// talking to model.Model directly.
type OptimizationProblem interface {
	NumberVariables() int
	NumberConstraints() int
	DefaultObjectiveMultiplier() float64

	VariableLowerBound(i int) float64
	VariableUpperBound(i int) float64
	ConstraintLowerBound(j int) float64
	ConstraintUpperBound(j int) float64

	EvaluateObjective(x []float64) float64
	EvaluateObjectiveGradient(x []float64, out *sparse.Gradient)
	EvaluateConstraints(x []float64, out []float64)
	EvaluateConstraintJacobian(x []float64, out []*sparse.Gradient)
	EvaluateLagrangianHessian(x []float64, sigma float64, y []float64, out *sparse.SymmetricMatrix)

	// EvaluateLagrangianGradient writes out.ObjectiveContribution = sigma*grad(f) and
	// out.ConstraintsContribution = -J^T y - z_L - z_U. Entries for variables with a
	// zero multiplier are skipped (spec §4.1).
	EvaluateLagrangianGradient(out *iterate.LagrangianGradient, x []float64, objGrad *sparse.Gradient, jacobian []*sparse.Gradient, sigma float64, mult iterate.Multipliers)

	StationarityError(gradient iterate.LagrangianGradient, sigma float64, norm string) float64
	ComplementarityError(primals, constraints []float64, mult iterate.Multipliers, shift float64, norm string) float64

	LowerBoundedVariables() []int
	UpperBoundedVariables() []int
	EqualityConstraints() []int
	InequalityConstraints() []int
	LinearConstraints() []int

	NumberObjectiveGradientNonzeros() int
	NumberJacobianNonzeros() int
	NumberHessianNonzeros() int

	Name() string
	Model() model.Model
}

// denseSparseAdapter adapts a *sparse.Gradient to the model.Sparse write interface.
type denseSparseAdapter struct{ g *sparse.Gradient }

func (a denseSparseAdapter) Set(index int, value float64) { a.g.Set(index, value) }

// symmetricAdapter adapts a *sparse.SymmetricMatrix to model.Symmetric.
type symmetricAdapter struct{ m *sparse.SymmetricMatrix }

func (a symmetricAdapter) AddEntry(row, col int, value float64) { a.m.AddEntry(row, col, value) }
