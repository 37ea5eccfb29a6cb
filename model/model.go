// Package model defines the external Model contract (spec §6): the narrow interface the
// core consumes to get function values, derivatives, bounds and sparsity. Models are
// read-only from the core's perspective; this package also ships a handful of reference
// problems used by the end-to-end scenario tests in spec §8.
package model

import "math"

// Inf is the sentinel the core treats as +/- infinity for bounds, matching the
// convention of MA27/BQPD-style Fortran solvers (spec §9 "Fortran interop").
const Inf = math.MaxFloat64 / 4

// Model is the read-only external collaborator supplying evaluations, bounds and
// sparsity for an NLP of the form minimize f(x) s.t. c_L <= c(x) <= c_U, x_L <= x <= x_U.
type Model interface {
	NumberVariables() int
	NumberConstraints() int

	EvaluateObjective(x []float64) float64
	EvaluateObjectiveGradient(x []float64, out Sparse)
	EvaluateConstraints(x []float64, out []float64)
	EvaluateConstraintJacobian(x []float64, out []Sparse) // one sparse row per constraint
	EvaluateLagrangianHessian(x []float64, sigma float64, y []float64, out Symmetric)

	VariableLowerBound(i int) float64
	VariableUpperBound(i int) float64
	ConstraintLowerBound(j int) float64
	ConstraintUpperBound(j int) float64

	EqualityConstraints() []int
	InequalityConstraints() []int
	LinearConstraints() []int
	LowerBoundedVariables() []int
	UpperBoundedVariables() []int
	SingleLowerBoundedVariables() []int
	SingleUpperBoundedVariables() []int

	InitialPrimalPoint(out []float64)
	InitialDualPoint(out []float64)

	NumberObjectiveGradientNonzeros() int
	NumberJacobianNonzeros() int
	NumberHessianNonzeros() int

	Name() string
}

// Sparse is the minimal write sink a Model needs for a sparse vector (an objective
// gradient or one Jacobian row): set an entry, independent of the concrete container the
// core happens to use internally.
type Sparse interface {
	Set(index int, value float64)
}

// Symmetric is the minimal write sink for the Lagrangian Hessian's upper triangle.
type Symmetric interface {
	AddEntry(row, col int, value float64)
}

// IsFiniteLower reports whether a variable/constraint lower bound is finite.
func IsFiniteLower(v float64) bool { return v > -Inf }

// IsFiniteUpper reports whether a variable/constraint upper bound is finite.
func IsFiniteUpper(v float64) bool { return v < Inf }
