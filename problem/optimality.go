package problem

import (
	"math"

	"github.com/amontoison/Uno/internal/blas"
	"github.com/amontoison/Uno/iterate"
	"github.com/amontoison/Uno/model"
	"github.com/amontoison/Uno/sparse"
)

// OptimalityProblem passes straight through to the underlying Model with sigma fixed
// to 1: the original NLP, unmodified (spec §4.1).
type OptimalityProblem struct {
	m model.Model
}

// NewOptimalityProblem wraps m as the optimality view.
func NewOptimalityProblem(m model.Model) *OptimalityProblem {
	return &OptimalityProblem{m: m}
}

func (p *OptimalityProblem) Model() model.Model { return p.m }
func (p *OptimalityProblem) Name() string       { return p.m.Name() }

func (p *OptimalityProblem) NumberVariables() int             { return p.m.NumberVariables() }
func (p *OptimalityProblem) NumberConstraints() int           { return p.m.NumberConstraints() }
func (p *OptimalityProblem) DefaultObjectiveMultiplier() float64 { return 1 }

func (p *OptimalityProblem) VariableLowerBound(i int) float64   { return p.m.VariableLowerBound(i) }
func (p *OptimalityProblem) VariableUpperBound(i int) float64   { return p.m.VariableUpperBound(i) }
func (p *OptimalityProblem) ConstraintLowerBound(j int) float64 { return p.m.ConstraintLowerBound(j) }
func (p *OptimalityProblem) ConstraintUpperBound(j int) float64 { return p.m.ConstraintUpperBound(j) }

func (p *OptimalityProblem) EvaluateObjective(x []float64) float64 {
	return p.m.EvaluateObjective(x)
}

func (p *OptimalityProblem) EvaluateObjectiveGradient(x []float64, out *sparse.Gradient) {
	out.Reset()
	p.m.EvaluateObjectiveGradient(x, denseSparseAdapter{out})
}

func (p *OptimalityProblem) EvaluateConstraints(x []float64, out []float64) {
	p.m.EvaluateConstraints(x, out)
}

func (p *OptimalityProblem) EvaluateConstraintJacobian(x []float64, out []*sparse.Gradient) {
	adapters := make([]model.Sparse, len(out))
	for j, row := range out {
		row.Reset()
		adapters[j] = denseSparseAdapter{row}
	}
	p.m.EvaluateConstraintJacobian(x, adapters)
}

func (p *OptimalityProblem) EvaluateLagrangianHessian(x []float64, sigma float64, y []float64, out *sparse.SymmetricMatrix) {
	out.ResetStructure()
	p.m.EvaluateLagrangianHessian(x, sigma, y, symmetricAdapter{out})
}

// EvaluateLagrangianGradient implements the sign convention of spec §8:
// grad_x L = sigma*grad(f) - J^T y - z_L - z_U.
func (p *OptimalityProblem) EvaluateLagrangianGradient(out *iterate.LagrangianGradient, x []float64, objGrad *sparse.Gradient, jacobian []*sparse.Gradient, sigma float64, mult iterate.Multipliers) {
	blas.Zero(out.ObjectiveContribution)
	objGrad.Each(func(index int, value float64) {
		out.ObjectiveContribution[index] = sigma * value
	})

	blas.Zero(out.ConstraintsContribution)
	for j, row := range jacobian {
		yj := mult.Constraints[j]
		if yj == 0 {
			continue
		}
		row.Each(func(index int, value float64) {
			out.ConstraintsContribution[index] -= yj * value
		})
	}
	for i, z := range mult.LowerBounds {
		if z != 0 {
			out.ConstraintsContribution[i] -= z
		}
	}
	for i, z := range mult.UpperBounds {
		if z != 0 {
			out.ConstraintsContribution[i] -= z
		}
	}
}

// StationarityError returns the norm of the Lagrangian gradient, scaled by sigma-derived
// bookkeeping left to the caller; sigma itself only participates through the gradient.
func (p *OptimalityProblem) StationarityError(gradient iterate.LagrangianGradient, sigma float64, norm string) float64 {
	n := len(gradient.ObjectiveContribution)
	full := make([]float64, n)
	gradient.Full(full)
	return blas.Norm(norm, n, full)
}

// ComplementarityError evaluates the shifted complementarity residual: for each finite
// variable bound, |multiplier * distance-to-bound - shift|, combined with norm. General
// constraints and their multipliers do not enter it.
func (p *OptimalityProblem) ComplementarityError(primals, constraints []float64, mult iterate.Multipliers, shift float64, norm string) float64 {
	var terms []float64
	for i, z := range mult.LowerBounds {
		lb := p.m.VariableLowerBound(i)
		if model.IsFiniteLower(lb) && z != 0 {
			terms = append(terms, math.Abs(z*(primals[i]-lb)-shift))
		}
	}
	for i, z := range mult.UpperBounds {
		ub := p.m.VariableUpperBound(i)
		if model.IsFiniteUpper(ub) && z != 0 {
			terms = append(terms, math.Abs(-z*(ub-primals[i])-shift))
		}
	}
	return blas.Norm(norm, len(terms), terms)
}

func (p *OptimalityProblem) LowerBoundedVariables() []int { return p.m.LowerBoundedVariables() }
func (p *OptimalityProblem) UpperBoundedVariables() []int { return p.m.UpperBoundedVariables() }
func (p *OptimalityProblem) EqualityConstraints() []int   { return p.m.EqualityConstraints() }
func (p *OptimalityProblem) InequalityConstraints() []int { return p.m.InequalityConstraints() }
func (p *OptimalityProblem) LinearConstraints() []int     { return p.m.LinearConstraints() }

func (p *OptimalityProblem) NumberObjectiveGradientNonzeros() int {
	return p.m.NumberObjectiveGradientNonzeros()
}
func (p *OptimalityProblem) NumberJacobianNonzeros() int { return p.m.NumberJacobianNonzeros() }
func (p *OptimalityProblem) NumberHessianNonzeros() int  { return p.m.NumberHessianNonzeros() }
