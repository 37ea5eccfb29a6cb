package problem

import (
	"math"

	"github.com/amontoison/Uno/internal/blas"
	"github.com/amontoison/Uno/iterate"
	"github.com/amontoison/Uno/model"
	"github.com/amontoison/Uno/sparse"
)

// L1RelaxedProblem is the l1-relaxed feasibility view (spec §4.1): it augments the
// variable space with elastic variables p, n >= 0 (one pair slot per constraint side that
// has a finite bound) and replaces c(x) with c(x) - p + n inside the original bounds, so
// that any constraint can be satisfied by paying rho per unit of violation. The Hessian
// is unchanged in the elastic columns.
type L1RelaxedProblem struct {
	base model.Model
	n    int // original variables
	m    int
	elastic ElasticVariables
	numElastic int

	rho   float64 // l1_constraint_violation_coefficient
	sigma float64 // objective multiplier: 0 for pure restoration, >0 for l1-penalty reformulation
}

// NewL1RelaxedProblem builds the feasibility view over base with penalty coefficient rho
// and initial objective multiplier sigma (0 or a small positive value, spec §4.1).
func NewL1RelaxedProblem(base model.Model, rho, sigma float64) *L1RelaxedProblem {
	n, m := base.NumberVariables(), base.NumberConstraints()
	lower := make([]float64, m)
	upper := make([]float64, m)
	for j := 0; j < m; j++ {
		lower[j] = base.ConstraintLowerBound(j)
		upper[j] = base.ConstraintUpperBound(j)
	}
	elastic, count := NewElasticVariables(m, lower, upper, model.IsFiniteLower, model.IsFiniteUpper, n)
	return &L1RelaxedProblem{base: base, n: n, m: m, elastic: elastic, numElastic: count, rho: rho, sigma: sigma}
}

func (p *L1RelaxedProblem) Model() model.Model { return p.base }
func (p *L1RelaxedProblem) Name() string       { return p.base.Name() + "-l1-relaxed" }

func (p *L1RelaxedProblem) NumberVariables() int   { return p.n + p.numElastic }
func (p *L1RelaxedProblem) NumberConstraints() int { return p.m }
func (p *L1RelaxedProblem) DefaultObjectiveMultiplier() float64 { return p.sigma }

// SetObjectiveMultiplier lets the constraint-relaxation driver flip between pure
// restoration (sigma=0) and the l1-penalty reformulation (sigma>0).
func (p *L1RelaxedProblem) SetObjectiveMultiplier(sigma float64) { p.sigma = sigma }

// SetPenaltyCoefficient updates rho (l1_constraint_violation_coefficient), used when the
// l1-relaxation constraint-relaxation strategy increases rho after a failed step.
func (p *L1RelaxedProblem) SetPenaltyCoefficient(rho float64) { p.rho = rho }

func (p *L1RelaxedProblem) PenaltyCoefficient() float64 { return p.rho }

// Elastics exposes the elastic-variable index mapping, used by the constraint-relaxation
// strategy to compute infeasibility directly from p+n and by the Hessian model to know
// which columns to leave untouched.
func (p *L1RelaxedProblem) Elastics() ElasticVariables { return p.elastic }

func (p *L1RelaxedProblem) isElastic(i int) bool { return i >= p.n }

func (p *L1RelaxedProblem) VariableLowerBound(i int) float64 {
	if p.isElastic(i) {
		return 0
	}
	return p.base.VariableLowerBound(i)
}

func (p *L1RelaxedProblem) VariableUpperBound(i int) float64 {
	if p.isElastic(i) {
		return model.Inf
	}
	return p.base.VariableUpperBound(i)
}

func (p *L1RelaxedProblem) ConstraintLowerBound(j int) float64 { return p.base.ConstraintLowerBound(j) }
func (p *L1RelaxedProblem) ConstraintUpperBound(j int) float64 { return p.base.ConstraintUpperBound(j) }

func (p *L1RelaxedProblem) EvaluateObjective(x []float64) float64 {
	f := p.sigma * p.base.EvaluateObjective(x[:p.n])
	for _, idx := range p.elastic.Positive {
		f += p.rho * x[idx]
	}
	for _, idx := range p.elastic.Negative {
		f += p.rho * x[idx]
	}
	return f
}

func (p *L1RelaxedProblem) EvaluateObjectiveGradient(x []float64, out *sparse.Gradient) {
	out.Reset()
	if p.sigma != 0 {
		unscaled := sparse.NewGradient(p.n)
		p.base.EvaluateObjectiveGradient(x[:p.n], denseSparseAdapter{unscaled})
		unscaled.Each(func(index int, value float64) { out.Set(index, p.sigma*value) })
	}
	for _, idx := range p.elastic.Positive {
		out.Set(idx, p.rho)
	}
	for _, idx := range p.elastic.Negative {
		out.Set(idx, p.rho)
	}
}

func (p *L1RelaxedProblem) EvaluateConstraints(x []float64, out []float64) {
	p.base.EvaluateConstraints(x[:p.n], out)
	for j, idx := range p.elastic.Positive {
		out[j] -= x[idx]
	}
	for j, idx := range p.elastic.Negative {
		out[j] += x[idx]
	}
}

func (p *L1RelaxedProblem) EvaluateConstraintJacobian(x []float64, out []*sparse.Gradient) {
	adapters := make([]model.Sparse, len(out))
	for j, row := range out {
		row.Reset()
		adapters[j] = denseSparseAdapter{row}
	}
	p.base.EvaluateConstraintJacobian(x[:p.n], adapters)
	for j, idx := range p.elastic.Positive {
		out[j].Set(idx, -1)
	}
	for j, idx := range p.elastic.Negative {
		out[j].Set(idx, 1)
	}
}

// EvaluateLagrangianHessian leaves the elastic columns untouched (spec §4.1: "The
// Hessian is unchanged in the elastic columns").
func (p *L1RelaxedProblem) EvaluateLagrangianHessian(x []float64, sigma float64, y []float64, out *sparse.SymmetricMatrix) {
	out.ResetStructure()
	p.base.EvaluateLagrangianHessian(x[:p.n], sigma, y, symmetricAdapter{out})
}

func (p *L1RelaxedProblem) EvaluateLagrangianGradient(out *iterate.LagrangianGradient, x []float64, objGrad *sparse.Gradient, jacobian []*sparse.Gradient, sigma float64, mult iterate.Multipliers) {
	blas.Zero(out.ObjectiveContribution)
	objGrad.Each(func(index int, value float64) {
		out.ObjectiveContribution[index] = value // objGrad already carries sigma/rho scaling
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

func (p *L1RelaxedProblem) StationarityError(gradient iterate.LagrangianGradient, sigma float64, norm string) float64 {
	n := len(gradient.ObjectiveContribution)
	full := make([]float64, n)
	gradient.Full(full)
	return blas.Norm(norm, n, full)
}

func (p *L1RelaxedProblem) ComplementarityError(primals, constraints []float64, mult iterate.Multipliers, shift float64, norm string) float64 {
	var terms []float64
	for i, z := range mult.LowerBounds {
		lb := p.VariableLowerBound(i)
		if model.IsFiniteLower(lb) && z != 0 {
			terms = append(terms, math.Abs(z*(primals[i]-lb)-shift))
		}
	}
	for i, z := range mult.UpperBounds {
		ub := p.VariableUpperBound(i)
		if model.IsFiniteUpper(ub) && z != 0 {
			terms = append(terms, math.Abs(-z*(ub-primals[i])-shift))
		}
	}
	return blas.Norm(norm, len(terms), terms)
}

func (p *L1RelaxedProblem) LowerBoundedVariables() []int {
	out := p.base.LowerBoundedVariables()
	for idx := range p.elastic.Positive {
		out = append(out, idx)
	}
	for idx := range p.elastic.Negative {
		out = append(out, idx)
	}
	return out
}

func (p *L1RelaxedProblem) UpperBoundedVariables() []int { return p.base.UpperBoundedVariables() }
func (p *L1RelaxedProblem) EqualityConstraints() []int   { return p.base.EqualityConstraints() }
func (p *L1RelaxedProblem) InequalityConstraints() []int { return p.base.InequalityConstraints() }
func (p *L1RelaxedProblem) LinearConstraints() []int     { return p.base.LinearConstraints() }

func (p *L1RelaxedProblem) NumberObjectiveGradientNonzeros() int {
	return p.base.NumberObjectiveGradientNonzeros() + p.numElastic
}
func (p *L1RelaxedProblem) NumberJacobianNonzeros() int {
	return p.base.NumberJacobianNonzeros() + p.numElastic
}
func (p *L1RelaxedProblem) NumberHessianNonzeros() int { return p.base.NumberHessianNonzeros() }
