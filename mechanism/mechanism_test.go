package mechanism

import (
	"testing"

	"github.com/amontoison/Uno/hessian"
	"github.com/amontoison/Uno/iterate"
	"github.com/amontoison/Uno/model"
	"github.com/amontoison/Uno/problem"
	"github.com/amontoison/Uno/sparse"
	"github.com/stretchr/testify/assert"
)

// quadraticProblem is an unconstrained f(x) = 1/2 ||x||^2 test problem: minimizer at 0,
// gradient x, Hessian I. Enough surface to drive a GlobalizationMechanism end to end.
type quadraticProblem struct{ n int }

func (q *quadraticProblem) NumberVariables() int             { return q.n }
func (q *quadraticProblem) NumberConstraints() int            { return 0 }
func (q *quadraticProblem) DefaultObjectiveMultiplier() float64 { return 1 }
func (q *quadraticProblem) VariableLowerBound(i int) float64  { return -1e20 }
func (q *quadraticProblem) VariableUpperBound(i int) float64  { return 1e20 }
func (q *quadraticProblem) ConstraintLowerBound(j int) float64 { return 0 }
func (q *quadraticProblem) ConstraintUpperBound(j int) float64 { return 0 }

func (q *quadraticProblem) EvaluateObjective(x []float64) float64 {
	s := 0.0
	for _, v := range x {
		s += 0.5 * v * v
	}
	return s
}
func (q *quadraticProblem) EvaluateObjectiveGradient(x []float64, out *sparse.Gradient) {
	out.Reset()
	for i, v := range x {
		out.Set(i, v)
	}
}
func (q *quadraticProblem) EvaluateConstraints(x []float64, out []float64)             {}
func (q *quadraticProblem) EvaluateConstraintJacobian(x []float64, out []*sparse.Gradient) {}
func (q *quadraticProblem) EvaluateLagrangianHessian(x []float64, sigma float64, y []float64, out *sparse.SymmetricMatrix) {
	out.ResetStructure()
	for i := 0; i < q.n; i++ {
		out.AddEntry(i, i, sigma)
	}
}
func (q *quadraticProblem) EvaluateLagrangianGradient(out *iterate.LagrangianGradient, x []float64, objGrad *sparse.Gradient, jacobian []*sparse.Gradient, sigma float64, mult iterate.Multipliers) {
}
func (q *quadraticProblem) StationarityError(gradient iterate.LagrangianGradient, sigma float64, norm string) float64 {
	return 0
}
func (q *quadraticProblem) ComplementarityError(primals, constraints []float64, mult iterate.Multipliers, shift float64, norm string) float64 {
	return 0
}
func (q *quadraticProblem) LowerBoundedVariables() []int  { return nil }
func (q *quadraticProblem) UpperBoundedVariables() []int  { return nil }
func (q *quadraticProblem) EqualityConstraints() []int    { return nil }
func (q *quadraticProblem) InequalityConstraints() []int  { return nil }
func (q *quadraticProblem) LinearConstraints() []int      { return nil }
func (q *quadraticProblem) NumberObjectiveGradientNonzeros() int { return q.n }
func (q *quadraticProblem) NumberJacobianNonzeros() int          { return 0 }
func (q *quadraticProblem) NumberHessianNonzeros() int           { return q.n }
func (q *quadraticProblem) Name() string { return "quadratic" }
func (q *quadraticProblem) Model() model.Model { return nil }

// steepestDescent is a fake InequalityHandlingMethod: it always returns the negative
// gradient as the step, clamped to the trust-region radius, enough to exercise both
// mechanisms without a real QP/KKT solve.
type steepestDescent struct{}

func (steepestDescent) GenerateInitialIterate(p problem.OptimizationProblem, x0 []float64) *iterate.Iterate {
	return iterate.NewIterate(x0, p.NumberVariables(), p.NumberConstraints())
}

func (steepestDescent) ComputeDirection(p problem.OptimizationProblem, it *iterate.Iterate, hess hessian.Model, trustRegionRadius float64) *iterate.Direction {
	n := p.NumberVariables()
	d := iterate.NewDirection(n, p.NumberConstraints())
	g := sparse.NewGradient(n)
	p.EvaluateObjectiveGradient(it.Primals, g)
	norm := 0.0
	for i := 0; i < n; i++ {
		v := -g.At(i)
		d.Primals[i] = v
		norm += v * v
	}
	if norm == 0 {
		d.Status = iterate.Optimal
		return d
	}
	scale := 1.0
	if trustRegionRadius < 1e9 {
		// clamp infinity norm to the radius
		maxAbs := 0.0
		for _, v := range d.Primals {
			if a := absVal(v); a > maxAbs {
				maxAbs = a
			}
		}
		if maxAbs > trustRegionRadius {
			scale = trustRegionRadius / maxAbs
		}
	}
	for i := range d.Primals {
		d.Primals[i] *= scale
	}
	d.ComputeNorm()
	d.Status = iterate.Optimal
	d.SubproblemObjective = -0.5 * dot(d.Primals, d.Primals)
	return d
}

func (steepestDescent) PredictedReduction(direction *iterate.Direction, stepLength float64) float64 {
	return -stepLength * direction.SubproblemObjective
}

func absVal(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// acceptDecrease is a fake GlobalizationStrategy accepting any strict objective decrease.
type acceptDecrease struct{}

func (acceptDecrease) Reset() {}
func (acceptDecrease) IsAcceptable(current, trial iterate.ProgressMeasures, predictedReduction, sigma float64) bool {
	return trial.Objective(sigma) < current.Objective(sigma)
}

func evalProgress(p problem.OptimizationProblem, it *iterate.Iterate) iterate.ProgressMeasures {
	return iterate.NewProgressMeasures(0, p.EvaluateObjective(it.Primals), 0)
}

func TestTrustRegionAcceptsDescentStep(t *testing.T) {
	p := &quadraticProblem{n: 2}
	method := steepestDescent{}
	current := method.GenerateInitialIterate(p, []float64{1, 1})

	tr := NewTrustRegion()
	outcome := tr.Run(p, method, nil, acceptDecrease{}, current, evalProgress)

	assert.True(t, outcome.Accepted)
	assert.Less(t, p.EvaluateObjective(outcome.Trial.Primals), p.EvaluateObjective(current.Primals))
}

func TestLineSearchBacktracksToAcceptance(t *testing.T) {
	p := &quadraticProblem{n: 2}
	method := steepestDescent{}
	current := method.GenerateInitialIterate(p, []float64{1, 1})

	ls := NewLineSearch()
	outcome := ls.Run(p, method, nil, acceptDecrease{}, current, evalProgress)

	assert.True(t, outcome.Accepted)
	assert.Less(t, p.EvaluateObjective(outcome.Trial.Primals), p.EvaluateObjective(current.Primals))
}
