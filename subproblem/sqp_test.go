package subproblem

import (
	"testing"

	"github.com/amontoison/Uno/hessian"
	"github.com/amontoison/Uno/iterate"
	"github.com/amontoison/Uno/model"
	"github.com/amontoison/Uno/problem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// EqualityQP is a strictly convex equality-constrained QP, so a single SQP step from
// any starting point solves it exactly (spec §8).
func TestSQPComputeDirectionSolvesEqualityQPInOneStep(t *testing.T) {
	base := model.EqualityQP()
	p := problem.NewOptimalityProblem(base)
	s := NewSQP(nil)
	hess := hessian.NewExact()

	it := s.GenerateInitialIterate(p, []float64{0, 0})
	it.ObjectiveMultiplier = p.DefaultObjectiveMultiplier()

	d := s.ComputeDirection(p, it, hess, 1e10)
	require.Equal(t, iterate.Optimal, d.Status)

	assert.InDelta(t, 0.5, d.Primals[0], 1e-9)
	assert.InDelta(t, 0.5, d.Primals[1], 1e-9)
	require.Len(t, d.Multipliers.Constraints, 1)
	assert.InDelta(t, -0.5, d.Multipliers.Constraints[0], 1e-9)
}

func TestSQPPredictedReductionScalesQuadraticTermByAlphaSquared(t *testing.T) {
	base := model.EqualityQP()
	p := problem.NewOptimalityProblem(base)
	s := NewSQP(nil)
	hess := hessian.NewExact()

	it := s.GenerateInitialIterate(p, []float64{0, 0})
	it.ObjectiveMultiplier = p.DefaultObjectiveMultiplier()
	d := s.ComputeDirection(p, it, hess, 1e10)

	full := s.PredictedReduction(d, 1)
	half := s.PredictedReduction(d, 0.5)

	assert.InDelta(t, -d.ModelLinearTerm-d.ModelQuadraticTerm, full, 1e-12)
	assert.InDelta(t, -0.5*d.ModelLinearTerm-0.25*d.ModelQuadraticTerm, half, 1e-12)
}

func TestSQPComputeDirectionRespectsTrustRegion(t *testing.T) {
	base := model.Rosenbrock()
	p := problem.NewOptimalityProblem(base)
	s := NewSQP(nil)
	hess := hessian.NewExact()

	it := s.GenerateInitialIterate(p, []float64{-1.2, 1})
	it.ObjectiveMultiplier = p.DefaultObjectiveMultiplier()

	radius := 0.1
	d := s.ComputeDirection(p, it, hess, radius)

	for i, v := range d.Primals {
		assert.LessOrEqual(t, v, radius+1e-9, "component %d exceeds trust region", i)
		assert.GreaterOrEqual(t, v, -radius-1e-9, "component %d exceeds trust region", i)
	}
}
