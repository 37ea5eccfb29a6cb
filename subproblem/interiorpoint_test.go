package subproblem

import (
	"testing"

	"github.com/amontoison/Uno/iterate"
	"github.com/amontoison/Uno/model"
	"github.com/amontoison/Uno/problem"
	"github.com/stretchr/testify/assert"
)

func boundedVariable() *model.Dense {
	return model.NewDense(model.DenseSpec{
		Name:              "bounded",
		N:                 2,
		M:                 0,
		VarLower:          []float64{1, -model.Inf},
		VarUpper:          []float64{5, 5},
		Objective:         func(x []float64) float64 { return 0 },
		ObjectiveGradient: func(x []float64, out model.Sparse) {},
		Hessian:           func(x []float64, sigma float64, y []float64, out model.Symmetric) {},
		X0:                []float64{1, 5},
		Y0:                []float64{},
		ObjGradNnz:        2,
	})
}

func TestGenerateInitialIteratePushesVariablesOffBounds(t *testing.T) {
	base := boundedVariable()
	p := problem.NewOptimalityProblem(base)
	ip := NewInteriorPoint()

	it := ip.GenerateInitialIterate(p, []float64{1, 5})

	// x[0] is double-bounded at its lower bound 1: margin = min(k1*max(1,|1|), k2*(5-1)).
	wantMargin := ip.PushK1 * 1
	assert.InDelta(t, 1+wantMargin, it.Primals[0], 1e-12)
	// x[1] is upper-bounded only, starting at its upper bound 5.
	wantMargin1 := ip.PushK1 * 5
	assert.InDelta(t, 5-wantMargin1, it.Primals[1], 1e-12)

	for i := range it.Multipliers.LowerBounds {
		assert.Equal(t, ip.DefaultMultiplier, it.Multipliers.LowerBounds[i])
		assert.Equal(t, -ip.DefaultMultiplier, it.Multipliers.UpperBounds[i])
	}
}

func TestIsSmallStepFlagsNegligibleDirection(t *testing.T) {
	ip := NewInteriorPoint()
	it := iterate.NewIterate([]float64{1, 1}, 2, 0)

	tiny := iterate.NewDirection(2, 0)
	tiny.Primals[0] = ip.SmallDirectionFactor * machineEpsilon * 0.5
	assert.True(t, ip.isSmallStep(it, tiny))

	big := iterate.NewDirection(2, 0)
	big.Primals[0] = 0.1
	assert.False(t, ip.isSmallStep(it, big))
}

func TestFractionToBoundaryStepClampsToTau(t *testing.T) {
	base := boundedVariable()
	p := problem.NewOptimalityProblem(base)
	ip := NewInteriorPoint()

	it := iterate.NewIterate([]float64{2, 0}, 2, 0)
	d := iterate.NewDirection(2, 0)
	// distance to lower bound of x[0] is 2-1=1; a full unit step would hit the bound
	// exactly, so fraction-to-boundary must clamp to tau.
	d.Primals[0] = -1
	alpha := ip.fractionToBoundaryStep(p, it, d, false)
	assert.InDelta(t, ip.FractionToBoundaryTau, alpha, 1e-12)
}

func TestClampToBarrierScaleKeepsValueWithinRange(t *testing.T) {
	assert.Equal(t, 2.0, clampToBarrierScale(2, 1, 10))
	assert.Equal(t, 10.0, clampToBarrierScale(100, 1, 10))
	assert.Equal(t, 0.1, clampToBarrierScale(0.01, 1, 10))
}
