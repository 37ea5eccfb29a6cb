package qpsolve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActiveSetUnconstrainedQuadratic(t *testing.T) {
	// min 1/2 d^T I d + g^T d, no constraints: optimum is d = -g.
	n := 2
	H := [][]float64{{1, 0}, {0, 1}}
	g := []float64{2, -3}
	x0 := []float64{0, 0}
	bounds := []Bounds{{Lower: math.Inf(-1), Upper: math.Inf(1)}, {Lower: math.Inf(-1), Upper: math.Inf(1)}}

	result := NewActiveSet().SolveQP(n, 0, H, g, nil, nil, bounds, nil, x0, WarmstartInformation{})

	assert.True(t, result.Feasible)
	assert.InDelta(t, -2, result.Direction[0], 1e-6)
	assert.InDelta(t, 3, result.Direction[1], 1e-6)
}

func TestActiveSetRespectsVariableBounds(t *testing.T) {
	n := 1
	H := [][]float64{{1}}
	g := []float64{2}
	x0 := []float64{0}
	bounds := []Bounds{{Lower: -0.5, Upper: math.Inf(1)}}

	result := NewActiveSet().SolveQP(n, 0, H, g, nil, nil, bounds, nil, x0, WarmstartInformation{})

	assert.True(t, result.Feasible)
	assert.InDelta(t, -0.5, result.Direction[0], 1e-6)
}

func TestActiveSetLinearEqualityConstraint(t *testing.T) {
	// min 1/2||d||^2 s.t. d0 + d1 = 1, starting from c(x0) = 0.
	n := 2
	H := [][]float64{{1, 0}, {0, 1}}
	g := []float64{0, 0}
	J := [][]float64{{1, 1}}
	consValue := []float64{0}
	consBounds := []Bounds{{Lower: 1, Upper: 1}}
	x0 := []float64{0, 0}
	bounds := []Bounds{{Lower: math.Inf(-1), Upper: math.Inf(1)}, {Lower: math.Inf(-1), Upper: math.Inf(1)}}

	result := NewActiveSet().SolveQP(n, 1, H, g, J, consValue, bounds, consBounds, x0, WarmstartInformation{})

	assert.True(t, result.Feasible)
	assert.InDelta(t, 0.5, result.Direction[0], 1e-6)
	assert.InDelta(t, 0.5, result.Direction[1], 1e-6)
}
