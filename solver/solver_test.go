package solver

import (
	"context"
	"math"
	"testing"

	"github.com/amontoison/Uno/internal/unoerr"
	"github.com/amontoison/Uno/iterate"
	"github.com/amontoison/Uno/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptionsAreInternallyConsistent(t *testing.T) {
	opts := DefaultOptions()
	assert.Greater(t, opts.MaxIterations, 0)
	assert.Greater(t, opts.Tolerance, 0.0)
	assert.Less(t, opts.Tolerance, opts.LooseTolerance)
}

func TestLoadOptionsWithoutConfigFileReturnsDefaults(t *testing.T) {
	opts, err := LoadOptions("")
	require.NoError(t, err)
	assert.Equal(t, "TR", opts.GlobalizationMechanism)
	assert.Equal(t, DefaultOptions().Tolerance, opts.Tolerance)
}

func TestOptimizeDrivesEqualityQPToFeasibility(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxIterations = 25
	u := New(opts, nil, nil)

	base := model.EqualityQP()
	result, err := u.Optimize(context.Background(), base, []float64{0, 0})

	require.NoError(t, err)
	assert.Less(t, result.Residuals.PrimalFeasibility, 1e-6)
	assert.GreaterOrEqual(t, u.Stats.OuterIterations, 1)
	assert.NotEmpty(t, u.Stats.History)

	// Spec §8 scenario: x* = (0.5, 0.5), y* = -0.5, reached in one Newton step.
	assert.InDelta(t, 0.5, result.Primals[0], 1e-6)
	assert.InDelta(t, 0.5, result.Primals[1], 1e-6)
	require.Len(t, result.Multipliers.Constraints, 1)
	assert.InDelta(t, -0.5, result.Multipliers.Constraints[0], 1e-6)
}

func TestOptimizeInfeasibleLPReachesInfeasibleStationaryPoint(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxIterations = 50
	u := New(opts, nil, nil)

	base := model.InfeasibleLP()
	result, err := u.Optimize(context.Background(), base, []float64{0})

	require.NoError(t, err)
	assert.Equal(t, iterate.InfeasibleStationaryPoint, result.Status)
}

func TestOptimizeUnboundedLPReachesUnbounded(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxIterations = 50
	u := New(opts, nil, nil)

	base := model.UnboundedLP()
	result, err := u.Optimize(context.Background(), base, []float64{0})

	require.NoError(t, err)
	assert.Equal(t, iterate.Unbounded, result.Status)
}

func TestOptimizeRespectsCancellation(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxIterations = 1000
	u := New(opts, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	base := model.Rosenbrock()
	x0 := make([]float64, base.NumberVariables())
	base.InitialPrimalPoint(x0)
	result, err := u.Optimize(ctx, base, x0)

	require.NoError(t, err)
	assert.Equal(t, 5, result.Status.ExitCode())
}

func TestOptimizeRosenbrockMakesProgress(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxIterations = 50
	u := New(opts, nil, nil)

	base := model.Rosenbrock()
	x0 := make([]float64, base.NumberVariables())
	base.InitialPrimalPoint(x0)
	initialObjective := base.EvaluateObjective(x0)

	result, err := u.Optimize(context.Background(), base, x0)

	// Convergence speed on a nonconvex unconstrained problem depends on the regularization
	// and trust-region schedule, so a "mechanism exhausted" error on a pathological step is
	// not itself a failure here; every accepted step strictly decreases the objective, so
	// the final iterate is never worse than the start regardless of how the run ends.
	if err != nil {
		assert.True(t, unoerr.Is(err, unoerr.FatalForCall))
	}
	finalObjective := base.EvaluateObjective(result.Primals)
	assert.False(t, math.IsNaN(finalObjective))
	assert.LessOrEqual(t, finalObjective, initialObjective)
}
