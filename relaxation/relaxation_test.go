package relaxation

import (
	"testing"

	"github.com/amontoison/Uno/iterate"
	"github.com/amontoison/Uno/model"
	"github.com/amontoison/Uno/problem"
	"github.com/stretchr/testify/assert"
)

type noopStrategy struct{ resets int }

func (s *noopStrategy) Reset() { s.resets++ }
func (s *noopStrategy) IsAcceptable(current, trial iterate.ProgressMeasures, predictedReduction, sigma float64) bool {
	return true
}

func TestFeasibilityRestorationSwitchesOnOptimalityFailure(t *testing.T) {
	base := model.InfeasibleLP()
	strat := &noopStrategy{}
	fr := NewFeasibilityRestoration(base, strat)

	current := iterate.NewIterate([]float64{0}, base.NumberVariables(), base.NumberConstraints())
	current.ObjectiveMultiplier = 1
	current.Multipliers.Constraints[0] = 3

	callCount := 0
	runner := func(p problem.OptimizationProblem, it *iterate.Iterate) (*iterate.Iterate, *iterate.Direction, bool) {
		callCount++
		if callCount == 1 {
			// optimality attempt fails: infeasible problem, no acceptable step.
			return nil, nil, false
		}
		// feasibility attempt succeeds.
		trial := it.Clone()
		return trial, iterate.NewDirection(base.NumberVariables(), base.NumberConstraints()), true
	}

	step := fr.AttemptStep(current, runner)

	assert.True(t, step.Accepted)
	assert.Equal(t, 2, callCount)
	assert.True(t, strat.resets >= 1)
}

func TestFeasibilityRestorationRestoresSnapshotOnReturn(t *testing.T) {
	base := model.EqualityQP()
	strat := &noopStrategy{}
	fr := NewFeasibilityRestoration(base, strat)
	fr.FeasibilityReturnThreshold = 1e6 // accept any infeasibility for this test

	current := iterate.NewIterate([]float64{0, 0}, base.NumberVariables(), base.NumberConstraints())
	current.ObjectiveMultiplier = 1
	current.Multipliers.Constraints[0] = 7

	callCount := 0
	runner := func(p problem.OptimizationProblem, it *iterate.Iterate) (*iterate.Iterate, *iterate.Direction, bool) {
		callCount++
		if callCount == 1 {
			return nil, nil, false
		}
		trial := it.Clone()
		trial.ObjectiveMultiplier = 0
		return trial, iterate.NewDirection(base.NumberVariables(), base.NumberConstraints()), true
	}

	step := fr.AttemptStep(current, runner)

	assert.True(t, step.Accepted)
	assert.False(t, fr.InFeasibilityMode())
	assert.Equal(t, 1.0, step.Trial.ObjectiveMultiplier)
	assert.Equal(t, 7.0, step.Trial.Multipliers.Constraints[0])
}

func TestL1RelaxationGrowsPenaltyOnRepeatedFailure(t *testing.T) {
	base := model.InfeasibleLP()
	l := NewL1Relaxation(base, 1)

	current := iterate.NewIterate([]float64{0}, base.NumberVariables()+1, base.NumberConstraints())

	runner := func(p problem.OptimizationProblem, it *iterate.Iterate) (*iterate.Iterate, *iterate.Direction, bool) {
		return nil, nil, false
	}

	step := l.AttemptStep(current, runner)

	assert.False(t, step.Accepted)
	assert.Equal(t, 10.0, l.relaxed.PenaltyCoefficient())
}
