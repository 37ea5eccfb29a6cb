package relaxation

import (
	"github.com/amontoison/Uno/iterate"
	"github.com/amontoison/Uno/model"
	"github.com/amontoison/Uno/problem"
	"github.com/amontoison/Uno/strategy"
)

// FeasibilityRestoration attempts the optimality subproblem and, on failure, switches to
// the sigma=0 l1-relaxed feasibility problem until an acceptable point lets it switch
// back (spec §4.9). The switch snapshots sigma and the primary multipliers exactly once
// per direction and restores them on return, matching the restoration round-trip
// property of spec §8.
type FeasibilityRestoration struct {
	optimality  *problem.OptimalityProblem
	feasibility *problem.L1RelaxedProblem
	strategy    strategy.GlobalizationStrategy

	inFeasibilityMode bool

	// Snapshot taken on entry to feasibility mode, restored on exit.
	savedSigma       float64
	savedMultipliers iterate.Multipliers
	haveSnapshot     bool

	// FeasibilityReturnThreshold: infeasibility at or below this, while restoration is
	// making first-order progress, is acceptable to switch back to optimality mode.
	FeasibilityReturnThreshold float64
}

// NewFeasibilityRestoration builds the strategy over base, driving the supplied
// globalization strategy and resetting it on every mode switch (spec §4.9 "notifies the
// globalization strategy of the switch").
func NewFeasibilityRestoration(base model.Model, strat strategy.GlobalizationStrategy) *FeasibilityRestoration {
	return &FeasibilityRestoration{
		optimality:                 problem.NewOptimalityProblem(base),
		feasibility:                problem.NewL1RelaxedProblem(base, 1, 0),
		strategy:                   strat,
		FeasibilityReturnThreshold: 1e-8,
	}
}

func (fr *FeasibilityRestoration) CurrentProblem() problem.OptimizationProblem {
	if fr.inFeasibilityMode {
		return fr.feasibility
	}
	return fr.optimality
}

func (fr *FeasibilityRestoration) InFeasibilityMode() bool { return fr.inFeasibilityMode }

func (fr *FeasibilityRestoration) AttemptStep(current *iterate.Iterate, runMechanism MechanismRunner) Step {
	if !fr.inFeasibilityMode {
		trial, direction, accepted := runMechanism(fr.optimality, current)
		if accepted {
			return Step{Trial: trial, Direction: direction, Accepted: true}
		}
		fr.switchToFeasibility(current)
	}

	trial, direction, accepted := runMechanism(fr.feasibility, current)
	if !accepted {
		return Step{InFeasibilityMode: true, Accepted: false}
	}

	// trial.Multipliers currently holds the feasibility subproblem's own duals (sigma=0);
	// record them as the feasibility multiplier stream before a possible switch back to
	// optimality overwrites trial.Multipliers with the restored optimality snapshot, so
	// the termination classifier can see non-trivial feasibility duals (spec §8 scenario 3).
	trial.FeasibilityMultipliers.CopyFrom(trial.Multipliers)

	if fr.acceptableForOptimality(trial) {
		fr.switchToOptimality(trial)
	}
	return Step{Trial: trial, Direction: direction, InFeasibilityMode: fr.inFeasibilityMode, Accepted: true}
}

func (fr *FeasibilityRestoration) ProgressMeasures(it *iterate.Iterate) iterate.ProgressMeasures {
	h := InfeasibilityMeasure(fr.optimality, it.Primals)
	return iterate.NewProgressMeasures(h, fr.optimality.EvaluateObjective(it.Primals), 0)
}

// switchToFeasibility snapshots sigma and the primary multiplier triple once, sets sigma
// to zero on the feasibility view, and resets the globalization strategy's memory (filter
// entries / funnel bound no longer apply across the switch).
func (fr *FeasibilityRestoration) switchToFeasibility(current *iterate.Iterate) {
	if !fr.haveSnapshot {
		fr.savedSigma = current.ObjectiveMultiplier
		fr.savedMultipliers = current.Multipliers.Clone()
		fr.haveSnapshot = true
	}
	fr.feasibility.SetObjectiveMultiplier(0)
	fr.inFeasibilityMode = true
	fr.strategy.Reset()
}

// switchToOptimality restores the snapshot taken at the last switch onto trial (the
// "restoration round-trip" property of spec §8: sigma and the primary multiplier triple
// come back exactly as they went in) and resets the globalization strategy again.
func (fr *FeasibilityRestoration) switchToOptimality(trial *iterate.Iterate) {
	if fr.haveSnapshot {
		trial.ObjectiveMultiplier = fr.savedSigma
		trial.Multipliers.CopyFrom(fr.savedMultipliers)
	}
	fr.inFeasibilityMode = false
	fr.haveSnapshot = false
	fr.strategy.Reset()
}

func (fr *FeasibilityRestoration) acceptableForOptimality(trial *iterate.Iterate) bool {
	return InfeasibilityMeasure(fr.optimality, trial.Primals) <= fr.FeasibilityReturnThreshold
}
