package strategy

import "github.com/amontoison/Uno/iterate"

// Funnel is the single-scalar alternative to the two-dimensional filter (spec §4.7): it
// tracks one infeasibility upper bound that only ever shrinks, and accepts a trial
// iterate that either stays within the funnel and makes objective progress, or reduces
// infeasibility enough to shrink the funnel itself.
type Funnel struct {
	upperBound    float64
	initialized   bool
	kappaFunnel   float64 // fraction the funnel shrinks by on an objective-improving step
	kappaInfeasible float64
}

// NewFunnel returns a funnel with no bound set yet; InitializeFrom, or the first
// IsAcceptable call after construction or Reset, derives one from an infeasibility.
func NewFunnel() *Funnel {
	return &Funnel{kappaFunnel: 0.9999, kappaInfeasible: 0.9}
}

func (f *Funnel) Reset() { f.initialized = false }

// InitializeFrom seeds the funnel's upper bound from the initial iterate's infeasibility,
// as required before the first IsAcceptable call (spec §4.7).
func (f *Funnel) InitializeFrom(initialInfeasibility float64) {
	f.upperBound = 1e4 * maxf(1, initialInfeasibility)
	f.initialized = true
}

func (f *Funnel) IsAcceptable(current, trial iterate.ProgressMeasures, predictedReduction, sigma float64) bool {
	if !f.initialized {
		f.InitializeFrom(current.Infeasibility)
	}
	if trial.Infeasibility > f.upperBound {
		return false
	}

	currentObjective, trialObjective := current.Objective(sigma), trial.Objective(sigma)
	if trial.Infeasibility <= f.kappaInfeasible*current.Infeasibility {
		// Feasibility-restoration-style step: shrink the funnel and accept.
		f.upperBound = maxf(trial.Infeasibility, f.kappaFunnel*f.upperBound)
		return true
	}
	if trialObjective <= currentObjective-1e-8*predictedReduction {
		f.upperBound = maxf(f.upperBound, trial.Infeasibility)
		f.upperBound = f.kappaFunnel*f.upperBound + (1-f.kappaFunnel)*trial.Infeasibility
		return true
	}
	return false
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
