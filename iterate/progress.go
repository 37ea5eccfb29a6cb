package iterate

// ProgressMeasures is the triple (infeasibility, objective, auxiliary) spec §3/§9 model
// progress with. Objective is a function of sigma rather than a precomputed number so
// the l1-relaxation strategy can retroactively reweight it without a fresh evaluation.
type ProgressMeasures struct {
	Infeasibility float64
	objective     func(sigma float64) float64
	Auxiliary     float64
}

// NewProgressMeasures captures objectiveAtSigma1, the measured objective value at a
// fixed point, and derives the sigma-parameterized closure the rest of the core expects.
func NewProgressMeasures(infeasibility, objectiveAtSigma1, auxiliary float64) ProgressMeasures {
	return ProgressMeasures{
		Infeasibility: infeasibility,
		objective:     func(sigma float64) float64 { return sigma * objectiveAtSigma1 },
		Auxiliary:     auxiliary,
	}
}

// Objective evaluates the objective measure at the given sigma.
func (p ProgressMeasures) Objective(sigma float64) float64 {
	if p.objective == nil {
		return 0
	}
	return p.objective(sigma)
}

// WithObjectiveFunc overrides the objective closure directly (used by the feasibility
// problem, whose objective measure is not a simple sigma-scaled scalar).
func WithObjectiveFunc(infeasibility float64, objective func(sigma float64) float64, auxiliary float64) ProgressMeasures {
	return ProgressMeasures{Infeasibility: infeasibility, objective: objective, Auxiliary: auxiliary}
}

// Merit returns the unconstrained merit phi = objective(sigma) + auxiliary used by the
// filter strategies (spec §4.6).
func (p ProgressMeasures) Merit(sigma float64) float64 {
	return p.Objective(sigma) + p.Auxiliary
}
