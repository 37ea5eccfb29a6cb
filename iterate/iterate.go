package iterate

// Iterate is the unit of state carried between outer iterations (spec §3). All
// evaluation caches are consistent with Primals whenever their dirty flag is clear;
// SetPrimals clears every flag.
type Iterate struct {
	Primals []float64

	Multipliers             Multipliers
	FeasibilityMultipliers  Multipliers
	ObjectiveMultiplier     float64 // sigma in {0,1} or a slowly-decreasing l1 penalty

	Evaluations *Evaluations

	Progress             ProgressMeasures
	Residuals            Residuals
	FeasibilityResiduals Residuals

	Status Status
}

// NewIterate allocates an Iterate for a problem with n variables and m constraints,
// copying x0 into Primals (x0 must have length n).
func NewIterate(x0 []float64, n, m int) *Iterate {
	primals := make([]float64, n)
	copy(primals, x0)
	return &Iterate{
		Primals:                primals,
		Multipliers:            NewMultipliers(n, m),
		FeasibilityMultipliers: NewMultipliers(n, m),
		ObjectiveMultiplier:    1,
		Evaluations:            NewEvaluations(n, m),
		Residuals:              NewResiduals(n),
		FeasibilityResiduals:   NewResiduals(n),
		Status:                 NotOptimal,
	}
}

// SetPrimals overwrites Primals and invalidates every evaluation cache, per the
// data-model invariant in spec §3.
func (it *Iterate) SetPrimals(x []float64) {
	copy(it.Primals, x)
	it.Evaluations.MarkAllDirty()
}

// SetNumberVariables grows or shrinks Primals (and the caches keyed on n) to a new
// dimension, used when elastic variables are added for the feasibility reformulation
// (spec §3 "Lifecycle").
func (it *Iterate) SetNumberVariables(n, m int) {
	grown := make([]float64, n)
	copy(grown, it.Primals)
	it.Primals = grown
	it.Multipliers = growMultipliers(it.Multipliers, n, m)
	it.FeasibilityMultipliers = growMultipliers(it.FeasibilityMultipliers, n, m)
	it.Evaluations = NewEvaluations(n, m)
	it.Residuals = NewResiduals(n)
	it.FeasibilityResiduals = NewResiduals(n)
}

func growMultipliers(m Multipliers, n, numCons int) Multipliers {
	out := NewMultipliers(n, numCons)
	copy(out.Constraints, m.Constraints)
	copy(out.LowerBounds, m.LowerBounds)
	copy(out.UpperBounds, m.UpperBounds)
	return out
}

// Clone returns a deep, independent copy of the iterate (used by mechanisms that must
// keep the last accepted iterate around while trying a trial one). The evaluation cache
// is not copied: the clone starts with every cache marked dirty.
func (it *Iterate) Clone() *Iterate {
	n, m := len(it.Primals), len(it.Multipliers.Constraints)
	out := NewIterate(it.Primals, n, m)
	out.Multipliers.CopyFrom(it.Multipliers)
	out.FeasibilityMultipliers.CopyFrom(it.FeasibilityMultipliers)
	out.ObjectiveMultiplier = it.ObjectiveMultiplier
	out.Progress = it.Progress
	grad, feasGrad := out.Residuals.LagrangianGradient, out.FeasibilityResiduals.LagrangianGradient
	out.Residuals = it.Residuals
	out.FeasibilityResiduals = it.FeasibilityResiduals
	copy(grad.ObjectiveContribution, it.Residuals.LagrangianGradient.ObjectiveContribution)
	copy(grad.ConstraintsContribution, it.Residuals.LagrangianGradient.ConstraintsContribution)
	copy(feasGrad.ObjectiveContribution, it.FeasibilityResiduals.LagrangianGradient.ObjectiveContribution)
	copy(feasGrad.ConstraintsContribution, it.FeasibilityResiduals.LagrangianGradient.ConstraintsContribution)
	out.Residuals.LagrangianGradient, out.FeasibilityResiduals.LagrangianGradient = grad, feasGrad
	out.Status = it.Status
	return out
}
