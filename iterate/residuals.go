package iterate

// LagrangianGradient splits ∇_x L into its objective and constraints contributions, so
// that sigma can be swapped or the multiplier set changed without re-evaluating f and c
// (spec §4.1 evaluate_lagrangian_gradient, §9 "avoid duplicating evaluations").
//
// Sign convention (spec §8 Laws): grad_x L = sigma*grad(f) - J^T y - z_L - z_U, i.e.
//
//	ObjectiveContribution   = sigma * grad(f)
//	ConstraintsContribution = -J^T y - z_L - z_U
type LagrangianGradient struct {
	ObjectiveContribution   []float64
	ConstraintsContribution []float64
}

// NewLagrangianGradient allocates both contributions sized for n variables.
func NewLagrangianGradient(n int) LagrangianGradient {
	return LagrangianGradient{
		ObjectiveContribution:   make([]float64, n),
		ConstraintsContribution: make([]float64, n),
	}
}

// Full adds the two contributions into a preallocated n-vector.
func (g LagrangianGradient) Full(out []float64) {
	for i := range out {
		out[i] = g.ObjectiveContribution[i] + g.ConstraintsContribution[i]
	}
}

// Residuals holds the primal-dual residual triple computed for one interpretation
// (optimality or feasibility) of an iterate (spec §3, §4.11).
type Residuals struct {
	LagrangianGradient    LagrangianGradient
	Stationarity          float64
	PrimalFeasibility     float64
	Complementarity       float64
	StationarityScaling   float64
	ComplementarityScaling float64
}

// NewResiduals allocates a zeroed Residuals sized for n variables.
func NewResiduals(n int) Residuals {
	return Residuals{
		LagrangianGradient:   NewLagrangianGradient(n),
		StationarityScaling:  1,
		ComplementarityScaling: 1,
	}
}

// IsStationary reports whether the scaled stationarity residual is within tol.
func (r Residuals) IsStationary(tol float64) bool {
	return r.Stationarity/r.StationarityScaling <= tol
}

// IsPrimalFeasible reports whether the primal feasibility residual is within tol.
func (r Residuals) IsPrimalFeasible(tol float64) bool {
	return r.PrimalFeasibility <= tol
}

// IsComplementary reports whether the scaled complementarity residual is within tol.
func (r Residuals) IsComplementary(tol float64) bool {
	return r.Complementarity/r.ComplementarityScaling <= tol
}
