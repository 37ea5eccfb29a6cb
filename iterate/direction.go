package iterate

// Direction is the output of an inequality-handling method: a primal displacement, new
// dual values, and bookkeeping used by the globalization mechanism (spec §3).
type Direction struct {
	Primals     []float64
	Multipliers Multipliers

	Norm                float64 // infinity-norm of the primal part
	SubproblemObjective float64 // quadratic/barrier model value at this direction, alpha=1

	// ModelLinearTerm and ModelQuadraticTerm are the separate linear and quadratic
	// contributions to the subproblem model (g.d and 0.5 d^T H d, or their barrier
	// analogues), so a mechanism can rescale the model at an arbitrary step length alpha
	// as alpha*ModelLinearTerm + alpha^2*ModelQuadraticTerm instead of scaling the alpha=1
	// total uniformly (spec §4.4/§4.5).
	ModelLinearTerm    float64
	ModelQuadraticTerm float64

	// BarrierParameterChanged is set by the interior-point method when it updated the
	// barrier parameter mu this iteration (spec §4.5.1); the mechanism resets the
	// globalization strategy's filter/funnel when it sees this, mirroring the reset on a
	// restoration mode switch (spec §4.9).
	BarrierParameterChanged bool

	// SmallStep flags a direction too small to make further progress relative to the
	// current point (spec §4.5 step 9); the mechanism accepts it unconditionally rather
	// than shrinking further.
	SmallStep bool

	Status DirectionStatus

	// Step lengths for interior-point methods (spec §4.5 step 8); SQP leaves both at 1.
	PrimalDualStepLength float64
	BoundDualStepLength  float64
}

// NewDirection allocates a zeroed Direction sized for n variables and m constraints.
func NewDirection(n, m int) *Direction {
	return &Direction{
		Primals:              make([]float64, n),
		Multipliers:          NewMultipliers(n, m),
		PrimalDualStepLength: 1,
		BoundDualStepLength:  1,
	}
}

// Reset clears a Direction for reuse across inner iterations without reallocating (spec
// §3 "A Direction is owned by the mechanism, reused across inner iterations").
func (d *Direction) Reset() {
	for i := range d.Primals {
		d.Primals[i] = 0
	}
	for j := range d.Multipliers.Constraints {
		d.Multipliers.Constraints[j] = 0
	}
	for i := range d.Multipliers.LowerBounds {
		d.Multipliers.LowerBounds[i] = 0
	}
	for i := range d.Multipliers.UpperBounds {
		d.Multipliers.UpperBounds[i] = 0
	}
	d.Norm = 0
	d.SubproblemObjective = 0
	d.ModelLinearTerm = 0
	d.ModelQuadraticTerm = 0
	d.BarrierParameterChanged = false
	d.SmallStep = false
	d.Status = Optimal
	d.PrimalDualStepLength = 1
	d.BoundDualStepLength = 1
}

// ComputeNorm sets Norm to the infinity norm of Primals.
func (d *Direction) ComputeNorm() {
	m := 0.0
	for _, v := range d.Primals {
		if a := absf(v); a > m {
			m = a
		}
	}
	d.Norm = m
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
