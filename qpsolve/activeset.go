package qpsolve

// ActiveSet is the default QPSolver backend: it splits the linearized constraints into
// equality and one-sided inequality rows (general constraints plus variable bounds) and
// solves the resulting box/linear-constrained QP with solveBoxedQP (ipm.go) — a direct
// KKT solve when no inequality is present, otherwise a primal-dual interior-point
// iteration in the style of the core's own barrier subproblem (spec §4.5).
type ActiveSet struct{}

// NewActiveSet returns the default QPSolver.
func NewActiveSet() *ActiveSet { return &ActiveSet{} }

func (a *ActiveSet) SolveQP(n, m int, H [][]float64, g []float64, J [][]float64, consValue []float64,
	varBounds []Bounds, consBounds []Bounds, x0 []float64, warmstart WarmstartInformation) Result {

	var eqRows, ineqRows [][]float64
	var eqValue, ineqValue []float64
	for i := 0; i < m; i++ {
		if consBounds[i].Lower == consBounds[i].Upper {
			eqRows = append(eqRows, J[i])
			eqValue = append(eqValue, consValue[i]-consBounds[i].Lower)
			continue
		}
		if finiteBound(consBounds[i].Lower) {
			ineqRows = append(ineqRows, J[i])
			ineqValue = append(ineqValue, consValue[i]-consBounds[i].Lower)
		}
		if finiteBound(consBounds[i].Upper) {
			negated := make([]float64, n)
			for j, v := range J[i] {
				negated[j] = -v
			}
			ineqRows = append(ineqRows, negated)
			ineqValue = append(ineqValue, consBounds[i].Upper-consValue[i])
		}
	}

	varLower := make([]float64, n)
	varUpper := make([]float64, n)
	for i, b := range varBounds {
		varLower[i] = b.Lower - x0[i]
		varUpper[i] = b.Upper - x0[i]
	}

	x, mu, lambda, ok := solveBoxedQP(n, H, g, eqRows, eqValue, ineqRows, ineqValue, varLower, varUpper)

	result := Result{Direction: x}
	if !ok {
		return result
	}
	result.Feasible = true

	result.ConstraintDuals = make([]float64, m)
	eqIdx, ineqIdx := 0, 0
	for i := 0; i < m; i++ {
		if consBounds[i].Lower == consBounds[i].Upper {
			result.ConstraintDuals[i] = mu[eqIdx]
			eqIdx++
			continue
		}
		if finiteBound(consBounds[i].Lower) {
			result.ConstraintDuals[i] += lambda[ineqIdx]
			ineqIdx++
		}
		if finiteBound(consBounds[i].Upper) {
			result.ConstraintDuals[i] -= lambda[ineqIdx]
			ineqIdx++
		}
	}

	result.LowerBoundDuals = make([]float64, n)
	result.UpperBoundDuals = make([]float64, n)
	for i := 0; i < n; i++ {
		if finiteBound(varBounds[i].Lower) {
			result.LowerBoundDuals[i] = lambda[ineqIdx]
			ineqIdx++
		}
	}
	for i := 0; i < n; i++ {
		if finiteBound(varBounds[i].Upper) {
			result.UpperBoundDuals[i] = lambda[ineqIdx]
			ineqIdx++
		}
	}
	return result
}
