package subproblem

import (
	"math"

	"github.com/amontoison/Uno/hessian"
	"github.com/amontoison/Uno/internal/blas"
	"github.com/amontoison/Uno/iterate"
	"github.com/amontoison/Uno/linsolve"
	"github.com/amontoison/Uno/model"
	"github.com/amontoison/Uno/problem"
	"github.com/amontoison/Uno/regularization"
	"github.com/amontoison/Uno/sparse"
)

// machineEpsilon is the float64 unit roundoff, used by the small-step test of spec §4.5
// step 9.
const machineEpsilon = 2.220446049250313e-16

// barrierErrorScale bounds how much the stationarity and complementarity terms of the
// E(mu) criterion (spec §4.5.1) can be rescaled by large multipliers.
const barrierErrorScale = 100.0

// InteriorPoint is the primal-dual interior-point inequality-handling method of spec
// §4.5: assemble the barrier-augmented KKT system, regularize it to the inertia a
// minimizer requires, and take a fraction-to-boundary step.
type InteriorPoint struct {
	Solver linsolve.LinearSolver
	Reg    *regularization.Strategy

	Mu             float64 // current barrier parameter (spec §4.5.1)
	KappaMu        float64
	ThetaMu        float64
	KappaEpsilon   float64 // E(mu) <= KappaEpsilon*mu gates the barrier update (spec §4.5.1)
	Tolerance      float64 // overall convergence tolerance; mu is floored at Tolerance/10

	FractionToBoundaryTau float64

	// GenerateInitialIterate knobs (spec §4.5.3).
	DefaultMultiplier float64 // initial bound-multiplier magnitude
	PushK1, PushK2    float64 // interior-push constants kappa_1, kappa_2
	LeastSquareMultiplierMaxNorm float64

	// ComputeDirection knobs (spec §4.5).
	RegularizationExponent float64 // delta_d = mu^kappa (step 3)
	DampingFactor          float64 // kappa_d in the barrier gradient (single-bounded vars)
	SmallDirectionFactor   float64 // kappa_small in the small-step test (step 9)

	matrix    *sparse.SymmetricMatrix
	firstCall bool
}

// NewInteriorPoint returns an interior-point method with the default dense linear solver
// and spec-default barrier/push/damping constants.
func NewInteriorPoint() *InteriorPoint {
	return &InteriorPoint{
		Solver:                        linsolve.NewDenseIndefiniteSolver(),
		Reg:                           regularization.New(),
		Mu:                            0.1,
		KappaMu:                       0.2,
		ThetaMu:                       1.5,
		KappaEpsilon:                  10,
		Tolerance:                     1e-8,
		FractionToBoundaryTau:         0.995,
		DefaultMultiplier:             0.1,
		PushK1:                        1e-2,
		PushK2:                        1e-2,
		LeastSquareMultiplierMaxNorm:  1e3,
		RegularizationExponent:        0.25,
		DampingFactor:                 1e-2,
		SmallDirectionFactor:          1e-9,
		firstCall:                     true,
	}
}

// GenerateInitialIterate pushes the starting point strictly inside the bounds, sets the
// bound multipliers to DefaultMultiplier, and computes the least-squares constraint
// multipliers from a single H=I augmented solve, discarding them if their norm is
// unreasonably large (spec §4.5.3).
func (ip *InteriorPoint) GenerateInitialIterate(p problem.OptimizationProblem, x0 []float64) *iterate.Iterate {
	n, m := p.NumberVariables(), p.NumberConstraints()
	x := append([]float64(nil), x0...)
	for i := 0; i < n; i++ {
		lo, up := p.VariableLowerBound(i), p.VariableUpperBound(i)
		hasLo, hasUp := model.IsFiniteLower(lo), model.IsFiniteUpper(up)
		switch {
		case hasLo && hasUp:
			margin := math.Min(ip.PushK1*math.Max(1, math.Abs(lo)), ip.PushK2*(up-lo))
			if x[i] < lo+margin {
				x[i] = lo + margin
			}
			if x[i] > up-margin {
				x[i] = up - margin
			}
		case hasLo:
			margin := ip.PushK1 * math.Max(1, math.Abs(lo))
			if x[i] < lo+margin {
				x[i] = lo + margin
			}
		case hasUp:
			margin := ip.PushK1 * math.Max(1, math.Abs(up))
			if x[i] > up-margin {
				x[i] = up - margin
			}
		}
	}
	it := iterate.NewIterate(x, n, m)
	for i := range it.Multipliers.LowerBounds {
		it.Multipliers.LowerBounds[i] = ip.DefaultMultiplier
		it.Multipliers.UpperBounds[i] = -ip.DefaultMultiplier
	}

	if m > 0 {
		p.EvaluateObjectiveGradient(it.Primals, it.Evaluations.ObjectiveGradient)
		p.EvaluateConstraintJacobian(it.Primals, it.Evaluations.ConstraintJacobian)
		it.Evaluations.SetGradientClean()
		it.Evaluations.SetJacobianClean()
		if y := ip.leastSquaresMultipliers(p, it); y != nil {
			copy(it.Multipliers.Constraints, y)
		}
	}
	return it
}

// leastSquaresMultipliers solves the augmented system [I J^T; J 0] [dx; y] = [rhs; 0] with
// rhs = -grad(f) - z_L - z_U (H=I in place of the Lagrangian Hessian) and returns y,
// or nil if the solve fails or ||y||_inf exceeds LeastSquareMultiplierMaxNorm (spec
// §4.5.3).
func (ip *InteriorPoint) leastSquaresMultipliers(p problem.OptimizationProblem, it *iterate.Iterate) []float64 {
	n, m := p.NumberVariables(), p.NumberConstraints()
	dim := n + m
	sys := sparse.NewSymmetricMatrix(dim, n+n*m)
	for i := 0; i < n; i++ {
		sys.AddEntry(i, i, 1)
	}
	for j := 0; j < m; j++ {
		it.Evaluations.ConstraintJacobian[j].Each(func(idx int, value float64) {
			sys.AddEntry(idx, n+j, value)
		})
	}

	grad := make([]float64, n)
	it.Evaluations.ObjectiveGradient.ToDense(grad)

	rhs := make([]float64, dim)
	for i := 0; i < n; i++ {
		rhs[i] = -grad[i] - it.Multipliers.LowerBounds[i] - it.Multipliers.UpperBounds[i]
	}

	sol := make([]float64, dim)
	if err := ip.Solver.SolveIndefiniteSystem(sys, rhs, sol); err != nil {
		return nil
	}
	y := sol[n:]
	if blas.NormInf(m, y) > ip.LeastSquareMultiplierMaxNorm {
		return nil
	}
	out := make([]float64, m)
	copy(out, y)
	return out
}

// ComputeDirection assembles and solves the barrier KKT system
//
//	[ H + Sigma    J^T ] [ dx]   [-(grad f - J^T y - z_L - z_U)]
//	[    J         -deltaD*I ] [-dy] = [-c(x)                         ]
//
// where Sigma_ii = z_L_i/(x_i-l_i) + z_U_i/(u_i-x_i) is the barrier curvature (spec §4.5
// step 3), then recovers the bound-multiplier displacement from primal-dual
// complementarity and reports the fraction-to-boundary step lengths (spec §4.5 step 8).
func (ip *InteriorPoint) ComputeDirection(p problem.OptimizationProblem, it *iterate.Iterate, hess hessian.Model, trustRegionRadius float64) *iterate.Direction {
	n, m := p.NumberVariables(), p.NumberConstraints()
	ev := it.Evaluations

	if ev.GradientIsDirty() {
		p.EvaluateObjectiveGradient(it.Primals, ev.ObjectiveGradient)
		ev.SetGradientClean()
	}
	if ev.JacobianIsDirty() {
		p.EvaluateConstraintJacobian(it.Primals, ev.ConstraintJacobian)
		ev.SetJacobianClean()
	}
	if ev.ConstraintsAreDirty() {
		p.EvaluateConstraints(it.Primals, ev.Constraints)
		ev.SetConstraintsClean()
	}

	barrierChanged := false
	if !ip.firstCall {
		barrierChanged = ip.updateBarrierParameter(p, it)
	}
	ip.firstCall = false

	dim := n + m
	if ip.matrix == nil || ip.matrix.Dimension != dim {
		ip.matrix = sparse.NewSymmetricMatrix(dim, hess.NumberNonzeros(p)+n+n*m)
	}
	ip.matrix.ResetStructure()
	ip.matrix.ResetTail()

	hessBlock := sparse.NewSymmetricMatrix(n, hess.NumberNonzeros(p))
	hess.Evaluate(p, it.Primals, 1, it.Multipliers.Constraints, hessBlock)
	hessBlock.Each(func(row, col int, value float64) { ip.matrix.AddEntry(row, col, value) })

	sigma := make([]float64, n)
	for i := 0; i < n; i++ {
		lo, up := p.VariableLowerBound(i), p.VariableUpperBound(i)
		if model.IsFiniteLower(lo) {
			sigma[i] += it.Multipliers.LowerBounds[i] / math.Max(it.Primals[i]-lo, 1e-12)
		}
		if model.IsFiniteUpper(up) {
			sigma[i] += -it.Multipliers.UpperBounds[i] / math.Max(up-it.Primals[i], 1e-12)
		}
		ip.matrix.AddEntry(i, i, sigma[i])
	}

	for j := 0; j < m; j++ {
		ev.ConstraintJacobian[j].Each(func(idx int, value float64) {
			ip.matrix.AddEntry(idx, n+j, value)
		})
	}

	target := regularization.Inertia{Positive: n, Negative: m, Zero: 0}
	deltaD := math.Pow(ip.Mu, ip.RegularizationExponent)
	if err := ip.Reg.Regularize("subproblem.InteriorPoint.ComputeDirection", linsolve.AsFactorizer{Solver: ip.Solver}, ip.matrix, n, target, deltaD); err != nil {
		d := iterate.NewDirection(n, m)
		d.Status = iterate.SolveError
		return d
	}

	rhs := make([]float64, dim)
	lag := iterate.NewLagrangianGradient(n)
	p.EvaluateLagrangianGradient(&lag, it.Primals, ev.ObjectiveGradient, ev.ConstraintJacobian, 1, it.Multipliers)
	full := make([]float64, n)
	lag.Full(full)

	grad := make([]float64, n)
	ev.ObjectiveGradient.ToDense(grad)
	gradPhi := make([]float64, n)
	for i := 0; i < n; i++ {
		gradPhi[i] = grad[i]
		lo, up := p.VariableLowerBound(i), p.VariableUpperBound(i)
		hasLo, hasUp := model.IsFiniteLower(lo), model.IsFiniteUpper(up)
		if hasLo {
			gradPhi[i] -= ip.Mu / math.Max(it.Primals[i]-lo, 1e-12)
		}
		if hasUp {
			gradPhi[i] += ip.Mu / math.Max(up-it.Primals[i], 1e-12)
		}
		if hasLo != hasUp {
			if hasLo {
				gradPhi[i] += ip.DampingFactor * ip.Mu
			} else {
				gradPhi[i] -= ip.DampingFactor * ip.Mu
			}
		}
	}

	for i := 0; i < n; i++ {
		rhs[i] = -full[i]
	}
	for j := 0; j < m; j++ {
		rhs[n+j] = -ev.Constraints[j]
	}

	sol := make([]float64, dim)
	if err := ip.Solver.SolveIndefiniteSystem(ip.matrix, rhs, sol); err != nil {
		d := iterate.NewDirection(n, m)
		d.Status = iterate.SolveError
		return d
	}

	d := iterate.NewDirection(n, m)
	copy(d.Primals, sol[:n])
	for j := 0; j < m; j++ {
		d.Multipliers.Constraints[j] = -sol[n+j]
	}

	for i := 0; i < n; i++ {
		lo, up := p.VariableLowerBound(i), p.VariableUpperBound(i)
		if model.IsFiniteLower(lo) {
			slack := it.Primals[i] - lo
			d.Multipliers.LowerBounds[i] = (ip.Mu-it.Multipliers.LowerBounds[i]*(slack+d.Primals[i]))/slack
		}
		if model.IsFiniteUpper(up) {
			slack := up - it.Primals[i]
			d.Multipliers.UpperBounds[i] = (-ip.Mu-it.Multipliers.UpperBounds[i]*(slack-d.Primals[i]))/slack
		}
	}

	d.ComputeNorm()
	d.Status = iterate.Optimal
	d.PrimalDualStepLength = ip.fractionToBoundaryStep(p, it, d, false)
	d.BoundDualStepLength = ip.fractionToBoundaryStep(p, it, d, true)
	d.BarrierParameterChanged = barrierChanged
	d.SmallStep = ip.isSmallStep(it, d)

	d.ModelLinearTerm = blas.Dot(n, gradPhi, d.Primals)
	quadForm := 0.0
	hessBlock.Each(func(row, col int, value float64) {
		if row == col {
			quadForm += value * d.Primals[row] * d.Primals[row]
		} else {
			quadForm += 2 * value * d.Primals[row] * d.Primals[col]
		}
	})
	for i := 0; i < n; i++ {
		quadForm += sigma[i] * d.Primals[i] * d.Primals[i]
	}
	d.ModelQuadraticTerm = 0.5 * quadForm
	d.SubproblemObjective = d.ModelLinearTerm + d.ModelQuadraticTerm

	return d
}

// isSmallStep flags a direction too small to make further progress, relative to the
// scale of the current point (spec §4.5 step 9).
func (ip *InteriorPoint) isSmallStep(it *iterate.Iterate, d *iterate.Direction) bool {
	m := 0.0
	for i, dx := range d.Primals {
		v := math.Abs(dx) / (1 + math.Abs(it.Primals[i]))
		if v > m {
			m = v
		}
	}
	return m <= ip.SmallDirectionFactor*machineEpsilon
}

// fractionToBoundaryStep computes max alpha in (0,1] keeping x (or z) at least
// (1-tau)*distance away from its bound (spec §4.5 step 8).
func (ip *InteriorPoint) fractionToBoundaryStep(p problem.OptimizationProblem, it *iterate.Iterate, d *iterate.Direction, dual bool) float64 {
	alpha := 1.0
	n := p.NumberVariables()
	for i := 0; i < n; i++ {
		lo, up := p.VariableLowerBound(i), p.VariableUpperBound(i)
		if dual {
			if model.IsFiniteLower(lo) && d.Multipliers.LowerBounds[i] < 0 {
				alpha = math.Min(alpha, -ip.FractionToBoundaryTau*it.Multipliers.LowerBounds[i]/d.Multipliers.LowerBounds[i])
			}
			if model.IsFiniteUpper(up) && d.Multipliers.UpperBounds[i] > 0 {
				alpha = math.Min(alpha, -ip.FractionToBoundaryTau*it.Multipliers.UpperBounds[i]/d.Multipliers.UpperBounds[i])
			}
			continue
		}
		if model.IsFiniteLower(lo) && d.Primals[i] < 0 {
			alpha = math.Min(alpha, -ip.FractionToBoundaryTau*(it.Primals[i]-lo)/d.Primals[i])
		}
		if model.IsFiniteUpper(up) && d.Primals[i] > 0 {
			alpha = math.Min(alpha, ip.FractionToBoundaryTau*(up-it.Primals[i])/d.Primals[i])
		}
	}
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return alpha
}

// UpdateBarrier tightens mu once the barrier subproblem is solved to its current
// tolerance (spec §4.5.1): mu_new = max(epsilon_tol/10, min(kappa_mu*mu, mu^theta_mu)).
func (ip *InteriorPoint) UpdateBarrier(epsilonTol float64) {
	candidate := math.Min(ip.KappaMu*ip.Mu, math.Pow(ip.Mu, ip.ThetaMu))
	ip.Mu = math.Max(epsilonTol/10, candidate)
}

// updateBarrierParameter drives mu toward zero while the current iterate already solves
// the barrier subproblem to accuracy E(mu) <= KappaEpsilon*mu, reporting whether mu
// changed so the caller can reset the globalization strategy's filter/funnel (spec
// §4.5.1, §4.9).
func (ip *InteriorPoint) updateBarrierParameter(p problem.OptimizationProblem, it *iterate.Iterate) bool {
	changed := false
	for ip.Mu > ip.Tolerance/10 && ip.scaledError(p, it) <= ip.KappaEpsilon*ip.Mu {
		ip.UpdateBarrier(ip.Tolerance)
		changed = true
	}
	return changed
}

// scaledError computes E(mu), the combined stationarity/feasibility/central-complementarity
// error of the current iterate against the barrier subproblem at the current mu (spec
// §4.5.1).
func (ip *InteriorPoint) scaledError(p problem.OptimizationProblem, it *iterate.Iterate) float64 {
	n, m := p.NumberVariables(), p.NumberConstraints()
	ev := it.Evaluations

	grad := make([]float64, n)
	ev.ObjectiveGradient.ToDense(grad)
	full := append([]float64(nil), grad...)
	for j := 0; j < m; j++ {
		y := it.Multipliers.Constraints[j]
		ev.ConstraintJacobian[j].Each(func(idx int, value float64) {
			full[idx] -= value * y
		})
	}
	for i := 0; i < n; i++ {
		full[i] -= it.Multipliers.LowerBounds[i] + it.Multipliers.UpperBounds[i]
	}
	stationarity := blas.NormInf(n, full)
	violation := blas.NormInf(m, ev.Constraints)

	yNorm1 := blas.Norm1(m, it.Multipliers.Constraints)
	zNorm1 := blas.Norm1(n, it.Multipliers.LowerBounds) + blas.Norm1(n, it.Multipliers.UpperBounds)
	sd := math.Max(barrierErrorScale, (yNorm1+zNorm1)/float64(m+2*n)) / barrierErrorScale
	sc := math.Max(barrierErrorScale, zNorm1/float64(2*n)) / barrierErrorScale

	centralComplementarity := 0.0
	for i := 0; i < n; i++ {
		lo, up := p.VariableLowerBound(i), p.VariableUpperBound(i)
		if model.IsFiniteLower(lo) {
			if v := math.Abs(it.Multipliers.LowerBounds[i]*(it.Primals[i]-lo) - ip.Mu); v > centralComplementarity {
				centralComplementarity = v
			}
		}
		if model.IsFiniteUpper(up) {
			if v := math.Abs(-it.Multipliers.UpperBounds[i]*(up-it.Primals[i]) - ip.Mu); v > centralComplementarity {
				centralComplementarity = v
			}
		}
	}

	return math.Max(stationarity/sd, math.Max(violation, centralComplementarity/sc))
}

// ResetBoundMultipliers re-initializes bound multipliers that have drifted far from the
// scale the barrier implies back into [coef/kappaSigma, coef*kappaSigma] where
// coef = mu/slack is the per-variable Ipopt Eq. 16 coefficient (spec §4.5.2), preventing
// a stale multiplier from dominating the barrier diagonal after a long step. Upper-bound
// multipliers are carried as the negation of their magnitude (ComputeDirection's sign
// convention), so the clamp is applied to -UpperBounds[i] and the sign restored.
func (ip *InteriorPoint) ResetBoundMultipliers(p problem.OptimizationProblem, it *iterate.Iterate, kappaSigma float64) {
	n := p.NumberVariables()
	for i := 0; i < n; i++ {
		lo, up := p.VariableLowerBound(i), p.VariableUpperBound(i)
		if model.IsFiniteLower(lo) {
			coef := ip.Mu / math.Max(it.Primals[i]-lo, 1e-12)
			it.Multipliers.LowerBounds[i] = clampToBarrierScale(it.Multipliers.LowerBounds[i], coef, kappaSigma)
		}
		if model.IsFiniteUpper(up) {
			coef := ip.Mu / math.Max(up-it.Primals[i], 1e-12)
			magnitude := clampToBarrierScale(-it.Multipliers.UpperBounds[i], coef, kappaSigma)
			it.Multipliers.UpperBounds[i] = -magnitude
		}
	}
}

// clampToBarrierScale clamps z into [coef/kappaSigma, coef*kappaSigma].
func clampToBarrierScale(z, coef, kappaSigma float64) float64 {
	lo, hi := coef/kappaSigma, coef*kappaSigma
	if z < lo {
		return lo
	}
	if z > hi {
		return hi
	}
	return z
}

// PredictedReduction rescales the linear and quadratic barrier-model terms separately to
// stepLength, matching the SQP method's general-alpha formula (spec §4.4/§4.5).
func (ip *InteriorPoint) PredictedReduction(direction *iterate.Direction, stepLength float64) float64 {
	return -stepLength*direction.ModelLinearTerm - stepLength*stepLength*direction.ModelQuadraticTerm
}
