package subproblem

import (
	"github.com/amontoison/Uno/hessian"
	"github.com/amontoison/Uno/iterate"
	"github.com/amontoison/Uno/model"
	"github.com/amontoison/Uno/problem"
	"github.com/amontoison/Uno/qpsolve"
	"github.com/amontoison/Uno/sparse"
)

// SQP is the trust-region/line-search SQP inequality-handling method of spec §4.4: at
// each iterate it linearizes the constraints, builds the Lagrangian Hessian model and
// solves the resulting QP (bounded to the current trust region) for a step.
type SQP struct {
	solver qpsolve.QPSolver

	hessianMatrix *sparse.SymmetricMatrix
	objGrad       *sparse.Gradient
	jacobian      []*sparse.Gradient
}

// NewSQP returns an SQP method using the given QP backend (NewActiveSet() if nil).
func NewSQP(solver qpsolve.QPSolver) *SQP {
	if solver == nil {
		solver = qpsolve.NewActiveSet()
	}
	return &SQP{solver: solver}
}

func (s *SQP) GenerateInitialIterate(p problem.OptimizationProblem, x0 []float64) *iterate.Iterate {
	return iterate.NewIterate(x0, p.NumberVariables(), p.NumberConstraints())
}

func (s *SQP) ComputeDirection(p problem.OptimizationProblem, it *iterate.Iterate, hess hessian.Model, trustRegionRadius float64) *iterate.Direction {
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

	if s.hessianMatrix == nil || s.hessianMatrix.Dimension != n {
		s.hessianMatrix = sparse.NewSymmetricMatrix(n, hess.NumberNonzeros(p))
	}
	hess.Evaluate(p, it.Primals, it.ObjectiveMultiplier, it.Multipliers.Constraints, s.hessianMatrix)

	H := make([][]float64, n)
	for i := range H {
		H[i] = make([]float64, n)
	}
	s.hessianMatrix.ToDense(H)

	g := make([]float64, n)
	ev.ObjectiveGradient.ToDense(g)
	for i := range g {
		g[i] *= it.ObjectiveMultiplier
	}

	J := make([][]float64, m)
	for j := 0; j < m; j++ {
		J[j] = make([]float64, n)
		ev.ConstraintJacobian[j].ToDense(J[j])
	}

	varBounds := make([]qpsolve.Bounds, n)
	for i := 0; i < n; i++ {
		lo, up := p.VariableLowerBound(i), p.VariableUpperBound(i)
		varBounds[i] = qpsolve.Bounds{
			Lower: clampToRadius(lo-it.Primals[i], -trustRegionRadius) + it.Primals[i],
			Upper: clampToRadius(up-it.Primals[i], trustRegionRadius) + it.Primals[i],
		}
		if !model.IsFiniteLower(lo) {
			varBounds[i].Lower = it.Primals[i] - trustRegionRadius
		}
		if !model.IsFiniteUpper(up) {
			varBounds[i].Upper = it.Primals[i] + trustRegionRadius
		}
	}

	consBounds := make([]qpsolve.Bounds, m)
	for j := 0; j < m; j++ {
		consBounds[j] = qpsolve.Bounds{Lower: p.ConstraintLowerBound(j), Upper: p.ConstraintUpperBound(j)}
	}

	result := s.solver.SolveQP(n, m, H, g, J, ev.Constraints, varBounds, consBounds, it.Primals, qpsolve.WarmstartInformation{})

	d := iterate.NewDirection(n, m)
	copy(d.Primals, result.Direction)
	copy(d.Multipliers.Constraints, result.ConstraintDuals)
	for i := 0; i < n; i++ {
		// Duals of trust-region rows are not multipliers of the model's bounds.
		lo, up := p.VariableLowerBound(i), p.VariableUpperBound(i)
		if model.IsFiniteLower(lo) && lo-it.Primals[i] >= -trustRegionRadius {
			d.Multipliers.LowerBounds[i] = result.LowerBoundDuals[i]
		}
		if model.IsFiniteUpper(up) && up-it.Primals[i] <= trustRegionRadius {
			d.Multipliers.UpperBounds[i] = -result.UpperBoundDuals[i]
		}
	}
	// Direction multipliers are displacements from the current iterate (spec §8).
	for j := 0; j < m; j++ {
		d.Multipliers.Constraints[j] -= it.Multipliers.Constraints[j]
	}
	for i := 0; i < n; i++ {
		d.Multipliers.LowerBounds[i] -= it.Multipliers.LowerBounds[i]
		d.Multipliers.UpperBounds[i] -= it.Multipliers.UpperBounds[i]
	}
	d.ComputeNorm()
	if !result.Feasible {
		d.Status = iterate.Infeasible
	} else {
		d.Status = iterate.Optimal
	}
	d.ModelLinearTerm, d.ModelQuadraticTerm = quadraticModel(H, g, d.Primals)
	d.SubproblemObjective = d.ModelLinearTerm + d.ModelQuadraticTerm
	return d
}

// PredictedReduction rescales the linear and quadratic model terms separately to the
// requested step length (-alpha*g.d - alpha^2/2 d^T H d, spec §4.4): at alpha=1 this is
// -direction.SubproblemObjective, but at alpha != 1 the quadratic term does not scale
// linearly with the step.
func (s *SQP) PredictedReduction(direction *iterate.Direction, stepLength float64) float64 {
	return -stepLength*direction.ModelLinearTerm - stepLength*stepLength*direction.ModelQuadraticTerm
}

func quadraticModel(H [][]float64, g, d []float64) (linear, quadratic float64) {
	n := len(d)
	for i := 0; i < n; i++ {
		linear += g[i] * d[i]
		row := 0.0
		for j := 0; j < n; j++ {
			row += H[i][j] * d[j]
		}
		quadratic += 0.5 * d[i] * row
	}
	return linear, quadratic
}

func clampToRadius(v, radius float64) float64 {
	if radius < 0 {
		if v < radius {
			return radius
		}
		return v
	}
	if v > radius {
		return radius
	}
	return v
}
