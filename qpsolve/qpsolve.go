// Package qpsolve implements the QPSolver contract: given a quadratic model of the
// Lagrangian (Hessian, gradient) and linearized constraint/bound data, return a step
// direction and the multipliers of the linearized problem.
//
// The default backend, ActiveSet, splits the linearized constraints into equality rows and
// one-sided inequality rows (general constraints plus variable bounds) and hands them to
// solveBoxedQP (ipm.go): a direct KKT solve when no inequality row is present, otherwise a
// primal-dual interior-point Newton iteration with a fraction-to-boundary rule on the
// inequality slacks and multipliers — the same family of method the core's own barrier
// subproblem uses (spec §4.5), applied here to the QP's linear-quadratic KKT system.
package qpsolve

import "math"

// Bounds is a pair of finite-or-infinite lower/upper limits; Inf marks "no bound" the way
// model.Inf does.
type Bounds struct {
	Lower, Upper float64
}

// WarmstartInformation tells a QP solver which parts of the QP changed since the previous
// solve. It carries no active-set guess; ActiveSet ignores it.
type WarmstartInformation struct {
	ObjectiveChanged   bool
	ConstraintsChanged bool
	VariableBoundsChanged bool
	ConstraintBoundsChanged bool
}

// Result is the outcome of a QP solve: the primal step, the multipliers of the linearized
// general constraints followed by the multipliers of the linearized bound constraints, and
// whether a solution was found.
type Result struct {
	Direction       []float64
	ConstraintDuals []float64 // length m
	LowerBoundDuals []float64 // length n
	UpperBoundDuals []float64 // length n
	Feasible        bool
	Unbounded       bool
}

// QPSolver solves 𝚖𝚒𝚗 ½dᵀHd + gᵀd subject to variable bounds and linearized constraints
// cons_lb ≤ J*d + c(x) ≤ cons_ub, matching the subproblem interface used by the SQP and
// interior-point inequality-handling strategies.
type QPSolver interface {
	// SolveQP solves the QP given the Hessian H (dense, symmetric, n x n), gradient g,
	// Jacobian rows J (m x n, row-major), constraint values at the current iterate
	// (so the linearization is c(x) + J*d), and bounds on both variables and the
	// linearized constraint values. Variable bounds are absolute; x0 is the current
	// point, subtracted from them to get bounds on d. warmstart signals what changed
	// since the previous call.
	SolveQP(n, m int, H [][]float64, g []float64, J [][]float64, consValue []float64,
		varBounds []Bounds, consBounds []Bounds, x0 []float64, warmstart WarmstartInformation) Result
}

const infBound = 1e20

func finiteBound(b float64) bool { return !math.IsInf(b, 0) && math.Abs(b) < infBound }
