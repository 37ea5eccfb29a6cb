package mechanism

import (
	"math"

	"github.com/amontoison/Uno/hessian"
	"github.com/amontoison/Uno/internal/blas"
	"github.com/amontoison/Uno/iterate"
	"github.com/amontoison/Uno/problem"
	"github.com/amontoison/Uno/strategy"
	"github.com/amontoison/Uno/subproblem"
)

// LineSearch backtracks the step length along a single subproblem-computed direction
// until the globalization strategy accepts the trial point, using the sufficient-decrease
// backtracking factor the teacher's box-constrained line search applies (spec §4.10).
type LineSearch struct {
	BacktrackFactor float64
	MinStepLength   float64
	MaxIterations   int
}

// NewLineSearch returns a backtracking line search with the teacher's default shrink
// factor (lbfgsb/linesearch.go's searchBeta).
func NewLineSearch() *LineSearch {
	return &LineSearch{BacktrackFactor: 0.9, MinStepLength: 1e-12, MaxIterations: 60}
}

func (ls *LineSearch) Run(p problem.OptimizationProblem, method subproblem.InequalityHandlingMethod, hess hessian.Model,
	strat strategy.GlobalizationStrategy, current *iterate.Iterate, evaluate EvaluateProgress) Outcome {

	n := p.NumberVariables()
	currentProgress := evaluate(p, current)

	direction := method.ComputeDirection(p, current, hess, 1e10) // line search: no trust region
	if direction.Status != iterate.Optimal {
		return Outcome{Accepted: false}
	}

	alpha := direction.PrimalDualStepLength
	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}

	for k := 0; k < ls.MaxIterations; k++ {
		if alpha < ls.MinStepLength {
			return Outcome{Accepted: false, Direction: direction, Iterations: k}
		}

		trial := current.Clone()
		trialPrimals := make([]float64, n)
		for i := range trialPrimals {
			trialPrimals[i] = current.Primals[i] + alpha*direction.Primals[i]
		}
		trial.SetPrimals(trialPrimals)
		for j := range trial.Multipliers.Constraints {
			trial.Multipliers.Constraints[j] = current.Multipliers.Constraints[j] + alpha*direction.Multipliers.Constraints[j]
		}
		boundAlpha := alpha
		if direction.BoundDualStepLength > 0 && direction.BoundDualStepLength < 1 {
			boundAlpha = alpha * direction.BoundDualStepLength
		}
		for i := range trial.Multipliers.LowerBounds {
			trial.Multipliers.LowerBounds[i] = current.Multipliers.LowerBounds[i] + boundAlpha*direction.Multipliers.LowerBounds[i]
			trial.Multipliers.UpperBounds[i] = current.Multipliers.UpperBounds[i] + boundAlpha*direction.Multipliers.UpperBounds[i]
		}

		predictedReduction := method.PredictedReduction(direction, alpha)
		trialProgress := evaluate(p, trial)

		if predictedReduction > 0 && strat.IsAcceptable(currentProgress, trialProgress, predictedReduction, current.ObjectiveMultiplier) {
			if direction.BarrierParameterChanged {
				strat.Reset()
			}
			return Outcome{Accepted: true, Trial: trial, Direction: direction, Iterations: k + 1}
		}
		if direction.SmallStep {
			return Outcome{Accepted: true, Trial: trial, Direction: direction, Iterations: k + 1}
		}

		// Waechter's outer second-order correction (spec C): on the first rejected trial,
		// retry with a correction that restores feasibility along the constraint curvature
		// using the Jacobian already evaluated at current, rather than immediately
		// shrinking alpha.
		if wf, ok := strat.(*strategy.WaechterFilter); ok && k == 0 {
			if rho := secondOrderCorrection(p, current, trial); rho != nil {
				corrected := trial.Clone()
				correctedPrimals := make([]float64, n)
				for i := range correctedPrimals {
					correctedPrimals[i] = trial.Primals[i] + rho[i]
				}
				corrected.SetPrimals(correctedPrimals)
				correctedProgress := evaluate(p, corrected)
				if wf.SecondOrderCorrection(currentProgress, correctedProgress, current.ObjectiveMultiplier) {
					return Outcome{Accepted: true, Trial: corrected, Direction: direction, Iterations: k + 1}
				}
			}
		}

		alpha *= ls.BacktrackFactor
	}
	return Outcome{Accepted: false, Direction: direction, Iterations: ls.MaxIterations}
}

// secondOrderCorrection computes the minimum-norm primal correction rho solving
// J(current)*rho = -c(trial) (spec C), using the constraint Jacobian already evaluated at
// current rather than re-evaluating it at trial, and returns nil if there are no
// constraints or the small normal-equation solve is singular.
func secondOrderCorrection(p problem.OptimizationProblem, current, trial *iterate.Iterate) []float64 {
	n, m := p.NumberVariables(), p.NumberConstraints()
	if m == 0 {
		return nil
	}

	J := make([][]float64, m)
	for j := 0; j < m; j++ {
		J[j] = make([]float64, n)
		current.Evaluations.ConstraintJacobian[j].ToDense(J[j])
	}
	cTrial := make([]float64, m)
	p.EvaluateConstraints(trial.Primals, cTrial)

	jjt := make([][]float64, m)
	for i := 0; i < m; i++ {
		jjt[i] = make([]float64, m)
		for j := 0; j < m; j++ {
			jjt[i][j] = blas.Dot(n, J[i], J[j])
		}
	}
	rhs := make([]float64, m)
	for i := range rhs {
		rhs[i] = -cTrial[i]
	}

	w := make([]float64, m)
	if !solveSmallSystem(jjt, rhs, w) {
		return nil
	}

	rho := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			rho[i] += J[j][i] * w[j]
		}
	}
	return rho
}

// solveSmallSystem solves a*x = b via Gaussian elimination with partial pivoting,
// appropriate for the small (number of constraints)-sized systems the second-order
// correction needs; it does not try to share linsolve's sparse machinery since this
// system is a transient dense normal-equation solve, not a reusable KKT factorization.
func solveSmallSystem(a [][]float64, b, x []float64) bool {
	n := len(b)
	aug := make([][]float64, n)
	for i := range aug {
		aug[i] = append(append([]float64(nil), a[i]...), b[i])
	}
	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(aug[row][col]) > math.Abs(aug[pivot][col]) {
				pivot = row
			}
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]
		if math.Abs(aug[col][col]) < 1e-14 {
			return false
		}
		for row := col + 1; row < n; row++ {
			factor := aug[row][col] / aug[col][col]
			for k := col; k <= n; k++ {
				aug[row][k] -= factor * aug[col][k]
			}
		}
	}
	for row := n - 1; row >= 0; row-- {
		sum := aug[row][n]
		for col := row + 1; col < n; col++ {
			sum -= aug[row][col] * x[col]
		}
		x[row] = sum / aug[row][row]
	}
	return true
}
