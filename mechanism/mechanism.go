// Package mechanism implements the GlobalizationMechanism ingredient of spec §4.10: drive
// repeated subproblem solves (growing/shrinking a trust region, or backtracking a step
// length) until the globalization strategy accepts a trial iterate or the mechanism gives
// up.
package mechanism

import (
	"github.com/amontoison/Uno/hessian"
	"github.com/amontoison/Uno/iterate"
	"github.com/amontoison/Uno/problem"
	"github.com/amontoison/Uno/strategy"
	"github.com/amontoison/Uno/subproblem"
)

// Outcome reports what a mechanism's Run call produced.
type Outcome struct {
	Accepted  bool
	Trial     *iterate.Iterate
	Direction *iterate.Direction
	Iterations int
}

// EvaluateProgress computes the progress measures of an iterate against a problem. The
// objective measure stays a function of sigma; the strategy picks sigma when it compares.
type EvaluateProgress func(p problem.OptimizationProblem, it *iterate.Iterate) iterate.ProgressMeasures

// GlobalizationMechanism is the spec §4.10 contract: given the current iterate and the
// ingredients needed to produce and judge trial points, drive the inner loop to
// acceptance or exhaustion.
type GlobalizationMechanism interface {
	Run(p problem.OptimizationProblem, method subproblem.InequalityHandlingMethod, hess hessian.Model,
		strat strategy.GlobalizationStrategy, current *iterate.Iterate, evaluate EvaluateProgress) Outcome
}
