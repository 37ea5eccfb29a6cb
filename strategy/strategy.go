// Package strategy implements the GlobalizationStrategy ingredient of spec §4.6-§4.8:
// given the current and trial progress measures and a subproblem's predicted reduction,
// decide whether the trial iterate is acceptable.
package strategy

import "github.com/amontoison/Uno/iterate"

// GlobalizationStrategy is the spec §4.6 contract. Reset is called when the problem being
// judged changes: on a switch into or out of feasibility restoration, and when an
// accepted step changed the barrier parameter; IsAcceptable
// returns whether the trial progress measures justify accepting the step.
type GlobalizationStrategy interface {
	Reset()
	IsAcceptable(current, trial iterate.ProgressMeasures, predictedReduction, sigma float64) bool
}
