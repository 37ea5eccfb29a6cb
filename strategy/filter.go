package strategy

import (
	"math"

	"github.com/amontoison/Uno/iterate"
)

// filterEntry is one (infeasibility, objective) pair a later trial must beat (within the
// beta/gamma envelope below) to be acceptable.
type filterEntry struct {
	infeasibility float64
	objective     float64
}

// envelopeAccept implements the spec §4.6 acceptability test of a trial pair (h', phi')
// against a reference pair (h, phi) — a stored filter entry or the current iterate: the
// trial must simultaneously keep infeasibility within beta*h of the reference and keep
// the objective measure below phi margined by gamma*h'.
func envelopeAccept(hPrime, phiPrime, h, phi, beta, gamma float64) bool {
	return hPrime <= beta*h && phiPrime <= phi-gamma*hPrime
}

// switchingConditionHolds reports whether a step's predicted reduction in the objective
// measure dominates the current infeasibility enough to try the pure-objective Armijo
// test instead of the filter (spec §4.6, Waechter & Biegler section 2.3) — shared between
// FletcherFilter and WaechterFilter so the two don't each carry their own copy.
func switchingConditionHolds(predictedReduction, currentInfeasibility, delta, sTheta, sPhi float64) bool {
	if predictedReduction <= 0 {
		return false
	}
	lhs := math.Pow(predictedReduction, sPhi)
	rhs := delta * math.Pow(currentInfeasibility, sTheta)
	return lhs > rhs
}

// FletcherFilter is the classical two-dimensional (infeasibility, objective) filter of
// Fletcher & Leyffer (spec §4.6). A trial is acceptable only if it clears the beta/gamma
// envelope against every stored entry and against the current iterate; when it also
// clears the switching condition, acceptance instead hinges on a plain Armijo test on the
// objective measure (f-type, nothing added to the filter) rather than on the envelope
// (h-type, which adds the current pair to the filter).
type FletcherFilter struct {
	entries []filterEntry
	maxSize int

	beta  float64 // envelope margin on infeasibility
	gamma float64 // envelope margin on the objective measure

	delta  float64 // switching-condition coefficient
	sTheta float64 // exponent on infeasibility in the switching condition
	sPhi   float64 // exponent on predicted reduction in the switching condition
	eta    float64 // Armijo sufficient-decrease constant
}

// NewFletcherFilter returns a filter with the usual Fletcher & Leyffer / IPOPT defaults.
func NewFletcherFilter() *FletcherFilter {
	return &FletcherFilter{
		maxSize: 100,
		beta:    0.999,
		gamma:   1e-5,
		delta:   1.0,
		sTheta:  1.1,
		sPhi:    2.3,
		eta:     1e-4,
	}
}

func (f *FletcherFilter) Reset() { f.entries = f.entries[:0] }

// IsAcceptable implements the spec §4.6 Fletcher algorithm, per trial:
//  1. If sigma == 0 (solving the feasibility problem), accept iff Armijo holds on
//     infeasibility.
//  2. Else if the filter rejects (h', phi'), reject.
//  3. Else if the current iterate rejects it, reject.
//  4. Else if the switching condition holds, accept iff Armijo holds on the objective
//     measure (f-type step); nothing is added to the filter.
//  5. Else accept unconditionally (h-type step) and add the *current* pair to the filter.
func (f *FletcherFilter) IsAcceptable(current, trial iterate.ProgressMeasures, predictedReduction, sigma float64) bool {
	currentH, currentPhi := current.Infeasibility, current.Objective(sigma)
	trialH, trialPhi := trial.Infeasibility, trial.Objective(sigma)

	if sigma == 0 {
		return trialH <= currentH-f.eta*predictedReduction
	}
	if !f.acceptableAgainstFilter(trialH, trialPhi) {
		return false
	}
	if !envelopeAccept(trialH, trialPhi, currentH, currentPhi, f.beta, f.gamma) {
		return false
	}
	if switchingConditionHolds(predictedReduction, currentH, f.delta, f.sTheta, f.sPhi) {
		return trialPhi <= currentPhi-f.eta*predictedReduction
	}
	f.add(currentH, currentPhi)
	return true
}

// acceptableAgainstFilter reports whether (h, phi) clears the envelope test against every
// stored entry.
func (f *FletcherFilter) acceptableAgainstFilter(h, phi float64) bool {
	for _, e := range f.entries {
		if !envelopeAccept(h, phi, e.infeasibility, e.objective, f.beta, f.gamma) {
			return false
		}
	}
	return true
}

// add inserts (h, phi) into the filter (spec §4.6 filter maintenance): every stored entry
// that (h, phi) dominates — i.e. every stored entry at least as bad on both measures — is
// dropped first, the new pair is appended, then the entry with the largest stored
// infeasibility is evicted if the filter now exceeds maxSize. This keeps the filter an
// antichain under componentwise <= (spec §8).
func (f *FletcherFilter) add(h, phi float64) {
	kept := f.entries[:0]
	for _, e := range f.entries {
		if e.infeasibility >= h && e.objective >= phi {
			continue
		}
		kept = append(kept, e)
	}
	f.entries = append(kept, filterEntry{infeasibility: h, objective: phi})

	for f.maxSize > 0 && len(f.entries) > f.maxSize {
		worst := 0
		for i, e := range f.entries {
			if e.infeasibility > f.entries[worst].infeasibility {
				worst = i
			}
		}
		f.entries = append(f.entries[:worst], f.entries[worst+1:]...)
	}
}

// WaechterFilter is the filter line-search of Waechter & Biegler (the IPOPT filter): it
// reuses FletcherFilter's filter/switching/Armijo test unchanged (spec §4.6's "Waechter
// variant layers an outer second-order correction and a restoration trigger" on top of
// the same base algorithm) and adds a second-order correction retry for a trial point
// whose linearized model predicted descent but whose constraint curvature pushed it away
// from feasibility (spec C).
type WaechterFilter struct {
	inner *FletcherFilter
}

// NewWaechterFilter returns a filter with IPOPT's published default constants.
func NewWaechterFilter() *WaechterFilter {
	return &WaechterFilter{inner: NewFletcherFilter()}
}

func (f *WaechterFilter) Reset() { f.inner.Reset() }

func (f *WaechterFilter) IsAcceptable(current, trial iterate.ProgressMeasures, predictedReduction, sigma float64) bool {
	return f.inner.IsAcceptable(current, trial, predictedReduction, sigma)
}

// SecondOrderCorrection retries the acceptance test against a corrected trial whose
// infeasibility was reduced by restoring feasibility along the constraint curvature
// (spec C), with predictedReduction pinned at 0 so the switching condition cannot fire —
// the correction targets infeasibility, not the model's predicted objective decrease.
func (f *WaechterFilter) SecondOrderCorrection(current, corrected iterate.ProgressMeasures, sigma float64) bool {
	return f.inner.IsAcceptable(current, corrected, 0, sigma)
}
