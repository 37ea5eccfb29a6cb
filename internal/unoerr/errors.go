// Package unoerr defines the typed error taxonomy that crosses every core package
// boundary, per the error handling design: callers branch on Kind, humans read Error().
package unoerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind buckets an error by how far it propagates before something must act on it.
type Kind int

const (
	// RecoverableWithinStep can be handled by retrying the same call with adjusted
	// inputs (grow a workspace, bump regularization) without unwinding the stack.
	RecoverableWithinStep Kind = iota
	// RecoverableAcrossSteps requires the caller's outer loop to back off (shrink a
	// trust region, reduce a step length, switch to restoration) and try again.
	RecoverableAcrossSteps
	// FatalForCall aborts the current optimize() call; the best iterate so far is
	// still returned with status NOT_OPTIMAL.
	FatalForCall
	// FatalForAPI means the call never had a chance: bad configuration or a problem
	// that violates the contract (infinities where finite values are required).
	FatalForAPI
)

func (k Kind) String() string {
	switch k {
	case RecoverableWithinStep:
		return "recoverable-within-step"
	case RecoverableAcrossSteps:
		return "recoverable-across-steps"
	case FatalForCall:
		return "fatal-for-call"
	case FatalForAPI:
		return "fatal-for-api"
	default:
		return "unknown"
	}
}

// Error is the typed error every ingredient returns across a package boundary.
type Error struct {
	Kind Kind
	Op   string // component/operation that raised it, e.g. "regularization.Primal"
	err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.err)
}

func (e *Error) Unwrap() error { return e.err }

// New builds a typed error wrapping msg with a stack trace.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, err: errors.New(msg)}
}

// Wrap attaches a typed kind and operation to an existing error, preserving its stack
// trace / cause chain via errors.Wrap. Returns nil if err is nil.
func Wrap(kind Kind, op string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, err: errors.Wrap(err, op)}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// UnstableRegularization is raised when the primal regularization factor exceeds the
// threshold in the regularization loop (spec §4.3); always FatalForCall.
func UnstableRegularization(op string, deltaP float64) *Error {
	return New(FatalForCall, op, fmt.Sprintf("regularization unstable: delta_p=%g exceeds threshold", deltaP))
}
