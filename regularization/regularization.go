// Package regularization implements the inertia-correction loop of spec §4.3: add delta
// to a matrix's diagonal tail until the linear solver reports the target inertia.
package regularization

import (
	"github.com/amontoison/Uno/internal/unoerr"
	"github.com/amontoison/Uno/linsolve"
	"github.com/amontoison/Uno/sparse"
)

// Inertia is the triple (n+, n-, n0) of positive/negative/zero eigenvalues a symmetric
// indefinite linear solver reports (glossary).
type Inertia = linsolve.Inertia

func inertiaEqual(a, b Inertia) bool {
	return a.Positive == b.Positive && a.Negative == b.Negative && a.Zero == b.Zero
}

// Factorizer is the subset of linsolve.LinearSolver the regularization loop needs: factor
// a matrix and read back its inertia (and whether the solver judged it singular).
type Factorizer interface {
	Factorize(m *sparse.SymmetricMatrix) error
	Inertia() Inertia
	IsSingular() bool
}

const beta = 1e-4

// Strategy adds delta_p to the Hessian-block diagonal and -delta_d to the dual-block
// diagonal of an augmented system until the factorizer reports the target inertia.
// Primal-only regularization (Hessian alone, no dual block) sets hessianBlockSize equal
// to the matrix dimension and skips delta_d entirely.
type Strategy struct {
	previousDeltaP float64

	// FirstIncrease, IncreaseFactor and MaxDeltaP are the Options.Regularization*
	// knobs of spec §6; New seeds them with the spec-conventional defaults.
	FirstIncrease  float64
	IncreaseFactor float64
	MaxDeltaP      float64
}

// New returns a regularization strategy with no remembered previous delta_p and the
// spec-conventional growth schedule (callers override FirstIncrease/IncreaseFactor/
// MaxDeltaP from Options).
func New() *Strategy {
	return &Strategy{
		FirstIncrease:  1e-4,
		IncreaseFactor: 8.0,
		MaxDeltaP:      1e40,
	}
}

// Regularize runs the loop of spec §4.3 against m (whose Hessian block occupies indices
// [0, hessianBlockSize) and whose dual block, if any, occupies the rest), targeting
// inertia target, using deltaD as the fixed dual regularization (0 for SQP's Hessian-only
// case, mu^kappa for the interior-point augmented system per spec §4.5 step 3).
func (s *Strategy) Regularize(op string, f Factorizer, m *sparse.SymmetricMatrix, hessianBlockSize int, target Inertia, deltaD float64) error {
	deltaP := 0.0
	if minDiag := m.MinDiagonal(); minDiag <= 0 {
		deltaP = beta - minDiag
	}

	for {
		for i := 0; i < hessianBlockSize; i++ {
			m.SetTail(i, deltaP)
		}
		for i := hessianBlockSize; i < m.Dimension; i++ {
			m.SetTail(i, -deltaD)
		}

		if err := f.Factorize(m); err != nil {
			return unoerr.Wrap(unoerr.RecoverableWithinStep, op, err)
		}

		if inertiaEqual(f.Inertia(), target) {
			s.previousDeltaP = deltaP
			return nil
		}

		if deltaD == 0 && f.IsSingular() {
			// Promote to a primal-dual regularization once the solver flags a
			// singular block, following the IPM branch of spec §4.3.
			deltaD = 1e-8
		}

		if deltaP == 0 {
			deltaP = s.FirstIncrease
		} else if s.previousDeltaP > 0 && deltaP == s.previousDeltaP {
			deltaP *= 100 // first increase after a previous success jumps harder
		} else {
			deltaP *= s.IncreaseFactor
		}

		if deltaP > s.MaxDeltaP {
			return unoerr.UnstableRegularization(op, deltaP)
		}
	}
}

// PreviousDeltaP returns the delta_p that succeeded on the previous call. Regularize
// does not start from it; it only compares delta_p with it to choose a x100 increase.
func (s *Strategy) PreviousDeltaP() float64 { return s.previousDeltaP }
