package regularization

import (
	"testing"

	"github.com/amontoison/Uno/internal/unoerr"
	"github.com/amontoison/Uno/sparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFactorizer reports the target inertia once the caller's delta_p has reached
// wantDeltaP, and singular while delta_p is still 0, without touching m.
type fakeFactorizer struct {
	wantDeltaP float64
	lastDeltaP float64
	target     Inertia
	calls      int
}

func (f *fakeFactorizer) Factorize(m *sparse.SymmetricMatrix) error {
	f.calls++
	f.lastDeltaP = m.Tail(0)
	return nil
}

func (f *fakeFactorizer) Inertia() Inertia {
	if f.lastDeltaP >= f.wantDeltaP {
		return f.target
	}
	return Inertia{Positive: 0, Negative: f.target.Positive, Zero: f.target.Negative}
}

func (f *fakeFactorizer) IsSingular() bool { return f.lastDeltaP == 0 }

func TestRegularizeGrowsDeltaPByFirstIncreaseThenFactor(t *testing.T) {
	s := New()
	s.FirstIncrease = 1e-3
	s.IncreaseFactor = 10
	s.MaxDeltaP = 1

	target := Inertia{Positive: 2, Negative: 0, Zero: 0}
	// Probe at delta_p=0, then grows 1e-3, 1e-2, 1e-1 to reach >= wantDeltaP.
	f := &fakeFactorizer{wantDeltaP: 0.1, target: target}

	m := sparse.NewSymmetricMatrix(2, 0)
	m.AddEntry(0, 0, 1)
	m.AddEntry(1, 1, 1)

	err := s.Regularize("test", f, m, 2, target, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, s.PreviousDeltaP(), 1e-12)
	assert.Equal(t, 4, f.calls)
}

func TestRegularizeFailsWhenDeltaPExceedsMax(t *testing.T) {
	s := New()
	s.FirstIncrease = 1
	s.IncreaseFactor = 10
	s.MaxDeltaP = 5

	target := Inertia{Positive: 2, Negative: 0, Zero: 0}
	f := &fakeFactorizer{wantDeltaP: 1e9, target: target}

	m := sparse.NewSymmetricMatrix(2, 0)
	m.AddEntry(0, 0, 1)
	m.AddEntry(1, 1, 1)

	err := s.Regularize("test", f, m, 2, target, 0)
	require.Error(t, err)
	assert.True(t, unoerr.Is(err, unoerr.FatalForCall))
}
