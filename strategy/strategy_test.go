package strategy

import (
	"testing"

	"github.com/amontoison/Uno/iterate"
	"github.com/stretchr/testify/assert"
)

func progress(infeasibility, objective float64) iterate.ProgressMeasures {
	return iterate.NewProgressMeasures(infeasibility, objective, 0)
}

func TestFletcherFilterAcceptsImprovingTrial(t *testing.T) {
	f := NewFletcherFilter()
	current := progress(1, 10)
	better := progress(0.1, 5)
	assert.True(t, f.IsAcceptable(current, better, 1, 1))
}

func TestFletcherFilterRejectsDominatedPoint(t *testing.T) {
	f := NewFletcherFilter()
	current := progress(0.1, 2)
	worse := progress(0.5, 6)
	assert.False(t, f.IsAcceptable(current, worse, 1, 1))
}

// TestFletcherFilterAcceptanceScenario replays spec §8 scenario 6: starting from
// filter = {(1.0, 5.0)} and current (h,phi) = (0.5, 3.0) with beta=1.0, gamma=0.1, the
// four trials are rejected/accepted in order, with the second trial's acceptance adding
// the current pair to the filter before the third and fourth trials are tested.
func TestFletcherFilterAcceptanceScenario(t *testing.T) {
	f := NewFletcherFilter()
	f.beta = 1.0
	f.gamma = 0.1
	f.entries = []filterEntry{{infeasibility: 1.0, objective: 5.0}}

	current := progress(0.5, 3.0)

	assert.False(t, f.IsAcceptable(current, progress(0.6, 2.0), 0, 1))
	assert.True(t, f.IsAcceptable(current, progress(0.4, 2.9), 0, 1))
	assert.False(t, f.IsAcceptable(current, progress(0.49, 3.1), 0, 1))
	assert.False(t, f.IsAcceptable(current, progress(0.9, 4.0), 0, 1))
}

func TestFletcherFilterAddEvictsDominatedEntriesAndCapsSize(t *testing.T) {
	f := NewFletcherFilter()
	f.maxSize = 2

	f.add(1.0, 10.0)
	f.add(0.5, 12.0) // does not dominate (1.0, 10.0): worse objective.
	assert.Len(t, f.entries, 2)

	f.add(0.4, 5.0) // dominates both existing entries: h and phi both lower.
	assert.Len(t, f.entries, 1)
	assert.Equal(t, filterEntry{infeasibility: 0.4, objective: 5.0}, f.entries[0])

	f.add(2.0, 1.0)
	f.add(3.0, 0.5)
	assert.LessOrEqual(t, len(f.entries), f.maxSize)
	for _, e := range f.entries {
		assert.NotEqual(t, 3.0, e.infeasibility, "largest-infeasibility entry should have been evicted")
	}
}

func TestFunnelShrinksOnFeasibilityStep(t *testing.T) {
	f := NewFunnel()
	f.InitializeFrom(1)
	current := progress(1, 10)
	trial := progress(0.05, 10)
	assert.True(t, f.IsAcceptable(current, trial, 1, 1))
	assert.Less(t, f.upperBound, 1e4)
}

func TestL1MeritRequiresSufficientDecrease(t *testing.T) {
	m := NewL1Merit()
	current := progress(0, 10)
	trial := progress(0, 9.9999999)
	assert.False(t, m.IsAcceptable(current, trial, 1, 1))

	trial2 := progress(0, 8)
	assert.True(t, m.IsAcceptable(current, trial2, 1, 1))
}
