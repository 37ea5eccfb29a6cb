// Package sparse holds the two sparse containers the core shares across ingredients: an
// insertion-ordered sparse vector (used for objective gradients) and a symmetric COO
// matrix with an appended regularization tail (used for Hessians and augmented systems).
package sparse

// Gradient is a sparse vector stored as index -> value with insertion-order iteration,
// the representation spec §3 requires for objective gradients so that downstream code
// (Lagrangian-gradient assembly, dot products against a dense direction) can walk only
// the nonzeros in a deterministic order.
type Gradient struct {
	index []int
	value []float64
	pos   map[int]int // index -> position in index/value, for Set-after-Set updates
}

// NewGradient returns an empty sparse gradient with room for capacity nonzeros.
func NewGradient(capacity int) *Gradient {
	return &Gradient{
		index: make([]int, 0, capacity),
		value: make([]float64, 0, capacity),
		pos:   make(map[int]int, capacity),
	}
}

// Reset empties the gradient without releasing its backing storage.
func (g *Gradient) Reset() {
	g.index = g.index[:0]
	g.value = g.value[:0]
	for k := range g.pos {
		delete(g.pos, k)
	}
}

// Set records value at index, appending if index has not been seen since the last Reset,
// overwriting in place otherwise (insertion order is preserved on overwrite).
func (g *Gradient) Set(index int, value float64) {
	if p, ok := g.pos[index]; ok {
		g.value[p] = value
		return
	}
	g.pos[index] = len(g.index)
	g.index = append(g.index, index)
	g.value = append(g.value, value)
}

// Add accumulates value into index, treating an absent index as zero.
func (g *Gradient) Add(index int, value float64) {
	if p, ok := g.pos[index]; ok {
		g.value[p] += value
		return
	}
	g.Set(index, value)
}

// NumNonzeros returns the number of stored entries.
func (g *Gradient) NumNonzeros() int { return len(g.index) }

// Each calls fn(index, value) for every stored entry in insertion order.
func (g *Gradient) Each(fn func(index int, value float64)) {
	for i, idx := range g.index {
		fn(idx, g.value[i])
	}
}

// At returns the value stored at index, or 0 if absent.
func (g *Gradient) At(index int) float64 {
	if p, ok := g.pos[index]; ok {
		return g.value[p]
	}
	return 0
}

// DotDense returns the dot product of the sparse gradient with a dense vector d.
func (g *Gradient) DotDense(d []float64) float64 {
	var sum float64
	for i, idx := range g.index {
		sum += g.value[i] * d[idx]
	}
	return sum
}

// ToDense writes the gradient into a preallocated dense vector of the given dimension,
// zeroing entries not present in the sparse representation.
func (g *Gradient) ToDense(out []float64) {
	for i := range out {
		out[i] = 0
	}
	for i, idx := range g.index {
		out[idx] = g.value[i]
	}
}
