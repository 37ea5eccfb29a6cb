package sparse

// SymmetricMatrix is a symmetric sparse matrix in COO form storing only the upper
// triangle (row <= col), plus an appended regularization tail: a dense diagonal vector
// added on top of whatever structural diagonal entries exist. Resetting the tail never
// touches the structural entries, which is what makes inertia retries in the
// regularization loop cheap (spec §4.3, §9 "Regularization tail").
type SymmetricMatrix struct {
	Dimension int

	rows, cols []int
	vals       []float64

	tail []float64
}

// NewSymmetricMatrix returns an empty n x n symmetric matrix with room for
// capacity structural nonzeros.
func NewSymmetricMatrix(n, capacity int) *SymmetricMatrix {
	return &SymmetricMatrix{
		Dimension: n,
		rows:      make([]int, 0, capacity),
		cols:      make([]int, 0, capacity),
		vals:      make([]float64, 0, capacity),
		tail:      make([]float64, n),
	}
}

// ResetStructure empties the structural (non-tail) entries, keeping the tail untouched,
// so a fresh assembly pass can append this iteration's Hessian/Jacobian blocks.
func (m *SymmetricMatrix) ResetStructure() {
	m.rows = m.rows[:0]
	m.cols = m.cols[:0]
	m.vals = m.vals[:0]
}

// ResetTail zeros the regularization tail without touching the structural entries.
func (m *SymmetricMatrix) ResetTail() {
	for i := range m.tail {
		m.tail[i] = 0
	}
}

// AddEntry appends a structural entry M[row][col] += value. Callers must pass row <= col;
// the lower triangle is implied by symmetry.
func (m *SymmetricMatrix) AddEntry(row, col int, value float64) {
	m.rows = append(m.rows, row)
	m.cols = append(m.cols, col)
	m.vals = append(m.vals, value)
}

// SetTail overwrites the regularization tail entry at index i.
func (m *SymmetricMatrix) SetTail(i int, value float64) { m.tail[i] = value }

// AddTail accumulates value into the regularization tail entry at index i.
func (m *SymmetricMatrix) AddTail(i int, value float64) { m.tail[i] += value }

// Tail returns the regularization tail entry at index i.
func (m *SymmetricMatrix) Tail(i int) float64 { return m.tail[i] }

// NumNonzeros returns the number of structural entries (the tail is dense and not
// counted: it exists for every index regardless of whether it is currently zero).
func (m *SymmetricMatrix) NumNonzeros() int { return len(m.vals) }

// Each calls fn(row, col, value) for every structural entry.
func (m *SymmetricMatrix) Each(fn func(row, col int, value float64)) {
	for i := range m.vals {
		fn(m.rows[i], m.cols[i], m.vals[i])
	}
}

// ToDense materializes the matrix (structural entries plus tail) into a preallocated
// Dimension x Dimension dense array, symmetrizing the stored upper triangle. Intended for
// the default dense LinearSolver backend; sparse backends should walk Each and Tail
// directly instead of densifying.
func (m *SymmetricMatrix) ToDense(out [][]float64) {
	for i := 0; i < m.Dimension; i++ {
		for j := 0; j < m.Dimension; j++ {
			out[i][j] = 0
		}
	}
	for i := range m.vals {
		r, c, v := m.rows[i], m.cols[i], m.vals[i]
		out[r][c] += v
		if r != c {
			out[c][r] += v
		}
	}
	for i := 0; i < m.Dimension; i++ {
		out[i][i] += m.tail[i]
	}
}

// MinDiagonal returns the smallest value currently on the structural diagonal (tail
// excluded), used by the regularization strategy to pick the initial delta_p (spec §4.3).
func (m *SymmetricMatrix) MinDiagonal() float64 {
	seen := make(map[int]float64, m.Dimension)
	for i := range m.vals {
		if m.rows[i] == m.cols[i] {
			seen[m.rows[i]] += m.vals[i]
		}
	}
	min := 0.0
	first := true
	for i := 0; i < m.Dimension; i++ {
		d := seen[i]
		if first || d < min {
			min = d
			first = false
		}
	}
	return min
}
