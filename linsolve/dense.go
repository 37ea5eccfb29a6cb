package linsolve

import (
	"math"

	"github.com/amontoison/Uno/sparse"
)

// zeroTolerance below which an eigenvalue is counted as part of the zero-inertia bucket.
const zeroTolerance = 1e-10

// DenseIndefiniteSolver is the default, in-process LinearSolver backend: it densifies the
// (small/medium) augmented system, reports inertia via a cyclic Jacobi eigenvalue sweep
// (the matrix is symmetric by construction), and solves via Gaussian elimination with
// partial pivoting. It exists so the core runs standalone; production deployments plug in
// an MA27/MA57/MUMPS-style wrapper behind the same interface (spec §9).
type DenseIndefiniteSolver struct {
	n        int
	dense    [][]float64
	inertia  Inertia
	singular bool
}

// NewDenseIndefiniteSolver returns an uninitialized solver; call InitializeMemory first.
func NewDenseIndefiniteSolver() *DenseIndefiniteSolver { return &DenseIndefiniteSolver{} }

func (s *DenseIndefiniteSolver) InitializeMemory(n, m, nnz, regularizationSize int) error {
	s.n = n
	s.dense = make([][]float64, n)
	for i := range s.dense {
		s.dense[i] = make([]float64, n)
	}
	return nil
}

func (s *DenseIndefiniteSolver) DoSymbolicAnalysis(matrix *sparse.SymmetricMatrix) error {
	// The dense backend has no sparsity pattern to analyze; nothing to precompute.
	return nil
}

func (s *DenseIndefiniteSolver) DoNumericalFactorization(matrix *sparse.SymmetricMatrix) error {
	if matrix.Dimension != s.n {
		if err := s.InitializeMemory(matrix.Dimension, 0, 0, 0); err != nil {
			return err
		}
	}
	matrix.ToDense(s.dense)
	eigenvalues := jacobiEigenvalues(s.dense, s.n)
	var pos, neg, zero int
	for _, lambda := range eigenvalues {
		switch {
		case lambda > zeroTolerance:
			pos++
		case lambda < -zeroTolerance:
			neg++
		default:
			zero++
		}
	}
	s.inertia = Inertia{Positive: pos, Negative: neg, Zero: zero}
	s.singular = zero > 0
	return nil
}

func (s *DenseIndefiniteSolver) SolveIndefiniteSystem(matrix *sparse.SymmetricMatrix, rhs []float64, out []float64) error {
	matrix.ToDense(s.dense)
	return gaussianSolve(s.dense, rhs, out, s.n)
}

func (s *DenseIndefiniteSolver) GetInertia() Inertia { return s.inertia }
func (s *DenseIndefiniteSolver) MatrixIsSingular() bool { return s.singular }
func (s *DenseIndefiniteSolver) Rank() int              { return s.n - s.inertia.Zero }

// jacobiEigenvalues returns the eigenvalues of a symmetric n x n matrix using the
// classical cyclic Jacobi rotation method, sufficient for the modest augmented systems
// the core assembles (a handful to a few hundred variables/constraints).
func jacobiEigenvalues(a [][]float64, n int) []float64 {
	m := make([][]float64, n)
	for i := range a {
		m[i] = append([]float64(nil), a[i]...)
	}
	const maxSweeps = 100
	for sweep := 0; sweep < maxSweeps; sweep++ {
		off := 0.0
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				off += m[i][j] * m[i][j]
			}
		}
		if off < 1e-24 {
			break
		}
		for p := 0; p < n; p++ {
			for q := p + 1; q < n; q++ {
				if math.Abs(m[p][q]) < 1e-300 {
					continue
				}
				theta := (m[q][q] - m[p][p]) / (2 * m[p][q])
				t := math.Copysign(1, theta) / (math.Abs(theta) + math.Sqrt(theta*theta+1))
				if theta == 0 {
					t = 1
				}
				c := 1 / math.Sqrt(t*t+1)
				sn := t * c
				app, aqq, apq := m[p][p], m[q][q], m[p][q]
				m[p][p] = app - t*apq
				m[q][q] = aqq + t*apq
				m[p][q] = 0
				m[q][p] = 0
				for k := 0; k < n; k++ {
					if k != p && k != q {
						akp, akq := m[k][p], m[k][q]
						m[k][p] = c*akp - sn*akq
						m[p][k] = m[k][p]
						m[k][q] = sn*akp + c*akq
						m[q][k] = m[k][q]
					}
				}
			}
		}
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = m[i][i]
	}
	return out
}

// gaussianSolve solves a*x = b via Gaussian elimination with partial pivoting, leaving a
// untouched (it operates on a local copy).
func gaussianSolve(a [][]float64, b []float64, x []float64, n int) error {
	aug := make([][]float64, n)
	for i := 0; i < n; i++ {
		aug[i] = make([]float64, n+1)
		copy(aug[i][:n], a[i])
		aug[i][n] = b[i]
	}
	for col := 0; col < n; col++ {
		piv := col
		best := math.Abs(aug[col][col])
		for r := col + 1; r < n; r++ {
			if v := math.Abs(aug[r][col]); v > best {
				best, piv = v, r
			}
		}
		if best < 1e-14 {
			continue // singular direction: leave x component at 0 via back substitution below
		}
		aug[col], aug[piv] = aug[piv], aug[col]
		pivotVal := aug[col][col]
		for r := col + 1; r < n; r++ {
			factor := aug[r][col] / pivotVal
			if factor == 0 {
				continue
			}
			for c := col; c <= n; c++ {
				aug[r][c] -= factor * aug[col][c]
			}
		}
	}
	for row := n - 1; row >= 0; row-- {
		sum := aug[row][n]
		for c := row + 1; c < n; c++ {
			sum -= aug[row][c] * x[c]
		}
		if math.Abs(aug[row][row]) < 1e-14 {
			x[row] = 0
			continue
		}
		x[row] = sum / aug[row][row]
	}
	return nil
}
