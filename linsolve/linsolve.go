// Package linsolve defines the external LinearSolver contract (spec §6) and ships a
// dense, in-process default backend so the core runs standalone without an MA27/MA57/
// MUMPS-style wrapper. A real Fortran-backed solver would satisfy the same interface
// (spec §9 "Fortran interop").
package linsolve

import "github.com/amontoison/Uno/sparse"

// Inertia counts the positive, negative and zero eigenvalues of a factorized matrix.
// regularization.Inertia is a type alias of it.
type Inertia struct {
	Positive, Negative, Zero int
}

// LinearSolver is the symmetric indefinite linear solver contract of spec §6.
type LinearSolver interface {
	// InitializeMemory sizes the solver's workspace from the problem's dimensions.
	InitializeMemory(n, m, nnz, regularizationSize int) error
	// DoSymbolicAnalysis is performed once per sparsity pattern (spec §4.3).
	DoSymbolicAnalysis(matrix *sparse.SymmetricMatrix) error
	// DoNumericalFactorization repeats inside the regularization loop.
	DoNumericalFactorization(matrix *sparse.SymmetricMatrix) error
	SolveIndefiniteSystem(matrix *sparse.SymmetricMatrix, rhs []float64, out []float64) error

	GetInertia() Inertia
	MatrixIsSingular() bool
	Rank() int
}

// InsufficientSpace is the sentinel error InitializeMemory/DoNumericalFactorization
// return when the preallocated workspace is too small, matching the retry contract MA27-
// style solvers expose (spec §5, §7).
type InsufficientSpace struct{ Needed int }

func (e *InsufficientSpace) Error() string { return "linsolve: insufficient workspace" }

// AsFactorizer adapts any LinearSolver to the narrower Factorize/Inertia/IsSingular shape
// the regularization loop needs (regularization.Factorizer), so the loop does not depend
// on the full LinearSolver contract.
type AsFactorizer struct {
	Solver LinearSolver
}

func (a AsFactorizer) Factorize(m *sparse.SymmetricMatrix) error {
	return a.Solver.DoNumericalFactorization(m)
}
func (a AsFactorizer) Inertia() Inertia   { return a.Solver.GetInertia() }
func (a AsFactorizer) IsSingular() bool   { return a.Solver.MatrixIsSingular() }
