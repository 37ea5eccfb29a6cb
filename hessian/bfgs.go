package hessian

import (
	"github.com/amontoison/Uno/internal/blas"
	"github.com/amontoison/Uno/iterate"
	"github.com/amontoison/Uno/problem"
	"github.com/amontoison/Uno/sparse"
)

// BFGS maintains a dense, damped quasi-Newton approximation of the Lagrangian Hessian,
// grounded in the modified-BFGS update used inside the teacher's SQP solver:
//
//	B_{k+1} = B_k + q q^T / (q^T s) - B_k s s^T B_k / (s^T B_k s)
//	s = x_{k+1} - x_k,  eta = gradL(x_{k+1}) - gradL(x_k)
//	q = theta*eta + (1-theta)*B_k*s
//	theta = 1                                   if s^T eta >= (1/5) s^T B_k s
//	theta = (4/5) s^T B_k s / (s^T B_k s - s^T eta)  otherwise
//
// Powell's damping keeps B positive definite, so IsPositiveDefinite reports true and the
// caller can skip primal regularization (spec §4.2).
type BFGS struct {
	n int
	b [][]float64 // dense symmetric approximation, initialized to the identity
}

// NewBFGS allocates a BFGS approximation initialized to the n x n identity.
func NewBFGS(n int) *BFGS {
	b := make([][]float64, n)
	for i := range b {
		b[i] = make([]float64, n)
		b[i][i] = 1
	}
	return &BFGS{n: n, b: b}
}

func (q *BFGS) Evaluate(p problem.OptimizationProblem, x []float64, sigma float64, y []float64, out *sparse.SymmetricMatrix) {
	out.ResetStructure()
	for i := 0; i < q.n; i++ {
		for j := i; j < q.n; j++ {
			if q.b[i][j] != 0 {
				out.AddEntry(i, j, q.b[i][j])
			}
		}
	}
}

func (q *BFGS) IsPositiveDefinite() bool { return true }

func (q *BFGS) NumberNonzeros(p problem.OptimizationProblem) int { return q.n * (q.n + 1) / 2 }

// NotifyAccepted applies the damped BFGS update from the step just taken.
func (q *BFGS) NotifyAccepted(xPrev, xNew []float64, gradPrev, gradNew iterate.LagrangianGradient) {
	n := q.n
	s := make([]float64, n)
	for i := 0; i < n; i++ {
		s[i] = xNew[i] - xPrev[i]
	}
	gp, gn := make([]float64, n), make([]float64, n)
	gradPrev.Full(gp)
	gradNew.Full(gn)
	eta := make([]float64, n)
	for i := 0; i < n; i++ {
		eta[i] = gn[i] - gp[i]
	}

	bs := make([]float64, n)
	for i := 0; i < n; i++ {
		bs[i] = blas.Dot(n, q.b[i], s)
	}
	sBs := blas.Dot(n, s, bs)
	sEta := blas.Dot(n, s, eta)

	if sBs == 0 {
		return
	}

	theta := 1.0
	if sEta < 0.2*sBs {
		denom := sBs - sEta
		if denom != 0 {
			theta = 0.8 * sBs / denom
		}
	}

	qv := make([]float64, n)
	for i := 0; i < n; i++ {
		qv[i] = theta*eta[i] + (1-theta)*bs[i]
	}
	qs := blas.Dot(n, qv, s)
	if qs == 0 || sBs == 0 {
		return
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			q.b[i][j] += qv[i]*qv[j]/qs - bs[i]*bs[j]/sBs
		}
	}
}
