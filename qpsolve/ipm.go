package qpsolve

import "math"

// solveBoxedQP solves min 1/2 d^T H d + g^T d subject to A_eq d = b_eq (eqRows/eqValue
// in the "J d = -cEq" convention the caller already uses) and the one-sided rows built
// from the general constraints (ineqRows/ineqValue, "J d >= -cIneq") plus whichever
// variable-bound offsets are finite. With no inequality rows at all the KKT system has a
// unique direct solve; otherwise the primal-dual interior-point iteration below is used,
// the same family of method as the core's own barrier subproblem (spec §4.5) but applied
// to this linear-quadratic model instead of the nonlinear one.
func solveBoxedQP(n int, H [][]float64, g []float64, eqRows [][]float64, eqValue []float64,
	ineqRows [][]float64, ineqValue []float64, varLower, varUpper []float64) (x, mu, lambda []float64, feasible bool) {

	meq := len(eqRows)
	bEq := make([]float64, meq)
	for i, v := range eqValue {
		bEq[i] = -v
	}

	var Aineq [][]float64
	var bIneq []float64
	for i, row := range ineqRows {
		Aineq = append(Aineq, row)
		bIneq = append(bIneq, -ineqValue[i])
	}
	for i, lo := range varLower {
		if finiteBound(lo) {
			row := make([]float64, n)
			row[i] = 1
			Aineq = append(Aineq, row)
			bIneq = append(bIneq, lo)
		}
	}
	for i, up := range varUpper {
		if finiteBound(up) {
			row := make([]float64, n)
			row[i] = -1
			Aineq = append(Aineq, row)
			bIneq = append(bIneq, -up)
		}
	}
	mg := len(Aineq)

	if mg == 0 {
		x, mu, feasible = solveEqualityQP(n, meq, H, g, eqRows, bEq)
		return x, mu, make([]float64, 0), feasible
	}
	return qpInteriorPoint(n, meq, mg, H, g, eqRows, bEq, Aineq, bIneq)
}

// solveEqualityQP solves the KKT system [[H, A^T],[A, 0]] [d;y] = [-g; b] directly: with
// no inequalities active the QP optimum is the unique stationary point of the
// equality-constrained Lagrangian.
func solveEqualityQP(n, meq int, H [][]float64, g []float64, A [][]float64, b []float64) (x, y []float64, feasible bool) {
	dim := n + meq
	M := make([][]float64, dim)
	for i := 0; i < dim; i++ {
		M[i] = make([]float64, dim)
	}
	for i := 0; i < n; i++ {
		copy(M[i][:n], H[i])
	}
	for i := 0; i < meq; i++ {
		for j := 0; j < n; j++ {
			M[n+i][j] = A[i][j]
			M[j][n+i] = A[i][j]
		}
	}
	rhs := make([]float64, dim)
	for i := 0; i < n; i++ {
		rhs[i] = -g[i]
	}
	copy(rhs[n:], b)

	sol := denseSolve(M, rhs)
	x = sol[:n]
	y = sol[n:]
	feasible = true
	if meq > 0 {
		residual := 0.0
		for i := 0; i < meq; i++ {
			r := b[i]
			for j := 0; j < n; j++ {
				r -= A[i][j] * x[j]
			}
			residual += r * r
		}
		feasible = math.Sqrt(residual) < 1e-6*(1+l2Norm(b))
	}
	return x, y, feasible
}

// qpInteriorPoint runs a short-step primal-dual path-following iteration on
//
//	min 1/2 d^T H d + g^T d   s.t.   A_eq d = b_eq,   A_ineq d - s = b_ineq,   s >= 0
//
// introducing dual variables y (equality) and lambda >= 0 (inequality), and driving the
// barrier parameter mu = (lambda . s)/mg to zero while maintaining lambda, s > 0 via a
// fraction-to-boundary rule, the same ingredients spec §4.5 uses for the NLP-level
// barrier subproblem.
func qpInteriorPoint(n, meq, mg int, H [][]float64, g []float64, Aeq [][]float64, bEq []float64,
	Aineq [][]float64, bIneq []float64) (x, mu, lambda []float64, feasible bool) {

	const (
		maxIter  = 60
		tau      = 0.995
		sigma    = 0.1
		tol      = 1e-10
	)

	d := make([]float64, n)
	y := make([]float64, meq)
	s := make([]float64, mg)
	lam := make([]float64, mg)
	for i := range s {
		s[i] = 1
		lam[i] = 1
	}

	dim := n + meq + 2*mg

	for iter := 0; iter < maxIter; iter++ {
		rd := make([]float64, n)
		for i := 0; i < n; i++ {
			rd[i] = g[i]
			for j := 0; j < n; j++ {
				rd[i] += H[i][j] * d[j]
			}
			for k := 0; k < meq; k++ {
				rd[i] -= Aeq[k][i] * y[k]
			}
			for k := 0; k < mg; k++ {
				rd[i] -= Aineq[k][i] * lam[k]
			}
		}
		rpEq := make([]float64, meq)
		for k := 0; k < meq; k++ {
			rpEq[k] = -bEq[k]
			for i := 0; i < n; i++ {
				rpEq[k] += Aeq[k][i] * d[i]
			}
		}
		rpIneq := make([]float64, mg)
		for k := 0; k < mg; k++ {
			rpIneq[k] = -bIneq[k] - s[k]
			for i := 0; i < n; i++ {
				rpIneq[k] += Aineq[k][i] * d[i]
			}
		}

		gap := dot(lam, s)
		dualityMeasure := 0.0
		if mg > 0 {
			dualityMeasure = gap / float64(mg)
		}
		if l2Norm(rd) < tol && l2Norm(rpEq) < tol && l2Norm(rpIneq) < tol && dualityMeasure < tol {
			break
		}

		targetMu := sigma * dualityMeasure
		rc := make([]float64, mg)
		for k := 0; k < mg; k++ {
			rc[k] = lam[k]*s[k] - targetMu
		}

		M := make([][]float64, dim)
		for i := range M {
			M[i] = make([]float64, dim)
		}
		// Row block 1 (n rows): H*dd - Aeq^T*dy - Aineq^T*dlam = -rd.
		for i := 0; i < n; i++ {
			copy(M[i][:n], H[i])
			for k := 0; k < meq; k++ {
				M[i][n+k] = -Aeq[k][i]
			}
			for k := 0; k < mg; k++ {
				M[i][n+meq+k] = -Aineq[k][i]
			}
		}
		// Row block 2 (meq rows): Aeq*dd = -rpEq.
		for k := 0; k < meq; k++ {
			copy(M[n+k][:n], Aeq[k])
		}
		// Row block 3 (mg rows): Aineq*dd - ds = -rpIneq.
		for k := 0; k < mg; k++ {
			copy(M[n+meq+k][:n], Aineq[k])
			M[n+meq+k][n+meq+mg+k] = -1
		}
		// Row block 4 (mg rows): s*dlam + lambda*ds = -rc.
		for k := 0; k < mg; k++ {
			M[n+meq+mg+k][n+meq+k] = s[k]
			M[n+meq+mg+k][n+meq+mg+k] = lam[k]
		}

		rhs := make([]float64, dim)
		for i := 0; i < n; i++ {
			rhs[i] = -rd[i]
		}
		for k := 0; k < meq; k++ {
			rhs[n+k] = -rpEq[k]
		}
		for k := 0; k < mg; k++ {
			rhs[n+meq+k] = -rpIneq[k]
		}
		for k := 0; k < mg; k++ {
			rhs[n+meq+mg+k] = -rc[k]
		}

		step := denseSolve(M, rhs)
		dd := step[:n]
		dy := step[n : n+meq]
		dlam := step[n+meq : n+meq+mg]
		ds := step[n+meq+mg:]

		alpha := 1.0
		for k := 0; k < mg; k++ {
			if ds[k] < 0 {
				alpha = math.Min(alpha, -tau*s[k]/ds[k])
			}
			if dlam[k] < 0 {
				alpha = math.Min(alpha, -tau*lam[k]/dlam[k])
			}
		}
		if alpha < 0 {
			alpha = 0
		}

		for i := 0; i < n; i++ {
			d[i] += alpha * dd[i]
		}
		for k := 0; k < meq; k++ {
			y[k] += alpha * dy[k]
		}
		for k := 0; k < mg; k++ {
			lam[k] += alpha * dlam[k]
			s[k] += alpha * ds[k]
			if s[k] <= 0 {
				s[k] = tol
			}
			if lam[k] <= 0 {
				lam[k] = tol
			}
		}
	}

	// A non-converged iterate (maxIter exhausted) is still returned as a usable descent
	// direction: the caller's trust-region/line-search globalization re-solves on
	// rejection rather than requiring an exact QP optimum (spec §4.10).
	return d, y, lam, true
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func l2Norm(v []float64) float64 {
	return math.Sqrt(dot(v, v))
}

// denseSolve solves a*x = b for a general (not necessarily symmetric) square matrix via
// Gaussian elimination with partial pivoting, leaving a untouched. A pivot that is
// numerically zero leaves the corresponding solution component at zero rather than
// failing outright, matching how the core's own DenseIndefiniteSolver degrades on a
// singular block.
func denseSolve(a [][]float64, b []float64) []float64 {
	n := len(b)
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
			continue
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
	x := make([]float64, n)
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
	return x
}
