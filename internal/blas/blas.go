// Package blas provides the small set of BLAS level-1 kernels the core needs on dense
// float64 slices: axpy, dot, copy, scale, the Euclidean norm and zero-fill. Every package
// that touches primal or dual vectors shares these instead of rolling its own loops.
package blas

import "math"

// Axpy computes y += a*x over the first n elements of x and y.
func Axpy(n int, a float64, x []float64, y []float64) {
	if n <= 0 || a == 0 {
		return
	}
	for i := 0; i < n; i++ {
		y[i] += a * x[i]
	}
}

// Dot returns the dot product of the first n elements of x and y.
func Dot(n int, x, y []float64) float64 {
	var sum float64
	for i := 0; i < n; i++ {
		sum += x[i] * y[i]
	}
	return sum
}

// Copy copies the first n elements of src into dst.
func Copy(n int, dst, src []float64) {
	copy(dst[:n], src[:n])
}

// Scale multiplies the first n elements of x by a in place.
func Scale(n int, a float64, x []float64) {
	for i := 0; i < n; i++ {
		x[i] *= a
	}
}

// Norm2 computes the scaled Euclidean norm of the first n elements of x, guarding
// against overflow/underflow the way the reference BLAS implementation does.
func Norm2(n int, x []float64) float64 {
	if n < 1 {
		return 0
	}
	if n == 1 {
		return math.Abs(x[0])
	}
	scale, ssq := 0.0, 1.0
	for i := 0; i < n; i++ {
		if ax := math.Abs(x[i]); ax > 0 {
			if scale < ax {
				r := scale / ax
				ssq = 1 + ssq*r*r
				scale = ax
			} else {
				r := ax / scale
				ssq += r * r
			}
		}
	}
	return scale * math.Sqrt(ssq)
}

// NormInf returns the infinity norm of the first n elements of x.
func NormInf(n int, x []float64) float64 {
	m := 0.0
	for i := 0; i < n; i++ {
		if a := math.Abs(x[i]); a > m {
			m = a
		}
	}
	return m
}

// Norm1 returns the 1-norm of the first n elements of x.
func Norm1(n int, x []float64) float64 {
	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(x[i])
	}
	return sum
}

// Zero fills x with zeros.
func Zero(x []float64) {
	for i := range x {
		x[i] = 0
	}
}

// Norm computes a norm of the first n elements of x selected by kind: "L1", "L2" or "INF".
// Unrecognized kinds fall back to the infinity norm.
func Norm(kind string, n int, x []float64) float64 {
	switch kind {
	case "L1":
		return Norm1(n, x)
	case "L2":
		return Norm2(n, x)
	default:
		return NormInf(n, x)
	}
}
