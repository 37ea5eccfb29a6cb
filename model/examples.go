package model

// This file bundles the end-to-end scenarios named in spec §8, used by this package's
// derivative tests and by the solver, subproblem and relaxation package tests.

// Rosenbrock returns the classic unconstrained problem
// min (1-x1)^2 + 100(x2-x1^2)^2, x0 = (-1.2, 1).
func Rosenbrock() *Dense {
	inf := Inf
	return NewDense(DenseSpec{
		Name:     "rosenbrock",
		N:        2,
		M:        0,
		VarLower: []float64{-inf, -inf},
		VarUpper: []float64{inf, inf},
		Objective: func(x []float64) float64 {
			a := 1 - x[0]
			b := x[1] - x[0]*x[0]
			return a*a + 100*b*b
		},
		ObjectiveGradient: func(x []float64, out Sparse) {
			a := 1 - x[0]
			b := x[1] - x[0]*x[0]
			out.Set(0, -2*a-400*x[0]*b)
			out.Set(1, 200*b)
		},
		Hessian: func(x []float64, sigma float64, y []float64, out Symmetric) {
			b := x[1] - x[0]*x[0]
			h00 := sigma * (2 - 400*b + 800*x[0]*x[0])
			h01 := sigma * (-400 * x[0])
			h11 := sigma * 200
			out.AddEntry(0, 0, h00)
			out.AddEntry(0, 1, h01)
			out.AddEntry(1, 1, h11)
		},
		X0:         []float64{-1.2, 1},
		Y0:         []float64{},
		ObjGradNnz: 2,
		HessNnz:    3,
	})
}

// HS071 returns Hock-Schittkowski problem 71:
// min x1*x4*(x1+x2+x3) + x3
// s.t. x1*x2*x3*x4 >= 25, x1^2+x2^2+x3^2+x4^2 = 40, 1 <= xi <= 5.
func HS071() *Dense {
	return NewDense(DenseSpec{
		Name:      "hs071",
		N:         4,
		M:         2,
		VarLower:  []float64{1, 1, 1, 1},
		VarUpper:  []float64{5, 5, 5, 5},
		ConsLower: []float64{25, 40},
		ConsUpper: []float64{Inf, 40},
		Objective: func(x []float64) float64 {
			return x[0]*x[3]*(x[0]+x[1]+x[2]) + x[2]
		},
		ObjectiveGradient: func(x []float64, out Sparse) {
			out.Set(0, x[3]*(2*x[0]+x[1]+x[2]))
			out.Set(1, x[0]*x[3])
			out.Set(2, x[0]*x[3]+1)
			out.Set(3, x[0]*(x[0]+x[1]+x[2]))
		},
		Constraints: func(x []float64, out []float64) {
			out[0] = x[0] * x[1] * x[2] * x[3]
			out[1] = x[0]*x[0] + x[1]*x[1] + x[2]*x[2] + x[3]*x[3]
		},
		Jacobian: func(x []float64, out []Sparse) {
			out[0].Set(0, x[1]*x[2]*x[3])
			out[0].Set(1, x[0]*x[2]*x[3])
			out[0].Set(2, x[0]*x[1]*x[3])
			out[0].Set(3, x[0]*x[1]*x[2])
			out[1].Set(0, 2*x[0])
			out[1].Set(1, 2*x[1])
			out[1].Set(2, 2*x[2])
			out[1].Set(3, 2*x[3])
		},
		Hessian: func(x []float64, sigma float64, y []float64, out Symmetric) {
			out.AddEntry(0, 0, sigma*2*x[3]-y[1]*2)
			out.AddEntry(0, 1, sigma*x[3]-y[0]*x[2]*x[3])
			out.AddEntry(0, 2, sigma*x[3]-y[0]*x[1]*x[3])
			out.AddEntry(0, 3, sigma*(2*x[0]+x[1]+x[2])-y[0]*x[1]*x[2])
			out.AddEntry(1, 1, -y[1]*2)
			out.AddEntry(1, 2, -y[0]*x[0]*x[3])
			out.AddEntry(1, 3, sigma*x[0]-y[0]*x[0]*x[2])
			out.AddEntry(2, 2, -y[1]*2)
			out.AddEntry(2, 3, sigma*x[0]-y[0]*x[0]*x[1])
			out.AddEntry(3, 3, -y[1]*2)
		},
		X0:         []float64{1, 5, 5, 1},
		Y0:         []float64{0, 0},
		ObjGradNnz: 4,
		JacNnz:     8,
		HessNnz:    10,
	})
}

// InfeasibleLP returns min x s.t. 1 <= x <= 0 (a single linear constraint c(x) = x whose
// lower bound exceeds its upper bound), x0 = 0. Expected INFEASIBLE_STATIONARY_POINT.
func InfeasibleLP() *Dense {
	return NewDense(DenseSpec{
		Name:      "infeasible-lp",
		N:         1,
		M:         1,
		VarLower:  []float64{-Inf},
		VarUpper:  []float64{Inf},
		ConsLower: []float64{1},
		ConsUpper: []float64{0}, // l > u: infeasible by construction, per spec scenario 3
		Objective: func(x []float64) float64 { return x[0] },
		ObjectiveGradient: func(x []float64, out Sparse) {
			out.Set(0, 1)
		},
		Constraints: func(x []float64, out []float64) { out[0] = x[0] },
		Jacobian: func(x []float64, out []Sparse) {
			out[0].Set(0, 1)
		},
		Hessian:     func(x []float64, sigma float64, y []float64, out Symmetric) {},
		X0:          []float64{0},
		Y0:          []float64{0},
		ObjGradNnz:  1,
		JacNnz:      1,
		LinearConstraints: []int{0},
	})
}

// UnboundedLP returns min -x, no constraints, x0 = 0. Expected UNBOUNDED.
func UnboundedLP() *Dense {
	return NewDense(DenseSpec{
		Name:      "unbounded-lp",
		N:         1,
		M:         0,
		VarLower:  []float64{-Inf},
		VarUpper:  []float64{Inf},
		Objective: func(x []float64) float64 { return -x[0] },
		ObjectiveGradient: func(x []float64, out Sparse) {
			out.Set(0, -1)
		},
		Hessian:    func(x []float64, sigma float64, y []float64, out Symmetric) {},
		X0:         []float64{0},
		Y0:         []float64{},
		ObjGradNnz: 1,
	})
}

// EqualityQP returns min 1/2(x1^2+x2^2) s.t. x1+x2 = 1. Expected x* = (0.5, 0.5),
// y* = -0.5 in one Newton step.
func EqualityQP() *Dense {
	return NewDense(DenseSpec{
		Name:      "equality-qp",
		N:         2,
		M:         1,
		VarLower:  []float64{-Inf, -Inf},
		VarUpper:  []float64{Inf, Inf},
		ConsLower: []float64{1},
		ConsUpper: []float64{1},
		Objective: func(x []float64) float64 { return 0.5 * (x[0]*x[0] + x[1]*x[1]) },
		ObjectiveGradient: func(x []float64, out Sparse) {
			out.Set(0, x[0])
			out.Set(1, x[1])
		},
		Constraints: func(x []float64, out []float64) { out[0] = x[0] + x[1] },
		Jacobian: func(x []float64, out []Sparse) {
			out[0].Set(0, 1)
			out[0].Set(1, 1)
		},
		Hessian: func(x []float64, sigma float64, y []float64, out Symmetric) {
			out.AddEntry(0, 0, sigma)
			out.AddEntry(1, 1, sigma)
		},
		X0:                []float64{0, 0},
		Y0:                []float64{0},
		ObjGradNnz:        2,
		JacNnz:            2,
		HessNnz:           2,
		LinearConstraints: []int{0},
	})
}
