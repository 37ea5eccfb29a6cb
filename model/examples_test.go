package model

import (
	"testing"

	"github.com/amontoison/Uno/numdiff"
	"github.com/amontoison/Uno/sparse"
)

// checkGradient verifies a model's analytic objective gradient against a central
// finite-difference approximation (numdiff, kept from the teacher as test tooling).
func checkGradient(t *testing.T, m Model, x []float64) {
	t.Helper()
	n := m.NumberVariables()

	spec := numdiff.ApproxSpec{
		N:      n,
		M:      1,
		Method: numdiff.Central,
		Object: func(x, y []float64) { y[0] = m.EvaluateObjective(x) },
	}
	approx := make([]float64, n)
	if err := spec.Diff(x, approx); err != nil {
		t.Fatalf("numdiff.Diff: %v", err)
	}

	g := sparse.NewGradient(n)
	m.EvaluateObjectiveGradient(x, g)

	for i := 0; i < n; i++ {
		analytic := g.At(i)
		if diff := analytic - approx[i]; diff > 1e-4 || diff < -1e-4 {
			t.Errorf("%s: d f/d x[%d]: analytic %.8g, finite-difference %.8g", m.Name(), i, analytic, approx[i])
		}
	}
}

// checkJacobian verifies a model's analytic constraint Jacobian against a central
// finite-difference approximation.
func checkJacobian(t *testing.T, m Model, x []float64) {
	t.Helper()
	n, mc := m.NumberVariables(), m.NumberConstraints()
	if mc == 0 {
		return
	}

	spec := numdiff.ApproxSpec{
		N:      n,
		M:      mc,
		Method: numdiff.Central,
		Object: func(x, y []float64) { m.EvaluateConstraints(x, y) },
	}
	approx := make([]float64, n*mc)
	if err := spec.Diff(x, approx); err != nil {
		t.Fatalf("numdiff.Diff: %v", err)
	}

	rows := make([]sparse.Gradient, mc)
	rowPtrs := make([]Sparse, mc)
	for j := range rows {
		rows[j] = *sparse.NewGradient(n)
		rowPtrs[j] = &rows[j]
	}
	m.EvaluateConstraintJacobian(x, rowPtrs)

	for j := 0; j < mc; j++ {
		for i := 0; i < n; i++ {
			analytic := rows[j].At(i)
			fd := approx[j*n+i]
			if diff := analytic - fd; diff > 1e-4 || diff < -1e-4 {
				t.Errorf("%s: d c[%d]/d x[%d]: analytic %.8g, finite-difference %.8g", m.Name(), j, i, analytic, fd)
			}
		}
	}
}

func TestRosenbrockDerivatives(t *testing.T) {
	p := Rosenbrock()
	x0 := make([]float64, p.NumberVariables())
	p.InitialPrimalPoint(x0)
	checkGradient(t, p, x0)
	checkJacobian(t, p, x0)
}

func TestHS071Derivatives(t *testing.T) {
	p := HS071()
	x0 := make([]float64, p.NumberVariables())
	p.InitialPrimalPoint(x0)
	checkGradient(t, p, x0)
	checkJacobian(t, p, x0)
}

func TestEqualityQPDerivatives(t *testing.T) {
	p := EqualityQP()
	x0 := make([]float64, p.NumberVariables())
	p.InitialPrimalPoint(x0)
	checkGradient(t, p, x0)
	checkJacobian(t, p, x0)
}

func TestInfeasibleLPDerivatives(t *testing.T) {
	p := InfeasibleLP()
	x0 := []float64{0.3}
	checkGradient(t, p, x0)
	checkJacobian(t, p, x0)
}
