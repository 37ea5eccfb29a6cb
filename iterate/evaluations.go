package iterate

import "github.com/amontoison/Uno/sparse"

// Evaluations caches the function/derivative values at the current primals, each guarded
// by its own dirty flag so that, e.g., evaluating the Jacobian does not force a
// recomputation of the objective (spec §3 "evaluations cache").
type Evaluations struct {
	Objective         float64
	ObjectiveGradient *sparse.Gradient
	Constraints       []float64
	ConstraintJacobian []*sparse.Gradient // one sparse row per constraint

	objectiveDirty bool
	gradientDirty  bool
	constraintsDirty bool
	jacobianDirty  bool
}

// NewEvaluations allocates caches sized for n variables and m constraints, marked dirty.
func NewEvaluations(n, m int) *Evaluations {
	rows := make([]*sparse.Gradient, m)
	for j := range rows {
		rows[j] = sparse.NewGradient(n)
	}
	e := &Evaluations{
		ObjectiveGradient:  sparse.NewGradient(n),
		Constraints:        make([]float64, m),
		ConstraintJacobian: rows,
	}
	e.MarkAllDirty()
	return e
}

// MarkAllDirty clears every cache's validity, as required whenever primals change.
func (e *Evaluations) MarkAllDirty() {
	e.objectiveDirty = true
	e.gradientDirty = true
	e.constraintsDirty = true
	e.jacobianDirty = true
}

func (e *Evaluations) ObjectiveIsDirty() bool   { return e.objectiveDirty }
func (e *Evaluations) GradientIsDirty() bool    { return e.gradientDirty }
func (e *Evaluations) ConstraintsAreDirty() bool { return e.constraintsDirty }
func (e *Evaluations) JacobianIsDirty() bool    { return e.jacobianDirty }

func (e *Evaluations) SetObjective(f float64) {
	e.Objective = f
	e.objectiveDirty = false
}

func (e *Evaluations) SetGradientClean() { e.gradientDirty = false }
func (e *Evaluations) SetConstraintsClean() { e.constraintsDirty = false }
func (e *Evaluations) SetJacobianClean() { e.jacobianDirty = false }
