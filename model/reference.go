package model

// Dense is a reference Model implementation for hand-written test problems: every
// evaluation is a plain closure over dense slices, and bound classification lists are
// derived once at construction. It is not meant for large sparse problems (the core
// itself never assumes a model is Dense) but is what the bundled problems of the
// scenario tests in spec §8 are built from.
type Dense struct {
	name string
	n, m int

	varLower, varUpper   []float64
	consLower, consUpper []float64

	objective func(x []float64) float64
	objGrad   func(x []float64, out Sparse)
	cons      func(x []float64, out []float64)
	jac       func(x []float64, out []Sparse)
	hess      func(x []float64, sigma float64, y []float64, out Symmetric)

	x0, y0 []float64

	equality, inequality, linear []int

	objGradNnz, jacNnz, hessNnz int
}

// DenseSpec collects the closures and bounds needed to build a Dense model.
type DenseSpec struct {
	Name                 string
	N, M                 int
	VarLower, VarUpper   []float64
	ConsLower, ConsUpper []float64
	Objective            func(x []float64) float64
	ObjectiveGradient    func(x []float64, out Sparse)
	Constraints          func(x []float64, out []float64)
	Jacobian             func(x []float64, out []Sparse)
	Hessian              func(x []float64, sigma float64, y []float64, out Symmetric)
	X0, Y0               []float64
	LinearConstraints    []int
	ObjGradNnz, JacNnz, HessNnz int
}

// NewDense builds a Dense model from spec, classifying constraints into equality,
// inequality and linear buckets from the bound arrays.
func NewDense(spec DenseSpec) *Dense {
	d := &Dense{
		name: spec.Name, n: spec.N, m: spec.M,
		varLower: spec.VarLower, varUpper: spec.VarUpper,
		consLower: spec.ConsLower, consUpper: spec.ConsUpper,
		objective: spec.Objective, objGrad: spec.ObjectiveGradient,
		cons: spec.Constraints, jac: spec.Jacobian, hess: spec.Hessian,
		x0: spec.X0, y0: spec.Y0,
		linear:     spec.LinearConstraints,
		objGradNnz: spec.ObjGradNnz, jacNnz: spec.JacNnz, hessNnz: spec.HessNnz,
	}
	for j := 0; j < d.m; j++ {
		if d.consLower[j] == d.consUpper[j] {
			d.equality = append(d.equality, j)
		} else {
			d.inequality = append(d.inequality, j)
		}
	}
	return d
}

func (d *Dense) Name() string             { return d.name }
func (d *Dense) NumberVariables() int     { return d.n }
func (d *Dense) NumberConstraints() int   { return d.m }

func (d *Dense) EvaluateObjective(x []float64) float64 { return d.objective(x) }
func (d *Dense) EvaluateObjectiveGradient(x []float64, out Sparse) {
	if d.objGrad != nil {
		d.objGrad(x, out)
	}
}
func (d *Dense) EvaluateConstraints(x []float64, out []float64) {
	if d.cons != nil {
		d.cons(x, out)
	}
}
func (d *Dense) EvaluateConstraintJacobian(x []float64, out []Sparse) {
	if d.jac != nil {
		d.jac(x, out)
	}
}
func (d *Dense) EvaluateLagrangianHessian(x []float64, sigma float64, y []float64, out Symmetric) {
	if d.hess != nil {
		d.hess(x, sigma, y, out)
	}
}

func (d *Dense) VariableLowerBound(i int) float64   { return d.varLower[i] }
func (d *Dense) VariableUpperBound(i int) float64   { return d.varUpper[i] }
func (d *Dense) ConstraintLowerBound(j int) float64 { return d.consLower[j] }
func (d *Dense) ConstraintUpperBound(j int) float64 { return d.consUpper[j] }

func (d *Dense) EqualityConstraints() []int   { return d.equality }
func (d *Dense) InequalityConstraints() []int { return d.inequality }
func (d *Dense) LinearConstraints() []int     { return d.linear }

func (d *Dense) LowerBoundedVariables() []int {
	var out []int
	for i := 0; i < d.n; i++ {
		if IsFiniteLower(d.varLower[i]) {
			out = append(out, i)
		}
	}
	return out
}

func (d *Dense) UpperBoundedVariables() []int {
	var out []int
	for i := 0; i < d.n; i++ {
		if IsFiniteUpper(d.varUpper[i]) {
			out = append(out, i)
		}
	}
	return out
}

func (d *Dense) SingleLowerBoundedVariables() []int {
	var out []int
	for i := 0; i < d.n; i++ {
		if IsFiniteLower(d.varLower[i]) && !IsFiniteUpper(d.varUpper[i]) {
			out = append(out, i)
		}
	}
	return out
}

func (d *Dense) SingleUpperBoundedVariables() []int {
	var out []int
	for i := 0; i < d.n; i++ {
		if IsFiniteUpper(d.varUpper[i]) && !IsFiniteLower(d.varLower[i]) {
			out = append(out, i)
		}
	}
	return out
}

func (d *Dense) InitialPrimalPoint(out []float64) { copy(out, d.x0) }
func (d *Dense) InitialDualPoint(out []float64)   { copy(out, d.y0) }

func (d *Dense) NumberObjectiveGradientNonzeros() int { return d.objGradNnz }
func (d *Dense) NumberJacobianNonzeros() int          { return d.jacNnz }
func (d *Dense) NumberHessianNonzeros() int           { return d.hessNnz }
