package strategy

import "github.com/amontoison/Uno/iterate"

// L1Merit is the exact l1 merit function phi(x) = f(x) + nu*||c(x)||_1 acceptance test
// (spec §4.8): a trial point is acceptable when it achieves a fraction of the predicted
// reduction of the merit function, in the classical Armijo sense.
type L1Merit struct {
	Nu  float64 // penalty parameter; the core never changes it after construction
	Eta float64 // Armijo sufficient-decrease constant
}

// NewL1Merit returns a merit-function strategy with the usual Armijo constant.
func NewL1Merit() *L1Merit {
	return &L1Merit{Nu: 1, Eta: 1e-4}
}

func (m *L1Merit) Reset() {}

func (m *L1Merit) IsAcceptable(current, trial iterate.ProgressMeasures, predictedReduction, sigma float64) bool {
	currentMerit := current.Objective(sigma) + m.Nu*current.Infeasibility
	trialMerit := trial.Objective(sigma) + m.Nu*trial.Infeasibility
	return trialMerit <= currentMerit-m.Eta*predictedReduction
}
