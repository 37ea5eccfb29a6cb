// Package solver implements the top-level Uno loop of spec §2 item 10: it wires the
// other ingredient packages together per Options, drives iterations until the
// termination classifier of spec §4.11 fires, and exposes run statistics.
package solver

import (
	"strings"

	"github.com/amontoison/Uno/internal/unoerr"
	"github.com/spf13/viper"
)

// Options is the struct form of spec §6's Options table, populated either
// programmatically or via viper reading a YAML/TOML file or UNO_-prefixed environment
// variables (SPEC_FULL.md section A.3).
type Options struct {
	GlobalizationMechanism      string // "TR" or "LS"
	GlobalizationStrategy       string // "filter", "waechter_filter", "funnel", "l1_merit"
	ConstraintRelaxationStrategy string // "feasibility_restoration" or "l1_relaxation"
	InequalityHandlingMethod    string // "QP" or "IPM"
	HessianModel                string // "exact", "zero", "identity" (identity == BFGS)

	LinearSolver string
	QPSolver     string

	ProgressNorm string // "L1", "L2", "INF"
	ResidualNorm string

	Tolerance                                 float64
	LooseTolerance                            float64
	LooseToleranceConsecutiveIterationThreshold int
	UnboundedObjectiveThreshold                float64
	ResidualScalingThreshold                   float64
	MaxIterations                              int

	// Interior point.
	BarrierInitialParameter       float64
	BarrierDefaultMultiplier      float64
	BarrierTauMin                 float64
	BarrierKSigma                 float64
	BarrierRegularizationExponent float64
	BarrierSmallDirectionFactor   float64
	BarrierPushVariableToInteriorK1 float64
	BarrierPushVariableToInteriorK2 float64
	BarrierDampingFactor           float64
	BarrierKMu                     float64
	BarrierThetaMu                 float64
	BarrierKEpsilon                float64
	L1ConstraintViolationCoefficient float64
	LeastSquareMultiplierMaxNorm   float64

	// Regularization.
	RegularizationInitialValue    float64
	RegularizationIncreaseFactor  float64
	RegularizationFailureThreshold float64

	// Trust region.
	TRRadius         float64
	TRIncreaseFactor float64
	TRDecreaseFactor float64
	TRMinRadius      float64

	// Line search.
	LSBacktrackingRatio float64
	LSMinStepLength     float64

	// Filter.
	FilterBeta  float64
	FilterGamma float64
	FilterDelta float64
	FilterUbd   float64
	FilterFact  float64

	// Ambient.
	MetricsEnabled bool
}

// DefaultOptions returns the spec-conventional defaults. Most match the constants the
// ingredient constructors use as fallbacks (filter beta/gamma, IPM barrier defaults,
// trust-region factors); BarrierTauMin (0.99, InteriorPoint uses 0.995) and
// RegularizationFailureThreshold (1e18, regularization.New uses 1e40) differ.
func DefaultOptions() Options {
	return Options{
		GlobalizationMechanism:       "TR",
		GlobalizationStrategy:        "waechter_filter",
		ConstraintRelaxationStrategy: "feasibility_restoration",
		InequalityHandlingMethod:     "QP",
		HessianModel:                 "exact",
		LinearSolver:                 "dense",
		QPSolver:                     "active_set",
		ProgressNorm:                 "L1",
		ResidualNorm:                 "INF",

		Tolerance:                                   1e-8,
		LooseTolerance:                               1e-6,
		LooseToleranceConsecutiveIterationThreshold:  15,
		UnboundedObjectiveThreshold:                  -1e10,
		ResidualScalingThreshold:                     100,
		MaxIterations:                                1000,

		BarrierInitialParameter:       0.1,
		BarrierDefaultMultiplier:      0.1,
		BarrierTauMin:                 0.99,
		BarrierKSigma:                 1e10,
		BarrierRegularizationExponent: 0.25,
		BarrierSmallDirectionFactor:   1e-9,
		BarrierPushVariableToInteriorK1: 1e-2,
		BarrierPushVariableToInteriorK2: 1e-2,
		BarrierDampingFactor:          1e-2,
		BarrierKMu:                    0.2,
		BarrierThetaMu:                1.5,
		BarrierKEpsilon:               10,
		L1ConstraintViolationCoefficient: 1000,
		LeastSquareMultiplierMaxNorm:  1e3,

		RegularizationInitialValue:    1e-4,
		RegularizationIncreaseFactor:  8,
		RegularizationFailureThreshold: 1e18,

		TRRadius:         1,
		TRIncreaseFactor: 2,
		TRDecreaseFactor: 0.5,
		TRMinRadius:      1e-10,

		LSBacktrackingRatio: 0.9,
		LSMinStepLength:     1e-12,

		FilterBeta:  0.999,
		FilterGamma: 1e-5,
		FilterDelta: 1,
		FilterUbd:   1e4,
		FilterFact:  1.1,
	}
}

// LoadOptions reads options from configPath (if non-empty) and UNO_-prefixed environment
// variables via viper, overlaying onto DefaultOptions. Unknown keys in configPath are a
// FatalForAPI error per spec §7.
func LoadOptions(configPath string) (Options, error) {
	opts := DefaultOptions()

	v := viper.New()
	v.SetEnvPrefix("UNO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return opts, unoerr.Wrap(unoerr.FatalForAPI, "solver.LoadOptions", err)
		}
		known := viper.New()
		bindOptionDefaults(known, opts)
		isKnown := make(map[string]bool)
		for _, key := range known.AllKeys() {
			isKnown[key] = true
		}
		for _, key := range v.AllKeys() {
			if !isKnown[key] {
				return opts, unoerr.New(unoerr.FatalForAPI, "solver.LoadOptions", "unknown option key "+key)
			}
		}
	}

	bindOptionDefaults(v, opts)
	overlayFromViper(v, &opts)
	return opts, nil
}
