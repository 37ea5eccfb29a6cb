package solver

import "github.com/spf13/viper"

// bindOptionDefaults registers opts' current values as viper's defaults, so a partial
// config file or environment only overrides the keys it sets.
func bindOptionDefaults(v *viper.Viper, opts Options) {
	v.SetDefault("globalization_mechanism", opts.GlobalizationMechanism)
	v.SetDefault("globalization_strategy", opts.GlobalizationStrategy)
	v.SetDefault("constraint_relaxation_strategy", opts.ConstraintRelaxationStrategy)
	v.SetDefault("inequality_handling_method", opts.InequalityHandlingMethod)
	v.SetDefault("hessian_model", opts.HessianModel)
	v.SetDefault("linear_solver", opts.LinearSolver)
	v.SetDefault("qp_solver", opts.QPSolver)
	v.SetDefault("progress_norm", opts.ProgressNorm)
	v.SetDefault("residual_norm", opts.ResidualNorm)

	v.SetDefault("tolerance", opts.Tolerance)
	v.SetDefault("loose_tolerance", opts.LooseTolerance)
	v.SetDefault("loose_tolerance_consecutive_iteration_threshold", opts.LooseToleranceConsecutiveIterationThreshold)
	v.SetDefault("unbounded_objective_threshold", opts.UnboundedObjectiveThreshold)
	v.SetDefault("residual_scaling_threshold", opts.ResidualScalingThreshold)
	v.SetDefault("max_iterations", opts.MaxIterations)

	v.SetDefault("barrier_initial_parameter", opts.BarrierInitialParameter)
	v.SetDefault("barrier_default_multiplier", opts.BarrierDefaultMultiplier)
	v.SetDefault("barrier_tau_min", opts.BarrierTauMin)
	v.SetDefault("barrier_k_sigma", opts.BarrierKSigma)
	v.SetDefault("barrier_regularization_exponent", opts.BarrierRegularizationExponent)
	v.SetDefault("barrier_small_direction_factor", opts.BarrierSmallDirectionFactor)
	v.SetDefault("barrier_push_variable_to_interior_k1", opts.BarrierPushVariableToInteriorK1)
	v.SetDefault("barrier_push_variable_to_interior_k2", opts.BarrierPushVariableToInteriorK2)
	v.SetDefault("barrier_damping_factor", opts.BarrierDampingFactor)
	v.SetDefault("barrier_k_mu", opts.BarrierKMu)
	v.SetDefault("barrier_theta_mu", opts.BarrierThetaMu)
	v.SetDefault("barrier_k_epsilon", opts.BarrierKEpsilon)
	v.SetDefault("l1_constraint_violation_coefficient", opts.L1ConstraintViolationCoefficient)
	v.SetDefault("least_square_multiplier_max_norm", opts.LeastSquareMultiplierMaxNorm)

	v.SetDefault("regularization_initial_value", opts.RegularizationInitialValue)
	v.SetDefault("regularization_increase_factor", opts.RegularizationIncreaseFactor)
	v.SetDefault("regularization_failure_threshold", opts.RegularizationFailureThreshold)

	v.SetDefault("tr_radius", opts.TRRadius)
	v.SetDefault("tr_increase_factor", opts.TRIncreaseFactor)
	v.SetDefault("tr_decrease_factor", opts.TRDecreaseFactor)
	v.SetDefault("tr_min_radius", opts.TRMinRadius)

	v.SetDefault("ls_backtracking_ratio", opts.LSBacktrackingRatio)
	v.SetDefault("ls_min_step_length", opts.LSMinStepLength)

	v.SetDefault("filter_beta", opts.FilterBeta)
	v.SetDefault("filter_gamma", opts.FilterGamma)
	v.SetDefault("filter_delta", opts.FilterDelta)
	v.SetDefault("filter_ubd", opts.FilterUbd)
	v.SetDefault("filter_fact", opts.FilterFact)

	v.SetDefault("metrics_enabled", opts.MetricsEnabled)
}

// overlayFromViper reads every key back out of v into opts, picking up whatever a config
// file or UNO_ environment variable overrode.
func overlayFromViper(v *viper.Viper, opts *Options) {
	opts.GlobalizationMechanism = v.GetString("globalization_mechanism")
	opts.GlobalizationStrategy = v.GetString("globalization_strategy")
	opts.ConstraintRelaxationStrategy = v.GetString("constraint_relaxation_strategy")
	opts.InequalityHandlingMethod = v.GetString("inequality_handling_method")
	opts.HessianModel = v.GetString("hessian_model")
	opts.LinearSolver = v.GetString("linear_solver")
	opts.QPSolver = v.GetString("qp_solver")
	opts.ProgressNorm = v.GetString("progress_norm")
	opts.ResidualNorm = v.GetString("residual_norm")

	opts.Tolerance = v.GetFloat64("tolerance")
	opts.LooseTolerance = v.GetFloat64("loose_tolerance")
	opts.LooseToleranceConsecutiveIterationThreshold = v.GetInt("loose_tolerance_consecutive_iteration_threshold")
	opts.UnboundedObjectiveThreshold = v.GetFloat64("unbounded_objective_threshold")
	opts.ResidualScalingThreshold = v.GetFloat64("residual_scaling_threshold")
	opts.MaxIterations = v.GetInt("max_iterations")

	opts.BarrierInitialParameter = v.GetFloat64("barrier_initial_parameter")
	opts.BarrierDefaultMultiplier = v.GetFloat64("barrier_default_multiplier")
	opts.BarrierTauMin = v.GetFloat64("barrier_tau_min")
	opts.BarrierKSigma = v.GetFloat64("barrier_k_sigma")
	opts.BarrierRegularizationExponent = v.GetFloat64("barrier_regularization_exponent")
	opts.BarrierSmallDirectionFactor = v.GetFloat64("barrier_small_direction_factor")
	opts.BarrierPushVariableToInteriorK1 = v.GetFloat64("barrier_push_variable_to_interior_k1")
	opts.BarrierPushVariableToInteriorK2 = v.GetFloat64("barrier_push_variable_to_interior_k2")
	opts.BarrierDampingFactor = v.GetFloat64("barrier_damping_factor")
	opts.BarrierKMu = v.GetFloat64("barrier_k_mu")
	opts.BarrierThetaMu = v.GetFloat64("barrier_theta_mu")
	opts.BarrierKEpsilon = v.GetFloat64("barrier_k_epsilon")
	opts.L1ConstraintViolationCoefficient = v.GetFloat64("l1_constraint_violation_coefficient")
	opts.LeastSquareMultiplierMaxNorm = v.GetFloat64("least_square_multiplier_max_norm")

	opts.RegularizationInitialValue = v.GetFloat64("regularization_initial_value")
	opts.RegularizationIncreaseFactor = v.GetFloat64("regularization_increase_factor")
	opts.RegularizationFailureThreshold = v.GetFloat64("regularization_failure_threshold")

	opts.TRRadius = v.GetFloat64("tr_radius")
	opts.TRIncreaseFactor = v.GetFloat64("tr_increase_factor")
	opts.TRDecreaseFactor = v.GetFloat64("tr_decrease_factor")
	opts.TRMinRadius = v.GetFloat64("tr_min_radius")

	opts.LSBacktrackingRatio = v.GetFloat64("ls_backtracking_ratio")
	opts.LSMinStepLength = v.GetFloat64("ls_min_step_length")

	opts.FilterBeta = v.GetFloat64("filter_beta")
	opts.FilterGamma = v.GetFloat64("filter_gamma")
	opts.FilterDelta = v.GetFloat64("filter_delta")
	opts.FilterUbd = v.GetFloat64("filter_ubd")
	opts.FilterFact = v.GetFloat64("filter_fact")

	opts.MetricsEnabled = v.GetBool("metrics_enabled")
}
