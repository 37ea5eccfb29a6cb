package solver

import (
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// IterationSnapshot is one row of the per-iteration history SPEC_FULL.md section C adds:
// the original spec's "logging/statistics formatter" stays out of scope, but the core
// still needs to expose the data a formatter would consume.
type IterationSnapshot struct {
	Iteration       int
	ObjectiveValue  float64
	Infeasibility   float64
	Stationarity    float64
	Complementarity float64
	TrustRegionRadius float64
	StepLength      float64
	InFeasibilityMode bool
}

// Statistics tracks run counters (spec §2 item 10, §5 "Statistics counters... plain
// integers owned by their ingredient") plus the run ID and per-iteration history
// SPEC_FULL.md section A.6/C add. Counters are always available as plain fields;
// prometheus metrics are only registered when Options.MetricsEnabled is set. Nothing in
// the core calls RecordFactorization or RecordRegularizationRetry, so Factorizations and
// RegularizationRetries stay 0.
type Statistics struct {
	RunID uuid.UUID

	SubproblemsSolved   int
	HessianEvaluations  int
	Factorizations      int
	RegularizationRetries int
	OuterIterations     int

	History []IterationSnapshot

	metrics *prometheusMetrics
}

type prometheusMetrics struct {
	subproblemsSolved   prometheus.Counter
	hessianEvaluations  prometheus.Counter
	factorizations      prometheus.Counter
	regularizationRetries prometheus.Counter
	outerIterations     prometheus.Counter
}

// NewStatistics allocates a Statistics with a fresh run ID, registering prometheus
// metrics against registry when enabled is true.
func NewStatistics(enabled bool, registry prometheus.Registerer) *Statistics {
	s := &Statistics{RunID: uuid.New()}
	if enabled && registry != nil {
		s.metrics = newPrometheusMetrics(s.RunID.String(), registry)
	}
	return s
}

func newPrometheusMetrics(runID string, registry prometheus.Registerer) *prometheusMetrics {
	labels := prometheus.Labels{"run_id": runID}
	m := &prometheusMetrics{
		subproblemsSolved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uno_subproblems_solved_total", ConstLabels: labels,
		}),
		hessianEvaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uno_hessian_evaluations_total", ConstLabels: labels,
		}),
		factorizations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uno_factorizations_total", ConstLabels: labels,
		}),
		regularizationRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uno_regularization_retries_total", ConstLabels: labels,
		}),
		outerIterations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uno_outer_iterations_total", ConstLabels: labels,
		}),
	}
	registry.MustRegister(m.subproblemsSolved, m.hessianEvaluations, m.factorizations,
		m.regularizationRetries, m.outerIterations)
	return m
}

func (s *Statistics) RecordSubproblemSolved() {
	s.SubproblemsSolved++
	if s.metrics != nil {
		s.metrics.subproblemsSolved.Inc()
	}
}

func (s *Statistics) RecordHessianEvaluation() {
	s.HessianEvaluations++
	if s.metrics != nil {
		s.metrics.hessianEvaluations.Inc()
	}
}

func (s *Statistics) RecordFactorization() {
	s.Factorizations++
	if s.metrics != nil {
		s.metrics.factorizations.Inc()
	}
}

func (s *Statistics) RecordRegularizationRetry() {
	s.RegularizationRetries++
	if s.metrics != nil {
		s.metrics.regularizationRetries.Inc()
	}
}

func (s *Statistics) RecordOuterIteration(snapshot IterationSnapshot) {
	s.OuterIterations++
	snapshot.Iteration = s.OuterIterations
	s.History = append(s.History, snapshot)
	if s.metrics != nil {
		s.metrics.outerIterations.Inc()
	}
}
