package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"akao-hq/akao/pkg/config"
)

// ValidationMetrics tracks validation pass outcomes.
//
// Metrics:
//   - akao_validation_runs_total: completed passes by result
//   - akao_validation_violations_total: violations by severity
//   - akao_validation_duration_seconds: pass duration histogram
//   - akao_validation_files_analyzed: files per pass histogram
//   - akao_validation_rules_loaded: currently loaded rules by state
type ValidationMetrics struct {
	runsTotal       *prometheus.CounterVec
	violationsTotal *prometheus.CounterVec
	duration        prometheus.Histogram
	filesAnalyzed   prometheus.Histogram
	rulesLoaded     *prometheus.GaugeVec
}

// NewValidationMetrics creates and registers validation metrics with the
// provided registry.
func NewValidationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ValidationMetrics {
	vm := &ValidationMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "runs_total",
				Help:      "Total number of completed validation passes",
			},
			[]string{"result"},
		),

		violationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "violations_total",
				Help:      "Total number of violations detected",
			},
			[]string{"severity"},
		),

		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "duration_seconds",
				Help:      "Validation pass duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
			},
		),

		filesAnalyzed: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "files_analyzed",
				Help:      "Files analyzed per validation pass",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
		),

		rulesLoaded: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rules_loaded",
				Help:      "Currently loaded rules by state",
			},
			[]string{"state"},
		),
	}

	registry.MustRegister(
		vm.runsTotal,
		vm.violationsTotal,
		vm.duration,
		vm.filesAnalyzed,
		vm.rulesLoaded,
	)

	return vm
}

// RecordValidation records a completed pass. Satisfies the pipeline's
// Recorder seam.
func (vm *ValidationMetrics) RecordValidation(duration time.Duration, files, violations int, valid bool) {
	result := "failed"
	if valid {
		result = "passed"
	}
	vm.runsTotal.WithLabelValues(result).Inc()
	vm.duration.Observe(duration.Seconds())
	vm.filesAnalyzed.Observe(float64(files))
}

// RecordViolation counts one violation by severity.
func (vm *ValidationMetrics) RecordViolation(severity string) {
	vm.violationsTotal.WithLabelValues(severity).Inc()
}

// SetRulesLoaded updates the loaded-rule gauges.
func (vm *ValidationMetrics) SetRulesLoaded(available, enabled int) {
	vm.rulesLoaded.WithLabelValues("available").Set(float64(available))
	vm.rulesLoaded.WithLabelValues("enabled").Set(float64(enabled))
}
