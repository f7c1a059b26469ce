package telemetry

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics provides Prometheus metrics for a step run.
type Metrics struct {
	config MetricsConfig

	runsCompleted *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec

	stagesExecuted *prometheus.CounterVec
	stageDuration  *prometheus.HistogramVec

	errorsByKind *prometheus.CounterVec

	argumentCount prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		runsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_completed_total",
				Help:      "Total number of step runs completed",
			},
			[]string{"status"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of step runs in seconds",
				Buckets:   buckets,
			},
			[]string{"status"},
		),
		stagesExecuted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stages_executed_total",
				Help:      "Total number of stages executed",
			},
			[]string{"stage", "status"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Duration of each stage in seconds",
				Buckets:   buckets,
			},
			[]string{"stage"},
		),
		errorsByKind: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_by_kind_total",
				Help:      "Total number of failures by error kind",
			},
			[]string{"kind"},
		),
		argumentCount: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "script_arguments",
				Help:      "Number of arguments passed to the icon script",
			},
		),
	}

	registry.MustRegister(
		m.runsCompleted,
		m.runDuration,
		m.stagesExecuted,
		m.stageDuration,
		m.errorsByKind,
		m.argumentCount,
	)

	return m, nil
}

// RecordRunCompleted records a finished run with its status and duration.
func (m *Metrics) RecordRunCompleted(status string, duration time.Duration) {
	if m.runsCompleted == nil {
		return
	}
	m.runsCompleted.WithLabelValues(status).Inc()
	m.runDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordStage records one stage execution.
func (m *Metrics) RecordStage(stage, status string, duration time.Duration) {
	if m.stagesExecuted == nil {
		return
	}
	m.stagesExecuted.WithLabelValues(stage, status).Inc()
	m.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordError records a failure by kind.
func (m *Metrics) RecordError(kind string) {
	if m.errorsByKind == nil {
		return
	}
	m.errorsByKind.WithLabelValues(kind).Inc()
}

// SetArgumentCount records the size of the translated argument vector.
func (m *Metrics) SetArgumentCount(n int) {
	if m.argumentCount == nil {
		return
	}
	m.argumentCount.Set(float64(n))
}

// Registry returns the underlying registry, nil when metrics are disabled.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all metrics to the configured textfile, if any.
func (m *Metrics) WriteTextfile() error {
	if m.registry == nil || m.config.TextfilePath == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(m.config.TextfilePath, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// Timer provides a convenient way to time operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
