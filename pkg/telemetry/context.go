package telemetry

import (
	"context"
	"errors"
	"io"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Telemetry combines logging, tracing, metrics and events for one run.
type Telemetry struct {
	Logger  *Logger
	Tracer  *Tracer
	Metrics *Metrics
	Events  *EventPublisher
	Config  *Config
}

// NewTelemetry creates a new telemetry instance from configuration.
func NewTelemetry(cfg *Config) (*Telemetry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := NewLogger(cfg.Logging)

	tracer, err := NewTracer(cfg.Tracing, cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		return nil, err
	}

	metrics, err := NewMetrics(cfg.Metrics)
	if err != nil {
		return nil, err
	}

	events, err := NewEventPublisher(cfg.Events)
	if err != nil {
		return nil, err
	}

	return &Telemetry{
		Logger:  logger,
		Tracer:  tracer,
		Metrics: metrics,
		Events:  events,
		Config:  cfg,
	}, nil
}

// NewNoop returns telemetry that discards logs and exports nothing.
func NewNoop() *Telemetry {
	cfg := DefaultConfig()
	cfg.Metrics.Enabled = false
	cfg.Events.Enabled = false

	tracer, _ := newTracer(cfg.Tracing, cfg.ServiceName, cfg.ServiceVersion, io.Discard)
	metrics, _ := NewMetrics(cfg.Metrics)
	events, _ := NewEventPublisher(cfg.Events)

	return &Telemetry{
		Logger:  NewLoggerWithWriter(LoggingConfig{Level: "fatal", Format: "json"}, io.Discard),
		Tracer:  tracer,
		Metrics: metrics,
		Events:  events,
		Config:  cfg,
	}
}

// WithContext adds the run logger to the context.
func (t *Telemetry) WithContext(ctx context.Context) context.Context {
	return t.Logger.WithContext(ctx)
}

// Shutdown flushes traces, closes the events file and writes the metrics
// textfile. All steps run even if an earlier one fails.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if err := t.Events.Shutdown(); err != nil {
		errs = append(errs, err)
	}
	if err := t.Tracer.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := t.Metrics.WriteTextfile(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// StageScope instruments one stage of a run: span, timer, logger, events.
type StageScope struct {
	Ctx    context.Context
	Logger *Logger

	tel      *Telemetry
	runID    string
	stage    string
	span     trace.Span
	timer    *Timer
	duration time.Duration
}

// StartStage begins an instrumented stage.
func (t *Telemetry) StartStage(ctx context.Context, runID, stage string) *StageScope {
	spanCtx, span := t.Tracer.StartStageSpan(ctx, runID, stage)
	logger := t.Logger.WithRunID(runID).WithStage(stage)

	t.Events.PublishStageStarted(runID, stage)
	logger.Debug("stage started")

	return &StageScope{
		Ctx:    logger.WithContext(spanCtx),
		Logger: logger,
		tel:    t,
		runID:  runID,
		stage:  stage,
		span:   span,
		timer:  NewTimer(),
	}
}

// End finishes the stage, recording success or failure.
func (s *StageScope) End(err error) {
	duration := s.timer.Duration()
	s.duration = duration

	status := "succeeded"
	if err != nil {
		status = "failed"
		RecordError(s.span, err)
		s.tel.Events.PublishStageFailed(s.runID, s.stage, err.Error())
		s.Logger.WithError(err).Debug("stage failed")
	} else {
		RecordSuccess(s.span)
		s.tel.Events.PublishStageCompleted(s.runID, s.stage, duration)
		s.Logger.Debugf("stage completed in %s", duration)
	}
	s.span.End()

	s.tel.Metrics.RecordStage(s.stage, status, duration)
}

// Duration returns how long the stage ran. Zero until End is called.
func (s *StageScope) Duration() time.Duration {
	return s.duration
}
