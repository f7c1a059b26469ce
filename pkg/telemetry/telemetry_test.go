package telemetry

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	tests := []struct {
		name string
		edit func(*Config)
	}{
		{name: "empty service", edit: func(c *Config) { c.ServiceName = "" }},
		{name: "bad level", edit: func(c *Config) { c.Logging.Level = "loud" }},
		{name: "bad format", edit: func(c *Config) { c.Logging.Format = "xml" }},
		{name: "bad exporter", edit: func(c *Config) { c.Tracing.Exporter = "jaeger" }},
		{name: "otlp without endpoint", edit: func(c *Config) { c.Tracing.Exporter = "otlp" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != zerolog.DebugLevel {
		t.Error("debug level mismatch")
	}
	if ParseLevel("nonsense") != zerolog.InfoLevel {
		t.Error("unknown levels should default to info")
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(LoggingConfig{Level: "debug", Format: "json"}, &buf)

	logger.NewComponentLogger("engine").WithRunID("run-1").WithStage("install").Info("hello")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json log: %v (%q)", err, buf.String())
	}
	if entry["component"] != "engine" || entry["run_id"] != "run-1" || entry["stage"] != "install" {
		t.Errorf("unexpected fields: %v", entry)
	}
	if entry["message"] != "hello" {
		t.Errorf("message = %v", entry["message"])
	}
}

func TestLoggerContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(LoggingConfig{Level: "info", Format: "json"}, &buf)

	ctx := logger.WithContext(context.Background())
	if FromContext(ctx) != logger {
		t.Error("expected logger from context")
	}
	if FromContext(context.Background()) == nil {
		t.Error("expected fallback logger")
	}
}

func TestMetricsRecord(t *testing.T) {
	cfg := DefaultConfig().Metrics
	cfg.TextfilePath = filepath.Join(t.TempDir(), "badgesort.prom")

	m, err := NewMetrics(cfg)
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}

	m.RecordStage("install", "succeeded", 2*time.Second)
	m.RecordStage("execute", "failed", time.Second)
	m.RecordError("execution")
	m.RecordRunCompleted("failed", 3*time.Second)
	m.SetArgumentCount(5)

	if got := testutil.ToFloat64(m.stagesExecuted.WithLabelValues("install", "succeeded")); got != 1 {
		t.Errorf("stages executed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.errorsByKind.WithLabelValues("execution")); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.argumentCount); got != 5 {
		t.Errorf("argument count = %v, want 5", got)
	}

	if err := m.WriteTextfile(); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}
	data, err := os.ReadFile(cfg.TextfilePath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `badgesort_runs_completed_total{status="failed"} 1`) {
		t.Errorf("textfile missing run counter:\n%s", data)
	}
}

func TestMetricsDisabled(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{Enabled: false, TextfilePath: "/nonexistent/x.prom"})
	if err != nil {
		t.Fatal(err)
	}
	m.RecordStage("install", "succeeded", time.Second)
	m.RecordError("install")
	m.RecordRunCompleted("succeeded", time.Second)
	if err := m.WriteTextfile(); err != nil {
		t.Errorf("disabled metrics should not write: %v", err)
	}
	if m.Registry() != nil {
		t.Error("disabled metrics should have no registry")
	}
}

func TestEventPublisher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	ep, err := NewEventPublisher(EventsConfig{Enabled: true, Path: path})
	if err != nil {
		t.Fatalf("NewEventPublisher failed: %v", err)
	}

	var failures []Event
	ep.Subscribe(func(e Event) { failures = append(failures, e) }, func(e Event) bool {
		return e.Level == EventLevelError
	})
	var starts []Event
	ep.Subscribe(func(e Event) { starts = append(starts, e) }, func(e Event) bool {
		return e.Type == EventTypeStageStarted
	})

	ep.PublishRunStarted("run-1", "v2")
	ep.PublishStageStarted("run-1", "install")
	ep.PublishStageFailed("run-1", "install", "boom")
	ep.PublishRunFailed("run-1", "boom")

	if len(failures) != 2 {
		t.Errorf("failures = %d, want 2", len(failures))
	}
	if len(starts) != 1 || starts[0].Stage != "install" {
		t.Errorf("starts = %+v", starts)
	}
	if starts[0].ID == "" || starts[0].Timestamp.IsZero() {
		t.Error("expected generated ID and timestamp")
	}

	if err := ep.Shutdown(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Event
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("bad event line: %v", err)
		}
		lines++
	}
	if lines != 4 {
		t.Errorf("event lines = %d, want 4", lines)
	}
}

func TestEventPublisherDisabled(t *testing.T) {
	ep, err := NewEventPublisher(EventsConfig{Enabled: false})
	if err != nil {
		t.Fatal(err)
	}
	called := false
	ep.Subscribe(func(Event) { called = true }, nil)
	ep.PublishRunStarted("run-1", "v2")
	if called {
		t.Error("disabled publisher should not deliver")
	}
}

func TestStageScope(t *testing.T) {
	tel := NewNoop()
	m, _ := NewMetrics(DefaultConfig().Metrics)
	tel.Metrics = m
	tel.Events, _ = NewEventPublisher(EventsConfig{Enabled: true})

	var types []string
	tel.Events.Subscribe(func(e Event) { types = append(types, e.Type) }, nil)

	scope := tel.StartStage(context.Background(), "run-1", "execute")
	if TraceID(scope.Ctx) == "" {
		t.Error("expected a span in the stage context")
	}
	scope.End(errors.New("exit 1"))

	want := []string{EventTypeStageStarted, EventTypeStageFailed}
	if strings.Join(types, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", types, want)
	}
	if got := testutil.ToFloat64(m.stagesExecuted.WithLabelValues("execute", "failed")); got != 1 {
		t.Errorf("stage counter = %v, want 1", got)
	}
	if err := tel.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestRecordFailure(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer provider.Shutdown(context.Background())

	_, span := provider.Tracer("test").Start(context.Background(), "run")
	RecordFailure(span, errors.New("boom"), "install")
	span.End()

	ended := sr.Ended()
	if len(ended) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(ended))
	}
	if got := ended[0].Status(); got.Code != codes.Error || got.Description != "boom" {
		t.Errorf("status = %+v", got)
	}
	var kind string
	for _, attr := range ended[0].Attributes() {
		if attr.Key == AttrErrorKind {
			kind = attr.Value.AsString()
		}
	}
	if kind != "install" {
		t.Errorf("error.kind = %q, want install", kind)
	}
}
