package telemetry

import (
	"fmt"
	"time"
)

// Config contains the telemetry configuration for one step run.
type Config struct {
	// ServiceName is the name reported on traces and metrics.
	ServiceName string

	// ServiceVersion is the version of the binary.
	ServiceVersion string

	// Logging contains logging configuration.
	Logging LoggingConfig

	// Tracing contains tracing configuration.
	Tracing TracingConfig

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig

	// Events contains event publishing configuration.
	Events EventsConfig
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level sets the minimum log level (trace, debug, info, warn, error, fatal).
	Level string

	// Format specifies the log format (console, json).
	Format string

	// Output specifies where logs are written (stdout, stderr).
	Output string
}

// TracingConfig configures tracing.
type TracingConfig struct {
	// Exporter specifies the trace exporter (none, stdout, otlp).
	Exporter string

	// Endpoint is the OTLP collector endpoint.
	Endpoint string

	// Insecure disables TLS for the OTLP connection.
	Insecure bool

	// ExportTimeout bounds the final flush at shutdown.
	ExportTimeout time.Duration
}

// MetricsConfig configures metrics collection.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected.
	Enabled bool

	// Namespace is the metrics namespace prefix.
	Namespace string

	// TextfilePath receives the metrics in text exposition format at
	// shutdown, for node_exporter's textfile collector. Empty disables it.
	TextfilePath string

	// DefaultHistogramBuckets are the duration buckets in seconds.
	DefaultHistogramBuckets []float64
}

// EventsConfig configures the event publisher.
type EventsConfig struct {
	// Enabled controls whether events are published.
	Enabled bool

	// Path receives every event as a JSON line. Empty disables the file sink.
	Path string
}

// DefaultConfig returns a default telemetry configuration.
func DefaultConfig() *Config {
	return &Config{
		ServiceName:    "badgesort-action",
		ServiceVersion: "dev",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
		Tracing: TracingConfig{
			Exporter:      "none",
			Insecure:      true,
			ExportTimeout: 10 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "badgesort",
			DefaultHistogramBuckets: []float64{
				0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300,
			},
		},
		Events: EventsConfig{
			Enabled: true,
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service name is required")
	}

	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true,
	}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'console' or 'json')", c.Logging.Format)
	}

	switch c.Tracing.Exporter {
	case "none", "stdout":
	case "otlp":
		if c.Tracing.Endpoint == "" {
			return fmt.Errorf("trace endpoint is required for the otlp exporter")
		}
	default:
		return fmt.Errorf("invalid trace exporter: %s", c.Tracing.Exporter)
	}

	return nil
}
