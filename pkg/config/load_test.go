package config

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom([]string{"GITHUB_ACTION_PATH=/actions/badgesort"})
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.ActionPath != "/actions/badgesort" {
		t.Errorf("action path = %q", cfg.ActionPath)
	}
	if cfg.Script != filepath.Join("/actions/badgesort", "src", "icons.py") {
		t.Errorf("script = %q", cfg.Script)
	}
	if cfg.Requirements != filepath.Join("/actions/badgesort", "src", "requirements.txt") {
		t.Errorf("requirements = %q", cfg.Requirements)
	}
	if cfg.VendorDir != filepath.Join("/actions/badgesort", "vendor") {
		t.Errorf("vendor dir = %q", cfg.VendorDir)
	}
	if cfg.PythonVersion != "3.8.x" || cfg.PythonArch != "x64" {
		t.Errorf("python = %s/%s", cfg.PythonVersion, cfg.PythonArch)
	}
	if cfg.Schema != "v2" {
		t.Errorf("schema = %q, want v2", cfg.Schema)
	}
	if cfg.ToolCache != "/opt/hostedtoolcache" {
		t.Errorf("tool cache = %q", cfg.ToolCache)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromOverrides(t *testing.T) {
	cfg, err := LoadFrom([]string{
		"BADGESORT_ACTION_PATH=/a",
		"GITHUB_ACTION_PATH=/ignored",
		"BADGESORT_SCRIPT=/custom/icons.py",
		"BADGESORT_SCHEMA=v1",
		"BADGESORT_STRICT=true",
		"RUNNER_TOOL_CACHE=/cache",
		"RUNNER_DEBUG=1",
		"GITHUB_OUTPUT=/tmp/out",
	})
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.ActionPath != "/a" || cfg.Script != "/custom/icons.py" {
		t.Errorf("paths = %q %q", cfg.ActionPath, cfg.Script)
	}
	if cfg.Schema != "v1" || !cfg.Strict {
		t.Errorf("schema/strict = %q/%v", cfg.Schema, cfg.Strict)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("RUNNER_DEBUG should force debug, got %q", cfg.LogLevel)
	}
	if cfg.OutputFile != "/tmp/out" || cfg.ToolCache != "/cache" {
		t.Errorf("output/cache = %q/%q", cfg.OutputFile, cfg.ToolCache)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		env   []string
		field string
	}{
		{name: "unknown schema", env: []string{"BADGESORT_SCHEMA=v3"}, field: "Schema"},
		{name: "bad arch", env: []string{"BADGESORT_PYTHON_ARCH=mips"}, field: "PythonArch"},
		{name: "otlp without endpoint", env: []string{"BADGESORT_TRACE_EXPORTER=otlp"}, field: "TraceEndpoint"},
		{name: "bad log format", env: []string{"BADGESORT_LOG_FORMAT=xml"}, field: "LogFormat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFrom(append([]string{"BADGESORT_ACTION_PATH=/a"}, tt.env...))
			if err != nil {
				t.Fatalf("LoadFrom failed: %v", err)
			}

			err = cfg.Validate()
			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if verrs[0].Field != tt.field {
				t.Errorf("field = %q, want %q", verrs[0].Field, tt.field)
			}
		})
	}
}

func TestTelemetryConfig(t *testing.T) {
	cfg, err := LoadFrom([]string{
		"BADGESORT_ACTION_PATH=/a",
		"BADGESORT_LOG_FORMAT=json",
		"BADGESORT_METRICS_FILE=/tmp/m.prom",
		"BADGESORT_TRACE_TIMEOUT=3s",
	})
	if err != nil {
		t.Fatal(err)
	}

	tc := cfg.Telemetry("1.2.3")
	if tc.ServiceVersion != "1.2.3" || tc.Logging.Format != "json" || tc.Metrics.TextfilePath != "/tmp/m.prom" {
		t.Errorf("unexpected telemetry config: %+v", tc)
	}
	if tc.Tracing.ExportTimeout != 3*time.Second {
		t.Errorf("export timeout = %s, want 3s", tc.Tracing.ExportTimeout)
	}
	if err := tc.Validate(); err != nil {
		t.Errorf("telemetry config invalid: %v", err)
	}
}
