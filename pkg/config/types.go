// Package config loads the step's own settings from the environment.
//
// Pipeline inputs (INPUT_*) are handled by package inputs; this package
// covers everything else: where the action's files live, which runtime to
// provision, which argument grammar to speak and how to emit telemetry.
package config

import (
	"fmt"
	"strings"
	"time"
)

// StepConfig configures one run of the step.
type StepConfig struct {
	// ActionPath is the directory holding src/ and vendor/.
	ActionPath string `env:"BADGESORT_ACTION_PATH"`

	// GitHubActionPath is the runner-provided action directory, used when
	// ActionPath is unset.
	GitHubActionPath string `env:"GITHUB_ACTION_PATH"`

	// Script is the icon script path. Defaults to <ActionPath>/src/icons.py.
	Script string `env:"BADGESORT_SCRIPT"`

	// Requirements is the pip manifest. Defaults to <ActionPath>/src/requirements.txt.
	Requirements string `env:"BADGESORT_REQUIREMENTS"`

	// VendorDir is the local package source. Defaults to <ActionPath>/vendor.
	VendorDir string `env:"BADGESORT_VENDOR_DIR"`

	// Interpreter is the program that runs the script.
	Interpreter string `env:"BADGESORT_INTERPRETER" envDefault:"python" validate:"required"`

	// PackageManager is the program that installs the requirements.
	PackageManager string `env:"BADGESORT_PACKAGE_MANAGER" envDefault:"pip" validate:"required"`

	// PythonVersion is the tool-cache version spec.
	PythonVersion string `env:"BADGESORT_PYTHON_VERSION" envDefault:"3.8.x" validate:"required"`

	// PythonArch is the tool-cache architecture.
	PythonArch string `env:"BADGESORT_PYTHON_ARCH" envDefault:"x64" validate:"required,oneof=x64 x86 arm64"`

	// ToolCache is the runner's tool cache root.
	ToolCache string `env:"RUNNER_TOOL_CACHE" envDefault:"/opt/hostedtoolcache"`

	// SkipProvision uses the interpreter found on PATH instead of the tool cache.
	SkipProvision bool `env:"BADGESORT_SKIP_PROVISION"`

	// SkipInstall skips the offline dependency installation.
	SkipInstall bool `env:"BADGESORT_SKIP_INSTALL"`

	// Schema selects the argument grammar (v1 short flags, v2 long flags).
	Schema string `env:"BADGESORT_SCHEMA" envDefault:"v2" validate:"required,oneof=v1 v2"`

	// Strict validates inputs before translating them.
	Strict bool `env:"BADGESORT_STRICT"`

	// Manifest is an action.yml supplying input defaults. Empty uses the
	// bundled manifest.
	Manifest string `env:"BADGESORT_MANIFEST"`

	// OutputFile is the runner's step output file.
	OutputFile string `env:"GITHUB_OUTPUT"`

	// RunnerDebug is set by the runner when step debug logging is enabled.
	RunnerDebug bool `env:"RUNNER_DEBUG"`

	// LogLevel sets the minimum log level.
	LogLevel string `env:"BADGESORT_LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn error"`

	// LogFormat is console or json.
	LogFormat string `env:"BADGESORT_LOG_FORMAT" envDefault:"console" validate:"oneof=console json"`

	// TraceExporter is none, stdout or otlp.
	TraceExporter string `env:"BADGESORT_TRACE_EXPORTER" envDefault:"none" validate:"oneof=none stdout otlp"`

	// TraceEndpoint is the OTLP collector address.
	TraceEndpoint string `env:"BADGESORT_TRACE_ENDPOINT" validate:"required_if=TraceExporter otlp"`

	// TraceTimeout bounds the final trace flush at exit.
	TraceTimeout time.Duration `env:"BADGESORT_TRACE_TIMEOUT" envDefault:"10s"`

	// MetricsFile receives Prometheus metrics at exit.
	MetricsFile string `env:"BADGESORT_METRICS_FILE"`

	// EventsFile receives run events as JSON lines.
	EventsFile string `env:"BADGESORT_EVENTS_FILE"`
}

// ValidationError describes one invalid setting.
type ValidationError struct {
	// Field is the setting name.
	Field string `json:"field"`

	// Rule is the failed validation rule.
	Rule string `json:"rule"`

	// Value is the offending value.
	Value string `json:"value,omitempty"`
}

// ValidationErrors collects every invalid setting.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, fmt.Sprintf("%s=%q fails %s", e.Field, e.Value, e.Rule))
	}
	return "invalid step configuration: " + strings.Join(parts, "; ")
}
