package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"github.com/badgesort/badgesort-action/pkg/telemetry"
)

// Load reads the step configuration from the process environment.
func Load() (*StepConfig, error) {
	return LoadFrom(nil)
}

// LoadFrom reads the step configuration from environ (os.Environ form).
// A nil environ reads the process environment.
func LoadFrom(environ []string) (*StepConfig, error) {
	var cfg StepConfig

	opts := env.Options{}
	if environ != nil {
		opts.Environment = toMap(environ)
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, err
	}
	if cfg.RunnerDebug {
		cfg.LogLevel = "debug"
	}

	return &cfg, nil
}

// resolvePaths fills the file locations derived from the action path.
func (c *StepConfig) resolvePaths() error {
	if c.ActionPath == "" {
		c.ActionPath = c.GitHubActionPath
	}
	if c.ActionPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve action path: %w", err)
		}
		c.ActionPath = wd
	}

	src := filepath.Join(c.ActionPath, "src")
	if c.Script == "" {
		c.Script = filepath.Join(src, "icons.py")
	}
	if c.Requirements == "" {
		c.Requirements = filepath.Join(src, "requirements.txt")
	}
	if c.VendorDir == "" {
		c.VendorDir = filepath.Join(c.ActionPath, "vendor")
	}
	return nil
}

// Validate checks the configuration against its struct rules.
func (c *StepConfig) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Value: fmt.Sprint(fe.Value()),
		})
	}
	return out
}

// Telemetry builds the telemetry configuration for this step.
func (c *StepConfig) Telemetry(version string) *telemetry.Config {
	cfg := telemetry.DefaultConfig()
	cfg.ServiceVersion = version
	cfg.Logging.Level = c.LogLevel
	cfg.Logging.Format = c.LogFormat
	cfg.Tracing.Exporter = c.TraceExporter
	cfg.Tracing.Endpoint = c.TraceEndpoint
	cfg.Tracing.ExportTimeout = c.TraceTimeout
	cfg.Metrics.TextfilePath = c.MetricsFile
	cfg.Events.Path = c.EventsFile
	return cfg
}

func toMap(environ []string) map[string]string {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		vars[k] = v
	}
	return vars
}
