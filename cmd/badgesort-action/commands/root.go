package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/badgesort/badgesort-action/pkg/config"
	"github.com/badgesort/badgesort-action/pkg/telemetry"
)

// globalOptions holds the flags shared by every command. Flags override the
// matching environment settings only when given explicitly.
type globalOptions struct {
	schema   string
	strict   bool
	logLevel string
	manifest string

	version string
}

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	opts := &globalOptions{version: version}

	rootCmd := &cobra.Command{
		Use:   "badgesort-action",
		Short: "BadgeSort pipeline step",
		Long: `badgesort-action runs the BadgeSort icon script as a pipeline step.

A run provisions the Python runtime from the runner's tool cache, installs
the vendored dependencies offline, translates the step's INPUT_* variables
into script arguments and runs the script. Any failure marks the step
failed with a single ::error:: line.

Argument schemas:
  v2  long flags (--slugs=..., --badge-style=...), the default
  v1  short flag/value pairs (-s ... -f ...), deprecated`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStep(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.schema, "schema", "", "argument schema, v1 or v2 (env BADGESORT_SCHEMA)")
	rootCmd.PersistentFlags().BoolVar(&opts.strict, "strict", false, "validate inputs before translating (env BADGESORT_STRICT)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (env BADGESORT_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&opts.manifest, "manifest", "", "action.yml supplying input defaults (env BADGESORT_MANIFEST)")

	rootCmd.AddCommand(newRunCommand(opts))
	rootCmd.AddCommand(newTranslateCommand(opts))
	rootCmd.AddCommand(newValidateCommand(opts))

	return rootCmd
}

// loadConfig reads the step configuration and applies explicit flags.
func loadConfig(cmd *cobra.Command, opts *globalOptions) (*config.StepConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("schema") {
		cfg.Schema = opts.schema
	}
	if flags.Changed("strict") {
		cfg.Strict = opts.strict
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("manifest") {
		cfg.Manifest = opts.manifest
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configureLogging(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	return cfg, nil
}

// configureLogging points the global logger used by the stage packages at w
// in the configured format.
func configureLogging(w io.Writer, format, level string) {
	if format == "json" {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}
	zerolog.SetGlobalLevel(telemetry.ParseLevel(level))
}
