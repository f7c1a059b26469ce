package commands

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/badgesort/badgesort-action/pkg/telemetry"
)

// defaultExportTimeout bounds the telemetry flush when none is configured.
const defaultExportTimeout = 10 * time.Second

func newRunCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the step (the default when no command is given)",
		Long: `Run the step: provision the runtime, install dependencies, translate
the inputs and execute the icon script. Stages run strictly in order and the
first failure stops the run.`,
		Example: `  # Run with the long-flag grammar
  INPUT_SLUGS=github badgesort-action run

  # Use the deprecated short-flag grammar
  badgesort-action run --schema v1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStep(cmd, opts)
		},
	}
}

func runStep(cmd *cobra.Command, opts *globalOptions) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	tel, err := telemetry.NewTelemetry(cfg.Telemetry(opts.version))
	if err != nil {
		return err
	}
	defer func() {
		timeout := tel.Config.Tracing.ExportTimeout
		if timeout <= 0 {
			timeout = defaultExportTimeout
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := tel.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to flush telemetry")
		}
	}()

	orch, err := newOrchestrator(cfg, tel, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	_, err = orch.Execute(cmd.Context())
	return err
}
