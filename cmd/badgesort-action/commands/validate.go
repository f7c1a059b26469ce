package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/badgesort/badgesort-action/pkg/engine"
	"github.com/badgesort/badgesort-action/pkg/inputs"
	"github.com/badgesort/badgesort-action/pkg/translate"
)

func newValidateCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the step configuration and inputs without running anything",
		Long: `Validate the step configuration and the INPUT_* variables.

This command checks:
  - step settings (schema, architecture, exporters)
  - the input manifest
  - required inputs and boolean syntax
  - strict input rules (format, random, style)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			manifest, err := loadManifest(cfg)
			if err != nil {
				return err
			}

			in, err := inputs.NewReader(manifest).Read()
			if err != nil {
				return engine.NewInputError("failed to read inputs", err)
			}

			tr, err := newTranslator(cfg)
			if err != nil {
				return err
			}
			if err := translate.NewStrict(tr).Validate(in); err != nil {
				return engine.NewTranslationError("invalid inputs", err)
			}

			log.Info().
				Str("schema", cfg.Schema).
				Bool("strict", cfg.Strict).
				Msg("Configuration is valid")

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "configuration valid")
			return err
		},
	}
}
