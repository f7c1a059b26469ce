package commands

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/badgesort/badgesort-action/pkg/engine"
	"github.com/badgesort/badgesort-action/pkg/inputs"
)

func newTranslateCommand(opts *globalOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Print the script arguments the current inputs translate to",
		Long: `Read the INPUT_* variables and print the argument vector the icon
script would receive, one quoted token per line. Nothing is provisioned,
installed or executed.`,
		Example: `  # Show the v2 arguments
  INPUT_SLUGS=$'github\ngo' badgesort-action translate

  # Compare with the v1 grammar as JSON
  badgesort-action translate --schema v1 --json`,
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
			tr, err := newTranslator(cfg)
			if err != nil {
				return err
			}

			orch := &engine.Orchestrator{Inputs: inputs.NewReader(manifest), Translator: tr}
			_, argv, err := orch.Translate()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]interface{}{
					"schema": tr.Schema(),
					"args":   argv,
				})
			}
			for _, tok := range argv {
				if _, err := fmt.Fprintln(out, strconv.Quote(tok)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	return cmd
}
