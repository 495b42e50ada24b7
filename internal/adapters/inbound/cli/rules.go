package cli

import (
	"fmt"

	"github.com/abdidvp/storediag/internal/adapters/outbound/config"
	"github.com/abdidvp/storediag/internal/adapters/outbound/tui"
	"github.com/abdidvp/storediag/internal/application"
	"github.com/spf13/cobra"
)

func newRulesCmd(f *rootFlags) *cobra.Command {
	var (
		validate   bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print or validate the diagnostic rule table",
		Long:  "Print the active rule table from " + config.FileName + " (or the defaults). With --validate, only check the file and report problems.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := f.loadSettings()
			if err != nil {
				return err
			}
			cfg, err := f.loadConfig(s)
			if err != nil {
				return err
			}
			// Build the pipeline so grader and template errors surface too.
			if _, err := application.NewPipeline(cfg); err != nil {
				return err
			}

			switch {
			case validate:
				fmt.Fprintf(cmd.OutOrStdout(), "%s is valid (%d rules)\n", config.Path(s.ConfigDir), len(cfg.Rules))
			case jsonOutput:
				return renderJSON(cmd, cfg)
			default:
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderRules(cfg))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&validate, "validate", false, "Only validate the configuration")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the configuration as JSON")
	return cmd
}
