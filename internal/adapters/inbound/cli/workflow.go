package cli

import (
	"context"
	"fmt"

	"github.com/abdidvp/storediag/internal/adapters/outbound/tui"
	"github.com/spf13/cobra"
)

func newWorkflowCmd(f *rootFlags) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "workflow <store-code>",
		Short: "Run diagnosis and marketing planning for one store",
		Long:  "Run every workflow node for a store. A failing node is recorded in the output and the run continues.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, f, func(ctx context.Context, a *app) error {
				st := a.workflow.Run(ctx, args[0])
				if jsonOutput {
					return renderJSON(cmd, st)
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderWorkflow(st))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the pipeline state as JSON")
	return cmd
}
