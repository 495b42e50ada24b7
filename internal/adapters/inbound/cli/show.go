package cli

import (
	"context"
	"fmt"

	"github.com/abdidvp/storediag/internal/adapters/outbound/tui"
	"github.com/spf13/cobra"
)

func newShowCmd(f *rootFlags) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <store-code>",
		Short: "Show the last persisted result for a store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, f, func(ctx context.Context, a *app) error {
				res, err := a.diagnostic.Result(ctx, args[0])
				if err != nil {
					return err
				}
				if res == nil {
					return fmt.Errorf("no result for store %s (run storediag diagnose %s)", args[0], args[0])
				}
				if jsonOutput {
					return renderJSON(cmd, res)
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderDiagnosis(nil, 0, res))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the result as JSON")
	return cmd
}
