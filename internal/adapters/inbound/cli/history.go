package cli

import (
	"fmt"

	"github.com/abdidvp/storediag/internal/adapters/outbound/history"
	"github.com/abdidvp/storediag/internal/adapters/outbound/tui"
	"github.com/spf13/cobra"
)

func newHistoryCmd(f *rootFlags) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history <store-code>",
		Short: "Show the run ledger of a store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := f.loadSettings()
			if err != nil {
				return err
			}
			entries, err := history.New(s.DataDir).Load(args[0])
			if err != nil {
				return fmt.Errorf("loading history: %w", err)
			}
			if jsonOutput {
				return renderJSON(cmd, entries)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output entries as JSON")
	return cmd
}
