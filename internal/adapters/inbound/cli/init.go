package cli

import (
	"fmt"

	"github.com/abdidvp/storediag/internal/adapters/outbound/config"
	"github.com/abdidvp/storediag/internal/domain"
	"github.com/spf13/cobra"
)

func newInitCmd(f *rootFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a " + config.FileName + " configuration file",
		Long:  "Write the default rule table, explanations, actions and grading to " + config.FileName + " in the config dir.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := f.loadSettings()
			if err != nil {
				return err
			}
			path, err := config.Write(s.ConfigDir, domain.DefaultConfig(), force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing "+config.FileName)
	return cmd
}
