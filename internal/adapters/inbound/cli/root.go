package cli

import (
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "storediag",
		Short:         "Diagnose retail stores from their commercial reports",
		Long:          "storediag scores store reports on four indices (CVI, ASI, SCI, GMI), evaluates a configurable rule table and recommends prioritized actions.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	f.register(cmd)

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newDiagnoseCmd(f))
	cmd.AddCommand(newWorkflowCmd(f))
	cmd.AddCommand(newShowCmd(f))
	cmd.AddCommand(newRulesCmd(f))
	cmd.AddCommand(newHistoryCmd(f))
	cmd.AddCommand(newInitCmd(f))
	cmd.AddCommand(newMCPCmd(f))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
