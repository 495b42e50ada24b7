package cli

import (
	"context"

	mcpadapter "github.com/abdidvp/storediag/internal/adapters/inbound/mcp"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the storediag MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(f))
	return cmd
}

func newMCPServeCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the storediag MCP server (stdio)",
		Long:  "Start the storediag MCP server using stdio transport so assistants can diagnose stores and read results.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, f, func(_ context.Context, a *app) error {
				s := mcpadapter.NewStorediagMCPServer(mcpadapter.Services{
					Pipeline:   a.pipeline,
					Diagnostic: a.diagnostic,
					Workflow:   a.workflow,
					Batch:      a.batch,
				}, version)
				return server.ServeStdio(s)
			})
		},
	}
}
