package mcp

import (
	"github.com/abdidvp/storediag/internal/application"
	"github.com/mark3labs/mcp-go/server"
)

// Services are the application services the MCP surface exposes.
type Services struct {
	Pipeline   *application.Pipeline
	Diagnostic *application.DiagnosticService
	Workflow   *application.WorkflowService
	Batch      *application.BatchService
}

// NewStorediagMCPServer creates an MCP server with every storediag tool and
// resource registered.
func NewStorediagMCPServer(svc Services, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"storediag",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, svc)
	registerResources(s, svc)

	return s
}
