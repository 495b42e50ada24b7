package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// registerTools registers all storediag MCP tools on the given server.
func registerTools(s *server.MCPServer, svc Services) {
	// 1. storediag_diagnose
	s.AddTool(
		mcplib.NewTool("storediag_diagnose",
			mcplib.WithDescription("Diagnose one store: load its report, score the four indices, evaluate rules and persist the result"),
			mcplib.WithString("store_code",
				mcplib.Required(),
				mcplib.Description("Store code, e.g. S001"),
			),
		),
		handleDiagnose(svc),
	)

	// 2. storediag_workflow
	s.AddTool(
		mcplib.NewTool("storediag_workflow",
			mcplib.WithDescription("Run the full workflow for one store (diagnosis plus marketing strategies and KPI estimates). Node failures are reported in errors, never as a tool failure"),
			mcplib.WithString("store_code",
				mcplib.Required(),
				mcplib.Description("Store code, e.g. S001"),
			),
		),
		handleWorkflow(svc),
	)

	// 3. storediag_get_result
	s.AddTool(
		mcplib.NewTool("storediag_get_result",
			mcplib.WithDescription("Returns the last persisted diagnostic result for a store"),
			mcplib.WithString("store_code",
				mcplib.Required(),
				mcplib.Description("Store code, e.g. S001"),
			),
		),
		handleGetResult(svc),
	)

	// 4. storediag_list_rules
	s.AddTool(
		mcplib.NewTool("storediag_list_rules",
			mcplib.WithDescription("Returns the active rule table with explanations, actions and grade bands"),
		),
		handleListRules(svc),
	)
}

func handleDiagnose(svc Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		code, err := request.RequireString("store_code")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		out := svc.Batch.Diagnose(ctx, code)
		if out.Err != nil {
			return errorResult(fmt.Sprintf("diagnosis failed: %v", out.Err)), nil
		}
		return jsonResult(out)
	}
}

func handleWorkflow(svc Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		code, err := request.RequireString("store_code")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(svc.Workflow.Run(ctx, code))
	}
}

func handleGetResult(svc Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		code, err := request.RequireString("store_code")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		res, err := svc.Diagnostic.Result(ctx, code)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		if res == nil {
			return errorResult(fmt.Sprintf("no result for store %s (run storediag_diagnose first)", code)), nil
		}
		return jsonResult(res)
	}
}

func handleListRules(svc Services) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		return jsonResult(svc.Pipeline.Config)
	}
}

// jsonResult marshals v to indented JSON and returns it as a text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
