package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	rulesURI           = "storediag://rules"
	resultsURITemplate = "storediag://results/{store_code}"
)

// registerResources registers all storediag MCP resources on the given server.
func registerResources(s *server.MCPServer, svc Services) {
	s.AddResource(
		mcplib.NewResource(
			rulesURI,
			"Rule Table",
			mcplib.WithResourceDescription("Active diagnostic configuration: rules, explanations, actions, grades, weights"),
			mcplib.WithMIMEType("application/json"),
		),
		handleRulesResource(svc),
	)

	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			resultsURITemplate,
			"Store Result",
			mcplib.WithTemplateDescription("Last persisted diagnostic result for a store"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		handleResultResource(svc),
	)
}

func handleRulesResource(svc Services) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		return jsonContents(rulesURI, svc.Pipeline.Config)
	}
}

func handleResultResource(svc Services) server.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		code := templateArg(request.Params.Arguments["store_code"])
		if code == "" {
			return nil, fmt.Errorf("store_code is required")
		}
		res, err := svc.Diagnostic.Result(ctx, code)
		if err != nil {
			return nil, err
		}
		if res == nil {
			return nil, fmt.Errorf("no result for store %s", code)
		}
		return jsonContents(request.Params.URI, res)
	}
}

// templateArg unwraps a URI template argument, which the server may deliver
// as a string or a single-element list.
func templateArg(v any) string {
	switch a := v.(type) {
	case string:
		return a
	case []string:
		if len(a) > 0 {
			return a[0]
		}
	case []any:
		if len(a) > 0 {
			s, _ := a[0].(string)
			return s
		}
	}
	return ""
}

func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
