package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerHistoryResource(srv, svc)
	registerReportTemplate(srv, svc)
	registerTemplateResource(srv, svc)
}

func registerHistoryResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"daily://history",
		"History",
		mcp.WithResourceDescription("All stored daily reports, most recent first."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		summaries, err := svc.ListHistory(ctx, 0)
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"reports": summaries,
			"count":   len(summaries),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerReportTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"daily://history/{id}",
		"Report",
		mcp.WithTemplateDescription("A single stored report with its full text."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := resourceArgument(request.Params.Arguments["id"])
		if id == "" {
			return nil, fmt.Errorf("report id is required")
		}

		dto, err := svc.GetHistory(ctx, id)
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"report": dto,
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerTemplateResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"daily://template",
		"Template",
		mcp.WithResourceDescription("Ordered report sections with their titles and keys."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		tmpl, err := svc.Template()
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"sections": tmpl,
		})
	})
}

// resourceArgument unwraps a URI template variable, which may arrive as a
// string or a single-element list.
func resourceArgument(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		if len(val) > 0 {
			return val[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
