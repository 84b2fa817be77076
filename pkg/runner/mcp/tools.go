package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/daily/pkg/report"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerNormalizeTool(srv, svc)
	registerGenerateTool(srv, svc)
	registerListHistoryTool(srv, svc)
	registerGetHistoryTool(srv, svc)
	registerDeleteHistoryTool(srv, svc)
	registerSuggestTool(srv, svc)
}

func registerNormalizeTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"normalize_text",
		mcp.WithDescription("Label each non-blank line with a bullet marker (a., b., ... 11., ... ①)."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Free text, one item per line."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(svc.Normalize(text)), nil
	})
}

func registerGenerateTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"generate_report",
		mcp.WithDescription("Compose a daily report, store it in history and carry its tomorrow plan forward."),
		mcp.WithString("user",
			mcp.Required(),
			mcp.Description("Name of the person reporting."),
		),
		mcp.WithString("dept",
			mcp.Required(),
			mcp.Description("Department of the person reporting."),
		),
		mcp.WithString("date",
			mcp.Description("Report date, YYYY-MM-DD or today/yesterday. Defaults to today."),
		),
		mcp.WithString(report.KeyToday,
			mcp.Description("Work completed today, one item per line. Empty uses yesterday's plan."),
		),
		mcp.WithString(report.KeyTomorrow,
			mcp.Description("Plan for tomorrow, one item per line."),
		),
		mcp.WithString(report.KeyProblems,
			mcp.Description("Problems or help needed."),
		),
		mcp.WithObject("fields",
			mcp.Description("Additional section text keyed by template section key."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			User     string            `json:"user"`
			Dept     string            `json:"dept"`
			Date     string            `json:"date"`
			Today    string            `json:"today_work"`
			Tomorrow string            `json:"tomorrow_plan"`
			Problems string            `json:"problems"`
			Fields   map[string]string `json:"fields"`
		}

		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		fields := make(map[string]string, len(args.Fields)+3)
		for k, v := range args.Fields {
			fields[k] = v
		}
		for k, v := range map[string]string{
			report.KeyToday:    args.Today,
			report.KeyTomorrow: args.Tomorrow,
			report.KeyProblems: args.Problems,
		} {
			if strings.TrimSpace(v) != "" {
				fields[k] = v
			}
		}

		dto, err := svc.Generate(ctx, GenerateOptions{
			User:   args.User,
			Dept:   args.Dept,
			Date:   args.Date,
			Fields: fields,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerListHistoryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_history",
		mcp.WithDescription("List stored reports, most recent first."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of reports to return (default 20, 0 for all)."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := request.GetInt("limit", 20)
		summaries, err := svc.ListHistory(ctx, limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"reports": summaries,
			"count":   len(summaries),
		})
	})
}

func registerGetHistoryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_history",
		mcp.WithDescription("Fetch a stored report by id or by its 1-based index in list_history."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Report id (user_dept_date) or index."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.GetHistory(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerDeleteHistoryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_history",
		mcp.WithDescription("Delete a stored report. Unknown ids are ignored."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Report id (user_dept_date) or index."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		deleted, err := svc.DeleteHistory(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"deleted": deleted,
			"found":   deleted != "",
		})
	})
}

func registerSuggestTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"suggest",
		mcp.WithDescription("Writing advice for report text."),
		mcp.WithString("text",
			mcp.Description("Report text to review."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text := request.GetString("text", "")
		return toJSONResult(map[string]any{
			"suggestions": svc.Suggest(text),
		})
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
