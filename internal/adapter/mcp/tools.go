package mcp

import (
	"context"
	"encoding/json"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/voxpilot/voxpilot/internal/domain/dispatch"
	"github.com/voxpilot/voxpilot/internal/domain/prompt"
)

// registerTools registers all MCP tools on the server.
func (s *Server) registerTools() {
	s.mcpServer.AddTools(
		s.textToPromptTool(),
		s.getUsageStatsTool(),
		s.listDispatchTargetsTool(),
	)
}

func (s *Server) textToPromptTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("text_to_prompt",
		mcplib.WithDescription("Convert a rough utterance into a structured, intent-specific coding prompt"),
		mcplib.WithString("text",
			mcplib.Required(),
			mcplib.Description("The raw utterance to convert"),
		),
		mcplib.WithString("active_file",
			mcplib.Description("Path of the file open in the editor"),
		),
		mcplib.WithString("selected_code",
			mcplib.Description("Code currently selected in the editor"),
		),
		mcplib.WithNumber("cursor_line",
			mcplib.Description("Cursor line in the active file"),
		),
		mcplib.WithString("ide_type",
			mcplib.Description("Editor in use: cursor, vscode, windsurf or other"),
		),
	)
	return mcpserver.ServerTool{
		Tool:    tool,
		Handler: s.handleTextToPrompt,
	}
}

func (s *Server) getUsageStatsTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("get_usage_stats",
		mcplib.WithDescription("Get today's prompt usage, the remaining AI quota and the time until reset"),
	)
	return mcpserver.ServerTool{
		Tool:    tool,
		Handler: s.handleGetUsageStats,
	}
}

func (s *Server) listDispatchTargetsTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("list_dispatch_targets",
		mcplib.WithDescription("List AI tools a composed prompt can be dispatched to"),
	)
	return mcpserver.ServerTool{
		Tool:    tool,
		Handler: s.handleListDispatchTargets,
	}
}

func (s *Server) handleTextToPrompt(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	if s.deps.Composer == nil {
		return mcplib.NewToolResultError("pipeline not configured"), nil
	}
	args := req.GetArguments()
	text, ok := args["text"].(string)
	if !ok || text == "" {
		return mcplib.NewToolResultError("text is required"), nil
	}

	ide := prompt.IDEContext{IDEType: prompt.IDEOther}
	if v, ok := args["active_file"].(string); ok {
		ide.ActiveFile = v
	}
	if v, ok := args["selected_code"].(string); ok {
		ide.SelectedCode = v
	}
	if v, ok := args["cursor_line"].(float64); ok {
		ide.CursorLine = int(v)
		ide.HasCursorLine = true
	}
	if v, ok := args["ide_type"].(string); ok {
		ide.IDEType = prompt.ParseIDEType(v)
	}

	result := s.deps.Composer.ProcessText(ctx, text, ide)
	data, err := json.Marshal(result)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to marshal result", err), nil
	}
	return toolResultJSON(string(data)), nil
}

func (s *Server) handleGetUsageStats(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	if s.deps.Usage == nil {
		return mcplib.NewToolResultError("usage tracker not configured"), nil
	}
	payload := struct {
		Stats   any `json:"stats"`
		ResetIn any `json:"resetIn"`
	}{
		Stats:   s.deps.Usage.Stats(),
		ResetIn: s.deps.Usage.TimeUntilReset(),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to marshal usage stats", err), nil
	}
	return toolResultJSON(string(data)), nil
}

func (s *Server) handleListDispatchTargets(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	data, err := json.Marshal(dispatch.Providers())
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to marshal providers", err), nil
	}
	return toolResultJSON(string(data)), nil
}

// toolResultJSON wraps a JSON string as a text tool result.
func toolResultJSON(data string) *mcplib.CallToolResult {
	return mcplib.NewToolResultText(data)
}
