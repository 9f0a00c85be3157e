package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/clarify/internal/api"
	"github.com/HendryAvila/clarify/internal/projectmem"
	"github.com/HendryAvila/clarify/internal/service"
	"github.com/mark3labs/mcp-go/mcp"
)

// MemoryListTool handles the clarify_memory_list MCP tool.
type MemoryListTool struct {
	svc *service.Service
}

// NewMemoryListTool creates a MemoryListTool.
func NewMemoryListTool(svc *service.Service) *MemoryListTool {
	return &MemoryListTool{svc: svc}
}

// Definition returns the MCP tool definition for clarify_memory_list.
func (t *MemoryListTool) Definition() mcp.Tool {
	return mcp.NewTool("clarify_memory_list",
		mcp.WithDescription(
			"List the project memory: facts the user already settled (language, frameworks, "+
				"limits). Check it before asking a question the project already answered.",
		),
		mcp.WithString("project_id",
			mcp.Description("Project to list (default: default)"),
		),
	)
}

// Handle processes the clarify_memory_list tool call.
func (t *MemoryListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp, err := t.svc.ListMemory(ctx, req.GetString("project_id", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list memory: %v", err)), nil
	}
	return mcp.NewToolResultText(renderEntries(resp.ProjectID, resp.Items)), nil
}

// MemoryUpsertTool handles the clarify_memory_upsert MCP tool.
type MemoryUpsertTool struct {
	svc *service.Service
}

// NewMemoryUpsertTool creates a MemoryUpsertTool.
func NewMemoryUpsertTool(svc *service.Service) *MemoryUpsertTool {
	return &MemoryUpsertTool{svc: svc}
}

// Definition returns the MCP tool definition for clarify_memory_upsert.
func (t *MemoryUpsertTool) Definition() mcp.Tool {
	return mcp.NewTool("clarify_memory_upsert",
		mcp.WithDescription(
			"Save one settled fact to project memory. Writing an existing key replaces its value.",
		),
		mcp.WithString("key",
			mcp.Required(),
			mcp.Description("Short identifier, e.g. 'python_version'"),
		),
		mcp.WithString("value",
			mcp.Required(),
			mcp.Description("The settled value"),
		),
		mcp.WithString("project_id",
			mcp.Description("Project to write (default: default)"),
		),
	)
}

// Handle processes the clarify_memory_upsert tool call.
func (t *MemoryUpsertTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key := req.GetString("key", "")
	if strings.TrimSpace(key) == "" {
		return mcp.NewToolResultError("'key' is required"), nil
	}

	resp, err := t.svc.UpsertMemory(ctx, api.MemoryUpsertRequest{
		ProjectID: req.GetString("project_id", ""),
		Key:       key,
		Value:     req.GetString("value", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save memory: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Saved %q.\n\n%s", key, renderEntries(resp.ProjectID, resp.Items))), nil
}

func renderEntries(project string, items []projectmem.Entry) string {
	if len(items) == 0 {
		return fmt.Sprintf("No memory saved for project %q yet.", project)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## Project memory: %s (%d)\n\n", project, len(items))
	for _, e := range items {
		fmt.Fprintf(&b, "- **%s**: %s\n", e.Key, e.Value)
	}
	return b.String()
}
