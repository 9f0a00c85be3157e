package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/clarify/internal/api"
	"github.com/HendryAvila/clarify/internal/dialogue"
	"github.com/HendryAvila/clarify/internal/service"
	"github.com/mark3labs/mcp-go/mcp"
)

// DialogueTool handles the clarify_dialogue MCP tool.
type DialogueTool struct {
	svc *service.Service
}

// NewDialogueTool creates a DialogueTool.
func NewDialogueTool(svc *service.Service) *DialogueTool {
	return &DialogueTool{svc: svc}
}

// Definition returns the MCP tool definition for clarify_dialogue.
func (t *DialogueTool) Definition() mcp.Tool {
	return mcp.NewTool("clarify_dialogue",
		mcp.WithDescription(
			"Record one user turn on a clarification thread and get the clarifying questions it raises. "+
				"Omit thread_id to start a new thread; pass the returned thread_id on every later turn.",
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("What the user said"),
		),
		mcp.WithString("thread_id",
			mcp.Description("Thread to continue (omit to start a new one)"),
		),
		mcp.WithString("project_id",
			mcp.Description("Project the thread belongs to (default: default)"),
		),
	)
}

// Handle processes the clarify_dialogue tool call.
func (t *DialogueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content := req.GetString("content", "")
	if strings.TrimSpace(content) == "" {
		return mcp.NewToolResultError("'content' is required"), nil
	}

	var threadID *string
	if id := strings.TrimSpace(req.GetString("thread_id", "")); id != "" {
		threadID = &id
	}

	resp, err := t.svc.Dialogue(ctx, api.DialogueRequest{
		ThreadID:  threadID,
		Turn:      dialogue.Turn{Role: dialogue.RoleUser, Content: content},
		ProjectID: req.GetString("project_id", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("dialogue failed: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Thread**: %s\n", resp.ThreadID)
	fmt.Fprintf(&b, "**Next action**: %s\n\n", strings.Join(resp.NextActions, ", "))
	for _, r := range resp.Replies {
		b.WriteString(r.Content)
		b.WriteString("\n")
	}
	if len(resp.NextActions) > 0 && resp.NextActions[0] == api.ActionGenerateCode {
		fmt.Fprintf(&b, "\nCall clarify_generate_code with thread_id=%q when the user confirms.\n", resp.ThreadID)
	}

	return mcp.NewToolResultText(b.String()), nil
}
