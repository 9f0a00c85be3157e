package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/clarify/internal/api"
	"github.com/HendryAvila/clarify/internal/service"
	"github.com/mark3labs/mcp-go/mcp"
)

// GenerateTool handles the clarify_generate_code MCP tool.
type GenerateTool struct {
	svc *service.Service
}

// NewGenerateTool creates a GenerateTool.
func NewGenerateTool(svc *service.Service) *GenerateTool {
	return &GenerateTool{svc: svc}
}

// Definition returns the MCP tool definition for clarify_generate_code.
func (t *GenerateTool) Definition() mcp.Tool {
	return mcp.NewTool("clarify_generate_code",
		mcp.WithDescription(
			"Produce a code skeleton for a clarified thread. The skeleton records the goal, "+
				"the constraints and everything the user said on the thread.",
		),
		mcp.WithString("thread_id",
			mcp.Required(),
			mcp.Description("Thread returned by clarify_dialogue"),
		),
		mcp.WithString("goal",
			mcp.Required(),
			mcp.Description("What the code should do, in one sentence"),
		),
		mcp.WithObject("constraints",
			mcp.Description("Agreed constraints, e.g. {\"timeout\": \"5s\", \"python\": \"3.11\"}"),
		),
	)
}

// Handle processes the clarify_generate_code tool call.
func (t *GenerateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	threadID := strings.TrimSpace(req.GetString("thread_id", ""))
	if threadID == "" {
		return mcp.NewToolResultError("'thread_id' is required"), nil
	}
	goal := req.GetString("goal", "")
	if strings.TrimSpace(goal) == "" {
		return mcp.NewToolResultError("'goal' is required"), nil
	}

	resp, err := t.svc.GenerateCode(ctx, api.GenerateRequest{
		ThreadID:    threadID,
		Goal:        goal,
		Constraints: objectArg(req, "constraints"),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generate failed: %v", err)), nil
	}

	var b strings.Builder
	b.WriteString("```\n")
	b.WriteString(resp.Code)
	if !strings.HasSuffix(resp.Code, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n\n")
	fmt.Fprintf(&b, "**Rationale**: %s\n", resp.Rationale)
	if resp.Tests != nil {
		fmt.Fprintf(&b, "\n**Tests**:\n```\n%s\n```\n", *resp.Tests)
	}

	return withFooter(b.String()), nil
}
