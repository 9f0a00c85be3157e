package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/clarify/internal/ambiguity"
	"github.com/mark3labs/mcp-go/mcp"
)

// SummarizeTool handles the clarify_summarize MCP tool.
type SummarizeTool struct {
	detector *ambiguity.Detector
}

// NewSummarizeTool creates a SummarizeTool.
func NewSummarizeTool(detector *ambiguity.Detector) *SummarizeTool {
	if detector == nil {
		detector = ambiguity.NewDetector()
	}
	return &SummarizeTool{detector: detector}
}

// Definition returns the MCP tool definition for clarify_summarize.
func (t *SummarizeTool) Definition() mcp.Tool {
	return mcp.NewTool("clarify_summarize",
		mcp.WithDescription(
			"Aggregate the ambiguities in a longer document by category and message, with counts. "+
				"Useful for a quick overview of a whole spec before a clarification round.",
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The document to summarize"),
		),
	)
}

// Handle processes the clarify_summarize tool call.
func (t *SummarizeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("'text' is required"), nil
	}

	summary := ambiguity.Summarize(t.detector.Detect(text))

	var b strings.Builder
	b.WriteString("## Ambiguity Summary\n\n")
	b.WriteString("| Category | Message | Count |\n")
	b.WriteString("|---|---|---|\n")
	for _, item := range summary {
		fmt.Fprintf(&b, "| %s | %s | %d |\n", item.Category, item.Message, item.Count)
	}

	return withFooter(b.String()), nil
}
