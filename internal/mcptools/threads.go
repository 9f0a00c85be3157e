package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/clarify/internal/memory"
	"github.com/mark3labs/mcp-go/mcp"
)

const previewLength = 120

// ThreadsTool handles the clarify_threads MCP tool.
type ThreadsTool struct {
	store *memory.Store
}

// NewThreadsTool creates a ThreadsTool.
func NewThreadsTool(store *memory.Store) *ThreadsTool {
	return &ThreadsTool{store: store}
}

// Definition returns the MCP tool definition for clarify_threads.
func (t *ThreadsTool) Definition() mcp.Tool {
	return mcp.NewTool("clarify_threads",
		mcp.WithDescription(
			"List recent clarification threads with their turn counts. Use detail_level=full "+
				"to read the transcripts when resuming an earlier clarification.",
		),
		mcp.WithString("project_id",
			mcp.Description("Filter by project (omit for all projects)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max threads (default: 20)"),
		),
		mcp.WithString("detail_level",
			mcp.Description("summary: ids and counts; standard: adds the latest turn; full: whole transcripts"),
			mcp.Enum(detailLevelValues()...),
		),
	)
}

// Handle processes the clarify_threads tool call.
func (t *ThreadsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := req.GetString("project_id", "")
	level := parseDetailLevel(req.GetString("detail_level", ""))

	threads, err := t.store.RecentThreads(project, intArg(req, "limit", 0))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list threads: %v", err)), nil
	}
	if len(threads) == 0 {
		return mcp.NewToolResultText("No clarification threads yet. Start one with clarify_dialogue."), nil
	}

	stats, err := t.store.Stats()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get stats: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Threads (%d)\n\n", len(threads))
	for _, th := range threads {
		fmt.Fprintf(&b, "- **%s** [%s] %d turns, updated %s\n", th.ID, th.Project, th.TurnCount, th.UpdatedAt)

		switch level {
		case detailStandard:
			if th.LastTurn != nil {
				fmt.Fprintf(&b, "  > %s\n", memory.Truncate(oneLine(*th.LastTurn), previewLength))
			}
		case detailFull:
			turns, err := t.store.Turns(th.ID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to read thread %s: %v", th.ID, err)), nil
			}
			for _, turn := range turns {
				fmt.Fprintf(&b, "  %d. %s: %s\n", turn.Seq, turn.Role, oneLine(turn.Content))
			}
		}
	}

	if project == "" {
		b.WriteString(moreHint(len(threads), stats.TotalThreads, "Raise limit or filter by project_id."))
	}
	if level == detailSummary {
		b.WriteString("\n\nUse detail_level=standard or full for turn content.")
	}

	return withFooter(b.String()), nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
