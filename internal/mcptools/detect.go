package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/clarify/internal/ambiguity"
	"github.com/HendryAvila/clarify/internal/analysis"
	"github.com/mark3labs/mcp-go/mcp"
)

// DetectTool handles the clarify_detect MCP tool.
type DetectTool struct {
	detector     *ambiguity.Detector
	maxQuestions int
}

// NewDetectTool creates a DetectTool. maxQuestions <= 0 uses the analysis
// default.
func NewDetectTool(detector *ambiguity.Detector, maxQuestions int) *DetectTool {
	if detector == nil {
		detector = ambiguity.NewDetector()
	}
	if maxQuestions <= 0 {
		maxQuestions = analysis.DefaultMaxQuestions
	}
	return &DetectTool{detector: detector, maxQuestions: maxQuestions}
}

// Definition returns the MCP tool definition for clarify_detect.
func (t *DetectTool) Definition() mcp.Tool {
	return mcp.NewTool("clarify_detect",
		mcp.WithDescription(
			"Scan a requirement, user story or prompt for ambiguities: vague terms, constraints "+
				"without values, non-functional requirements without units, compatibility "+
				"claims without versions and missing error handling. Use before implementing "+
				"anything the user described loosely.",
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The text to analyze"),
		),
		mcp.WithNumber("max_questions",
			mcp.Description(fmt.Sprintf("Maximum findings to return (default: %d)", t.maxQuestions)),
		),
	)
}

// Handle processes the clarify_detect tool call.
func (t *DetectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("'text' is required"), nil
	}

	analyzer := analysis.New(nil,
		analysis.WithDetector(t.detector),
		analysis.WithPolicy(analysis.PolicyLocal),
		analysis.WithMaxQuestions(intArg(req, "max_questions", t.maxQuestions)),
	)
	result := analyzer.Analyze(ctx, text)

	var b strings.Builder
	if len(result.Findings) == 1 && result.Findings[0].Category == ambiguity.CategoryNone {
		b.WriteString("## No ambiguities found\n\n")
		b.WriteString(ambiguity.ProceedQuestion)
		b.WriteString("\n")
		return withFooter(b.String()), nil
	}

	fmt.Fprintf(&b, "## Ambiguities (%d)\n\n", result.Total)
	gate := "below"
	if result.Clarity.GatePassed {
		gate = "meets"
	}
	fmt.Fprintf(&b, "**Clarity**: %d/100 (%s the %d threshold)\n\n",
		result.Clarity.OverallScore, gate, ambiguity.DefaultClarityThreshold)
	writeFindings(&b, result.Findings)
	b.WriteString(moreHint(len(result.Findings), result.Total, "Raise max_questions to see the rest."))
	b.WriteString("\n\nAsk the user about each finding before writing code.\n")

	return withFooter(b.String()), nil
}
