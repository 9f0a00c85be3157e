// Package mcptools provides the clarify MCP tool handlers.
//
// Each tool follows the same shape:
//   - a struct holding its dependencies, injected via constructor
//   - Definition() returns the mcp.Tool schema
//   - Handle() validates arguments and renders a markdown result
//
// User mistakes come back as tool errors (mcp.NewToolResultError) so the
// model can correct itself; the Go error return is reserved for failures
// the host should see.
package mcptools

import (
	"fmt"
	"strings"

	"github.com/HendryAvila/clarify/internal/ambiguity"
	"github.com/mark3labs/mcp-go/mcp"
)

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// objectArg extracts an object argument, or nil when absent.
func objectArg(req mcp.CallToolRequest, key string) map[string]any {
	v, _ := req.GetArguments()[key].(map[string]any)
	return v
}

// withFooter appends the token estimate to a rendered result.
func withFooter(body string) *mcp.CallToolResult {
	return mcp.NewToolResultText(body + "\n" + tokenFooter(estimateTokens(body)))
}

// writeFindings renders findings as a numbered list.
func writeFindings(b *strings.Builder, findings []ambiguity.Finding) {
	for i, f := range findings {
		fmt.Fprintf(b, "%d. **%s** (%.2f) %s\n", i+1, f.Category, f.Score, f.Message)
	}
}
