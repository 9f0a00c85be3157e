package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ResumePrompt handles the clarify-resume MCP prompt.
// It instructs the AI to pick up the most recent clarification thread.
type ResumePrompt struct{}

// NewResumePrompt creates a ResumePrompt.
func NewResumePrompt() *ResumePrompt {
	return &ResumePrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ResumePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("clarify-resume",
		mcp.WithPromptDescription(
			"Resume the last clarification thread: shows what was asked, "+
				"what is still open and what to do next.",
		),
	)
}

// Handle processes the clarify-resume prompt request.
func (p *ResumePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Resume clarification",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `clarify_threads` with detail_level='full' and limit=1.\n\n" +
						"Then:\n" +
						"1. Summarize what I asked for and what was already settled\n" +
						"2. List the questions that are still unanswered\n" +
						"3. Continue the thread with `clarify_dialogue` using its thread_id",
				),
			},
		},
	}, nil
}
