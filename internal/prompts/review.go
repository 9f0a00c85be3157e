// Package prompts implements the clarify MCP prompts.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ReviewPrompt handles the clarify-review MCP prompt.
// It asks the AI to run a clarification round on a piece of text before
// writing any code.
type ReviewPrompt struct{}

// NewReviewPrompt creates a ReviewPrompt.
func NewReviewPrompt() *ReviewPrompt {
	return &ReviewPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ReviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("clarify-review",
		mcp.WithPromptDescription(
			"Review a requirement for ambiguities and clarify it with me "+
				"before any code is written.",
		),
		mcp.WithArgument("text",
			mcp.ArgumentDescription("The requirement, user story or prompt to review"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("project_id",
			mcp.ArgumentDescription("Project whose memory applies. Default: default"),
		),
	)
}

// Handle processes the clarify-review prompt request.
func (p *ReviewPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	text := ""
	project := "default"
	if args := req.Params.Arguments; args != nil {
		text = args["text"]
		if id, ok := args["project_id"]; ok && id != "" {
			project = id
		}
	}
	if text == "" {
		return nil, fmt.Errorf("clarify-review: 'text' is required")
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Clarify requirement for project %s", project),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Before writing code for the requirement below, clarify it with me.\n\n"+
						"Please:\n"+
						"1. Run `clarify_memory_list` with project_id='%s' and skip anything it already answers\n"+
						"2. Run `clarify_dialogue` with the requirement as content and project_id='%s'\n"+
						"3. Ask me the questions it returns, one message, at most three\n"+
						"4. Send each of my answers through `clarify_dialogue` on the same thread_id\n"+
						"5. Save every settled fact with `clarify_memory_upsert`\n"+
						"6. When the next action is generate_code and I agree, run `clarify_generate_code`\n\n"+
						"Requirement:\n\n%s",
					project, project, text,
				)),
			},
		},
	}, nil
}
