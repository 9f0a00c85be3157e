// Package api defines the JSON wire types of the clarify HTTP service.
//
// The same types are used by the server (internal/httpapi) and the client
// (internal/remote), so the two sides cannot drift.
package api

import (
	"github.com/HendryAvila/clarify/internal/ambiguity"
	"github.com/HendryAvila/clarify/internal/dialogue"
	"github.com/HendryAvila/clarify/internal/projectmem"
)

// Routes.
const (
	RouteHealth    = "/health"
	RouteAnalyze   = "/v1/analyze_context"
	RouteDialogue  = "/v1/dialogue"
	RouteGenerate  = "/v1/generate_code"
	RouteSummarize = "/v1/summarize_findings"
	RouteMemory    = "/v1/memory"
)

// Next actions suggested by a dialogue reply.
const (
	ActionAsk          = "ask"
	ActionGenerateCode = "generate_code"
)

// AnalyzeRequest is the body of POST /v1/analyze_context.
type AnalyzeRequest struct {
	Text         string `json:"text"`
	ArtifactType string `json:"artifact_type,omitempty"`
	Mode         string `json:"mode,omitempty"`
}

// AnalyzeResponse lists the ambiguities found in the text.
type AnalyzeResponse struct {
	Ambiguities []ambiguity.Finding `json:"ambiguities"`
}

// DialogueRequest is the body of POST /v1/dialogue. A missing thread id asks
// the service to mint one.
type DialogueRequest struct {
	ThreadID  *string       `json:"thread_id,omitempty"`
	Turn      dialogue.Turn `json:"turn"`
	ProjectID string        `json:"project_id,omitempty"`
}

// DialogueResponse carries the thread id and the replies to one turn.
type DialogueResponse struct {
	ThreadID      string           `json:"thread_id"`
	Replies       []dialogue.Turn  `json:"replies"`
	NextActions   []string         `json:"next_actions"`
	MemoryUpdates []map[string]any `json:"memory_updates"`
}

// GenerateRequest is the body of POST /v1/generate_code.
type GenerateRequest struct {
	ThreadID    string         `json:"thread_id"`
	Goal        string         `json:"goal"`
	Constraints map[string]any `json:"constraints,omitempty"`
}

// GenerateResponse is the generated code and why it looks the way it does.
type GenerateResponse struct {
	Code      string  `json:"code"`
	Rationale string  `json:"rationale"`
	Tests     *string `json:"tests"`
}

// SummarizeRequest is the body of POST /v1/summarize_findings.
type SummarizeRequest struct {
	ProjectID string `json:"project_id,omitempty"`
	Text      string `json:"text"`
}

// SummarizeResponse aggregates findings by category and message.
type SummarizeResponse struct {
	Summary []ambiguity.SummaryItem `json:"summary"`
}

// MemoryUpsertRequest is the body of POST /v1/memory.
type MemoryUpsertRequest struct {
	ProjectID string `json:"project_id,omitempty"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}

// MemoryListResponse is returned by both memory routes.
type MemoryListResponse struct {
	ProjectID string             `json:"project_id"`
	Items     []projectmem.Entry `json:"items"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// Error codes.
const (
	CodeBadRequest = "bad_request"
	CodeNotFound   = "not_found"
	CodeInternal   = "internal"
)

// ThreadIDPtr converts an optional thread id to its wire form.
func ThreadIDPtr(t dialogue.ThreadID) *string {
	id, ok := t.Get()
	if !ok {
		return nil
	}
	return &id
}
