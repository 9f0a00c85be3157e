// Package resources implements the clarify MCP resources.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (clarify://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/clarify/internal/ambiguity"
	"github.com/HendryAvila/clarify/internal/memory"
	"github.com/mark3labs/mcp-go/mcp"
)

// Resource URIs.
const (
	RulesURI = "clarify://rules"
	StatsURI = "clarify://stats"
)

// Handler manages clarify resource endpoints.
type Handler struct {
	detector *ambiguity.Detector
	store    *memory.Store // nil when the memory subsystem is disabled
}

// NewHandler creates a resource Handler. store may be nil.
func NewHandler(detector *ambiguity.Detector, store *memory.Store) *Handler {
	if detector == nil {
		detector = ambiguity.NewDetector()
	}
	return &Handler{detector: detector, store: store}
}

// RulesResource returns the MCP resource definition for the rule set.
func (h *Handler) RulesResource() mcp.Resource {
	return mcp.NewResource(
		RulesURI,
		"Clarify Rules",
		mcp.WithResourceDescription("The heuristic ambiguity rules with their categories, scores and questions"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleRules returns the rule set as JSON.
func (h *Handler) HandleRules(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, h.detector.Rules())
}

// StatsResource returns the MCP resource definition for store statistics.
func (h *Handler) StatsResource() mcp.Resource {
	return mcp.NewResource(
		StatsURI,
		"Clarify Store Statistics",
		mcp.WithResourceDescription("Thread, turn and project memory counts of the local store"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStats returns the store statistics as JSON.
func (h *Handler) HandleStats(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.store == nil {
		return errorResource(req.Params.URI, "memory subsystem disabled"), nil
	}
	stats, err := h.store.Stats()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonResource(req.Params.URI, stats)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
