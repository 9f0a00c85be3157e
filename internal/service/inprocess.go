package service

import (
	"context"

	"github.com/HendryAvila/clarify/internal/ambiguity"
	"github.com/HendryAvila/clarify/internal/api"
	"github.com/HendryAvila/clarify/internal/dialogue"
	"github.com/HendryAvila/clarify/internal/projectmem"
)

// InProcess exposes a Service through the same client ports as the HTTP
// client, so a dialogue.Session can run against a local store.
type InProcess struct {
	svc *Service
}

// InProcess returns the in-process client of s.
func (s *Service) InProcess() *InProcess {
	return &InProcess{svc: s}
}

// Analyze implements the analysis remote port.
func (c *InProcess) Analyze(ctx context.Context, text string) ([]ambiguity.Finding, error) {
	resp, err := c.svc.Analyze(ctx, api.AnalyzeRequest{Text: text})
	if err != nil {
		return nil, err
	}
	return resp.Ambiguities, nil
}

// Summarize returns the grouped findings for text.
func (c *InProcess) Summarize(ctx context.Context, text string) ([]ambiguity.SummaryItem, error) {
	resp, err := c.svc.Summarize(ctx, api.SummarizeRequest{Text: text})
	if err != nil {
		return nil, err
	}
	return resp.Summary, nil
}

// Dialogue implements dialogue.Service.
func (c *InProcess) Dialogue(ctx context.Context, req dialogue.Request) (*dialogue.Reply, error) {
	resp, err := c.svc.Dialogue(ctx, api.DialogueRequest{
		ThreadID:  api.ThreadIDPtr(req.ThreadID),
		Turn:      req.Turn,
		ProjectID: req.ProjectID,
	})
	if err != nil {
		return nil, err
	}
	return &dialogue.Reply{
		ThreadID:      resp.ThreadID,
		Replies:       resp.Replies,
		NextActions:   resp.NextActions,
		MemoryUpdates: resp.MemoryUpdates,
	}, nil
}

// GenerateCode implements dialogue.Generator.
func (c *InProcess) GenerateCode(ctx context.Context, req dialogue.GenerateRequest) (*dialogue.Generated, error) {
	resp, err := c.svc.GenerateCode(ctx, api.GenerateRequest{
		ThreadID:    req.ThreadID,
		Goal:        req.Goal,
		Constraints: req.Constraints,
	})
	if err != nil {
		return nil, err
	}
	out := &dialogue.Generated{Code: resp.Code, Rationale: resp.Rationale}
	if resp.Tests != nil {
		out.Tests = *resp.Tests
	}
	return out, nil
}

// MemoryGet implements projectmem.Backend.
func (c *InProcess) MemoryGet(ctx context.Context, projectID string) ([]projectmem.Entry, error) {
	resp, err := c.svc.ListMemory(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// MemoryUpsert implements projectmem.Backend.
func (c *InProcess) MemoryUpsert(ctx context.Context, projectID, key, value string) ([]projectmem.Entry, error) {
	resp, err := c.svc.UpsertMemory(ctx, api.MemoryUpsertRequest{ProjectID: projectID, Key: key, Value: value})
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

var (
	_ dialogue.Service   = (*InProcess)(nil)
	_ dialogue.Generator = (*InProcess)(nil)
	_ projectmem.Backend = (*InProcess)(nil)
)
