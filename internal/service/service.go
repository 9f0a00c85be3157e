// Package service implements the clarify service: heuristic analysis,
// thread-scoped dialogue, placeholder code generation, finding summaries and
// project memory, persisted through a Store.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/HendryAvila/clarify/internal/ambiguity"
	"github.com/HendryAvila/clarify/internal/api"
	"github.com/HendryAvila/clarify/internal/dialogue"
	"github.com/HendryAvila/clarify/internal/memory"
	"github.com/HendryAvila/clarify/internal/projectmem"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Rationale accompanies every generated placeholder.
const Rationale = "Proceeding with placeholder generation. Integrate a code model here."

// ErrBadRequest marks errors caused by invalid input.
var ErrBadRequest = errors.New("bad request")

// Store is the persistence the service needs. *memory.Store implements it.
type Store interface {
	CreateThread(id, project string) error
	AppendTurns(threadID string, turns ...memory.AppendTurnParams) error
	Turns(threadID string) ([]memory.Turn, error)
	UpsertEntry(project, key, value string) error
	ListEntries(project string) ([]memory.Entry, error)
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDetector replaces the default heuristic detector.
func WithDetector(d *ambiguity.Detector) Option {
	return func(s *Service) {
		if d != nil {
			s.detector = d
		}
	}
}

// WithThreadIDs replaces the thread id generator.
func WithThreadIDs(next func() string) Option {
	return func(s *Service) {
		if next != nil {
			s.newThreadID = next
		}
	}
}

// Service is safe for concurrent use when its Store is.
type Service struct {
	store       Store
	detector    *ambiguity.Detector
	logger      *zap.Logger
	newThreadID func() string
}

// New creates a Service over store.
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:       store,
		detector:    ambiguity.NewDetector(),
		logger:      zap.NewNop(),
		newThreadID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Health reports liveness.
func (s *Service) Health() api.HealthResponse {
	return api.HealthResponse{Status: "ok", Version: Version}
}

// ─── Analysis ────────────────────────────────────────────────────────────────

// Analyze runs the heuristic detector. Empty text is valid input.
func (s *Service) Analyze(ctx context.Context, req api.AnalyzeRequest) (*api.AnalyzeResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	findings := s.detector.Detect(req.Text)
	s.logger.Debug("analyzed text",
		zap.Int("length", len(req.Text)),
		zap.String("artifact_type", req.ArtifactType),
		zap.Int("findings", len(findings)),
	)
	return &api.AnalyzeResponse{Ambiguities: findings}, nil
}

// Summarize groups the findings for text by category and message.
func (s *Service) Summarize(ctx context.Context, req api.SummarizeRequest) (*api.SummarizeResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &api.SummarizeResponse{Summary: ambiguity.Summarize(s.detector.Detect(req.Text))}, nil
}

// ─── Dialogue ────────────────────────────────────────────────────────────────

// Dialogue records one user turn and answers it with the clarifying
// questions the turn raises. A request without a thread id starts a new
// thread.
func (s *Service) Dialogue(ctx context.Context, req api.DialogueRequest) (*api.DialogueResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	threadID := ""
	if req.ThreadID != nil {
		threadID = strings.TrimSpace(*req.ThreadID)
	}
	if threadID == "" {
		threadID = s.newThreadID()
	}
	project := projectOrDefault(req.ProjectID)

	role := req.Turn.Role
	if role == "" {
		role = dialogue.RoleUser
	}

	if err := s.store.CreateThread(threadID, project); err != nil {
		return nil, fmt.Errorf("service: dialogue: %w", err)
	}

	questions, raised := ambiguity.Questions(s.detector.Detect(req.Turn.Content))
	reply := dialogue.Turn{Role: dialogue.RoleAssistant, Content: ambiguity.BulletList(questions)}

	if err := s.store.AppendTurns(threadID,
		memory.AppendTurnParams{Role: string(role), Content: req.Turn.Content, Artifacts: req.Turn.Artifacts},
		memory.AppendTurnParams{Role: string(reply.Role), Content: reply.Content},
	); err != nil {
		return nil, fmt.Errorf("service: dialogue: %w", err)
	}

	next := api.ActionGenerateCode
	if raised {
		next = api.ActionAsk
	}

	s.logger.Info("dialogue turn",
		zap.String("thread_id", threadID),
		zap.String("project_id", project),
		zap.Int("questions", len(questions)),
		zap.String("next_action", next),
	)

	return &api.DialogueResponse{
		ThreadID:      threadID,
		Replies:       []dialogue.Turn{reply},
		NextActions:   []string{next},
		MemoryUpdates: []map[string]any{},
	}, nil
}

// ─── Generation ──────────────────────────────────────────────────────────────

// GenerateCode returns a placeholder skeleton that records the goal, the
// constraints and what the user said on the thread.
func (s *Service) GenerateCode(ctx context.Context, req api.GenerateRequest) (*api.GenerateResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.ThreadID) == "" {
		return nil, fmt.Errorf("%w: thread_id is required", ErrBadRequest)
	}

	turns, err := s.store.Turns(req.ThreadID)
	if err != nil {
		return nil, fmt.Errorf("service: generate: %w", err)
	}

	var said []string
	for _, t := range turns {
		if t.Role == string(dialogue.RoleUser) {
			said = append(said, t.Content)
		}
	}

	s.logger.Info("generated placeholder",
		zap.String("thread_id", req.ThreadID),
		zap.Int("constraints", len(req.Constraints)),
		zap.Int("user_turns", len(said)),
	)

	return &api.GenerateResponse{
		Code:      placeholder(req.ThreadID, req.Goal, req.Constraints, said),
		Rationale: Rationale,
	}, nil
}

func placeholder(threadID, goal string, constraints map[string]any, said []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "// Placeholder generated by clarify for thread %s.\n", threadID)
	fmt.Fprintf(&sb, "// Goal: %s\n", oneLine(goal))

	if len(constraints) > 0 {
		keys := make([]string, 0, len(constraints))
		for k := range constraints {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString("// Constraints:\n")
		for _, k := range keys {
			fmt.Fprintf(&sb, "//   %s: %v\n", k, constraints[k])
		}
	}

	if len(said) > 0 {
		sb.WriteString("// Conversation:\n")
		for _, line := range said {
			fmt.Fprintf(&sb, "//   - %s\n", oneLine(line))
		}
	}

	sb.WriteString("package main\n\nfunc main() {\n\t// implement: ")
	sb.WriteString(oneLine(goal))
	sb.WriteString("\n}\n")
	return sb.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ─── Project Memory ──────────────────────────────────────────────────────────

// ListMemory returns a project's entries. Unknown projects are empty.
func (s *Service) ListMemory(ctx context.Context, projectID string) (*api.MemoryListResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	project := projectOrDefault(projectID)
	entries, err := s.store.ListEntries(project)
	if err != nil {
		return nil, fmt.Errorf("service: list memory: %w", err)
	}
	return &api.MemoryListResponse{ProjectID: project, Items: toItems(entries)}, nil
}

// UpsertMemory writes one entry and returns the project's full list.
func (s *Service) UpsertMemory(ctx context.Context, req api.MemoryUpsertRequest) (*api.MemoryListResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Key) == "" {
		return nil, fmt.Errorf("%w: key is required", ErrBadRequest)
	}
	project := projectOrDefault(req.ProjectID)
	if err := s.store.UpsertEntry(project, req.Key, req.Value); err != nil {
		return nil, fmt.Errorf("service: upsert memory: %w", err)
	}
	s.logger.Info("memory upserted", zap.String("project_id", project), zap.String("key", req.Key))
	return s.ListMemory(ctx, project)
}

func toItems(entries []memory.Entry) []projectmem.Entry {
	items := make([]projectmem.Entry, 0, len(entries))
	for _, e := range entries {
		items = append(items, projectmem.Entry{Key: e.Key, Value: e.Value})
	}
	return items
}

func projectOrDefault(id string) string {
	if strings.TrimSpace(id) == "" {
		return projectmem.DefaultProjectID
	}
	return id
}
