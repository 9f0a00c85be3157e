package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/HendryAvila/clarify/internal/ambiguity"
	"github.com/HendryAvila/clarify/internal/api"
	"github.com/HendryAvila/clarify/internal/dialogue"
	"github.com/HendryAvila/clarify/internal/memory"
	"github.com/HendryAvila/clarify/internal/projectmem"
	"github.com/HendryAvila/clarify/internal/service"
)

func newTestStore(t *testing.T) *memory.Store {
	t.Helper()
	s, err := memory.New(memory.Config{DataDir: t.TempDir(), MaxTurnLength: 4000, MaxThreadResults: 20})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// sequentialIDs returns t1, t2, ... for deterministic thread ids.
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}
}

func newTestService(t *testing.T) (*service.Service, *memory.Store) {
	t.Helper()
	store := newTestStore(t)
	return service.New(store, service.WithThreadIDs(sequentialIDs())), store
}

func strPtr(s string) *string { return &s }

// ─── Analyze / Summarize ────────────────────────────────────────────────────

func TestAnalyze_ReturnsScoredFindings(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Analyze(context.Background(), api.AnalyzeRequest{Text: "set a timeout"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(resp.Ambiguities) != 1 {
		t.Fatalf("expected 1 finding, got %v", resp.Ambiguities)
	}
	f := resp.Ambiguities[0]
	if f.Category != ambiguity.CategoryUnspecifiedConstraint || f.Score != 0.7 {
		t.Errorf("finding = %+v", f)
	}
}

func TestAnalyze_EmptyText(t *testing.T) {
	svc, _ := newTestService(t)
	resp, err := svc.Analyze(context.Background(), api.AnalyzeRequest{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(resp.Ambiguities) != 1 || !resp.Ambiguities[0].IsNone() {
		t.Errorf("expected single none finding, got %v", resp.Ambiguities)
	}
}

func TestAnalyze_CancelledContext(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Analyze(ctx, api.AnalyzeRequest{Text: "x"}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestSummarize(t *testing.T) {
	svc, _ := newTestService(t)
	resp, err := svc.Summarize(context.Background(), api.SummarizeRequest{Text: "latency should be fast"})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if len(resp.Summary) != 3 {
		t.Fatalf("expected 3 groups, got %v", resp.Summary)
	}
	for _, item := range resp.Summary {
		if item.Count != 1 {
			t.Errorf("item %+v count = %d, want 1", item, item.Count)
		}
	}
}

// ─── Dialogue ───────────────────────────────────────────────────────────────

func TestDialogue_MintsThreadAndPersists(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Dialogue(ctx, api.DialogueRequest{
		Turn: dialogue.Turn{Role: dialogue.RoleUser, Content: "may fail unexpectedly"},
	})
	if err != nil {
		t.Fatalf("Dialogue: %v", err)
	}
	if resp.ThreadID != "t1" {
		t.Errorf("thread id = %q, want t1", resp.ThreadID)
	}
	if len(resp.Replies) != 1 || resp.Replies[0].Role != dialogue.RoleAssistant {
		t.Fatalf("replies = %+v", resp.Replies)
	}
	want := "- Error scenario mentioned without behavior. What should happen on failure?"
	if resp.Replies[0].Content != want {
		t.Errorf("reply = %q, want %q", resp.Replies[0].Content, want)
	}
	if len(resp.NextActions) != 1 || resp.NextActions[0] != api.ActionAsk {
		t.Errorf("next actions = %v", resp.NextActions)
	}
	if resp.MemoryUpdates == nil {
		t.Error("memory_updates should be an empty list, not nil")
	}

	th, err := store.GetThread("t1")
	if err != nil {
		t.Fatalf("GetThread: %v", err)
	}
	if th.Project != projectmem.DefaultProjectID {
		t.Errorf("project = %q, want default", th.Project)
	}
	turns, err := store.Turns("t1")
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 2 || turns[0].Role != "user" || turns[1].Role != "assistant" {
		t.Errorf("persisted turns = %+v", turns)
	}
}

func TestDialogue_ContinuesExistingThread(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	first, err := svc.Dialogue(ctx, api.DialogueRequest{Turn: dialogue.Turn{Role: "user", Content: "hi"}, ProjectID: "p"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Dialogue(ctx, api.DialogueRequest{
		ThreadID:  strPtr(first.ThreadID),
		Turn:      dialogue.Turn{Role: "user", Content: "again"},
		ProjectID: "p",
	})
	if err != nil {
		t.Fatal(err)
	}
	if second.ThreadID != first.ThreadID {
		t.Errorf("thread changed: %q -> %q", first.ThreadID, second.ThreadID)
	}
	turns, err := store.Turns(first.ThreadID)
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 4 {
		t.Errorf("expected 4 turns, got %d", len(turns))
	}
}

func TestDialogue_UnknownClientThreadIsCreated(t *testing.T) {
	svc, store := newTestService(t)
	resp, err := svc.Dialogue(context.Background(), api.DialogueRequest{
		ThreadID: strPtr("client-chosen"),
		Turn:     dialogue.Turn{Role: "user", Content: "hello"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.ThreadID != "client-chosen" {
		t.Errorf("thread id = %q", resp.ThreadID)
	}
	if _, err := store.GetThread("client-chosen"); err != nil {
		t.Errorf("thread not created: %v", err)
	}
}

func TestDialogue_NoQuestionsSuggestsGeneration(t *testing.T) {
	svc, _ := newTestService(t)
	resp, err := svc.Dialogue(context.Background(), api.DialogueRequest{
		Turn: dialogue.Turn{Role: "user", Content: "Parse the config file and print the result."},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Replies[0].Content != "- "+ambiguity.ProceedQuestion {
		t.Errorf("reply = %q", resp.Replies[0].Content)
	}
	if resp.NextActions[0] != api.ActionGenerateCode {
		t.Errorf("next action = %q, want generate_code", resp.NextActions[0])
	}
}

// ─── Generate ───────────────────────────────────────────────────────────────

func TestGenerateCode_EmbedsContext(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Dialogue(ctx, api.DialogueRequest{Turn: dialogue.Turn{Role: "user", Content: "build a parser"}})
	if err != nil {
		t.Fatal(err)
	}

	gen, err := svc.GenerateCode(ctx, api.GenerateRequest{
		ThreadID:    resp.ThreadID,
		Goal:        "CSV parser",
		Constraints: map[string]any{"lang": "go", "deps": "none"},
	})
	if err != nil {
		t.Fatalf("GenerateCode: %v", err)
	}
	for _, want := range []string{"thread t1", "Goal: CSV parser", "deps: none", "lang: go", "- build a parser"} {
		if !strings.Contains(gen.Code, want) {
			t.Errorf("code missing %q:\n%s", want, gen.Code)
		}
	}
	if strings.Index(gen.Code, "deps:") > strings.Index(gen.Code, "lang:") {
		t.Error("constraints should be sorted by key")
	}
	if gen.Rationale != service.Rationale {
		t.Errorf("rationale = %q", gen.Rationale)
	}
	if gen.Tests != nil {
		t.Errorf("tests = %v, want nil", *gen.Tests)
	}
}

func TestGenerateCode_RequiresThread(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.GenerateCode(context.Background(), api.GenerateRequest{Goal: "x"}); !errors.Is(err, service.ErrBadRequest) {
		t.Errorf("err = %v, want ErrBadRequest", err)
	}
}

func TestGenerateCode_UnknownThreadHasNoConversation(t *testing.T) {
	svc, _ := newTestService(t)
	gen, err := svc.GenerateCode(context.Background(), api.GenerateRequest{ThreadID: dialogue.AdHocThread, Goal: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(gen.Code, "Conversation:") {
		t.Errorf("unexpected conversation section:\n%s", gen.Code)
	}
}

// ─── Memory ─────────────────────────────────────────────────────────────────

func TestMemory_UpsertThenList(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	up, err := svc.UpsertMemory(ctx, api.MemoryUpsertRequest{ProjectID: "p", Key: "db", Value: "sqlite"})
	if err != nil {
		t.Fatalf("UpsertMemory: %v", err)
	}
	if up.ProjectID != "p" || len(up.Items) != 1 {
		t.Errorf("upsert response = %+v", up)
	}

	list, err := svc.ListMemory(ctx, "p")
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := projectmem.Lookup(list.Items, "db"); !ok || v != "sqlite" {
		t.Errorf("db = %q (found=%v)", v, ok)
	}
}

func TestMemory_DefaultsAndValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	list, err := svc.ListMemory(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if list.ProjectID != projectmem.DefaultProjectID || list.Items == nil || len(list.Items) != 0 {
		t.Errorf("list = %+v", list)
	}

	if _, err := svc.UpsertMemory(ctx, api.MemoryUpsertRequest{Key: " "}); !errors.Is(err, service.ErrBadRequest) {
		t.Errorf("err = %v, want ErrBadRequest", err)
	}
}

func TestHealth(t *testing.T) {
	svc, _ := newTestService(t)
	if h := svc.Health(); h.Status != "ok" || h.Version != service.Version {
		t.Errorf("health = %+v", h)
	}
}

// ─── In-process client ──────────────────────────────────────────────────────

func TestInProcess_DrivesSession(t *testing.T) {
	svc, _ := newTestService(t)
	client := svc.InProcess()
	ctx := context.Background()

	sess, err := dialogue.StartOrContinue(client, dialogue.NoThread(), dialogue.WithProjectID("p"))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := sess.SubmitTurn(ctx, "latency should be fast"); err != nil {
			t.Fatalf("SubmitTurn: %v", err)
		}
	}
	if id, _ := sess.ThreadID().Get(); id != "t1" {
		t.Errorf("thread = %q, want t1", id)
	}
	if n := len(sess.Transcript()); n != 4 {
		t.Errorf("transcript length = %d, want 4", n)
	}

	if _, err := sess.Remember(ctx, "k", "v"); err != nil {
		t.Fatal(err)
	}
	entries, err := sess.Recall(ctx)
	if err != nil || len(entries) != 1 {
		t.Errorf("Recall = %v, %v", entries, err)
	}

	gen, err := sess.Generate(ctx, "cache", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(gen.Code, "thread t1") {
		t.Errorf("generate did not use the bound thread:\n%s", gen.Code)
	}

	findings, err := client.Analyze(ctx, "timeout")
	if err != nil || len(findings) == 0 {
		t.Errorf("Analyze = %v, %v", findings, err)
	}
	summary, err := client.Summarize(ctx, "timeout")
	if err != nil || len(summary) != 1 {
		t.Errorf("Summarize = %v, %v", summary, err)
	}
}
