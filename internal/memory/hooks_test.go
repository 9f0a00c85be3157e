package memory

import (
	"database/sql"
	"errors"
	"strings"
	"testing"
)

func newHookedStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Config{DataDir: t.TempDir(), MaxTurnLength: 100})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNew_OpenError(t *testing.T) {
	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(string, string) (*sql.DB, error) {
		return nil, errors.New("no driver")
	}

	_, err := New(Config{DataDir: t.TempDir()})
	if err == nil || !strings.Contains(err.Error(), "memory: open database") {
		t.Errorf("err = %v, want open database error", err)
	}
}

func TestAppendTurns_CommitFailure(t *testing.T) {
	s := newHookedStore(t)
	if err := s.CreateThread("t1", "p"); err != nil {
		t.Fatal(err)
	}

	s.hooks.commit = func(tx *sql.Tx) error {
		_ = tx.Rollback()
		return errors.New("disk full")
	}

	err := s.AppendTurns("t1", AppendTurnParams{Role: "user", Content: "x"}, AppendTurnParams{Role: "assistant", Content: "y"})
	if err == nil || !strings.Contains(err.Error(), "commit") {
		t.Fatalf("err = %v, want commit failure", err)
	}

	s.hooks = defaultStoreHooks()
	turns, err := s.Turns("t1")
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 0 {
		t.Errorf("failed append left %d turns behind", len(turns))
	}
}

func TestAppendTurns_BeginFailure(t *testing.T) {
	s := newHookedStore(t)
	s.hooks.beginTx = func(*sql.DB) (*sql.Tx, error) {
		return nil, errors.New("locked")
	}
	if err := s.AppendTurns("t1", AppendTurnParams{Role: "user", Content: "x"}); err == nil {
		t.Error("expected begin failure")
	}
}

func TestListEntries_QueryFailure(t *testing.T) {
	s := newHookedStore(t)
	s.hooks.queryIt = func(queryer, string, ...any) (rowScanner, error) {
		return nil, errors.New("boom")
	}
	if _, err := s.ListEntries("p"); err == nil {
		t.Error("expected query failure")
	}
	if _, err := s.RecentThreads("p", 5); err == nil {
		t.Error("expected query failure")
	}
}

func TestStats_QueryFailure(t *testing.T) {
	s := newHookedStore(t)
	s.hooks.queryIt = func(queryer, string, ...any) (rowScanner, error) {
		return nil, errors.New("boom")
	}
	stats, err := s.Stats()
	if err == nil || !strings.Contains(err.Error(), "list projects") {
		t.Fatalf("err = %v, want list projects failure", err)
	}
	if stats != nil {
		t.Errorf("stats = %+v, want nil on failure", stats)
	}
}

func TestStats_ClosedDatabase(t *testing.T) {
	s := newHookedStore(t)
	_ = s.Close()
	if _, err := s.Stats(); err == nil || !strings.Contains(err.Error(), "count threads") {
		t.Errorf("err = %v, want count failure", err)
	}
}

func TestCutAtRune(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 3, "hel"},
		{"hello", 10, "hello"},
		{"ééé", 3, "é"},
		{"ééé", 4, "éé"},
		{"日本", 2, ""},
		{"a日本", 4, "a日"},
	}
	for _, tt := range tests {
		if got := cutAtRune(tt.in, tt.n); got != tt.want {
			t.Errorf("cutAtRune(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestUpsertEntry_ExecFailure(t *testing.T) {
	s := newHookedStore(t)
	s.hooks.exec = func(execer, string, ...any) (sql.Result, error) {
		return nil, errors.New("readonly")
	}
	if err := s.UpsertEntry("p", "k", "v"); err == nil {
		t.Error("expected exec failure")
	}
}

func TestArtifactsCodec(t *testing.T) {
	raw, err := encodeArtifacts(map[string]any{"n": 1.0})
	if err != nil || raw == nil {
		t.Fatalf("encode: %v %v", raw, err)
	}
	back, err := decodeArtifacts(raw)
	if err != nil || back["n"] != 1.0 {
		t.Errorf("decode = %v, %v", back, err)
	}
	if raw, _ := encodeArtifacts(nil); raw != nil {
		t.Error("nil artifacts should encode to NULL")
	}
	bad := "{"
	if _, err := decodeArtifacts(&bad); err == nil {
		t.Error("expected decode error")
	}
}

func TestStripPrivateTags(t *testing.T) {
	got := stripPrivateTags("a <PRIVATE>x\ny</private> b")
	if got != "a [REDACTED] b" {
		t.Errorf("stripPrivateTags = %q", got)
	}
}
