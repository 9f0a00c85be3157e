// Package memory implements the persistent store behind the clarify service.
//
// It keeps dialogue threads, their ordered turns and per-project key/value
// memory in SQLite. The store is the only component that touches disk.
package memory

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ErrThreadNotFound is returned when a thread id is unknown.
var ErrThreadNotFound = errors.New("memory: thread not found")

// ─── Types ───────────────────────────────────────────────────────────────────

// Thread is a dialogue thread owned by a project.
type Thread struct {
	ID        string `json:"id"`
	Project   string `json:"project"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Turn is one persisted message. Seq starts at 1 and is gap-free per thread.
type Turn struct {
	ID        int64          `json:"id"`
	ThreadID  string         `json:"thread_id"`
	Seq       int            `json:"seq"`
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Artifacts map[string]any `json:"artifacts,omitempty"`
	CreatedAt string         `json:"created_at"`
}

// AppendTurnParams holds the input for one appended turn.
type AppendTurnParams struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Artifacts map[string]any `json:"artifacts,omitempty"`
}

// ThreadSummary is a compact view of a thread with its turn count.
type ThreadSummary struct {
	ID        string  `json:"id"`
	Project   string  `json:"project"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
	TurnCount int     `json:"turn_count"`
	LastTurn  *string `json:"last_turn,omitempty"`
}

// Entry is one project memory row.
type Entry struct {
	Project       string `json:"project"`
	Key           string `json:"key"`
	Value         string `json:"value"`
	RevisionCount int    `json:"revision_count"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// Stats holds aggregate store statistics.
type Stats struct {
	TotalThreads int      `json:"total_threads"`
	TotalTurns   int      `json:"total_turns"`
	TotalEntries int      `json:"total_entries"`
	Projects     []string `json:"projects"`
}

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds memory store configuration.
type Config struct {
	DataDir          string
	MaxTurnLength    int
	MaxThreadResults int
}

// DefaultConfig returns the default configuration for the memory store.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:          filepath.Join(home, ".clarify"),
		MaxTurnLength:    8000,
		MaxThreadResults: 20,
	}
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the SQLite-backed thread and project memory store.
// It is safe for concurrent use.
type Store struct {
	db    *sql.DB
	cfg   Config
	hooks storeHooks
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type sqlRowScanner struct {
	rows *sql.Rows
}

func (r sqlRowScanner) Next() bool             { return r.rows.Next() }
func (r sqlRowScanner) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r sqlRowScanner) Err() error             { return r.rows.Err() }
func (r sqlRowScanner) Close() error           { return r.rows.Close() }

type storeHooks struct {
	exec    func(db execer, query string, args ...any) (sql.Result, error)
	queryIt func(db queryer, query string, args ...any) (rowScanner, error)
	beginTx func(db *sql.DB) (*sql.Tx, error)
	commit  func(tx *sql.Tx) error
}

func defaultStoreHooks() storeHooks {
	return storeHooks{
		exec: func(db execer, query string, args ...any) (sql.Result, error) {
			return db.Exec(query, args...)
		},
		queryIt: func(db queryer, query string, args ...any) (rowScanner, error) {
			rows, err := db.Query(query, args...)
			if err != nil {
				return nil, err
			}
			return sqlRowScanner{rows: rows}, nil
		},
		beginTx: func(db *sql.DB) (*sql.Tx, error) {
			return db.Begin()
		},
		commit: func(tx *sql.Tx) error {
			return tx.Commit()
		},
	}
}

func (s *Store) execHook(db execer, query string, args ...any) (sql.Result, error) {
	if s.hooks.exec != nil {
		return s.hooks.exec(db, query, args...)
	}
	return db.Exec(query, args...)
}

func (s *Store) queryItHook(db queryer, query string, args ...any) (rowScanner, error) {
	if s.hooks.queryIt != nil {
		return s.hooks.queryIt(db, query, args...)
	}
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRowScanner{rows: rows}, nil
}

func (s *Store) beginTxHook() (*sql.Tx, error) {
	if s.hooks.beginTx != nil {
		return s.hooks.beginTx(s.db)
	}
	return s.db.Begin()
}

func (s *Store) commitHook(tx *sql.Tx) error {
	if s.hooks.commit != nil {
		return s.hooks.commit(tx)
	}
	return tx.Commit()
}

// New creates a new Store with the given configuration.
// It creates the data directory if needed, opens SQLite with WAL mode,
// and runs migrations.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("memory: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "clarify.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("memory: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("memory: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg, hooks: defaultStoreHooks()}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("memory: migration: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS threads (
			id         TEXT PRIMARY KEY,
			project    TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_threads_project ON threads(project);
		CREATE INDEX IF NOT EXISTS idx_threads_updated ON threads(updated_at DESC);

		CREATE TABLE IF NOT EXISTS turns (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			thread_id  TEXT    NOT NULL,
			seq        INTEGER NOT NULL,
			role       TEXT    NOT NULL,
			content    TEXT    NOT NULL,
			artifacts  TEXT,
			created_at TEXT    NOT NULL DEFAULT (datetime('now')),
			FOREIGN KEY (thread_id) REFERENCES threads(id) ON DELETE CASCADE
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_turns_seq ON turns(thread_id, seq);

		CREATE TABLE IF NOT EXISTS project_memory (
			project        TEXT    NOT NULL,
			key            TEXT    NOT NULL,
			value          TEXT    NOT NULL,
			revision_count INTEGER NOT NULL DEFAULT 1,
			created_at     TEXT    NOT NULL DEFAULT (datetime('now')),
			updated_at     TEXT    NOT NULL DEFAULT (datetime('now')),
			PRIMARY KEY (project, key)
		);
	`
	_, err := s.execHook(s.db, schema)
	return err
}

// ─── Threads ─────────────────────────────────────────────────────────────────

// CreateThread registers a thread. Creating an existing thread is a no-op.
func (s *Store) CreateThread(id, project string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("memory: create thread: empty id")
	}
	_, err := s.execHook(s.db,
		`INSERT OR IGNORE INTO threads (id, project) VALUES (?, ?)`,
		id, project,
	)
	if err != nil {
		return fmt.Errorf("memory: create thread %s: %w", id, err)
	}
	return nil
}

// GetThread retrieves a thread by ID.
func (s *Store) GetThread(id string) (*Thread, error) {
	row := s.db.QueryRow(
		`SELECT id, project, created_at, updated_at FROM threads WHERE id = ?`, id,
	)
	var th Thread
	if err := row.Scan(&th.ID, &th.Project, &th.CreatedAt, &th.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrThreadNotFound
		}
		return nil, fmt.Errorf("memory: get thread %s: %w", id, err)
	}
	return &th, nil
}

// AppendTurns appends turns to a thread in order, in one transaction.
// Content is redacted and truncated to MaxTurnLength before it is stored.
func (s *Store) AppendTurns(threadID string, turns ...AppendTurnParams) error {
	if len(turns) == 0 {
		return nil
	}

	tx, err := s.beginTxHook()
	if err != nil {
		return fmt.Errorf("memory: append turns: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var seq int
	if err := tx.QueryRow(`SELECT COALESCE(MAX(seq), 0) FROM turns WHERE thread_id = ?`, threadID).Scan(&seq); err != nil {
		return fmt.Errorf("memory: append turns: read seq: %w", err)
	}

	for _, t := range turns {
		seq++
		artifacts, err := encodeArtifacts(t.Artifacts)
		if err != nil {
			return fmt.Errorf("memory: append turns: %w", err)
		}
		if _, err := s.execHook(tx,
			`INSERT INTO turns (thread_id, seq, role, content, artifacts) VALUES (?, ?, ?, ?, ?)`,
			threadID, seq, t.Role, s.clampContent(t.Content), artifacts,
		); err != nil {
			if isForeignKeyViolation(err) {
				return ErrThreadNotFound
			}
			return fmt.Errorf("memory: append turn %d: %w", seq, err)
		}
	}

	if _, err := s.execHook(tx, `UPDATE threads SET updated_at = datetime('now') WHERE id = ?`, threadID); err != nil {
		return fmt.Errorf("memory: append turns: touch thread: %w", err)
	}

	if err := s.commitHook(tx); err != nil {
		return fmt.Errorf("memory: append turns: commit: %w", err)
	}
	return nil
}

// Turns returns every turn of a thread in append order.
func (s *Store) Turns(threadID string) ([]Turn, error) {
	rows, err := s.queryItHook(s.db,
		`SELECT id, thread_id, seq, role, content, artifacts, created_at
		 FROM turns WHERE thread_id = ? ORDER BY seq`,
		threadID,
	)
	if err != nil {
		return nil, fmt.Errorf("memory: turns %s: %w", threadID, err)
	}
	defer func() { _ = rows.Close() }()

	var results []Turn
	for rows.Next() {
		var t Turn
		var artifacts *string
		if err := rows.Scan(&t.ID, &t.ThreadID, &t.Seq, &t.Role, &t.Content, &artifacts, &t.CreatedAt); err != nil {
			return nil, err
		}
		if t.Artifacts, err = decodeArtifacts(artifacts); err != nil {
			return nil, fmt.Errorf("memory: turn %d artifacts: %w", t.Seq, err)
		}
		results = append(results, t)
	}
	return results, rows.Err()
}

// RecentThreads returns recently active threads with turn counts, newest
// first. An empty project matches every project.
func (s *Store) RecentThreads(project string, limit int) ([]ThreadSummary, error) {
	if limit <= 0 {
		limit = s.cfg.MaxThreadResults
	}
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT t.id, t.project, t.created_at, t.updated_at,
		       COUNT(u.id) AS turn_count,
		       (SELECT content FROM turns WHERE thread_id = t.id ORDER BY seq DESC LIMIT 1) AS last_turn
		FROM threads t
		LEFT JOIN turns u ON u.thread_id = t.id
		WHERE 1=1
	`
	args := []any{}

	if project != "" {
		query += " AND t.project = ?"
		args = append(args, project)
	}

	query += " GROUP BY t.id ORDER BY t.updated_at DESC, t.rowid DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.queryItHook(s.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("memory: recent threads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []ThreadSummary
	for rows.Next() {
		var ts ThreadSummary
		if err := rows.Scan(&ts.ID, &ts.Project, &ts.CreatedAt, &ts.UpdatedAt, &ts.TurnCount, &ts.LastTurn); err != nil {
			return nil, err
		}
		results = append(results, ts)
	}
	return results, rows.Err()
}

// ─── Project Memory ──────────────────────────────────────────────────────────

// UpsertEntry creates key in project or replaces its value. Writing the same
// value again leaves the row untouched.
func (s *Store) UpsertEntry(project, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("memory: upsert entry: empty key")
	}
	_, err := s.execHook(s.db,
		`INSERT INTO project_memory (project, key, value) VALUES (?, ?, ?)
		 ON CONFLICT (project, key) DO UPDATE SET
		     value          = excluded.value,
		     revision_count = project_memory.revision_count + 1,
		     updated_at     = datetime('now')
		 WHERE project_memory.value <> excluded.value`,
		project, key, value,
	)
	if err != nil {
		return fmt.Errorf("memory: upsert entry %s/%s: %w", project, key, err)
	}
	return nil
}

// ListEntries returns a project's entries in insertion order.
// An unknown project yields an empty list.
func (s *Store) ListEntries(project string) ([]Entry, error) {
	rows, err := s.queryItHook(s.db,
		`SELECT project, key, value, revision_count, created_at, updated_at
		 FROM project_memory WHERE project = ? ORDER BY rowid`,
		project,
	)
	if err != nil {
		return nil, fmt.Errorf("memory: list entries %s: %w", project, err)
	}
	defer func() { _ = rows.Close() }()

	results := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Project, &e.Key, &e.Value, &e.RevisionCount, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	return results, rows.Err()
}

// ─── Stats ───────────────────────────────────────────────────────────────────

// Stats returns aggregate store statistics.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}

	counts := []struct {
		table string
		dest  *int
	}{
		{"threads", &stats.TotalThreads},
		{"turns", &stats.TotalTurns},
		{"project_memory", &stats.TotalEntries},
	}
	for _, c := range counts {
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + c.table).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("memory: count %s: %w", c.table, err)
		}
	}

	rows, err := s.queryItHook(s.db, `
		SELECT project FROM (
			SELECT project, updated_at FROM threads
			UNION ALL
			SELECT project, updated_at FROM project_memory
		) GROUP BY project ORDER BY MAX(updated_at) DESC`)
	if err != nil {
		return nil, fmt.Errorf("memory: list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("memory: scan project: %w", err)
		}
		stats.Projects = append(stats.Projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("memory: list projects: %w", err)
	}

	return stats, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func (s *Store) clampContent(content string) string {
	content = stripPrivateTags(content)
	if s.cfg.MaxTurnLength > 0 && len(content) > s.cfg.MaxTurnLength {
		content = cutAtRune(content, s.cfg.MaxTurnLength) + "... [truncated]"
	}
	return content
}

func encodeArtifacts(a map[string]any) (*string, error) {
	if len(a) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode artifacts: %w", err)
	}
	return nullableString(string(b)), nil
}

func decodeArtifacts(raw *string) (map[string]any, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(*raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Truncate shortens s to at most max bytes plus an ellipsis, never splitting
// a character.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return cutAtRune(s, max) + "..."
}

// cutAtRune returns the longest prefix of s no longer than n bytes that ends
// on a character boundary.
func cutAtRune(s string, n int) string {
	if n >= len(s) {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// privateTagRegex matches <private>...</private> tags and their contents.
var privateTagRegex = regexp.MustCompile(`(?is)<private>.*?</private>`)

// stripPrivateTags removes all <private>...</private> content from a string.
func stripPrivateTags(s string) string {
	result := privateTagRegex.ReplaceAllString(s, "[REDACTED]")
	return strings.TrimSpace(result)
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
