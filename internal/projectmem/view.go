// Package projectmem is the client-side view of a project's key/value memory.
//
// The entries themselves live in an external memory service reached through
// a Backend. A View never caches: every call goes to the backend and the
// returned list is the authoritative state at the time of the response.
package projectmem

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DefaultProjectID is used when a caller does not name a project.
const DefaultProjectID = "default"

// ErrEmptyKey is returned by Upsert when the key is blank.
var ErrEmptyKey = errors.New("projectmem: key must not be empty")

// Entry is one key/value pair. Keys are unique within a project.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Backend is the remote memory service.
type Backend interface {
	MemoryGet(ctx context.Context, projectID string) ([]Entry, error)
	MemoryUpsert(ctx context.Context, projectID, key, value string) ([]Entry, error)
}

// View scopes a Backend to one project.
type View struct {
	backend   Backend
	projectID string
}

// NewView returns a view of projectID. A blank project id means DefaultProjectID.
func NewView(backend Backend, projectID string) *View {
	if strings.TrimSpace(projectID) == "" {
		projectID = DefaultProjectID
	}
	return &View{backend: backend, projectID: projectID}
}

// ProjectID returns the project this view is scoped to.
func (v *View) ProjectID() string {
	return v.projectID
}

// Upsert creates or replaces key and returns the project's entries as the
// backend reports them after the write. Re-upserting an identical pair is
// still sent to the backend.
func (v *View) Upsert(ctx context.Context, key, value string) ([]Entry, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrEmptyKey
	}
	entries, err := v.backend.MemoryUpsert(ctx, v.projectID, key, value)
	if err != nil {
		return nil, fmt.Errorf("projectmem: upsert %q: %w", key, err)
	}
	return entries, nil
}

// List returns the project's entries. Order is whatever the backend returns.
func (v *View) List(ctx context.Context) ([]Entry, error) {
	entries, err := v.backend.MemoryGet(ctx, v.projectID)
	if err != nil {
		return nil, fmt.Errorf("projectmem: list: %w", err)
	}
	return entries, nil
}

// Lookup finds key in entries.
func Lookup(entries []Entry, key string) (string, bool) {
	for _, e := range entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}
