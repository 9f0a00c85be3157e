// Package dialogue holds the client side of a thread-scoped clarification
// conversation: the optional thread identity, the append-only transcript and
// the Session that exchanges turns with a dialogue service.
package dialogue

import "maps"

// Role attributes a turn to a participant. Roles outside the known set are
// carried verbatim.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Turn is one message in a thread. Turns are treated as immutable once they
// are in a transcript.
type Turn struct {
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Artifacts map[string]any `json:"artifacts,omitempty"`
}

// clone copies the artifacts map so callers cannot reach into a transcript.
func (t Turn) clone() Turn {
	if t.Artifacts != nil {
		t.Artifacts = maps.Clone(t.Artifacts)
	}
	return t
}

// ThreadID is an optional thread identifier. The zero value is "no thread".
type ThreadID struct {
	id string
}

// NoThread returns the absent thread id.
func NoThread() ThreadID {
	return ThreadID{}
}

// Thread wraps id. An empty id is the same as NoThread.
func Thread(id string) ThreadID {
	return ThreadID{id: id}
}

// Get returns the id and whether one is present.
func (t ThreadID) Get() (string, bool) {
	return t.id, t.id != ""
}

// Present reports whether an id is set.
func (t ThreadID) Present() bool {
	return t.id != ""
}

func (t ThreadID) String() string {
	if t.id == "" {
		return "<unbound>"
	}
	return t.id
}
