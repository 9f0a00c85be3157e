package dialogue

import "context"

// AdHocThread is the thread id used for generation requests made before a
// session is bound.
const AdHocThread = "ad-hoc"

// Request is one turn dispatched to a dialogue service.
type Request struct {
	ThreadID  ThreadID
	Turn      Turn
	ProjectID string
}

// Reply is what a dialogue service answers. ThreadID is empty when the
// service did not report one.
type Reply struct {
	ThreadID      string
	Replies       []Turn
	NextActions   []string
	MemoryUpdates []map[string]any
}

// Service exchanges turns with the component that owns threads.
type Service interface {
	Dialogue(ctx context.Context, req Request) (*Reply, error)
}

// GenerateRequest asks for code for a thread.
type GenerateRequest struct {
	ThreadID    string
	Goal        string
	Constraints map[string]any
}

// Generated is the result of a generation request.
type Generated struct {
	Code      string `json:"code"`
	Rationale string `json:"rationale"`
	Tests     string `json:"tests,omitempty"`
}

// Generator produces code for a thread.
type Generator interface {
	GenerateCode(ctx context.Context, req GenerateRequest) (*Generated, error)
}
