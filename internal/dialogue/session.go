package dialogue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/HendryAvila/clarify/internal/projectmem"
	"go.uber.org/zap"
)

var (
	// ErrNoService is returned when a session is started without a service.
	ErrNoService = errors.New("dialogue: no service configured")

	// ErrNoGenerator is returned by Generate when nothing can generate code.
	ErrNoGenerator = errors.New("dialogue: no code generator configured")

	// ErrNoMemory is returned by Remember and Recall when the session has no
	// memory backend.
	ErrNoMemory = errors.New("dialogue: no project memory configured")
)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithProjectID sets the project the session's turns and memory belong to.
func WithProjectID(projectID string) Option {
	return func(s *Session) { s.projectID = projectID }
}

// WithMemory sets the project memory backend. Without it the session uses
// the service when the service also implements projectmem.Backend.
func WithMemory(backend projectmem.Backend) Option {
	return func(s *Session) { s.memoryBackend = backend }
}

// WithGenerator sets the code generator. Without it the session uses the
// service when the service also implements Generator.
func WithGenerator(g Generator) Option {
	return func(s *Session) { s.generator = g }
}

// Session owns the client-visible state of one conversation thread.
//
// Turns are serialized: a second SubmitTurn waits until the first returns,
// so the transcript never interleaves and the thread binds at most once.
// Accessors may be called at any time.
type Session struct {
	svc           Service
	generator     Generator
	memoryBackend projectmem.Backend
	memory        *projectmem.View
	projectID     string
	logger        *zap.Logger

	// slot holds one token while a turn is in flight.
	slot chan struct{}

	mu         sync.Mutex
	thread     ThreadID
	binding    *binding
	transcript Transcript
}

// StartOrContinue opens a session on thread. With NoThread the session is
// unbound and adopts the id from the first successful reply; otherwise it
// starts bound to thread.
func StartOrContinue(svc Service, thread ThreadID, opts ...Option) (*Session, error) {
	if svc == nil {
		return nil, ErrNoService
	}

	s := &Session{
		svc:    svc,
		logger: zap.NewNop(),
		slot:   make(chan struct{}, 1),
		thread: thread,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.projectID == "" {
		s.projectID = projectmem.DefaultProjectID
	}
	if s.generator == nil {
		if g, ok := svc.(Generator); ok {
			s.generator = g
		}
	}
	if s.memoryBackend == nil {
		if b, ok := svc.(projectmem.Backend); ok {
			s.memoryBackend = b
		}
	}
	if s.memoryBackend != nil {
		s.memory = projectmem.NewView(s.memoryBackend, s.projectID)
	}

	b, err := newBinding(thread.Present(), thread.String())
	if err != nil {
		return nil, err
	}
	s.binding = b

	return s, nil
}

// ThreadID returns the current thread id, absent while unbound.
func (s *Session) ThreadID() ThreadID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.thread
}

// State reports whether the session is bound.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.binding.current()
}

// ProjectID returns the project the session belongs to.
func (s *Session) ProjectID() string {
	return s.projectID
}

// Transcript returns a copy of every turn so far, oldest first.
func (s *Session) Transcript() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript.Turns()
}

// SubmitTurn appends a user turn, sends it to the service and appends the
// replies in the order received. It returns the full transcript.
//
// The user turn is appended before dispatch and stays there if the call
// fails. Nothing is retried.
func (s *Session) SubmitTurn(ctx context.Context, content string) ([]Turn, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	turn := Turn{Role: RoleUser, Content: content}

	s.mu.Lock()
	s.transcript.Append(turn)
	thread := s.thread
	s.mu.Unlock()

	reply, err := s.svc.Dialogue(ctx, Request{ThreadID: thread, Turn: turn, ProjectID: s.projectID})
	if err != nil {
		s.logger.Warn("dialogue turn failed",
			zap.String("thread_id", thread.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("dialogue: submit turn: %w", err)
	}
	if reply == nil {
		reply = &Reply{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.adopt(reply.ThreadID)
	s.transcript.Append(reply.Replies...)

	s.logger.Debug("dialogue turn complete",
		zap.String("thread_id", s.thread.String()),
		zap.Int("replies", len(reply.Replies)),
		zap.Int("transcript_len", s.transcript.Len()),
	)

	return s.transcript.Turns(), nil
}

// adopt applies the thread id from a successful reply. Callers hold mu.
func (s *Session) adopt(id string) {
	current, bound := s.thread.Get()

	if bound {
		if id != "" && id != current {
			s.logger.Warn("ignoring thread id change on bound session",
				zap.String("thread_id", current),
				zap.String("reported", id),
			)
		}
		s.binding.send(eventTurn)
		return
	}

	if id == "" {
		s.logger.Debug("reply carried no thread id; session stays unbound")
		return
	}

	s.binding.send(eventBind)
	s.thread = Thread(id)
	s.logger.Info("dialogue session bound", zap.String("thread_id", id))
}

func (s *Session) acquire(ctx context.Context) error {
	select {
	case s.slot <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("dialogue: waiting for previous turn: %w", ctx.Err())
	}
}

func (s *Session) release() {
	<-s.slot
}

// Generate asks for code for goal on the session's thread, or on AdHocThread
// while unbound.
func (s *Session) Generate(ctx context.Context, goal string, constraints map[string]any) (*Generated, error) {
	if s.generator == nil {
		return nil, ErrNoGenerator
	}
	id, ok := s.ThreadID().Get()
	if !ok {
		id = AdHocThread
	}
	out, err := s.generator.GenerateCode(ctx, GenerateRequest{ThreadID: id, Goal: goal, Constraints: constraints})
	if err != nil {
		return nil, fmt.Errorf("dialogue: generate: %w", err)
	}
	return out, nil
}

// Remember upserts key in the session's project memory.
func (s *Session) Remember(ctx context.Context, key, value string) ([]projectmem.Entry, error) {
	if s.memory == nil {
		return nil, ErrNoMemory
	}
	return s.memory.Upsert(ctx, key, value)
}

// Recall lists the session's project memory.
func (s *Session) Recall(ctx context.Context) ([]projectmem.Entry, error) {
	if s.memory == nil {
		return nil, ErrNoMemory
	}
	return s.memory.List(ctx)
}
