// Package remote is the HTTP client of the clarify service.
//
// Every method maps to one route of the service. Failures come back as
// *Error; responses with missing or mistyped fields decode to empty values.
package remote

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/HendryAvila/clarify/internal/ambiguity"
	"github.com/HendryAvila/clarify/internal/api"
	"github.com/HendryAvila/clarify/internal/dialogue"
	"github.com/HendryAvila/clarify/internal/projectmem"
	"github.com/felixgeelhaar/fortify/timeout"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// DefaultTimeout bounds each request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Zero keeps DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient makes the client send requests through hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// Client talks to a clarify service. It is safe for concurrent use.
type Client struct {
	http       *resty.Client
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
	baseURL    string
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient != nil {
		c.http = resty.NewWithClient(c.httpClient)
	} else {
		c.http = resty.New()
	}
	c.http.
		SetBaseURL(c.baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return c
}

// BaseURL returns the service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ─── Transport ───────────────────────────────────────────────────────────────

// call performs one request and returns the raw body of a 2xx response.
func (c *Client) call(ctx context.Context, op, method, path string, body any, query map[string]string) ([]byte, error) {
	start := time.Now()
	limiter := timeout.New[[]byte](timeout.Config{DefaultTimeout: c.timeout})

	out, err := limiter.Execute(ctx, c.timeout, func(ctx context.Context) ([]byte, error) {
		req := c.http.R().SetContext(ctx)
		if body != nil {
			req.SetBody(body)
		}
		if len(query) > 0 {
			req.SetQueryParams(query)
		}

		resp, err := req.Execute(method, path)
		if err != nil {
			return nil, &Error{Op: op, Kind: KindTransport, Err: err}
		}
		if !resp.IsSuccess() {
			return nil, &Error{
				Op:         op,
				Kind:       KindStatus,
				StatusCode: resp.StatusCode(),
				Message:    errorMessage(resp.Body()),
			}
		}
		return resp.Body(), nil
	})

	if err != nil {
		var rerr *Error
		if !errors.As(err, &rerr) {
			rerr = &Error{Op: op, Kind: KindTransport, Err: err}
		}
		c.logger.Warn("clarify request failed",
			zap.String("op", op),
			zap.String("kind", string(rerr.Kind)),
			zap.Int("status", rerr.StatusCode),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, rerr
	}

	c.logger.Debug("clarify request",
		zap.String("op", op),
		zap.String("path", path),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

func (c *Client) callObject(ctx context.Context, op, method, path string, body any, query map[string]string) (object, error) {
	raw, err := c.call(ctx, op, method, path, body, query)
	if err != nil {
		return nil, err
	}
	obj, err := parseObject(raw)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindDecode, Err: err}
	}
	return obj, nil
}

// ─── Operations ──────────────────────────────────────────────────────────────

// Health checks that the service is up.
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	obj, err := c.callObject(ctx, "health", http.MethodGet, api.RouteHealth, nil, nil)
	if err != nil {
		return nil, err
	}
	return &api.HealthResponse{Status: obj.str("status"), Version: obj.str("version")}, nil
}

// Analyze asks the service for the ambiguities in text.
func (c *Client) Analyze(ctx context.Context, text string) ([]ambiguity.Finding, error) {
	return c.AnalyzeArtifact(ctx, api.AnalyzeRequest{Text: text})
}

// AnalyzeArtifact is Analyze with an artifact type and mode.
func (c *Client) AnalyzeArtifact(ctx context.Context, req api.AnalyzeRequest) ([]ambiguity.Finding, error) {
	obj, err := c.callObject(ctx, "analyze", http.MethodPost, api.RouteAnalyze, req, nil)
	if err != nil {
		return nil, err
	}
	return findingsOf(obj), nil
}

// Dialogue sends one turn. It implements dialogue.Service.
func (c *Client) Dialogue(ctx context.Context, req dialogue.Request) (*dialogue.Reply, error) {
	obj, err := c.callObject(ctx, "dialogue", http.MethodPost, api.RouteDialogue, api.DialogueRequest{
		ThreadID:  api.ThreadIDPtr(req.ThreadID),
		Turn:      req.Turn,
		ProjectID: req.ProjectID,
	}, nil)
	if err != nil {
		return nil, err
	}
	return &dialogue.Reply{
		ThreadID:      obj.str("thread_id"),
		Replies:       turnsOf(obj, "replies"),
		NextActions:   obj.stringList("next_actions"),
		MemoryUpdates: updatesOf(obj),
	}, nil
}

// GenerateCode asks for code on a thread. It implements dialogue.Generator.
func (c *Client) GenerateCode(ctx context.Context, req dialogue.GenerateRequest) (*dialogue.Generated, error) {
	obj, err := c.callObject(ctx, "generate_code", http.MethodPost, api.RouteGenerate, api.GenerateRequest{
		ThreadID:    req.ThreadID,
		Goal:        req.Goal,
		Constraints: req.Constraints,
	}, nil)
	if err != nil {
		return nil, err
	}
	return &dialogue.Generated{
		Code:      obj.str("code"),
		Rationale: obj.str("rationale"),
		Tests:     obj.str("tests"),
	}, nil
}

// Summarize asks the service to group the findings in text.
func (c *Client) Summarize(ctx context.Context, text string) ([]ambiguity.SummaryItem, error) {
	obj, err := c.callObject(ctx, "summarize", http.MethodPost, api.RouteSummarize, api.SummarizeRequest{Text: text}, nil)
	if err != nil {
		return nil, err
	}
	return summaryOf(obj), nil
}

// MemoryGet lists a project's memory. It implements projectmem.Backend.
func (c *Client) MemoryGet(ctx context.Context, projectID string) ([]projectmem.Entry, error) {
	obj, err := c.callObject(ctx, "memory_get", http.MethodGet, api.RouteMemory, nil, map[string]string{"project_id": projectID})
	if err != nil {
		return nil, err
	}
	return entriesOf(obj), nil
}

// MemoryUpsert writes one entry. It implements projectmem.Backend.
func (c *Client) MemoryUpsert(ctx context.Context, projectID, key, value string) ([]projectmem.Entry, error) {
	obj, err := c.callObject(ctx, "memory_upsert", http.MethodPost, api.RouteMemory, api.MemoryUpsertRequest{
		ProjectID: projectID,
		Key:       key,
		Value:     value,
	}, nil)
	if err != nil {
		return nil, err
	}
	return entriesOf(obj), nil
}

var (
	_ dialogue.Service   = (*Client)(nil)
	_ dialogue.Generator = (*Client)(nil)
	_ projectmem.Backend = (*Client)(nil)
)
