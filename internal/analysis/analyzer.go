// Package analysis decides which findings a caller sees: the remote
// service's when it answers, the local heuristic's when it does not.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/clarify/internal/ambiguity"
	"go.uber.org/zap"
)

// Policy says how remote and local findings combine.
type Policy string

const (
	// PolicyReplace shows remote findings when there are any, local ones
	// otherwise.
	PolicyReplace Policy = "replace"
	// PolicyMerge shows remote findings followed by local findings the
	// remote side did not already report.
	PolicyMerge Policy = "merge"
	// PolicyLocal never calls the remote service.
	PolicyLocal Policy = "local"
)

// DefaultMaxQuestions caps the findings shown to a user.
const DefaultMaxQuestions = 3

// ParsePolicy validates a policy name. Empty means PolicyReplace.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyReplace, nil
	case PolicyReplace, PolicyMerge, PolicyLocal:
		return p, nil
	default:
		return "", fmt.Errorf("unknown analysis policy %q (want replace, merge or local)", s)
	}
}

// Remote is the remote analysis port.
type Remote interface {
	Analyze(ctx context.Context, text string) ([]ambiguity.Finding, error)
}

// Source says where a result's findings came from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
	SourceMerged Source = "merged"
)

// Result is the outcome of one analysis.
type Result struct {
	Findings []ambiguity.Finding
	Source   Source
	// Total is the number of findings before truncation.
	Total int
	// Clarity scores every finding, including truncated ones.
	Clarity ambiguity.ClarityReport
	// RemoteErr is set when the remote call failed and local findings were
	// used instead.
	RemoteErr error
}

// Truncated reports whether findings were dropped by the question cap.
func (r Result) Truncated() bool {
	return len(r.Findings) < r.Total
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithPolicy sets the combination policy.
func WithPolicy(p Policy) Option {
	return func(a *Analyzer) { a.policy = p }
}

// WithMaxQuestions caps the findings. Zero or less means no cap.
func WithMaxQuestions(n int) Option {
	return func(a *Analyzer) { a.maxQuestions = n }
}

// WithDetector sets the local detector.
func WithDetector(d *ambiguity.Detector) Option {
	return func(a *Analyzer) {
		if d != nil {
			a.detector = d
		}
	}
}

// WithLogger sets the analyzer logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// Analyzer never fails: every path ends in a non-empty finding list.
type Analyzer struct {
	remote       Remote
	detector     *ambiguity.Detector
	policy       Policy
	maxQuestions int
	logger       *zap.Logger
}

// New creates an Analyzer. remote may be nil, which behaves like PolicyLocal.
func New(remote Remote, opts ...Option) *Analyzer {
	a := &Analyzer{
		remote:       remote,
		detector:     ambiguity.NewDetector(),
		policy:       PolicyReplace,
		maxQuestions: DefaultMaxQuestions,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze returns the findings for text under the configured policy.
func (a *Analyzer) Analyze(ctx context.Context, text string) Result {
	local := a.detector.Detect(text)

	if a.remote == nil || a.policy == PolicyLocal {
		return a.finish(Result{Findings: local, Source: SourceLocal})
	}

	remote, err := a.remote.Analyze(ctx, text)
	if err != nil {
		a.logger.Warn("remote analysis failed; using local heuristics", zap.Error(err))
		return a.finish(Result{Findings: local, Source: SourceLocal, RemoteErr: err})
	}
	if len(remote) == 0 {
		a.logger.Debug("remote analysis returned nothing; using local heuristics")
		return a.finish(Result{Findings: local, Source: SourceLocal})
	}

	if a.policy == PolicyMerge {
		return a.finish(Result{Findings: merge(remote, local), Source: SourceMerged})
	}
	return a.finish(Result{Findings: remote, Source: SourceRemote})
}

func (a *Analyzer) finish(r Result) Result {
	r.Total = len(r.Findings)
	r.Clarity = ambiguity.Clarity(r.Findings, ambiguity.DefaultClarityThreshold)
	r.Findings = ambiguity.Limit(r.Findings, a.maxQuestions)
	return r
}

// merge appends local findings the remote list lacks. A local "none" is
// dropped when remote reported anything real, and a remote "none" is dropped
// when local found something.
func merge(remote, local []ambiguity.Finding) []ambiguity.Finding {
	seen := make(map[string]bool, len(remote))
	out := make([]ambiguity.Finding, 0, len(remote)+len(local))

	for _, f := range remote {
		seen[string(f.Category)+":"+f.Message] = true
		out = append(out, f)
	}
	for _, f := range local {
		if !seen[string(f.Category)+":"+f.Message] {
			out = append(out, f)
		}
	}

	found := make([]ambiguity.Finding, 0, len(out))
	for _, f := range out {
		if !f.IsNone() {
			found = append(found, f)
		}
	}
	if len(found) == 0 {
		return out[:1]
	}
	return found
}
