package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/HendryAvila/clarify/internal/ambiguity"
	"github.com/HendryAvila/clarify/internal/dialogue"
	"github.com/HendryAvila/clarify/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedServer answers every request with status and body and captures the
// last request body.
func fixedServer(t *testing.T, status int, body string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			raw, _ := io.ReadAll(r.Body)
			m := map[string]any{"_method": r.Method, "_path": r.URL.Path, "_query": r.URL.RawQuery}
			_ = json.Unmarshal(raw, &m)
			*seen = m
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnalyze_DecodesFindings(t *testing.T) {
	var seen map[string]any
	srv := fixedServer(t, http.StatusOK, `{"ambiguities":[{"category":"vagueness","message":"m","score":0.6}]}`, &seen)

	findings, err := remote.New(srv.URL).Analyze(context.Background(), "make it fast")
	require.NoError(t, err)
	assert.Equal(t, []ambiguity.Finding{{Category: ambiguity.CategoryVagueness, Message: "m", Score: 0.6}}, findings)
	assert.Equal(t, "POST", seen["_method"])
	assert.Equal(t, "/v1/analyze_context", seen["_path"])
	assert.Equal(t, "make it fast", seen["text"])
}

func TestAnalyze_MalformedListsAreEmpty(t *testing.T) {
	for _, body := range []string{`{}`, `{"ambiguities":null}`, `{"ambiguities":"oops"}`, `{"ambiguities":{"a":1}}`, `null`} {
		t.Run(body, func(t *testing.T) {
			srv := fixedServer(t, http.StatusOK, body, nil)
			findings, err := remote.New(srv.URL).Analyze(context.Background(), "x")
			require.NoError(t, err)
			assert.Empty(t, findings)
		})
	}
}

func TestAnalyze_NonObjectBodyIsDecodeError(t *testing.T) {
	srv := fixedServer(t, http.StatusOK, `<html>proxy error</html>`, nil)

	_, err := remote.New(srv.URL).Analyze(context.Background(), "x")
	var rerr *remote.Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, remote.KindDecode, rerr.Kind)
	assert.Equal(t, "analyze", rerr.Op)
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"structured", `{"code":"bad_request","message":"key is required"}`, "key is required"},
		{"fastapi detail", `{"detail":"Not Found"}`, "Not Found"},
		{"plain text", `upstream down`, "upstream down"},
		{"long multibyte text", "a" + strings.Repeat("é", 150), "a" + strings.Repeat("é", 99) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := fixedServer(t, http.StatusBadGateway, tt.body, nil)

			_, err := remote.New(srv.URL).MemoryGet(context.Background(), "p")
			var rerr *remote.Error
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, remote.KindStatus, rerr.Kind)
			assert.Equal(t, http.StatusBadGateway, rerr.StatusCode)
			assert.Equal(t, tt.message, rerr.Message)
			assert.Contains(t, err.Error(), "502")
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := remote.New(url, remote.WithTimeout(time.Second)).Analyze(context.Background(), "x")
	var rerr *remote.Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, remote.KindTransport, rerr.Kind)
	assert.Contains(t, err.Error(), "unreachable")
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	start := time.Now()
	_, err := remote.New(srv.URL, remote.WithTimeout(50*time.Millisecond)).Analyze(context.Background(), "x")
	var rerr *remote.Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, remote.KindTransport, rerr.Kind)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestDialogue_RequestAndReply(t *testing.T) {
	var seen map[string]any
	srv := fixedServer(t, http.StatusOK, `{
		"thread_id": "t1",
		"replies": [{"role":"assistant","content":"- question"}, "junk"],
		"next_actions": ["ask", 3],
		"memory_updates": [{"k":"v"}]
	}`, &seen)
	c := remote.New(srv.URL)

	reply, err := c.Dialogue(context.Background(), dialogue.Request{
		ThreadID:  dialogue.NoThread(),
		Turn:      dialogue.Turn{Role: dialogue.RoleUser, Content: "hi"},
		ProjectID: "p",
	})
	require.NoError(t, err)
	assert.Equal(t, "t1", reply.ThreadID)
	assert.Equal(t, []dialogue.Turn{{Role: dialogue.RoleAssistant, Content: "- question"}}, reply.Replies)
	assert.Equal(t, []string{"ask"}, reply.NextActions)
	assert.Equal(t, []map[string]any{{"k": "v"}}, reply.MemoryUpdates)

	_, hasThread := seen["thread_id"]
	assert.False(t, hasThread, "unbound request must omit thread_id")
	assert.Equal(t, "p", seen["project_id"])

	_, err = c.Dialogue(context.Background(), dialogue.Request{ThreadID: dialogue.Thread("t1"), Turn: dialogue.Turn{Role: "user", Content: "x"}})
	require.NoError(t, err)
	assert.Equal(t, "t1", seen["thread_id"])
}

func TestDialogue_MissingThreadID(t *testing.T) {
	srv := fixedServer(t, http.StatusOK, `{"replies":[{"role":"assistant","content":"a"}]}`, nil)

	reply, err := remote.New(srv.URL).Dialogue(context.Background(), dialogue.Request{Turn: dialogue.Turn{Role: "user", Content: "x"}})
	require.NoError(t, err)
	assert.Empty(t, reply.ThreadID)
	assert.Len(t, reply.Replies, 1)
	assert.Empty(t, reply.MemoryUpdates)
}

func TestGenerateCode(t *testing.T) {
	var seen map[string]any
	srv := fixedServer(t, http.StatusOK, `{"code":"package x","rationale":"r","tests":null}`, &seen)

	out, err := remote.New(srv.URL).GenerateCode(context.Background(), dialogue.GenerateRequest{
		ThreadID:    "t1",
		Goal:        "g",
		Constraints: map[string]any{"lang": "go"},
	})
	require.NoError(t, err)
	assert.Equal(t, &dialogue.Generated{Code: "package x", Rationale: "r"}, out)
	assert.Equal(t, "/v1/generate_code", seen["_path"])
	assert.Equal(t, map[string]any{"lang": "go"}, seen["constraints"])
}

func TestSummarize(t *testing.T) {
	srv := fixedServer(t, http.StatusOK, `{"summary":[{"category":"none","message":"ok","count":2}]}`, nil)

	items, err := remote.New(srv.URL).Summarize(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []ambiguity.SummaryItem{{Category: ambiguity.CategoryNone, Message: "ok", Count: 2}}, items)
}

func TestMemory(t *testing.T) {
	var seen map[string]any
	srv := fixedServer(t, http.StatusOK, `{"project_id":"p","items":[{"key":"a","value":"1"},{"key":"b","value":{"n":2}},{"key":"c","value":7}]}`, &seen)
	c := remote.New(srv.URL)

	entries, err := c.MemoryGet(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "GET", seen["_method"])
	assert.Equal(t, "project_id=p", seen["_query"])
	require.Len(t, entries, 3)
	assert.Equal(t, "1", entries[0].Value)
	assert.Equal(t, `{"n":2}`, entries[1].Value)
	assert.Equal(t, "7", entries[2].Value)

	_, err = c.MemoryUpsert(context.Background(), "p", "a", "2")
	require.NoError(t, err)
	assert.Equal(t, "POST", seen["_method"])
	assert.Equal(t, "a", seen["key"])
	assert.Equal(t, "2", seen["value"])
}

func TestHealth(t *testing.T) {
	srv := fixedServer(t, http.StatusOK, `{"status":"ok","version":"1.2.3"}`, nil)
	h, err := remote.New(srv.URL + "/").Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, "1.2.3", h.Version)
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := &remote.Error{Op: "analyze", Kind: remote.KindTransport, Err: cause}
	assert.ErrorIs(t, err, cause)
}
