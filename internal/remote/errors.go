package remote

import "fmt"

// Kind classifies a remote failure.
type Kind string

const (
	// KindTransport means the request did not complete: connection refused,
	// DNS failure, timeout or cancellation.
	KindTransport Kind = "transport"
	// KindStatus means the service answered with a non-2xx status.
	KindStatus Kind = "status"
	// KindDecode means the response body was not a JSON object.
	KindDecode Kind = "decode"
)

// Error is returned by every Client method that fails.
type Error struct {
	Op         string
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		if e.Message != "" {
			return fmt.Sprintf("clarify %s: service returned %d: %s", e.Op, e.StatusCode, e.Message)
		}
		return fmt.Sprintf("clarify %s: service returned %d", e.Op, e.StatusCode)
	case KindDecode:
		return fmt.Sprintf("clarify %s: malformed response: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("clarify %s: service unreachable: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}
