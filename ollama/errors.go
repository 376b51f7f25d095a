package ollama

import (
	"fmt"
	"time"
)

// TransportError means the request never produced a response: DNS failure,
// refused connection, reset, and so on.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// TimeoutError means the request exceeded the configured deadline.
type TimeoutError struct {
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %s: %v", e.Timeout, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// StatusError is a non-2xx reply. Message is the server's "error" field when
// it sent one, the HTTP status text otherwise; in that case Body holds the
// raw reply.
type StatusError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// DecodeError means the reply body was not the JSON object we expected.
// Body holds the raw text so it can be shown to the operator.
type DecodeError struct {
	Err  error
	Body string
}

func (e *DecodeError) Error() string { return e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }
