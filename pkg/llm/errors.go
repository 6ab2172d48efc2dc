package llm

import (
	"errors"
	"fmt"
)

// StatusError is returned when the endpoint answers with any status other
// than 200. The body is kept verbatim for display. A StatusError does not
// end a chat session.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("endpoint returned status %d: %s", e.StatusCode, e.Body)
}

// TransportError wraps failures to reach the endpoint or read its answer
// (DNS, refused connections, TLS, truncated bodies).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError is returned when a 200 response can not be decoded
// into a reply.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Reason, e.Err)
	}
	return "malformed response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// IsRecoverable reports whether a chat session can continue after err.
// Only non-success statuses are recoverable.
func IsRecoverable(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr)
}
