package api

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a 404 from the service. Callers should use
// errors.Is(err, ErrNotFound).
var ErrNotFound = errors.New("not found")

// NetworkError reports that the request never produced an HTTP response:
// DNS failure, refused connection, reset, and similar.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// TimeoutError reports that the configured request timeout elapsed and
// the request was aborted.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// HTTPError reports a non-2xx response. Message is the parsed `message`
// field of a JSON error body when the content type allows, otherwise the
// plain-text body.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d", e.Status)
	}

	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *HTTPError) Is(target error) bool {
	return target == ErrNotFound && e.Status == 404
}

// ParseError reports a response body that was not valid JSON when JSON
// was expected.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is worth retrying for an idempotent
// request: network-level failures and 5xx responses. Timeouts are not
// retried; the caller's deadline already passed once.
func IsRetryable(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status >= 500
	}

	return false
}
