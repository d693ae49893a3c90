package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRunInProgress indicates a search or export run is already active.
	ErrRunInProgress = errors.New("run in progress")

	// ErrAuthRequired indicates no session credentials are available for the upstream service.
	ErrAuthRequired = errors.New("authentication required")

	// Pipeline Errors.

	// ErrTransport classifies network and HTTP failures. See TransportError.
	ErrTransport = errors.New("transport error")

	// ErrParse classifies malformed JSON responses and unparseable HTML. See ParseError.
	ErrParse = errors.New("parse error")

	// ErrTimeoutExceeded indicates the listing wall-clock budget ran out.
	// It is informational: the run continues with the notes collected so far.
	ErrTimeoutExceeded = errors.New("timeout exceeded")

	// ErrNoMatchingNotes indicates that no note satisfied the filter criteria.
	ErrNoMatchingNotes = errors.New("no matching notes")

	// ErrPersistence indicates the persistent store rejected a read or write.
	ErrPersistence = errors.New("persistence failure")

	// ErrExportTargetUnavailable indicates the export destination could not be written.
	ErrExportTargetUnavailable = errors.New("export target unavailable")
)

// maxErrorBody bounds the response text kept on a TransportError.
const maxErrorBody = 2048

// TransportError is a network or HTTP failure talking to the upstream service.
// StatusCode is zero when no response was received.
type TransportError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

// NewHTTPError builds a TransportError for a non-success response.
func NewHTTPError(url string, status int, body string) *TransportError {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &TransportError{URL: url, StatusCode: status, Body: body}
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("transport: GET %s: %v", e.URL, e.Err)
	}
	if e.Body == "" {
		return fmt.Sprintf("transport: GET %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("transport: GET %s: HTTP %d: %s", e.URL, e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is reports ErrTransport so callers can classify without errors.As.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// ParseError is a failure to decode an upstream response or an HTML fragment.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is reports ErrParse so callers can classify without errors.As.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var te *TransportError
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}

// IsUserVisible reports whether err means the requested action produced no usable artifact.
func IsUserVisible(err error) bool {
	return errors.Is(err, ErrPersistence) ||
		errors.Is(err, ErrExportTargetUnavailable) ||
		errors.Is(err, ErrNoMatchingNotes) ||
		errors.Is(err, ErrRunInProgress) ||
		errors.Is(err, ErrInvalidInput)
}
