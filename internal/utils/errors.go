// internal/utils/errors.go
// Error taxonomy for the scraping pipeline. Every per-item failure is one of
// these types; only RunFatalError aborts a run.

package utils

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// ErrorCode categorizes pipeline errors for logging and metrics.
type ErrorCode string

const (
	ErrCodeFetch       ErrorCode = "FETCH_FAILED"
	ErrCodeParse       ErrorCode = "PARSE_FAILED"
	ErrCodeValidation  ErrorCode = "VALIDATION_FAILED"
	ErrCodePersistence ErrorCode = "PERSISTENCE_FAILED"
	ErrCodeRunFatal    ErrorCode = "RUN_FATAL"
)

// FetchError reports an HTTP or network failure for a single page. The
// Retryable flag drives the fetcher's backoff loop; once the retry budget is
// exhausted the terminal error carries the last cause.
type FetchError struct {
	URL        string
	StatusCode int
	Retryable  bool
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: HTTP %d fetching %s", ErrCodeFetch, e.StatusCode, e.URL)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrCodeFetch, e.URL, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrCodeFetch, e.URL)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a required field missing or invalid during extraction.
// The record is dropped and the run continues.
type ParseError struct {
	Source string
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s field %q: %s", ErrCodeParse, e.Source, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrCodeParse, e.Source, e.Reason)
}

// ValidationError reports a record failing minimal semantic checks (empty
// name, placeholder name, stale date). The record is dropped and logged.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCodeValidation, e.Reason)
}

// PersistenceError reports a store round-trip failure for one record. The
// batch continues; the error lands in the run summary.
type PersistenceError struct {
	Op  string
	ID  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s: %s %s: %v", ErrCodePersistence, e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", ErrCodePersistence, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// RunFatalError means the persistence collaborator is unreachable at run
// start. It surfaces to the caller immediately with whatever partial results
// exist.
type RunFatalError struct {
	Err error
}

func (e *RunFatalError) Error() string {
	return fmt.Sprintf("%s: %v", ErrCodeRunFatal, e.Err)
}

func (e *RunFatalError) Unwrap() error { return e.Err }

// IsRetryableNetError classifies transport-level failures worth retrying:
// timeouts, connection resets, and transient DNS failures. Anything else is
// terminal for that page.
func IsRetryableNetError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}

	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	// Stringly fallback for errors the net package does not type.
	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{"connection reset", "timeout", "temporary failure", "eof"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}

	return false
}
