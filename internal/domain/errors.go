package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL is returned when an input URL does not look like a
	// tweet or profile URL.
	ErrInvalidURL = errors.New("invalid tweet URL format")

	// ErrCrawlerExhausted is returned when a crawler instance is run a
	// second time. Crawlers are bound to one URL and one invocation.
	ErrCrawlerExhausted = errors.New("crawler already ran; construct a new instance")
)

// NotAuthenticatedError reports that the browser was redirected to the bare
// profile page while crawling a relationship list. The viewer lacks
// permission to see the list; this is not necessarily a login failure.
type NotAuthenticatedError struct {
	ScreenName string
}

func (e *NotAuthenticatedError) Error() string {
	return fmt.Sprintf("not authenticated to view relationship list of %q", e.ScreenName)
}

// ContentUnavailableError reports that the platform withheld the requested
// tweet itself (tombstone at the root). Reason carries the platform's
// human-readable explanation.
type ContentUnavailableError struct {
	Reason string
}

func (e *ContentUnavailableError) Error() string {
	if e.Reason == "" {
		return "tweet unavailable"
	}
	return "tweet unavailable: " + e.Reason
}

// StructuralParseError reports that an intercepted payload did not match
// any known schema shape. Operation and URL identify the offending
// response for diagnosing schema drift.
type StructuralParseError struct {
	Operation string
	URL       string
	Err       error
}

func (e *StructuralParseError) Error() string {
	msg := fmt.Sprintf("unrecognized %s payload shape", e.Operation)
	if e.URL != "" {
		msg += " from " + e.URL
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StructuralParseError) Unwrap() error { return e.Err }

// NewStructuralParseError builds a StructuralParseError from a format
// string, used by parse code that has no URL context of its own. The
// crawl engine annotates the URL before surfacing the error.
func NewStructuralParseError(operation, format string, args ...any) *StructuralParseError {
	return &StructuralParseError{Operation: operation, Err: fmt.Errorf(format, args...)}
}
