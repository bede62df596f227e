package entity

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest is the only resolution error callers ever see.
var ErrInvalidRequest = errors.New("invalid icon request: program name is empty")

// ErrNotFound means a path or executable does not exist. It is an expected
// outcome, not a failure.
var ErrNotFound = errors.New("not found")

// ExtractionErrorKind enumerates why an icon could not be pulled from a file.
type ExtractionErrorKind string

const (
	ExtractionUnsupportedFormat ExtractionErrorKind = "UnsupportedFormat"
	ExtractionNoEmbeddedIcon    ExtractionErrorKind = "NoEmbeddedIcon"
	ExtractionFileUnreadable    ExtractionErrorKind = "FileUnreadable"
	ExtractionCorruptResource   ExtractionErrorKind = "CorruptResource"
)

// ExtractionError carries the kind, the path and the underlying cause.
type ExtractionError struct {
	Kind ExtractionErrorKind
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract icon from %s: %s: %v", e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("extract icon from %s: %s", e.Path, e.Kind)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Is matches another *ExtractionError with the same kind, so callers can
// write errors.Is(err, &ExtractionError{Kind: ExtractionNoEmbeddedIcon}).
func (e *ExtractionError) Is(target error) bool {
	t, ok := target.(*ExtractionError)
	return ok && t.Kind == e.Kind
}

// NewExtractionError builds an ExtractionError.
func NewExtractionError(kind ExtractionErrorKind, path string, err error) *ExtractionError {
	return &ExtractionError{Kind: kind, Path: path, Err: err}
}

// FetchErrorKind enumerates remote fetch failures.
type FetchErrorKind string

const (
	FetchNetworkFailure   FetchErrorKind = "NetworkFailure"
	FetchMalformedPayload FetchErrorKind = "MalformedPayload"
)

// FetchError carries the kind, the URL and the underlying cause.
type FetchError struct {
	Kind FetchErrorKind
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch icon %s: %s: %v", e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch icon %s: %s", e.URL, e.Kind)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool {
	t, ok := target.(*FetchError)
	return ok && t.Kind == e.Kind
}

// NewFetchError builds a FetchError.
func NewFetchError(kind FetchErrorKind, url string, err error) *FetchError {
	return &FetchError{Kind: kind, URL: url, Err: err}
}

// ErrorKind returns a short label for logging any resolution error.
func ErrorKind(err error) string {
	var extractErr *ExtractionError
	var fetchErr *FetchError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrInvalidRequest):
		return "InvalidRequest"
	case errors.As(err, &extractErr):
		return string(extractErr.Kind)
	case errors.As(err, &fetchErr):
		return string(fetchErr.Kind)
	default:
		return "Unknown"
	}
}
