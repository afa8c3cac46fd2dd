package core

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every error returned by the engine wraps exactly one of these,
// so callers can branch with errors.Is.
var (
	// ErrValidation reports malformed call arguments (e.g. an empty path).
	ErrValidation = errors.New("validation failed")
	// ErrSecurity reports a path that escapes the base resource directory.
	ErrSecurity = errors.New("path traversal")
	// ErrUnsupportedFormat reports that no adapter is registered for a format.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrIO reports a stream open/read/write failure, including file-not-found.
	ErrIO = errors.New("i/o failure")
	// ErrParse reports content that is malformed for the requested format.
	ErrParse = errors.New("malformed content")
	// ErrMergeFallback is carried by the warning a strategy returns when it
	// recovered locally by appending the imported records unchanged.
	ErrMergeFallback = errors.New("merge fell back to append")
)

// OpError records the operation, format and path that failed.
type OpError struct {
	Op     string // "import", "export", "resolve", "register"
	App    string
	Format string
	Path   string
	Err    error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := "miniapp: " + e.Op
	if e.App != "" {
		msg += " app=" + e.App
	}
	if e.Format != "" {
		msg += " format=" + e.Format
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" path=%q", e.Path)
	}
	return msg + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IOError wraps err as an ErrIO. It returns nil for a nil err and leaves
// errors that are already classified untouched.
func IOError(err error) error {
	return classify(ErrIO, err)
}

// ParseError wraps err as an ErrParse, following the same rules as IOError.
func ParseError(err error) error {
	return classify(ErrParse, err)
}

func classify(kind, err error) error {
	if err == nil {
		return nil
	}
	if isClassified(err) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}

func isClassified(err error) bool {
	for _, kind := range []error{ErrValidation, ErrSecurity, ErrUnsupportedFormat, ErrIO, ErrParse} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
