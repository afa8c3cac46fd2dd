package core

import (
	"bytes"
	"io"
	"strings"
)

// Adapter serializes and deserializes a whole record sequence in one format.
//
// Implementations must:
//   - return a non-nil, empty slice from Read when the stream is empty;
//   - keep the source's element order on Read;
//   - produce byte-identical output from Write for identical input;
//   - wrap stream failures with ErrIO and malformed content with ErrParse
//     (see IOError and ParseError).
type Adapter[T any] interface {
	// Read decodes every record in r.
	Read(r io.Reader) ([]T, error)
	// Write encodes records to w.
	Write(records []T, w io.Writer) error
	// FormatName is the stable lower-case registry key (e.g. "json").
	FormatName() string
}

// Validator is implemented by adapters that can check a stream more cheaply
// than a full Read. Validate must never panic.
type Validator interface {
	Validate(r io.Reader) bool
}

// Sniffer is implemented by adapters that can recognize their format from the
// first bytes of a file. It backs the content fallback of DetectFormat.
type Sniffer interface {
	Sniff(head []byte) bool
}

// Validate reports whether r holds well-formed content for a.
// Adapters implementing Validator decide for themselves; otherwise a full
// Read is attempted and any failure, including a panic, yields false.
func Validate[T any](a Adapter[T], r io.Reader) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	if v, isValidator := any(a).(Validator); isValidator {
		return v.Validate(r)
	}
	_, err := a.Read(r)
	return err == nil
}

// NormalizeFormat lower-cases a format name and strips a leading dot, so
// ".JSON" and "json" name the same registry entry.
func NormalizeFormat(format string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
}

// TrimHead returns head without leading whitespace and a UTF-8 BOM.
// Sniffers use it before looking at the first significant byte.
func TrimHead(head []byte) []byte {
	head = bytes.TrimPrefix(head, []byte("\xef\xbb\xbf"))
	return bytes.TrimLeft(head, " \t\r\n")
}
