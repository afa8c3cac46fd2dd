package formats

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/miniapp/pkg/core"
)

// JSON stores the whole record sequence as one JSON array document.
type JSON[T any] struct {
	// Indent is the per-level indentation. Empty means compact output.
	Indent string
	// Strict decodes numbers held in interface values as json.Number,
	// avoiding float64 precision loss for large integers.
	Strict bool
}

// NewJSON creates a JSON adapter with two-space indentation.
func NewJSON[T any](strict bool) *JSON[T] {
	return &JSON[T]{Indent: "  ", Strict: strict}
}

func (a *JSON[T]) FormatName() string { return FormatJSON }

func (a *JSON[T]) Read(r io.Reader) ([]T, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, core.IOError(err)
	}

	records := []T{}
	if len(bytes.TrimSpace(data)) == 0 {
		return records, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	if a.Strict {
		decoder.UseNumber()
	}
	if err := decoder.Decode(&records); err != nil {
		return nil, core.ParseError(fmt.Errorf("invalid json: %w", err))
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, core.ParseError(errors.New("invalid json: unexpected data after document"))
	}

	// "null" decodes to a nil slice
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func (a *JSON[T]) Write(records []T, w io.Writer) error {
	if records == nil {
		records = []T{}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", a.Indent)
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return core.IOError(err)
	}
	return nil
}

// Sniff implements core.Sniffer.
func (a *JSON[T]) Sniff(head []byte) bool {
	head = core.TrimHead(head)
	return len(head) > 0 && (head[0] == '[' || head[0] == '{')
}

var _ core.Adapter[core.Fields] = (*JSON[core.Fields])(nil)
var _ core.Sniffer = (*JSON[core.Fields])(nil)
