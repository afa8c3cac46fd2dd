package formats

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/miniapp/pkg/core"
)

// YAML stores the whole record sequence as one YAML sequence document.
type YAML[T any] struct{}

// NewYAML creates a YAML adapter.
func NewYAML[T any]() *YAML[T] {
	return &YAML[T]{}
}

func (a *YAML[T]) FormatName() string { return FormatYAML }

func (a *YAML[T]) Read(r io.Reader) ([]T, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, core.IOError(err)
	}

	records := []T{}
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, core.ParseError(fmt.Errorf("invalid yaml: %w", err))
	}
	// an empty document or "~" leaves the slice nil
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func (a *YAML[T]) Write(records []T, w io.Writer) error {
	if records == nil {
		records = []T{}
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return core.IOError(err)
	}
	return nil
}

// Sniff implements core.Sniffer.
func (a *YAML[T]) Sniff(head []byte) bool {
	head = core.TrimHead(head)
	return bytes.HasPrefix(head, []byte("---")) || bytes.HasPrefix(head, []byte("- "))
}

var _ core.Adapter[core.Fields] = (*YAML[core.Fields])(nil)
var _ core.Sniffer = (*YAML[core.Fields])(nil)
