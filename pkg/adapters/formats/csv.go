package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/miniapp/pkg/core"
)

const quote = '"'

// CSV stores records as delimited text, one record per line.
//
// Reading is line oriented: fields cannot span lines. A double quote toggles
// the "inside field" state, so the delimiter inside quotes is kept as data,
// and a doubled quote inside a quoted field stands for one literal quote.
type CSV[T any] struct {
	// Header, when non-empty, is written as the first row and the first row
	// of the input is skipped on read.
	Header []string
	// Delimiter separates fields. Zero means ','.
	Delimiter rune
	// Encode turns a record into its fields.
	Encode func(T) ([]string, error)
	// Decode builds a record from the fields of one line.
	Decode func([]string) (T, error)
}

// NewCSV creates a delimited-text adapter from a pair of field mappers.
func NewCSV[T any](header []string, encode func(T) ([]string, error), decode func([]string) (T, error)) *CSV[T] {
	return &CSV[T]{Header: header, Encode: encode, Decode: decode}
}

func (a *CSV[T]) FormatName() string { return FormatCSV }

func (a *CSV[T]) delimiter() rune {
	if a.Delimiter == 0 {
		return ','
	}
	return a.Delimiter
}

func (a *CSV[T]) Read(r io.Reader) ([]T, error) {
	if a.Decode == nil {
		return nil, fmt.Errorf("%w: csv adapter has no decoder", core.ErrValidation)
	}

	records := []T{}
	reader := bufio.NewReader(r)
	skipHeader := len(a.Header) > 0
	lineNo := 0

	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, core.IOError(err)
		}
		atEOF := err != nil
		if line == "" && atEOF {
			break
		}
		lineNo++

		line = strings.TrimRight(line, "\r\n")
		if skipHeader {
			skipHeader = false
		} else if strings.TrimSpace(line) != "" {
			fields, splitErr := a.split(line)
			if splitErr != nil {
				return nil, core.ParseError(fmt.Errorf("csv line %d: %w", lineNo, splitErr))
			}
			record, decodeErr := a.Decode(fields)
			if decodeErr != nil {
				return nil, core.ParseError(fmt.Errorf("csv line %d: %w", lineNo, decodeErr))
			}
			records = append(records, record)
		}

		if atEOF {
			break
		}
	}
	return records, nil
}

// split breaks one line into fields, honoring quotes.
func (a *CSV[T]) split(line string) ([]string, error) {
	delim := a.delimiter()
	var fields []string
	var current strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == quote && inQuotes && i+1 < len(runes) && runes[i+1] == quote:
			current.WriteRune(quote)
			i++
		case c == quote:
			inQuotes = !inQuotes
		case c == delim && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(c)
		}
	}
	if inQuotes {
		return nil, errors.New("unterminated quoted field")
	}
	return append(fields, current.String()), nil
}

func (a *CSV[T]) Write(records []T, w io.Writer) error {
	if a.Encode == nil {
		return fmt.Errorf("%w: csv adapter has no encoder", core.ErrValidation)
	}

	var buf bytes.Buffer
	if len(a.Header) > 0 {
		if err := a.writeRow(&buf, a.Header); err != nil {
			return fmt.Errorf("encode csv header: %w", err)
		}
	}
	for i, record := range records {
		fields, err := a.Encode(record)
		if err != nil {
			return fmt.Errorf("encode csv record %d: %w", i, err)
		}
		if err := a.writeRow(&buf, fields); err != nil {
			return fmt.Errorf("encode csv record %d: %w", i, err)
		}
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return core.IOError(err)
	}
	return nil
}

func (a *CSV[T]) writeRow(buf *bytes.Buffer, fields []string) error {
	delim := a.delimiter()
	var line strings.Builder
	for i, field := range fields {
		if strings.ContainsAny(field, "\r\n") {
			return fmt.Errorf("%w: field %d contains a line break", core.ErrValidation, i)
		}
		if i > 0 {
			line.WriteRune(delim)
		}
		line.WriteString(a.quoteField(field))
	}

	// Blank lines are skipped on read; a row of blank fields must stay visible.
	if len(fields) > 0 && strings.TrimSpace(line.String()) == "" {
		line.Reset()
		line.WriteString(`"` + fields[0] + `"`)
		for _, field := range fields[1:] {
			line.WriteRune(delim)
			line.WriteString(field)
		}
	}

	buf.WriteString(line.String())
	buf.WriteByte('\n')
	return nil
}

// quoteField wraps a field in quotes only when it holds the delimiter or a
// quote, so plain data is written exactly as given.
func (a *CSV[T]) quoteField(field string) string {
	if !strings.ContainsRune(field, a.delimiter()) && !strings.ContainsRune(field, quote) {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

var _ core.Adapter[core.Fields] = (*CSV[core.Fields])(nil)
