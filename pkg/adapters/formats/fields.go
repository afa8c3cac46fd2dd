package formats

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/miniapp/pkg/core"
)

// NewFieldsCSV creates a delimited-text adapter for schemaless records.
// Each column maps to the key of the same name. Cells are typed the way the
// JSON adapter types values (see MarshalCSVValue), so a record survives a
// write and read when its values are JSON types. Missing keys become empty
// cells. With strict set, numbers decode as json.Number.
func NewFieldsCSV(columns []string, strict bool) *CSV[core.Fields] {
	cols := append([]string(nil), columns...)
	return &CSV[core.Fields]{
		Header: cols,
		Encode: func(f core.Fields) ([]string, error) {
			row := make([]string, len(cols))
			for i, col := range cols {
				if v, ok := f[col]; ok {
					row[i] = MarshalCSVValue(v)
				}
			}
			return row, nil
		},
		Decode: func(row []string) (core.Fields, error) {
			if len(row) != len(cols) {
				return nil, fmt.Errorf("expected %d fields, got %d", len(cols), len(row))
			}
			f := make(core.Fields, len(cols))
			for i, col := range cols {
				f[col] = UnmarshalCSVValue(row[i], strict)
			}
			return f, nil
		},
	}
}

// UnmarshalCSVValue types a cell. A cell holding exactly one JSON value
// (number, true, false, null, a quoted string, an object or an array) decodes
// to it; anything else is returned as the raw string.
//
// CAVEAT: hand-written files are read with the same rule, so a cell "42"
// becomes a number and "007" (not valid JSON) stays a string.
func UnmarshalCSVValue(val string, strict bool) any {
	if val == "" {
		return val
	}
	if v, ok := decodeCell(val, strict); ok {
		return v
	}
	return val
}

// MarshalCSVValue renders a value as a cell. Strings are written raw unless
// they would read back as something else, in which case they are written as
// a JSON string. Other values are written as JSON, falling back to %v.
func MarshalCSVValue(v any) string {
	if s, ok := v.(string); ok {
		if back, ok := UnmarshalCSVValue(s, false).(string); ok && back == s {
			return s
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// decodeCell decodes val as a single JSON value with nothing after it.
func decodeCell(val string, strict bool) (any, bool) {
	decoder := json.NewDecoder(strings.NewReader(val))
	if strict {
		decoder.UseNumber()
	}
	var parsed any
	if err := decoder.Decode(&parsed); err != nil {
		return nil, false
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return parsed, true
}
