// Package core holds the persistence engine: the record collection, the
// format adapter contract, the adapter registry, merge strategies and the
// path resolver that sandboxes relative paths under a base directory.
//
// Core performs no I/O of its own. File access goes through the Storage port,
// implemented by pkg/adapters/fs.
package core

import (
	"fmt"
	"reflect"
)

// DefaultBaseDir is used when no base resource directory is configured.
const DefaultBaseDir = "resources"

// Fields is a schemaless record: a flat or nested key-value map.
// It is the record type used by the CLI and by the Fields CSV adapter.
type Fields map[string]any

// Identifiable is the conventional accessor MergeByID falls back to when no
// extraction function is configured.
type Identifiable[K comparable] interface {
	RecordID() K
}

// FieldID returns an extractor that reads key from a Fields record.
// Scalar values are compared by their printed form, so an ID read from CSV
// ("7") matches the same ID read from JSON (7). Records missing the key, or
// holding a nil, map or slice value, fail extraction.
func FieldID(key string) func(Fields) (string, bool) {
	return func(f Fields) (string, bool) {
		v, ok := f[key]
		if !ok || v == nil {
			return "", false
		}
		switch reflect.TypeOf(v).Kind() {
		case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Func, reflect.Pointer:
			return "", false
		}
		return fmt.Sprint(v), true
	}
}
