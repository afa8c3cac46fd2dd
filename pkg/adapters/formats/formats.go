// Package formats provides the built-in format adapters: JSON and YAML
// documents holding the whole record sequence, and delimited text (CSV).
//
// Adapters are registered explicitly. When an adapter must be chosen by name
// (configuration files, CLI flags), a Factory table maps the name to a
// constructor; there is no lookup by type name.
package formats

import (
	"fmt"
	"sort"

	"github.com/aretw0/miniapp/pkg/core"
)

// Built-in format names.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// Options parameterizes the adapters built by a Factory.
type Options struct {
	// Strict preserves large integers as json.Number where supported.
	Strict bool
	// Columns configures the CSV header and column order.
	Columns []string
	// Delimiter overrides the CSV field separator.
	Delimiter rune
}

// Factory builds an adapter from Options.
type Factory[T any] func(opts Options) (core.Adapter[T], error)

// Factories returns the constructors usable with any record type:
// json and yaml.
func Factories[T any]() map[string]Factory[T] {
	return map[string]Factory[T]{
		FormatJSON: func(opts Options) (core.Adapter[T], error) {
			return NewJSON[T](opts.Strict), nil
		},
		FormatYAML: func(Options) (core.Adapter[T], error) {
			return NewYAML[T](), nil
		},
	}
}

// FieldsFactories returns the constructors for core.Fields records. On top of
// Factories it offers csv, which needs Options.Columns.
func FieldsFactories() map[string]Factory[core.Fields] {
	factories := Factories[core.Fields]()
	factories[FormatCSV] = func(opts Options) (core.Adapter[core.Fields], error) {
		if len(opts.Columns) == 0 {
			return nil, fmt.Errorf("%w: csv needs at least one column", core.ErrValidation)
		}
		a := NewFieldsCSV(opts.Columns, opts.Strict)
		a.Delimiter = opts.Delimiter
		return a, nil
	}
	return factories
}

// Build constructs the adapters named in names from factories.
// Unknown names fail with core.ErrUnsupportedFormat.
func Build[T any](factories map[string]Factory[T], names []string, opts Options) ([]core.Adapter[T], error) {
	adapters := make([]core.Adapter[T], 0, len(names))
	for _, name := range names {
		factory, ok := factories[core.NormalizeFormat(name)]
		if !ok {
			return nil, fmt.Errorf("%w: no factory for %q (known: %v)", core.ErrUnsupportedFormat, name, Names(factories))
		}
		a, err := factory(opts)
		if err != nil {
			return nil, fmt.Errorf("build %s adapter: %w", name, err)
		}
		adapters = append(adapters, a)
	}
	return adapters, nil
}

// Names lists the names in a factory table, sorted.
func Names[T any](factories map[string]Factory[T]) []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
