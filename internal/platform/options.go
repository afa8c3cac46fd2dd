package platform

import (
	"log/slog"

	"github.com/aretw0/miniapp/pkg/core"
)

// options holds the internal configuration for a miniapp Context.
type options struct {
	baseDir  string
	logger   *slog.Logger
	storage  core.Storage
	strategy string
	formats  []string
	columns  []string
	config   map[string]any
}

// Option defines a functional option for configuring miniapp.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		baseDir:  core.DefaultBaseDir,
		logger:   nil,
		storage:  nil,
		strategy: core.StrategyReplace,
		config:   make(map[string]any),
	}
}

// WithBaseDir sets the base resource directory relative paths resolve against.
// Defaults to "resources".
func WithBaseDir(dir string) Option {
	return func(o *options) {
		o.baseDir = dir
	}
}

// WithLogger sets the logger for the context and its storage.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStorage allows injecting a custom storage port (e.g. in-memory, mock).
// If provided, the default filesystem storage is skipped.
func WithStorage(storage core.Storage) Option {
	return func(o *options) {
		o.storage = storage
	}
}

// WithStrategy selects the default import strategy by name
// ("replace", "append" or "skip-existing"). Defaults to "replace".
func WithStrategy(name string) Option {
	return func(o *options) {
		o.strategy = name
	}
}

// WithFormats registers built-in adapters by name (e.g. "json", "yaml").
// "csv" is available for core.Fields records and needs WithColumns.
// Adapters passed explicitly to New are registered after these and win on
// a name clash.
func WithFormats(names ...string) Option {
	return func(o *options) {
		o.formats = append(o.formats, names...)
	}
}

// WithColumns sets the CSV columns used by the built-in csv adapter.
func WithColumns(columns ...string) Option {
	return func(o *options) {
		o.columns = append([]string(nil), columns...)
	}
}

// WithDelimiter overrides the separator of the built-in csv adapter.
func WithDelimiter(delim rune) Option {
	return func(o *options) {
		o.config["delimiter"] = delim
	}
}

// WithStrict enables strict mode for the built-in adapters.
// When enabled, numbers decoded into interface values become json.Number
// (string based) to preserve precision of large integers.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.config["strict"] = strict
	}
}

// WithForceTemp forces the base directory into a temporary sandbox
// (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithDevSafety enables the sandbox used when running via `go run` or
// `go test`: the base directory is re-rooted under the system temp dir so
// exports cannot overwrite real resources. Disabled by default.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// WithReadOnly makes every export fail. Imports keep working.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}
