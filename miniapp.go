package miniapp

import (
	"context"
	"log/slog"

	"github.com/aretw0/miniapp/internal/platform"
	"github.com/aretw0/miniapp/pkg/adapters/formats"
	"github.com/aretw0/miniapp/pkg/app"
	"github.com/aretw0/miniapp/pkg/core"
)

// --- Types ---

// Context is a public alias for the persistence engine.
type Context[T any] = core.Context[T]

// Adapter is a public alias for the format adapter contract.
type Adapter[T any] = core.Adapter[T]

// Strategy is a public alias for the merge strategy contract.
type Strategy[T any] = core.Strategy[T]

// Fields is a public alias for schemaless records.
type Fields = core.Fields

// App is a public alias for applications driven by a Runner.
type App[T any] = app.App[T]

// --- Configuration ---

// Option defines a functional option for configuring miniapp.
type Option = platform.Option

// WithBaseDir sets the base resource directory (default "resources").
func WithBaseDir(dir string) Option {
	return platform.WithBaseDir(dir)
}

// WithLogger sets the logger for the context and its storage.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStorage allows injecting a custom storage port.
func WithStorage(storage core.Storage) Option {
	return platform.WithStorage(storage)
}

// WithStrategy selects the default import strategy by name.
func WithStrategy(name string) Option {
	return platform.WithStrategy(name)
}

// WithFormats registers built-in adapters by name.
func WithFormats(names ...string) Option {
	return platform.WithFormats(names...)
}

// WithColumns sets the columns of the built-in csv adapter.
func WithColumns(columns ...string) Option {
	return platform.WithColumns(columns...)
}

// WithDelimiter overrides the separator of the built-in csv adapter.
func WithDelimiter(delim rune) Option {
	return platform.WithDelimiter(delim)
}

// WithStrict enables strict number handling in the built-in adapters.
func WithStrict(strict bool) Option {
	return platform.WithStrict(strict)
}

// WithForceTemp forces the base directory into a temporary sandbox.
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety sandboxes the base directory during `go run` / `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithReadOnly makes every export fail.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// --- Factory ---

// New creates a Context for appID with the given adapters.
func New[T any](appID string, adapters []Adapter[T], opts ...Option) (*Context[T], error) {
	return platform.New(appID, adapters, opts...)
}

// NewFields creates a Context for schemaless records using only built-in
// adapters (see WithFormats and WithColumns).
func NewFields(appID string, opts ...Option) (*Context[Fields], error) {
	return platform.New[Fields](appID, nil, opts...)
}

// --- Adapters ---

// JSONAdapter creates the built-in JSON adapter for T.
func JSONAdapter[T any]() Adapter[T] {
	return formats.NewJSON[T](false)
}

// YAMLAdapter creates the built-in YAML adapter for T.
func YAMLAdapter[T any]() Adapter[T] {
	return formats.NewYAML[T]()
}

// CSVAdapter creates a delimited-text adapter for T from a pair of field mappers.
func CSVAdapter[T any](header []string, encode func(T) ([]string, error), decode func([]string) (T, error)) Adapter[T] {
	return formats.NewCSV(header, encode, decode)
}

// --- Strategies ---

// Replace discards current records in favor of the imported ones.
func Replace[T any]() Strategy[T] { return core.Replace[T]() }

// Append adds imported records after the current ones.
func Append[T any]() Strategy[T] { return core.Append[T]() }

// SkipExisting adds imported records not already present.
func SkipExisting[T any](equal func(a, b T) bool) Strategy[T] { return core.SkipExisting(equal) }

// MergeByID updates records with matching IDs in place and appends the rest.
func MergeByID[T any, K comparable](extract func(T) (K, bool)) Strategy[T] {
	return core.MergeByID(extract)
}

// --- Lifecycle ---

// Run drives a through Initialize, Run and Shutdown around data.
// A nil onError aborts on the first failing phase.
func Run[T any](ctx context.Context, data *Context[T], a App[T], onError app.ErrorHandler) error {
	return app.NewRunner(data, onError, nil).Run(ctx, a)
}

// --- Safety & Utils ---

// ConfigFileName is the project configuration file marking a project root.
const ConfigFileName = platform.ConfigFileName

// ResolvePath resolves filePath against baseDir, rejecting path traversal.
func ResolvePath(filePath, baseDir string) (string, error) {
	return core.ResolvePath(filePath, baseDir)
}

// ResolveBaseDir determines the actual base directory based on safety rules.
func ResolveBaseDir(userPath string, forceTemp bool) string {
	return platform.ResolveBaseDir(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot recursively looks upwards for a miniapp project root.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
