package core

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
)

// sniffSize is how many leading bytes DetectFormat hands to Sniffers.
const sniffSize = 512

// Config configures a Context.
type Config[T any] struct {
	// AppID names the owning application. It scopes the registry and forms
	// the default file name "{AppID}.{format}". Required.
	AppID string
	// BaseDir is the sandbox root for relative paths. Defaults to DefaultBaseDir.
	BaseDir string
	// Adapters are registered under AppID, in order (last one wins per format).
	Adapters []Adapter[T]
	// Registry lets several Contexts share adapters. A new one is created when nil.
	Registry *Registry[T]
	// Strategy is used by Import when no strategy is given. Defaults to Replace.
	Strategy Strategy[T]
	// Storage performs file access. Required.
	Storage Storage
	// Logger receives debug traces and merge warnings. Defaults to discarding.
	Logger *slog.Logger
	// Clone deep-copies a record. When nil, Data returns a shallow copy of the
	// collection, which is enough for value records.
	Clone func(T) T
}

// Context holds the record collection of one application and moves it in and
// out of files through registered adapters.
//
// A Context is not safe for concurrent use. Every method runs to completion
// before returning; callers sharing a Context across goroutines must provide
// their own synchronization.
type Context[T any] struct {
	appID    string
	baseDir  string
	data     []T
	registry *Registry[T]
	strategy Strategy[T]
	storage  Storage
	logger   *slog.Logger
	clone    func(T) T

	lastWarning error
}

// New creates a Context with an empty collection.
func New[T any](cfg Config[T]) (*Context[T], error) {
	if cfg.AppID == "" {
		return nil, fmt.Errorf("%w: application id cannot be empty", ErrValidation)
	}
	if cfg.Storage == nil {
		return nil, fmt.Errorf("%w: storage cannot be nil", ErrValidation)
	}

	c := &Context[T]{
		appID:    cfg.AppID,
		baseDir:  cfg.BaseDir,
		data:     []T{},
		registry: cfg.Registry,
		strategy: cfg.Strategy,
		storage:  cfg.Storage,
		logger:   cfg.Logger,
		clone:    cfg.Clone,
	}
	if c.baseDir == "" {
		c.baseDir = DefaultBaseDir
	}
	if c.registry == nil {
		c.registry = NewRegistry[T]()
	}
	if c.strategy == nil {
		c.strategy = Replace[T]()
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}

	for _, a := range cfg.Adapters {
		if err := c.registry.Register(c.appID, a); err != nil {
			return nil, &OpError{Op: "register", App: c.appID, Err: err}
		}
	}

	return c, nil
}

// AppID returns the owning application identity.
func (c *Context[T]) AppID() string { return c.appID }

// BaseDir returns the base resource directory.
func (c *Context[T]) BaseDir() string { return c.baseDir }

// Registry returns the adapter registry backing this Context.
func (c *Context[T]) Registry() *Registry[T] { return c.registry }

// Len returns the number of records held.
func (c *Context[T]) Len() int { return len(c.data) }

// Data returns an independent copy of the collection.
// Editing the returned slice never changes what the Context holds.
func (c *Context[T]) Data() []T {
	return c.copyOf(c.data)
}

// SetData replaces the collection with a copy of records.
func (c *Context[T]) SetData(records []T) {
	c.data = c.copyOf(records)
}

// ClearData empties the collection.
func (c *Context[T]) ClearData() {
	c.data = []T{}
}

// LastWarning returns the warning raised by the most recent import, if any.
func (c *Context[T]) LastWarning() error { return c.lastWarning }

func (c *Context[T]) copyOf(records []T) []T {
	out := make([]T, len(records))
	if c.clone == nil {
		copy(out, records)
		return out
	}
	for i, r := range records {
		out[i] = c.clone(r)
	}
	return out
}

// DefaultPath returns the conventional file name for format: "{appID}.{format}".
func (c *Context[T]) DefaultPath(format string) string {
	return c.appID + "." + NormalizeFormat(format)
}

// ResolvePath resolves path against the base resource directory.
func (c *Context[T]) ResolvePath(path string) (string, error) {
	return ResolvePath(path, c.baseDir)
}

// Import reads path with the adapter registered for format and merges the
// result into the collection.
//
// An empty path means DefaultPath(format); a nil strategy means the default
// one (Replace unless configured otherwise). On any error the collection is
// left untouched.
func (c *Context[T]) Import(path, format string, strategy Strategy[T]) error {
	resolved, adapter, err := c.prepare("import", path, format)
	if err != nil {
		return err
	}
	fail := func(err error) error {
		return &OpError{Op: "import", App: c.appID, Format: NormalizeFormat(format), Path: resolved, Err: err}
	}

	rc, err := c.storage.Open(resolved)
	if err != nil {
		return fail(IOError(err))
	}
	defer rc.Close()

	imported, err := adapter.Read(rc)
	if err != nil {
		return fail(ParseError(err))
	}
	if imported == nil {
		imported = []T{}
	}

	if strategy == nil {
		strategy = c.strategy
	}
	merged, warning := strategy.Merge(c.copyOf(c.data), imported)
	c.lastWarning = warning
	if warning != nil {
		c.logger.Warn("merge recovered with fallback",
			"app", c.appID,
			"strategy", strategy.Name(),
			"path", resolved,
			"warning", warning,
		)
	}
	if merged == nil {
		merged = []T{}
	}
	c.data = merged

	c.logger.Debug("imported records",
		"app", c.appID,
		"format", adapter.FormatName(),
		"path", resolved,
		"strategy", strategy.Name(),
		"imported", len(imported),
		"total", len(c.data),
	)
	return nil
}

// Export writes a snapshot of the collection to path with the adapter
// registered for format. An empty path means DefaultPath(format).
func (c *Context[T]) Export(path, format string) error {
	resolved, adapter, err := c.prepare("export", path, format)
	if err != nil {
		return err
	}

	snapshot := c.copyOf(c.data)
	err = c.storage.Write(resolved, func(w io.Writer) error {
		return adapter.Write(snapshot, w)
	})
	if err != nil {
		return &OpError{Op: "export", App: c.appID, Format: NormalizeFormat(format), Path: resolved, Err: IOError(err)}
	}

	c.logger.Debug("exported records",
		"app", c.appID,
		"format", adapter.FormatName(),
		"path", resolved,
		"total", len(snapshot),
	)
	return nil
}

// prepare resolves the target path and the adapter for an import or export.
func (c *Context[T]) prepare(op, path, format string) (string, Adapter[T], error) {
	format = NormalizeFormat(format)
	if format == "" {
		return "", nil, &OpError{Op: op, App: c.appID, Path: path, Err: fmt.Errorf("%w: format cannot be empty", ErrValidation)}
	}
	if path == "" {
		path = c.DefaultPath(format)
	}

	resolved, err := ResolvePath(path, c.baseDir)
	if err != nil {
		return "", nil, &OpError{Op: op, App: c.appID, Format: format, Path: path, Err: err}
	}

	adapter, ok := c.registry.Lookup(c.appID, format)
	if !ok {
		return "", nil, &OpError{Op: op, App: c.appID, Format: format, Path: resolved,
			Err: fmt.Errorf("%w: %q (supported: %v)", ErrUnsupportedFormat, format, c.SupportedFormats())}
	}
	return resolved, adapter, nil
}

// SupportsFormat reports whether an adapter is registered for format.
func (c *Context[T]) SupportsFormat(format string) bool {
	return c.registry.Supports(c.appID, format)
}

// SupportedFormats lists the registered formats, sorted.
func (c *Context[T]) SupportedFormats() []string {
	return c.registry.SupportedFormats(c.appID)
}

// DetectFormat guesses the format of path.
//
// The file extension is checked first against the registered formats
// ("yml" also matches "yaml"). When that fails and the file exists, its first
// bytes are offered to every registered adapter implementing Sniffer.
// It reports false when nothing matches.
func (c *Context[T]) DetectFormat(path string) (string, bool) {
	if path == "" {
		return "", false
	}

	if ext := NormalizeFormat(filepath.Ext(path)); ext != "" {
		for _, candidate := range extensionAliases(ext) {
			if c.SupportsFormat(candidate) {
				return candidate, true
			}
		}
	}

	return c.sniff(path)
}

func extensionAliases(ext string) []string {
	switch ext {
	case "yml":
		return []string{"yml", "yaml"}
	case "yaml":
		return []string{"yaml", "yml"}
	}
	return []string{ext}
}

func (c *Context[T]) sniff(path string) (string, bool) {
	resolved, err := ResolvePath(path, c.baseDir)
	if err != nil {
		return "", false
	}
	rc, err := c.storage.Open(resolved)
	if err != nil {
		return "", false
	}
	defer rc.Close()

	head := make([]byte, sniffSize)
	n, err := io.ReadFull(rc, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", false
	}
	head = head[:n]

	for _, format := range c.SupportedFormats() {
		adapter, _ := c.registry.Lookup(c.appID, format)
		if s, ok := any(adapter).(Sniffer); ok && s.Sniff(head) {
			c.logger.Debug("format detected from content", "path", resolved, "format", format)
			return format, true
		}
	}
	return "", false
}

// Validate reports whether path holds well-formed content for format.
// It never fails: unsupported formats, unreadable files and malformed content
// all yield false.
func (c *Context[T]) Validate(path, format string) bool {
	resolved, adapter, err := c.prepare("validate", path, format)
	if err != nil {
		return false
	}
	rc, err := c.storage.Open(resolved)
	if err != nil {
		return false
	}
	defer rc.Close()
	return Validate(adapter, rc)
}
