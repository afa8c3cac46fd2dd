// Package fs implements core.Storage on the local filesystem and watches
// resource files for changes.
package fs

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/miniapp/pkg/core"
)

// ErrReadOnly is returned by Write when the storage is read-only.
var ErrReadOnly = errors.New("storage is in read-only mode")

// Config holds the configuration for the filesystem storage.
type Config struct {
	// ReadOnly rejects every Write.
	ReadOnly bool
	// NoCreateDirs disables creating missing parent directories on Write.
	NoCreateDirs bool
	// FileMode is applied to written files. Zero means 0644.
	FileMode os.FileMode
	Logger   *slog.Logger
}

// Storage implements core.Storage using the local filesystem.
type Storage struct {
	config Config
}

// NewStorage creates a filesystem storage.
func NewStorage(config Config) *Storage {
	if config.FileMode == 0 {
		config.FileMode = 0644
	}
	return &Storage{config: config}
}

// Open opens path for reading. The caller closes the returned reader.
func (s *Storage) Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return f, nil
}

// Write atomically replaces path with the bytes fn writes.
// Missing parent directories are created unless disabled.
func (s *Storage) Write(path string, fn func(w io.Writer) error) error {
	if s.config.ReadOnly {
		return fmt.Errorf("%w: %s", ErrReadOnly, path)
	}

	if !s.config.NoCreateDirs {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := writeFileAtomic(path, s.config.FileMode, fn); err != nil {
		return err
	}

	if s.config.Logger != nil {
		s.config.Logger.Debug("file written", "path", path)
	}
	return nil
}

var _ core.Storage = (*Storage)(nil)
