package core

import "io"

// Storage is the file access port of a Context.
//
// Open and Write acquire a handle right before use and release it before
// returning, on every path. Implementations report failures as-is; the
// Context classifies them as ErrIO.
type Storage interface {
	// Open returns a reader for path. A missing file must produce an error
	// satisfying errors.Is(err, fs.ErrNotExist).
	Open(path string) (io.ReadCloser, error)

	// Write replaces the content of path with whatever fn writes.
	// If fn fails, the previous content of path must survive.
	Write(path string, fn func(w io.Writer) error) error
}
