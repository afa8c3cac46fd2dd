package fs_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/miniapp/pkg/adapters/fs"
)

func TestStorage(t *testing.T) {
	t.Run("Write Creates Parent Directories", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "a", "b", "data.json")

		s := fs.NewStorage(fs.Config{})
		err := s.Write(path, func(w io.Writer) error {
			_, err := io.WriteString(w, "[]")
			return err
		})
		require.NoError(t, err)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(got))
	})

	t.Run("NoCreateDirs Fails On Missing Parent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "data.json")

		s := fs.NewStorage(fs.Config{NoCreateDirs: true})
		err := s.Write(path, func(w io.Writer) error { return nil })
		assert.Error(t, err)
	})

	t.Run("Open Round Trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data.txt")
		require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

		rc, err := fs.NewStorage(fs.Config{}).Open(path)
		require.NoError(t, err)
		defer rc.Close()

		got, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(got))
	})

	t.Run("Open Missing File", func(t *testing.T) {
		_, err := fs.NewStorage(fs.Config{}).Open(filepath.Join(t.TempDir(), "nope.json"))
		assert.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)
	})

	t.Run("Open Directory", func(t *testing.T) {
		_, err := fs.NewStorage(fs.Config{}).Open(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("ReadOnly Rejects Writes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data.json")

		s := fs.NewStorage(fs.Config{ReadOnly: true})
		err := s.Write(path, func(w io.Writer) error { return nil })
		assert.ErrorIs(t, err, fs.ErrReadOnly)

		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("Uses Configured File Mode", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data.json")

		s := fs.NewStorage(fs.Config{FileMode: 0600})
		require.NoError(t, s.Write(path, func(w io.Writer) error { return nil }))

		info, err := os.Stat(path)
		require.NoError(t, err)
		t.Logf("File permissions: %v", info.Mode())
	})
}
