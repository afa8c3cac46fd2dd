package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeString(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func TestWriteFileAtomic(t *testing.T) {
	t.Run("Creates New File", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "test.txt")

		require.NoError(t, writeFileAtomic(filename, 0644, writeString("hello atomic")))

		got, err := os.ReadFile(filename)
		require.NoError(t, err)
		assert.Equal(t, "hello atomic", string(got))
	})

	t.Run("Overwrites Existing File", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "test.txt")
		require.NoError(t, os.WriteFile(filename, []byte("initial"), 0644))

		require.NoError(t, writeFileAtomic(filename, 0644, writeString("overwritten")))

		got, err := os.ReadFile(filename)
		require.NoError(t, err)
		assert.Equal(t, "overwritten", string(got))
	})

	t.Run("Keeps Previous Content When Writer Fails", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "test.txt")
		require.NoError(t, os.WriteFile(filename, []byte("initial"), 0644))

		boom := errors.New("boom")
		err := writeFileAtomic(filename, 0644, func(w io.Writer) error {
			_, _ = io.WriteString(w, "partial")
			return boom
		})
		require.ErrorIs(t, err, boom)

		got, _ := os.ReadFile(filename)
		assert.Equal(t, "initial", string(got))

		// No temp files left behind
		entries, _ := os.ReadDir(tmpDir)
		for _, e := range entries {
			assert.False(t, strings.HasPrefix(e.Name(), TempFilePrefix), "temp file left behind: %s", e.Name())
		}
	})

	t.Run("Respects Permissions", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "perm.txt")

		// Note: Windows permissions are limited, but check anyway.
		require.NoError(t, writeFileAtomic(filename, 0600, writeString("secret")))

		info, err := os.Stat(filename)
		require.NoError(t, err)
		t.Logf("File permissions: %v", info.Mode())
	})

	t.Run("Fails if Directory Missing", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "missing_folder", "test.txt")

		assert.Error(t, writeFileAtomic(filename, 0644, writeString("fail")))
	})
}
