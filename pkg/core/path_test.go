package core_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/aretw0/miniapp/pkg/core"
)

func TestResolvePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "elsewhere", "data.json")

	tests := []struct {
		name    string
		path    string
		base    string
		want    string
		wantErr error
	}{
		{name: "Simple File", path: "data.json", base: "resources", want: filepath.Join("resources", "data.json")},
		{name: "Nested File", path: "sub/data.json", base: "resources", want: filepath.Join("resources", "sub", "data.json")},
		{name: "Inner Dot Dot Stays Inside", path: "sub/../data.json", base: "resources", want: filepath.Join("resources", "data.json")},
		{name: "Default Base", path: "data.json", base: "", want: filepath.Join(core.DefaultBaseDir, "data.json")},
		{name: "Absolute Bypasses Base", path: abs, base: "resources", want: abs},
		{name: "Empty Path", path: "", base: "resources", wantErr: core.ErrValidation},
		{name: "Parent Escape", path: "../secret.json", base: "resources", wantErr: core.ErrSecurity},
		{name: "Deep Escape", path: "sub/../../secret.json", base: "resources", wantErr: core.ErrSecurity},
		{name: "Sibling With Shared Prefix", path: "../resources2/x.json", base: "resources", wantErr: core.ErrSecurity},
		{name: "Base Itself", path: ".", base: "resources", want: "resources"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := core.ResolvePath(tt.path, tt.base)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePath_StaysInsideBase(t *testing.T) {
	base := t.TempDir()

	rapid.Check(t, func(t *rapid.T) {
		segments := rapid.SliceOfN(rapid.SampledFrom([]string{"a", "b", "..", ".", "c.json"}), 1, 6).Draw(t, "segments")
		path := strings.Join(segments, "/")

		got, err := core.ResolvePath(path, base)
		if err != nil {
			require.ErrorIs(t, err, core.ErrSecurity, "unexpected error kind for %q", path)
			return
		}
		require.True(t, got == base || strings.HasPrefix(got, base+string(filepath.Separator)),
			"%q resolved outside base: %q", path, got)
	})
}

func TestResolvePath_NoDotDotNeverFails(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		segments := rapid.SliceOfN(rapid.StringMatching(`[a-z0-9_-]{1,8}(\.json)?`), 1, 5).Draw(t, "segments")

		_, err := core.ResolvePath(strings.Join(segments, "/"), "resources")
		require.NoError(t, err)
	})
}
