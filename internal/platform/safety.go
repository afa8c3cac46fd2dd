package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// IsDevRun checks if the current process is running via `go run` or `go test`.
// It relies on the fact that these commands build binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	// "go run" builds into the temp dir
	tempDir := os.TempDir()
	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(tempDir)) {
		return true
	}

	// "go test" binaries end in .test
	if strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe") {
		return true
	}

	return false
}

// ResolveBaseDir determines the actual base resource directory.
// When forceTemp is set, the directory is re-rooted under
// $TMP/miniapp-dev/<name> so dev runs cannot touch real resources.
// Absolute paths already inside the system temp dir (e.g. t.TempDir()) are
// kept.
func ResolveBaseDir(userPath string, forceTemp bool) string {
	if !forceTemp {
		return userPath
	}

	cleanUserPath := filepath.Clean(userPath)
	tempRoot := os.TempDir()

	// Relative paths are always re-rooted, even when the working directory
	// itself lives under the temp dir.
	if filepath.IsAbs(cleanUserPath) {
		rel, err := filepath.Rel(tempRoot, cleanUserPath)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return cleanUserPath
		}
	}

	subName := filepath.Base(cleanUserPath)
	if userPath == "" || subName == "." || subName == string(os.PathSeparator) || subName == ".." {
		subName = "default"
	}

	return filepath.Join(tempRoot, "miniapp-dev", subName)
}
