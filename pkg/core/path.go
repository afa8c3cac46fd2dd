package core

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ResolvePath resolves filePath against baseDir.
//
// Resolution rules:
//   - An empty filePath is rejected with ErrValidation.
//   - An empty baseDir falls back to DefaultBaseDir.
//   - Absolute paths are cleaned and returned as-is; they bypass the base
//     directory on purpose.
//   - Relative paths are joined onto baseDir and must stay inside it,
//     otherwise ErrSecurity is returned.
//
// The result is absolute only when baseDir (or filePath) is. ResolvePath does
// no I/O; whether the target exists is the caller's concern.
func ResolvePath(filePath, baseDir string) (string, error) {
	if filePath == "" {
		return "", fmt.Errorf("%w: file path cannot be empty", ErrValidation)
	}
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}

	if filepath.IsAbs(filePath) {
		return filepath.Clean(filePath), nil
	}

	resolved := filepath.Join(baseDir, filePath)

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("%w: cannot make base path absolute: %w", ErrValidation, err)
	}
	absResolved, err := filepath.Abs(resolved)
	if err != nil {
		return "", fmt.Errorf("%w: cannot make path absolute: %w", ErrValidation, err)
	}

	if !within(absBase, absResolved) {
		return "", fmt.Errorf("%w: %q resolves outside base path %q", ErrSecurity, filePath, baseDir)
	}

	return resolved, nil
}

// within reports whether target equals root or lies beneath it.
// Comparison is per path component, so "resources2" is not inside "resources".
func within(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return !filepath.IsAbs(rel)
}
