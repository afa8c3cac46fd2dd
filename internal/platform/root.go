package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFileName is the project configuration file the CLI looks for.
const ConfigFileName = "miniapp.yaml"

// FindRoot recursively looks upwards for a project root indicator.
// Indicators are: a miniapp.yaml file or a .miniapp directory.
// If found, returns the absolute path to the root.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, ConfigFileName) || hasFile(dir, ".miniapp") {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

func hasFile(dir, name string) bool {
	path := filepath.Join(dir, name)
	_, err := os.Stat(path)
	return err == nil
}
