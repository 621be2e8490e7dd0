// Where: cli/internal/infra/config/discover.go
// What: Project configuration discovery.
// Why: Resolve fnsdk.yaml from an explicit flag, the environment, or an upward search.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/poruru/fnsdk/cli/internal/meta"
)

var errConfigNotFound = errors.New("project config not found")

// ConfigEnvKey names the environment variable that points at a config file.
const ConfigEnvKey = meta.EnvPrefix + "_CONFIG"

// Resolve finds and loads the project configuration.
// Priority order.
// 1. explicit path (must exist).
// 2. FNSDK_CONFIG environment variable (must exist).
// 3. Upward search for fnsdk.yaml from startDir.
// Without any config the defaults are returned with an empty path.
func Resolve(explicit, startDir string) (ProjectConfig, string, error) {
	for _, candidate := range []string{explicit, os.Getenv(ConfigEnvKey)} {
		if candidate = strings.TrimSpace(candidate); candidate == "" {
			continue
		}
		cfg, err := LoadProjectConfig(candidate)
		if err != nil {
			return ProjectConfig{}, "", err
		}
		return cfg, candidate, nil
	}

	if path, ok := findProjectConfig(startDir); ok {
		cfg, err := LoadProjectConfig(path)
		if err != nil {
			return ProjectConfig{}, "", err
		}
		return cfg, path, nil
	}
	return DefaultProjectConfig(), "", nil
}

// Locate returns the nearest fnsdk.yaml above startDir.
func Locate(startDir string) (string, error) {
	if path, ok := findProjectConfig(startDir); ok {
		return path, nil
	}
	return "", fmt.Errorf("%w from %s", errConfigNotFound, startDir)
}

func findProjectConfig(start string) (string, bool) {
	if strings.TrimSpace(start) == "" {
		return "", false
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	for {
		candidate := ProjectConfigPath(dir)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
