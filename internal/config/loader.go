package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"alchemist.dev/internal/dirs"
	"alchemist.dev/internal/task"
)

// ErrNoConfig is returned by Load when no configuration file exists
var ErrNoConfig = errors.New("no configuration file found")

// Load finds, parses and validates the task configuration, applies the
// overrides file next to it and returns the resulting registry together with
// the path it was loaded from.
// It searches for the configuration in the following priority order:
// 1. Custom path (if provided)
// 2. ./alchemist.toml
// 3. ./alchemist.yaml
// 4. ./alchemist.yml
func Load(customPath string) (*task.Registry, string, error) {
	path, err := Find(customPath)
	if err != nil {
		return nil, "", err
	}

	tasks, err := ParseFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("invalid config at %s: %w", path, err)
	}

	overridesPath := filepath.Join(filepath.Dir(path), dirs.OverridesFile)
	overrides, err := LoadOverrides(overridesPath)
	if err != nil {
		return nil, path, err
	}
	ApplyOverrides(tasks, overrides)

	return task.NewRegistry(tasks), path, nil
}

// Find returns the configuration file Load would use. An explicit path must
// exist; otherwise the default names are tried in order.
func Find(customPath string) (string, error) {
	if customPath != "" {
		info, err := os.Stat(customPath)
		if err != nil {
			return "", fmt.Errorf("config file %s: %w", customPath, err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("config path %s is a directory", customPath)
		}
		return customPath, nil
	}

	searchPaths := []string{
		dirs.ConfigTOML,
		dirs.ConfigYAML,
		dirs.ConfigYML,
	}
	for _, path := range searchPaths {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		return path, nil
	}

	return "", fmt.Errorf("%w (searched %v)", ErrNoConfig, searchPaths)
}
