package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"alchemist.dev/internal/task"
)

// LoadOverrides reads and parses the overrides YAML file at path.
// Returns nil if the file does not exist.
// Returns an error if the file exists but cannot be read or parsed.
func LoadOverrides(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read overrides file %s: %w", path, err)
	}

	var overrides Overrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse overrides file %s: %w", path, err)
	}

	return &overrides, nil
}

// ApplyOverrides applies visibility overrides to the task definitions in place.
// Glob patterns (e.g. "ci-*") are supported. Patterns are applied in lexical
// order, so a more specific pattern sorting later wins.
func ApplyOverrides(tasks map[string]task.Task, overrides *Overrides) {
	if overrides == nil {
		return
	}
	for _, pattern := range sortedKeys(overrides.Tasks) {
		override := overrides.Tasks[pattern]
		if override.Hide == nil {
			continue
		}
		for name, t := range tasks {
			if matchesPattern(pattern, name) {
				tasks[name] = withHide(t, *override.Hide)
			}
		}
	}
}

// withHide returns a copy of t with its hide flag set
func withHide(t task.Task, hide bool) task.Task {
	switch t := t.(type) {
	case task.CommandTask:
		t.Hide = hide
		return t
	case task.SerialGroup:
		t.Hide = hide
		return t
	case task.ParallelGroup:
		t.Hide = hide
		return t
	case task.ShellTask:
		t.Hide = hide
		return t
	}
	return t
}

// matchesPattern checks whether name matches pattern using filepath.Match glob syntax.
// An exact match is also accepted (filepath.Match handles that).
func matchesPattern(pattern, name string) bool {
	matched, err := filepath.Match(pattern, name)
	return err == nil && matched
}
