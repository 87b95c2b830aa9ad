package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"alchemist.dev/internal/task"
)

// Format is a supported configuration file format
type Format string

const (
	// FormatTOML is the default format (alchemist.toml)
	FormatTOML Format = "toml"
	// FormatYAML is accepted for alchemist.yaml / alchemist.yml
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported config file extension %q (expected .toml, .yaml or .yml)", filepath.Ext(path))
	}
}

// Overrides adjusts task definitions without editing the shared config file
type Overrides struct {
	Tasks map[string]TaskOverride `yaml:"tasks"`
}

// TaskOverride changes the visibility of every task whose name matches the
// pattern it is keyed by
type TaskOverride struct {
	Hide *bool `yaml:"hide"`
}

// configError reports a problem with the configuration document itself
func configError(name, format string, args ...any) error {
	return &task.Error{Kind: task.ErrConfig, Task: name, Msg: fmt.Sprintf(format, args...)}
}
