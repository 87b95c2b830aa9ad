package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"alchemist.dev/internal/task"
)

// ParseFile reads a configuration file and returns its task definitions.
// The format is taken from the file extension.
func ParseFile(path string) (map[string]task.Task, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data, format)
}

// Parse decodes a configuration document. Every task entry is resolved to
// one of the task kinds; all problems found are reported together and no
// partial result is returned.
func Parse(data []byte, format Format) (map[string]task.Task, error) {
	switch format {
	case FormatTOML:
		return parseTOML(data)
	case FormatYAML:
		return parseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
}

func parseTOML(data []byte) (map[string]task.Task, error) {
	var doc struct {
		Tasks map[string]toml.Primitive `toml:"tasks"`
	}
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, configError("", "failed to parse TOML: %v", err)
	}

	tasks := make(map[string]task.Task, len(doc.Tasks))
	var problems []string
	for _, name := range sortedKeys(doc.Tasks) {
		prim := doc.Tasks[name]

		var raw map[string]any
		if err := md.PrimitiveDecode(prim, &raw); err != nil {
			problems = append(problems, fmt.Sprintf("task '%s' must be a table", name))
			continue
		}

		t, err := Resolve(name, sortedKeys(raw), func(v any) error {
			return md.PrimitiveDecode(prim, v)
		})
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		tasks[name] = t
	}

	// Anything still undecoded lives outside [tasks]
	for _, key := range md.Undecoded() {
		if len(key) == 1 {
			problems = append(problems, fmt.Sprintf("unknown top-level key '%s'", key.String()))
		}
	}

	if err := Validate(tasks, problems); err != nil {
		return nil, err
	}
	return tasks, nil
}

func parseYAML(data []byte) (map[string]task.Task, error) {
	var doc struct {
		Tasks map[string]yaml.Node `yaml:"tasks"`
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, configError("", "failed to parse YAML: %v", err)
	}

	tasks := make(map[string]task.Task, len(doc.Tasks))
	var problems []string
	for _, name := range sortedKeys(doc.Tasks) {
		node := doc.Tasks[name]
		if node.Kind != yaml.MappingNode {
			problems = append(problems, fmt.Sprintf("task '%s' must be a mapping", name))
			continue
		}

		keys := make([]string, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			keys = append(keys, node.Content[i].Value)
		}

		t, err := Resolve(name, keys, node.Decode)
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		tasks[name] = t
	}

	if err := Validate(tasks, problems); err != nil {
		return nil, err
	}
	return tasks, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// joinProblems renders collected problems the way Validate reports them
func joinProblems(problems []string) string {
	if len(problems) == 1 {
		return problems[0]
	}
	return "validation errors:\n  - " + strings.Join(problems, "\n  - ")
}
