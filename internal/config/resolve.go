package config

import (
	"slices"
	"sort"
	"strings"

	"alchemist.dev/internal/task"
)

// shape describes how one task kind looks in a configuration document.
// required keys of different shapes must never overlap; that is what keeps
// the format free of an explicit type marker.
type shape struct {
	kind     task.Kind
	required string
	keys     []string
	decode   func(decode func(any) error) (task.Task, error)
}

// shapes lists the task kinds in the order they are tried
var shapes = []shape{
	{kind: task.KindCommand, required: "command", keys: []string{"command", "args", "env", "hide"}, decode: decodeAs[task.CommandTask]},
	{kind: task.KindSerial, required: "serial_tasks", keys: []string{"serial_tasks", "hide"}, decode: decodeAs[task.SerialGroup]},
	{kind: task.KindParallel, required: "parallel_tasks", keys: []string{"parallel_tasks", "hide"}, decode: decodeAs[task.ParallelGroup]},
	{kind: task.KindShell, required: "shell_script", keys: []string{"shell_script", "hide"}, decode: decodeAs[task.ShellTask]},
}

func decodeAs[T task.Task](decode func(any) error) (task.Task, error) {
	var t T
	if err := decode(&t); err != nil {
		return nil, err
	}
	return t, nil
}

// Resolve determines which task kind a raw entry describes from the set of
// keys it carries, then decodes it with decode. An entry is accepted by the
// first shape whose required key is present and which recognizes every key.
func Resolve(name string, keys []string, decode func(any) error) (task.Task, error) {
	for _, s := range shapes {
		if !slices.Contains(keys, s.required) || len(unknownKeys(s, keys)) > 0 {
			continue
		}
		t, err := s.decode(decode)
		if err != nil {
			return nil, configError(name, "task '%s': invalid %s task: %v", name, s.kind, err)
		}
		return t, nil
	}

	// Explain the mismatch against the first shape that had its required key
	for _, s := range shapes {
		if slices.Contains(keys, s.required) {
			return nil, configError(name, "task '%s': unknown field(s) %s for a %s task",
				name, quoteAll(unknownKeys(s, keys)), s.kind)
		}
	}

	required := make([]string, 0, len(shapes))
	for _, s := range shapes {
		required = append(required, s.required)
	}
	return nil, configError(name, "task '%s' does not match any task type (expected one of %s)",
		name, quoteAll(required))
}

func unknownKeys(s shape, keys []string) []string {
	var unknown []string
	for _, k := range keys {
		if !slices.Contains(s.keys, k) {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return unknown
}

func quoteAll(keys []string) string {
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = "'" + k + "'"
	}
	return strings.Join(quoted, ", ")
}
