package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"alchemist.dev/internal/dirs"
	"alchemist.dev/internal/task"
)

func TestParseTOML(t *testing.T) {
	input := `
[tasks.hello]
command = "echo"
args = ["hello", "world"]
env = { GREETING = "hi" }

[tasks.ci]
serial_tasks = ["hello", "greet"]

[tasks.check]
parallel_tasks = ["hello", "greet"]
hide = true

[tasks.greet]
shell_script = '''
NAME="world"
echo hello $NAME
'''
`
	tasks, err := Parse([]byte(input), FormatTOML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]task.Task{
		"hello": task.CommandTask{Command: "echo", Args: []string{"hello", "world"}, Env: map[string]string{"GREETING": "hi"}},
		"ci":    task.SerialGroup{Tasks: []string{"hello", "greet"}},
		"check": task.ParallelGroup{Tasks: []string{"hello", "greet"}, Hide: true},
		"greet": task.ShellTask{Script: "NAME=\"world\"\necho hello $NAME\n"},
	}
	if !reflect.DeepEqual(tasks, want) {
		t.Errorf("Parse() =\n%#v\nwant\n%#v", tasks, want)
	}
}

func TestParseYAMLMatchesTOML(t *testing.T) {
	tomlInput := `
[tasks.build]
command = "go"
args = ["build", "./..."]

[tasks.lint]
shell_script = "golangci-lint run"
hide = true

[tasks.all]
parallel_tasks = ["build", "lint"]

[tasks.ci]
serial_tasks = ["all"]
`
	yamlInput := `
tasks:
  build:
    command: go
    args: [build, ./...]
  lint:
    shell_script: golangci-lint run
    hide: true
  all:
    parallel_tasks: [build, lint]
  ci:
    serial_tasks:
      - all
`
	fromTOML, err := Parse([]byte(tomlInput), FormatTOML)
	if err != nil {
		t.Fatalf("TOML: %v", err)
	}
	fromYAML, err := Parse([]byte(yamlInput), FormatYAML)
	if err != nil {
		t.Fatalf("YAML: %v", err)
	}
	if !reflect.DeepEqual(fromTOML, fromYAML) {
		t.Errorf("formats disagree:\nTOML %#v\nYAML %#v", fromTOML, fromYAML)
	}
}

func TestParseEmpty(t *testing.T) {
	for _, format := range []Format{FormatTOML, FormatYAML} {
		tasks, err := Parse(nil, format)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", format, err)
		}
		if len(tasks) != 0 {
			t.Errorf("%s: expected no tasks, got %v", format, tasks)
		}
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		input   string
		wantErr []string
	}{
		{
			name:    "command and shell script together",
			format:  FormatTOML,
			input:   "[tasks.x]\ncommand = \"echo\"\nshell_script = \"echo\"\n",
			wantErr: []string{"task 'x'", "unknown field(s) 'shell_script' for a command task"},
		},
		{
			name:    "serial and parallel together",
			format:  FormatYAML,
			input:   "tasks:\n  x:\n    serial_tasks: [a]\n    parallel_tasks: [b]\n",
			wantErr: []string{"unknown field(s) 'parallel_tasks' for a serial task"},
		},
		{
			name:    "no recognizable key",
			format:  FormatTOML,
			input:   "[tasks.x]\nhide = true\n",
			wantErr: []string{"task 'x' does not match any task type", "'command', 'serial_tasks', 'parallel_tasks', 'shell_script'"},
		},
		{
			name:    "unknown extra field",
			format:  FormatYAML,
			input:   "tasks:\n  x:\n    command: echo\n    description: says hi\n",
			wantErr: []string{"unknown field(s) 'description'"},
		},
		{
			name:    "wrong value type",
			format:  FormatTOML,
			input:   "[tasks.x]\ncommand = \"echo\"\nargs = \"not-a-list\"\n",
			wantErr: []string{"task 'x': invalid command task"},
		},
		{
			name:    "empty command",
			format:  FormatTOML,
			input:   "[tasks.x]\ncommand = \"  \"\n",
			wantErr: []string{"task 'x': command cannot be empty"},
		},
		{
			name:    "empty subtask name",
			format:  FormatYAML,
			input:   "tasks:\n  x:\n    serial_tasks: [a, \"\"]\n",
			wantErr: []string{"task 'x': subtask at index 1 cannot be empty"},
		},
		{
			name:    "task is not a table",
			format:  FormatTOML,
			input:   "[tasks]\nx = \"echo\"\n",
			wantErr: []string{"task 'x' must be a table"},
		},
		{
			name:    "task is not a mapping",
			format:  FormatYAML,
			input:   "tasks:\n  x: echo\n",
			wantErr: []string{"task 'x' must be a mapping"},
		},
		{
			name:    "unknown top-level key in TOML",
			format:  FormatTOML,
			input:   "version = 1\n[tasks.x]\ncommand = \"echo\"\n",
			wantErr: []string{"unknown top-level key 'version'"},
		},
		{
			name:    "unknown top-level key in YAML",
			format:  FormatYAML,
			input:   "version: 1\ntasks:\n  x:\n    command: echo\n",
			wantErr: []string{"version"},
		},
		{
			name:    "malformed TOML",
			format:  FormatTOML,
			input:   "[tasks.x\n",
			wantErr: []string{"failed to parse TOML"},
		},
		{
			name:    "every problem is reported",
			format:  FormatTOML,
			input:   "[tasks.a]\nhide = true\n[tasks.b]\ncommand = \"\"\n",
			wantErr: []string{"validation errors:", "task 'a' does not match", "task 'b': command cannot be empty"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := Parse([]byte(tt.input), tt.format)
			if err == nil {
				t.Fatalf("expected error, got %v", tasks)
			}
			if tasks != nil {
				t.Errorf("no partial result expected, got %v", tasks)
			}
			if !errors.Is(err, task.ErrConfig) {
				t.Errorf("expected ErrConfig, got %v", err)
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q should contain %q", err, want)
				}
			}
		})
	}
}

func TestParseAllowsUnknownReferences(t *testing.T) {
	// References are resolved when a group runs, not at load time
	tasks, err := Parse([]byte("[tasks.ci]\nserial_tasks = [\"missing\"]\n"), FormatTOML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := tasks["ci"]; !ok {
		t.Error("expected ci to be parsed")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"alchemist.toml", FormatTOML, false},
		{"dir/alchemist.yaml", FormatYAML, false},
		{"alchemist.YML", FormatYAML, false},
		{"alchemist.json", "", true},
		{"alchemist", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestFind(t *testing.T) {
	tests := []struct {
		name    string
		files   []string
		want    string
		wantErr bool
	}{
		{name: "nothing", wantErr: true},
		{name: "toml first", files: []string{dirs.ConfigYML, dirs.ConfigYAML, dirs.ConfigTOML}, want: dirs.ConfigTOML},
		{name: "yaml before yml", files: []string{dirs.ConfigYML, dirs.ConfigYAML}, want: dirs.ConfigYAML},
		{name: "yml", files: []string{dirs.ConfigYML}, want: dirs.ConfigYML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			origDir := mustGetwd(t)
			t.Cleanup(func() { mustChdir(t, origDir) })
			mustChdir(t, tmpDir)

			for _, f := range tt.files {
				if err := os.WriteFile(f, nil, 0644); err != nil {
					t.Fatal(err)
				}
			}

			got, err := Find("")
			if tt.wantErr {
				if !errors.Is(err, ErrNoConfig) {
					t.Fatalf("expected ErrNoConfig, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Find() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFindExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.yml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	if got, err := Find(path); err != nil || got != path {
		t.Errorf("Find(%q) = %q, %v", path, got, err)
	}
	if _, err := Find(filepath.Join(dir, "missing.toml")); err == nil || errors.Is(err, ErrNoConfig) {
		t.Errorf("a missing explicit path should be a plain error, got %v", err)
	}
	if _, err := Find(dir); err == nil {
		t.Error("a directory is not a config file")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alchemist.yml")
	content := `
tasks:
  test:
    command: go
    args: [test]
  secret:
    shell_script: echo hidden
    hide: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	registry, got, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != path {
		t.Errorf("path = %q, want %q", got, path)
	}
	if registry.Len() != 2 {
		t.Errorf("Len() = %d, want 2", registry.Len())
	}
	if shown := registry.Shown(); !reflect.DeepEqual(shown, []string{"test"}) {
		t.Errorf("Shown() = %v", shown)
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, dirs.ConfigTOML)
	if err := os.WriteFile(path, []byte("[tasks.x]\nhide = true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, got, err := Load(path)
	if err == nil {
		t.Fatal("expected error")
	}
	if got != path {
		t.Errorf("path should be reported even on failure, got %q", got)
	}
	if !strings.Contains(err.Error(), path) || !errors.Is(err, task.ErrConfig) {
		t.Errorf("error should name the file and be a config error, got %v", err)
	}
}

func TestStarterConfig(t *testing.T) {
	tasks, err := Parse([]byte(StarterConfig), FormatTOML)
	if err != nil {
		t.Fatalf("starter config should parse: %v", err)
	}

	kinds := map[string]task.Kind{
		"fmt":   task.KindCommand,
		"lint":  task.KindShell,
		"test":  task.KindCommand,
		"check": task.KindParallel,
		"ci":    task.KindSerial,
		"clean": task.KindShell,
	}
	for name, kind := range kinds {
		tk, ok := tasks[name]
		if !ok {
			t.Errorf("starter config is missing %q", name)
			continue
		}
		if tk.Kind() != kind {
			t.Errorf("%s: kind = %s, want %s", name, tk.Kind(), kind)
		}
	}
	if tasks["clean"].Shown() {
		t.Error("clean should be hidden")
	}
}

func TestWriteStarter(t *testing.T) {
	path := filepath.Join(t.TempDir(), dirs.ConfigTOML)

	if err := WriteStarter(path, false); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteStarter(path, false); !errors.Is(err, os.ErrExist) {
		t.Errorf("second write should fail with ErrExist, got %v", err)
	}

	if err := os.WriteFile(path, []byte("changed"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := WriteStarter(path, true); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != StarterConfig {
		t.Error("overwrite should restore the starter config")
	}
}
