package task

import (
	"strings"
)

// Kind names one of the four task shapes
type Kind string

const (
	// KindCommand runs a single executable with arguments
	KindCommand Kind = "command"
	// KindSerial runs other tasks one after another
	KindSerial Kind = "serial"
	// KindParallel runs other tasks concurrently
	KindParallel Kind = "parallel"
	// KindShell runs a script through the system shell
	KindShell Kind = "shell"
)

// Task is one named task definition. The set of implementations is closed:
// CommandTask, SerialGroup, ParallelGroup and ShellTask.
type Task interface {
	// Kind reports which of the four shapes the task has
	Kind() Kind
	// Shown reports whether listing UIs should display the task
	Shown() bool

	isTask()
}

// CommandTask is a simple task with a command and optional args
//
//	[tasks.hello]
//	command = "echo"
//	args = ["hello", "world"]
type CommandTask struct {
	Command string            `toml:"command" yaml:"command"`
	Args    []string          `toml:"args" yaml:"args"`
	Env     map[string]string `toml:"env" yaml:"env"`
	Hide    bool              `toml:"hide" yaml:"hide"`
}

// SerialGroup runs the named tasks in the given order
//
//	[tasks.ci]
//	serial_tasks = ["lint", "test"]
type SerialGroup struct {
	Tasks []string `toml:"serial_tasks" yaml:"serial_tasks"`
	Hide  bool     `toml:"hide" yaml:"hide"`
}

// ParallelGroup runs the named tasks concurrently
//
//	[tasks.check]
//	parallel_tasks = ["vet", "fmt"]
type ParallelGroup struct {
	Tasks []string `toml:"parallel_tasks" yaml:"parallel_tasks"`
	Hide  bool     `toml:"hide" yaml:"hide"`
}

// ShellTask runs a script with `sh -c`
//
//	[tasks.greet]
//	shell_script = '''
//	NAME="world"
//	echo hello $NAME
//	'''
type ShellTask struct {
	Script string `toml:"shell_script" yaml:"shell_script"`
	Hide   bool   `toml:"hide" yaml:"hide"`
}

func (CommandTask) Kind() Kind   { return KindCommand }
func (SerialGroup) Kind() Kind   { return KindSerial }
func (ParallelGroup) Kind() Kind { return KindParallel }
func (ShellTask) Kind() Kind     { return KindShell }

func (t CommandTask) Shown() bool   { return !t.Hide }
func (t SerialGroup) Shown() bool   { return !t.Hide }
func (t ParallelGroup) Shown() bool { return !t.Hide }
func (t ShellTask) Shown() bool     { return !t.Hide }

func (CommandTask) isTask()   {}
func (SerialGroup) isTask()   {}
func (ParallelGroup) isTask() {}
func (ShellTask) isTask()     {}

// CommandLine renders the command and its arguments for display
func (t CommandTask) CommandLine() string {
	if len(t.Args) == 0 {
		return t.Command
	}
	return t.Command + " " + strings.Join(t.Args, " ")
}
