package task

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var (
	ErrConfig         = errors.New("configuration error")
	ErrUnknownTask    = errors.New("unknown task")
	ErrUnknownSubtask = errors.New("invalid subtask")
	ErrSpawn          = errors.New("failed to start")
	ErrExecution      = errors.New("execution failed")
	ErrAggregate      = errors.New("parallel tasks failed")
	ErrCycle          = errors.New("cycle detected")
)

// Error is a task failure. Kind is one of the sentinel errors above and is
// what errors.Is matches against; Err holds the underlying cause, if any.
type Error struct {
	Kind error
	Task string
	Msg  string
	Err  error

	// ExitCode is the exit status behind an ErrExecution, -1 if unknown
	ExitCode int

	// Failures is the number of failed units behind an ErrAggregate
	Failures int
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	// A spawn failure is an execution failure that never got a process
	if e.Kind == ErrSpawn {
		errs = append(errs, ErrExecution)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func unknownTask(name string) error {
	return &Error{Kind: ErrUnknownTask, Task: name, Msg: fmt.Sprintf("task '%s' not found", name)}
}

func unknownSubtask(group string, kind Kind, sub string) error {
	return &Error{
		Kind: ErrUnknownSubtask,
		Task: group,
		Msg:  fmt.Sprintf("%s task '%s' has an invalid subtask '%s'", kind, group, sub),
	}
}

func spawnError(name, what string, err error) error {
	return &Error{
		Kind: ErrSpawn,
		Task: name,
		Msg:  fmt.Sprintf("starting task '%s' with %s failed, not found or insufficient permissions to run", name, what),
		Err:  err,
	}
}

func exitError(name, what string, exitErr *exec.ExitError) error {
	return &Error{
		Kind:     ErrExecution,
		Task:     name,
		Msg:      fmt.Sprintf("task '%s': %s failed (%s)", name, what, exitErr),
		ExitCode: exitErr.ExitCode(),
	}
}

func aggregateError(group string, failures int) error {
	return &Error{
		Kind:     ErrAggregate,
		Task:     group,
		Msg:      fmt.Sprintf("%d of the parallel tasks in '%s' failed", failures, group),
		Failures: failures,
	}
}

func cycleError(chain []string) error {
	return &Error{
		Kind: ErrCycle,
		Task: chain[len(chain)-1],
		Msg:  "cycle detected: " + strings.Join(chain, " -> "),
	}
}
