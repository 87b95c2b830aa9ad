package task

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"alchemist.dev/internal/logs"
)

// Reporter receives the progress messages of a run as they happen.
// Implementations must be safe for concurrent use.
type Reporter interface {
	Info(msg string)
	OK(msg string)
	Error(err error)
}

// ExecutorConfig configures the task executor
type ExecutorConfig struct {
	// Shell runs shell tasks as `Shell -c script`
	Shell string

	// MaxParallel caps the concurrent units of one parallel group (0 = unbounded)
	MaxParallel int

	// Env is the base environment of every spawned process. Nil means the
	// environment of the current process.
	Env []string

	// Stdin is passed to every process. When nil, each process runs in its
	// own process group, which is killed as a whole on cancellation.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultExecutorConfig returns a config that inherits the terminal of the
// current process
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		Shell:  "sh",
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Executor runs tasks from a registry
type Executor struct {
	registry *Registry
	reporter Reporter
	config   ExecutorConfig
}

// NewExecutor creates a new task executor
func NewExecutor(registry *Registry, reporter Reporter, config ExecutorConfig) *Executor {
	if reporter == nil {
		reporter = discardReporter{}
	}
	if config.Shell == "" {
		config.Shell = "sh"
	}
	return &Executor{
		registry: registry,
		reporter: reporter,
		config:   config,
	}
}

// Run executes the named task, recursing into the registry for groups.
// The engine never cancels work itself; cancelling ctx kills spawned
// processes.
func (e *Executor) Run(ctx context.Context, taskName string) error {
	t, ok := e.registry.Lookup(taskName)
	if !ok {
		return unknownTask(taskName)
	}
	if logs.RunIDFrom(ctx) == "" {
		ctx = logs.WithRunID(ctx, logs.NewRunID())
	}
	slog.DebugContext(ctx, "running task", "task", taskName, "kind", t.Kind(), "run_id", logs.RunIDFrom(ctx))
	return e.run(ctx, taskName, t, nil)
}

// run executes one task. ancestors holds the names of the groups currently
// executing above it and is never modified in place.
func (e *Executor) run(ctx context.Context, name string, t Task, ancestors []string) error {
	if slices.Contains(ancestors, name) {
		return cycleError(slices.Concat(ancestors, []string{name}))
	}

	switch t := t.(type) {
	case CommandTask:
		return e.runCommand(ctx, name, t)
	case ShellTask:
		return e.runShell(ctx, name, t)
	case SerialGroup:
		return e.runSerial(ctx, name, t, slices.Concat(ancestors, []string{name}))
	case ParallelGroup:
		return e.runParallel(ctx, name, t, slices.Concat(ancestors, []string{name}))
	default:
		return &Error{Kind: ErrConfig, Task: name, Msg: fmt.Sprintf("task '%s' has unsupported type %T", name, t)}
	}
}

func (e *Executor) runCommand(ctx context.Context, name string, t CommandTask) error {
	line := t.CommandLine()
	what := fmt.Sprintf("command `%s`", line)

	cmd := exec.CommandContext(ctx, t.Command, t.Args...)
	cmd.Env = mergeEnv(e.config.Env, t.Env)

	e.reporter.Info("Running command " + line)
	if err := e.wait(ctx, name, what, cmd); err != nil {
		return err
	}
	e.reporter.OK("Finished command " + line)
	return nil
}

func (e *Executor) runShell(ctx context.Context, name string, t ShellTask) error {
	cmd := exec.CommandContext(ctx, e.config.Shell, "-c", t.Script)
	cmd.Env = e.config.Env

	e.reporter.Info(fmt.Sprintf("Running shell script %s", name))
	if err := e.wait(ctx, name, "shell script", cmd); err != nil {
		return err
	}
	e.reporter.OK(fmt.Sprintf("Finished shell script %s", name))
	return nil
}

// wait starts cmd and blocks until it exits. Start failures are ErrSpawn,
// anything but a zero exit status is ErrExecution.
func (e *Executor) wait(ctx context.Context, name, what string, cmd *exec.Cmd) error {
	cmd.Stdin = e.config.Stdin
	cmd.Stdout = e.config.Stdout
	cmd.Stderr = e.config.Stderr
	if cmd.Stdin == nil {
		// Nothing reads from a terminal, so cancellation can take the whole
		// process group down
		isolate(cmd)
	}

	slog.DebugContext(ctx, "spawning process", "task", name, "path", cmd.Path, "run_id", logs.RunIDFrom(ctx))
	if err := cmd.Start(); err != nil {
		return spawnError(name, what, err)
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			slog.DebugContext(ctx, "process exited", "task", name, "status", exitErr.String())
			return exitError(name, what, exitErr)
		}
		return &Error{
			Kind:     ErrExecution,
			Task:     name,
			Msg:      fmt.Sprintf("task '%s': waiting for %s failed", name, what),
			Err:      err,
			ExitCode: -1,
		}
	}
	return nil
}

func (e *Executor) runSerial(ctx context.Context, name string, g SerialGroup, ancestors []string) error {
	e.reporter.Info(fmt.Sprintf("Running serial task '%s' which is a collection of %q", name, g.Tasks))

	for _, sub := range g.Tasks {
		t, ok := e.registry.Lookup(sub)
		if !ok {
			return unknownSubtask(name, KindSerial, sub)
		}
		if err := e.run(ctx, sub, t, ancestors); err != nil {
			return err
		}
	}

	e.reporter.OK(fmt.Sprintf("Finished serial task '%s'", name))
	return nil
}

// runParallel launches one goroutine per sub-task and waits for all of them.
// Resolution happens while launching: an unknown name stops further launches
// but units already started still run to completion. With MaxParallel set,
// launching blocks while the group is at its cap, so a later name is only
// resolved once a running unit has finished.
func (e *Executor) runParallel(ctx context.Context, name string, g ParallelGroup, ancestors []string) error {
	e.reporter.Info(fmt.Sprintf("Running parallel task '%s' which is a collection of %q", name, g.Tasks))

	var group errgroup.Group
	if e.config.MaxParallel > 0 {
		group.SetLimit(e.config.MaxParallel)
	}

	var (
		mu       sync.Mutex
		failures int
	)
	var launchErr error
	for _, sub := range g.Tasks {
		t, ok := e.registry.Lookup(sub)
		if !ok {
			launchErr = unknownSubtask(name, KindParallel, sub)
			break
		}
		group.Go(func() error {
			err := e.run(ctx, sub, t, ancestors)
			if err != nil {
				e.reporter.Error(err)
				mu.Lock()
				failures++
				mu.Unlock()
			}
			return err
		})
	}

	// Every failure has already been counted and reported
	_ = group.Wait()

	if launchErr != nil {
		return launchErr
	}
	if failures > 0 {
		return aggregateError(name, failures)
	}

	e.reporter.OK(fmt.Sprintf("Finished parallel task '%s'", name))
	return nil
}

type discardReporter struct{}

func (discardReporter) Info(string) {}
func (discardReporter) OK(string)   {}
func (discardReporter) Error(error) {}
