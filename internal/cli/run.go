package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"alchemist.dev/internal/config"
	"alchemist.dev/internal/logs"
	"alchemist.dev/internal/task"
	"alchemist.dev/internal/terminal"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <task>",
		Short: "Run a task and everything it references",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			registry, _, err := config.Load(globalConfig)
			if err != nil {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return registry.Shown(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			printer := terminal.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if code := cmdRun(ctx, printer, cmd.ErrOrStderr(), args[0]); code != 0 {
				return &exitError{code: code}
			}
			return nil
		},
	}
}

func cmdRun(ctx context.Context, printer *terminal.Printer, errOut io.Writer, taskName string) int {
	registry, path, cfg, err := bootstrap()
	if err != nil {
		printer.Error(err)
		return 1
	}
	if globalVerbose {
		printer.Debug("Using config " + path)
	}

	if _, ok := registry.Lookup(taskName); !ok {
		printer.Error(fmt.Errorf("task '%s' not found in %s", taskName, path))
		printAvailable(errOut, registry)
		return 1
	}

	executor := task.NewExecutor(registry, printer, cfg)
	if err := executor.Run(logs.WithRunID(ctx, logs.NewRunID()), taskName); err != nil {
		printer.Error(err)
		return exitCode(err)
	}
	return 0
}

// exitCode maps a run failure to the process exit status. A failed command
// passes its own status through; everything else exits with 1.
func exitCode(err error) int {
	var taskErr *task.Error
	if errors.As(err, &taskErr) && taskErr.ExitCode > 0 {
		return taskErr.ExitCode
	}
	return 1
}
