package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"alchemist.dev/internal/config"
	"alchemist.dev/internal/dirs"
	"alchemist.dev/internal/logs"
	"alchemist.dev/internal/task"
	"alchemist.dev/internal/terminal"
)

var (
	globalConfig      string
	globalMaxParallel int
	globalVerbose     bool
)

// exitError carries a process exit code through cobra's error return
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Execute runs the command line and returns the process exit code
func Execute(version string) int {
	cmd := newRootCmd(version)
	if err := cmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		terminal.NewStd().Error(err)
		return 1
	}
	return 0
}

func newRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "alchemist",
		Short:         "Run the tasks defined in " + dirs.ConfigTOML,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logs.Setup(cmd.ErrOrStderr(), globalVerbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Help(); err != nil {
				return err
			}
			// Show what can be run when a config is at hand
			if registry, _, err := config.Load(globalConfig); err == nil {
				printAvailable(cmd.OutOrStdout(), registry)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&globalConfig, "config", "c", os.Getenv(dirs.ConfigEnv),
		"Path to the task configuration file (env "+dirs.ConfigEnv+")")
	root.PersistentFlags().IntVarP(&globalMaxParallel, "max-parallel", "j", 0,
		"Maximum concurrent tasks per parallel group (0 = unbounded)")
	root.PersistentFlags().BoolVarP(&globalVerbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newRunCmd(),
		newListCmd(),
		newInitCmd(),
		newServeCmd(version),
	)

	return root
}

// bootstrap loads the registry and builds the executor configuration shared
// by the subcommands
func bootstrap() (*task.Registry, string, task.ExecutorConfig, error) {
	registry, path, err := config.Load(globalConfig)
	if err != nil {
		return nil, path, task.ExecutorConfig{}, fmt.Errorf("failed to load config: %w", err)
	}

	cfg := task.DefaultExecutorConfig()
	cfg.MaxParallel = globalMaxParallel
	return registry, path, cfg, nil
}

func printAvailable(w io.Writer, registry *task.Registry) {
	names := registry.Shown()
	if len(names) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available tasks:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", name)
	}
}
