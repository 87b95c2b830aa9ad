package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"alchemist.dev/internal/task"
	"alchemist.dev/internal/terminal"
)

func newListCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := terminal.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if code := cmdList(cmd.OutOrStdout(), printer, all); code != 0 {
				return &exitError{code: code}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include hidden tasks")
	return cmd
}

func cmdList(out io.Writer, printer *terminal.Printer, all bool) int {
	registry, _, _, err := bootstrap()
	if err != nil {
		printer.Error(err)
		return 1
	}

	names := registry.Shown()
	if all {
		names = registry.Names()
	}
	if len(names) == 0 {
		printer.Warn("No tasks defined.")
		return 0
	}

	// Column widths come from the plain text, colors are applied afterwards
	col1 := len("TASK")
	col2 := len("TYPE")
	for _, name := range names {
		t, _ := registry.Lookup(name)
		col1 = max(col1, len(name))
		col2 = max(col2, len(string(t.Kind())))
	}

	fmt.Fprintf(out, "%s%s  %s%s  %s\n",
		printer.Bold("TASK"), strings.Repeat(" ", col1-len("TASK")),
		printer.Bold("TYPE"), strings.Repeat(" ", col2-len("TYPE")),
		printer.Bold("RUNS"))

	for _, name := range names {
		t, _ := registry.Lookup(name)
		runs := summary(t)
		if !t.Shown() {
			runs += " (hidden)"
		}
		fmt.Fprintf(out, "%-*s  %-*s  %s\n", col1, name, col2, string(t.Kind()), runs)
	}
	return 0
}

// summary renders what a task does on a single line
func summary(t task.Task) string {
	switch t := t.(type) {
	case task.CommandTask:
		return t.CommandLine()
	case task.SerialGroup:
		return strings.Join(t.Tasks, " -> ")
	case task.ParallelGroup:
		return strings.Join(t.Tasks, " | ")
	case task.ShellTask:
		line, _, more := strings.Cut(strings.TrimSpace(t.Script), "\n")
		if more {
			line += " ..."
		}
		return line
	}
	return ""
}
