package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alchemist.dev/internal/config"
	"alchemist.dev/internal/dirs"
	"alchemist.dev/internal/terminal"
)

func newInitCmd() *cobra.Command {
	var (
		force bool
		path  string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter " + dirs.ConfigTOML,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := terminal.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err := config.WriteStarter(path, force); err != nil {
				if errors.Is(err, os.ErrExist) {
					printer.Error(fmt.Errorf("%s already exists, use --force to overwrite it", path))
				} else {
					printer.Error(err)
				}
				return &exitError{code: 1}
			}
			printer.OK("Created " + path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	cmd.Flags().StringVarP(&path, "path", "p", dirs.ConfigTOML, "File to write")
	return cmd
}
