package cli

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"alchemist.dev/internal/config"
	"alchemist.dev/internal/mcputil"
	"alchemist.dev/internal/server"
	"alchemist.dev/internal/task"
	"alchemist.dev/internal/terminal"
)

func newServeCmd(version string) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tasks as MCP tools (stdio, or HTTP with --addr)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, path, cfg, err := bootstrap()
			if err != nil {
				// Without a config the server still offers init and refresh_config
				if !errors.Is(err, config.ErrNoConfig) {
					return err
				}
				slog.Warn("starting without tasks", "error", err)
				registry = task.NewRegistry(nil)
				cfg = task.DefaultExecutorConfig()
				cfg.MaxParallel = globalMaxParallel
				path = globalConfig
			}

			slog.Info("serving tasks over MCP", "config", path, "tasks", registry.Len())
			srv := server.NewServer(registry, path, version, cfg)
			if addr == "" {
				return srv.Serve()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			printer := terminal.New(cmd.ErrOrStderr(), cmd.ErrOrStderr())
			printer.Info("Serving MCP over HTTP at " + mcputil.Endpoint(addr))
			return srv.ServeHTTP(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Serve over streamable HTTP on this address (e.g. :8080) instead of stdio")
	return cmd
}
