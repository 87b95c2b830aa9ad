package server

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/singleflight"

	"alchemist.dev/internal/task"
)

// Server exposes the tasks of a registry as MCP tools
type Server struct {
	mu         sync.Mutex
	mcpServer  *server.MCPServer
	registry   *task.Registry
	configPath string
	version    string
	config     task.ExecutorConfig

	// flights shares one execution between concurrent calls for the same task
	flights singleflight.Group
}

// NewServer creates a new MCP server. config supplies the shell and the
// parallelism cap; process output is always captured, never written to the
// stdio protocol stream.
func NewServer(registry *task.Registry, configPath, version string, config task.ExecutorConfig) *Server {
	mcpServer := server.NewMCPServer(
		"alchemist",
		version,
		server.WithToolCapabilities(true),
	)

	config.Stdin = nil
	config.Stdout = nil
	config.Stderr = nil

	s := &Server{
		mcpServer:  mcpServer,
		registry:   registry,
		configPath: configPath,
		version:    version,
		config:     config,
	}

	s.registerBuiltInTools()
	s.registerRefreshConfigTool()
	s.registerTools(registry)

	return s
}

// Serve starts the MCP server over stdio
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeHTTP serves the MCP server over the streamable HTTP transport until
// ctx is cancelled
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	httpServer := server.NewStreamableHTTPServer(s.mcpServer)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

// lockedBuffer collects the output of processes that may run concurrently
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
