package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"alchemist.dev/internal/config"
)

// registerRefreshConfigTool registers the refresh_config tool that reloads
// configuration from disk while the server is running.
func (s *Server) registerRefreshConfigTool() {
	tool := mcp.Tool{
		Name:        "refresh_config",
		Description: "Reload the task configuration from disk and re-register the task tools without restarting the server.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: make(map[string]interface{}),
		},
	}

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := s.Refresh(); err != nil {
			result := map[string]interface{}{
				"success": false,
				"error":   err.Error(),
			}
			resultJSON, _ := json.Marshal(result)
			return mcp.NewToolResultError(string(resultJSON)), nil
		}

		s.mu.Lock()
		count := s.registry.Len()
		s.mu.Unlock()

		result := map[string]interface{}{
			"success": true,
			"message": "Configuration reloaded successfully",
			"tasks":   count,
		}
		resultJSON, _ := json.Marshal(result)
		return mcp.NewToolResultText(string(resultJSON)), nil
	}

	s.mcpServer.AddTool(tool, handler)
}

// Refresh reloads configuration from disk and re-registers the task tools.
// Runs already in progress keep the registry they started with.
func (s *Server) Refresh() error {
	s.mu.Lock()
	configPath := s.configPath
	s.mu.Unlock()

	registry, path, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}

	s.mu.Lock()
	oldToolNames := s.collectToolNames()
	s.registry = registry
	if s.configPath == "" {
		s.configPath = path
	}
	s.mu.Unlock()

	if len(oldToolNames) > 0 {
		s.mcpServer.DeleteTools(oldToolNames...)
	}
	s.registerTools(registry)

	return nil
}

// collectToolNames returns the names of all currently registered task-derived tools.
// This is used during refresh to know which tools to remove before re-registering.
func (s *Server) collectToolNames() []string {
	names := []string{"list_tasks"}
	for _, name := range s.registry.Shown() {
		names = append(names, "run_"+name)
	}
	return names
}
