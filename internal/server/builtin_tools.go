package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"alchemist.dev/internal/config"
	"alchemist.dev/internal/dirs"
)

// registerBuiltInTools registers built-in tools that are always available
func (s *Server) registerBuiltInTools() {
	s.registerInitTool()
}

// registerInitTool registers the init tool for creating config files
func (s *Server) registerInitTool() {
	tool := mcp.Tool{
		Name:        "init",
		Description: "Initialize a new " + dirs.ConfigTOML + " configuration file",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Target path for config file (default: ./" + dirs.ConfigTOML + ")",
				},
				"overwrite": map[string]interface{}{
					"type":        "boolean",
					"description": "Whether to overwrite existing file (default: false)",
				},
			},
		},
	}

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		targetPath := "./" + dirs.ConfigTOML
		if path, ok := args["path"].(string); ok && path != "" {
			targetPath = path
		}

		overwrite := false
		if ow, ok := args["overwrite"].(bool); ok {
			overwrite = ow
		}

		// Convert to absolute path for better error messages
		absPath, err := filepath.Abs(targetPath)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid path: %v", err)), nil
		}

		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create directory: %v", err)), nil
		}

		if err := config.WriteStarter(absPath, overwrite); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%v (use overwrite=true to replace)", err)), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf(`{
  "success": true,
  "path": %q,
  "message": "Successfully created config file. Call refresh_config to load it."
}`, absPath)), nil
	}

	s.mcpServer.AddTool(tool, handler)
}
