package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"alchemist.dev/internal/logs"
	"alchemist.dev/internal/task"
	"alchemist.dev/internal/terminal"
)

// runResponse is the MCP response for a task run.
// Output is truncated to the last mcpOutputMaxLines lines.
type runResponse struct {
	TaskName         string             `json:"task_name"`
	RunID            string             `json:"run_id"`
	Success          bool               `json:"success"`
	Duration         string             `json:"duration"`
	Error            string             `json:"error,omitempty"`
	ExitCode         int                `json:"exit_code,omitempty"`
	Output           string             `json:"output,omitempty"`
	OutputLines      int                `json:"output_lines,omitempty"`
	OutputTotalLines int                `json:"output_total_lines,omitempty"`
	OutputTruncated  bool               `json:"output_truncated,omitempty"`
	Messages         []terminal.Message `json:"messages,omitempty"`
}

// taskInfo is one entry of the list_tasks response
type taskInfo struct {
	Name string    `json:"name"`
	Kind task.Kind `json:"kind"`
}

// mcpOutputMaxLines is the maximum number of output lines returned in MCP responses.
const mcpOutputMaxLines = 100

// truncateToLines splits s into lines, returns the last max lines (or all if max<=0),
// along with the number of lines shown and the total line count.
// A trailing newline does not count as an extra empty line.
func truncateToLines(s string, max int) (result string, shown int, total int) {
	if s == "" {
		return s, 0, 0
	}
	lines := strings.Split(s, "\n")
	// Don't count a trailing empty string produced by a final newline
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	total = len(lines)
	if max > 0 && total > max {
		lines = lines[total-max:]
	}
	return strings.Join(lines, "\n"), len(lines), total
}

// registerTools registers list_tasks and one run tool per shown task
func (s *Server) registerTools(registry *task.Registry) {
	s.registerListTool()
	for _, name := range registry.Shown() {
		t, _ := registry.Lookup(name)
		s.registerRunTool(name, t)
	}
}

func (s *Server) registerListTool() {
	tool := mcp.Tool{
		Name:        "list_tasks",
		Description: "List the tasks defined in the alchemist configuration",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: make(map[string]interface{}),
		},
	}

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resultJSON, err := json.Marshal(s.listTasks())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(resultJSON)), nil
	}

	s.mcpServer.AddTool(tool, handler)
}

// registerRunTool registers a task as an MCP tool
func (s *Server) registerRunTool(taskName string, t task.Task) {
	tool := mcp.Tool{
		Name:        "run_" + taskName,
		Description: describe(taskName, t),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"max_output_lines": map[string]interface{}{
					"type":        "number",
					"description": "Maximum output lines to return (default 100, 0=unlimited)",
				},
			},
		},
	}

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		maxLines := mcpOutputMaxLines
		if v, ok := req.GetArguments()["max_output_lines"].(float64); ok {
			maxLines = int(v)
		}

		resp := s.runTask(ctx, taskName, maxLines)

		resultJSON, err := json.Marshal(resp)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		if !resp.Success {
			return mcp.NewToolResultError(string(resultJSON)), nil
		}
		return mcp.NewToolResultText(string(resultJSON)), nil
	}

	s.mcpServer.AddTool(tool, handler)
}

// runTask executes a task with its output captured. Concurrent calls for the
// same task wait for the execution already in flight and share its result.
// The shared execution is detached from every caller's cancellation; a
// cancelled caller stops waiting but the run continues for the others.
func (s *Server) runTask(ctx context.Context, taskName string, maxLines int) runResponse {
	ch := s.flights.DoChan(taskName, func() (interface{}, error) {
		return s.execute(context.WithoutCancel(ctx), taskName), nil
	})

	var resp runResponse
	select {
	case res := <-ch:
		resp = res.Val.(runResponse)
	case <-ctx.Done():
		return runResponse{
			TaskName: taskName,
			Error:    fmt.Sprintf("stopped waiting for task '%s': %v", taskName, ctx.Err()),
		}
	}

	output, shown, total := truncateToLines(resp.Output, maxLines)
	resp.Output = output
	resp.OutputLines = shown
	resp.OutputTotalLines = total
	resp.OutputTruncated = total > shown
	return resp
}

func (s *Server) execute(ctx context.Context, taskName string) runResponse {
	s.mu.Lock()
	registry := s.registry
	config := s.config
	s.mu.Unlock()

	var output lockedBuffer
	config.Stdout = &output
	config.Stderr = &output

	recorder := &terminal.Recorder{}
	executor := task.NewExecutor(registry, recorder, config)

	runID := logs.NewRunID()
	startTime := time.Now()
	err := executor.Run(logs.WithRunID(ctx, runID), taskName)

	resp := runResponse{
		TaskName: taskName,
		RunID:    runID,
		Success:  err == nil,
		Duration: time.Since(startTime).String(),
		Output:   output.String(),
		Messages: recorder.Messages(),
	}
	if err != nil {
		resp.Error = err.Error()
		var taskErr *task.Error
		if errors.As(err, &taskErr) {
			resp.ExitCode = taskErr.ExitCode
		}
	}
	return resp
}

func (s *Server) listTasks() []taskInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]taskInfo, 0, s.registry.Len())
	for _, name := range s.registry.Shown() {
		t, _ := s.registry.Lookup(name)
		tasks = append(tasks, taskInfo{Name: name, Kind: t.Kind()})
	}
	return tasks
}

// describe builds the tool description for a task
func describe(name string, t task.Task) string {
	switch t := t.(type) {
	case task.CommandTask:
		return fmt.Sprintf("Run task '%s': %s", name, t.CommandLine())
	case task.SerialGroup:
		return fmt.Sprintf("Run task '%s': runs %s in order", name, strings.Join(t.Tasks, ", "))
	case task.ParallelGroup:
		return fmt.Sprintf("Run task '%s': runs %s in parallel", name, strings.Join(t.Tasks, ", "))
	case task.ShellTask:
		return fmt.Sprintf("Run task '%s': shell script", name)
	}
	return fmt.Sprintf("Run task '%s'", name)
}
