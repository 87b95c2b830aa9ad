//go:build windows

package task

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"syscall"
)

// isolate starts cmd in a new process group and makes context cancellation
// kill its whole process tree
func isolate(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
	cmd.Cancel = func() error {
		return killProcessTree(cmd.Process.Pid)
	}
}

// killProcessTree uses taskkill /F /T. Exit code 128 means the process is
// already gone.
func killProcessTree(pid int) error {
	err := exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 128 {
		return nil
	}
	return fmt.Errorf("failed to kill process tree (PID %d): %w", pid, err)
}
