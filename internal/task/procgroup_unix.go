//go:build unix

package task

import (
	"errors"
	"fmt"
	"os/exec"
	"syscall"
)

// isolate starts cmd as the leader of a new process group and makes context
// cancellation kill the whole group, so children of a shell script cannot
// outlive it or hold its output pipes open.
func isolate(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return killProcessGroup(cmd.Process.Pid, syscall.SIGKILL)
	}
}

// killProcessGroup signals every process in the group led by pid
func killProcessGroup(pid int, sig syscall.Signal) error {
	err := syscall.Kill(-pid, sig)
	if err != nil {
		// ESRCH means the group is already gone
		if errors.Is(err, syscall.ESRCH) {
			return nil
		}
		return fmt.Errorf("failed to signal process group %d: %w", pid, err)
	}
	return nil
}
