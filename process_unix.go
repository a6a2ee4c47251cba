//go:build !windows

package chordgen

import (
	"os/exec"
	"syscall"
)

// setProcessGroup starts the command in its own process group so a
// cancellation can reach its children too.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcessGroup sends SIGKILL to the whole process group (negative
// PID), taking down any helpers the tool spawned.
func killProcessGroup(pid int) {
	// Best-effort; the exec layer still reaps the direct child.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
