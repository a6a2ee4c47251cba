//go:build windows

package chordgen

import (
	"os/exec"
	"strconv"
)

// setProcessGroup is a no-op; taskkill terminates the tree on its own.
func setProcessGroup(cmd *exec.Cmd) {}

// killProcessGroup terminates a process and all its children using
// taskkill. /F = force kill, /T = terminate child processes.
func killProcessGroup(pid int) {
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
