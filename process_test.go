package chordgen

import "testing"

func TestKillProcessGroup_UnknownPID(t *testing.T) {
	// Must not panic on a PID that no longer exists.
	killProcessGroup(999999999)
}
