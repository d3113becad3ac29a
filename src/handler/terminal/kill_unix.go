//go:build !windows

package terminal

import "syscall"

// killProcessGroup kills the shell's whole session. pty.Start makes the shell
// a session leader, so its pgid equals its pid.
func killProcessGroup(pid int) {
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
