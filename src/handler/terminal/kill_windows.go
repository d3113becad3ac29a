//go:build windows

package terminal

import "os"

func killProcessGroup(pid int) {
	if proc, err := os.FindProcess(pid); err == nil {
		_ = proc.Kill()
	}
}
