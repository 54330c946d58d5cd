//go:build windows

package app

import (
	"fmt"
	"os"
)

// shutdownSignals are the OS signals that trigger graceful shutdown.
var shutdownSignals = []os.Signal{os.Interrupt}

// terminateProcess stops pid. Windows has no SIGTERM equivalent, so the
// process ends immediately; the tracker relies on its shutdown guard for
// the final flush instead.
func terminateProcess(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("finding process %d: %w", pid, err)
	}
	return proc.Kill()
}

// processExists checks whether a process with the given PID is running.
// On Windows FindProcess opens a real handle, so failure means no such
// process.
func processExists(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	proc.Release()
	return true
}
