// Package desktop reads foreground-window, process-table, and host resource
// information from the operating system. Window identification requires X11
// tools on Linux; on platforms without support the sources degrade to
// unavailable rather than failing hard.
package desktop

import "time"

// Window identifies the currently focused application window.
type Window struct {
	App   string
	Title string
	PID   int
}

// WindowSource reports the focused window.
type WindowSource interface {
	// ActiveWindow returns the focused window. ok is false when no window
	// can be determined: locked screen, missing tooling, or a process that
	// vanished mid-read.
	ActiveWindow() (Window, bool)

	// Available reports whether window tracking can work on this system,
	// with a human-readable explanation.
	Available() (bool, string)
}

// Process is one running process with its resource usage at scan time.
type Process struct {
	PID        int
	Name       string
	MemoryMB   float64
	CPUPercent float64
	Status     string
	NumThreads int
}

// ProcessScanner lists running processes. Implementations may keep state
// between calls to derive CPU usage from counter deltas.
type ProcessScanner interface {
	Processes() ([]Process, error)
}

// ProcessUsage is one resource reading for a single process.
type ProcessUsage struct {
	MemoryMB   float64
	CPUPercent float64
}

// ProcessSampler reads resource usage for one process at a time. Like the
// scanner, CPU usage is a delta against the previous sample of the same
// process, so the first reading reports zero.
type ProcessSampler interface {
	// Sample reads current usage for pid. ok is false when the process is
	// gone or unreadable.
	Sample(pid int) (ProcessUsage, bool)
}

// HostStats is a point-in-time view of machine-wide resources.
type HostStats struct {
	MemTotalMB     float64
	MemUsedMB      float64
	MemAvailableMB float64
	MemUsedPercent float64

	DiskTotalGB     float64
	DiskUsedGB      float64
	DiskFreeGB      float64
	DiskUsedPercent float64

	CPUs   int
	Load1  float64
	Load5  float64
	Load15 float64

	Uptime time.Duration
}

// HostSource reports machine-wide resource statistics.
type HostSource interface {
	Stats() (HostStats, error)
}
