//go:build !linux

package shutdown

import (
	"log/slog"
	"runtime"
)

// NewMonitor returns a monitor without OS shutdown coordination. Signal
// handling and normal exit still reach the guard's flush.
func NewMonitor(_ *slog.Logger) Monitor {
	return noopMonitor{why: "shutdown coordination not available on " + runtime.GOOS}
}
