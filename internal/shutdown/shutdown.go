// Package shutdown guarantees at most one durable flush before the process
// ends, no matter which termination path fires first. OS session
// notifications, interrupt signals, and normal exit all converge on the
// same guarded action.
package shutdown

import (
	"context"
	"log/slog"
	"sync"
)

// Delayer can hold off an OS shutdown briefly while data is written.
// Platforms without the concept use a no-op implementation.
type Delayer interface {
	// RequestDelay asks the OS to postpone session end, citing reason.
	RequestDelay(reason string) error

	// Release lets a pending shutdown proceed. Safe to call without a
	// prior RequestDelay and safe to call twice.
	Release()
}

// Monitor combines the delay capability with session-end notifications.
type Monitor interface {
	Delayer

	// Notifications delivers one value when the OS begins ending the
	// session. A nil channel means the platform cannot report this.
	Notifications() <-chan struct{}

	// Available reports whether session notifications work here and why
	// not otherwise.
	Available() (bool, string)
}

// Guard runs an injected flush action exactly once. The guard knows
// nothing about what is being flushed.
type Guard struct {
	flush   func()
	monitor Monitor
	reason  string
	log     *slog.Logger

	once sync.Once
	done chan struct{}
}

// NewGuard wraps flush so it can only run once. reason is shown to the OS
// while a shutdown is being delayed.
func NewGuard(flush func(), monitor Monitor, reason string, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		flush:   flush,
		monitor: monitor,
		reason:  reason,
		log:     logger.With("component", "shutdown"),
		done:    make(chan struct{}),
	}
}

// Flush runs the guarded action. Every call after the first returns
// immediately.
func (g *Guard) Flush() {
	g.once.Do(func() {
		defer close(g.done)
		if g.flush != nil {
			g.flush()
		}
	})
}

// Done is closed once the flush has run.
func (g *Guard) Done() <-chan struct{} {
	return g.done
}

// Watch takes the shutdown delay upfront and waits for either an OS
// session-end notification or ctx cancellation. On the OS path it flushes
// synchronously while the delay is still held, then releases it. On the
// ctx path the caller owns the flush; Watch only releases the delay.
func (g *Guard) Watch(ctx context.Context) error {
	if err := g.monitor.RequestDelay(g.reason); err != nil {
		// Non-fatal: we lose the delay window, not the flush itself.
		g.log.Debug("shutdown delay unavailable", "error", err)
	}
	defer g.monitor.Release()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-g.monitor.Notifications():
		g.log.Info("session ending, flushing")
		g.Flush()
		return nil
	}
}

// noopMonitor is used where the OS offers no shutdown coordination.
type noopMonitor struct{ why string }

func (noopMonitor) RequestDelay(string) error      { return nil }
func (noopMonitor) Release()                       {}
func (noopMonitor) Notifications() <-chan struct{} { return nil }
func (m noopMonitor) Available() (bool, string)    { return false, m.why }
