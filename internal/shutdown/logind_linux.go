//go:build linux

package shutdown

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"golang.org/x/sys/unix"
)

const (
	login1Dest    = "org.freedesktop.login1"
	login1Path    = dbus.ObjectPath("/org/freedesktop/login1")
	login1Manager = "org.freedesktop.login1.Manager"
)

// logindMonitor talks to systemd-logind: a delay-mode inhibitor lock holds
// shutdown open until released, and the PrepareForShutdown signal announces
// that a shutdown has begun.
type logindMonitor struct {
	conn *dbus.Conn
	log  *slog.Logger

	mu   sync.Mutex
	fd   int
	held bool

	notify  chan struct{}
	signals chan *dbus.Signal
	subbed  bool
}

// NewMonitor connects to the system bus. Without one (containers, bare
// servers) it degrades to a monitor that neither delays nor notifies.
func NewMonitor(logger *slog.Logger) Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "shutdown")

	conn, err := dbus.SystemBus()
	if err != nil {
		log.Debug("system bus unavailable", "error", err)
		return noopMonitor{why: fmt.Sprintf("no D-Bus system bus: %v", err)}
	}
	return &logindMonitor{
		conn:   conn,
		log:    log,
		fd:     -1,
		notify: make(chan struct{}, 1),
	}
}

// RequestDelay takes a delay-mode inhibitor lock. logind then waits for us
// (up to its configured maximum) after PrepareForShutdown fires.
func (m *logindMonitor) RequestDelay(reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held {
		return nil
	}

	var fd dbus.UnixFD
	obj := m.conn.Object(login1Dest, login1Path)
	call := obj.Call(login1Manager+".Inhibit", 0, "shutdown", "deskwatch", reason, "delay")
	if call.Err != nil {
		return fmt.Errorf("logind inhibit: %w", call.Err)
	}
	if err := call.Store(&fd); err != nil {
		return fmt.Errorf("logind inhibit: %w", err)
	}

	m.fd = int(fd)
	m.held = true
	m.log.Debug("shutdown delay lock taken", "fd", m.fd)
	return nil
}

// Release closes the inhibitor fd, letting any pending shutdown continue.
func (m *logindMonitor) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.held {
		return
	}
	_ = unix.Close(m.fd)
	m.fd = -1
	m.held = false
	m.log.Debug("shutdown delay lock released")
}

// Notifications subscribes to PrepareForShutdown on first use.
func (m *logindMonitor) Notifications() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.subbed {
		m.subbed = true
		if err := m.subscribe(); err != nil {
			m.log.Debug("shutdown signal subscription failed", "error", err)
		}
	}
	return m.notify
}

func (m *logindMonitor) Available() (bool, string) {
	obj := m.conn.Object(login1Dest, login1Path)
	if call := obj.Call("org.freedesktop.DBus.Peer.Ping", 0); call.Err != nil {
		return false, fmt.Sprintf("logind not reachable: %v", call.Err)
	}
	return true, "logind shutdown coordination available"
}

func (m *logindMonitor) subscribe() error {
	err := m.conn.AddMatchSignal(
		dbus.WithMatchInterface(login1Manager),
		dbus.WithMatchMember("PrepareForShutdown"),
	)
	if err != nil {
		return err
	}

	m.signals = make(chan *dbus.Signal, 8)
	m.conn.Signal(m.signals)

	go func() {
		for sig := range m.signals {
			if sig.Name != login1Manager+".PrepareForShutdown" {
				continue
			}
			// Body is a single bool: true going down, false coming up.
			if len(sig.Body) == 1 {
				if down, ok := sig.Body[0].(bool); ok && !down {
					continue
				}
			}
			select {
			case m.notify <- struct{}{}:
			default:
			}
		}
	}()
	return nil
}
