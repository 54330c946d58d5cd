//go:build linux

package desktop

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// x11WindowSource reads the focused window via xdotool, falling back to
// xprop. Wayland compositors restrict window inspection, so only X11 (and
// XWayland) sessions are supported.
type x11WindowSource struct {
	display string // "x11", "wayland", or "unknown"
}

// NewWindowSource returns the window source for this platform.
func NewWindowSource() WindowSource {
	return &x11WindowSource{display: detectDisplay()}
}

// detectDisplay determines the display server type.
func detectDisplay() string {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		// XWayland still exposes an X display.
		if os.Getenv("DISPLAY") != "" {
			return "x11"
		}
		return "wayland"
	}
	if os.Getenv("DISPLAY") != "" {
		return "x11"
	}
	return "unknown"
}

// Available checks whether window tracking can work in this session.
func (s *x11WindowSource) Available() (bool, string) {
	switch s.display {
	case "x11":
		if _, err := exec.LookPath("xdotool"); err == nil {
			return true, "X11 window tracking available (xdotool)"
		}
		if _, err := exec.LookPath("xprop"); err == nil {
			return true, "X11 window tracking available (xprop)"
		}
		return false, "X11 detected but xdotool/xprop not found. Install: sudo apt install xdotool"
	case "wayland":
		return false, "Wayland detected. Compositors restrict window inspection, tracking requires X11."
	default:
		return false, "no display server detected, window tracking requires X11"
	}
}

// ActiveWindow returns the focused window.
func (s *x11WindowSource) ActiveWindow() (Window, bool) {
	if s.display != "x11" {
		return Window{}, false
	}
	if w, ok := s.viaXdotool(); ok {
		return w, true
	}
	return s.viaXprop()
}

// viaXdotool queries the active window with xdotool.
func (s *x11WindowSource) viaXdotool() (Window, bool) {
	out, err := exec.Command("xdotool", "getactivewindow").Output()
	if err != nil {
		return Window{}, false
	}
	windowID := strings.TrimSpace(string(out))

	var w Window
	if out, err := exec.Command("xdotool", "getwindowname", windowID).Output(); err == nil {
		w.Title = strings.TrimSpace(string(out))
	}
	if out, err := exec.Command("xdotool", "getwindowpid", windowID).Output(); err == nil {
		if pid, err := strconv.Atoi(strings.TrimSpace(string(out))); err == nil {
			w.PID = pid
			w.App = procName(pid)
		}
	}

	if w.App == "" {
		return Window{}, false
	}
	return w, true
}

// viaXprop queries the active window with xprop.
func (s *x11WindowSource) viaXprop() (Window, bool) {
	out, err := exec.Command("xprop", "-root", "_NET_ACTIVE_WINDOW").Output()
	if err != nil {
		return Window{}, false
	}
	windowID, ok := parseActiveWindowID(string(out))
	if !ok {
		return Window{}, false
	}

	out, err = exec.Command("xprop", "-id", windowID, "WM_NAME", "WM_CLASS", "_NET_WM_PID").Output()
	if err != nil {
		return Window{}, false
	}
	w := parseWindowProps(string(out))

	// The process name is a better app identifier than the WM class, which
	// is often capitalized or branded.
	if w.PID > 0 {
		if name := procName(w.PID); name != "" {
			w.App = name
		}
	}

	if w.App == "" {
		return Window{}, false
	}
	return w, true
}

// parseActiveWindowID extracts the window ID from
// "_NET_ACTIVE_WINDOW(WINDOW): window id # 0x3a00007".
func parseActiveWindowID(out string) (string, bool) {
	fields := strings.Fields(out)
	if len(fields) < 5 {
		return "", false
	}
	id := fields[len(fields)-1]
	if !strings.HasPrefix(id, "0x") || id == "0x0" {
		return "", false
	}
	return id, true
}

// parseWindowProps extracts title, class, and PID from xprop output for a
// single window.
func parseWindowProps(out string) Window {
	var w Window
	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.HasPrefix(line, "WM_NAME"):
			// WM_NAME(STRING) = "Document - App"
			if idx := strings.Index(line, "= \""); idx != -1 {
				if end := strings.LastIndex(line, "\""); end > idx+3 {
					w.Title = line[idx+3 : end]
				}
			}
		case strings.HasPrefix(line, "WM_CLASS"):
			// WM_CLASS(STRING) = "instance", "class"
			if idx := strings.Index(line, ", \""); idx != -1 {
				if end := strings.LastIndex(line, "\""); end > idx+3 {
					w.App = line[idx+3 : end]
				}
			}
		case strings.HasPrefix(line, "_NET_WM_PID"):
			// _NET_WM_PID(CARDINAL) = 12345
			if idx := strings.Index(line, "= "); idx != -1 {
				if pid, err := strconv.Atoi(strings.TrimSpace(line[idx+2:])); err == nil {
					w.PID = pid
				}
			}
		}
	}
	return w
}

// procName returns the short process name for a PID, or "" if the process
// is gone.
func procName(pid int) string {
	if data, err := os.ReadFile("/proc/" + strconv.Itoa(pid) + "/comm"); err == nil {
		return strings.TrimSpace(string(data))
	}
	if target, err := os.Readlink("/proc/" + strconv.Itoa(pid) + "/exe"); err == nil {
		return filepath.Base(target)
	}
	return ""
}
