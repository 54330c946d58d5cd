//go:build !linux

package desktop

import (
	"errors"
	"runtime"
)

// Stubs for platforms without a desktop reader. Everything reports
// unavailable so callers can degrade gracefully.

type stubWindowSource struct{}

// NewWindowSource returns the window source for this platform.
func NewWindowSource() WindowSource {
	return stubWindowSource{}
}

func (stubWindowSource) ActiveWindow() (Window, bool) {
	return Window{}, false
}

func (stubWindowSource) Available() (bool, string) {
	return false, "window tracking not available on " + runtime.GOOS
}

type stubProcessScanner struct{}

// NewProcessScanner returns the process scanner for this platform.
func NewProcessScanner() ProcessScanner {
	return stubProcessScanner{}
}

func (stubProcessScanner) Processes() ([]Process, error) {
	return nil, errors.New("process scanning not available on " + runtime.GOOS)
}

type stubProcessSampler struct{}

// NewProcessSampler returns the per-process sampler for this platform.
func NewProcessSampler() ProcessSampler {
	return stubProcessSampler{}
}

func (stubProcessSampler) Sample(int) (ProcessUsage, bool) {
	return ProcessUsage{}, false
}

type stubHostSource struct{}

// NewHostSource returns the host statistics source for this platform.
func NewHostSource() HostSource {
	return stubHostSource{}
}

func (stubHostSource) Stats() (HostStats, error) {
	return HostStats{}, errors.New("host statistics not available on " + runtime.GOOS)
}

var (
	_ WindowSource   = stubWindowSource{}
	_ ProcessScanner = stubProcessScanner{}
	_ ProcessSampler = stubProcessSampler{}
	_ HostSource     = stubHostSource{}
)
