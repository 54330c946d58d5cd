//go:build linux

package desktop

import (
	"errors"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

type linuxHostSource struct{}

// NewHostSource returns the host statistics source for this platform.
func NewHostSource() HostSource {
	return linuxHostSource{}
}

// Stats reads memory from /proc/meminfo, disk usage of the root filesystem,
// and load/uptime.
func (linuxHostSource) Stats() (HostStats, error) {
	data, err := os.ReadFile("/proc/meminfo")
	if err != nil {
		return HostStats{}, err
	}
	totalKB, availKB, ok := parseMeminfo(string(data))
	if !ok {
		return HostStats{}, errors.New("malformed /proc/meminfo")
	}

	var st HostStats
	st.MemTotalMB = float64(totalKB) / 1024
	st.MemAvailableMB = float64(availKB) / 1024
	st.MemUsedMB = st.MemTotalMB - st.MemAvailableMB
	if totalKB > 0 {
		st.MemUsedPercent = st.MemUsedMB / st.MemTotalMB * 100
	}

	var fs unix.Statfs_t
	if err := unix.Statfs("/", &fs); err != nil {
		return HostStats{}, err
	}
	bsize := uint64(fs.Bsize)
	const gb = 1 << 30
	st.DiskTotalGB = float64(fs.Blocks*bsize) / gb
	st.DiskFreeGB = float64(fs.Bavail*bsize) / gb
	st.DiskUsedGB = float64((fs.Blocks-fs.Bfree)*bsize) / gb
	// df convention: used / (used + available to unprivileged users).
	if denom := st.DiskUsedGB + st.DiskFreeGB; denom > 0 {
		st.DiskUsedPercent = st.DiskUsedGB / denom * 100
	}

	st.CPUs = runtime.NumCPU()
	if data, err := os.ReadFile("/proc/loadavg"); err == nil {
		st.Load1, st.Load5, st.Load15 = parseLoadavg(string(data))
	}
	if data, err := os.ReadFile("/proc/uptime"); err == nil {
		st.Uptime = parseUptime(string(data))
	}

	return st, nil
}

// parseMeminfo extracts MemTotal and MemAvailable in kB.
func parseMeminfo(data string) (totalKB, availKB uint64, ok bool) {
	var haveTotal, haveAvail bool
	for _, line := range strings.Split(data, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			if v, err := strconv.ParseUint(fields[1], 10, 64); err == nil {
				totalKB = v
				haveTotal = true
			}
		case "MemAvailable:":
			if v, err := strconv.ParseUint(fields[1], 10, 64); err == nil {
				availKB = v
				haveAvail = true
			}
		}
		if haveTotal && haveAvail {
			return totalKB, availKB, true
		}
	}
	return 0, 0, false
}

// parseLoadavg reads the three load averages from /proc/loadavg.
func parseLoadavg(data string) (l1, l5, l15 float64) {
	fields := strings.Fields(data)
	if len(fields) < 3 {
		return 0, 0, 0
	}
	l1, _ = strconv.ParseFloat(fields[0], 64)
	l5, _ = strconv.ParseFloat(fields[1], 64)
	l15, _ = strconv.ParseFloat(fields[2], 64)
	return l1, l5, l15
}

// parseUptime reads the uptime seconds from /proc/uptime.
func parseUptime(data string) time.Duration {
	fields := strings.Fields(data)
	if len(fields) < 1 {
		return 0
	}
	secs, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}
