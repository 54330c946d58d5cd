//go:build linux

package desktop

import (
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// procScanner walks /proc and keeps per-PID jiffy counters from the previous
// scan so that CPU usage can be computed as a delta. The first scan reports
// zero CPU for every process.
type procScanner struct {
	mu        sync.Mutex
	prevTotal uint64
	prev      map[int]uint64
	cpus      float64
}

// NewProcessScanner returns the process scanner for this platform.
func NewProcessScanner() ProcessScanner {
	return &procScanner{
		prev: make(map[int]uint64),
		cpus: float64(runtime.NumCPU()),
	}
}

// Processes lists running userspace processes. Kernel threads (no resident
// memory) are skipped, as are processes that vanish mid-read.
func (s *procScanner) Processes() ([]Process, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, err
	}
	totalData, err := os.ReadFile("/proc/stat")
	if err != nil {
		return nil, err
	}
	total, ok := parseTotalJiffies(string(totalData))
	if !ok {
		total = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	procs := make([]Process, 0, len(entries))
	seen := make(map[int]uint64, len(entries))

	for _, e := range entries {
		pid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}

		statData, err := os.ReadFile("/proc/" + e.Name() + "/stat")
		if err != nil {
			// Vanished between ReadDir and here.
			continue
		}
		st, ok := parseProcStat(string(statData))
		if !ok {
			continue
		}

		statusData, err := os.ReadFile("/proc/" + e.Name() + "/status")
		if err != nil {
			continue
		}
		rssKB, ok := parseVmRSS(string(statusData))
		if !ok {
			// No resident set: kernel thread.
			continue
		}

		p := Process{
			PID:        pid,
			Name:       st.Comm,
			MemoryMB:   float64(rssKB) / 1024,
			Status:     statusName(st.State),
			NumThreads: st.Threads,
		}

		seen[pid] = st.Jiffies
		if prev, had := s.prev[pid]; had && total > s.prevTotal && st.Jiffies >= prev {
			p.CPUPercent = float64(st.Jiffies-prev) / float64(total-s.prevTotal) * 100 * s.cpus
		}

		procs = append(procs, p)
	}

	s.prev = seen
	s.prevTotal = total

	return procs, nil
}

// procStat is the subset of /proc/<pid>/stat this package reads.
type procStat struct {
	Comm    string
	State   byte
	Jiffies uint64 // utime + stime
	Threads int
}

// parseProcStat parses a /proc/<pid>/stat line. The comm field is enclosed
// in parentheses and may itself contain spaces and parentheses, so fields
// are counted from the last ')'.
func parseProcStat(data string) (procStat, bool) {
	open := strings.IndexByte(data, '(')
	end := strings.LastIndexByte(data, ')')
	if open == -1 || end == -1 || end < open {
		return procStat{}, false
	}

	var st procStat
	st.Comm = data[open+1 : end]

	// Fields after the comm, starting at field 3 (state).
	fields := strings.Fields(data[end+1:])
	if len(fields) < 18 {
		return procStat{}, false
	}
	st.State = fields[0][0]

	utime, err := strconv.ParseUint(fields[11], 10, 64)
	if err != nil {
		return procStat{}, false
	}
	stime, err := strconv.ParseUint(fields[12], 10, 64)
	if err != nil {
		return procStat{}, false
	}
	st.Jiffies = utime + stime

	if threads, err := strconv.Atoi(fields[17]); err == nil {
		st.Threads = threads
	}

	return st, true
}

// parseVmRSS extracts the resident set size in kB from /proc/<pid>/status.
// ok is false when the process has no VmRSS line (kernel threads).
func parseVmRSS(data string) (uint64, bool) {
	for _, line := range strings.Split(data, "\n") {
		if !strings.HasPrefix(line, "VmRSS:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0, false
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0, false
		}
		return kb, true
	}
	return 0, false
}

// parseTotalJiffies sums all counters of the aggregate "cpu" line of
// /proc/stat.
func parseTotalJiffies(data string) (uint64, bool) {
	line, _, _ := strings.Cut(data, "\n")
	fields := strings.Fields(line)
	if len(fields) < 2 || fields[0] != "cpu" {
		return 0, false
	}
	var total uint64
	for _, f := range fields[1:] {
		v, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return 0, false
		}
		total += v
	}
	return total, true
}

// statusName maps a /proc state code to a human-readable status.
func statusName(state byte) string {
	switch state {
	case 'R':
		return "running"
	case 'S':
		return "sleeping"
	case 'D':
		return "disk-sleep"
	case 'Z':
		return "zombie"
	case 'T', 't':
		return "stopped"
	case 'I':
		return "idle"
	default:
		return "unknown"
	}
}
