//go:build linux

package desktop

import (
	"os"
	"runtime"
	"strconv"
	"sync"
	"time"
)

// pidSampler reads one process's usage from /proc, keeping previous jiffy
// counters per PID for CPU deltas.
type pidSampler struct {
	mu   sync.Mutex
	prev map[int]pidSample
	cpus float64
}

type pidSample struct {
	jiffies uint64
	total   uint64
	at      time.Time
}

// NewProcessSampler returns the per-process sampler for this platform.
func NewProcessSampler() ProcessSampler {
	return &pidSampler{
		prev: make(map[int]pidSample),
		cpus: float64(runtime.NumCPU()),
	}
}

// Sample reads current usage for pid.
func (s *pidSampler) Sample(pid int) (ProcessUsage, bool) {
	dir := "/proc/" + strconv.Itoa(pid)

	statData, err := os.ReadFile(dir + "/stat")
	if err != nil {
		return ProcessUsage{}, false
	}
	st, ok := parseProcStat(string(statData))
	if !ok {
		return ProcessUsage{}, false
	}

	statusData, err := os.ReadFile(dir + "/status")
	if err != nil {
		return ProcessUsage{}, false
	}
	rssKB, ok := parseVmRSS(string(statusData))
	if !ok {
		return ProcessUsage{}, false
	}

	var total uint64
	if data, err := os.ReadFile("/proc/stat"); err == nil {
		total, _ = parseTotalJiffies(string(data))
	}

	u := ProcessUsage{MemoryMB: float64(rssKB) / 1024}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, had := s.prev[pid]; had && total > prev.total && st.Jiffies >= prev.jiffies {
		u.CPUPercent = float64(st.Jiffies-prev.jiffies) / float64(total-prev.total) * 100 * s.cpus
	}
	s.prev[pid] = pidSample{jiffies: st.Jiffies, total: total, at: time.Now()}

	// PIDs recycle over long runs; drop counters for processes not sampled
	// recently.
	if len(s.prev) > 128 {
		cutoff := time.Now().Add(-10 * time.Minute)
		for p, ps := range s.prev {
			if ps.at.Before(cutoff) {
				delete(s.prev, p)
			}
		}
	}

	return u, true
}
