// Package sysmon samples the whole process table on a coarse interval and
// records the heaviest processes. One scan is one batch: every row shares a
// timestamp and the batch is written atomically, so queries never see a
// half-finished scan.
package sysmon

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/blackwell-systems/deskwatch/internal/desktop"
	"github.com/blackwell-systems/deskwatch/internal/store"
)

const (
	defaultInterval = 30 * time.Second
	defaultTopN     = 15
)

// Config holds the monitor's dependencies and tuning knobs.
type Config struct {
	// Scanner enumerates the process table. Required.
	Scanner desktop.ProcessScanner

	// Host reports machine-wide memory, disk and load figures. Optional;
	// when nil the dashboard simply has no host section.
	Host desktop.HostSource

	// Interval is the time between scans. Defaults to 30s.
	Interval time.Duration

	// TopN bounds how many processes per scan are persisted, picked by
	// memory use. Defaults to 15.
	TopN int

	Logger *slog.Logger
}

// Monitor is the system-wide snapshot collector. It keeps no per-process
// state between ticks, only the most recent scan for cheap reads.
type Monitor struct {
	db       *store.DB
	scanner  desktop.ProcessScanner
	host     desktop.HostSource
	interval time.Duration
	topN     int
	log      *slog.Logger
	clock    func() time.Time

	mu        sync.Mutex
	latest    []store.ProcessSnapshot
	hostStats desktop.HostStats
	hostOK    bool
	scans     int
}

// New creates a monitor writing to db.
func New(db *store.DB, cfg Config) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.TopN <= 0 {
		cfg.TopN = defaultTopN
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Monitor{
		db:       db,
		scanner:  cfg.Scanner,
		host:     cfg.Host,
		interval: cfg.Interval,
		topN:     cfg.TopN,
		log:      cfg.Logger.With("component", "sysmon"),
		clock:    time.Now,
	}
}

// Run scans immediately, then on every interval tick until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	m.Scan()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.Scan()
		}
	}
}

// Scan performs one collection cycle: enumerate processes, keep the top N
// by memory, write them as one batch. A failed enumeration or write skips
// this cycle; the next tick gets a fresh chance.
func (m *Monitor) Scan() {
	m.refreshHost()

	procs, err := m.scanner.Processes()
	if err != nil {
		m.log.Warn("process scan failed", "error", err)
		return
	}
	if len(procs) == 0 {
		return
	}

	sort.Slice(procs, func(i, j int) bool {
		return procs[i].MemoryMB > procs[j].MemoryMB
	})
	if len(procs) > m.topN {
		procs = procs[:m.topN]
	}

	now := m.clock()
	batch := make([]store.ProcessSnapshot, 0, len(procs))
	for _, p := range procs {
		batch = append(batch, store.ProcessSnapshot{
			Timestamp:  now,
			AppName:    p.Name,
			PID:        p.PID,
			MemoryMB:   p.MemoryMB,
			CPUPercent: p.CPUPercent,
			Status:     p.Status,
			NumThreads: p.NumThreads,
		})
	}

	if err := m.db.InsertSnapshots(batch); err != nil {
		m.log.Warn("snapshot batch write failed", "error", err, "rows", len(batch))
		return
	}

	m.mu.Lock()
	m.latest = batch
	m.scans++
	m.mu.Unlock()
}

// Flush takes one final scan so the last interval is not lost on shutdown.
func (m *Monitor) Flush() {
	m.Scan()
}

// Latest returns a copy of the most recent persisted scan.
func (m *Monitor) Latest() []store.ProcessSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]store.ProcessSnapshot, len(m.latest))
	copy(out, m.latest)
	return out
}

// Host returns the most recently sampled machine-wide stats.
func (m *Monitor) Host() (desktop.HostStats, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hostStats, m.hostOK
}

// ScanCount reports how many batches have been persisted.
func (m *Monitor) ScanCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scans
}

func (m *Monitor) refreshHost() {
	if m.host == nil {
		return
	}
	stats, err := m.host.Stats()
	if err != nil {
		// Non-fatal: the previous reading stays visible.
		m.log.Debug("host stats read failed", "error", err)
		return
	}
	m.mu.Lock()
	m.hostStats = stats
	m.hostOK = true
	m.mu.Unlock()
}
