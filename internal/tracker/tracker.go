// Package tracker segments foreground-window time into discrete activity
// records. A two-state machine (idle, tracking) opens a segment on the first
// window read, extends it while the same window stays foreground, and
// finalizes it on every switch. Segments shorter than the configured minimum
// are discarded as noise.
package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/blackwell-systems/deskwatch/internal/browser"
	"github.com/blackwell-systems/deskwatch/internal/category"
	"github.com/blackwell-systems/deskwatch/internal/desktop"
	"github.com/blackwell-systems/deskwatch/internal/store"
)

// segment is the open, in-progress activity span. Resource samples are
// accumulated per tick and averaged into the stored row at finalize.
type segment struct {
	app      string
	title    string
	pid      int
	category category.Category
	start    time.Time

	memSum  float64
	cpuSum  float64
	lastMem float64
	lastCPU float64
	samples int
}

// Live is a point-in-time copy of the open segment for dashboards. Elapsed
// is computed at call time, not cached.
type Live struct {
	App        string
	Title      string
	Category   category.Category
	StartTime  time.Time
	Elapsed    time.Duration
	MemoryMB   float64
	CPUPercent float64
	PID        int
}

// Config configures a Tracker.
type Config struct {
	Windows      desktop.WindowSource
	Sampler      desktop.ProcessSampler
	Engine       *category.Engine
	PollInterval time.Duration
	MinDuration  time.Duration
	Logger       *slog.Logger
}

// Tracker polls the foreground window and writes finalized segments to the
// store. All mutable state is guarded by one mutex; readers take snapshot
// copies.
type Tracker struct {
	db      *store.DB
	windows desktop.WindowSource
	sampler desktop.ProcessSampler
	engine  *category.Engine
	poll    time.Duration
	minDur  time.Duration
	log     *slog.Logger

	clock func() time.Time

	mu       sync.Mutex
	current  *segment
	started  time.Time
	switches int
	logged   int
	dropped  int
}

// New creates a Tracker writing to db.
func New(db *store.DB, cfg Config) *Tracker {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.MinDuration <= 0 {
		cfg.MinDuration = 2 * time.Second
	}
	if cfg.Engine == nil {
		cfg.Engine = category.NewEngine(category.Rules{})
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Tracker{
		db:      db,
		windows: cfg.Windows,
		sampler: cfg.Sampler,
		engine:  cfg.Engine,
		poll:    cfg.PollInterval,
		minDur:  cfg.MinDuration,
		log:     cfg.Logger.With("component", "tracker"),
		clock:   time.Now,
	}
}

// Run polls until ctx is done, then flushes the open segment.
func (t *Tracker) Run(ctx context.Context) error {
	t.mu.Lock()
	t.started = t.clock()
	t.mu.Unlock()

	ticker := time.NewTicker(t.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.Flush()
			return ctx.Err()
		case <-ticker.C:
			t.Check()
		}
	}
}

// Check performs a single poll cycle: it reads the foreground window, then
// extends, switches, or opens the segment accordingly. A failed window read
// leaves the open segment untouched so the next cycle can recover.
func (t *Tracker) Check() {
	w, ok := t.windows.ActiveWindow()
	if !ok || w.App == "" || w.Title == "" {
		return
	}
	now := t.clock()

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		t.current = t.open(w, now)
		return
	}
	if t.current.app == w.App && t.current.title == w.Title {
		t.sample(t.current)
		return
	}

	// Foreground changed: finalize the old segment, open the new one at the
	// same instant so no time is lost between them.
	t.switches++
	t.finalize(t.current, now)
	t.current = t.open(w, now)
}

// Flush finalizes and writes the open segment. Safe to call at any time,
// including concurrently with Run; with no open segment it is a no-op.
func (t *Tracker) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return
	}
	t.finalize(t.current, t.clock())
	t.current = nil
}

// Current returns a live snapshot of the open segment. ok is false when the
// tracker is idle.
func (t *Tracker) Current() (Live, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return Live{}, false
	}
	seg := t.current
	return Live{
		App:        seg.app,
		Title:      seg.title,
		Category:   seg.category,
		StartTime:  seg.start,
		Elapsed:    t.clock().Sub(seg.start),
		MemoryMB:   seg.lastMem,
		CPUPercent: seg.lastCPU,
		PID:        seg.pid,
	}, true
}

// SessionDuration returns the wall-clock time since Run started, or zero if
// the tracker has not run.
func (t *Tracker) SessionDuration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started.IsZero() {
		return 0
	}
	return t.clock().Sub(t.started)
}

// Switches returns how many window changes have been observed.
func (t *Tracker) Switches() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.switches
}

// Logged returns how many segments have been written.
func (t *Tracker) Logged() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.logged
}

// Dropped returns how many segments were lost to failed writes.
func (t *Tracker) Dropped() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dropped
}

// open starts a segment for a newly focused window and takes its first
// resource sample. Browser title bars often carry a just-executed search
// query, which is recorded as a side effect.
func (t *Tracker) open(w desktop.Window, now time.Time) *segment {
	seg := &segment{
		app:      w.App,
		title:    w.Title,
		pid:      w.PID,
		category: t.engine.Categorize(w.App, w.Title),
		start:    now,
	}
	t.sample(seg)

	if s, ok := browser.FromTitle(w.App, w.Title, now); ok {
		err := t.db.InsertSearch(&store.SearchRecord{
			Timestamp: s.Timestamp,
			Browser:   s.Browser,
			Query:     s.Query,
			URL:       s.URL,
			Source:    s.Source,
		})
		if err != nil {
			t.log.Debug("storing title search failed", "error", err)
		}
	}

	return seg
}

// sample appends one resource reading to the segment.
func (t *Tracker) sample(seg *segment) {
	if t.sampler == nil || seg.pid <= 0 {
		return
	}
	u, ok := t.sampler.Sample(seg.pid)
	if !ok {
		return
	}
	seg.memSum += u.MemoryMB
	seg.cpuSum += u.CPUPercent
	seg.lastMem = u.MemoryMB
	seg.lastCPU = u.CPUPercent
	seg.samples++
}

// finalize writes a completed segment unless it is shorter than the minimum
// duration. A failed write is retried once, then the segment is dropped and
// counted.
func (t *Tracker) finalize(seg *segment, end time.Time) {
	duration := end.Sub(seg.start)
	if duration < t.minDur {
		return
	}

	row := &store.Segment{
		AppName:         seg.app,
		WindowTitle:     seg.title,
		StartTime:       seg.start,
		EndTime:         end,
		DurationSeconds: duration.Seconds(),
		Category:        string(seg.category),
		PID:             seg.pid,
	}
	if seg.samples > 0 {
		row.MemoryMB = seg.memSum / float64(seg.samples)
		row.CPUPercent = seg.cpuSum / float64(seg.samples)
	}

	err := t.db.InsertSegment(row)
	if err != nil {
		err = t.db.InsertSegment(row)
	}
	if err != nil {
		t.dropped++
		t.log.Warn("dropping segment after failed writes", "app", seg.app, "error", err)
		return
	}
	t.logged++
}
