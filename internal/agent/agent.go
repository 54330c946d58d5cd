// Package agent composes the collectors, the aggregation heartbeat and the
// shutdown guard into one supervised unit. Collectors share nothing but the
// store; the agent only starts them, stops them, and guarantees the final
// flush happens exactly once.
package agent

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/deskwatch/internal/browser"
	"github.com/blackwell-systems/deskwatch/internal/desktop"
	"github.com/blackwell-systems/deskwatch/internal/shutdown"
	"github.com/blackwell-systems/deskwatch/internal/store"
	"github.com/blackwell-systems/deskwatch/internal/sysmon"
	"github.com/blackwell-systems/deskwatch/internal/tracker"
)

const defaultAggregateEvery = time.Minute

// Options carries the agent's dependencies. Tracker, Sysmon and Monitor are
// required; Syncer is optional.
type Options struct {
	DB      *store.DB
	Tracker *tracker.Tracker
	Sysmon  *sysmon.Monitor
	Syncer  *browser.Syncer
	Monitor shutdown.Monitor

	// Windows, when set, is capability-probed once at startup.
	Windows desktop.WindowSource

	// AggregateEvery is the cadence of the daily-stats recompute.
	// Defaults to one minute.
	AggregateEvery time.Duration

	Logger *slog.Logger
}

// Agent runs the collector set for one tracking session.
type Agent struct {
	db       *store.DB
	tracker  *tracker.Tracker
	sysmon   *sysmon.Monitor
	syncer   *browser.Syncer
	monitor  shutdown.Monitor
	windows  desktop.WindowSource
	guard    *shutdown.Guard
	interval time.Duration
	log      *slog.Logger
	clock    func() time.Time
	runID    string

	mu      sync.Mutex
	started time.Time
}

// New wires an agent. The shutdown guard's flush action is fixed here:
// flush both collectors, then recompute today's aggregates.
func New(opts Options) *Agent {
	if opts.AggregateEvery <= 0 {
		opts.AggregateEvery = defaultAggregateEvery
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	a := &Agent{
		db:       opts.DB,
		tracker:  opts.Tracker,
		sysmon:   opts.Sysmon,
		syncer:   opts.Syncer,
		monitor:  opts.Monitor,
		windows:  opts.Windows,
		interval: opts.AggregateEvery,
		log:      opts.Logger.With("component", "agent"),
		clock:    time.Now,
		runID:    uuid.NewString(),
	}
	a.guard = shutdown.NewGuard(a.flushAll, opts.Monitor, "deskwatch is saving your activity data", opts.Logger)
	return a
}

// RunID identifies this agent instance in logs and the PID file.
func (a *Agent) RunID() string {
	return a.runID
}

// Run starts every collector and blocks until ctx is cancelled or the OS
// begins shutting the session down. The final flush has run by the time
// Run returns.
func (a *Agent) Run(ctx context.Context) error {
	a.mu.Lock()
	a.started = a.clock()
	a.mu.Unlock()

	a.log.Info("agent starting", "run_id", a.runID)
	a.probe()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// An OS-initiated flush ends the session; wind everything down.
	go func() {
		select {
		case <-a.guard.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.tracker.Run(gctx) })
	g.Go(func() error { return a.sysmon.Run(gctx) })
	if a.syncer != nil {
		g.Go(func() error { return a.syncer.Run(gctx) })
	}
	g.Go(func() error { return a.heartbeat(gctx) })
	g.Go(func() error { return a.guard.Watch(gctx) })

	err := g.Wait()

	// Whatever path ended the session, the guard has the last word. A
	// second call is a no-op if the OS path already flushed.
	a.guard.Flush()

	a.log.Info("agent stopped", "run_id", a.runID,
		"logged", a.tracker.Logged(),
		"switches", a.tracker.Switches(),
		"dropped", a.tracker.Dropped(),
		"scans", a.sysmon.ScanCount())

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Stats is a read-only snapshot of the running session for status lines.
type Stats struct {
	RunID           string
	Started         time.Time
	SessionDuration time.Duration
	Switches        int
	Logged          int
	Dropped         int
	ScanCount       int
}

// Stats returns the current session counters.
func (a *Agent) Stats() Stats {
	a.mu.Lock()
	started := a.started
	a.mu.Unlock()
	return Stats{
		RunID:           a.runID,
		Started:         started,
		SessionDuration: a.tracker.SessionDuration(),
		Switches:        a.tracker.Switches(),
		Logged:          a.tracker.Logged(),
		Dropped:         a.tracker.Dropped(),
		ScanCount:       a.sysmon.ScanCount(),
	}
}

// Current exposes the tracker's live segment for status lines.
func (a *Agent) Current() (tracker.Live, bool) {
	return a.tracker.Current()
}

// heartbeat recomputes today's aggregates on a dedicated timer, independent
// of the collector polls.
func (a *Agent) heartbeat(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			a.aggregate()
		}
	}
}

// aggregate recomputes today's daily stat and per-app usage. Both upserts
// are idempotent; an extra beat changes nothing.
func (a *Agent) aggregate() {
	today := a.clock()
	if err := a.db.UpsertDailyStats(today); err != nil {
		a.log.Warn("daily stats upsert failed", "error", err)
	}
	if err := a.db.UpsertAppUsage(today); err != nil {
		a.log.Warn("app usage upsert failed", "error", err)
	}
}

// flushAll is the guard's one-shot action: park in-flight collector state
// and bring the aggregates up to date.
func (a *Agent) flushAll() {
	a.tracker.Flush()
	a.sysmon.Flush()
	a.aggregate()
	a.log.Info("final flush complete", "run_id", a.runID)
}

// probe logs capability problems once at startup.
func (a *Agent) probe() {
	if a.windows != nil {
		if ok, detail := a.windows.Available(); !ok {
			a.log.Warn("window tracking unavailable", "detail", detail)
		} else {
			a.log.Debug("window tracking ready", "detail", detail)
		}
	}
	if a.monitor != nil {
		if ok, detail := a.monitor.Available(); !ok {
			a.log.Debug("shutdown coordination unavailable", "detail", detail)
		}
	}
}
