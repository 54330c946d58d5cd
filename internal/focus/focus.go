// Package focus runs bounded attention sessions with live distraction
// detection. A session has a wall-clock target; every poll tick classifies
// the foreground window and books the elapsed time as focused or distracted.
// Only the Distraction category interrupts a session. Browsing or chat may
// be unproductive, but they are not what focus mode warns about.
package focus

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/blackwell-systems/deskwatch/internal/category"
	"github.com/blackwell-systems/deskwatch/internal/desktop"
	"github.com/blackwell-systems/deskwatch/internal/store"
)

const (
	defaultTarget = 25 * time.Minute
	defaultPoll   = time.Second
)

// Interruption is one slide into a distracting app during a session.
type Interruption struct {
	Time     time.Time
	App      string
	Title    string
	Category category.Category
	Duration time.Duration
}

// Event is emitted on the Events channel once per interruption, at the
// moment the distraction begins.
type Event struct {
	Time     time.Time
	App      string
	Title    string
	Category category.Category
}

// Status is a point-in-time copy of a running session, safe to render
// while the monitor keeps ticking.
type Status struct {
	Goal              string
	Target            time.Duration
	Start             time.Time
	Elapsed           time.Duration
	Remaining         time.Duration
	FocusedSeconds    float64
	DistractedSeconds float64
	Score             float64
	Interruptions     []Interruption
	Distracted        bool
	App               string
	Title             string
	Finished          bool
}

// Config holds the monitor's dependencies and session parameters.
type Config struct {
	// Windows reads the foreground window. Required.
	Windows desktop.WindowSource

	// Engine classifies windows. Defaults to the built-in rules.
	Engine *category.Engine

	// Target is the session length. Defaults to 25 minutes.
	Target time.Duration

	// Goal is an optional label stored with the session.
	Goal string

	// PollInterval is the classification cadence. Defaults to 1s.
	PollInterval time.Duration

	Logger *slog.Logger
}

// Monitor drives one focus session. It is single-use: create a new Monitor
// per session.
type Monitor struct {
	db      *store.DB
	windows desktop.WindowSource
	engine  *category.Engine
	target  time.Duration
	goal    string
	poll    time.Duration
	log     *slog.Logger
	clock   func() time.Time

	events chan Event
	done   chan struct{}

	mu            sync.Mutex
	start         time.Time
	lastTick      time.Time
	focused       float64
	distracted    float64
	interruptions []Interruption
	inDistraction bool
	distractionAt time.Time
	app           string
	title         string
	finished      bool

	finishOnce sync.Once
	result     store.FocusSession
}

// New creates a monitor for a single session writing its summary to db.
func New(db *store.DB, cfg Config) *Monitor {
	if cfg.Engine == nil {
		cfg.Engine = category.NewEngine(category.Rules{})
	}
	if cfg.Target <= 0 {
		cfg.Target = defaultTarget
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPoll
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Monitor{
		db:      db,
		windows: cfg.Windows,
		engine:  cfg.Engine,
		target:  cfg.Target,
		goal:    cfg.Goal,
		poll:    cfg.PollInterval,
		log:     cfg.Logger.With("component", "focus"),
		clock:   time.Now,
		events:  make(chan Event, 16),
		done:    make(chan struct{}),
	}
}

// Run executes the session until the target duration elapses, Stop is
// called, or ctx is cancelled. Completion is wall-clock based: a stalled
// poll loop still ends on schedule.
func (m *Monitor) Run(ctx context.Context) error {
	m.begin()

	ticker := time.NewTicker(m.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.finalize()
			return ctx.Err()
		case <-m.done:
			return nil
		case <-ticker.C:
			m.Check()
			if m.Remaining() == 0 {
				m.finalize()
				return nil
			}
		}
	}
}

// Check performs one poll cycle: classify the foreground window, detect
// distraction edges, and book the wall-clock time since the previous cycle
// to the current mode. A failed window read books nothing.
func (m *Monitor) Check() {
	now := m.clock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.finished {
		return
	}
	if m.lastTick.IsZero() {
		m.lastTick = now
	}
	dt := now.Sub(m.lastTick).Seconds()
	m.lastTick = now

	w, ok := m.windows.ActiveWindow()
	if !ok || w.App == "" {
		return
	}

	cat := m.engine.Categorize(w.App, w.Title)
	distracting := cat == category.Distraction
	m.app, m.title = w.App, w.Title

	if distracting {
		if !m.inDistraction {
			m.inDistraction = true
			m.distractionAt = now
			m.interruptions = append(m.interruptions, Interruption{
				Time:     now,
				App:      w.App,
				Title:    w.Title,
				Category: cat,
			})
			m.emit(Event{Time: now, App: w.App, Title: w.Title, Category: cat})
		}
		m.distracted += dt
	} else {
		if m.inDistraction {
			m.closeInterruption(now)
		}
		m.focused += dt
	}
}

// Stop ends the session early, finalizes it exactly once, and returns the
// persisted summary. Calling Stop again is a no-op returning the same
// summary.
func (m *Monitor) Stop() store.FocusSession {
	m.finalize()
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result
}

// Events delivers one event per distraction edge. The channel is buffered;
// slow consumers lose events rather than stalling the session.
func (m *Monitor) Events() <-chan Event {
	return m.events
}

// Done is closed when the session has been finalized.
func (m *Monitor) Done() <-chan struct{} {
	return m.done
}

// Remaining reports the wall-clock time left, clamped at zero.
func (m *Monitor) Remaining() time.Duration {
	m.mu.Lock()
	start := m.start
	m.mu.Unlock()
	if start.IsZero() {
		return m.target
	}
	left := m.target - m.clock().Sub(start)
	if left < 0 {
		return 0
	}
	return left
}

// Status returns a snapshot of the session for rendering.
func (m *Monitor) Status() Status {
	now := m.clock()

	m.mu.Lock()
	defer m.mu.Unlock()

	s := Status{
		Goal:              m.goal,
		Target:            m.target,
		Start:             m.start,
		FocusedSeconds:    m.focused,
		DistractedSeconds: m.distracted,
		Score:             score(m.focused, m.distracted),
		Interruptions:     append([]Interruption(nil), m.interruptions...),
		Distracted:        m.inDistraction,
		App:               m.app,
		Title:             m.title,
		Finished:          m.finished,
	}
	if !m.start.IsZero() {
		s.Elapsed = now.Sub(m.start)
		s.Remaining = m.target - s.Elapsed
		if s.Remaining < 0 {
			s.Remaining = 0
		}
	} else {
		s.Remaining = m.target
	}
	return s
}

func (m *Monitor) begin() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.start.IsZero() {
		m.start = m.clock()
		m.lastTick = m.start
	}
}

// finalize closes the session and persists the summary. The write is
// retried once; losing a finished session to one lock conflict is worse
// than a short stall here.
func (m *Monitor) finalize() {
	m.finishOnce.Do(func() {
		end := m.clock()

		m.mu.Lock()
		if m.start.IsZero() {
			m.start = end
		}
		if m.inDistraction {
			m.closeInterruption(end)
		}
		m.finished = true
		row := store.FocusSession{
			StartTime:         m.start,
			EndTime:           end,
			TargetMinutes:     int(m.target / time.Minute),
			FocusSeconds:      m.focused,
			DistractedSeconds: m.distracted,
			InterruptionCount: len(m.interruptions),
			FocusScore:        score(m.focused, m.distracted),
			GoalLabel:         m.goal,
		}
		m.result = row
		m.mu.Unlock()

		err := m.db.InsertFocusSession(&row)
		if err != nil {
			err = m.db.InsertFocusSession(&row)
		}
		if err != nil {
			m.log.Warn("focus session write failed", "error", err)
		} else {
			m.log.Info("focus session saved",
				"score", row.FocusScore,
				"interruptions", row.InterruptionCount,
				"focused_seconds", row.FocusSeconds)
		}

		close(m.done)
	})
}

// closeInterruption stamps the open interruption's duration. Caller holds mu.
func (m *Monitor) closeInterruption(now time.Time) {
	if n := len(m.interruptions); n > 0 {
		m.interruptions[n-1].Duration = now.Sub(m.distractionAt)
	}
	m.inDistraction = false
}

func (m *Monitor) emit(e Event) {
	select {
	case m.events <- e:
	default:
	}
}

// score is the focused share of booked time as a percentage, one decimal.
// A session with no booked time scores 100.
func score(focused, distracted float64) float64 {
	total := focused + distracted
	if total <= 0 {
		return 100
	}
	return math.Round(focused/total*1000) / 10
}
