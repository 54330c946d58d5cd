package browser

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/blackwell-systems/deskwatch/internal/store"
)

// Source produces search and visit records newer than a cutoff. History is
// the real implementation; tests substitute their own.
type Source interface {
	Extract(cutoff time.Time) ([]Search, []PageVisit)
}

// Syncer periodically pulls searches and page visits from a Source into
// the store. Each cycle covers the window since the previous one, so
// back-to-back cycles do not re-insert the same rows.
type Syncer struct {
	db       *store.DB
	source   Source
	interval time.Duration
	lookback time.Duration
	log      *slog.Logger
	clock    func() time.Time

	mu       sync.Mutex
	lastSync time.Time
}

// NewSyncer builds a Syncer. lookback bounds the first cycle's window;
// later cycles start where the previous one left off.
func NewSyncer(db *store.DB, source Source, interval, lookback time.Duration, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		db:       db,
		source:   source,
		interval: interval,
		lookback: lookback,
		log:      logger.With("component", "browser_sync"),
		clock:    time.Now,
	}
}

// Run syncs on a fixed interval until ctx is done. The first sync happens
// immediately.
func (s *Syncer) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.SyncOnce()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.SyncOnce()
		}
	}
}

// SyncOnce pulls one batch and stores it, returning the number of searches
// and visits recorded. Storage failures are logged and swallowed.
func (s *Syncer) SyncOnce() (searches, visits int) {
	s.mu.Lock()
	cutoff := s.lastSync
	now := s.clock()
	if cutoff.IsZero() {
		cutoff = now.Add(-s.lookback)
	}
	s.lastSync = now
	s.mu.Unlock()

	found, seen := s.source.Extract(cutoff)

	// Producers hand over raw visit rows; any visit landing on a search
	// results page also yields a search record. Dedup by query text keeps
	// one record when the producer extracted the same search itself.
	for _, v := range seen {
		if q, src, ok := ParseSearchURL(v.URL); ok {
			found = append(found, Search{
				Timestamp: v.Timestamp,
				Browser:   v.Browser,
				Query:     q,
				URL:       v.URL,
				Source:    src,
			})
		}
	}
	found = dedupeSearches(found)

	if len(found) > 0 {
		records := make([]store.SearchRecord, len(found))
		for i, f := range found {
			records[i] = store.SearchRecord{
				Timestamp: f.Timestamp,
				Browser:   f.Browser,
				Query:     f.Query,
				URL:       f.URL,
				Source:    f.Source,
			}
		}
		if err := s.db.InsertSearches(records); err != nil {
			s.log.Warn("storing searches failed", "error", err)
		} else {
			searches = len(records)
		}
	}

	if len(seen) > 0 {
		rows := make([]store.Visit, len(seen))
		for i, v := range seen {
			rows[i] = store.Visit{
				Timestamp:       v.Timestamp,
				Browser:         v.Browser,
				URL:             v.URL,
				Title:           v.Title,
				DurationSeconds: v.Duration.Seconds(),
				Domain:          v.Domain,
			}
		}
		if err := s.db.InsertVisits(rows); err != nil {
			s.log.Warn("storing visits failed", "error", err)
		} else {
			visits = len(rows)
		}
	}

	if searches > 0 || visits > 0 {
		s.log.Debug("history synced", "searches", searches, "visits", visits)
	}
	return searches, visits
}
