package browser

import (
	"testing"
	"time"

	"github.com/blackwell-systems/deskwatch/internal/store"
)

type fakeSource struct {
	cutoffs  []time.Time
	searches []Search
	visits   []PageVisit
}

func (f *fakeSource) Extract(cutoff time.Time) ([]Search, []PageVisit) {
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.searches, f.visits
}

func TestSyncerWindowsAdvance(t *testing.T) {
	db, err := store.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	base := time.Date(2026, 2, 3, 9, 0, 0, 0, time.Local)
	source := &fakeSource{
		searches: []Search{{Timestamp: base, Browser: "Chrome", Query: "go sqlite", Source: "Google"}},
		visits: []PageVisit{{
			Timestamp: base, Browser: "Chrome", URL: "https://pkg.go.dev/database/sql",
			Title: "sql package", Duration: 90 * time.Second, Domain: "pkg.go.dev",
		}},
	}

	s := NewSyncer(db, source, time.Minute, 10*time.Minute, nil)
	now := base
	s.clock = func() time.Time { return now }

	searches, visits := s.SyncOnce()
	if searches != 1 || visits != 1 {
		t.Fatalf("first sync = %d searches %d visits, want 1 and 1", searches, visits)
	}

	// The first window reaches back by the lookback.
	if want := base.Add(-10 * time.Minute); !source.cutoffs[0].Equal(want) {
		t.Errorf("first cutoff = %v, want %v", source.cutoffs[0], want)
	}

	// The second window starts where the first sync ran, not on a fixed
	// lookback, so overlapping pulls cannot duplicate rows.
	now = base.Add(5 * time.Minute)
	source.searches = nil
	source.visits = nil
	s.SyncOnce()

	if !source.cutoffs[1].Equal(base) {
		t.Errorf("second cutoff = %v, want first sync time %v", source.cutoffs[1], base)
	}

	stored, err := db.SearchesForDate(base, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 || stored[0].Query != "go sqlite" {
		t.Fatalf("stored searches = %+v", stored)
	}
	seen, err := db.VisitsForDate(base, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) != 1 || seen[0].Domain != "pkg.go.dev" {
		t.Fatalf("stored visits = %+v", seen)
	}
}

func TestSyncerDerivesSearchesFromVisits(t *testing.T) {
	db, err := store.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	base := time.Date(2026, 2, 3, 9, 0, 0, 0, time.Local)
	source := &fakeSource{
		// The producer extracted this search itself.
		searches: []Search{{Timestamp: base, Browser: "Chrome", Query: "go sqlite driver", Source: "Google"}},
		visits: []PageVisit{
			// Same search seen as a raw visit: must not double up.
			{Timestamp: base, Browser: "Chrome", URL: "https://www.google.com/search?q=go+sqlite+driver", Title: "go sqlite driver - Google Search", Domain: "google.com"},
			// A search the producer did not extract: derived here.
			{Timestamp: base, Browser: "Chrome", URL: "https://duckduckgo.com/?q=wal+checkpoint", Title: "wal checkpoint at DuckDuckGo", Domain: "duckduckgo.com"},
			// Not a search results page.
			{Timestamp: base, Browser: "Chrome", URL: "https://pkg.go.dev/database/sql", Title: "sql package", Domain: "pkg.go.dev"},
		},
	}

	s := NewSyncer(db, source, time.Minute, 10*time.Minute, nil)
	s.clock = func() time.Time { return base }

	searches, visits := s.SyncOnce()
	if searches != 2 {
		t.Fatalf("searches = %d, want 2 (producer's own plus one derived)", searches)
	}
	if visits != 3 {
		t.Fatalf("visits = %d, want 3", visits)
	}

	stored, err := db.SearchesForDate(base, 10)
	if err != nil {
		t.Fatal(err)
	}
	queries := map[string]bool{}
	for _, r := range stored {
		queries[r.Query] = true
	}
	if !queries["go sqlite driver"] || !queries["wal checkpoint"] {
		t.Errorf("stored queries = %v", queries)
	}
}

func TestSyncerSwallowsStoreFailure(t *testing.T) {
	db, err := store.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	db.Close()

	source := &fakeSource{
		searches: []Search{{Timestamp: time.Now(), Browser: "Chrome", Query: "q", Source: "Google"}},
	}
	s := NewSyncer(db, source, time.Minute, 10*time.Minute, nil)

	searches, visits := s.SyncOnce()
	if searches != 0 || visits != 0 {
		t.Errorf("sync on a closed store = %d/%d, want 0/0", searches, visits)
	}
}
