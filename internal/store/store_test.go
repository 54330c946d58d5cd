package store

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBase returns a stable timestamp inside today's civil date. Offsets of
// a few hours stay within the same date.
func testBase() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, time.Local)
}

func seedSegment(t *testing.T, db *DB, app, title string, start time.Time, duration float64, cat string) {
	t.Helper()
	err := db.InsertSegment(&Segment{
		AppName:         app,
		WindowTitle:     title,
		StartTime:       start,
		EndTime:         start.Add(time.Duration(duration * float64(time.Second))),
		DurationSeconds: duration,
		Category:        cat,
		MemoryMB:        120.5,
		CPUPercent:      4.2,
		PID:             1234,
	})
	require.NoError(t, err)
}

func TestOpenCreatesParentDir(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "nested", "deskwatch.db")

	db, err := Open(dbPath)
	require.NoError(t, err)
	defer db.Close()

	// Migrations are idempotent on every startup.
	require.NoError(t, db.Migrate())
	require.NoError(t, db.Migrate())
}

func TestReopenExistingDatabase(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "deskwatch.db")

	db, err := Open(dbPath)
	require.NoError(t, err)
	seedSegment(t, db, "code", "main.go", testBase(), 300, "Development")
	require.NoError(t, db.Close())

	db2, err := Open(dbPath)
	require.NoError(t, err)
	defer db2.Close()

	segments, err := db2.SegmentsForDate(testBase(), 100)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "code", segments[0].AppName)
}

func TestIncrementalColumnMigration(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	// Re-running the column migration against a current schema must be a
	// no-op, not an error.
	require.NoError(t, db.migrateV2())
	require.NoError(t, db.migrateV2())
}

func TestSegmentRoundtrip(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	base := testBase()
	seedSegment(t, db, "code", "main.go - project", base, 600, "Development")

	segments, err := db.SegmentsForDate(base, 100)
	require.NoError(t, err)
	require.Len(t, segments, 1)

	s := segments[0]
	assert.Equal(t, "code", s.AppName)
	assert.Equal(t, "main.go - project", s.WindowTitle)
	assert.Equal(t, 600.0, s.DurationSeconds)
	assert.Equal(t, "Development", s.Category)
	assert.Equal(t, 120.5, s.MemoryMB)
	assert.Equal(t, 4.2, s.CPUPercent)
	assert.Equal(t, 1234, s.PID)
	assert.True(t, s.StartTime.Equal(base))
	assert.True(t, s.EndTime.Equal(base.Add(600*time.Second)))

	// A different date sees nothing.
	other, err := db.SegmentsForDate(base.AddDate(0, 0, -1), 100)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestEmptyDateQueriesReturnEmpty(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	date := testBase()

	segments, err := db.SegmentsForDate(date, 100)
	require.NoError(t, err)
	assert.Empty(t, segments)

	cats, err := db.CategoryBreakdown(date)
	require.NoError(t, err)
	assert.Empty(t, cats)

	apps, err := db.AppBreakdown(date)
	require.NoError(t, err)
	assert.Empty(t, apps)

	analytics, err := db.AppAnalytics("code", date)
	require.NoError(t, err)
	assert.Nil(t, analytics)

	history, err := db.AppHistory("code", 14)
	require.NoError(t, err)
	assert.Empty(t, history)

	tracked, err := db.TrackedApps()
	require.NoError(t, err)
	assert.Empty(t, tracked)

	mem, err := db.TopMemory(date, 10)
	require.NoError(t, err)
	assert.Empty(t, mem)

	cpu, err := db.TopCPU(date, 10)
	require.NoError(t, err)
	assert.Empty(t, cpu)

	count, err := db.SnapshotCount(date)
	require.NoError(t, err)
	assert.Zero(t, count)

	searches, err := db.SearchesForDate(date, 50)
	require.NoError(t, err)
	assert.Empty(t, searches)

	visits, err := db.VisitsForDate(date, 100)
	require.NoError(t, err)
	assert.Empty(t, visits)

	domains, err := db.DomainBreakdown(date)
	require.NoError(t, err)
	assert.Empty(t, domains)

	stat, err := db.DailyStatForDate(date)
	require.NoError(t, err)
	assert.Nil(t, stat)

	statsRange, err := db.StatsRange(7)
	require.NoError(t, err)
	assert.Empty(t, statsRange)

	heatmap, err := db.HeatmapSeries(4)
	require.NoError(t, err)
	assert.Empty(t, heatmap)

	streak, err := db.Streak()
	require.NoError(t, err)
	assert.Equal(t, StreakInfo{}, streak)

	focus, err := db.FocusSessionsForDate(date, 20)
	require.NoError(t, err)
	assert.Empty(t, focus)

	fstats, err := db.FocusStats()
	require.NoError(t, err)
	assert.Equal(t, FocusStats{}, fstats)

	usage, err := db.AppUsageForDate(date)
	require.NoError(t, err)
	assert.Empty(t, usage)
}

func TestUpsertDailyStatsScenario(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	base := testBase()
	seedSegment(t, db, "code", "main.go", base, 7200, "Development")
	seedSegment(t, db, "chrome", "Effective Go - docs", base.Add(2*time.Hour), 1800, "Research")
	seedSegment(t, db, "chrome", "Cat Videos - YouTube", base.Add(3*time.Hour), 600, "Distraction")
	seedSegment(t, db, "slack", "#general", base.Add(4*time.Hour), 900, "Communication")

	require.NoError(t, db.UpsertDailyStats(base))

	stat, err := db.DailyStatForDate(base)
	require.NoError(t, err)
	require.NotNil(t, stat)

	assert.Equal(t, 10500.0, stat.TotalSeconds)
	assert.Equal(t, 9000.0, stat.ProductiveSeconds)
	assert.Equal(t, 600.0, stat.DistractionSeconds)
	assert.Equal(t, "code", stat.TopApp)
	assert.Equal(t, "Development", stat.TopCategory)
	assert.Equal(t, 4, stat.SessionCount)
}

func TestUpsertIdempotent(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	base := testBase()
	seedSegment(t, db, "code", "main.go", base, 3600, "Development")
	seedSegment(t, db, "chrome", "Reading", base.Add(time.Hour), 1200, "Browsing")

	require.NoError(t, db.UpsertDailyStats(base))
	require.NoError(t, db.UpsertAppUsage(base))

	first, err := db.DailyStatForDate(base)
	require.NoError(t, err)
	firstUsage, err := db.AppUsageForDate(base)
	require.NoError(t, err)

	// Recomputing with no new data must produce identical rows, not new ones.
	require.NoError(t, db.UpsertDailyStats(base))
	require.NoError(t, db.UpsertAppUsage(base))

	second, err := db.DailyStatForDate(base)
	require.NoError(t, err)
	secondUsage, err := db.AppUsageForDate(base)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstUsage, secondUsage)
}

func TestUpsertAppUsageFields(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	base := testBase()
	seedSegment(t, db, "chrome", "Page One", base, 600, "Browsing")
	seedSegment(t, db, "chrome", "Page Two", base.Add(10*time.Minute), 300, "Browsing")

	require.NoError(t, db.UpsertAppUsage(base))

	usage, err := db.AppUsageForDate(base)
	require.NoError(t, err)
	require.Len(t, usage, 1)

	u := usage[0]
	assert.Equal(t, "chrome", u.AppName)
	assert.Equal(t, 900.0, u.TotalDuration)
	assert.Equal(t, 2, u.LaunchCount)
	assert.Equal(t, "Browsing", u.Category)
	assert.Equal(t, "Web Browser (Google Chrome)", u.Role)
}

func TestCategoryAndAppBreakdowns(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	base := testBase()
	seedSegment(t, db, "code", "a.go", base, 3000, "Development")
	seedSegment(t, db, "code", "b.go", base.Add(time.Hour), 1500, "Development")
	seedSegment(t, db, "spotify", "Playlist", base.Add(2*time.Hour), 900, "Distraction")

	cats, err := db.CategoryBreakdown(base)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Development", cats[0].Category)
	assert.Equal(t, 4500.0, cats[0].TotalSeconds)
	assert.Equal(t, 2, cats[0].SwitchCount)

	apps, err := db.AppBreakdown(base)
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "code", apps[0].AppName)
	assert.Equal(t, 4500.0, apps[0].TotalSeconds)
}

func TestAppAnalyticsAndHistory(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	base := testBase()
	seedSegment(t, db, "code", "main.go", base, 1200, "Development")
	seedSegment(t, db, "code", "main.go", base.Add(time.Hour), 600, "Development")
	seedSegment(t, db, "code", "other.go", base.Add(2*time.Hour), 300, "Development")
	seedSegment(t, db, "code", "yesterday.go", base.AddDate(0, 0, -1), 500, "Development")

	require.NoError(t, db.InsertSnapshots([]ProcessSnapshot{
		{Timestamp: base, AppName: "code", PID: 10, MemoryMB: 400, CPUPercent: 12, Status: "running", NumThreads: 30},
	}))

	a, err := db.AppAnalytics("code", base)
	require.NoError(t, err)
	require.NotNil(t, a)

	assert.Equal(t, 3, a.SessionCount)
	assert.Equal(t, 2100.0, a.TotalSeconds)
	assert.Equal(t, "Development", a.Category)
	require.Len(t, a.TopTitles, 2)
	assert.Equal(t, "main.go", a.TopTitles[0].WindowTitle)
	assert.Equal(t, 1800.0, a.TopTitles[0].TotalSeconds)
	require.Len(t, a.ResourceTimeline, 1)
	assert.Equal(t, 400.0, a.ResourceTimeline[0].MemoryMB)

	history, err := db.AppHistory("code", 14)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 2100.0, history[0].TotalSeconds)
	assert.Equal(t, 500.0, history[1].TotalSeconds)

	tracked, err := db.TrackedApps()
	require.NoError(t, err)
	require.Len(t, tracked, 1)
	assert.Equal(t, 4, tracked[0].TotalSessions)
}

func TestSnapshotBatchAndTopViews(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	first := testBase()
	second := first.Add(30 * time.Second)

	require.NoError(t, db.InsertSnapshots([]ProcessSnapshot{
		{Timestamp: first, AppName: "chrome", PID: 100, MemoryMB: 900, CPUPercent: 10, Status: "running", NumThreads: 40},
		{Timestamp: first, AppName: "code", PID: 200, MemoryMB: 500, CPUPercent: 25, Status: "running", NumThreads: 25},
	}))
	require.NoError(t, db.InsertSnapshots([]ProcessSnapshot{
		{Timestamp: second, AppName: "chrome", PID: 100, MemoryMB: 1100, CPUPercent: 8, Status: "running", NumThreads: 42},
		{Timestamp: second, AppName: "code", PID: 200, MemoryMB: 520, CPUPercent: 30, Status: "running", NumThreads: 25},
	}))

	count, err := db.SnapshotCount(first)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	mem, err := db.TopMemory(first, 10)
	require.NoError(t, err)
	require.Len(t, mem, 2)
	assert.Equal(t, "chrome", mem[0].AppName)
	assert.Equal(t, 1000.0, mem[0].AvgMemoryMB)
	assert.Equal(t, 1100.0, mem[0].PeakMemoryMB)
	assert.Equal(t, 1, mem[0].InstanceCount)

	cpu, err := db.TopCPU(first, 10)
	require.NoError(t, err)
	require.Len(t, cpu, 2)
	assert.Equal(t, "code", cpu[0].AppName)
	assert.Equal(t, 27.5, cpu[0].AvgCPU)
	assert.Equal(t, 30.0, cpu[0].PeakCPU)
}

func TestSearchAndVisitRoundtrip(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	base := testBase()
	require.NoError(t, db.InsertSearches([]SearchRecord{
		{Timestamp: base, Browser: "chrome", Query: "golang context cancellation", Source: "Google"},
		{Timestamp: base.Add(time.Minute), Browser: "chrome", Query: "sqlite upsert", Source: "DuckDuckGo"},
	}))

	searches, err := db.SearchesForDate(base, 50)
	require.NoError(t, err)
	require.Len(t, searches, 2)
	assert.Equal(t, "sqlite upsert", searches[0].Query)

	require.NoError(t, db.InsertVisits([]Visit{
		{Timestamp: base, Browser: "firefox", URL: "https://news.ycombinator.com/item", Title: "HN", DurationSeconds: 95, Domain: "news.ycombinator.com"},
		{Timestamp: base.Add(time.Minute), Browser: "firefox", URL: "https://news.ycombinator.com/", Title: "HN", DurationSeconds: 30, Domain: "news.ycombinator.com"},
		{Timestamp: base.Add(2 * time.Minute), Browser: "firefox", URL: "https://pkg.go.dev/database/sql", Title: "sql", DurationSeconds: 200, Domain: "pkg.go.dev"},
	}))

	visits, err := db.VisitsForDate(base, 100)
	require.NoError(t, err)
	assert.Len(t, visits, 3)

	domains, err := db.DomainBreakdown(base)
	require.NoError(t, err)
	require.Len(t, domains, 2)
	assert.Equal(t, "news.ycombinator.com", domains[0].Domain)
	assert.Equal(t, 2, domains[0].VisitCount)
	assert.Equal(t, 125.0, domains[0].TotalDuration)
}

func TestFocusSessionRoundtrip(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	base := testBase()
	require.NoError(t, db.InsertFocusSession(&FocusSession{
		StartTime:         base,
		EndTime:           base.Add(25 * time.Minute),
		TargetMinutes:     25,
		FocusSeconds:      1470,
		DistractedSeconds: 30,
		InterruptionCount: 1,
		FocusScore:        98.0,
		GoalLabel:         "write migrations",
	}))
	require.NoError(t, db.InsertFocusSession(&FocusSession{
		StartTime:         base.Add(time.Hour),
		EndTime:           base.Add(70 * time.Minute),
		TargetMinutes:     10,
		FocusSeconds:      600,
		InterruptionCount: 0,
		FocusScore:        100,
	}))

	sessions, err := db.FocusSessionsForDate(base, 20)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, 98.0, sessions[1].FocusScore)
	assert.Equal(t, "write migrations", sessions[1].GoalLabel)

	recent, err := db.RecentFocusSessions(1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, 100.0, recent[0].FocusScore)

	stats, err := db.FocusStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalSessions)
	assert.Equal(t, 2070.0, stats.TotalFocusSeconds)
	assert.Equal(t, 99.0, stats.AvgFocusScore)
	assert.Equal(t, 1, stats.TotalInterruptions)
	assert.Equal(t, 100.0, stats.BestScore)
}

func TestStreakConsecutiveDays(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	base := testBase()
	for _, offset := range []int{-2, -1, 0} {
		day := base.AddDate(0, 0, offset)
		seedSegment(t, db, "code", "work", day, 1800, "Development")
		require.NoError(t, db.UpsertDailyStats(day))
	}

	streak, err := db.Streak()
	require.NoError(t, err)
	assert.Equal(t, 3, streak.CurrentStreak)
	assert.Equal(t, 3, streak.LongestStreak)
	assert.Equal(t, 3, streak.TotalDaysTracked)
}

func TestStreakBrokenByGap(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	base := testBase()
	for _, offset := range []int{-3, -2} {
		day := base.AddDate(0, 0, offset)
		seedSegment(t, db, "code", "work", day, 1800, "Development")
		require.NoError(t, db.UpsertDailyStats(day))
	}

	streak, err := db.Streak()
	require.NoError(t, err)
	assert.Equal(t, 0, streak.CurrentStreak)
	assert.Equal(t, 2, streak.LongestStreak)
	assert.Equal(t, 2, streak.TotalDaysTracked)
}

func TestHeatmapScores(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	base := testBase()

	// Day with 75% productive time.
	day1 := base.AddDate(0, 0, -2)
	seedSegment(t, db, "code", "work", day1, 3000, "Development")
	seedSegment(t, db, "spotify", "music", day1.Add(time.Hour), 1000, "Distraction")
	require.NoError(t, db.UpsertDailyStats(day1))

	// Day with zero tracked time still gets a row and a zero score.
	day2 := base.AddDate(0, 0, -1)
	require.NoError(t, db.UpsertDailyStats(day2))

	// Fully productive day.
	seedSegment(t, db, "code", "work", base, 500, "Development")
	require.NoError(t, db.UpsertDailyStats(base))

	series, err := db.HeatmapSeries(1)
	require.NoError(t, err)
	require.Len(t, series, 3)

	assert.Equal(t, 75, series[0].Score)
	assert.Equal(t, 0, series[1].Score)
	assert.Equal(t, 0.0, series[1].TotalSeconds)
	assert.Equal(t, 100, series[2].Score)
}

func TestConcurrentWriters(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	base := testBase()
	const perWriter = 25

	errs := make(chan error, 3*perWriter)
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		for i := 0; i < perWriter; i++ {
			errs <- db.InsertSegment(&Segment{
				AppName:         "code",
				WindowTitle:     fmt.Sprintf("file-%d.go", i),
				StartTime:       base.Add(time.Duration(i) * time.Minute),
				EndTime:         base.Add(time.Duration(i)*time.Minute + 30*time.Second),
				DurationSeconds: 30,
				Category:        "Development",
			})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < perWriter; i++ {
			errs <- db.InsertSnapshots([]ProcessSnapshot{
				{Timestamp: base.Add(time.Duration(i) * time.Second), AppName: "chrome", PID: 100 + i, MemoryMB: 500, Status: "running"},
				{Timestamp: base.Add(time.Duration(i) * time.Second), AppName: "code", PID: 200 + i, MemoryMB: 300, Status: "running"},
			})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < perWriter; i++ {
			errs <- db.InsertSearch(&SearchRecord{
				Timestamp: base.Add(time.Duration(i) * time.Second),
				Browser:   "chrome",
				Query:     fmt.Sprintf("query %d", i),
				Source:    "Google",
			})
		}
	}()

	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	segments, err := db.SegmentsForDate(base, 1000)
	require.NoError(t, err)
	assert.Len(t, segments, perWriter)

	searches, err := db.SearchesForDate(base, 1000)
	require.NoError(t, err)
	assert.Len(t, searches, perWriter)

	count, err := db.SnapshotCount(base)
	require.NoError(t, err)
	assert.Equal(t, perWriter, count)
}
