package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/blackwell-systems/deskwatch/internal/category"
)

// Recomputed daily totals must equal the sum of the underlying segments, and
// recomputing without new data must change nothing.
func TestDailyStatsRecomputeProperty(t *testing.T) {
	apps := []string{"code", "chrome", "slack", "spotify", "nvim"}
	categories := make([]string, len(category.All))
	for i, c := range category.All {
		categories[i] = string(c)
	}

	rapid.Check(t, func(rt *rapid.T) {
		db, err := OpenInMemory()
		require.NoError(rt, err)
		defer db.Close()

		base := testBase()
		n := rapid.IntRange(1, 12).Draw(rt, "n")

		var total, productive, distraction float64
		for i := 0; i < n; i++ {
			app := rapid.SampledFrom(apps).Draw(rt, fmt.Sprintf("app%d", i))
			cat := rapid.SampledFrom(categories).Draw(rt, fmt.Sprintf("cat%d", i))
			seconds := float64(rapid.IntRange(10, 3600).Draw(rt, fmt.Sprintf("dur%d", i)))

			start := base.Add(time.Duration(i) * 5 * time.Minute)
			require.NoError(rt, db.InsertSegment(&Segment{
				AppName:         app,
				WindowTitle:     fmt.Sprintf("window %d", i),
				StartTime:       start,
				EndTime:         start.Add(time.Duration(seconds) * time.Second),
				DurationSeconds: seconds,
				Category:        cat,
			}))

			total += seconds
			if category.IsProductive(category.Category(cat)) {
				productive += seconds
			}
			if cat == string(category.Distraction) {
				distraction += seconds
			}
		}

		require.NoError(rt, db.UpsertDailyStats(base))

		stat, err := db.DailyStatForDate(base)
		require.NoError(rt, err)
		require.NotNil(rt, stat)

		require.Equal(rt, total, stat.TotalSeconds)
		require.Equal(rt, productive, stat.ProductiveSeconds)
		require.Equal(rt, distraction, stat.DistractionSeconds)
		require.Equal(rt, n, stat.SessionCount)

		require.NoError(rt, db.UpsertDailyStats(base))
		again, err := db.DailyStatForDate(base)
		require.NoError(rt, err)
		require.Equal(rt, stat, again)
	})
}
