package store

import (
	"database/sql"
	"math"
	"strings"
	"time"

	"github.com/blackwell-systems/deskwatch/internal/category"
)

// Category name sets used by the daily aggregates. Derived from the rule
// engine's closed set so the two never drift.
var (
	productiveCategories = []string{
		string(category.Development),
		string(category.Research),
		string(category.Productivity),
	}
	distractionCategories = []string{
		string(category.Distraction),
	}
)

// UpsertDailyStats recomputes the daily summary for one date from raw
// segments and writes it keyed on the date. Calling it repeatedly with no
// new data produces identical rows, so it is safe on any cadence.
func (db *DB) UpsertDailyStats(date time.Time) error {
	prefix := datePrefix(date)

	total, err := db.sumDurations(prefix, nil)
	if err != nil {
		return err
	}
	productive, err := db.sumDurations(prefix, productiveCategories)
	if err != nil {
		return err
	}
	distraction, err := db.sumDurations(prefix, distractionCategories)
	if err != nil {
		return err
	}

	topApp, err := db.topGroup(prefix, "app_name")
	if err != nil {
		return err
	}
	topCategory, err := db.topGroup(prefix, "category")
	if err != nil {
		return err
	}

	var sessionCount int
	row := db.conn.QueryRow(
		"SELECT COUNT(*) FROM activity_segments WHERE start_time LIKE ? || '%'",
		prefix,
	)
	if err := row.Scan(&sessionCount); err != nil {
		return err
	}

	_, err = db.conn.Exec(
		`INSERT INTO daily_stats
		(date, total_seconds, productive_seconds, distraction_seconds,
		 top_app, top_category, session_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			total_seconds = excluded.total_seconds,
			productive_seconds = excluded.productive_seconds,
			distraction_seconds = excluded.distraction_seconds,
			top_app = excluded.top_app,
			top_category = excluded.top_category,
			session_count = excluded.session_count`,
		prefix, total, productive, distraction, topApp, topCategory, sessionCount,
	)
	return err
}

func (db *DB) sumDurations(prefix string, categories []string) (float64, error) {
	query := "SELECT COALESCE(SUM(duration_seconds), 0) FROM activity_segments WHERE start_time LIKE ? || '%'"
	args := []any{prefix}
	if len(categories) > 0 {
		query += " AND category IN (" + placeholders(len(categories)) + ")"
		for _, c := range categories {
			args = append(args, c)
		}
	}

	var total float64
	if err := db.conn.QueryRow(query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// topGroup returns the value of column with the largest summed duration for
// the date, or "" when the date has no segments.
func (db *DB) topGroup(prefix, column string) (string, error) {
	var top string
	row := db.conn.QueryRow(
		"SELECT "+column+" FROM activity_segments WHERE start_time LIKE ? || '%' "+
			"GROUP BY "+column+" ORDER BY SUM(duration_seconds) DESC LIMIT 1",
		prefix,
	)
	err := row.Scan(&top)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return top, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// UpsertAppUsage recomputes the per-app aggregates for one date from raw
// segments and writes each keyed on (date, app). Idempotent like
// UpsertDailyStats.
func (db *DB) UpsertAppUsage(date time.Time) error {
	prefix := datePrefix(date)

	rows, err := db.conn.Query(
		`SELECT app_name,
		 SUM(duration_seconds) AS total_duration,
		 COALESCE(AVG(memory_mb), 0),
		 COALESCE(AVG(cpu_percent), 0),
		 COUNT(*) AS launch_count,
		 category
		 FROM activity_segments
		 WHERE start_time LIKE ? || '%'
		 GROUP BY app_name`,
		prefix,
	)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	var usages []AppUsage
	for rows.Next() {
		var u AppUsage
		if err := rows.Scan(&u.AppName, &u.TotalDuration, &u.AvgMemoryMB,
			&u.AvgCPU, &u.LaunchCount, &u.Category); err != nil {
			return err
		}
		if u.Category == "" {
			u.Category = string(category.Other)
		}
		usages = append(usages, u)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range usages {
		u := &usages[i]
		if _, err := db.conn.Exec(
			`INSERT INTO app_usage
			(date, app_name, total_duration, avg_memory_mb, avg_cpu,
			 launch_count, category, role)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(date, app_name) DO UPDATE SET
				total_duration = excluded.total_duration,
				avg_memory_mb = excluded.avg_memory_mb,
				avg_cpu = excluded.avg_cpu,
				launch_count = excluded.launch_count,
				category = excluded.category,
				role = excluded.role`,
			prefix, u.AppName, round2(u.TotalDuration), round2(u.AvgMemoryMB),
			round2(u.AvgCPU), u.LaunchCount, u.Category, category.Role(u.AppName),
		); err != nil {
			return err
		}
	}
	return nil
}

// AppUsageForDate returns the stored per-app aggregates for one date,
// largest first.
func (db *DB) AppUsageForDate(date time.Time) ([]AppUsage, error) {
	rows, err := db.conn.Query(
		`SELECT id, date, app_name, total_duration, avg_memory_mb, avg_cpu,
		 launch_count, category, role
		 FROM app_usage
		 WHERE date = ?
		 ORDER BY total_duration DESC`,
		datePrefix(date),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	usages := []AppUsage{}
	for rows.Next() {
		var u AppUsage
		if err := rows.Scan(&u.ID, &u.Date, &u.AppName, &u.TotalDuration,
			&u.AvgMemoryMB, &u.AvgCPU, &u.LaunchCount, &u.Category, &u.Role); err != nil {
			return nil, err
		}
		usages = append(usages, u)
	}
	return usages, rows.Err()
}

// DailyStatForDate returns the stored daily summary for one date, or nil if
// none has been computed yet.
func (db *DB) DailyStatForDate(date time.Time) (*DailyStat, error) {
	row := db.conn.QueryRow(
		`SELECT id, date, total_seconds, productive_seconds, distraction_seconds,
		 top_app, top_category, session_count
		 FROM daily_stats WHERE date = ?`,
		datePrefix(date),
	)
	return scanDailyStat(row)
}

func scanDailyStat(row *sql.Row) (*DailyStat, error) {
	var d DailyStat
	err := row.Scan(&d.ID, &d.Date, &d.TotalSeconds, &d.ProductiveSeconds,
		&d.DistractionSeconds, &d.TopApp, &d.TopCategory, &d.SessionCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// StatsRange returns the most recent daily summaries, newest first.
func (db *DB) StatsRange(days int) ([]DailyStat, error) {
	rows, err := db.conn.Query(
		`SELECT id, date, total_seconds, productive_seconds, distraction_seconds,
		 top_app, top_category, session_count
		 FROM daily_stats
		 ORDER BY date DESC
		 LIMIT ?`,
		days,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	stats := []DailyStat{}
	for rows.Next() {
		var d DailyStat
		if err := rows.Scan(&d.ID, &d.Date, &d.TotalSeconds, &d.ProductiveSeconds,
			&d.DistractionSeconds, &d.TopApp, &d.TopCategory, &d.SessionCount); err != nil {
			return nil, err
		}
		stats = append(stats, d)
	}
	return stats, rows.Err()
}

// HeatmapSeries returns one entry per recorded day over the last N weeks,
// oldest first, with a 0-100 productivity score per day.
func (db *DB) HeatmapSeries(weeks int) ([]HeatmapDay, error) {
	start := time.Now().AddDate(0, 0, -weeks*7)

	rows, err := db.conn.Query(
		`SELECT date, total_seconds, productive_seconds
		 FROM daily_stats
		 WHERE date >= ?
		 ORDER BY date ASC`,
		datePrefix(start),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	series := []HeatmapDay{}
	for rows.Next() {
		var h HeatmapDay
		if err := rows.Scan(&h.Date, &h.TotalSeconds, &h.ProductiveSeconds); err != nil {
			return nil, err
		}
		if h.TotalSeconds > 0 {
			h.Score = int(math.Round(h.ProductiveSeconds / h.TotalSeconds * 100))
		}
		series = append(series, h)
	}
	return series, rows.Err()
}

// Streak computes the current and longest consecutive-day streaks over days
// with nonzero tracked time. The current streak counts back from today, so
// a gap yesterday (or no activity today) yields zero.
func (db *DB) Streak() (StreakInfo, error) {
	rows, err := db.conn.Query(
		"SELECT date FROM daily_stats WHERE total_seconds > 0 ORDER BY date ASC",
	)
	if err != nil {
		return StreakInfo{}, err
	}
	defer func() { _ = rows.Close() }()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return StreakInfo{}, err
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return StreakInfo{}, err
	}
	if len(dates) == 0 {
		return StreakInfo{}, nil
	}

	info := StreakInfo{TotalDaysTracked: len(dates)}

	// Longest run of consecutive dates. Civil dates parse to UTC midnights,
	// so consecutive days differ by exactly 24h.
	longest, run := 1, 1
	prev, _ := time.Parse("2006-01-02", dates[0])
	for _, d := range dates[1:] {
		cur, err := time.Parse("2006-01-02", d)
		if err != nil {
			continue
		}
		if cur.Sub(prev) == 24*time.Hour {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
		prev = cur
	}
	info.LongestStreak = longest

	// Current streak: walk back from today while each day is present.
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	check := time.Now()
	for {
		if _, ok := set[datePrefix(check)]; !ok {
			break
		}
		info.CurrentStreak++
		check = check.AddDate(0, 0, -1)
	}

	return info, nil
}
