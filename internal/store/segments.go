package store

import (
	"time"
)

// InsertSegment writes one finalized activity segment.
func (db *DB) InsertSegment(s *Segment) error {
	_, err := db.conn.Exec(
		`INSERT INTO activity_segments
		(app_name, window_title, start_time, end_time, duration_seconds,
		 category, memory_mb, cpu_percent, pid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.AppName, s.WindowTitle, formatTime(s.StartTime), formatTime(s.EndTime),
		round2(s.DurationSeconds), s.Category, round2(s.MemoryMB),
		round2(s.CPUPercent), s.PID,
	)
	return err
}

// SegmentsForDate returns activity segments for one calendar date, newest
// first.
func (db *DB) SegmentsForDate(date time.Time, limit int) ([]Segment, error) {
	rows, err := db.conn.Query(
		`SELECT id, app_name, window_title, start_time, end_time,
		 duration_seconds, category, memory_mb, cpu_percent, pid
		 FROM activity_segments
		 WHERE start_time LIKE ? || '%'
		 ORDER BY start_time DESC
		 LIMIT ?`,
		datePrefix(date), limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	segments := []Segment{}
	for rows.Next() {
		var s Segment
		var start, end string
		if err := rows.Scan(&s.ID, &s.AppName, &s.WindowTitle, &start, &end,
			&s.DurationSeconds, &s.Category, &s.MemoryMB, &s.CPUPercent, &s.PID); err != nil {
			return nil, err
		}
		s.StartTime = parseTime(start)
		s.EndTime = parseTime(end)
		segments = append(segments, s)
	}
	return segments, rows.Err()
}

// CategoryBreakdown returns time spent per category for one date, largest
// first.
func (db *DB) CategoryBreakdown(date time.Time) ([]CategorySlice, error) {
	rows, err := db.conn.Query(
		`SELECT category,
		 SUM(duration_seconds) AS total_seconds,
		 COUNT(*) AS switch_count
		 FROM activity_segments
		 WHERE start_time LIKE ? || '%'
		 GROUP BY category
		 ORDER BY total_seconds DESC`,
		datePrefix(date),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	slices := []CategorySlice{}
	for rows.Next() {
		var c CategorySlice
		if err := rows.Scan(&c.Category, &c.TotalSeconds, &c.SwitchCount); err != nil {
			return nil, err
		}
		slices = append(slices, c)
	}
	return slices, rows.Err()
}

// AppBreakdown returns time spent per application for one date with resource
// averages, largest first.
func (db *DB) AppBreakdown(date time.Time) ([]AppSlice, error) {
	rows, err := db.conn.Query(
		`SELECT app_name,
		 SUM(duration_seconds) AS total_seconds,
		 COUNT(*) AS switch_count,
		 COALESCE(AVG(memory_mb), 0),
		 COALESCE(AVG(cpu_percent), 0),
		 COALESCE(MAX(memory_mb), 0)
		 FROM activity_segments
		 WHERE start_time LIKE ? || '%'
		 GROUP BY app_name
		 ORDER BY total_seconds DESC`,
		datePrefix(date),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	slices := []AppSlice{}
	for rows.Next() {
		var a AppSlice
		if err := rows.Scan(&a.AppName, &a.TotalSeconds, &a.SwitchCount,
			&a.AvgMemoryMB, &a.AvgCPU, &a.PeakMemoryMB); err != nil {
			return nil, err
		}
		slices = append(slices, a)
	}
	return slices, rows.Err()
}

// AppAnalytics returns the deep per-app view for one date: aggregate totals,
// resource extremes, top window titles, and the snapshot resource timeline.
// Returns nil when the app has no segments on that date.
func (db *DB) AppAnalytics(appName string, date time.Time) (*AppAnalytics, error) {
	prefix := datePrefix(date)

	var a AppAnalytics
	var firstSeen, lastSeen, cat *string
	row := db.conn.QueryRow(
		`SELECT COUNT(*) AS session_count,
		 COALESCE(SUM(duration_seconds), 0),
		 COALESCE(AVG(memory_mb), 0),
		 COALESCE(MAX(memory_mb), 0),
		 COALESCE(AVG(cpu_percent), 0),
		 COALESCE(MAX(cpu_percent), 0),
		 MIN(start_time), MAX(end_time), category
		 FROM activity_segments
		 WHERE app_name = ? AND start_time LIKE ? || '%'`,
		appName, prefix,
	)
	if err := row.Scan(&a.SessionCount, &a.TotalSeconds, &a.AvgMemoryMB,
		&a.PeakMemoryMB, &a.AvgCPU, &a.PeakCPU, &firstSeen, &lastSeen, &cat); err != nil {
		return nil, err
	}
	if a.SessionCount == 0 {
		return nil, nil
	}

	a.AppName = appName
	a.Date = prefix
	a.AvgMemoryMB = round2(a.AvgMemoryMB)
	a.AvgCPU = round2(a.AvgCPU)
	if firstSeen != nil {
		a.FirstSeen = parseTime(*firstSeen)
	}
	if lastSeen != nil {
		a.LastSeen = parseTime(*lastSeen)
	}
	a.Category = "Other"
	if cat != nil && *cat != "" {
		a.Category = *cat
	}

	titles, err := db.conn.Query(
		`SELECT window_title,
		 SUM(duration_seconds) AS total_seconds,
		 COUNT(*) AS count
		 FROM activity_segments
		 WHERE app_name = ? AND start_time LIKE ? || '%'
		 GROUP BY window_title
		 ORDER BY total_seconds DESC
		 LIMIT 15`,
		appName, prefix,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = titles.Close() }()

	a.TopTitles = []TitleStat{}
	for titles.Next() {
		var t TitleStat
		if err := titles.Scan(&t.WindowTitle, &t.TotalSeconds, &t.Count); err != nil {
			return nil, err
		}
		a.TopTitles = append(a.TopTitles, t)
	}
	if err := titles.Err(); err != nil {
		return nil, err
	}

	points, err := db.conn.Query(
		`SELECT timestamp, memory_mb, cpu_percent, num_threads
		 FROM process_snapshots
		 WHERE app_name = ? AND timestamp LIKE ? || '%'
		 ORDER BY timestamp ASC`,
		appName, prefix,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = points.Close() }()

	a.ResourceTimeline = []ResourcePoint{}
	for points.Next() {
		var p ResourcePoint
		var ts string
		if err := points.Scan(&ts, &p.MemoryMB, &p.CPUPercent, &p.NumThreads); err != nil {
			return nil, err
		}
		p.Timestamp = parseTime(ts)
		a.ResourceTimeline = append(a.ResourceTimeline, p)
	}
	return &a, points.Err()
}

// AppHistory returns the per-day usage history of one app over recent days,
// newest first.
func (db *DB) AppHistory(appName string, days int) ([]AppDayUsage, error) {
	rows, err := db.conn.Query(
		`SELECT SUBSTR(start_time, 1, 10) AS date,
		 SUM(duration_seconds) AS total_seconds,
		 COUNT(*) AS session_count,
		 COALESCE(AVG(memory_mb), 0),
		 COALESCE(AVG(cpu_percent), 0)
		 FROM activity_segments
		 WHERE app_name = ?
		 GROUP BY SUBSTR(start_time, 1, 10)
		 ORDER BY date DESC
		 LIMIT ?`,
		appName, days,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	history := []AppDayUsage{}
	for rows.Next() {
		var d AppDayUsage
		if err := rows.Scan(&d.Date, &d.TotalSeconds, &d.SessionCount,
			&d.AvgMemoryMB, &d.AvgCPU); err != nil {
			return nil, err
		}
		history = append(history, d)
	}
	return history, rows.Err()
}

// TrackedApps returns every app ever recorded with its all-time totals,
// largest first.
func (db *DB) TrackedApps() ([]TrackedApp, error) {
	rows, err := db.conn.Query(
		`SELECT app_name,
		 SUM(duration_seconds) AS total_seconds,
		 COUNT(*) AS total_sessions,
		 COALESCE(AVG(memory_mb), 0),
		 COALESCE(MAX(memory_mb), 0),
		 category
		 FROM activity_segments
		 GROUP BY app_name
		 ORDER BY total_seconds DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	apps := []TrackedApp{}
	for rows.Next() {
		var a TrackedApp
		if err := rows.Scan(&a.AppName, &a.TotalSeconds, &a.TotalSessions,
			&a.AvgMemoryMB, &a.PeakMemoryMB, &a.Category); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}
