package store

import (
	"database/sql"
	"time"
)

// InsertFocusSession writes one finalized focus session.
func (db *DB) InsertFocusSession(fs *FocusSession) error {
	_, err := db.conn.Exec(
		`INSERT INTO focus_sessions
		(start_time, end_time, target_minutes, focus_seconds, distracted_seconds,
		 interruption_count, focus_score, goal_label)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		formatTime(fs.StartTime), formatTime(fs.EndTime), fs.TargetMinutes,
		round2(fs.FocusSeconds), round2(fs.DistractedSeconds),
		fs.InterruptionCount, round2(fs.FocusScore), fs.GoalLabel,
	)
	return err
}

// FocusSessionsForDate returns focus sessions started on one date, newest
// first.
func (db *DB) FocusSessionsForDate(date time.Time, limit int) ([]FocusSession, error) {
	rows, err := db.conn.Query(
		`SELECT id, start_time, end_time, target_minutes, focus_seconds,
		 distracted_seconds, interruption_count, focus_score, goal_label
		 FROM focus_sessions
		 WHERE start_time LIKE ? || '%'
		 ORDER BY start_time DESC
		 LIMIT ?`,
		datePrefix(date), limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return collectFocusSessions(rows)
}

// RecentFocusSessions returns the most recent focus sessions across all
// dates, newest first.
func (db *DB) RecentFocusSessions(limit int) ([]FocusSession, error) {
	rows, err := db.conn.Query(
		`SELECT id, start_time, end_time, target_minutes, focus_seconds,
		 distracted_seconds, interruption_count, focus_score, goal_label
		 FROM focus_sessions
		 ORDER BY start_time DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return collectFocusSessions(rows)
}

// FocusStats aggregates every stored focus session.
func (db *DB) FocusStats() (FocusStats, error) {
	var s FocusStats
	row := db.conn.QueryRow(
		`SELECT COUNT(*),
		 COALESCE(SUM(focus_seconds), 0),
		 COALESCE(AVG(focus_score), 0),
		 COALESCE(SUM(interruption_count), 0),
		 COALESCE(MAX(focus_score), 0)
		 FROM focus_sessions`,
	)
	if err := row.Scan(&s.TotalSessions, &s.TotalFocusSeconds, &s.AvgFocusScore,
		&s.TotalInterruptions, &s.BestScore); err != nil {
		return FocusStats{}, err
	}
	return s, nil
}

func collectFocusSessions(rows *sql.Rows) ([]FocusSession, error) {
	sessions := []FocusSession{}
	for rows.Next() {
		var fs FocusSession
		var start, end string
		if err := rows.Scan(&fs.ID, &start, &end, &fs.TargetMinutes,
			&fs.FocusSeconds, &fs.DistractedSeconds, &fs.InterruptionCount,
			&fs.FocusScore, &fs.GoalLabel); err != nil {
			return nil, err
		}
		fs.StartTime = parseTime(start)
		fs.EndTime = parseTime(end)
		sessions = append(sessions, fs)
	}
	return sessions, rows.Err()
}
