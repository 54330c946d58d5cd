package store

import (
	"time"
)

// InsertSnapshots writes one whole scan as a single transaction so a partial
// scan can never appear in the store. All rows should share one timestamp.
func (db *DB) InsertSnapshots(snapshots []ProcessSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO process_snapshots
		(timestamp, app_name, pid, memory_mb, cpu_percent, status, num_threads)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i := range snapshots {
		s := &snapshots[i]
		if _, err := stmt.Exec(formatTime(s.Timestamp), s.AppName, s.PID,
			round2(s.MemoryMB), round2(s.CPUPercent), s.Status, s.NumThreads); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// TopMemory returns the top memory-consuming apps over one date's snapshots.
func (db *DB) TopMemory(date time.Time, limit int) ([]ProcessLoad, error) {
	rows, err := db.conn.Query(
		`SELECT app_name,
		 COALESCE(AVG(memory_mb), 0) AS avg_memory_mb,
		 COALESCE(MAX(memory_mb), 0),
		 COALESCE(AVG(cpu_percent), 0),
		 COUNT(DISTINCT pid)
		 FROM process_snapshots
		 WHERE timestamp LIKE ? || '%'
		 GROUP BY app_name
		 ORDER BY avg_memory_mb DESC
		 LIMIT ?`,
		datePrefix(date), limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	loads := []ProcessLoad{}
	for rows.Next() {
		var l ProcessLoad
		if err := rows.Scan(&l.AppName, &l.AvgMemoryMB, &l.PeakMemoryMB,
			&l.AvgCPU, &l.InstanceCount); err != nil {
			return nil, err
		}
		loads = append(loads, l)
	}
	return loads, rows.Err()
}

// TopCPU returns the top CPU-consuming apps over one date's snapshots.
func (db *DB) TopCPU(date time.Time, limit int) ([]ProcessLoad, error) {
	rows, err := db.conn.Query(
		`SELECT app_name,
		 COALESCE(AVG(cpu_percent), 0) AS avg_cpu,
		 COALESCE(MAX(cpu_percent), 0),
		 COALESCE(AVG(memory_mb), 0),
		 COUNT(DISTINCT pid)
		 FROM process_snapshots
		 WHERE timestamp LIKE ? || '%'
		 GROUP BY app_name
		 ORDER BY avg_cpu DESC
		 LIMIT ?`,
		datePrefix(date), limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	loads := []ProcessLoad{}
	for rows.Next() {
		var l ProcessLoad
		if err := rows.Scan(&l.AppName, &l.AvgCPU, &l.PeakCPU,
			&l.AvgMemoryMB, &l.InstanceCount); err != nil {
			return nil, err
		}
		loads = append(loads, l)
	}
	return loads, rows.Err()
}

// SnapshotCount returns the number of distinct scans recorded for one date.
func (db *DB) SnapshotCount(date time.Time) (int, error) {
	var count int
	row := db.conn.QueryRow(
		"SELECT COUNT(DISTINCT timestamp) FROM process_snapshots WHERE timestamp LIKE ? || '%'",
		datePrefix(date),
	)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
