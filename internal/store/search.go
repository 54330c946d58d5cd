package store

import (
	"time"
)

// InsertSearch writes one search record.
func (db *DB) InsertSearch(r *SearchRecord) error {
	_, err := db.conn.Exec(
		`INSERT INTO search_records (timestamp, browser, query, url, source)
		VALUES (?, ?, ?, ?, ?)`,
		formatTime(r.Timestamp), r.Browser, r.Query, r.URL, r.Source,
	)
	return err
}

// InsertSearches writes a batch of search records in one transaction.
func (db *DB) InsertSearches(records []SearchRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO search_records (timestamp, browser, query, url, source)
		VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i := range records {
		r := &records[i]
		if _, err := stmt.Exec(formatTime(r.Timestamp), r.Browser, r.Query, r.URL, r.Source); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SearchesForDate returns search records for one date, newest first.
func (db *DB) SearchesForDate(date time.Time, limit int) ([]SearchRecord, error) {
	rows, err := db.conn.Query(
		`SELECT id, timestamp, browser, query, url, source
		 FROM search_records
		 WHERE timestamp LIKE ? || '%'
		 ORDER BY timestamp DESC
		 LIMIT ?`,
		datePrefix(date), limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	records := []SearchRecord{}
	for rows.Next() {
		var r SearchRecord
		var ts string
		if err := rows.Scan(&r.ID, &ts, &r.Browser, &r.Query, &r.URL, &r.Source); err != nil {
			return nil, err
		}
		r.Timestamp = parseTime(ts)
		records = append(records, r)
	}
	return records, rows.Err()
}

// InsertVisit writes one browser visit record.
func (db *DB) InsertVisit(v *Visit) error {
	_, err := db.conn.Exec(
		`INSERT INTO browser_visits (timestamp, browser, url, title, visit_duration, domain)
		VALUES (?, ?, ?, ?, ?, ?)`,
		formatTime(v.Timestamp), v.Browser, v.URL, v.Title,
		round2(v.DurationSeconds), v.Domain,
	)
	return err
}

// InsertVisits writes a batch of browser visit records in one transaction.
func (db *DB) InsertVisits(visits []Visit) error {
	if len(visits) == 0 {
		return nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO browser_visits (timestamp, browser, url, title, visit_duration, domain)
		VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i := range visits {
		v := &visits[i]
		if _, err := stmt.Exec(formatTime(v.Timestamp), v.Browser, v.URL, v.Title,
			round2(v.DurationSeconds), v.Domain); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// VisitsForDate returns browser visit records for one date, newest first.
func (db *DB) VisitsForDate(date time.Time, limit int) ([]Visit, error) {
	rows, err := db.conn.Query(
		`SELECT id, timestamp, browser, url, title, visit_duration, domain
		 FROM browser_visits
		 WHERE timestamp LIKE ? || '%'
		 ORDER BY timestamp DESC
		 LIMIT ?`,
		datePrefix(date), limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	visits := []Visit{}
	for rows.Next() {
		var v Visit
		var ts string
		if err := rows.Scan(&v.ID, &ts, &v.Browser, &v.URL, &v.Title,
			&v.DurationSeconds, &v.Domain); err != nil {
			return nil, err
		}
		v.Timestamp = parseTime(ts)
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// DomainBreakdown returns visit count and total duration per domain for one
// date, most visited first.
func (db *DB) DomainBreakdown(date time.Time) ([]DomainStat, error) {
	rows, err := db.conn.Query(
		`SELECT domain,
		 COUNT(*) AS visit_count,
		 COALESCE(SUM(visit_duration), 0)
		 FROM browser_visits
		 WHERE timestamp LIKE ? || '%' AND domain != ''
		 GROUP BY domain
		 ORDER BY visit_count DESC
		 LIMIT 30`,
		datePrefix(date),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	stats := []DomainStat{}
	for rows.Next() {
		var d DomainStat
		if err := rows.Scan(&d.Domain, &d.VisitCount, &d.TotalDuration); err != nil {
			return nil, err
		}
		stats = append(stats, d)
	}
	return stats, rows.Err()
}
