package db

import (
	"database/sql"
	"errors"
	"fmt"
)

// State tells what recording an artifact changed.
type State int

const (
	// New artifacts were not in the manifest.
	New State = iota
	// Updated artifacts changed checksum.
	Updated
	// Tracked artifacts are unchanged.
	Tracked
)

func (s State) String() string {
	switch s {
	case New:
		return "new"
	case Updated:
		return "upd"
	}
	return "trk"
}

// Artifact is one file written by an export.
type Artifact struct {
	Path     string
	Dialect  string
	Section  string
	Checksum string
}

// Record inserts or updates the manifest row of a.
func Record(db *sql.DB, a Artifact) (State, error) {
	var checksum string
	err := db.QueryRow(`SELECT checksum FROM artifacts WHERE path = ?`, a.Path).Scan(&checksum)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = db.Exec(`INSERT INTO artifacts (path, dialect, section, checksum) VALUES (?, ?, ?, ?)`,
			a.Path, a.Dialect, a.Section, a.Checksum)
		if err != nil {
			return 0, fmt.Errorf("inserting %s: %w", a.Path, err)
		}
		return New, nil
	case err != nil:
		return 0, fmt.Errorf("querying %s: %w", a.Path, err)
	case checksum == a.Checksum:
		return Tracked, nil
	}

	_, err = db.Exec(`UPDATE artifacts SET dialect = ?, section = ?, checksum = ?, updated_at = datetime('now') WHERE path = ?`,
		a.Dialect, a.Section, a.Checksum, a.Path)
	if err != nil {
		return 0, fmt.Errorf("updating %s: %w", a.Path, err)
	}
	return Updated, nil
}

// DialectCount is the number of artifacts of one dialect section.
type DialectCount struct {
	Dialect string
	Section string
	Count   int
}

// CountBySection returns artifact counts ordered by dialect then section.
func CountBySection(db *sql.DB) ([]DialectCount, error) {
	rows, err := db.Query(`
		SELECT dialect, section, COUNT(*)
		FROM artifacts
		GROUP BY dialect, section
		ORDER BY dialect, section
	`)
	if err != nil {
		return nil, fmt.Errorf("querying artifact counts: %w", err)
	}
	defer rows.Close()

	var out []DialectCount
	for rows.Next() {
		var c DialectCount
		if err := rows.Scan(&c.Dialect, &c.Section, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning artifact count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
