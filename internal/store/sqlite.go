// Package store persists the latest aggregation snapshot in SQLite so that
// watch mode and the browser survive restarts without refetching.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/resumatch/jobfeed/internal/model"
)

// SnapshotStore keeps the most recent job snapshot in a SQLite database.
// Each save replaces the previous snapshot wholesale; this is a cache of the
// last successful aggregation, not a job history.
type SnapshotStore struct {
	db *sql.DB
}

// NewSnapshotStore opens (or creates) a SQLite database at dbPath and ensures
// the snapshot table exists.
func NewSnapshotStore(dbPath string) (*SnapshotStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS snapshot_jobs (
		position INTEGER PRIMARY KEY,
		job_id   TEXT NOT NULL,
		payload  TEXT NOT NULL,
		saved_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating snapshot_jobs table: %w", err)
	}

	return &SnapshotStore{db: db}, nil
}

// SaveSnapshot atomically replaces the stored snapshot with jobs, preserving
// their order. Saving an empty slice clears the snapshot.
func (s *SnapshotStore) SaveSnapshot(jobs []model.Job) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM snapshot_jobs"); err != nil {
		return fmt.Errorf("clearing previous snapshot: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO snapshot_jobs (position, job_id, payload) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing snapshot insert: %w", err)
	}
	defer stmt.Close()

	for i, job := range jobs {
		payload, err := json.Marshal(job)
		if err != nil {
			return fmt.Errorf("encoding job %s: %w", job.ID, err)
		}
		if _, err := stmt.Exec(i, job.ID, string(payload)); err != nil {
			return fmt.Errorf("inserting job %s: %w", job.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the stored jobs in their saved order. A missing or
// empty snapshot yields an empty slice, not an error.
func (s *SnapshotStore) LoadSnapshot() ([]model.Job, error) {
	rows, err := s.db.Query("SELECT payload FROM snapshot_jobs ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		var job model.Job
		if err := json.Unmarshal([]byte(payload), &job); err != nil {
			return nil, fmt.Errorf("decoding snapshot job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshot rows: %w", err)
	}
	return jobs, nil
}

// SavedAt returns the save time of the current snapshot, or the zero time
// when no snapshot exists.
func (s *SnapshotStore) SavedAt() (time.Time, error) {
	var savedAt time.Time
	err := s.db.QueryRow("SELECT saved_at FROM snapshot_jobs ORDER BY position LIMIT 1").Scan(&savedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("reading snapshot save time: %w", err)
	}
	return savedAt, nil
}

// Close closes the underlying database connection.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}
