// Package store archives scrape runs in a local SQLite database so that
// historical rosters survive CSV overwrites.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/wbb-stats/scrape/pkg/models"
)

// Store persists scrape runs and their records.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id      TEXT PRIMARY KEY,
		started_at  TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL,
		row_count   INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS records (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id     TEXT NOT NULL REFERENCES runs(run_id),
		school     TEXT NOT NULL DEFAULT '',
		staff_type TEXT NOT NULL DEFAULT '',
		fields     TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores the table as one run and returns the generated run id.
// Each record keeps its school and staff type as queryable columns; the
// full field map is stored as JSON.
func (s *Store) SaveRun(table models.Table, startedAt time.Time) (string, error) {
	runID := uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO runs (run_id, started_at, finished_at, row_count) VALUES (?, ?, ?, ?)",
		runID, startedAt, time.Now(), table.Len(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO records (run_id, school, staff_type, fields) VALUES (?, ?, ?, ?)")
	if err != nil {
		return "", fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range table.Rows {
		fields, err := json.Marshal(rec)
		if err != nil {
			return "", fmt.Errorf("failed to encode record: %w", err)
		}
		if _, err := stmt.Exec(runID, rec[models.FieldSchool], rec[models.FieldStaffType], string(fields)); err != nil {
			return "", fmt.Errorf("failed to insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}

	log.Info().
		Str("run_id", runID).
		Int("rows", table.Len()).
		Msg("Archived run")

	return runID, nil
}

// Records loads all records stored for a run, in insertion order.
func (s *Store) Records(runID string) ([]models.Record, error) {
	rows, err := s.db.Query("SELECT fields FROM records WHERE run_id = ? ORDER BY id", runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		var fields string
		if err := rows.Scan(&fields); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		var rec models.Record
		if err := json.Unmarshal([]byte(fields), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
