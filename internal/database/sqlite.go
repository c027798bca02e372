package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sss-go/internal/database/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Run statuses.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusError   = "error"
)

// Run is one journaled execution of a mutating command.
type Run struct {
	ID         int64
	UUID       string
	Operation  string
	Root       string
	Parameters string
	StartedAt  time.Time
	FinishedAt sql.NullTime
	Status     string
	MoveCount  int
}

// Move is one file relocation applied during a run.
type Move struct {
	ID      int64
	RunID   int64
	Src     string
	Dst     string
	Kind    string
	Reason  string
	MovedAt time.Time
}

// SQLiteDatabase is the run journal backed by SQLite.
type SQLiteDatabase struct {
	db   *sql.DB
	path string
}

// NewSQLiteDatabase opens the journal at path (or ":memory:").
// The schema is not migrated; see migrations.MigrateUp.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteDatabase{db: db, path: path}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing, already configured connection.
func NewSQLiteDatabaseFromDB(db *sql.DB) *SQLiteDatabase {
	return &SQLiteDatabase{db: db}
}

// OpenConnection opens a SQLite connection with foreign keys enabled.
// In-memory databases are limited to one connection so that every query
// sees the same database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return db, nil
}

// Migrate brings the schema up to date.
func (s *SQLiteDatabase) Migrate() error {
	return migrations.MigrateUp(s.db)
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// Run operations

func (s *SQLiteDatabase) CreateRun(uuid, operation, root, parameters string, startedAt time.Time) (*Run, error) {
	res, err := s.db.Exec(
		`INSERT INTO runs (uuid, operation, root, parameters, started_at, status) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid, operation, root, parameters, startedAt, StatusRunning,
	)
	if err != nil {
		return nil, fmt.Errorf("creating run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading run id: %w", err)
	}
	return &Run{
		ID:         id,
		UUID:       uuid,
		Operation:  operation,
		Root:       root,
		Parameters: parameters,
		StartedAt:  startedAt,
		Status:     StatusRunning,
	}, nil
}

func (s *SQLiteDatabase) FinishRun(id int64, status string, finishedAt time.Time) error {
	res, err := s.db.Exec(
		`UPDATE runs SET finished_at = ?, status = ? WHERE id = ?`,
		finishedAt, status, id,
	)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finishing run: run %d not found", id)
	}
	return nil
}

const runColumns = `r.id, r.uuid, r.operation, r.root, r.parameters, r.started_at, r.finished_at, r.status,
	(SELECT COUNT(*) FROM moves m WHERE m.run_id = r.id)`

func scanRun(row interface{ Scan(...any) error }) (*Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.UUID, &r.Operation, &r.Root, &r.Parameters,
		&r.StartedAt, &r.FinishedAt, &r.Status, &r.MoveCount)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetRun returns the run with the given id, or nil if there is none.
func (s *SQLiteDatabase) GetRun(id int64) (*Run, error) {
	r, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs r WHERE r.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding run: %w", err)
	}
	return r, nil
}

// ListRuns returns up to limit runs, newest first.
func (s *SQLiteDatabase) ListRuns(limit int) ([]*Run, error) {
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM runs r ORDER BY r.id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// Move operations

func (s *SQLiteDatabase) RecordMove(m *Move) error {
	res, err := s.db.Exec(
		`INSERT INTO moves (run_id, src, dst, kind, reason, moved_at) VALUES (?, ?, ?, ?, ?, ?)`,
		m.RunID, m.Src, m.Dst, m.Kind, m.Reason, m.MovedAt,
	)
	if err != nil {
		return fmt.Errorf("recording move: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading move id: %w", err)
	}
	m.ID = id
	return nil
}

// MovesForRun returns the moves of a run in the order they were applied.
func (s *SQLiteDatabase) MovesForRun(runID int64) ([]*Move, error) {
	rows, err := s.db.Query(
		`SELECT id, run_id, src, dst, kind, reason, moved_at FROM moves WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing moves: %w", err)
	}
	defer rows.Close()

	var moves []*Move
	for rows.Next() {
		var m Move
		if err := rows.Scan(&m.ID, &m.RunID, &m.Src, &m.Dst, &m.Kind, &m.Reason, &m.MovedAt); err != nil {
			return nil, fmt.Errorf("scanning move: %w", err)
		}
		moves = append(moves, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing moves: %w", err)
	}
	return moves, nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
