package sss

import (
	"time"

	"github.com/google/uuid"

	"sss-go/internal/database"
)

// Logger provides structured logging for the service layer.
// The args follow slog conventions: alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NopLogger discards everything.
type NopLogger struct{}

func NewNopLogger() *NopLogger { return &NopLogger{} }

func (*NopLogger) Debug(string, ...any) {}
func (*NopLogger) Info(string, ...any)  {}
func (*NopLogger) Warn(string, ...any)  {}
func (*NopLogger) Error(string, ...any) {}

// Clock abstracts time retrieval so journal timestamps are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator produces run UUIDs.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }

// Database is the run journal.
type Database interface {
	// CreateRun opens a run in the running state.
	CreateRun(uuid, operation, root, parameters string, startedAt time.Time) (*database.Run, error)

	// FinishRun sets the final status of a run.
	FinishRun(id int64, status string, finishedAt time.Time) error

	// RecordMove journals one applied relocation and sets m.ID.
	RecordMove(m *database.Move) error

	// GetRun returns nil, nil when the run does not exist.
	GetRun(id int64) (*database.Run, error)

	// ListRuns returns runs newest first.
	ListRuns(limit int) ([]*database.Run, error)

	MovesForRun(runID int64) ([]*database.Move, error)
}

// Scanner discovers candidate files below a directory.
type Scanner interface {
	FindFiles(root string, recursive bool) ([]string, error)
}

var _ Database = (*database.SQLiteDatabase)(nil)
