package app

import "time"

// Operation is one CLI invocation. Its ID tags every log line written
// while it runs; mutating commands additionally get a journal run.
type Operation struct {
	ID        string
	Name      string
	Status    string // "success" or "error"
	StartedAt time.Time
}

// NewOperation creates an operation that started at now.
func NewOperation(name string, now time.Time) *Operation {
	return &Operation{
		ID:        now.UTC().Format("20060102T150405Z"),
		Name:      name,
		Status:    "success",
		StartedAt: now,
	}
}

// Track marks the operation failed when err is non-nil and returns err.
func (op *Operation) Track(err error) error {
	if err != nil {
		op.Status = "error"
	}
	return err
}

// Failed reports whether any tracked call returned an error.
func (op *Operation) Failed() bool {
	return op.Status == "error"
}
