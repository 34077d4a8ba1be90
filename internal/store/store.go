package store

import (
	"errors"

	"github.com/fakeyudi/punchclock/internal/task"
)

// ErrNoOpenTask is returned by LoadOpenTask when no unclosed task exists.
var ErrNoOpenTask = errors.New("no open task")

// Store persists task records. The ledger treats it as a durable mirror: the
// in-memory state wins on conflict until the next successful write.
type Store interface {
	// Append writes a new record. The record may be open (nil EndTime) so a
	// crash mid-task leaves something to recover.
	Append(rec task.Record) error
	// UpdateLast replaces the most recent open record with its closed form.
	// If the backend holds no matching open record, the closed record is
	// appended instead.
	UpdateLast(rec task.Record) error
	// LoadAll returns every completed record in completion order.
	LoadAll() ([]task.Record, error)
	// LoadOpenTask returns the unclosed record from a prior run, or
	// ErrNoOpenTask if there is none.
	LoadOpenTask() (*task.Record, error)
}
