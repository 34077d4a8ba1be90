package store

import (
	"errors"
	"log"
	"sync/atomic"

	"github.com/fakeyudi/punchclock/internal/task"
)

// Fallback routes every operation to the remote backend first and silently
// degrades to the local backend for the rest of the process on any remote
// failure. Remote errors are logged for diagnostics, never returned: the only
// errors a caller sees are local ones, which have no further fallback.
type Fallback struct {
	remote   Store
	local    Store
	degraded atomic.Bool
	logger   *log.Logger
}

// NewFallback wraps local with an optional remote. A nil remote means
// local-only mode from the start.
func NewFallback(remote, local Store, logger *log.Logger) *Fallback {
	f := &Fallback{remote: remote, local: local, logger: logger}
	if remote == nil {
		f.degraded.Store(true)
	}
	return f
}

// Degraded reports whether the session has fallen back to local-only
// operation.
func (f *Fallback) Degraded() bool {
	return f.degraded.Load()
}

// degrade flips the sticky degraded flag, logging the cause once.
func (f *Fallback) degrade(op string, err error) {
	if f.degraded.CompareAndSwap(false, true) && f.logger != nil {
		f.logger.Printf("remote store failed during %s, continuing with local only: %v", op, err)
	}
}

// Append writes to the remote when healthy; a failure redirects the same
// record to the local store.
func (f *Fallback) Append(rec task.Record) error {
	if !f.degraded.Load() {
		if err := f.remote.Append(rec); err == nil {
			return nil
		} else {
			f.degrade("append", err)
		}
	}
	return f.local.Append(rec)
}

// UpdateLast closes the open record on the remote when healthy; a failure
// redirects the closed record to the local store so a copy always exists.
func (f *Fallback) UpdateLast(rec task.Record) error {
	if !f.degraded.Load() {
		if err := f.remote.UpdateLast(rec); err == nil {
			return nil
		} else {
			f.degrade("update", err)
		}
	}
	return f.local.UpdateLast(rec)
}

// LoadAll prefers the remote when healthy, else reads the local store.
func (f *Fallback) LoadAll() ([]task.Record, error) {
	if !f.degraded.Load() {
		recs, err := f.remote.LoadAll()
		if err == nil {
			return recs, nil
		}
		f.degrade("load", err)
	}
	return f.local.LoadAll()
}

// LoadOpenTask prefers a remote open task over a local one: when both
// backends disagree about what was running, the remote is treated as the more
// recent source of truth. The local answer is used only when the remote has
// no open task or is unreachable.
func (f *Fallback) LoadOpenTask() (*task.Record, error) {
	if !f.degraded.Load() {
		rec, err := f.remote.LoadOpenTask()
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, ErrNoOpenTask) {
			f.degrade("recovery", err)
		}
	}
	return f.local.LoadOpenTask()
}
