// Package ledger owns the task-lifecycle state machine: the ordered list of
// completed tasks plus the single optional running task. Every mutation goes
// through one mutex, so user commands and the inactivity monitor can never
// interleave destructively.
package ledger

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fakeyudi/punchclock/internal/store"
	"github.com/fakeyudi/punchclock/internal/task"
)

// ErrEmptyName is returned by Start when the task name is empty after
// trimming.
var ErrEmptyName = errors.New("task name is empty")

// ReasonInactivity is the close reason passed by the inactivity monitor.
const ReasonInactivity = "inactivity"

// Ledger is the in-memory source of truth for tracked tasks. The store holds
// a durable mirror; on conflict the ledger wins until the next successful
// write.
type Ledger struct {
	mu        sync.Mutex
	store     store.Store
	running   *task.Running
	completed []task.Record
	now       func() time.Time
}

// New builds a Ledger backed by st, loading completed history and recovering
// an unclosed task from a prior run. A recovered task resumes with its
// activity clock reset to load time, so the idle threshold does not fire
// immediately. now may be nil, in which case time.Now is used.
func New(st store.Store, now func() time.Time) (*Ledger, error) {
	if now == nil {
		now = time.Now
	}
	l := &Ledger{store: st, now: now}

	completed, err := st.LoadAll()
	if err != nil {
		return nil, err
	}
	l.completed = completed

	open, err := st.LoadOpenTask()
	if err != nil {
		if !errors.Is(err, store.ErrNoOpenTask) {
			return nil, err
		}
		return l, nil
	}
	if open.ID == "" {
		// CSV rows carry no ID; assign one so the remote mirror can key it.
		open.ID = uuid.New().String()
	}
	l.running = &task.Running{Record: *open, LastActivity: now()}
	return l, nil
}

// Start begins tracking a new task. If a task is already running it is first
// closed through the same path as Stop (auto-switch); the closed record, if
// any, is returned alongside the new one. An empty name after trimming fails
// with ErrEmptyName and changes nothing.
func (l *Ledger) Start(name string, cat task.Category) (task.Record, *task.Record, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return task.Record{}, nil, ErrEmptyName
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	var closed *task.Record
	if l.running != nil {
		rec, err := l.closeLocked(now)
		if err != nil {
			return task.Record{}, rec, err
		}
		closed = rec
	}

	rec := task.Record{
		ID:        uuid.New().String(),
		Name:      name,
		Category:  cat,
		StartTime: now,
	}
	if err := l.store.Append(rec); err != nil {
		return task.Record{}, closed, err
	}
	l.running = &task.Running{Record: rec, LastActivity: now}
	return rec, closed, nil
}

// Stop closes the running task, persists it and returns the completed
// record. With no running task it is a no-op returning nil: stopping when
// nothing runs is expected idle state, not an error.
func (l *Ledger) Stop() (*task.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running == nil {
		return nil, nil
	}
	return l.closeLocked(l.now())
}

// ForceClose has the same effect as Stop but is invoked on the user's behalf
// (inactivity, shutdown) rather than by the user. Always succeeds with no
// running task.
func (l *Ledger) ForceClose(reason string) (*task.Record, error) {
	_ = reason // recorded by the caller's diagnostics, not the ledger
	return l.Stop()
}

// CloseIfIdle closes the running task when no activity has been seen for at
// least threshold. It is the inactivity monitor's entry point: the state
// check and the close happen under the same lock as user commands, and once
// closed there is nothing left to fire on until a new Start.
func (l *Ledger) CloseIfIdle(threshold time.Duration) (*task.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running == nil {
		return nil, nil
	}
	now := l.now()
	if now.Sub(l.running.LastActivity) < threshold {
		return nil, nil
	}
	return l.closeLocked(now)
}

// closeLocked converts the running task into a completed record, appends it
// to the ledger and persists it. The in-memory state is updated even when the
// write fails: the ledger remains the source of truth and the error is
// surfaced to the caller.
func (l *Ledger) closeLocked(end time.Time) (*task.Record, error) {
	rec := l.running.Record
	rec.Close(end)
	l.completed = append(l.completed, rec)
	l.running = nil
	if err := l.store.UpdateLast(rec); err != nil {
		return &rec, err
	}
	return &rec, nil
}

// Touch marks the running task as still being worked, resetting the
// inactivity clock. No-op when idle.
func (l *Ledger) Touch() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running != nil {
		l.running.LastActivity = l.now()
	}
}

// Current returns a snapshot of the running task, or nil when idle. Reading
// state does not count as activity.
func (l *Ledger) Current() *task.Running {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running == nil {
		return nil
	}
	r := *l.running
	return &r
}

// Completed returns a copy of the completed records in completion order.
func (l *Ledger) Completed() []task.Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]task.Record, len(l.completed))
	copy(out, l.completed)
	return out
}
