// Package monitor runs the background inactivity check that auto-closes an
// abandoned task.
package monitor

import (
	"context"
	"log"
	"time"

	"github.com/fakeyudi/punchclock/internal/task"
)

// Closer is the slice of the ledger the monitor needs. CloseIfIdle performs
// the idle check and the close inside the ledger's own lock, so the monitor
// never races a user command.
type Closer interface {
	CloseIfIdle(threshold time.Duration) (*task.Record, error)
}

// Monitor polls the ledger on a wall-clock schedule and closes the running
// task once it has been idle for Threshold. It holds no state of its own:
// after a close it simply finds nothing to do until a new task starts.
type Monitor struct {
	Ledger    Closer
	Threshold time.Duration
	Poll      time.Duration
	Logger    *log.Logger
	// OnClose, if set, is called with each auto-closed record. Used by the
	// front-ends to refresh their display.
	OnClose func(rec task.Record)
}

// Run polls until ctx is cancelled. It never blocks on anything but the
// ticker; the close itself is bounded by the store's write timeouts.
func (m *Monitor) Run(ctx context.Context) {
	poll := m.Poll
	if poll <= 0 {
		poll = 30 * time.Second
	}
	t := time.NewTicker(poll)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			rec, err := m.Ledger.CloseIfIdle(m.Threshold)
			if err != nil && m.Logger != nil {
				m.Logger.Printf("auto-close failed: %v", err)
			}
			if rec != nil {
				if m.Logger != nil {
					m.Logger.Printf("task %q auto-closed after %s of inactivity", rec.Name, m.Threshold)
				}
				if m.OnClose != nil {
					m.OnClose(*rec)
				}
			}
		}
	}
}
