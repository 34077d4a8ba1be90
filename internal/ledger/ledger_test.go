package ledger_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/fakeyudi/punchclock/internal/ledger"
	"github.com/fakeyudi/punchclock/internal/store"
	"github.com/fakeyudi/punchclock/internal/task"
)

// memStore is an in-memory Store for ledger tests. It mirrors the CSV
// backend's behavior: at most the trailing record can be open.
type memStore struct {
	recs      []task.Record
	appendErr error
	updateErr error
	appends   int
	updates   int
}

func (m *memStore) Append(rec task.Record) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appends++
	m.recs = append(m.recs, rec)
	return nil
}

func (m *memStore) UpdateLast(rec task.Record) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates++
	for i := len(m.recs) - 1; i >= 0; i-- {
		if m.recs[i].Open() {
			m.recs[i] = rec
			return nil
		}
	}
	m.recs = append(m.recs, rec)
	return nil
}

func (m *memStore) LoadAll() ([]task.Record, error) {
	var out []task.Record
	for _, r := range m.recs {
		if !r.Open() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) LoadOpenTask() (*task.Record, error) {
	if len(m.recs) == 0 || !m.recs[len(m.recs)-1].Open() {
		return nil, store.ErrNoOpenTask
	}
	r := m.recs[len(m.recs)-1]
	return &r, nil
}

// fakeClock is a manually-advanced clock.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLedger(t *testing.T) (*ledger.Ledger, *memStore, *fakeClock) {
	t.Helper()
	st := &memStore{}
	clk := &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)}
	l, err := ledger.New(st, clk.now)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l, st, clk
}

// Property: for any sequence of N starts with no intervening stop, every
// start except the final unterminated one yields exactly one completed
// record.
func TestAutoSwitchProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		st := &memStore{}
		clk := &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)}
		l, err := ledger.New(st, clk.now)
		if err != nil {
			rt.Fatalf("New: %v", err)
		}

		n := rapid.IntRange(1, 20).Draw(rt, "n")
		for i := 0; i < n; i++ {
			if _, _, err := l.Start(fmt.Sprintf("task %d", i), task.CategoryWork); err != nil {
				rt.Fatalf("Start %d: %v", i, err)
			}
			clk.advance(time.Duration(rapid.IntRange(1, 3600).Draw(rt, "gap")) * time.Second)
		}

		completed := l.Completed()
		if len(completed) != n-1 {
			rt.Fatalf("completed records: got %d, want %d", len(completed), n-1)
		}
		running := l.Current()
		if running == nil {
			rt.Fatal("expected a running task after the final start")
		}
		if running.Record.Name != fmt.Sprintf("task %d", n-1) {
			rt.Errorf("running task: got %q, want %q", running.Record.Name, fmt.Sprintf("task %d", n-1))
		}
	})
}

// Property: every completed record satisfies
// durationSeconds == endTime - startTime, and durations are never negative.
func TestDurationInvariant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		st := &memStore{}
		clk := &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)}
		l, err := ledger.New(st, clk.now)
		if err != nil {
			rt.Fatalf("New: %v", err)
		}

		n := rapid.IntRange(1, 10).Draw(rt, "n")
		for i := 0; i < n; i++ {
			if _, _, err := l.Start(fmt.Sprintf("task %d", i), task.CategoryOther); err != nil {
				rt.Fatalf("Start: %v", err)
			}
			clk.advance(time.Duration(rapid.IntRange(0, 7200).Draw(rt, "dur")) * time.Second)
			if _, err := l.Stop(); err != nil {
				rt.Fatalf("Stop: %v", err)
			}
		}

		for i, rec := range l.Completed() {
			if rec.EndTime == nil {
				rt.Fatalf("record %d: completed but EndTime nil", i)
			}
			want := int64(rec.EndTime.Sub(rec.StartTime) / time.Second)
			if rec.DurationSeconds != want {
				rt.Errorf("record %d: duration %d, want %d", i, rec.DurationSeconds, want)
			}
			if rec.DurationSeconds < 0 {
				rt.Errorf("record %d: negative duration %d", i, rec.DurationSeconds)
			}
		}
	})
}

// Auto-switch scenario: start "A" at T0, start "B" at T0+600 with no stop in
// between.
func TestAutoSwitchTiming(t *testing.T) {
	l, _, clk := newTestLedger(t)
	t0 := clk.t

	if _, _, err := l.Start("A", task.CategoryWork); err != nil {
		t.Fatalf("Start A: %v", err)
	}
	clk.advance(600 * time.Second)
	_, closed, err := l.Start("B", task.CategoryWork)
	if err != nil {
		t.Fatalf("Start B: %v", err)
	}

	if closed == nil {
		t.Fatal("expected starting B to close A")
	}
	if closed.Name != "A" || closed.DurationSeconds != 600 {
		t.Errorf("closed record: got %q/%ds, want A/600s", closed.Name, closed.DurationSeconds)
	}
	running := l.Current()
	if running == nil || running.Record.Name != "B" {
		t.Fatalf("running task: got %+v, want B", running)
	}
	if !running.Record.StartTime.Equal(t0.Add(600 * time.Second)) {
		t.Errorf("B start time: got %v, want %v", running.Record.StartTime, t0.Add(600*time.Second))
	}
}

// Stop with nothing running is a no-op, not an error.
func TestStopWhenIdleIsNoOp(t *testing.T) {
	l, st, _ := newTestLedger(t)

	rec, err := l.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil record, got %+v", rec)
	}
	if len(l.Completed()) != 0 {
		t.Errorf("ledger length changed: %d", len(l.Completed()))
	}
	if st.updates != 0 || st.appends != 0 {
		t.Errorf("idle stop touched the store: %d appends, %d updates", st.appends, st.updates)
	}
}

// ForceClose twice in a row has the same effect as calling it once.
func TestForceCloseIdempotent(t *testing.T) {
	l, _, clk := newTestLedger(t)

	if _, _, err := l.Start("Write spec", task.CategoryWork); err != nil {
		t.Fatalf("Start: %v", err)
	}
	clk.advance(time.Hour)

	first, err := l.ForceClose(ledger.ReasonInactivity)
	if err != nil {
		t.Fatalf("first ForceClose: %v", err)
	}
	if first == nil {
		t.Fatal("first ForceClose: expected a closed record")
	}

	second, err := l.ForceClose(ledger.ReasonInactivity)
	if err != nil {
		t.Fatalf("second ForceClose: %v", err)
	}
	if second != nil {
		t.Errorf("second ForceClose closed something: %+v", second)
	}
	if got := len(l.Completed()); got != 1 {
		t.Errorf("completed records: got %d, want 1", got)
	}
}

// Inactivity scenario: a task idle for the full threshold is closed exactly
// at the threshold boundary, and the check does not fire again until a new
// task starts.
func TestCloseIfIdle(t *testing.T) {
	l, _, clk := newTestLedger(t)
	t0 := clk.t

	if _, _, err := l.Start("Write spec", task.CategoryWork); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Not idle long enough yet.
	clk.advance(time.Hour)
	rec, err := l.CloseIfIdle(2 * time.Hour)
	if err != nil {
		t.Fatalf("CloseIfIdle: %v", err)
	}
	if rec != nil {
		t.Fatalf("closed too early: %+v", rec)
	}

	clk.advance(time.Hour)
	rec, err = l.CloseIfIdle(2 * time.Hour)
	if err != nil {
		t.Fatalf("CloseIfIdle: %v", err)
	}
	if rec == nil {
		t.Fatal("expected auto-close at the idle threshold")
	}
	if !rec.EndTime.Equal(t0.Add(2 * time.Hour)) {
		t.Errorf("end time: got %v, want %v", rec.EndTime, t0.Add(2*time.Hour))
	}
	if rec.DurationSeconds != 7200 {
		t.Errorf("duration: got %d, want 7200", rec.DurationSeconds)
	}
	if l.Current() != nil {
		t.Error("task still running after auto-close")
	}

	// No new task: nothing left to close.
	clk.advance(3 * time.Hour)
	rec, err = l.CloseIfIdle(2 * time.Hour)
	if err != nil {
		t.Fatalf("CloseIfIdle: %v", err)
	}
	if rec != nil {
		t.Errorf("second auto-close fired: %+v", rec)
	}
}

// Touch resets the inactivity clock so the threshold is measured from the
// last interaction, not the start.
func TestTouchResetsIdleClock(t *testing.T) {
	l, _, clk := newTestLedger(t)

	if _, _, err := l.Start("deep work", task.CategoryLearning); err != nil {
		t.Fatalf("Start: %v", err)
	}

	clk.advance(90 * time.Minute)
	l.Touch()
	clk.advance(90 * time.Minute)

	// 3h since start but only 1.5h since the touch.
	rec, err := l.CloseIfIdle(2 * time.Hour)
	if err != nil {
		t.Fatalf("CloseIfIdle: %v", err)
	}
	if rec != nil {
		t.Fatalf("closed despite recent touch: %+v", rec)
	}
}

// Current is a read-only snapshot: it must not reset the activity clock.
func TestCurrentDoesNotTouch(t *testing.T) {
	l, _, clk := newTestLedger(t)

	if _, _, err := l.Start("reading", task.CategoryLearning); err != nil {
		t.Fatalf("Start: %v", err)
	}
	clk.advance(2 * time.Hour)

	if running := l.Current(); running == nil {
		t.Fatal("expected running task")
	}

	rec, err := l.CloseIfIdle(2 * time.Hour)
	if err != nil {
		t.Fatalf("CloseIfIdle: %v", err)
	}
	if rec == nil {
		t.Error("Current reset the idle clock")
	}
}

// Empty and whitespace-only names are rejected synchronously and never
// persisted.
func TestStartEmptyNameRejected(t *testing.T) {
	l, st, _ := newTestLedger(t)

	for _, name := range []string{"", "   ", "\t\n"} {
		_, _, err := l.Start(name, task.CategoryWork)
		if !errors.Is(err, ledger.ErrEmptyName) {
			t.Errorf("Start(%q): got %v, want ErrEmptyName", name, err)
		}
	}
	if st.appends != 0 {
		t.Errorf("invalid starts were persisted: %d appends", st.appends)
	}
	if l.Current() != nil {
		t.Error("invalid start left a running task")
	}
}

// Recovery: an open task from a prior run becomes the running task with its
// activity clock reset to load time, so the idle threshold does not fire
// immediately.
func TestRecoveryResetsActivityClock(t *testing.T) {
	tPrev := time.Date(2025, 3, 9, 22, 0, 0, 0, time.Local)
	st := &memStore{recs: []task.Record{{
		ID:        "prev",
		Name:      "late night fix",
		Category:  task.CategoryWork,
		StartTime: tPrev,
	}}}

	restart := tPrev.Add(12 * time.Hour)
	clk := &fakeClock{t: restart}
	l, err := ledger.New(st, clk.now)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	running := l.Current()
	if running == nil {
		t.Fatal("expected recovered running task")
	}
	if running.Record.Name != "late night fix" {
		t.Errorf("recovered task: got %q", running.Record.Name)
	}
	if !running.LastActivity.Equal(restart) {
		t.Errorf("last activity: got %v, want reset to %v", running.LastActivity, restart)
	}

	// Well past the threshold relative to tPrev, but not relative to restart.
	rec, err := l.CloseIfIdle(2 * time.Hour)
	if err != nil {
		t.Fatalf("CloseIfIdle: %v", err)
	}
	if rec != nil {
		t.Errorf("recovered task closed immediately: %+v", rec)
	}
}

// A failing store write is surfaced to the caller; the in-memory ledger
// still records the close so state and error travel together.
func TestStopSurfacesStoreError(t *testing.T) {
	l, st, clk := newTestLedger(t)

	if _, _, err := l.Start("doomed", task.CategoryOther); err != nil {
		t.Fatalf("Start: %v", err)
	}
	clk.advance(time.Minute)

	st.updateErr = errors.New("disk full")
	rec, err := l.Stop()
	if err == nil {
		t.Fatal("expected store error from Stop")
	}
	if rec == nil {
		t.Fatal("expected the closed record alongside the error")
	}
	if l.Current() != nil {
		t.Error("running task survived a failed stop")
	}
}
