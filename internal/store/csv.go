package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fakeyudi/punchclock/internal/task"
)

// TimeLayout is the fixed local-time format used in the CSV file.
const TimeLayout = "2006-01-02 15:04:05"

var csvHeader = []string{"task_name", "category", "start_time", "end_time", "duration_seconds"}

// CSVStore is the local flat-file backend. It is always available and
// synchronous: Append flushes and syncs before returning so a crash never
// leaves a partial row.
type CSVStore struct {
	path string
}

// NewCSVStore returns a CSVStore writing to path, creating the parent
// directory and the file (with its header row) if needed.
func NewCSVStore(path string) (*CSVStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	s := &CSVStore{path: path}
	if err := s.ensureHeader(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the location of the underlying CSV file.
func (s *CSVStore) Path() string {
	return s.path
}

// ensureHeader writes the header row when the file is absent or empty.
func (s *CSVStore) ensureHeader() error {
	info, err := os.Stat(s.path)
	if err == nil && info.Size() > 0 {
		return nil
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("creating task file: %w", err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("writing task file header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing task file header: %w", err)
	}
	return f.Sync()
}

// Append writes rec as one full row, then flushes and syncs.
func (s *CSVStore) Append(rec task.Record) error {
	if err := s.ensureHeader(); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening task file: %w", err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(formatRow(rec)); err != nil {
		return fmt.Errorf("writing task row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing task row: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing task file: %w", err)
	}
	return nil
}

// UpdateLast replaces the most recent open row with the closed form of rec.
// The whole file is rewritten via a temp file + os.Rename so the update is
// atomic. If no open row exists, rec is appended instead.
func (s *CSVStore) UpdateLast(rec task.Record) error {
	rows, err := s.readRows()
	if err != nil {
		return err
	}

	replaced := false
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i][3] == "" { // end_time column
			rows[i] = formatRow(rec)
			replaced = true
			break
		}
	}
	if !replaced {
		return s.Append(rec)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "tasks-*.csv.tmp")
	if err != nil {
		return fmt.Errorf("updating task file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	w := csv.NewWriter(tmp)
	if err = w.Write(csvHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("updating task file: %w", err)
	}
	if err = w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("updating task file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("updating task file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("updating task file: %w", err)
	}
	if err = os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("updating task file: %w", err)
	}
	return nil
}

// LoadAll returns every completed record, in file (completion) order.
func (s *CSVStore) LoadAll() ([]task.Record, error) {
	rows, err := s.readRows()
	if err != nil {
		return nil, err
	}
	var recs []task.Record
	for _, row := range rows {
		if row[3] == "" {
			continue // open row, not completed
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// LoadOpenTask returns the trailing open row, if any. Only the last row can
// be open: the ledger always closes the running task before starting another.
func (s *CSVStore) LoadOpenTask() (*task.Record, error) {
	rows, err := s.readRows()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoOpenTask
	}
	last := rows[len(rows)-1]
	if last[3] != "" {
		return nil, ErrNoOpenTask
	}
	rec, err := parseRow(last)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// readRows reads all data rows, skipping the header.
func (s *CSVStore) readRows() ([][]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading task file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing task file: %w", err)
	}
	if len(all) <= 1 {
		return nil, nil
	}
	return all[1:], nil
}

func formatRow(rec task.Record) []string {
	end := ""
	dur := ""
	if rec.EndTime != nil {
		end = rec.EndTime.Local().Format(TimeLayout)
		dur = strconv.FormatInt(rec.DurationSeconds, 10)
	}
	return []string{
		rec.Name,
		string(rec.Category),
		rec.StartTime.Local().Format(TimeLayout),
		end,
		dur,
	}
}

func parseRow(row []string) (task.Record, error) {
	if len(row) < 5 {
		return task.Record{}, fmt.Errorf("malformed task row: %d columns", len(row))
	}
	start, err := time.ParseInLocation(TimeLayout, row[2], time.Local)
	if err != nil {
		return task.Record{}, fmt.Errorf("parsing start time %q: %w", row[2], err)
	}
	rec := task.Record{
		Name:      row[0],
		Category:  task.ParseCategory(row[1]),
		StartTime: start,
	}
	if row[3] != "" {
		end, err := time.ParseInLocation(TimeLayout, row[3], time.Local)
		if err != nil {
			return task.Record{}, fmt.Errorf("parsing end time %q: %w", row[3], err)
		}
		rec.EndTime = &end
		if row[4] != "" {
			dur, err := strconv.ParseInt(row[4], 10, 64)
			if err != nil {
				return task.Record{}, fmt.Errorf("parsing duration %q: %w", row[4], err)
			}
			rec.DurationSeconds = dur
		}
	}
	return rec, nil
}
