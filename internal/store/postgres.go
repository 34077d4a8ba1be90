package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/fakeyudi/punchclock/internal/task"
)

// opTimeout bounds every remote call so a network stall cannot freeze the
// caller.
const opTimeout = 3 * time.Second

// PostgresStore is the optional remote backend, mirroring the CSV file in a
// `tasks` table. A null end_time marks the open row.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects using the given DSN (DATABASE_URL form) and
// creates the schema if needed. Connection and schema setup are bounded by
// opTimeout; an unreachable server fails here rather than on first write.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			task_name TEXT NOT NULL,
			category TEXT NOT NULL,
			start_time TIMESTAMPTZ NOT NULL,
			end_time TIMESTAMPTZ,
			duration_seconds BIGINT
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_open ON tasks(start_time) WHERE end_time IS NULL;
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Append inserts rec, open or closed.
func (s *PostgresStore) Append(rec task.Record) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var end sql.NullTime
	var dur sql.NullInt64
	if rec.EndTime != nil {
		end = sql.NullTime{Time: *rec.EndTime, Valid: true}
		dur = sql.NullInt64{Int64: rec.DurationSeconds, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, task_name, category, start_time, end_time, duration_seconds)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.ID, rec.Name, string(rec.Category), rec.StartTime, end, dur)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

// UpdateLast closes the open row matching rec.ID, or the most recent open row
// when the ID is unknown to the backend. Falls back to an insert when no open
// row exists.
func (s *PostgresStore) UpdateLast(rec task.Record) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET end_time = $2, duration_seconds = $3
		WHERE id = $1 AND end_time IS NULL
	`, rec.ID, rec.EndTime, rec.DurationSeconds)
	if err != nil {
		return fmt.Errorf("closing task: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}

	res, err = s.db.ExecContext(ctx, `
		UPDATE tasks SET end_time = $1, duration_seconds = $2
		WHERE id = (
			SELECT id FROM tasks WHERE end_time IS NULL
			ORDER BY start_time DESC LIMIT 1
		)
	`, rec.EndTime, rec.DurationSeconds)
	if err != nil {
		return fmt.Errorf("closing task: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	return s.Append(rec)
}

// LoadAll returns every completed record, oldest first.
func (s *PostgresStore) LoadAll() ([]task.Record, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task_name, category, start_time, end_time, duration_seconds
		FROM tasks
		WHERE end_time IS NOT NULL
		ORDER BY end_time ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	defer rows.Close()

	var recs []task.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	return recs, nil
}

// LoadOpenTask returns the most recent open row, or ErrNoOpenTask.
func (s *PostgresStore) LoadOpenTask() (*task.Record, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, task_name, category, start_time, end_time, duration_seconds
		FROM tasks
		WHERE end_time IS NULL
		ORDER BY start_time DESC
		LIMIT 1
	`)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoOpenTask
		}
		return nil, err
	}
	return &rec, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (task.Record, error) {
	var rec task.Record
	var cat string
	var end sql.NullTime
	var dur sql.NullInt64
	if err := s.Scan(&rec.ID, &rec.Name, &cat, &rec.StartTime, &end, &dur); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return task.Record{}, err
		}
		return task.Record{}, fmt.Errorf("scanning task row: %w", err)
	}
	rec.Category = task.ParseCategory(cat)
	if end.Valid {
		t := end.Time
		rec.EndTime = &t
		rec.DurationSeconds = dur.Int64
	}
	return rec, nil
}
