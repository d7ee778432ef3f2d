// Package db provides the SQLite and Cloud Firestore task stores.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/jborjas31/my-scheduler/internal/dateutil"
	"github.com/jborjas31/my-scheduler/internal/logging"
	"github.com/jborjas31/my-scheduler/internal/task"
)

// SQLite implements task.Repository using SQLite.
type SQLite struct {
	db  *sql.DB
	log logrus.FieldLogger
}

// Option configures a repository.
type Option func(*options)

type options struct {
	log   logrus.FieldLogger
	retry RetryPolicy
}

// WithLogger sets the logger used for read-repair and skip warnings.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) { o.log = l }
}

// WithRetryPolicy overrides how remote reads are retried.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(o *options) { o.retry = p }
}

func buildOptions(opts []Option) options {
	o := options{log: logging.Discard(), retry: DefaultRetryPolicy}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New creates a new SQLite repository and runs migrations.
func New(path string, opts ...Option) (*SQLite, error) {
	o := buildOptions(opts)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db, log: o.log.WithField("store", "sqlite")}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

const selectColumns = `
	SELECT id, name, start_time, end_time, priority, completed, date,
	       crosses_midnight, duration, created_at, version
	FROM tasks
`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord reads one row into its stored shape.
func scanRecord(row rowScanner) (string, record, error) {
	var (
		id        string
		name      sql.NullString
		start     sql.NullInt64
		end       sql.NullInt64
		priority  string
		completed bool
		date      string
		crosses   sql.NullBool
		duration  sql.NullInt64
		createdAt sql.NullString
		version   int64
	)
	if err := row.Scan(&id, &name, &start, &end, &priority, &completed, &date,
		&crosses, &duration, &createdAt, &version); err != nil {
		return "", record{}, err
	}

	r := record{
		Priority:  priority,
		Completed: completed,
		Date:      date,
		CreatedAt: createdAt.String,
		Version:   version,
	}
	if name.Valid {
		r.Name = &name.String
	}
	if start.Valid {
		r.StartTime = &start.Int64
	}
	if end.Valid {
		r.EndTime = &end.Int64
	}
	if crosses.Valid {
		r.CrossesMidnight = &crosses.Bool
	}
	if duration.Valid {
		r.Duration = &duration.Int64
	}
	return id, r, nil
}

// ListTasksForDate returns the tasks stored under date, sorted by start time.
// Rows missing derived fields are repaired in memory; corrupted rows are skipped.
func (s *SQLite) ListTasksForDate(ctx context.Context, date time.Time) ([]*task.Task, error) {
	query := selectColumns + `WHERE date = ? ORDER BY start_time, created_at`

	rows, err := s.db.QueryContext(ctx, query, dateutil.DateString(date))
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*task.Task
	for rows.Next() {
		id, rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		t, repaired, err := decode(id, rec)
		if err != nil {
			s.log.WithError(err).WithField("task_id", id).Warn("skipping corrupted task")
			continue
		}
		if repaired {
			s.log.WithField("task_id", id).Debug("repaired legacy task fields")
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}

	return tasks, nil
}

// GetTask retrieves a task by ID.
func (s *SQLite) GetTask(ctx context.Context, id string) (*task.Task, error) {
	return getTask(ctx, s.db, id)
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getTask(ctx context.Context, q querier, id string) (*task.Task, error) {
	rid, rec, err := scanRecord(q.QueryRowContext(ctx, selectColumns+`WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, task.ErrTaskNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying task: %w", err)
	}
	t, _, err := decode(rid, rec)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// CreateTask stores a new task and assigns it a UUID.
func (s *SQLite) CreateTask(ctx context.Context, t *task.Task) error {
	id := uuid.NewString()
	rec := newRecord(t)

	query := `
		INSERT INTO tasks (
			id, name, start_time, end_time, priority, completed, date,
			crosses_midnight, duration, created_at, version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		id,
		*rec.Name,
		*rec.StartTime,
		*rec.EndTime,
		rec.Priority,
		rec.Completed,
		rec.Date,
		*rec.CrossesMidnight,
		*rec.Duration,
		rec.CreatedAt,
		rec.Version,
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}

	t.ID = id
	t.CrossesMidnight = *rec.CrossesMidnight
	t.Duration = int(*rec.Duration)
	t.Version = int(rec.Version)
	s.log.WithFields(logrus.Fields{"task_id": id, "date": rec.Date}).Debug("task created")
	return nil
}

// UpdateTask applies a partial update, re-deriving the stored fields.
func (s *SQLite) UpdateTask(ctx context.Context, id string, u task.TaskUpdate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := getTask(ctx, tx, id)
	if err != nil {
		return err
	}
	updated := u.Apply(current)

	query := `
		UPDATE tasks
		SET name = ?, start_time = ?, end_time = ?, priority = ?, completed = ?,
		    crosses_midnight = ?, duration = ?
		WHERE id = ?
	`
	if _, err := tx.ExecContext(ctx, query,
		updated.Name,
		updated.StartTime,
		updated.EndTime,
		updated.Priority,
		updated.Completed,
		updated.CrossesMidnight,
		updated.Duration,
		id,
	); err != nil {
		return fmt.Errorf("updating task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// DeleteTask removes a task.
func (s *SQLite) DeleteTask(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("task %s: %w", id, task.ErrTaskNotFound)
	}
	return nil
}

// ToggleCompletion flips the completed flag and returns the new value.
func (s *SQLite) ToggleCompletion(ctx context.Context, id string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var completed bool
	err = tx.QueryRowContext(ctx, `SELECT completed FROM tasks WHERE id = ?`, id).Scan(&completed)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("task %s: %w", id, task.ErrTaskNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("reading completion: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE tasks SET completed = ? WHERE id = ?`, !completed, id); err != nil {
		return false, fmt.Errorf("updating completion: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing transaction: %w", err)
	}
	return !completed, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}
