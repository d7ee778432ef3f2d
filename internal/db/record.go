package db

import (
	"fmt"
	"time"

	"github.com/jborjas31/my-scheduler/internal/dateutil"
	"github.com/jborjas31/my-scheduler/internal/task"
)

// record is the stored shape of a task. Pointer fields may be missing on
// legacy documents and rows; decode decides whether they can be repaired.
type record struct {
	Name            *string `firestore:"name"`
	StartTime       *int64  `firestore:"startTime"`
	EndTime         *int64  `firestore:"endTime"`
	Priority        string  `firestore:"priority"`
	Completed       bool    `firestore:"completed"`
	Date            string  `firestore:"date"`
	CrossesMidnight *bool   `firestore:"crossesMidnight"`
	Duration        *int64  `firestore:"duration"`
	CreatedAt       string  `firestore:"createdAt"`
	Version         int64   `firestore:"version"`
}

// newRecord converts a task into its stored shape with derived fields
// recomputed from the bounds.
func newRecord(t *task.Task) record {
	crosses, duration := task.Derive(t.StartTime, t.EndTime)
	name := t.Name
	start, end := int64(t.StartTime), int64(t.EndTime)
	dur := int64(duration)
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	version := int64(t.Version)
	if version == 0 {
		version = task.SchemaVersion
	}
	return record{
		Name:            &name,
		StartTime:       &start,
		EndTime:         &end,
		Priority:        string(t.Priority),
		Completed:       t.Completed,
		Date:            dateutil.DateString(t.Date),
		CrossesMidnight: &crosses,
		Duration:        &dur,
		CreatedAt:       createdAt.UTC().Format(time.RFC3339),
		Version:         version,
	}
}

// decode turns a stored record into a Task. It reports whether the derived
// fields had to be repaired. Records without a name or bounds are corrupted.
func decode(id string, r record) (*task.Task, bool, error) {
	if r.Name == nil || *r.Name == "" || r.StartTime == nil || r.EndTime == nil {
		return nil, false, fmt.Errorf("%w: %s: missing name or times", task.ErrCorruptedTask, id)
	}

	date, err := parseDate(r.Date)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", task.ErrCorruptedTask, id, err)
	}

	t := &task.Task{
		ID:        id,
		Name:      *r.Name,
		StartTime: int(*r.StartTime),
		EndTime:   int(*r.EndTime),
		Priority:  task.Priority(r.Priority),
		Completed: r.Completed,
		Date:      date,
		Version:   int(r.Version),
	}
	if r.CrossesMidnight != nil {
		t.CrossesMidnight = *r.CrossesMidnight
	}
	if r.Duration != nil {
		t.Duration = int(*r.Duration)
	}
	if r.CreatedAt != "" {
		if ts, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
			t.CreatedAt = ts
		}
	}

	repaired, err := t.Repair()
	if err != nil {
		return nil, false, err
	}
	missing := r.CrossesMidnight == nil || r.Duration == nil
	return t, repaired || missing, nil
}

// parseDate parses a date string in various formats storage might return.
// Date-only values are parsed in the local timezone to match time.Now() behavior.
func parseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(dateutil.DateLayout, s, time.Local); err == nil {
		return t, nil
	}

	// SQLite may hand back DATE columns as "2006-01-02T00:00:00Z"
	if len(s) == 20 && s[10] == 'T' && s[19] == 'Z' {
		if t, err := time.ParseInLocation(dateutil.DateLayout, s[:10], time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}
