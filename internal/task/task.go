// Package task defines the core domain types and the time-interval engine
// of the scheduler: validation, midnight handling, overlap detection,
// overlap grouping and dashboard classification.
package task

import (
	"errors"
	"fmt"
	"time"

	"github.com/jborjas31/my-scheduler/internal/dateutil"
)

// MinutesPerDay is the size of the minute-of-day ring.
const MinutesPerDay = 24 * 60

// Duration bounds enforced on every create and update.
const (
	MinDurationMinutes = 5
	MaxDurationMinutes = 18 * 60
)

// SchemaVersion is stored with every new task.
const SchemaVersion = 1

// Domain errors.
var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrInvalidPriority = errors.New("priority must be 'fixed' or 'flexible'")
	ErrCorruptedTask   = errors.New("corrupted task record")
)

// Priority controls whether a task can become overdue.
type Priority string

const (
	PriorityFixed    Priority = "fixed"
	PriorityFlexible Priority = "flexible"
)

// Valid returns true if the priority is a known value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityFixed, PriorityFlexible:
		return true
	default:
		return false
	}
}

// ParsePriority converts user input into a Priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}

// Task is a time-boxed entry on a single day's schedule.
// StartTime and EndTime are minutes since local midnight; EndTime <= StartTime
// means the task runs past midnight into the next calendar day.
type Task struct {
	ID              string
	Name            string
	StartTime       int
	EndTime         int
	Priority        Priority
	Completed       bool
	Date            time.Time // local day the task starts on
	CrossesMidnight bool
	Duration        int
	CreatedAt       time.Time
	Version         int
}

// Derive computes the stored fields that follow from a start/end pair.
// Every write path and the storage read-repair use this one rule.
func Derive(start, end int) (crossesMidnight bool, duration int) {
	if end <= start {
		return true, (MinutesPerDay - start) + end
	}
	return false, end - start
}

// New creates a Task through Validate. The returned task has no ID;
// the repository assigns one on create.
func New(name string, priority Priority, date time.Time, start, end int, createdAt time.Time) (*Task, error) {
	res := Validate(name, start, end, priority)
	if err := res.Err(); err != nil {
		return nil, err
	}
	return res.Task(priority, date, createdAt), nil
}

// Task builds a Task from a successful validation. It is the only place a
// new Task gets its fields.
func (r Result) Task(priority Priority, date, createdAt time.Time) *Task {
	return &Task{
		Name:            r.Name,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		Priority:        priority,
		Date:            dateutil.TruncateToDay(date),
		CrossesMidnight: r.CrossesMidnight,
		Duration:        r.DurationMinutes,
		CreatedAt:       createdAt,
		Version:         SchemaVersion,
	}
}

// Crosses reports whether the task wraps past midnight, trusting either the
// stored flag or the raw bounds.
func (t *Task) Crosses() bool {
	return t.CrossesMidnight || t.EndTime <= t.StartTime
}

// Interval returns the ring interval the task occupies.
func (t *Task) Interval() Interval {
	return Interval{Start: t.StartTime, End: t.EndTime, CrossesMidnight: t.Crosses()}
}

// IsFixed returns true if the task has fixed priority.
func (t *Task) IsFixed() bool {
	return t.Priority == PriorityFixed
}

// DateString returns the storage key of the task's day.
func (t *Task) DateString() string {
	return dateutil.DateString(t.Date)
}

// TimeRange returns the human-readable span, e.g. "11:00 PM - 1:00 AM (+1 day)".
func (t *Task) TimeRange() string {
	return FormatRange(t.StartTime, t.EndTime)
}

// Clone returns a shallow copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	return &c
}

// SetTimes replaces the bounds and re-derives the stored fields.
func (t *Task) SetTimes(start, end int) {
	t.StartTime = start
	t.EndTime = end
	t.CrossesMidnight, t.Duration = Derive(start, end)
}

// Repair checks a task read from storage and back-fills fields that legacy
// records may lack. It reports whether anything changed. A record whose bounds
// are outside the day or whose name is empty is corrupted and cannot be repaired.
func (t *Task) Repair() (bool, error) {
	if t.Name == "" {
		return false, fmt.Errorf("%w: %s: missing name", ErrCorruptedTask, t.ID)
	}
	if !validMinute(t.StartTime) || !validMinute(t.EndTime) {
		return false, fmt.Errorf("%w: %s: time out of range (%d-%d)", ErrCorruptedTask, t.ID, t.StartTime, t.EndTime)
	}
	crosses, duration := Derive(t.StartTime, t.EndTime)
	changed := t.CrossesMidnight != crosses || t.Duration != duration
	t.CrossesMidnight = crosses
	t.Duration = duration
	if !t.Priority.Valid() {
		t.Priority = PriorityFlexible
		changed = true
	}
	if t.Version == 0 {
		t.Version = SchemaVersion
	}
	return changed, nil
}

// SizeClass buckets a task by duration for rendering density.
type SizeClass string

const (
	SizeTiny   SizeClass = "tiny"
	SizeShort  SizeClass = "short"
	SizeMedium SizeClass = "medium"
	SizeLong   SizeClass = "long"
)

// SizeOf returns the size class for a duration in minutes.
func SizeOf(duration int) SizeClass {
	switch {
	case duration < 30:
		return SizeTiny
	case duration < 60:
		return SizeShort
	case duration < 120:
		return SizeMedium
	default:
		return SizeLong
	}
}

func validMinute(m int) bool {
	return m >= 0 && m < MinutesPerDay
}
