package task

import (
	"context"
	"time"
)

// TaskUpdate carries the fields of a partial update. Nil fields are left
// unchanged. When either time changes, the stored derived fields are
// recomputed with Derive.
type TaskUpdate struct {
	Name      *string
	StartTime *int
	EndTime   *int
	Priority  *Priority
	Completed *bool
}

// Empty reports whether the update changes nothing.
func (u TaskUpdate) Empty() bool {
	return u.Name == nil && u.StartTime == nil && u.EndTime == nil && u.Priority == nil && u.Completed == nil
}

// TouchesTimes reports whether the update moves the task.
func (u TaskUpdate) TouchesTimes() bool {
	return u.StartTime != nil || u.EndTime != nil
}

// Apply returns a copy of t with the update applied.
func (u TaskUpdate) Apply(t *Task) *Task {
	c := t.Clone()
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Priority != nil {
		c.Priority = *u.Priority
	}
	if u.Completed != nil {
		c.Completed = *u.Completed
	}
	if u.TouchesTimes() {
		start, end := c.StartTime, c.EndTime
		if u.StartTime != nil {
			start = *u.StartTime
		}
		if u.EndTime != nil {
			end = *u.EndTime
		}
		c.SetTimes(start, end)
	}
	return c
}

// Repository defines the storage interface for tasks.
type Repository interface {
	// ListTasksForDate returns the tasks stored under date, sorted by start time.
	// Legacy records are repaired; corrupted records are skipped.
	ListTasksForDate(ctx context.Context, date time.Time) ([]*Task, error)

	// GetTask retrieves a task by ID. Returns ErrTaskNotFound if missing.
	GetTask(ctx context.Context, id string) (*Task, error)

	// CreateTask stores a new task and sets its ID.
	CreateTask(ctx context.Context, task *Task) error

	// UpdateTask applies a partial update to a task.
	UpdateTask(ctx context.Context, id string, update TaskUpdate) error

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, id string) error

	// ToggleCompletion flips the completed flag and returns the new value.
	ToggleCompletion(ctx context.Context, id string) (bool, error)

	// Close releases any resources held by the repository.
	Close() error
}
