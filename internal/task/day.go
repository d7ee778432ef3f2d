package task

import (
	"cmp"
	"slices"
	"time"

	"github.com/jborjas31/my-scheduler/internal/dateutil"
)

// Day holds all tasks stored under a single calendar date.
type Day struct {
	Date  time.Time
	tasks []*Task // sorted by StartTime
}

// NewDay creates a Day for the given date.
func NewDay(date time.Time) *Day {
	return &Day{
		Date:  dateutil.TruncateToDay(date),
		tasks: make([]*Task, 0),
	}
}

// NewDayWithTasks creates a Day from a slice of tasks. Overlapping tasks are
// allowed; the day keeps them for grouping.
func NewDayWithTasks(date time.Time, tasks []*Task) *Day {
	d := NewDay(date)
	for _, t := range tasks {
		d.AddTask(t)
	}
	return d
}

// Tasks returns a copy of the task slice.
func (d *Day) Tasks() []*Task {
	result := make([]*Task, len(d.tasks))
	copy(result, d.tasks)
	return result
}

// AddTask adds a task, keeping the day sorted by start time.
// Tasks starting at the same minute keep insertion order.
func (d *Day) AddTask(t *Task) {
	if t == nil {
		return
	}
	d.tasks = append(d.tasks, t)
	slices.SortStableFunc(d.tasks, func(a, b *Task) int {
		return cmp.Compare(a.StartTime, b.StartTime)
	})
}

// Overlapping returns the tasks a candidate span would overlap, skipping
// exceptID when it is non-empty.
func (d *Day) Overlapping(start, end int, exceptID string) []*Task {
	return FindOverlappingExcept(NewInterval(start, end), d.tasks, exceptID)
}

// Groups returns the day's overlap groups in start order.
func (d *Day) Groups() [][]*Task {
	return GroupByOverlap(d.tasks)
}

// DayStats holds statistics for a single day.
type DayStats struct {
	TotalTasks       int
	CompletedTasks   int
	FixedTasks       int
	CrossingTasks    int
	ScheduledMinutes int
	FixedMinutes     int
}

// CompletedPercent returns the share of tasks marked done.
func (s DayStats) CompletedPercent() int {
	if s.TotalTasks == 0 {
		return 0
	}
	return (s.CompletedTasks * 100) / s.TotalTasks
}

// Stats calculates statistics for the day.
func (d *Day) Stats() DayStats {
	var stats DayStats
	for _, t := range d.tasks {
		stats.TotalTasks++
		stats.ScheduledMinutes += t.Duration
		if t.Completed {
			stats.CompletedTasks++
		}
		if t.IsFixed() {
			stats.FixedTasks++
			stats.FixedMinutes += t.Duration
		}
		if t.Crosses() {
			stats.CrossingTasks++
		}
	}
	return stats
}
