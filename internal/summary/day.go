// Package summary provides shared day summary utilities.
package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jborjas31/my-scheduler/internal/dateutil"
	"github.com/jborjas31/my-scheduler/internal/task"
)

// DaySummary holds a day's tasks and everything derived from them for display.
type DaySummary struct {
	Date      time.Time
	Tasks     []*task.Task // sorted by start time
	Groups    [][]*task.Task
	Slots     map[string]task.Slot
	Dashboard task.Dashboard
	Stats     task.DayStats
	IsToday   bool
	Now       int // minute of day the dashboard was computed at
}

// SummarizeDay builds a day summary from tasks at the given instant.
// The dashboard is only filled when date is the same day as now.
func SummarizeDay(date time.Time, tasks []*task.Task, now time.Time) *DaySummary {
	day := task.NewDayWithTasks(date, tasks)
	sorted := day.Tasks()
	groups := day.Groups()
	isToday := dateutil.IsToday(date, now)
	minutes := dateutil.MinutesOfDay(now)

	return &DaySummary{
		Date:      day.Date,
		Tasks:     sorted,
		Groups:    groups,
		Slots:     task.LayoutSlots(groups),
		Dashboard: task.Classify(sorted, minutes, isToday),
		Stats:     day.Stats(),
		IsToday:   isToday,
		Now:       minutes,
	}
}

// BuildDaySummary loads the tasks for date and summarizes them.
func BuildDaySummary(ctx context.Context, repo task.Repository, date time.Time, clock dateutil.Clock) (*DaySummary, error) {
	if clock == nil {
		clock = dateutil.SystemClock{}
	}
	if date.IsZero() {
		date = clock.Now()
	}

	tasks, err := repo.ListTasksForDate(ctx, dateutil.TruncateToDay(date))
	if err != nil {
		return nil, fmt.Errorf("fetching tasks: %w", err)
	}
	return SummarizeDay(date, tasks, clock.Now()), nil
}

// Overdue reports whether a task card is flagged overdue on this summary.
func (s *DaySummary) Overdue(t *task.Task) bool {
	return task.IsOverdue(t, s.Now, s.IsToday)
}

// Agenda renders the day as plain text, one task per line, for sharing.
func (s *DaySummary) Agenda() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", dateutil.FormatDateDisplay(s.Date))
	if len(s.Tasks) == 0 {
		b.WriteString("No tasks scheduled.\n")
		return b.String()
	}
	for _, t := range s.Tasks {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		fmt.Fprintf(&b, "%s %s  %s (%s, %s)\n",
			mark, t.TimeRange(), t.Name, task.FormatDuration(t.Duration), t.Priority)
	}
	fmt.Fprintf(&b, "%d/%d done, %s scheduled\n",
		s.Stats.CompletedTasks, s.Stats.TotalTasks, task.FormatDuration(s.Stats.ScheduledMinutes))
	return b.String()
}
