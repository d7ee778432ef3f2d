package summary

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jborjas31/my-scheduler/internal/dateutil"
	"github.com/jborjas31/my-scheduler/internal/task"
)

func mk(id string, start, end int, priority task.Priority) *task.Task {
	t := &task.Task{ID: id, Name: id, Priority: priority}
	t.SetTimes(start, end)
	return t
}

func TestSummarizeDay(t *testing.T) {
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)
	now := time.Date(2025, 1, 15, 14, 30, 0, 0, time.Local)

	tasks := []*task.Task{
		mk("C", 16*60, 17*60, task.PriorityFlexible),
		mk("A", 9*60, 10*60, task.PriorityFixed),
		mk("B", 9*60+30, 11*60, task.PriorityFlexible),
		mk("D", 14*60, 15*60, task.PriorityFixed),
	}
	tasks[2].Completed = true

	s := SummarizeDay(date, tasks, now)

	if !s.IsToday {
		t.Fatal("expected IsToday")
	}
	if s.Now != 870 {
		t.Errorf("Now = %d, want 870", s.Now)
	}

	wantOrder := []string{"A", "B", "D", "C"}
	for i, tsk := range s.Tasks {
		if tsk.ID != wantOrder[i] {
			t.Errorf("task %d = %q, want %q", i, tsk.ID, wantOrder[i])
		}
	}

	if len(s.Groups) != 3 || len(s.Groups[0]) != 2 {
		t.Fatalf("groups = %d (first has %d), want 3 with first of 2", len(s.Groups), len(s.Groups[0]))
	}
	if slot := s.Slots["B"]; slot.Column != 1 || slot.Width != 2 {
		t.Errorf("slot B = %+v, want column 1 width 2", slot)
	}

	d := s.Dashboard
	if len(d.Active) != 1 || d.Active[0].ID != "D" {
		t.Errorf("active = %v, want [D]", d.Active)
	}
	if len(d.Overdue) != 1 || d.Overdue[0].ID != "A" {
		t.Errorf("overdue = %v, want [A]", d.Overdue)
	}
	if len(d.Completed) != 1 || d.Completed[0].ID != "B" {
		t.Errorf("completed = %v, want [B]", d.Completed)
	}
	if len(d.Upcoming) != 1 || d.Upcoming[0].MinutesUntilStart != 90 {
		t.Errorf("upcoming = %v, want C in 90m", d.Upcoming)
	}

	if s.Stats.TotalTasks != 4 || s.Stats.CompletedTasks != 1 {
		t.Errorf("stats = %+v", s.Stats)
	}
	if !s.Overdue(tasks[1]) {
		t.Error("expected A to be flagged overdue")
	}
}

func TestSummarizeDay_OtherDay(t *testing.T) {
	date := time.Date(2025, 1, 16, 0, 0, 0, 0, time.Local)
	now := time.Date(2025, 1, 15, 14, 30, 0, 0, time.Local)

	s := SummarizeDay(date, []*task.Task{mk("A", 9*60, 10*60, task.PriorityFixed)}, now)
	if s.IsToday {
		t.Fatal("expected IsToday to be false")
	}
	if !s.Dashboard.Empty() {
		t.Errorf("expected empty dashboard, got %+v", s.Dashboard)
	}
	if s.Overdue(s.Tasks[0]) {
		t.Error("tasks on other days are never overdue")
	}
}

func TestAgenda(t *testing.T) {
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)
	night := mk("Night shift", 23*60, 60, task.PriorityFixed)
	night.Completed = true

	s := SummarizeDay(date, []*task.Task{night}, date)
	got := s.Agenda()

	for _, want := range []string{
		"Wednesday, January 15, 2025",
		"[x] 11:00 PM - 1:00 AM (+1 day)  Night shift (2h, fixed)",
		"1/1 done, 2h scheduled",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("agenda missing %q:\n%s", want, got)
		}
	}

	empty := SummarizeDay(date, nil, date).Agenda()
	if !strings.Contains(empty, "No tasks scheduled.") {
		t.Errorf("empty agenda = %q", empty)
	}
}

type listRepo struct {
	task.Repository
	tasks []*task.Task
	err   error
	asked time.Time
}

func (r *listRepo) ListTasksForDate(_ context.Context, date time.Time) ([]*task.Task, error) {
	r.asked = date
	return r.tasks, r.err
}

func TestBuildDaySummary(t *testing.T) {
	now := time.Date(2025, 1, 15, 14, 30, 0, 0, time.Local)
	clock := dateutil.FixedClock{T: now}

	repo := &listRepo{tasks: []*task.Task{mk("A", 600, 660, task.PriorityFixed)}}
	s, err := BuildDaySummary(context.Background(), repo, time.Time{}, clock)
	if err != nil {
		t.Fatalf("BuildDaySummary failed: %v", err)
	}
	if !repo.asked.Equal(dateutil.TruncateToDay(now)) {
		t.Errorf("asked for %v, want today", repo.asked)
	}
	if len(s.Tasks) != 1 || !s.IsToday {
		t.Errorf("unexpected summary: %+v", s)
	}

	failing := &listRepo{err: errors.New("offline")}
	if _, err := BuildDaySummary(context.Background(), failing, now, clock); err == nil {
		t.Fatal("expected error from repository")
	}
}
