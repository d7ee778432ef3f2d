package task

import (
	"testing"
	"time"
)

func TestNewDay(t *testing.T) {
	date := time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)
	day := NewDay(date)

	if len(day.Tasks()) != 0 {
		t.Errorf("expected empty day, got %d tasks", len(day.Tasks()))
	}

	// Date should be truncated to midnight
	expected := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	if !day.Date.Equal(expected) {
		t.Errorf("expected date %v, got %v", expected, day.Date)
	}
}

func TestDay_AddTask(t *testing.T) {
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("keeps start order", func(t *testing.T) {
		day := NewDay(date)
		day.AddTask(&Task{ID: "late", StartTime: 1380, EndTime: 60})
		day.AddTask(&Task{ID: "early", StartTime: 420, EndTime: 480})
		day.AddTask(nil)
		day.AddTask(&Task{ID: "mid", StartTime: 720, EndTime: 780})

		got := ids(day.Tasks())
		want := []string{"early", "mid", "late"}
		if !equalIDs(got, want) {
			t.Errorf("tasks = %v, want %v", got, want)
		}
	})

	t.Run("overlaps are allowed", func(t *testing.T) {
		day := NewDayWithTasks(date, []*Task{
			{ID: "a", StartTime: 540, EndTime: 600},
			{ID: "b", StartTime: 540, EndTime: 600},
		})
		if len(day.Tasks()) != 2 {
			t.Errorf("expected 2 tasks, got %d", len(day.Tasks()))
		}
		if got := ids(day.Tasks()); !equalIDs(got, []string{"a", "b"}) {
			t.Errorf("equal starts reordered: %v", got)
		}
	})
}

func TestDay_Tasks_ReturnsCopy(t *testing.T) {
	day := NewDayWithTasks(time.Now(), []*Task{{ID: "a", StartTime: 540, EndTime: 600}})
	tasks := day.Tasks()
	tasks[0] = nil
	if day.Tasks()[0] == nil {
		t.Error("Tasks() exposed internal slice")
	}
}

func TestDay_Overlapping(t *testing.T) {
	day := NewDayWithTasks(time.Now(), []*Task{
		{ID: "a", StartTime: 540, EndTime: 600},
		{ID: "b", StartTime: 900, EndTime: 960},
	})

	if got := ids(day.Overlapping(570, 630, "")); !equalIDs(got, []string{"a"}) {
		t.Errorf("Overlapping(570, 630) = %v, want [a]", got)
	}
	if got := day.Overlapping(570, 630, "a"); len(got) != 0 {
		t.Errorf("Overlapping excluding a = %v, want none", ids(got))
	}
}

func TestDay_Stats(t *testing.T) {
	day := NewDayWithTasks(time.Now(), []*Task{
		{ID: "a", StartTime: 540, EndTime: 600, Duration: 60, Priority: PriorityFixed, Completed: true},
		{ID: "b", StartTime: 900, EndTime: 930, Duration: 30, Priority: PriorityFlexible},
		{ID: "c", StartTime: 1380, EndTime: 60, Duration: 120, CrossesMidnight: true, Priority: PriorityFixed},
	})
	stats := day.Stats()

	if stats.TotalTasks != 3 || stats.CompletedTasks != 1 || stats.FixedTasks != 2 || stats.CrossingTasks != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ScheduledMinutes != 210 || stats.FixedMinutes != 180 {
		t.Errorf("minutes = %d scheduled, %d fixed, want 210, 180", stats.ScheduledMinutes, stats.FixedMinutes)
	}
	if stats.CompletedPercent() != 33 {
		t.Errorf("CompletedPercent() = %d, want 33", stats.CompletedPercent())
	}
	if len(day.Groups()) != 3 {
		t.Errorf("Groups() = %d groups, want 3", len(day.Groups()))
	}
}
