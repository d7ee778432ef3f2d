package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jborjas31/my-scheduler/internal/task"
)

func mustTask(t *testing.T, name string, priority task.Priority, date time.Time, start, end int) *task.Task {
	t.Helper()
	tsk, err := task.New(name, priority, date, start, end, date)
	if err != nil {
		t.Fatalf("task.New(%q) failed: %v", name, err)
	}
	return tsk
}

func TestNew_UnreachablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "tasks.db")
	if repo, err := New(path); err == nil {
		_ = repo.Close()
		t.Fatal("expected an error for a database in a missing directory")
	}
}

func TestCreateTask(t *testing.T) {
	repo := newTestRepo(t)
	date := time.Date(2025, 1, 9, 0, 0, 0, 0, time.Local)

	tsk := mustTask(t, "Write unit tests", task.PriorityFixed, date, 9*60, 11*60)
	if err := repo.CreateTask(context.Background(), tsk); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if tsk.ID == "" {
		t.Error("expected ID to be set after insert")
	}
	if tsk.Duration != 120 {
		t.Errorf("Duration = %d, want 120", tsk.Duration)
	}
}

func TestCreateTask_DerivesMidnightFields(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	date := time.Date(2025, 1, 9, 0, 0, 0, 0, time.Local)

	// Stale derived fields on the input are recomputed on write.
	tsk := &task.Task{
		Name:      "Night shift",
		StartTime: 23 * 60,
		EndTime:   60,
		Priority:  task.PriorityFixed,
		Date:      date,
		Duration:  5,
	}
	if err := repo.CreateTask(ctx, tsk); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	got, err := repo.GetTask(ctx, tsk.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if !got.CrossesMidnight {
		t.Error("expected CrossesMidnight to be true")
	}
	if got.Duration != 120 {
		t.Errorf("Duration = %d, want 120", got.Duration)
	}
	if got.Version != task.SchemaVersion {
		t.Errorf("Version = %d, want %d", got.Version, task.SchemaVersion)
	}
}

func TestGetTask(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)

	original := mustTask(t, "Deep work session", task.PriorityFlexible, date, 9*60, 12*60)
	if err := repo.CreateTask(ctx, original); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	got, err := repo.GetTask(ctx, original.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}

	if got.ID != original.ID {
		t.Errorf("ID: got %q, want %q", got.ID, original.ID)
	}
	if got.Name != original.Name {
		t.Errorf("Name: got %q, want %q", got.Name, original.Name)
	}
	if got.Priority != task.PriorityFlexible {
		t.Errorf("Priority: got %q, want %q", got.Priority, task.PriorityFlexible)
	}
	if !got.Date.Equal(date) {
		t.Errorf("Date: got %v, want %v", got.Date, date)
	}
	if got.StartTime != 540 || got.EndTime != 720 {
		t.Errorf("times: got %d-%d, want 540-720", got.StartTime, got.EndTime)
	}
	if got.Completed {
		t.Error("expected new task to be incomplete")
	}
}

func TestGetTask_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetTask(context.Background(), "missing")
	if !errors.Is(err, task.ErrTaskNotFound) {
		t.Fatalf("error = %v, want %v", err, task.ErrTaskNotFound)
	}
}

func TestListTasksForDate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	jan9 := time.Date(2025, 1, 9, 0, 0, 0, 0, time.Local)
	jan10 := jan9.AddDate(0, 0, 1)

	tasks := []*task.Task{
		mustTask(t, "Afternoon", task.PriorityFlexible, jan9, 14*60, 16*60),
		mustTask(t, "Other day", task.PriorityFlexible, jan10, 9*60, 10*60),
		mustTask(t, "Morning", task.PriorityFixed, jan9, 9*60, 10*60),
		mustTask(t, "Late", task.PriorityFixed, jan9, 23*60, 60),
	}
	for _, tsk := range tasks {
		if err := repo.CreateTask(ctx, tsk); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}

	got, err := repo.ListTasksForDate(ctx, jan9)
	if err != nil {
		t.Fatalf("ListTasksForDate failed: %v", err)
	}

	want := []string{"Morning", "Afternoon", "Late"}
	if len(got) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(got))
	}
	for i, tsk := range got {
		if tsk.Name != want[i] {
			t.Errorf("task %d: got %q, want %q", i, tsk.Name, want[i])
		}
	}
}

func TestListTasksForDate_Empty(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.ListTasksForDate(context.Background(), time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("ListTasksForDate failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected 0 tasks, got %d", len(got))
	}
}

func TestListTasksForDate_RepairsLegacyRows(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO tasks (id, name, start_time, end_time, priority, completed, date, version)
		VALUES ('legacy', 'Old import', 1380, 30, 'urgent', 0, '2025-01-09', 0)
	`)
	if err != nil {
		t.Fatalf("inserting legacy row: %v", err)
	}

	got, err := repo.ListTasksForDate(ctx, time.Date(2025, 1, 9, 0, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("ListTasksForDate failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 task, got %d", len(got))
	}

	legacy := got[0]
	if !legacy.CrossesMidnight {
		t.Error("expected CrossesMidnight to be derived")
	}
	if legacy.Duration != 90 {
		t.Errorf("Duration = %d, want 90", legacy.Duration)
	}
	if legacy.Priority != task.PriorityFlexible {
		t.Errorf("Priority = %q, want %q", legacy.Priority, task.PriorityFlexible)
	}
	if legacy.Version != task.SchemaVersion {
		t.Errorf("Version = %d, want %d", legacy.Version, task.SchemaVersion)
	}
}

func TestListTasksForDate_SkipsCorruptedRows(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	date := time.Date(2025, 1, 9, 0, 0, 0, 0, time.Local)

	if err := repo.CreateTask(ctx, mustTask(t, "Good", task.PriorityFixed, date, 600, 660)); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	rows := []string{
		`INSERT INTO tasks (id, name, start_time, end_time, date) VALUES ('no-name', NULL, 60, 120, '2025-01-09')`,
		`INSERT INTO tasks (id, name, start_time, end_time, date) VALUES ('no-end', 'Broken', 60, NULL, '2025-01-09')`,
		`INSERT INTO tasks (id, name, start_time, end_time, date) VALUES ('range', 'Broken', 60, 2000, '2025-01-09')`,
	}
	for _, q := range rows {
		if _, err := repo.db.ExecContext(ctx, q); err != nil {
			t.Fatalf("inserting corrupted row: %v", err)
		}
	}

	got, err := repo.ListTasksForDate(ctx, date)
	if err != nil {
		t.Fatalf("ListTasksForDate failed: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Good" {
		t.Fatalf("expected only the valid task, got %d tasks", len(got))
	}
}

func TestUpdateTask(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)

	tsk := mustTask(t, "Task to update", task.PriorityFlexible, date, 9*60, 10*60)
	if err := repo.CreateTask(ctx, tsk); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	name := "Renamed"
	start, end := 22*60, 2*60
	fixed := task.PriorityFixed
	err := repo.UpdateTask(ctx, tsk.ID, task.TaskUpdate{
		Name:      &name,
		StartTime: &start,
		EndTime:   &end,
		Priority:  &fixed,
	})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}

	got, err := repo.GetTask(ctx, tsk.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.Name != "Renamed" {
		t.Errorf("Name = %q, want %q", got.Name, "Renamed")
	}
	if got.StartTime != start || got.EndTime != end {
		t.Errorf("times = %d-%d, want %d-%d", got.StartTime, got.EndTime, start, end)
	}
	if !got.CrossesMidnight || got.Duration != 240 {
		t.Errorf("derived = (%v, %d), want (true, 240)", got.CrossesMidnight, got.Duration)
	}
	if got.Priority != task.PriorityFixed {
		t.Errorf("Priority = %q, want %q", got.Priority, task.PriorityFixed)
	}
}

func TestUpdateTask_PartialKeepsOtherFields(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)

	tsk := mustTask(t, "Keep me", task.PriorityFixed, date, 9*60, 10*60)
	if err := repo.CreateTask(ctx, tsk); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	end := 10*60 + 15
	if err := repo.UpdateTask(ctx, tsk.ID, task.TaskUpdate{EndTime: &end}); err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}

	got, _ := repo.GetTask(ctx, tsk.ID)
	if got.Name != "Keep me" || got.Priority != task.PriorityFixed {
		t.Errorf("unexpected change: %+v", got)
	}
	if got.StartTime != 540 || got.Duration != 75 {
		t.Errorf("got start %d duration %d, want 540 and 75", got.StartTime, got.Duration)
	}
}

func TestUpdateTask_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	name := "x"
	err := repo.UpdateTask(context.Background(), "missing", task.TaskUpdate{Name: &name})
	if !errors.Is(err, task.ErrTaskNotFound) {
		t.Fatalf("error = %v, want %v", err, task.ErrTaskNotFound)
	}
}

func TestDeleteTask(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)

	tsk := mustTask(t, "Task to delete", task.PriorityFlexible, date, 600, 630)
	if err := repo.CreateTask(ctx, tsk); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if err := repo.DeleteTask(ctx, tsk.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}

	if _, err := repo.GetTask(ctx, tsk.ID); !errors.Is(err, task.ErrTaskNotFound) {
		t.Errorf("GetTask after delete: error = %v, want %v", err, task.ErrTaskNotFound)
	}

	if err := repo.DeleteTask(ctx, tsk.ID); !errors.Is(err, task.ErrTaskNotFound) {
		t.Errorf("second delete: error = %v, want %v", err, task.ErrTaskNotFound)
	}
}

func TestToggleCompletion(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)

	tsk := mustTask(t, "Toggle me", task.PriorityFixed, date, 600, 630)
	if err := repo.CreateTask(ctx, tsk); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	for i, want := range []bool{true, false, true} {
		got, err := repo.ToggleCompletion(ctx, tsk.ID)
		if err != nil {
			t.Fatalf("toggle %d failed: %v", i, err)
		}
		if got != want {
			t.Errorf("toggle %d = %v, want %v", i, got, want)
		}
	}

	stored, _ := repo.GetTask(ctx, tsk.ID)
	if !stored.Completed {
		t.Error("expected stored task to be completed")
	}
}

func TestToggleCompletion_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.ToggleCompletion(context.Background(), "missing")
	if !errors.Is(err, task.ErrTaskNotFound) {
		t.Fatalf("error = %v, want %v", err, task.ErrTaskNotFound)
	}
}

func TestListTasksForDate_ReturnsLocalTimezone(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	localDate := time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)
	if err := repo.CreateTask(ctx, mustTask(t, "Test task", task.PriorityFixed, localDate, 540, 600)); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	got, err := repo.ListTasksForDate(ctx, localDate)
	if err != nil {
		t.Fatalf("ListTasksForDate failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 task, got %d", len(got))
	}
	if got[0].Date.Location() != time.Local {
		t.Errorf("expected Date location to be Local, got %v", got[0].Date.Location())
	}
	if !got[0].Date.Equal(localDate) {
		t.Errorf("Date = %v, want %v", got[0].Date, localDate)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	repo, err := Open(context.Background(), Settings{
		Backend: BackendSQLite,
		DBPath:  filepath.Join(dir, "nested", "scheduler.db"),
	})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	_ = repo.Close()

	_, err = Open(context.Background(), Settings{Backend: "postgres"})
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

// newTestRepo creates a temporary SQLite repository for testing.
func newTestRepo(t *testing.T) *SQLite {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}

	t.Cleanup(func() {
		_ = repo.Close()
	})

	return repo
}
