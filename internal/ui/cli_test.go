package ui

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jborjas31/my-scheduler/internal/config"
	"github.com/jborjas31/my-scheduler/internal/dateutil"
	"github.com/jborjas31/my-scheduler/internal/db"
	"github.com/jborjas31/my-scheduler/internal/planner"
	"github.com/jborjas31/my-scheduler/internal/task"
)

var testNow = time.Date(2025, 1, 15, 14, 30, 0, 0, time.Local)

func newTestRepo(t *testing.T) task.Repository {
	t.Helper()
	repo, err := db.New(filepath.Join(t.TempDir(), "cli.db"))
	if err != nil {
		t.Fatalf("failed to open repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// run executes one command line against repo and returns its output.
func run(t *testing.T, repo task.Repository, stdin string, args ...string) (string, error) {
	t.Helper()
	cfg := config.Default()
	cfg.Dashboard.UpcomingLimit = 2

	app := NewApp(cfg, WithRepository(repo), WithClock(dateutil.FixedClock{T: testNow}))
	var out bytes.Buffer
	app.SetIO(strings.NewReader(stdin), &out)
	app.SetArgs(append(args, "--no-color")...)
	err := app.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, repo task.Repository, stdin string, args ...string) string {
	t.Helper()
	out, err := run(t, repo, stdin, args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func assertContains(t *testing.T, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestAddAndShow(t *testing.T) {
	repo := newTestRepo(t)

	out := mustRun(t, repo, "", "add", "Standup", "--start", "9:00", "--end", "9:30 AM", "--priority", "Fixed")
	assertContains(t, out, `Task "Standup" added! (30m)`, "9:00 AM - 9:30 AM", "[F]")

	mustRun(t, repo, "", "add", "Lunch", "--start", "12:00", "--end", "13:00")
	mustRun(t, repo, "", "add", "Gym", "--start", "17:00", "--end", "18:00", "--date", "tomorrow")

	out = mustRun(t, repo, "", "show")
	assertContains(t, out,
		"Wednesday, January 15, 2025 (today)",
		"Standup", "Lunch", "[~]",
		"5h 0m overdue", // Standup is fixed and ended at 9:30
		"2 tasks · 0 done (0%) · 1h 30m scheduled",
		"Dashboard",
		"! Overdue: Standup (5h 0m overdue)",
	)
	if strings.Contains(out, "Gym") {
		t.Errorf("tomorrow's task listed today:\n%s", out)
	}

	out = mustRun(t, repo, "", "show", "tomorrow")
	assertContains(t, out, "Thursday, January 16, 2025", "Gym")
	if strings.Contains(out, "Dashboard") {
		t.Errorf("dashboard shown for another day:\n%s", out)
	}

	if _, err := run(t, repo, "", "show", "someday"); err == nil {
		t.Errorf("bad date should fail")
	}
}

func TestAdd_Confirmations(t *testing.T) {
	repo := newTestRepo(t)

	out := mustRun(t, repo, "n\n", "add", "Night shift", "--start", "23:00", "--end", "01:00")
	assertContains(t, out, "This task crosses midnight: 11:00 PM - 1:00 AM (+1 day)", "Cancelled.")
	assertContains(t, mustRun(t, repo, "", "show"), "No tasks scheduled.")

	out = mustRun(t, repo, "y\n", "add", "Night shift", "--start", "23:00", "--end", "01:00")
	assertContains(t, out, `Cross-midnight task "Night shift" added! (2h)`)

	// Overlap is asked after midnight; declining the second question cancels.
	out = mustRun(t, repo, "y\nn\n", "add", "Late call", "--start", "23:30", "--end", "00:30")
	assertContains(t, out, "This task may overlap with: Night shift", "Cancelled.")

	out = mustRun(t, repo, "", "add", "Late call", "--start", "23:30", "--end", "00:30", "--yes")
	assertContains(t, out, `"Late call" added`, "┊")
}

func TestAdd_Rejected(t *testing.T) {
	repo := newTestRepo(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad start", []string{"add", "Run", "--start", "25:00", "--end", "10:00"}, "--start"},
		{"blank end", []string{"add", "Run", "--start", "9:00", "--end", " "}, "please enter a time"},
		{"blank name", []string{"add", "  ", "--start", "9:00", "--end", "10:00"}, "Please enter a task name"},
		{"too long", []string{"add", "Run", "--start", "6:00", "--end", "1:00", "--yes"}, "too ambitious"},
		{"priority", []string{"add", "Run", "--start", "9:00", "--end", "10:00", "--priority", "urgent"}, "fixed"},
		{"date", []string{"add", "Run", "--start", "9:00", "--end", "10:00", "--date", "2030-01-01"}, "one year"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, repo, "", tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestEditDoneDelete(t *testing.T) {
	repo := newTestRepo(t)
	p := planner.New(repo, dateutil.FixedClock{T: testNow}, nil)
	ctx := context.Background()

	add := func(name string, start, end int) string {
		out, err := p.Add(ctx, planner.Request{Name: name, Start: start, End: end, Priority: task.PriorityFlexible}, nil)
		if err != nil {
			t.Fatalf("adding %s: %v", name, err)
		}
		return out.Task.ID
	}
	focus := add("Focus", 9*60, 10*60)
	add("Review", 11*60, 12*60)

	out := mustRun(t, repo, "", "edit", focus, "--name", "Deep focus", "--priority", "fixed")
	assertContains(t, out, "Task updated successfully", "Deep focus", "[F]")

	out = mustRun(t, repo, "n\n", "edit", focus, "--end", "11:30")
	assertContains(t, out, "may overlap with: Review", "Do you want to save it anyway?", "Cancelled.")

	out = mustRun(t, repo, "", "edit", focus)
	assertContains(t, out, "Nothing to update.")

	out = mustRun(t, repo, "", "done", focus)
	assertContains(t, out, `Task "Deep focus" completed`, "✓", "1 done (50%)")
	out = mustRun(t, repo, "", "done", focus)
	assertContains(t, out, `Task "Deep focus" marked incomplete`)

	out = mustRun(t, repo, "no\n", "delete", focus)
	assertContains(t, out, `Delete "Deep focus" (9:00 AM - 10:00 AM)?`, "Cancelled.")

	out = mustRun(t, repo, "y\n", "delete", focus)
	assertContains(t, out, "Task deleted successfully")

	if _, err := run(t, repo, "", "done", focus); !errors.Is(err, task.ErrTaskNotFound) {
		t.Errorf("err = %v, want ErrTaskNotFound", err)
	}
}

func TestDashboardCmd(t *testing.T) {
	repo := newTestRepo(t)
	mustRun(t, repo, "", "add", "Focus", "--start", "14:00", "--end", "15:00")
	mustRun(t, repo, "", "add", "Walk", "--start", "15:00", "--end", "15:30")
	mustRun(t, repo, "", "add", "Call", "--start", "16:00", "--end", "16:30")
	mustRun(t, repo, "", "add", "Dinner", "--start", "17:00", "--end", "18:00")

	out := mustRun(t, repo, "", "dashboard")
	assertContains(t, out,
		"▶ Now: Focus (until 3:00 PM)",
		"◷ Next: Walk in 30m",
		"◷ Next: Call in 1h 30m",
	)
	if strings.Contains(out, "Dinner") {
		t.Errorf("upcoming limit not applied:\n%s", out)
	}
}

func TestConfigInteractive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	var out bytes.Buffer
	if err := runConfigInteractive(path, strings.NewReader("n\n"), &out); err != nil {
		t.Fatalf("first run: %v", err)
	}
	assertContains(t, out.String(), "No config file found", "[schedule]", "slot_interval    = 15")

	// backend, db path, interval, length, upcoming, theme (one bad answer)
	answers := "y\n\n\n10\nforty\n45\n2\nneon\nlatte\n"
	out.Reset()
	if err := runConfigInteractive(path, strings.NewReader(answers), &out); err != nil {
		t.Fatalf("edit run: %v\n%s", err, out.String())
	}
	assertContains(t, out.String(), `"forty" is not a number.`, `Invalid theme "neon"`, "Configuration saved!")

	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if cfg.Schedule.SlotInterval != 10 || cfg.Schedule.DefaultLength != 45 ||
		cfg.Dashboard.UpcomingLimit != 2 || cfg.UI.Theme != "latte" {
		t.Errorf("saved config = %+v", cfg)
	}
}

func TestVersion(t *testing.T) {
	out := mustRun(t, newTestRepo(t), "", "version")
	assertContains(t, out, "scheduler dev")
}
