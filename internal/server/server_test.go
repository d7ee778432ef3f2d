package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jborjas31/my-scheduler/internal/cache"
	"github.com/jborjas31/my-scheduler/internal/dateutil"
	"github.com/jborjas31/my-scheduler/internal/db"
	"github.com/jborjas31/my-scheduler/internal/planner"
	"github.com/jborjas31/my-scheduler/internal/task"
)

var testNow = time.Date(2025, 1, 15, 14, 30, 0, 0, time.Local)

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()

	repo, err := db.New(filepath.Join(t.TempDir(), "server.db"))
	if err != nil {
		t.Fatalf("failed to open repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	clock := dateutil.FixedClock{T: testNow}
	if opts.Clock == nil {
		opts.Clock = clock
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = 1000
		opts.Burst = 1000
	}
	return New(planner.New(repo, clock, nil), opts)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
	return v
}

func createTask(t *testing.T, h http.Handler, body map[string]any) taskResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/tasks", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	return decode[outcomeResponse](t, rec).Task
}

func TestCreateTask(t *testing.T) {
	s := newTestServer(t, Options{})

	rec := do(t, s.Handler(), http.MethodPost, "/api/tasks", map[string]any{
		"name":     "  Standup  ",
		"start":    "9:00 AM",
		"end":      "09:15",
		"priority": "fixed",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	out := decode[outcomeResponse](t, rec)
	if out.Task.Name != "Standup" {
		t.Errorf("name = %q, want cleaned name", out.Task.Name)
	}
	if out.Task.StartTime != 540 || out.Task.EndTime != 555 || out.Task.Duration != 15 {
		t.Errorf("times = %d-%d (%d), want 540-555 (15)", out.Task.StartTime, out.Task.EndTime, out.Task.Duration)
	}
	if out.Task.Date != "2025-01-15" {
		t.Errorf("date = %q, want today", out.Task.Date)
	}
	if !strings.Contains(out.Message, `"Standup" added`) {
		t.Errorf("message = %q", out.Message)
	}
	if len(out.Day.Tasks) != 1 || !out.Day.Tasks[0].Overdue {
		t.Fatalf("day tasks = %+v, want one overdue task", out.Day.Tasks)
	}
	got := out.Day.Tasks[0]
	if got.MinutesOverdue != 315 || got.OverdueLabel != "5h 15m overdue" || got.Size != "tiny" {
		t.Errorf("overdue = %d %q size %q, want 315 \"5h 15m overdue\" tiny", got.MinutesOverdue, got.OverdueLabel, got.Size)
	}
	if len(out.Day.Dashboard.Overdue) != 1 || out.Day.Dashboard.Overdue[0].MinutesOverdue != 315 {
		t.Errorf("dashboard overdue = %+v", out.Day.Dashboard.Overdue)
	}
}

func TestCreateTask_CrossesMidnight(t *testing.T) {
	s := newTestServer(t, Options{})

	got := createTask(t, s.Handler(), map[string]any{
		"name": "Night shift", "start": "23:00", "end": "01:00", "date": "tomorrow",
	})
	if !got.CrossesMidnight || got.Duration != 120 {
		t.Errorf("got crosses=%v duration=%d, want true 120", got.CrossesMidnight, got.Duration)
	}
	if got.Date != "2025-01-16" || got.Priority != "flexible" {
		t.Errorf("got date %q priority %q", got.Date, got.Priority)
	}
}

func TestCreateTask_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		body     map[string]any
		wantCode int
		wantKind string
	}{
		{
			name:     "missing start",
			body:     map[string]any{"name": "A", "end": "10:00"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unparseable clock",
			body:     map[string]any{"name": "A", "start": "25:00", "end": "10:00"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "bad date",
			body:     map[string]any{"name": "A", "start": "9:00", "end": "10:00", "date": "someday"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "too short",
			body:     map[string]any{"name": "A", "start": "9:00", "end": "9:02"},
			wantCode: http.StatusUnprocessableEntity,
			wantKind: string(task.KindTooShort),
		},
		{
			name:     "blank name",
			body:     map[string]any{"name": "   ", "start": "9:00", "end": "10:00"},
			wantCode: http.StatusUnprocessableEntity,
			wantKind: string(task.KindNameRequired),
		},
		{
			name:     "unknown priority",
			body:     map[string]any{"name": "A", "start": "9:00", "end": "10:00", "priority": "urgent"},
			wantCode: http.StatusUnprocessableEntity,
			wantKind: string(task.KindPriority),
		},
	}

	s := newTestServer(t, Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s.Handler(), http.MethodPost, "/api/tasks", tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantKind != "" {
				if got := decode[errorResponse](t, rec); got.Kind != tt.wantKind {
					t.Errorf("kind = %q, want %q", got.Kind, tt.wantKind)
				}
			}
		})
	}
}

func TestCreateTask_Overlap(t *testing.T) {
	s := newTestServer(t, Options{})
	h := s.Handler()

	createTask(t, h, map[string]any{"name": "Meeting", "start": "10:00", "end": "11:00"})

	body := map[string]any{"name": "Call", "start": "10:30", "end": "11:30"}
	rec := do(t, h, http.MethodPost, "/api/tasks", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	conflict := decode[overlapResponse](t, rec)
	if len(conflict.Overlaps) != 1 || conflict.Overlaps[0].Name != "Meeting" {
		t.Errorf("overlaps = %+v, want [Meeting]", conflict.Overlaps)
	}
	if !strings.Contains(conflict.Error, "Meeting") {
		t.Errorf("error = %q, want it to name the overlap", conflict.Error)
	}

	body["force"] = true
	createTask(t, h, body)

	day := decode[dayResponse](t, do(t, h, http.MethodGet, "/api/days/today", nil))
	if len(day.Tasks) != 2 || len(day.Groups) != 1 || len(day.Groups[0]) != 2 {
		t.Fatalf("day = %+v, want two tasks in one group", day)
	}
	if slot := day.Slots[day.Tasks[1].ID]; slot.Column != 1 || slot.Width != 2 {
		t.Errorf("slot = %+v, want column 1 of 2", slot)
	}
}

func TestGetDay(t *testing.T) {
	s := newTestServer(t, Options{Upcoming: 1})
	h := s.Handler()

	createTask(t, h, map[string]any{"name": "Focus", "start": "14:00", "end": "15:00"})
	createTask(t, h, map[string]any{"name": "Gym", "start": "16:00", "end": "17:00"})
	createTask(t, h, map[string]any{"name": "Dinner", "start": "17:00", "end": "17:30"})

	t.Run("today", func(t *testing.T) {
		day := decode[dayResponse](t, do(t, h, http.MethodGet, "/api/days/2025-01-15", nil))
		if !day.IsToday || day.Now != 870 {
			t.Errorf("is_today=%v now=%d", day.IsToday, day.Now)
		}
		if day.Dashboard == nil {
			t.Fatal("expected dashboard for today")
		}
		if len(day.Dashboard.Active) != 1 || day.Dashboard.Active[0].Name != "Focus" {
			t.Errorf("active = %+v", day.Dashboard.Active)
		}
		if len(day.Dashboard.Upcoming) != 1 || day.Dashboard.Upcoming[0].MinutesUntilStart != 90 {
			t.Errorf("upcoming = %+v, want Gym only", day.Dashboard.Upcoming)
		}
		if day.Stats.TotalTasks != 3 || day.Stats.ScheduledMinutes != 150 {
			t.Errorf("stats = %+v", day.Stats)
		}
	})

	t.Run("other day", func(t *testing.T) {
		day := decode[dayResponse](t, do(t, h, http.MethodGet, "/api/days/tomorrow", nil))
		if day.IsToday || day.Dashboard != nil || len(day.Tasks) != 0 {
			t.Errorf("unexpected day: %+v", day)
		}
	})

	t.Run("dashboard route", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/days/today/dashboard", nil)
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Focus") {
			t.Errorf("status %d body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("bad date", func(t *testing.T) {
		if rec := do(t, h, http.MethodGet, "/api/days/not-a-date", nil); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestUpdateTask(t *testing.T) {
	s := newTestServer(t, Options{})
	h := s.Handler()

	a := createTask(t, h, map[string]any{"name": "A", "start": "9:00", "end": "10:00"})
	createTask(t, h, map[string]any{"name": "B", "start": "11:00", "end": "12:00"})

	t.Run("rename", func(t *testing.T) {
		rec := do(t, h, http.MethodPatch, "/api/tasks/"+a.ID, map[string]any{"name": "Renamed"})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		if got := decode[outcomeResponse](t, rec); got.Task.Name != "Renamed" || got.Task.StartTime != 540 {
			t.Errorf("task = %+v", got.Task)
		}
	})

	t.Run("overlap needs force", func(t *testing.T) {
		body := map[string]any{"end": "11:30"}
		if rec := do(t, h, http.MethodPatch, "/api/tasks/"+a.ID, body); rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
		body["force"] = true
		rec := do(t, h, http.MethodPatch, "/api/tasks/"+a.ID, body)
		if got := decode[outcomeResponse](t, rec); got.Task.EndTime != 690 || got.Task.Duration != 150 {
			t.Errorf("task = %+v, want end 690 duration 150", got.Task)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if rec := do(t, h, http.MethodPatch, "/api/tasks/"+a.ID, map[string]any{}); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		rec := do(t, h, http.MethodPatch, "/api/tasks/missing", map[string]any{"name": "X"})
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestToggleAndDelete(t *testing.T) {
	s := newTestServer(t, Options{})
	h := s.Handler()

	a := createTask(t, h, map[string]any{"name": "Read", "start": "20:00", "end": "21:00"})

	rec := do(t, h, http.MethodPost, "/api/tasks/"+a.ID+"/toggle", nil)
	out := decode[outcomeResponse](t, rec)
	if !out.Task.Completed || out.Message != `Task "Read" completed` {
		t.Errorf("toggle = %+v", out)
	}
	if out.Day.Dashboard == nil || len(out.Day.Dashboard.Completed) != 1 {
		t.Errorf("dashboard = %+v, want one completed", out.Day.Dashboard)
	}

	rec = do(t, h, http.MethodDelete, "/api/tasks/"+a.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if out := decode[outcomeResponse](t, rec); len(out.Day.Tasks) != 0 {
		t.Errorf("day still has %d tasks", len(out.Day.Tasks))
	}

	if rec := do(t, h, http.MethodDelete, "/api/tasks/"+a.ID, nil); rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/api/tasks/"+a.ID+"/toggle", nil); rec.Code != http.StatusNotFound {
		t.Errorf("toggle of deleted task status = %d, want 404", rec.Code)
	}
}

type failingRepo struct {
	task.Repository
	err error
}

func (r failingRepo) ListTasksForDate(context.Context, time.Time) ([]*task.Task, error) {
	return nil, r.err
}

func TestStorageErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unavailable", db.ErrUnavailable, http.StatusServiceUnavailable},
		{"quota", db.ErrQuotaExceeded, http.StatusServiceUnavailable},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := planner.New(failingRepo{err: tt.err}, dateutil.FixedClock{T: testNow}, nil)
			s := New(p, Options{Clock: dateutil.FixedClock{T: testNow}, RateLimit: 100, Burst: 100})
			if rec := do(t, s.Handler(), http.MethodGet, "/api/days/today", nil); rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, Options{RateLimit: 0.001, Burst: 2})
	h := s.Handler()

	for i := 0; i < 2; i++ {
		if rec := do(t, h, http.MethodGet, "/api/days/today", nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}
	rec := do(t, h, http.MethodGet, "/api/days/today", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}

	if rec := do(t, h, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
		t.Errorf("healthz is not rate limited, got %d", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t, Options{
		CacheStats: func() cache.Stats { return cache.Stats{Size: 3, Hits: 7, Misses: 2} },
	})
	h := s.Handler()

	do(t, h, http.MethodGet, "/api/days/today", nil)
	do(t, h, http.MethodGet, "/api/days/nope", nil)

	body := do(t, h, http.MethodGet, "/metrics", nil).Body.String()
	for _, want := range []string{
		`scheduler_http_requests_total{method="GET",route="/api/days/:date",status="200"} 1`,
		`scheduler_http_requests_total{method="GET",route="/api/days/:date",status="400"} 1`,
		"scheduler_cache_days 3",
		"scheduler_cache_hits_total 7",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestRun_Shutdown(t *testing.T) {
	s := newTestServer(t, Options{Addr: "127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
