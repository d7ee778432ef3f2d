package server

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/jborjas31/my-scheduler/internal/dateutil"
	"github.com/jborjas31/my-scheduler/internal/summary"
	"github.com/jborjas31/my-scheduler/internal/task"
)

var registerOnce sync.Once

// registerValidators adds the "clock" tag to gin's validator. A clock value is
// anything task.ParseManual accepts, such as "14:30" or "2:30 PM".
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			_, err := task.ParseManual(fl.Field().String())
			return err == nil
		})
	})
}

type createTaskRequest struct {
	Name     string `json:"name"`
	Start    string `json:"start" binding:"required,clock"`
	End      string `json:"end" binding:"required,clock"`
	Priority string `json:"priority"`
	Date     string `json:"date"`
	Force    bool   `json:"force"`
}

type updateTaskRequest struct {
	Name     *string `json:"name"`
	Start    *string `json:"start" binding:"omitempty,clock"`
	End      *string `json:"end" binding:"omitempty,clock"`
	Priority *string `json:"priority"`
	Force    bool    `json:"force"`
}

type taskResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Date            string `json:"date"`
	Start           string `json:"start"`
	End             string `json:"end"`
	StartTime       int    `json:"start_time"`
	EndTime         int    `json:"end_time"`
	Range           string `json:"range"`
	Priority        string `json:"priority"`
	Completed       bool   `json:"completed"`
	CrossesMidnight bool   `json:"crosses_midnight"`
	Duration        int    `json:"duration"`
	Size            string `json:"size"`
	Overdue         bool   `json:"overdue,omitempty"`
	MinutesOverdue  int    `json:"minutes_overdue,omitempty"`
	OverdueLabel    string `json:"overdue_label,omitempty"`
}

func newTaskResponse(t *task.Task) taskResponse {
	return taskResponse{
		ID:              t.ID,
		Name:            t.Name,
		Date:            t.DateString(),
		Start:           task.FormatClock(t.StartTime),
		End:             task.FormatClock(t.EndTime),
		StartTime:       t.StartTime,
		EndTime:         t.EndTime,
		Range:           t.TimeRange(),
		Priority:        string(t.Priority),
		Completed:       t.Completed,
		CrossesMidnight: t.Crosses(),
		Duration:        t.Duration,
		Size:            string(task.SizeOf(t.Duration)),
	}
}

// overdueTaskResponse is a task response flagged overdue at minute-of-day now.
func overdueTaskResponse(t *task.Task, now int) taskResponse {
	resp := newTaskResponse(t)
	resp.Overdue = true
	resp.MinutesOverdue = task.MinutesOverdue(t, now)
	resp.OverdueLabel = task.FormatCountdown(resp.MinutesOverdue) + " overdue"
	return resp
}

func taskList(tasks []*task.Task) []taskResponse {
	out := make([]taskResponse, len(tasks))
	for i, t := range tasks {
		out[i] = newTaskResponse(t)
	}
	return out
}

type upcomingResponse struct {
	Task              taskResponse `json:"task"`
	MinutesUntilStart int          `json:"minutes_until_start"`
	Countdown         string       `json:"countdown"`
}

type dashboardResponse struct {
	Active    []taskResponse     `json:"active"`
	Upcoming  []upcomingResponse `json:"upcoming"`
	Overdue   []taskResponse     `json:"overdue"`
	Completed []taskResponse     `json:"completed"`
}

func newDashboardResponse(d task.Dashboard, now, upcoming int) dashboardResponse {
	if upcoming == 0 {
		upcoming = -1
	}
	top := d.TopUpcoming(upcoming)
	resp := dashboardResponse{
		Active:    taskList(d.Active),
		Upcoming:  make([]upcomingResponse, len(top)),
		Overdue:   make([]taskResponse, len(d.Overdue)),
		Completed: taskList(d.Completed),
	}
	for i, t := range d.Overdue {
		resp.Overdue[i] = overdueTaskResponse(t, now)
	}
	for i, u := range top {
		resp.Upcoming[i] = upcomingResponse{
			Task:              newTaskResponse(u.Task),
			MinutesUntilStart: u.MinutesUntilStart,
			Countdown:         task.FormatCountdown(u.MinutesUntilStart),
		}
	}
	return resp
}

type slotResponse struct {
	Column int `json:"column"`
	Width  int `json:"width"`
}

type statsResponse struct {
	TotalTasks       int `json:"total_tasks"`
	CompletedTasks   int `json:"completed_tasks"`
	CompletedPercent int `json:"completed_percent"`
	FixedTasks       int `json:"fixed_tasks"`
	CrossingTasks    int `json:"crossing_tasks"`
	ScheduledMinutes int `json:"scheduled_minutes"`
	FixedMinutes     int `json:"fixed_minutes"`
}

type dayResponse struct {
	Date      string                  `json:"date"`
	IsToday   bool                    `json:"is_today"`
	Now       int                     `json:"now"`
	Tasks     []taskResponse          `json:"tasks"`
	Groups    [][]string              `json:"groups"`
	Slots     map[string]slotResponse `json:"slots"`
	Dashboard *dashboardResponse      `json:"dashboard,omitempty"`
	Stats     statsResponse           `json:"stats"`
}

func newDayResponse(s *summary.DaySummary, upcoming int) dayResponse {
	resp := dayResponse{
		Date:    s.Date.Format(dateutil.DateLayout),
		IsToday: s.IsToday,
		Now:     s.Now,
		Tasks:   make([]taskResponse, len(s.Tasks)),
		Groups:  make([][]string, len(s.Groups)),
		Slots:   make(map[string]slotResponse, len(s.Slots)),
		Stats: statsResponse{
			TotalTasks:       s.Stats.TotalTasks,
			CompletedTasks:   s.Stats.CompletedTasks,
			CompletedPercent: s.Stats.CompletedPercent(),
			FixedTasks:       s.Stats.FixedTasks,
			CrossingTasks:    s.Stats.CrossingTasks,
			ScheduledMinutes: s.Stats.ScheduledMinutes,
			FixedMinutes:     s.Stats.FixedMinutes,
		},
	}
	for i, t := range s.Tasks {
		if s.Overdue(t) {
			resp.Tasks[i] = overdueTaskResponse(t, s.Now)
		} else {
			resp.Tasks[i] = newTaskResponse(t)
		}
	}
	for i, g := range s.Groups {
		ids := make([]string, len(g))
		for j, t := range g {
			ids[j] = t.ID
		}
		resp.Groups[i] = ids
	}
	for id, slot := range s.Slots {
		resp.Slots[id] = slotResponse{Column: slot.Column, Width: slot.Width}
	}
	if s.IsToday {
		d := newDashboardResponse(s.Dashboard, s.Now, upcoming)
		resp.Dashboard = &d
	}
	return resp
}

type outcomeResponse struct {
	Message string       `json:"message"`
	Task    taskResponse `json:"task"`
	Day     dayResponse  `json:"day"`
}

type overlapResponse struct {
	Error    string         `json:"error"`
	Overlaps []taskResponse `json:"overlaps"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Kind       string `json:"kind,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}
