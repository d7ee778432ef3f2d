package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jborjas31/my-scheduler/internal/dateutil"
	"github.com/jborjas31/my-scheduler/internal/db"
	"github.com/jborjas31/my-scheduler/internal/planner"
	"github.com/jborjas31/my-scheduler/internal/task"
)

func (s *Server) getDay(c *gin.Context) {
	date, ok := s.dateParam(c)
	if !ok {
		return
	}
	day, err := s.planner.Day(c.Request.Context(), date)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newDayResponse(day, s.upcoming))
}

func (s *Server) getDashboard(c *gin.Context) {
	date, ok := s.dateParam(c)
	if !ok {
		return
	}
	day, err := s.planner.Day(c.Request.Context(), date)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":      day.Date.Format(dateutil.DateLayout),
		"is_today":  day.IsToday,
		"dashboard": newDashboardResponse(day.Dashboard, day.Now, s.upcoming),
	})
}

func (s *Server) createTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	// Bound fields already passed the clock validator.
	start, _ := task.ParseManual(req.Start)
	end, _ := task.ParseManual(req.End)

	date, err := dateutil.ParseRelativeDate(req.Date, s.clock.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	priority := task.PriorityFlexible
	if req.Priority != "" {
		priority = task.Priority(req.Priority)
	}

	prop, err := s.planner.PrepareAdd(c.Request.Context(), planner.Request{
		Name:     req.Name,
		Start:    start,
		End:      end,
		Priority: priority,
		Date:     date,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	if len(prop.Overlaps) > 0 && !req.Force {
		c.JSON(http.StatusConflict, overlapResponse{
			Error:    prop.OverlapPrompt(),
			Overlaps: taskList(prop.Overlaps),
		})
		return
	}

	out, err := s.planner.Commit(c.Request.Context(), prop)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, s.outcome(out))
}

func (s *Server) updateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	edit := planner.EditRequest{Name: req.Name}
	if req.Start != nil {
		m, _ := task.ParseManual(*req.Start)
		edit.Start = &m
	}
	if req.End != nil {
		m, _ := task.ParseManual(*req.End)
		edit.End = &m
	}
	if req.Priority != nil {
		p := task.Priority(*req.Priority)
		edit.Priority = &p
	}

	prop, err := s.planner.PrepareEdit(c.Request.Context(), c.Param("id"), edit)
	if err != nil {
		s.fail(c, err)
		return
	}
	if len(prop.Overlaps) > 0 && !req.Force {
		c.JSON(http.StatusConflict, overlapResponse{
			Error:    prop.OverlapPrompt(),
			Overlaps: taskList(prop.Overlaps),
		})
		return
	}

	out, err := s.planner.CommitEdit(c.Request.Context(), prop)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.outcome(out))
}

func (s *Server) toggleTask(c *gin.Context) {
	out, err := s.planner.Toggle(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.outcome(out))
}

func (s *Server) deleteTask(c *gin.Context) {
	out, err := s.planner.Delete(c.Request.Context(), c.Param("id"), planner.Always(true))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.outcome(out))
}

func (s *Server) outcome(out *planner.Outcome) outcomeResponse {
	return outcomeResponse{
		Message: out.Message,
		Task:    newTaskResponse(out.Task),
		Day:     newDayResponse(out.Day, s.upcoming),
	}
}

// dateParam resolves the :date path parameter. It writes a 400 and returns
// false when the value cannot be parsed.
func (s *Server) dateParam(c *gin.Context) (time.Time, bool) {
	date, err := dateutil.ParseRelativeDate(c.Param("date"), s.clock.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return time.Time{}, false
	}
	return date, true
}

// fail maps a planner or storage error to a status code and writes it.
func (s *Server) fail(c *gin.Context, err error) {
	var verr *task.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{
			Error:      verr.Message,
			Kind:       string(verr.Kind),
			Suggestion: verr.Suggestion,
		})
	case errors.Is(err, task.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "task not found"})
	case errors.Is(err, planner.ErrNothingToUpdate):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, db.ErrUnavailable), errors.Is(err, db.ErrQuotaExceeded):
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
