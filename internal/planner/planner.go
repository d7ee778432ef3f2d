// Package planner orchestrates schedule changes: it validates input, checks
// the day for overlaps, asks for confirmation, persists and re-reads the day.
// The CLI, TUI and HTTP API all go through it.
package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jborjas31/my-scheduler/internal/dateutil"
	"github.com/jborjas31/my-scheduler/internal/logging"
	"github.com/jborjas31/my-scheduler/internal/summary"
	"github.com/jborjas31/my-scheduler/internal/task"
)

// ErrDeclined is returned when the user declines a confirmation prompt.
var ErrDeclined = errors.New("cancelled")

// ErrNothingToUpdate is returned by Edit when the request changes no field.
var ErrNothingToUpdate = errors.New("nothing to update")

// Confirmer answers the prompts raised while changing the schedule.
type Confirmer interface {
	ConfirmMidnight(p *Proposal) bool
	ConfirmOverlap(p *Proposal) bool
	ConfirmDelete(t *task.Task) bool
}

// Always answers every prompt with the same value. Always(true) backs
// --yes flags and forced API requests.
type Always bool

func (a Always) ConfirmMidnight(*Proposal) bool { return bool(a) }
func (a Always) ConfirmOverlap(*Proposal) bool  { return bool(a) }
func (a Always) ConfirmDelete(*task.Task) bool  { return bool(a) }

// Request is raw input for a new task.
type Request struct {
	Name     string
	Start    int
	End      int
	Priority task.Priority
	Date     time.Time // zero means today
}

// EditRequest changes selected fields of an existing task.
type EditRequest struct {
	Name     *string
	Start    *int
	End      *int
	Priority *task.Priority
}

func (r EditRequest) empty() bool {
	return r.Name == nil && r.Start == nil && r.End == nil && r.Priority == nil
}

// Proposal is a validated change waiting for confirmation.
type Proposal struct {
	Task       *task.Task
	Validation task.Result
	Overlaps   []*task.Task
	Editing    bool // Task.ID names the task being edited
}

// CrossesMidnight reports whether the proposed task wraps past midnight.
func (p *Proposal) CrossesMidnight() bool {
	return p.Validation.CrossesMidnight
}

// OverlapNames lists the names of the overlapping tasks.
func (p *Proposal) OverlapNames() []string {
	names := make([]string, len(p.Overlaps))
	for i, t := range p.Overlaps {
		names[i] = t.Name
	}
	return names
}

// MidnightPrompt is the question asked before saving a midnight-crossing task.
func (p *Proposal) MidnightPrompt() string {
	return fmt.Sprintf("This task crosses midnight: %s\nDuration: %s\n\nContinue?",
		task.FormatRange(p.Task.StartTime, p.Task.EndTime), p.Validation.DurationText)
}

// OverlapPrompt is the question asked before saving an overlapping task.
func (p *Proposal) OverlapPrompt() string {
	verb := "create"
	if p.Editing {
		verb = "save"
	}
	return fmt.Sprintf("This task may overlap with: %s\n\nDo you want to %s it anyway?",
		strings.Join(p.OverlapNames(), ", "), verb)
}

// Outcome is the result of a completed change.
type Outcome struct {
	Task    *task.Task
	Message string
	Day     *summary.DaySummary // the day re-read after the change
}

// Planner applies schedule changes against a repository.
type Planner struct {
	repo  task.Repository
	clock dateutil.Clock
	log   logrus.FieldLogger
}

// New creates a Planner. A nil clock uses the system clock and a nil logger
// discards output.
func New(repo task.Repository, clock dateutil.Clock, log logrus.FieldLogger) *Planner {
	if clock == nil {
		clock = dateutil.SystemClock{}
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Planner{repo: repo, clock: clock, log: log.WithField("component", "planner")}
}

// Day loads and summarizes the tasks for date.
func (p *Planner) Day(ctx context.Context, date time.Time) (*summary.DaySummary, error) {
	return summary.BuildDaySummary(ctx, p.repo, date, p.clock)
}

// PrepareAdd validates a request and looks up overlapping tasks on its day.
// Validation failures are returned as *task.ValidationError.
func (p *Planner) PrepareAdd(ctx context.Context, req Request) (*Proposal, error) {
	date := req.Date
	if date.IsZero() {
		date = p.clock.Now()
	}

	res := task.Validate(req.Name, req.Start, req.End, req.Priority)
	if err := res.Err(); err != nil {
		return nil, err
	}

	t := res.Task(req.Priority, date, p.clock.Now())

	existing, err := p.repo.ListTasksForDate(ctx, t.Date)
	if err != nil {
		return nil, fmt.Errorf("fetching tasks: %w", err)
	}

	return &Proposal{
		Task:       t,
		Validation: res,
		Overlaps:   task.NewDayWithTasks(t.Date, existing).Overlapping(t.StartTime, t.EndTime, ""),
	}, nil
}

// confirm runs the midnight and overlap prompts in that order.
func confirm(prop *Proposal, c Confirmer) bool {
	if c == nil {
		c = Always(true)
	}
	if prop.CrossesMidnight() && !c.ConfirmMidnight(prop) {
		return false
	}
	if len(prop.Overlaps) > 0 && !c.ConfirmOverlap(prop) {
		return false
	}
	return true
}

// Commit stores a prepared new task and re-reads its day.
func (p *Planner) Commit(ctx context.Context, prop *Proposal) (*Outcome, error) {
	if prop.Editing {
		return nil, errors.New("commit called with an edit proposal")
	}
	if err := p.repo.CreateTask(ctx, prop.Task); err != nil {
		p.log.WithError(err).Error("adding task failed")
		return nil, fmt.Errorf("adding task: %w", err)
	}

	p.log.WithFields(logrus.Fields{
		"task_id":  prop.Task.ID,
		"date":     prop.Task.DateString(),
		"overlaps": len(prop.Overlaps),
	}).Info("task added")

	msg := fmt.Sprintf("Task %q added! (%s)", prop.Task.Name, prop.Validation.DurationText)
	if prop.CrossesMidnight() {
		msg = fmt.Sprintf("Cross-midnight task %q added! (%s)", prop.Task.Name, prop.Validation.DurationText)
	}
	return p.outcome(ctx, prop.Task, msg)
}

// Add validates, confirms and stores a new task.
func (p *Planner) Add(ctx context.Context, req Request, c Confirmer) (*Outcome, error) {
	prop, err := p.PrepareAdd(ctx, req)
	if err != nil {
		return nil, err
	}
	if !confirm(prop, c) {
		return nil, ErrDeclined
	}
	return p.Commit(ctx, prop)
}

// PrepareEdit merges an edit into the stored task, re-validates it and looks
// up overlaps with the other tasks of its day.
func (p *Planner) PrepareEdit(ctx context.Context, id string, req EditRequest) (*Proposal, error) {
	if req.empty() {
		return nil, ErrNothingToUpdate
	}

	current, err := p.repo.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting task: %w", err)
	}

	merged := task.TaskUpdate{
		Name:      req.Name,
		StartTime: req.Start,
		EndTime:   req.End,
		Priority:  req.Priority,
	}.Apply(current)

	res := task.Validate(merged.Name, merged.StartTime, merged.EndTime, merged.Priority)
	if err := res.Err(); err != nil {
		return nil, err
	}
	merged.Name = res.Name

	prop := &Proposal{Task: merged, Validation: res, Editing: true}
	if req.Start == nil && req.End == nil {
		return prop, nil
	}

	existing, err := p.repo.ListTasksForDate(ctx, merged.Date)
	if err != nil {
		return nil, fmt.Errorf("fetching tasks: %w", err)
	}
	prop.Overlaps = task.NewDayWithTasks(merged.Date, existing).Overlapping(merged.StartTime, merged.EndTime, id)
	return prop, nil
}

// CommitEdit stores a prepared edit and re-reads the task's day.
func (p *Planner) CommitEdit(ctx context.Context, prop *Proposal) (*Outcome, error) {
	if !prop.Editing {
		return nil, errors.New("commit edit called with an add proposal")
	}
	t := prop.Task
	name, start, end, priority := t.Name, t.StartTime, t.EndTime, t.Priority
	update := task.TaskUpdate{Name: &name, StartTime: &start, EndTime: &end, Priority: &priority}
	if err := p.repo.UpdateTask(ctx, t.ID, update); err != nil {
		p.log.WithError(err).WithField("task_id", t.ID).Error("updating task failed")
		return nil, fmt.Errorf("updating task: %w", err)
	}
	p.log.WithField("task_id", t.ID).Info("task updated")
	return p.outcome(ctx, t, "Task updated successfully")
}

// Edit validates, confirms and stores a change to an existing task. The
// midnight and overlap prompts only run when the times change.
func (p *Planner) Edit(ctx context.Context, id string, req EditRequest, c Confirmer) (*Outcome, error) {
	prop, err := p.PrepareEdit(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if (req.Start != nil || req.End != nil) && !confirm(prop, c) {
		return nil, ErrDeclined
	}
	return p.CommitEdit(ctx, prop)
}

// Toggle flips a task's completion and re-reads its day.
func (p *Planner) Toggle(ctx context.Context, id string) (*Outcome, error) {
	done, err := p.repo.ToggleCompletion(ctx, id)
	if err != nil {
		p.log.WithError(err).WithField("task_id", id).Error("toggling task failed")
		return nil, fmt.Errorf("updating task: %w", err)
	}

	t, err := p.repo.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting task: %w", err)
	}

	msg := fmt.Sprintf("Task %q marked incomplete", t.Name)
	if done {
		msg = fmt.Sprintf("Task %q completed", t.Name)
	}
	p.log.WithFields(logrus.Fields{"task_id": id, "completed": done}).Info("task toggled")
	return p.outcome(ctx, t, msg)
}

// Delete asks for confirmation and removes a task.
func (p *Planner) Delete(ctx context.Context, id string, c Confirmer) (*Outcome, error) {
	t, err := p.repo.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting task: %w", err)
	}
	if c == nil {
		c = Always(true)
	}
	if !c.ConfirmDelete(t) {
		return nil, ErrDeclined
	}

	if err := p.repo.DeleteTask(ctx, id); err != nil {
		p.log.WithError(err).WithField("task_id", id).Error("deleting task failed")
		return nil, fmt.Errorf("deleting task: %w", err)
	}
	p.log.WithField("task_id", id).Info("task deleted")
	return p.outcome(ctx, t, "Task deleted successfully")
}

func (p *Planner) outcome(ctx context.Context, t *task.Task, msg string) (*Outcome, error) {
	day, err := p.Day(ctx, t.Date)
	if err != nil {
		return nil, err
	}
	return &Outcome{Task: t, Message: msg, Day: day}, nil
}
