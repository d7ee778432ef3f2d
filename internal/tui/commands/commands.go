// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jborjas31/my-scheduler/internal/planner"
	"github.com/jborjas31/my-scheduler/internal/summary"
)

// DayLoadedMsg is sent when a day has been read from storage.
type DayLoadedMsg struct {
	Day *summary.DaySummary
}

// ProposalMsg carries a validated change waiting for confirmation.
type ProposalMsg struct {
	Proposal *planner.Proposal
}

// OutcomeMsg is sent after a change has been stored.
type OutcomeMsg struct {
	Outcome *planner.Outcome
}

// FormErrMsg is sent when a form submission is rejected. The form stays open.
type FormErrMsg struct {
	Err error
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// TickMsg refreshes time-dependent state such as the dashboard.
type TickMsg struct {
	Now time.Time
}

// LoadDay reads and summarizes the tasks for date.
func LoadDay(p *planner.Planner, date time.Time) tea.Cmd {
	return func() tea.Msg {
		day, err := p.Day(context.Background(), date)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return DayLoadedMsg{Day: day}
	}
}

// PrepareAdd validates a new task and looks up its overlaps.
func PrepareAdd(p *planner.Planner, req planner.Request) tea.Cmd {
	return func() tea.Msg {
		prop, err := p.PrepareAdd(context.Background(), req)
		if err != nil {
			return FormErrMsg{Err: err}
		}
		return ProposalMsg{Proposal: prop}
	}
}

// PrepareEdit validates an edit and looks up its overlaps.
func PrepareEdit(p *planner.Planner, id string, req planner.EditRequest) tea.Cmd {
	return func() tea.Msg {
		prop, err := p.PrepareEdit(context.Background(), id, req)
		if err != nil {
			return FormErrMsg{Err: err}
		}
		return ProposalMsg{Proposal: prop}
	}
}

// Commit stores a confirmed proposal.
func Commit(p *planner.Planner, prop *planner.Proposal) tea.Cmd {
	return func() tea.Msg {
		var (
			out *planner.Outcome
			err error
		)
		if prop.Editing {
			out, err = p.CommitEdit(context.Background(), prop)
		} else {
			out, err = p.Commit(context.Background(), prop)
		}
		if err != nil {
			return ErrMsg{Err: err}
		}
		return OutcomeMsg{Outcome: out}
	}
}

// Toggle flips a task's completion.
func Toggle(p *planner.Planner, id string) tea.Cmd {
	return func() tea.Msg {
		out, err := p.Toggle(context.Background(), id)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return OutcomeMsg{Outcome: out}
	}
}

// Delete removes a task. The user has already confirmed.
func Delete(p *planner.Planner, id string) tea.Cmd {
	return func() tea.Msg {
		out, err := p.Delete(context.Background(), id, planner.Always(true))
		if err != nil {
			return ErrMsg{Err: err}
		}
		return OutcomeMsg{Outcome: out}
	}
}

// CopyAgenda writes text to the system clipboard.
func CopyAgenda(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return StatusMsgCmd{Msg: "Agenda copied to clipboard"}
	}
}

// Tick schedules the next TickMsg after d.
func Tick(d time.Duration, now func() time.Time) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return TickMsg{Now: now()}
	})
}
