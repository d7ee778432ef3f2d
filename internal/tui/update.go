package tui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jborjas31/my-scheduler/internal/planner"
	"github.com/jborjas31/my-scheduler/internal/summary"
	"github.com/jborjas31/my-scheduler/internal/task"
	"github.com/jborjas31/my-scheduler/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case commands.DayLoadedMsg:
		m.loading = false
		m.day = msg.Day
		m.date = msg.Day.Date
		m.clampCursor()
		return m, nil

	case commands.ProposalMsg:
		return m.handleProposal(msg.Proposal)

	case commands.FormErrMsg:
		return m.handleFormErr(msg.Err)

	case commands.OutcomeMsg:
		out := msg.Outcome
		m.closeModal()
		if out.Day != nil {
			// The view follows the day the change landed on.
			m.day = out.Day
			m.date = out.Day.Date
		}
		if out.Task != nil {
			m.focusTask(out.Task.ID)
		} else {
			m.clampCursor()
		}
		return m.setStatus(out.Message)

	case commands.TickMsg:
		if m.day != nil {
			m.day = summary.SummarizeDay(m.day.Date, m.day.Tasks, msg.Now)
		}
		return m, commands.Tick(tickInterval, m.clock.Now)

	case commands.ErrMsg:
		m.loading = false
		m.err = msg.Err
		m.log.WithError(msg.Err).Warn("command failed")
		m.statusMsg = fmt.Sprintf("Error: %v", msg.Err)
		m.statusTime = time.Now().Add(5 * time.Second)
		return m, nil

	case commands.StatusMsgCmd:
		return m.setStatus(msg.Msg)

	case commands.ClearStatusMsg:
		if time.Now().After(m.statusTime) {
			m.statusMsg = ""
		}
		return m, nil
	}

	if m.mode == ModeModal && m.modalType == ModalTaskForm {
		return m, m.form.update(msg)
	}
	return m, nil
}

func (m Model) setStatus(text string) (tea.Model, tea.Cmd) {
	m.err = nil
	m.statusMsg = text
	m.statusTime = time.Now().Add(3 * time.Second)
	return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}

// handleProposal queues the confirmations a proposal needs. Midnight is asked
// before overlap; edits that keep their times skip both.
func (m Model) handleProposal(prop *planner.Proposal) (tea.Model, tea.Cmd) {
	m.pending = prop
	m.prompts = nil
	if !prop.Editing || m.form.timesSet {
		if prop.CrossesMidnight() {
			m.prompts = append(m.prompts, ModalConfirmMidnight)
		}
		if len(prop.Overlaps) > 0 {
			m.prompts = append(m.prompts, ModalConfirmOverlap)
		}
	}
	return m.nextPrompt()
}

func (m Model) handleFormErr(err error) (tea.Model, tea.Cmd) {
	if errors.Is(err, planner.ErrNothingToUpdate) {
		m.closeModal()
		return m.setStatus("No changes")
	}

	var verr *task.ValidationError
	switch {
	case errors.As(err, &verr):
		m.form.err = verr.Message
		if verr.Suggestion != "" {
			m.form.err += "\n" + verr.Suggestion
		}
	case formError(err):
		m.form.err = err.Error()
	default:
		m.closeModal()
		m.err = err
		m.statusMsg = fmt.Sprintf("Error: %v", err)
		m.statusTime = time.Now().Add(5 * time.Second)
	}
	return m, nil
}
