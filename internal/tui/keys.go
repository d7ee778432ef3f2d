package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jborjas31/my-scheduler/internal/dateutil"
	"github.com/jborjas31/my-scheduler/internal/tui/commands"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PrevDay  key.Binding
	NextDay  key.Binding
	Today    key.Binding
	Add      key.Binding
	Edit     key.Binding
	Toggle   key.Binding
	Delete   key.Binding
	Copy     key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding
	ForceQ   key.Binding
	Next     key.Binding
	Prev     key.Binding
	Submit   key.Binding
	Cancel   key.Binding
	Yes      key.Binding
	No       key.Binding
	Left     key.Binding
	Right    key.Binding
	Priority key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		PrevDay:  key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "prev day")),
		NextDay:  key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→/l", "next day")),
		Today:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Add:      key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "enter", "x"), key.WithHelp("space", "done")),
		Delete:   key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy agenda")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQ:   key.NewBinding(key.WithKeys("ctrl+c")),
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Yes:      key.NewBinding(key.WithKeys("y", "Y")),
		No:       key.NewBinding(key.WithKeys("n", "N")),
		Left:     key.NewBinding(key.WithKeys("left", "h")),
		Right:    key.NewBinding(key.WithKeys("right", "l")),
		Priority: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "fixed/flexible")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Toggle, k.Delete, k.PrevDay, k.NextDay, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevDay, k.NextDay, k.Today},
		{k.Add, k.Edit, k.Toggle, k.Delete},
		{k.Copy, k.Reload, k.Help, k.Quit},
	}
}

// formHelp lists the bindings shown under the task form.
func (k keyMap) formHelp() []key.Binding {
	up := key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "adjust time"))
	return []key.Binding{k.Next, up, k.Priority, k.Submit, k.Cancel}
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQ) {
		return m, tea.Quit
	}
	if m.mode == ModeModal {
		return m.handleModalKeys(msg)
	}
	return m.handleNormalKeys(msg)
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		m.cursor++
		m.clampCursor()

	case key.Matches(msg, m.keys.PrevDay):
		return m.showDate(m.date.AddDate(0, 0, -1))
	case key.Matches(msg, m.keys.NextDay):
		return m.showDate(m.date.AddDate(0, 0, 1))
	case key.Matches(msg, m.keys.Today):
		return m.showDate(m.clock.Now())
	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		return m, commands.LoadDay(m.planner, m.date)

	case key.Matches(msg, m.keys.Add):
		slot := m.slots.DefaultSlot(m.clock.Now())
		if m.isToday() && m.day != nil {
			slot = m.slots.NextFree(m.clock.Now(), m.day.Tasks)
		}
		cmd := m.form.resetForAdd(slot)
		m.openModal(ModalTaskForm)
		return m, cmd

	case key.Matches(msg, m.keys.Edit):
		t := m.selected()
		if t == nil {
			return m, nil
		}
		cmd := m.form.resetForEdit(t)
		m.openModal(ModalTaskForm)
		return m, cmd

	case key.Matches(msg, m.keys.Toggle):
		if t := m.selected(); t != nil {
			return m, commands.Toggle(m.planner, t.ID)
		}

	case key.Matches(msg, m.keys.Delete):
		if t := m.selected(); t != nil {
			m.deleteTarget = t
			m.openModal(ModalConfirmDelete)
			m.confirmChoice = 1
		}

	case key.Matches(msg, m.keys.Copy):
		if m.day != nil {
			return m, commands.CopyAgenda(m.day.Agenda())
		}

	case key.Matches(msg, m.keys.Help):
		m.openModal(ModalHelp)
	}
	return m, nil
}

func (m Model) showDate(date time.Time) (tea.Model, tea.Cmd) {
	m.date = dateutil.TruncateToDay(date)
	m.cursor = 0
	m.loading = true
	return m, commands.LoadDay(m.planner, m.date)
}

// handleModalKeys handles keys while a modal is open.
func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modalType {
	case ModalTaskForm:
		return m.handleFormKeys(msg)
	case ModalConfirmMidnight, ModalConfirmOverlap, ModalConfirmDelete:
		return m.handleConfirmKeys(msg)
	default:
		if key.Matches(msg, m.keys.Cancel, m.keys.Help, m.keys.Quit) {
			m.closeModal()
		}
		return m, nil
	}
}

func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.form
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeModal()
		return m, nil
	case key.Matches(msg, m.keys.Next):
		return m, f.setFocus(f.focus + 1)
	case key.Matches(msg, m.keys.Prev):
		return m, f.setFocus(f.focus - 1)
	case key.Matches(msg, m.keys.Submit):
		return m.submitForm()
	}

	switch f.focus {
	case fieldPriority:
		if key.Matches(msg, m.keys.Priority, m.keys.Left, m.keys.Right) {
			f.togglePriority()
		}
		return m, nil
	case fieldStart, fieldEnd:
		switch msg.String() {
		case "up":
			f.step(m.slots, 1)
			return m, nil
		case "down":
			f.step(m.slots, -1)
			return m, nil
		}
	}
	f.err = ""
	return m, f.update(msg)
}

// submitForm parses the form and asks the planner to validate it.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	f := &m.form
	if f.editing == nil {
		req, err := f.addRequest(m.date)
		if err != nil {
			f.err = err.Error()
			return m, nil
		}
		return m, commands.PrepareAdd(m.planner, req)
	}

	req, err := f.editRequest()
	if err != nil {
		f.err = err.Error()
		return m, nil
	}
	return m, commands.PrepareEdit(m.planner, f.editing.ID, req)
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left, m.keys.Right, m.keys.Next):
		m.confirmChoice = 1 - m.confirmChoice
		return m, nil
	case key.Matches(msg, m.keys.Yes):
		return m.confirm(true)
	case key.Matches(msg, m.keys.No, m.keys.Cancel):
		return m.confirm(false)
	case key.Matches(msg, m.keys.Submit):
		return m.confirm(m.confirmChoice == 0)
	}
	return m, nil
}

// confirm answers the open confirmation modal.
func (m Model) confirm(yes bool) (tea.Model, tea.Cmd) {
	if m.modalType == ModalConfirmDelete {
		t := m.deleteTarget
		m.closeModal()
		if !yes || t == nil {
			return m, nil
		}
		return m, commands.Delete(m.planner, t.ID)
	}

	if !yes {
		// Back to the form so the user can adjust the times.
		m.pending = nil
		m.prompts = nil
		m.openModal(ModalTaskForm)
		m.form.err = "Not saved. Adjust the task or press esc to discard."
		return m, nil
	}
	return m.nextPrompt()
}

// nextPrompt opens the next queued confirmation, or commits the pending
// proposal once none are left.
func (m Model) nextPrompt() (tea.Model, tea.Cmd) {
	if len(m.prompts) > 0 {
		next := m.prompts[0]
		m.prompts = m.prompts[1:]
		m.openModal(next)
		return m, nil
	}
	prop := m.pending
	m.closeModal()
	if prop == nil {
		return m, nil
	}
	return m, commands.Commit(m.planner, prop)
}

// formError reports whether err should be shown inside the form.
func formError(err error) bool {
	var ie inputError
	return errors.As(err, &ie)
}
