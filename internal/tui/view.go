package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/jborjas31/my-scheduler/internal/dateutil"
	"github.com/jborjas31/my-scheduler/internal/task"
	"github.com/jborjas31/my-scheduler/internal/tui/view"
)

const (
	minWidth     = 40
	defaultWidth = 80
)

// View renders the day view and any open modal on top of it.
func (m Model) View() string {
	if m.width > 0 && m.width < minWidth {
		return "Terminal too small"
	}
	base := m.renderApp()
	if m.mode != ModeModal || m.modalType == ModalNone || m.width == 0 {
		return base
	}
	return view.RenderModalOverlay(base, m.renderModal(), m.width, m.height, m.styles.ModalBgColor)
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth - 2
	}
	return m.width - 2
}

func (m Model) renderApp() string {
	width := m.contentWidth()

	top := []string{m.renderHeader(), ""}
	if m.day != nil && m.day.IsToday {
		panel := view.RenderDashboard(m.day.Dashboard, m.day.Now, m.upcomingLimit, width-4, m.styles.dashboardStyles())
		top = append(top, m.styles.DashboardStyle.Width(width-2).Render(panel), "")
	}

	bottom := []string{""}
	if m.day != nil {
		bottom = append(bottom, m.styles.StatsStyle.Render(view.StatsLine(m.day.Stats)))
	}
	bottom = append(bottom, m.renderStatus(), m.help.View(m.keys))

	rowsHeight := -1
	if m.height > 0 {
		used := lipgloss.Height(strings.Join(top, "\n")) + lipgloss.Height(strings.Join(bottom, "\n"))
		rowsHeight = max(1, m.height-used)
	}

	content := strings.Join(top, "\n") + "\n" + m.renderRows(width, rowsHeight) + "\n" + strings.Join(bottom, "\n")
	app := m.styles.AppStyle.Render(content)
	return view.PadLines(app, m.width, m.height, m.styles.palette.Bg)
}

func (m Model) renderHeader() string {
	title := m.styles.TitleStyle.Render("My Scheduler")
	date := m.styles.DateStyle.Render(dateutil.FormatDateDisplay(m.date))
	header := title + m.styles.DateStyle.Render("  ") + date
	if m.isToday() {
		header += m.styles.DateStyle.Render(" ") + m.styles.TodayBadgeStyle.Render("Today")
	}
	return header
}

// renderRows renders the task list, scrolled so the cursor stays visible
// when height is positive.
func (m Model) renderRows(width, height int) string {
	switch {
	case m.loading && m.day == nil:
		return m.styles.EmptyStyle.Render("Loading...")
	case m.day == nil || len(m.day.Tasks) == 0:
		return m.styles.EmptyStyle.Render("No tasks scheduled. Press a to add one.")
	}

	first, last := 0, len(m.day.Tasks)
	if height > 0 && last > height {
		first = max(0, min(m.cursor-height/2, last-height))
		last = first + height
	}

	rows := make([]string, 0, last-first)
	styles := m.styles.rowStyles()
	for i := first; i < last; i++ {
		t := m.day.Tasks[i]
		rows = append(rows, view.RenderRow(view.Row{
			Task:     t,
			Slot:     m.day.Slots[t.ID],
			Overdue:   m.day.Overdue(t),
			OverdueBy: task.MinutesOverdue(t, m.day.Now),
			Selected:  i == m.cursor,
		}, width, styles))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderStatus() string {
	if m.statusMsg == "" {
		return ""
	}
	if m.err != nil {
		return m.styles.ErrorStyle.Render(m.statusMsg)
	}
	return m.styles.StatusStyle.Render(m.statusMsg)
}

func (m Model) renderModal() string {
	styles := m.styles.modalStyles()
	switch m.modalType {
	case ModalTaskForm:
		return m.renderTaskForm(styles)

	case ModalConfirmMidnight:
		return m.renderConfirm("Crosses midnight", m.pending.MidnightPrompt(), styles)

	case ModalConfirmOverlap:
		return m.renderConfirm("Overlapping tasks", m.pending.OverlapPrompt(), styles)

	case ModalConfirmDelete:
		body := "Are you sure you want to delete this task?"
		if m.deleteTarget != nil {
			body = fmt.Sprintf("Delete %q (%s)?", m.deleteTarget.Name, m.deleteTarget.TimeRange())
		}
		return m.renderConfirm("Delete task", body, styles)

	case ModalHelp:
		h := m.help
		h.ShowAll = true
		return view.RenderModalFrame("Keys", h.View(m.keys), "esc to close", styles)
	}
	return ""
}

func (m Model) renderConfirm(title, body string, styles view.ModalStyles) string {
	buttons := view.RenderModalButtons(styles, m.confirmChoice, "Yes", "No")
	return view.RenderModalFrame(title, body, buttons, styles)
}

func (m Model) renderTaskForm(styles view.ModalStyles) string {
	f := m.form
	title := "New task"
	if f.editing != nil {
		title = "Edit task"
	}

	priority := m.renderPriority(f.priority)
	fields := []view.FormField{
		{Label: "Name", Input: f.name.View(), Focused: f.focus == fieldName},
		{Label: "Start", Input: f.start.View(), Focused: f.focus == fieldStart},
		{Label: "End", Input: f.end.View(), Focused: f.focus == fieldEnd},
		{Label: "Priority", Input: priority, Focused: f.focus == fieldPriority},
	}

	hint := ""
	if p := f.preview(); p != "" {
		hint = m.styles.ModalHintStyle.Render(p)
	}
	body := view.RenderForm(fields, f.err, hint, styles)

	h := m.help
	footer := h.ShortHelpView(m.keys.formHelp())
	return view.RenderModalFrame(title, body, footer, styles)
}

func (m Model) renderPriority(p task.Priority) string {
	fixed, flexible := m.styles.PriorityInactiveStyle, m.styles.PriorityInactiveStyle
	if p == task.PriorityFixed {
		fixed = m.styles.PriorityActiveStyle
	} else {
		flexible = m.styles.PriorityActiveStyle
	}
	return fixed.Render("Fixed") + " " + flexible.Render("Flexible")
}

var _ help.KeyMap = keyMap{}
