package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jborjas31/my-scheduler/internal/task"
)

// RowStyles groups the styles used by RenderRow.
type RowStyles struct {
	Fixed       lipgloss.Style
	Flexible    lipgloss.Style
	FixedAlt    lipgloss.Style
	FlexibleAlt lipgloss.Style
	Done        lipgloss.Style
	Selected    lipgloss.Style
	Lane        lipgloss.Style
	Overdue     lipgloss.Style
	Muted       lipgloss.Style
}

// Row is one task line of the day list.
type Row struct {
	Task      *task.Task
	Slot      task.Slot
	Overdue   bool
	OverdueBy int // minutes since the task ended, when Overdue
	Selected  bool
}

// SizeMark is a one-cell bar that grows with the task's size class.
func SizeMark(c task.SizeClass) string {
	switch c {
	case task.SizeTiny:
		return "▏"
	case task.SizeShort:
		return "▎"
	case task.SizeMedium:
		return "▌"
	default:
		return "█"
	}
}

// OverdueLabel formats how long ago a task ended, e.g. "1h 5m overdue".
func OverdueLabel(minutes int) string {
	return task.FormatCountdown(minutes) + " overdue"
}

// Lanes draws the overlap gutter for a slot: one cell per column in the
// group with the task's own column filled.
func Lanes(slot task.Slot) string {
	if slot.Width <= 1 {
		return " "
	}
	var b strings.Builder
	for i := 0; i < slot.Width; i++ {
		if i == slot.Column {
			b.WriteString("┃")
		} else {
			b.WriteString("│")
		}
	}
	return b.String()
}

// RenderRow renders a task row padded or truncated to width.
func RenderRow(r Row, width int, s RowStyles) string {
	t := r.Task

	mark := "○"
	if t.Completed {
		mark = "✓"
	}
	lanes := Lanes(r.Slot)
	size := SizeMark(task.SizeOf(t.Duration))
	timeRange := fmt.Sprintf("%-28s", t.TimeRange())

	tail := " " + task.FormatDuration(t.Duration)
	if r.Overdue {
		tail += " ! " + OverdueLabel(r.OverdueBy)
	}

	prefix := fmt.Sprintf("%s %s %s %s ", lanes, mark, size, timeRange)
	nameWidth := width - ansi.StringWidth(prefix) - ansi.StringWidth(tail)
	name := t.Name
	if nameWidth > 0 {
		name = ansi.Truncate(name, nameWidth, "…")
		name += strings.Repeat(" ", max(0, nameWidth-ansi.StringWidth(name)))
	}

	style := rowStyle(r, s)
	line := s.Lane.Render(lanes) + style.Render(fmt.Sprintf(" %s %s %s %s", mark, size, timeRange, name))
	if r.Overdue {
		line += s.Overdue.Render(tail)
	} else {
		line += style.Render(tail)
	}
	return line
}

func rowStyle(r Row, s RowStyles) lipgloss.Style {
	switch {
	case r.Selected:
		return s.Selected
	case r.Task.Completed:
		return s.Done
	}
	alt := r.Slot.Column%2 == 1
	if r.Task.IsFixed() {
		if alt {
			return s.FixedAlt
		}
		return s.Fixed
	}
	if alt {
		return s.FlexibleAlt
	}
	return s.Flexible
}

// DashboardStyles groups the styles used by RenderDashboard.
type DashboardStyles struct {
	Title     lipgloss.Style
	Active    lipgloss.Style
	Upcoming  lipgloss.Style
	Overdue   lipgloss.Style
	Completed lipgloss.Style
	Muted     lipgloss.Style
}

// RenderDashboard renders the dashboard panel for minute-of-day now. At most
// upcomingLimit upcoming tasks are listed; a negative limit lists all of them.
func RenderDashboard(d task.Dashboard, now, upcomingLimit, width int, s DashboardStyles) string {
	var lines []string
	add := func(style lipgloss.Style, text string) {
		lines = append(lines, style.Render(ansi.Truncate(text, width, "…")))
	}

	lines = append(lines, s.Title.Render("Dashboard"))
	if d.Empty() {
		add(s.Muted, "Nothing scheduled around now.")
		return strings.Join(lines, "\n")
	}

	for _, t := range d.Active {
		add(s.Active, fmt.Sprintf("▶ Now: %s (until %s)", t.Name, task.FormatMinutes(t.EndTime)))
	}
	for _, u := range d.TopUpcoming(upcomingLimit) {
		add(s.Upcoming, fmt.Sprintf("◷ Next: %s in %s", u.Task.Name, task.FormatCountdown(u.MinutesUntilStart)))
	}
	for _, t := range d.Overdue {
		add(s.Overdue, fmt.Sprintf("! Overdue: %s (%s)", t.Name, OverdueLabel(task.MinutesOverdue(t, now))))
	}
	if n := len(d.Completed); n > 0 {
		add(s.Completed, fmt.Sprintf("✓ %d completed today", n))
	}
	return strings.Join(lines, "\n")
}

// StatsLine summarizes a day in one line.
func StatsLine(stats task.DayStats) string {
	return fmt.Sprintf("%d tasks · %d done (%d%%) · %s scheduled · %s fixed",
		stats.TotalTasks, stats.CompletedTasks, stats.CompletedPercent(),
		task.FormatDuration(stats.ScheduledMinutes), task.FormatDuration(stats.FixedMinutes))
}
