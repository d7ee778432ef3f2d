package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/jborjas31/my-scheduler/internal/summary"
	"github.com/jborjas31/my-scheduler/internal/task"
)

// PrintOpts configures day printing.
type PrintOpts struct {
	Verbose       bool // show full names and IDs
	UpcomingLimit int  // upcoming tasks on the dashboard, 0 lists all
	Width         int  // 0 detects the terminal width
}

func (o PrintOpts) width() int {
	if o.Width > 0 {
		return o.Width
	}
	return termWidth()
}

// PrintDay prints a day's tasks, overlap markers and stats.
func PrintDay(w io.Writer, day *summary.DaySummary, opts PrintOpts) {
	fmt.Fprintf(w, "=== %s ===\n\n", formatHeader(dayTitle(day)))

	if len(day.Tasks) == 0 {
		fmt.Fprintln(w, "No tasks scheduled.")
		return
	}

	for _, t := range day.Tasks {
		fmt.Fprintln(w, taskRow(day, t, opts))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, formatMuted(statsLine(day.Stats)))
}

func dayTitle(day *summary.DaySummary) string {
	title := day.Date.Format("Monday, January 2, 2006")
	if day.IsToday {
		title += " (today)"
	}
	return title
}

// taskRow formats one task:
//
//	○ 11:00 PM - 1:00 AM (+1 day)  [F] Night shift  2h  OVERDUE
func taskRow(day *summary.DaySummary, t *task.Task, opts PrintOpts) string {
	symbol := "○"
	if t.Completed {
		symbol = "✓"
	}

	tag := formatFlexible("[~]")
	if t.IsFixed() {
		tag = formatFixed("[F]")
	}

	lane := " "
	if slot, ok := day.Slots[t.ID]; ok && slot.Width > 1 {
		lane = "┊"
	}

	name := t.Name
	if !opts.Verbose {
		// symbol, range, tag and duration take about 48 columns
		name = ansi.Truncate(name, max(opts.width()-48, 16), "…")
	}
	if t.Completed {
		name = formatMuted(name)
	}

	row := fmt.Sprintf("%s %s %-28s %s %s  %s", lane, symbol, t.TimeRange(), tag, name,
		formatMuted(task.FormatDuration(t.Duration)))
	if day.Overdue(t) {
		row += "  " + formatOverdue(overdueLabel(t, day.Now))
	}
	if opts.Verbose {
		row += "  " + formatMuted(t.ID)
	}
	return row
}

func statsLine(stats task.DayStats) string {
	parts := []string{
		fmt.Sprintf("%d tasks", stats.TotalTasks),
		fmt.Sprintf("%d done (%d%%)", stats.CompletedTasks, stats.CompletedPercent()),
		task.FormatDuration(stats.ScheduledMinutes) + " scheduled",
	}
	if stats.CrossingTasks > 0 {
		parts = append(parts, fmt.Sprintf("%d cross midnight", stats.CrossingTasks))
	}
	return strings.Join(parts, " · ")
}

// PrintDashboard prints what is active, upcoming, overdue and done at
// minute-of-day now.
func PrintDashboard(w io.Writer, d task.Dashboard, now int, opts PrintOpts) {
	fmt.Fprintln(w, formatHeader("Dashboard"))
	if d.Empty() {
		fmt.Fprintln(w, formatMuted("Nothing scheduled around now."))
		return
	}
	for _, t := range d.Active {
		fmt.Fprintf(w, "%s %s (until %s)\n", formatActive("▶ Now:"), t.Name, task.FormatMinutes(t.EndTime))
	}
	for _, u := range d.TopUpcoming(upcomingLimit(opts.UpcomingLimit)) {
		fmt.Fprintf(w, "%s %s in %s\n", formatUpcoming("◷ Next:"), u.Task.Name, task.FormatCountdown(u.MinutesUntilStart))
	}
	for _, t := range d.Overdue {
		fmt.Fprintf(w, "%s %s (%s)\n", formatOverdue("! Overdue:"), t.Name, overdueLabel(t, now))
	}
	if n := len(d.Completed); n > 0 {
		fmt.Fprintln(w, formatMuted(fmt.Sprintf("✓ %d completed today", n)))
	}
}

func overdueLabel(t *task.Task, now int) string {
	return task.FormatCountdown(task.MinutesOverdue(t, now)) + " overdue"
}

func upcomingLimit(n int) int {
	if n <= 0 {
		return -1
	}
	return n
}
