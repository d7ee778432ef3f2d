package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jborjas31/my-scheduler/internal/tui/theme"
	"github.com/jborjas31/my-scheduler/internal/tui/view"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	// Header
	TitleStyle      lipgloss.Style
	DateStyle       lipgloss.Style
	TodayBadgeStyle lipgloss.Style

	// Task rows
	TaskFixedStyle       lipgloss.Style
	TaskFlexibleStyle    lipgloss.Style
	TaskFixedAltStyle    lipgloss.Style // adjacent overlap column
	TaskFlexibleAltStyle lipgloss.Style
	TaskDoneStyle        lipgloss.Style
	TaskSelectedStyle    lipgloss.Style
	LaneStyle            lipgloss.Style
	OverdueStyle         lipgloss.Style
	EmptyStyle           lipgloss.Style

	// Dashboard
	DashboardStyle   lipgloss.Style
	DashTitleStyle   lipgloss.Style
	DashActiveStyle  lipgloss.Style
	DashUpcoming     lipgloss.Style
	DashCompleted    lipgloss.Style
	DashMutedStyle   lipgloss.Style
	DashOverdueStyle lipgloss.Style

	// Footer
	StatsStyle   lipgloss.Style
	StatusStyle  lipgloss.Style
	ErrorStyle   lipgloss.Style
	HelpStyle    lipgloss.Style
	HelpKeyStyle lipgloss.Style

	// Modal
	ModalStyle             lipgloss.Style
	ModalBgColor           lipgloss.Color
	ModalHeaderStyle       lipgloss.Style
	ModalTitleStyle        lipgloss.Style
	ModalBodyStyle         lipgloss.Style
	ModalFooterStyle       lipgloss.Style
	ModalLabelStyle        lipgloss.Style
	ModalErrorStyle        lipgloss.Style
	ModalHintStyle         lipgloss.Style
	ModalInputTextStyle    lipgloss.Style
	ModalInputCursorStyle  lipgloss.Style
	ModalPlaceholderStyle  lipgloss.Style
	ModalButtonStyle       lipgloss.Style
	ModalButtonActiveStyle lipgloss.Style
	PriorityActiveStyle    lipgloss.Style
	PriorityInactiveStyle  lipgloss.Style

	AppStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	s := &Styles{palette: p}

	base := lipgloss.NewStyle().Background(p.Bg).Foreground(p.Fg)

	s.TitleStyle = base.Bold(true).Foreground(p.Accent)
	s.DateStyle = base.Bold(true)
	s.TodayBadgeStyle = lipgloss.NewStyle().
		Background(p.Accent).
		Foreground(p.TextOnAccent).
		Bold(true).
		Padding(0, 1)

	s.TaskFixedStyle = lipgloss.NewStyle().Background(p.FixedBg).Foreground(p.TextOnFixed).Bold(true)
	s.TaskFlexibleStyle = lipgloss.NewStyle().Background(p.FlexibleBg).Foreground(p.TextOnFlexible)
	s.TaskFixedAltStyle = s.TaskFixedStyle.Background(p.FixedBgAlt)
	s.TaskFlexibleAltStyle = s.TaskFlexibleStyle.Background(p.FlexibleBgAlt)
	s.TaskDoneStyle = lipgloss.NewStyle().Background(p.DoneBg).Foreground(p.FgMuted).Strikethrough(true)
	s.TaskSelectedStyle = lipgloss.NewStyle().Background(p.BgSelection).Foreground(p.Accent).Bold(true)
	s.LaneStyle = base.Foreground(p.FgMuted)
	s.OverdueStyle = lipgloss.NewStyle().Background(p.Overdue).Foreground(p.TextOnOverdue).Bold(true)
	s.EmptyStyle = base.Foreground(p.FgMuted).Italic(true)

	s.DashboardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.FgMuted).
		BorderBackground(p.Bg).
		Background(p.Bg).
		Padding(0, 1)
	s.DashTitleStyle = base.Bold(true).Foreground(p.Accent)
	s.DashActiveStyle = base.Foreground(p.Active).Bold(true)
	s.DashUpcoming = base.Foreground(p.Upcoming)
	s.DashOverdueStyle = base.Foreground(p.Overdue).Bold(true)
	s.DashCompleted = base.Foreground(p.Completed)
	s.DashMutedStyle = base.Foreground(p.FgMuted)

	s.StatsStyle = base.Foreground(p.FgMuted)
	s.StatusStyle = base.Foreground(p.Upcoming).Bold(true)
	s.ErrorStyle = base.Foreground(p.Overdue).Bold(true)
	s.HelpStyle = base.Foreground(p.FgMuted)
	s.HelpKeyStyle = base.Foreground(p.Accent)

	s.ModalBgColor = p.BgHighlight
	modal := lipgloss.NewStyle().Background(p.BgHighlight).Foreground(p.Fg)
	s.ModalStyle = modal.
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent).
		BorderBackground(p.BgHighlight).
		Padding(1, 2).
		Width(60)
	s.ModalHeaderStyle = modal
	s.ModalTitleStyle = modal.Bold(true).Foreground(p.Accent)
	s.ModalBodyStyle = modal
	s.ModalFooterStyle = modal.Foreground(p.FgMuted)
	s.ModalLabelStyle = modal.Bold(true)
	s.ModalErrorStyle = modal.Foreground(p.Overdue).Bold(true)
	s.ModalHintStyle = modal.Foreground(p.FgMuted).Italic(true)
	s.ModalInputTextStyle = modal
	s.ModalInputCursorStyle = lipgloss.NewStyle().Foreground(p.Accent)
	s.ModalPlaceholderStyle = modal.Foreground(p.FgMuted)
	s.ModalButtonStyle = lipgloss.NewStyle().Background(p.BgSelection).Foreground(p.Fg)
	s.ModalButtonActiveStyle = lipgloss.NewStyle().Background(p.Accent).Foreground(p.TextOnAccent).Bold(true)
	s.PriorityActiveStyle = lipgloss.NewStyle().Background(p.Fixed).Foreground(p.TextOnAccent).Bold(true).Padding(0, 1)
	s.PriorityInactiveStyle = modal.Foreground(p.FgMuted).Padding(0, 1)

	s.AppStyle = base.Padding(0, 1)
	return s
}

func (s *Styles) rowStyles() view.RowStyles {
	return view.RowStyles{
		Fixed:       s.TaskFixedStyle,
		Flexible:    s.TaskFlexibleStyle,
		FixedAlt:    s.TaskFixedAltStyle,
		FlexibleAlt: s.TaskFlexibleAltStyle,
		Done:        s.TaskDoneStyle,
		Selected:    s.TaskSelectedStyle,
		Lane:        s.LaneStyle,
		Overdue:     s.OverdueStyle,
		Muted:       s.EmptyStyle,
	}
}

func (s *Styles) dashboardStyles() view.DashboardStyles {
	return view.DashboardStyles{
		Title:     s.DashTitleStyle,
		Active:    s.DashActiveStyle,
		Upcoming:  s.DashUpcoming,
		Overdue:   s.DashOverdueStyle,
		Completed: s.DashCompleted,
		Muted:     s.DashMutedStyle,
	}
}

func (s *Styles) modalStyles() view.ModalStyles {
	return view.ModalStyles{
		Header:       s.ModalHeaderStyle,
		Title:        s.ModalTitleStyle,
		Body:         s.ModalBodyStyle,
		Footer:       s.ModalFooterStyle,
		Frame:        s.ModalStyle,
		Button:       s.ModalButtonStyle,
		ButtonActive: s.ModalButtonActiveStyle,
		Label:        s.ModalLabelStyle,
		Error:        s.ModalErrorStyle,
	}
}
