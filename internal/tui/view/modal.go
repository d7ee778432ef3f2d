// Package view provides rendering helpers for the TUI.
package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ModalStyles groups the styles needed to render modal frames and buttons.
type ModalStyles struct {
	Header       lipgloss.Style
	Title        lipgloss.Style
	Body         lipgloss.Style
	Footer       lipgloss.Style
	Frame        lipgloss.Style
	Button       lipgloss.Style
	ButtonActive lipgloss.Style
	Label        lipgloss.Style
	Error        lipgloss.Style
}

// RenderModalFrame renders a modal with the provided title, body, and footer.
func RenderModalFrame(title, body, footer string, styles ModalStyles) string {
	var b strings.Builder

	b.WriteString(styles.Header.Render(styles.Title.Render(title)))
	if body != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.Body.Render(body))
	}
	if footer != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.Footer.Render(footer))
	}
	return styles.Frame.Render(b.String())
}

// RenderModalButtons renders a row of buttons with the active one highlighted.
func RenderModalButtons(styles ModalStyles, active int, labels ...string) string {
	parts := make([]string, 0, len(labels))
	for i, label := range labels {
		style := styles.Button
		if i == active {
			style = styles.ButtonActive
		}
		parts = append(parts, style.Padding(0, 1).Render(label))
	}
	return strings.Join(parts, " ")
}

// FormField is one labelled input of the task form.
type FormField struct {
	Label   string
	Input   string // rendered input or value
	Focused bool
}

// RenderForm renders labelled fields, an optional error and a hint line.
func RenderForm(fields []FormField, errText, hint string, styles ModalStyles) string {
	labelWidth := 0
	for _, f := range fields {
		labelWidth = max(labelWidth, lipgloss.Width(f.Label))
	}

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString("\n")
		}
		cursor := "  "
		if f.Focused {
			cursor = "> "
		}
		label := f.Label + strings.Repeat(" ", labelWidth-lipgloss.Width(f.Label))
		b.WriteString(cursor + styles.Label.Render(label) + "  " + f.Input)
	}
	if errText != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.Error.Render(errText))
	}
	if hint != "" {
		b.WriteString("\n\n")
		b.WriteString(hint)
	}
	return b.String()
}
