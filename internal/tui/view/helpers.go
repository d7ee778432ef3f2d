package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PadLines pads content to width/height, filling with the background color.
func PadLines(content string, width, height int, bg lipgloss.Color) string {
	if width <= 0 || height <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	lines = lines[:height]

	pad := lipgloss.NewStyle().Background(bg)
	for i, line := range lines {
		if w := lipgloss.Width(line); w < width {
			lines[i] = line + pad.Render(strings.Repeat(" ", width-w))
		}
	}
	return strings.Join(lines, "\n")
}

// RenderModalOverlay centers modal over base, splicing it line by line so the
// surrounding content stays visible.
func RenderModalOverlay(base, modal string, width, height int, modalBg lipgloss.Color) string {
	modalLines := strings.Split(modal, "\n")
	modalWidth := 0
	for _, line := range modalLines {
		modalWidth = max(modalWidth, lipgloss.Width(line))
	}
	if modalWidth == 0 || width <= 0 || height <= 0 {
		return base
	}
	modalWidth = min(modalWidth, width)

	top := max(0, (height-len(modalLines))/2)
	left := max(0, (width-modalWidth)/2)
	bgSeq := backgroundSeq(modalBg)

	for i, line := range modalLines {
		w := lipgloss.Width(line)
		if w > modalWidth {
			line = ansi.Cut(line, 0, modalWidth)
		} else if w < modalWidth {
			line += lipgloss.NewStyle().Background(modalBg).Render(strings.Repeat(" ", modalWidth-w))
		}
		if bgSeq != "" {
			line = strings.ReplaceAll(line, ansi.ResetStyle, ansi.ResetStyle+bgSeq)
		}
		modalLines[i] = line + ansi.ResetStyle
	}

	baseLines := strings.Split(PadLines(base, width, height, lipgloss.Color("")), "\n")
	for row := range baseLines {
		if row < top || row >= top+len(modalLines) {
			continue
		}
		baseLine := baseLines[row]
		baseLines[row] = ansi.Cut(baseLine, 0, left) + modalLines[row-top] + ansi.Cut(baseLine, left+modalWidth, width)
	}
	return strings.Join(baseLines, "\n")
}

func backgroundSeq(bg lipgloss.Color) string {
	if bg == "" {
		return ""
	}
	return ansi.Style{}.BackgroundColor(ansi.HexColor(string(bg))).String()
}
