package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/docket/internal/theme"
)

// Layout holds the terminal dimensions and renders the frame around the
// active view: a one-line header and a one-line status bar.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentHeight returns the height left for the active view.
func (l Layout) ContentHeight() int {
	h := l.Height - l.HeaderHeight - l.StatusBarHeight
	if h < 0 {
		return 0
	}
	return h
}

// RenderHeader renders the title on the left and a summary (e.g. the
// open project) on the right.
func (l Layout) RenderHeader(title, summary string) string {
	left := theme.HeaderStyle.Render(title)
	right := theme.HeaderStyle.Align(lipgloss.Right).Render(summary)
	return l.fill(theme.HeaderStyle, left, right)
}

// RenderStatusBar renders the status line. A non-empty errText takes the
// place of the key hints.
func (l Layout) RenderStatusBar(hints, errText string) string {
	style := theme.StatusBarStyle
	text := hints
	if errText != "" {
		style = theme.ErrorBarStyle
		text = errText
	}
	return l.fill(style, style.Render(text), "")
}

// fill pads the gap between left and right with style's background so the
// bar spans the full width.
func (l Layout) fill(style lipgloss.Style, left, right string) string {
	gap := l.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(style.GetBackground()).
		Render("")
	return lipgloss.JoinHorizontal(lipgloss.Top, left, filler, right)
}

// RenderWithFrame stacks header, content and status bar.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	content = lipgloss.NewStyle().
		Height(l.ContentHeight()).
		MaxHeight(l.ContentHeight()).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}
