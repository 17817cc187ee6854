package ui

import tea "github.com/charmbracelet/bubbletea"

// StatusMsg asks the root model to show a line in the status bar. Err, when
// set, is shown instead of Text and styled as an error.
type StatusMsg struct {
	Text string
	Err  error
}

// Status returns a command emitting an informational StatusMsg.
func Status(text string) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: text} }
}

// Error returns a command emitting an error StatusMsg.
func Error(err error) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Err: err} }
}
