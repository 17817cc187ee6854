package help

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/docket/internal/keys"
	"github.com/nhle/docket/internal/theme"
)

// CloseMsg asks the parent to leave the help view.
type CloseMsg struct{}

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.ShowAll = true
	m := Model{keys: keys, help: h}
	m.SetSize(width, height)
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Update closes the overlay on esc, ? or q.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "?", "q":
			return m, func() tea.Msg { return CloseMsg{} }
		}
	}
	return m, nil
}

// View renders the help overlay.
func (m Model) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.TitleStyle.Render("Keyboard Shortcuts"),
		m.help.View(m.keys),
		"",
		theme.HelpStyle.Render("Project list: enter opens, r renames, a archives, A shows archived."),
		theme.HelpStyle.Render("Todo list: space toggles, J/K reorder, c shows completed, esc returns."),
	)

	return theme.PanelStyle.
		Width(max(m.width-4, 0)).
		Render(content)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = max(width-8, 0)
}
