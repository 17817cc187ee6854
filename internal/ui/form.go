package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/huh"
)

// NewForm builds a huh form sized for the content area. esc aborts it.
func NewForm(width, height int, groups ...*huh.Group) *huh.Form {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "cancel"),
	)
	return huh.NewForm(groups...).
		WithKeyMap(km).
		WithWidth(FormWidth(width)).
		WithHeight(FormHeight(height))
}

// FormWidth clamps a form width to a readable range.
func FormWidth(width int) int {
	return min(max(width-4, 40), 100)
}

// FormHeight returns the height available to a form.
func FormHeight(height int) int {
	return max(height-4, 8)
}
