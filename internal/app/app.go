package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nhle/docket/internal/keys"
	"github.com/nhle/docket/internal/service"
	"github.com/nhle/docket/internal/ui"
	helpview "github.com/nhle/docket/internal/ui/help"
	"github.com/nhle/docket/internal/ui/projectlist"
	"github.com/nhle/docket/internal/ui/todolist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewProjects ViewState = iota
	ViewTodos
	ViewHelp
)

// Model is the root Bubble Tea model. It routes messages to the active
// view and owns the frame around it.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	logger       *log.Logger
	keys         *keys.KeyMap
	projectView  projectlist.Model
	todoView     todolist.Model
	helpView     helpview.Model
	status       string
	errText      string
	ready        bool
}

// New creates a new root application model on top of the service.
func New(svc *service.Service, logger *log.Logger) Model {
	k := keys.DefaultKeyMap()
	return Model{
		currentView: ViewProjects,
		logger:      logger,
		keys:        k,
		projectView: projectlist.New(svc, k, 80, 24),
		todoView:    todolist.New(svc, k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
	}
}

// Init loads the project list.
func (m Model) Init() tea.Cmd {
	return m.projectView.Init()
}

// CurrentView returns the active view.
func (m Model) CurrentView() ViewState {
	return m.currentView
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		width, height := m.layout.Width, m.layout.ContentHeight()
		m.projectView.SetSize(width, height)
		m.todoView.SetSize(width, height)
		m.helpView.SetSize(width, height)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case ui.StatusMsg:
		if msg.Err != nil {
			m.logger.Error("operation failed", "err", msg.Err)
			m.errText = msg.Err.Error()
			m.status = ""
		} else {
			m.errText = ""
			m.status = msg.Text
		}
		return m, nil

	case projectlist.OpenProjectMsg:
		m.currentView = ViewTodos
		return m, m.todoView.Open(msg.Project)

	case todolist.CloseMsg:
		m.currentView = ViewProjects
		return m, m.projectView.Reload()

	case helpview.CloseMsg:
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		m.errText = ""
		m.status = ""
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if !m.capturing() {
			switch {
			case m.currentView == ViewProjects && key.Matches(msg, m.keys.Quit):
				return m, tea.Quit
			case m.currentView != ViewHelp && key.Matches(msg, m.keys.Help):
				m.previousView = m.currentView
				m.currentView = ViewHelp
				return m, nil
			}
		}
	}

	return m.updateActiveView(msg)
}

// capturing reports whether the active view has a form open, in which case
// global keys belong to the form.
func (m Model) capturing() bool {
	switch m.currentView {
	case ViewProjects:
		return m.projectView.Capturing()
	case ViewTodos:
		return m.todoView.Capturing()
	}
	return false
}

func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewProjects:
		m.projectView, cmd = m.projectView.Update(msg)
	case ViewTodos:
		m.todoView, cmd = m.todoView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}
	// Results of commands started in a view that is no longer active
	// still belong to it.
	if _, isKey := msg.(tea.KeyMsg); !isKey {
		switch m.currentView {
		case ViewProjects, ViewHelp:
			var extra tea.Cmd
			m.todoView, extra = m.todoView.Update(msg)
			cmd = tea.Batch(cmd, extra)
		}
		if m.currentView != ViewProjects {
			var extra tea.Cmd
			m.projectView, extra = m.projectView.Update(msg)
			cmd = tea.Batch(cmd, extra)
		}
	}
	return m, cmd
}

// View renders the current view inside the frame.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	summary := ""
	if m.currentView == ViewTodos {
		p := m.todoView.Project()
		summary = fmt.Sprintf("%s  %d todo(s)", p.Name, len(m.todoView.Todos()))
	}
	header := m.layout.RenderHeader("docket", summary)
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.errText)

	return m.layout.RenderWithFrame(header, m.renderContent(), statusBar)
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewTodos:
		return m.todoView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return m.projectView.View()
	}
}

func (m Model) keyHints() string {
	hints := m.viewHints()
	if m.status != "" {
		return m.status + " | " + hints
	}
	return hints
}

func (m Model) viewHints() string {
	if m.capturing() {
		return "enter submit | esc cancel"
	}
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewTodos:
		return "n new | space toggle | e edit | D details | J/K move | c completed | d delete | esc back"
	default:
		return "q quit | ? help | enter open | n new | r rename | a archive | A archived | d delete"
	}
}
