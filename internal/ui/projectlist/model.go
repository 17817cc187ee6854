package projectlist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/docket/internal/keys"
	"github.com/nhle/docket/internal/model"
	"github.com/nhle/docket/internal/service"
	"github.com/nhle/docket/internal/theme"
	"github.com/nhle/docket/internal/ui"
)

// OpenProjectMsg asks the parent to show the todos of a project.
type OpenProjectMsg struct {
	Project model.ProjectWithStats
}

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name    string
	confirm bool
}

type projectsLoadedMsg struct {
	projects []model.ProjectWithStats
	err      error
}

type projectChangedMsg struct {
	status string
	err    error
}

// Model is the Bubble Tea model for the project list.
type Model struct {
	mode         mode
	svc          *service.Service
	keys         *keys.KeyMap
	projects     []model.ProjectWithStats
	selectedIdx  int
	showArchived bool
	editingID    int64
	form         *huh.Form
	fb           *formBindings
	width        int
	height       int
}

// New creates a new project list model.
func New(svc *service.Service, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:   modeList,
		svc:    svc,
		keys:   k,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Init loads the projects.
func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Capturing reports whether a form currently owns the keyboard.
func (m Model) Capturing() bool {
	return m.mode != modeList
}

// Projects returns the rows currently shown.
func (m Model) Projects() []model.ProjectWithStats {
	return m.projects
}

// Selected returns the focused project, if any.
func (m Model) Selected() (model.ProjectWithStats, bool) {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.projects) {
		return model.ProjectWithStats{}, false
	}
	return m.projects[m.selectedIdx], true
}

// ShowArchived reports whether archived projects are listed.
func (m Model) ShowArchived() bool {
	return m.showArchived
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		if msg.err != nil {
			return m, ui.Error(msg.err)
		}
		m.projects = msg.projects
		if m.selectedIdx >= len(m.projects) {
			m.selectedIdx = max(len(m.projects)-1, 0)
		}
		return m, nil

	case projectChangedMsg:
		m.mode = modeList
		if msg.err != nil {
			return m, tea.Batch(m.Reload(), ui.Error(msg.err))
		}
		return m, tea.Batch(m.Reload(), ui.Status(msg.status))

	case tea.KeyMsg:
		if m.mode == modeList {
			return m.handleListKey(msg)
		}
	}

	return m.updateForm(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedIdx < len(m.projects)-1 {
			m.selectedIdx++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.selectedIdx > 0 {
			m.selectedIdx--
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if p, ok := m.Selected(); ok {
			return m, func() tea.Msg { return OpenProjectMsg{Project: p} }
		}
		return m, nil

	case key.Matches(msg, m.keys.ShowArchived):
		m.showArchived = !m.showArchived
		return m, m.Reload()

	case key.Matches(msg, m.keys.New):
		m.editingID = 0
		m.fb.name = ""
		m.form = m.buildNameForm("New project")
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Rename):
		p, ok := m.Selected()
		if !ok {
			return m, nil
		}
		m.editingID = p.ID
		m.fb.name = p.Name
		m.form = m.buildNameForm("Rename project")
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Archive):
		if p, ok := m.Selected(); ok {
			return m, m.toggleArchive(p.Project)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		p, ok := m.Selected()
		if !ok {
			return m, nil
		}
		m.editingID = p.ID
		m.fb.confirm = false
		m.form = m.buildConfirmForm(p)
		m.mode = modeConfirmDelete
		return m, m.form.Init()
	}
	return m, nil
}

func (m Model) buildNameForm(title string) *huh.Form {
	return ui.NewForm(m.width, m.height,
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder("Project name").
				CharLimit(service.MaxProjectNameLength).
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name is required")
					}
					return nil
				}),
		),
	)
}

func (m Model) buildConfirmForm(p model.ProjectWithStats) *huh.Form {
	return ui.NewForm(m.width, m.height,
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete project %q?", p.Name)).
				Description(fmt.Sprintf("Its %d todo(s) are deleted with it.", p.TotalTodos)).
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	)
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.mode == modeList {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if m.mode == modeConfirmDelete {
			if !m.fb.confirm {
				m.mode = modeList
				return m, nil
			}
			return m, m.deleteProject(m.editingID)
		}
		return m, m.saveProject(m.editingID, m.fb.name)
	case huh.StateAborted:
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

// View renders the project list or the active form.
func (m Model) View() string {
	if m.mode != modeList && m.form != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	}

	var b strings.Builder

	title := "Projects"
	if m.showArchived {
		title += " (including archived)"
	}
	b.WriteString(theme.TitleStyle.Render(title))
	b.WriteString("\n")

	if len(m.projects) == 0 {
		b.WriteString(theme.EmptyStyle.Render("No projects yet. Press 'n' to create one."))
	}
	for i, p := range m.projects {
		label := p.Name
		if p.IsArchived() {
			label = theme.ArchivedStyle.Render(label + " (archived)")
		}
		label += "  " + theme.CountStyle.Render(fmt.Sprintf("%d/%d", p.ActiveTodos(), p.TotalTodos))

		if i == m.selectedIdx {
			b.WriteString(theme.SelectedItemStyle.Render(label))
		} else {
			b.WriteString(theme.ListItemStyle.Render(label))
		}
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Reload fetches the projects honouring the archived filter.
func (m Model) Reload() tea.Cmd {
	svc, archived := m.svc, m.showArchived
	return func() tea.Msg {
		projects, err := svc.ListProjects(context.Background(), archived)
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

func (m Model) saveProject(id int64, name string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx := context.Background()
		if id == 0 {
			p, err := svc.CreateProject(ctx, name, nil)
			return projectChangedMsg{status: fmt.Sprintf("Created %q", p.Name), err: err}
		}
		p, err := svc.RenameProject(ctx, id, name)
		return projectChangedMsg{status: fmt.Sprintf("Renamed to %q", p.Name), err: err}
	}
}

func (m Model) toggleArchive(p model.Project) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx := context.Background()
		if p.IsArchived() {
			err := svc.UnarchiveProject(ctx, p.ID)
			return projectChangedMsg{status: fmt.Sprintf("Restored %q", p.Name), err: err}
		}
		err := svc.ArchiveProject(ctx, p.ID)
		return projectChangedMsg{status: fmt.Sprintf("Archived %q", p.Name), err: err}
	}
}

func (m Model) deleteProject(id int64) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		err := svc.DeleteProject(context.Background(), id)
		return projectChangedMsg{status: "Project deleted", err: err}
	}
}
