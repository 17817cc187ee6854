package todolist

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

// CloseMsg asks the parent to return to the project list.
type CloseMsg struct{}

type mode int

const (
	modeList mode = iota
	modeNew
	modeEdit
	modeDetails
	modeConfirmDelete
)

type formBindings struct {
	description string
	details     string
	confirm     bool
}

type todosLoadedMsg struct {
	projectID int64
	todos     []model.Todo
	err       error
}

// todoChangedMsg reports a finished mutation. selectID, when non-zero,
// moves the cursor to that todo after the reload.
type todoChangedMsg struct {
	status   string
	selectID int64
	err      error
}

// Model is the Bubble Tea model for the todos of one project.
type Model struct {
	mode          mode
	svc           *service.Service
	keys          *keys.KeyMap
	project       model.ProjectWithStats
	todos         []model.Todo
	selectedIdx   int
	pendingID     int64
	showCompleted bool
	expanded      map[int64]bool
	editingID     int64
	form          *huh.Form
	fb            *formBindings
	width         int
	height        int
}

// New creates a new todo list model. Completed todos are shown by default.
func New(svc *service.Service, k *keys.KeyMap, width, height int) Model {
	return Model{
		svc:           svc,
		keys:          k,
		showCompleted: true,
		expanded:      map[int64]bool{},
		fb:            &formBindings{},
		width:         width,
		height:        height,
	}
}

// Open switches the list to a project and loads its todos.
func (m *Model) Open(p model.ProjectWithStats) tea.Cmd {
	m.project = p
	m.todos = nil
	m.selectedIdx = 0
	m.pendingID = 0
	m.mode = modeList
	m.expanded = map[int64]bool{}
	return m.Reload()
}

// Project returns the project being shown.
func (m Model) Project() model.ProjectWithStats {
	return m.project
}

// Todos returns the rows currently shown.
func (m Model) Todos() []model.Todo {
	return m.todos
}

// Selected returns the focused todo, if any.
func (m Model) Selected() (model.Todo, bool) {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.todos) {
		return model.Todo{}, false
	}
	return m.todos[m.selectedIdx], true
}

// Capturing reports whether a form currently owns the keyboard.
func (m Model) Capturing() bool {
	return m.mode != modeList
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case todosLoadedMsg:
		if msg.projectID != m.project.ID {
			return m, nil
		}
		if msg.err != nil {
			return m, ui.Error(msg.err)
		}
		m.todos = msg.todos
		m.restoreSelection()
		return m, nil

	case todoChangedMsg:
		m.mode = modeList
		if msg.err != nil {
			return m, tea.Batch(m.Reload(), ui.Error(msg.err))
		}
		if msg.selectID != 0 {
			m.pendingID = msg.selectID
		}
		var status tea.Cmd
		if msg.status != "" {
			status = ui.Status(msg.status)
		}
		return m, tea.Batch(m.Reload(), status)

	case tea.KeyMsg:
		if m.mode == modeList {
			return m.handleListKey(msg)
		}
	}

	return m.updateForm(msg)
}

// restoreSelection keeps the cursor on the todo that was just touched,
// falling back to clamping the index.
func (m *Model) restoreSelection() {
	if m.pendingID != 0 {
		for i, t := range m.todos {
			if t.ID == m.pendingID {
				m.selectedIdx = i
				break
			}
		}
		m.pendingID = 0
	}
	if m.selectedIdx >= len(m.todos) {
		m.selectedIdx = max(len(m.todos)-1, 0)
	}
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if m.selectedIdx < len(m.todos)-1 {
			m.selectedIdx++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.selectedIdx > 0 {
			m.selectedIdx--
		}
		return m, nil

	case key.Matches(msg, m.keys.ShowCompleted):
		m.showCompleted = !m.showCompleted
		if t, ok := m.Selected(); ok {
			m.pendingID = t.ID
		}
		return m, m.Reload()

	case key.Matches(msg, m.keys.New):
		m.fb.description = ""
		m.form = m.buildDescriptionForm("New todo")
		m.mode = modeNew
		return m, m.form.Init()
	}

	t, ok := m.Selected()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Expand):
		m.expanded[t.ID] = !m.expanded[t.ID]
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		return m, m.toggleTodo(t.ID)

	case key.Matches(msg, m.keys.MoveUp):
		return m, m.moveTodo(t, model.DirectionUp)

	case key.Matches(msg, m.keys.MoveDown):
		return m, m.moveTodo(t, model.DirectionDown)

	case key.Matches(msg, m.keys.Edit):
		m.editingID = t.ID
		m.fb.description = t.Description
		m.form = m.buildDescriptionForm("Edit todo")
		m.mode = modeEdit
		return m, m.form.Init()

	case key.Matches(msg, m.keys.EditDetails):
		m.editingID = t.ID
		m.fb.details = ""
		if t.Details != nil {
			m.fb.details = *t.Details
		}
		m.form = m.buildDetailsForm()
		m.mode = modeDetails
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Delete):
		m.editingID = t.ID
		m.fb.confirm = false
		m.form = m.buildConfirmForm(t)
		m.mode = modeConfirmDelete
		return m, m.form.Init()
	}
	return m, nil
}

func (m Model) buildDescriptionForm(title string) *huh.Form {
	return ui.NewForm(m.width, m.height,
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder("What needs doing?").
				CharLimit(service.MaxDescriptionLength).
				Value(&m.fb.description).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("description is required")
					}
					return nil
				}),
		),
	)
}

func (m Model) buildDetailsForm() *huh.Form {
	return ui.NewForm(m.width, m.height,
		huh.NewGroup(
			huh.NewText().
				Title("Details").
				Description("Leave empty to clear.").
				Value(&m.fb.details),
		),
	)
}

func (m Model) buildConfirmForm(t model.Todo) *huh.Form {
	return ui.NewForm(m.width, m.height,
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", t.Description)).
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
		return m, m.submit()
	case huh.StateAborted:
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

// submit runs the mutation for the completed form.
func (m Model) submit() tea.Cmd {
	switch m.mode {
	case modeNew:
		return m.createTodo(m.fb.description)
	case modeEdit:
		return m.updateTodo(m.editingID, m.fb.description)
	case modeDetails:
		return m.updateDetails(m.editingID, m.fb.details)
	case modeConfirmDelete:
		if m.fb.confirm {
			return m.deleteTodo(m.editingID)
		}
	}
	return func() tea.Msg { return todoChangedMsg{} }
}

// View renders the todo list or the active form.
func (m Model) View() string {
	if m.mode != modeList && m.form != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	}

	var b strings.Builder

	title := m.project.Name
	if m.project.IsArchived() {
		title += " (archived)"
	}
	b.WriteString(theme.TitleStyle.Render(title))
	b.WriteString("\n")

	if len(m.todos) == 0 {
		b.WriteString(theme.EmptyStyle.Render("Nothing to do. Press 'n' to add a todo."))
	}
	for i, t := range m.todos {
		b.WriteString(m.renderTodo(t, i == m.selectedIdx))
		b.WriteString("\n")
		if m.expanded[t.ID] {
			b.WriteString(renderDetails(t))
			b.WriteString("\n")
		}
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) renderTodo(t model.Todo, selected bool) string {
	check := "[ ]"
	text := t.Description
	if t.IsCompleted() {
		check = "[x]"
		text = theme.CompletedStyle.Render(text)
	}
	label := check + " " + text
	if t.Details != nil {
		label += theme.HelpStyle.Render(" +")
	}

	if selected {
		return theme.SelectedItemStyle.Render(label)
	}
	return theme.ListItemStyle.Render(label)
}

func renderDetails(t model.Todo) string {
	lines := []string{"created " + t.CreatedAt.Local().Format("2006-01-02 15:04")}
	if t.IsCompleted() {
		lines = append(lines, "completed "+t.CompletionStatus())
	}
	if t.Details != nil {
		lines = append(lines, *t.Details)
	} else {
		lines = append(lines, "no details")
	}
	return theme.DetailsStyle.Render(strings.Join(lines, "\n"))
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Reload fetches the project's todos honouring the completed filter.
func (m Model) Reload() tea.Cmd {
	svc, projectID, completed := m.svc, m.project.ID, m.showCompleted
	return func() tea.Msg {
		todos, err := svc.ListTodos(context.Background(), projectID, completed)
		return todosLoadedMsg{projectID: projectID, todos: todos, err: err}
	}
}

func (m Model) createTodo(description string) tea.Cmd {
	svc, projectID := m.svc, m.project.ID
	return func() tea.Msg {
		t, err := svc.CreateTodo(context.Background(), projectID, description)
		return todoChangedMsg{status: "Todo added", selectID: t.ID, err: err}
	}
}

func (m Model) updateTodo(id int64, description string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		_, err := svc.UpdateTodo(context.Background(), id, description)
		return todoChangedMsg{status: "Todo updated", selectID: id, err: err}
	}
}

func (m Model) updateDetails(id int64, details string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		_, err := svc.UpdateTodoDetails(context.Background(), id, &details)
		return todoChangedMsg{status: "Details saved", selectID: id, err: err}
	}
}

func (m Model) toggleTodo(id int64) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		t, err := svc.ToggleTodo(context.Background(), id)
		status := "Reopened"
		if t.IsCompleted() {
			status = "Completed"
		}
		return todoChangedMsg{status: status, selectID: id, err: err}
	}
}

func (m Model) moveTodo(t model.Todo, direction string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		err := svc.MoveTodo(context.Background(), t.ID, direction)
		return todoChangedMsg{selectID: t.ID, err: err}
	}
}

func (m Model) deleteTodo(id int64) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		err := svc.DeleteTodo(context.Background(), id)
		return todoChangedMsg{status: "Todo deleted", err: err}
	}
}
