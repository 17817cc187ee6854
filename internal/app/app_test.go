package app_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nhle/docket/internal/app"
	"github.com/nhle/docket/internal/ui"
	"github.com/nhle/docket/tests/testutil"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send delivers msg and runs the resulting commands to completion.
// Form commands are never produced by the keys used here, so the queue
// always drains.
func send(t *testing.T, m app.Model, msg tea.Msg) (app.Model, bool) {
	t.Helper()
	quit := false
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if _, ok := next.(tea.QuitMsg); ok {
			quit = true
			continue
		}
		updated, cmd := m.Update(next)
		m = updated.(app.Model)
		cmds := []tea.Cmd{cmd}
		for len(cmds) > 0 {
			c := cmds[0]
			cmds = cmds[1:]
			if c == nil {
				continue
			}
			out := c()
			if batch, ok := out.(tea.BatchMsg); ok {
				cmds = append(cmds, batch...)
				continue
			}
			queue = append(queue, out)
		}
	}
	return m, quit
}

func newApp(t *testing.T) app.Model {
	t.Helper()
	svc := testutil.NewTestService(t)
	ctx := context.Background()
	p, err := svc.CreateProject(ctx, "Work", nil)
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if _, err := svc.CreateTodo(ctx, p.ID, "write report"); err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}

	m := app.New(svc, log.New(io.Discard))
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	cmd := m.Init()
	m, _ = send(t, m, cmd())
	return m
}

func TestModel_OpenProjectAndReturn(t *testing.T) {
	m := newApp(t)

	if !strings.Contains(m.View(), "Work") {
		t.Fatal("project list does not show Work")
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.CurrentView() != app.ViewTodos {
		t.Fatalf("view = %v, want ViewTodos", m.CurrentView())
	}
	if !strings.Contains(m.View(), "write report") {
		t.Error("todo list does not show the todo")
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.CurrentView() != app.ViewProjects {
		t.Errorf("view = %v, want ViewProjects", m.CurrentView())
	}
}

func TestModel_HelpOverlay(t *testing.T) {
	m := newApp(t)
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m, _ = send(t, m, runes("?"))
	if m.CurrentView() != app.ViewHelp {
		t.Fatalf("view = %v, want ViewHelp", m.CurrentView())
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help view not rendered")
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.CurrentView() != app.ViewTodos {
		t.Errorf("view = %v, want to return to ViewTodos", m.CurrentView())
	}
}

func TestModel_QuitOnlyFromProjectList(t *testing.T) {
	m := newApp(t)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, quit := send(t, m, runes("q"))
	if quit {
		t.Fatal("q quit from the todo list")
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if _, quit = send(t, m, runes("q")); !quit {
		t.Error("q did not quit from the project list")
	}
}

func TestModel_ErrorsShowInStatusLine(t *testing.T) {
	m := newApp(t)

	m, _ = send(t, m, ui.StatusMsg{Err: errors.New("disk on fire")})
	if !strings.Contains(m.View(), "disk on fire") {
		t.Fatal("error missing from status line")
	}

	m, _ = send(t, m, runes("j"))
	if strings.Contains(m.View(), "disk on fire") {
		t.Error("error not cleared by the next key press")
	}
}
