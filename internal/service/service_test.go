package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/nhle/docket/internal/model"
	"github.com/nhle/docket/internal/service"
	"github.com/nhle/docket/internal/store"
	"github.com/nhle/docket/tests/testutil"
)

// mockStore implements store.Store for testing. Unset funcs are never
// expected to be called.
type mockStore struct {
	createProjectFn            func(ctx context.Context, name string, description *string) (model.Project, error)
	getProjectFn               func(ctx context.Context, id int64) (model.Project, error)
	listProjectsFn             func(ctx context.Context, includeArchived bool) ([]model.ProjectWithStats, error)
	renameProjectFn            func(ctx context.Context, id int64, name string) (model.Project, error)
	updateProjectDescriptionFn func(ctx context.Context, id int64, description *string) (model.Project, error)
	archiveProjectFn           func(ctx context.Context, id int64) error
	unarchiveProjectFn         func(ctx context.Context, id int64) error
	deleteProjectFn            func(ctx context.Context, id int64) error
	createTodoFn               func(ctx context.Context, projectID int64, description string) (model.Todo, error)
	getTodoFn                  func(ctx context.Context, id int64) (model.Todo, error)
	listTodosFn                func(ctx context.Context, projectID int64, includeCompleted bool) ([]model.Todo, error)
	updateTodoDescriptionFn    func(ctx context.Context, id int64, description string) (model.Todo, error)
	updateTodoDetailsFn        func(ctx context.Context, id int64, details *string) (model.Todo, error)
	toggleTodoFn               func(ctx context.Context, id int64) (model.Todo, error)
	moveTodoFn                 func(ctx context.Context, id int64, direction string) error
	deleteTodoFn               func(ctx context.Context, id int64) error
}

func (m *mockStore) CreateProject(ctx context.Context, name string, description *string) (model.Project, error) {
	return m.createProjectFn(ctx, name, description)
}
func (m *mockStore) GetProject(ctx context.Context, id int64) (model.Project, error) {
	return m.getProjectFn(ctx, id)
}
func (m *mockStore) ListProjects(ctx context.Context, includeArchived bool) ([]model.ProjectWithStats, error) {
	return m.listProjectsFn(ctx, includeArchived)
}
func (m *mockStore) RenameProject(ctx context.Context, id int64, name string) (model.Project, error) {
	return m.renameProjectFn(ctx, id, name)
}
func (m *mockStore) UpdateProjectDescription(ctx context.Context, id int64, description *string) (model.Project, error) {
	return m.updateProjectDescriptionFn(ctx, id, description)
}
func (m *mockStore) ArchiveProject(ctx context.Context, id int64) error {
	return m.archiveProjectFn(ctx, id)
}
func (m *mockStore) UnarchiveProject(ctx context.Context, id int64) error {
	return m.unarchiveProjectFn(ctx, id)
}
func (m *mockStore) DeleteProject(ctx context.Context, id int64) error {
	return m.deleteProjectFn(ctx, id)
}
func (m *mockStore) CreateTodo(ctx context.Context, projectID int64, description string) (model.Todo, error) {
	return m.createTodoFn(ctx, projectID, description)
}
func (m *mockStore) GetTodo(ctx context.Context, id int64) (model.Todo, error) {
	return m.getTodoFn(ctx, id)
}
func (m *mockStore) ListTodos(ctx context.Context, projectID int64, includeCompleted bool) ([]model.Todo, error) {
	return m.listTodosFn(ctx, projectID, includeCompleted)
}
func (m *mockStore) UpdateTodoDescription(ctx context.Context, id int64, description string) (model.Todo, error) {
	return m.updateTodoDescriptionFn(ctx, id, description)
}
func (m *mockStore) UpdateTodoDetails(ctx context.Context, id int64, details *string) (model.Todo, error) {
	return m.updateTodoDetailsFn(ctx, id, details)
}
func (m *mockStore) ToggleTodo(ctx context.Context, id int64) (model.Todo, error) {
	return m.toggleTodoFn(ctx, id)
}
func (m *mockStore) MoveTodo(ctx context.Context, id int64, direction string) error {
	return m.moveTodoFn(ctx, id, direction)
}
func (m *mockStore) DeleteTodo(ctx context.Context, id int64) error {
	return m.deleteTodoFn(ctx, id)
}
func (m *mockStore) Close() error { return nil }

var now = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func ptr(s string) *string { return &s }

func TestCreateProject_Validation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		desc     *string
		wantName string
		wantDesc *string
		wantErr  error
	}{
		{name: "trims name", input: "  Work  ", wantName: "Work"},
		{name: "blank description dropped", input: "Work", desc: ptr("   "), wantName: "Work"},
		{name: "description trimmed", input: "Work", desc: ptr(" job "), wantName: "Work", wantDesc: ptr("job")},
		{name: "empty name", input: "", wantErr: service.ErrInvalidInput},
		{name: "whitespace name", input: " \t ", wantErr: service.ErrInvalidInput},
		{name: "name too long", input: strings.Repeat("x", 256), wantErr: service.ErrInvalidInput},
		{name: "name at limit", input: strings.Repeat("é", 255), wantName: strings.Repeat("é", 255)},
		{name: "description too long", input: "Work", desc: ptr(strings.Repeat("x", 501)), wantErr: service.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			st := &mockStore{
				createProjectFn: func(ctx context.Context, name string, description *string) (model.Project, error) {
					called = true
					if name != tt.wantName {
						t.Errorf("store got name %q, want %q", name, tt.wantName)
					}
					switch {
					case tt.wantDesc == nil && description != nil:
						t.Errorf("store got description %q, want nil", *description)
					case tt.wantDesc != nil && (description == nil || *description != *tt.wantDesc):
						t.Errorf("store got description %v, want %q", description, *tt.wantDesc)
					}
					return model.Project{ID: 1, Name: name, Description: description, CreatedAt: now}, nil
				},
			}
			svc := service.New(st, nil)

			_, err := svc.CreateProject(context.Background(), tt.input, tt.desc)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				if called {
					t.Error("store should not be called on invalid input")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestErrorTranslation(t *testing.T) {
	tests := []struct {
		name     string
		storeErr error
		wantErr  error
	}{
		{"not found", fmt.Errorf("todo 7: %w", store.ErrNotFound), service.ErrNotFound},
		{"duplicate", fmt.Errorf("project %q: %w", "Work", store.ErrDuplicateName), service.ErrDuplicateName},
		{"completed", fmt.Errorf("moving todo 7: %w", store.ErrCompleted), service.ErrInvalidInput},
		{"driver failure", errors.New("disk I/O error"), service.ErrStoreFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &mockStore{
				moveTodoFn: func(ctx context.Context, id int64, direction string) error {
					return tt.storeErr
				},
			}
			svc := service.New(st, nil)

			err := svc.MoveTodoUp(context.Background(), 7)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestStoreFailureKeepsCause(t *testing.T) {
	cause := errors.New("database is locked")
	st := &mockStore{
		deleteTodoFn: func(ctx context.Context, id int64) error { return cause },
	}
	svc := service.New(st, nil)

	err := svc.DeleteTodo(context.Background(), 1)
	if !errors.Is(err, service.ErrStoreFailure) {
		t.Errorf("error = %v, want ErrStoreFailure", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("error = %v, want original cause in chain", err)
	}
}

func TestMoveTodo_InvalidDirection(t *testing.T) {
	svc := service.New(&mockStore{}, nil)

	err := svc.MoveTodo(context.Background(), 1, "left")
	if !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestMoveTodo_Directions(t *testing.T) {
	var got []string
	st := &mockStore{
		moveTodoFn: func(ctx context.Context, id int64, direction string) error {
			got = append(got, direction)
			return nil
		},
	}
	svc := service.New(st, nil)
	ctx := context.Background()

	if err := svc.MoveTodoUp(ctx, 1); err != nil {
		t.Fatalf("MoveTodoUp: %v", err)
	}
	if err := svc.MoveTodoDown(ctx, 1); err != nil {
		t.Fatalf("MoveTodoDown: %v", err)
	}
	if len(got) != 2 || got[0] != model.DirectionUp || got[1] != model.DirectionDown {
		t.Errorf("directions = %v, want [up down]", got)
	}
}

func TestUpdateTodoDetails_BlankClears(t *testing.T) {
	stored := ptr("sentinel")
	st := &mockStore{
		updateTodoDetailsFn: func(ctx context.Context, id int64, details *string) (model.Todo, error) {
			stored = details
			return model.Todo{ID: id, Details: details}, nil
		},
	}
	svc := service.New(st, nil)

	if _, err := svc.UpdateTodoDetails(context.Background(), 1, ptr("  \n ")); err != nil {
		t.Fatalf("UpdateTodoDetails: %v", err)
	}
	if stored != nil {
		t.Errorf("stored details = %q, want nil", *stored)
	}
}

func TestTodoDescriptionValidation(t *testing.T) {
	svc := service.New(&mockStore{}, nil)
	ctx := context.Background()

	if _, err := svc.CreateTodo(ctx, 1, "   "); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("CreateTodo blank error = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.UpdateTodo(ctx, 1, strings.Repeat("x", 501)); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("UpdateTodo too long error = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.RenameProject(ctx, 1, ""); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("RenameProject blank error = %v, want ErrInvalidInput", err)
	}
}

// The scenarios below run against a real in-memory store.

func TestWorkScenario(t *testing.T) {
	svc := testutil.NewTestService(t)
	ctx := context.Background()

	work, err := svc.CreateProject(ctx, "Work", nil)
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	a, err := svc.CreateTodo(ctx, work.ID, "A")
	if err != nil {
		t.Fatalf("CreateTodo(A): %v", err)
	}
	if _, err := svc.CreateTodo(ctx, work.ID, "B"); err != nil {
		t.Fatalf("CreateTodo(B): %v", err)
	}

	active, err := svc.ListTodos(ctx, work.ID, false)
	if err != nil {
		t.Fatalf("ListTodos: %v", err)
	}
	if len(active) != 2 || active[0].Description != "B" || active[1].Description != "A" {
		t.Fatalf("active = %+v, want [B A]", active)
	}

	if _, err := svc.ToggleTodo(ctx, a.ID); err != nil {
		t.Fatalf("ToggleTodo: %v", err)
	}
	all, err := svc.ListTodos(ctx, work.ID, true)
	if err != nil {
		t.Fatalf("ListTodos: %v", err)
	}
	if len(all) != 2 || all[0].Description != "B" || all[1].Description != "A" || !all[1].IsCompleted() {
		t.Errorf("todos = %+v, want B active then A completed", all)
	}
}

func TestDuplicateNameAcrossArchived(t *testing.T) {
	svc := testutil.NewTestService(t)
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, "Work", nil)
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if err := svc.ArchiveProject(ctx, p.ID); err != nil {
		t.Fatalf("ArchiveProject: %v", err)
	}
	if _, err := svc.CreateProject(ctx, " Work ", nil); !errors.Is(err, service.ErrDuplicateName) {
		t.Errorf("error = %v, want ErrDuplicateName", err)
	}
}

func TestMoveCompletedTodo(t *testing.T) {
	svc := testutil.NewTestService(t)
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, "Work", nil)
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	todo, err := svc.CreateTodo(ctx, p.ID, "A")
	if err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}
	if _, err := svc.ToggleTodo(ctx, todo.ID); err != nil {
		t.Fatalf("ToggleTodo: %v", err)
	}

	if err := svc.MoveTodoUp(ctx, todo.ID); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestNotFound(t *testing.T) {
	svc := testutil.NewTestService(t)
	ctx := context.Background()

	checks := map[string]error{}
	_, checks["GetProject"] = svc.GetProject(ctx, 99)
	_, checks["GetTodo"] = svc.GetTodo(ctx, 99)
	_, checks["CreateTodo"] = svc.CreateTodo(ctx, 99, "A")
	_, checks["ListTodos"] = svc.ListTodos(ctx, 99, true)
	_, checks["ToggleTodo"] = svc.ToggleTodo(ctx, 99)
	checks["DeleteProject"] = svc.DeleteProject(ctx, 99)
	checks["DeleteTodo"] = svc.DeleteTodo(ctx, 99)
	checks["ArchiveProject"] = svc.ArchiveProject(ctx, 99)

	for op, err := range checks {
		if !errors.Is(err, service.ErrNotFound) {
			t.Errorf("%s error = %v, want ErrNotFound", op, err)
		}
	}
}
