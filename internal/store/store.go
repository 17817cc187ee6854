package store

import (
	"context"

	"github.com/nhle/docket/internal/model"
)

// Store defines the persistence interface for projects and their todos.
// Every method runs as a single transaction.
type Store interface {
	// === Project CRUD ===

	CreateProject(ctx context.Context, name string, description *string) (model.Project, error)
	GetProject(ctx context.Context, id int64) (model.Project, error)
	ListProjects(ctx context.Context, includeArchived bool) ([]model.ProjectWithStats, error)
	RenameProject(ctx context.Context, id int64, name string) (model.Project, error)
	UpdateProjectDescription(ctx context.Context, id int64, description *string) (model.Project, error)
	ArchiveProject(ctx context.Context, id int64) error
	UnarchiveProject(ctx context.Context, id int64) error
	DeleteProject(ctx context.Context, id int64) error

	// === Todo CRUD ===

	CreateTodo(ctx context.Context, projectID int64, description string) (model.Todo, error)
	GetTodo(ctx context.Context, id int64) (model.Todo, error)
	ListTodos(ctx context.Context, projectID int64, includeCompleted bool) ([]model.Todo, error)
	UpdateTodoDescription(ctx context.Context, id int64, description string) (model.Todo, error)
	UpdateTodoDetails(ctx context.Context, id int64, details *string) (model.Todo, error)
	ToggleTodo(ctx context.Context, id int64) (model.Todo, error)
	MoveTodo(ctx context.Context, id int64, direction string) error
	DeleteTodo(ctx context.Context, id int64) error

	Close() error
}
