package service

import (
	"context"
	"fmt"

	"github.com/nhle/docket/internal/model"
)

// CreateTodo adds an active todo to the top of a project's list.
func (s *Service) CreateTodo(ctx context.Context, projectID int64, description string) (model.Todo, error) {
	description, err := requireText("description", description, MaxDescriptionLength)
	if err != nil {
		return model.Todo{}, err
	}

	todo, err := s.store.CreateTodo(ctx, projectID, description)
	if err != nil {
		return model.Todo{}, s.translate("create todo", projectSubject(projectID), err)
	}
	s.logger.Debug("todo created", "id", todo.ID, "project", projectID)
	return todo, nil
}

// ListTodos returns a project's active todos in display order, followed by
// its completed todos when includeCompleted is set.
func (s *Service) ListTodos(ctx context.Context, projectID int64, includeCompleted bool) ([]model.Todo, error) {
	todos, err := s.store.ListTodos(ctx, projectID, includeCompleted)
	if err != nil {
		return nil, s.translate("list todos", projectSubject(projectID), err)
	}
	return todos, nil
}

func (s *Service) GetTodo(ctx context.Context, id int64) (model.Todo, error) {
	todo, err := s.store.GetTodo(ctx, id)
	if err != nil {
		return model.Todo{}, s.translate("get todo", todoSubject(id), err)
	}
	return todo, nil
}

// UpdateTodo replaces a todo's description.
func (s *Service) UpdateTodo(ctx context.Context, id int64, description string) (model.Todo, error) {
	description, err := requireText("description", description, MaxDescriptionLength)
	if err != nil {
		return model.Todo{}, err
	}

	todo, err := s.store.UpdateTodoDescription(ctx, id, description)
	if err != nil {
		return model.Todo{}, s.translate("update todo", todoSubject(id), err)
	}
	return todo, nil
}

// UpdateTodoDetails sets a todo's details; nil or blank clears them.
func (s *Service) UpdateTodoDetails(ctx context.Context, id int64, details *string) (model.Todo, error) {
	details, err := optionalText("details", details, 0)
	if err != nil {
		return model.Todo{}, err
	}

	todo, err := s.store.UpdateTodoDetails(ctx, id, details)
	if err != nil {
		return model.Todo{}, s.translate("update todo details", todoSubject(id), err)
	}
	return todo, nil
}

// ToggleTodo completes an active todo or reopens a completed one. A
// reopened todo goes back to the top of the active list.
func (s *Service) ToggleTodo(ctx context.Context, id int64) (model.Todo, error) {
	todo, err := s.store.ToggleTodo(ctx, id)
	if err != nil {
		return model.Todo{}, s.translate("toggle todo", todoSubject(id), err)
	}
	s.logger.Debug("todo toggled", "id", id, "completed", todo.IsCompleted())
	return todo, nil
}

func (s *Service) MoveTodoUp(ctx context.Context, id int64) error {
	return s.MoveTodo(ctx, id, model.DirectionUp)
}

func (s *Service) MoveTodoDown(ctx context.Context, id int64) error {
	return s.MoveTodo(ctx, id, model.DirectionDown)
}

// MoveTodo swaps an active todo with its neighbour in the given direction.
// Only "up" and "down" are accepted; completed todos cannot be moved.
func (s *Service) MoveTodo(ctx context.Context, id int64, direction string) error {
	if direction != model.DirectionUp && direction != model.DirectionDown {
		return fmt.Errorf("%w: direction must be %q or %q", ErrInvalidInput, model.DirectionUp, model.DirectionDown)
	}
	if err := s.store.MoveTodo(ctx, id, direction); err != nil {
		return s.translate("move todo", todoSubject(id), err)
	}
	return nil
}

func (s *Service) DeleteTodo(ctx context.Context, id int64) error {
	if err := s.store.DeleteTodo(ctx, id); err != nil {
		return s.translate("delete todo", todoSubject(id), err)
	}
	s.logger.Debug("todo deleted", "id", id)
	return nil
}
