package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/docket/internal/model"
)

const todoColumns = "id, project_id, description, details, created_at, completed_at, position"

// CreateTodo inserts a new active todo at the top of the project's list.
func (s *SQLiteStore) CreateTodo(
	ctx context.Context,
	projectID int64,
	description string,
) (model.Todo, error) {
	var todo model.Todo
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := getProject(ctx, tx, projectID); err != nil {
			return err
		}

		position, err := nextPosition(ctx, tx, projectID)
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO todos (project_id, description, created_at, position)
			VALUES (?, ?, ?, ?)`,
			projectID, description, s.timestamp(), position)
		if err != nil {
			return fmt.Errorf("creating todo: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading new todo id: %w", err)
		}

		todo, err = getTodo(ctx, tx, id)
		return err
	})
	return todo, err
}

// GetTodo retrieves a single todo by ID.
func (s *SQLiteStore) GetTodo(ctx context.Context, id int64) (model.Todo, error) {
	return getTodo(ctx, s.db, id)
}

// ListTodos returns a project's todos: active ones by position, highest
// first, followed (when includeCompleted is set) by completed ones, most
// recently completed first.
func (s *SQLiteStore) ListTodos(
	ctx context.Context,
	projectID int64,
	includeCompleted bool,
) ([]model.Todo, error) {
	query := "SELECT " + todoColumns + " FROM todos WHERE project_id = ?"
	if includeCompleted {
		query += `
			ORDER BY
				CASE WHEN completed_at IS NULL THEN 0 ELSE 1 END,
				position DESC,
				completed_at DESC,
				id DESC`
	} else {
		query += " AND completed_at IS NULL ORDER BY position DESC, id DESC"
	}

	todos := []model.Todo{}
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := getProject(ctx, tx, projectID); err != nil {
			return err
		}
		if err := tx.SelectContext(ctx, &todos, query, projectID); err != nil {
			return fmt.Errorf("querying todos of project %d: %w", projectID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return todos, nil
}

// UpdateTodoDescription replaces a todo's description.
func (s *SQLiteStore) UpdateTodoDescription(
	ctx context.Context,
	id int64,
	description string,
) (model.Todo, error) {
	return s.updateTodoField(ctx, id, "description", description)
}

// UpdateTodoDetails sets or clears (nil) a todo's free-form details.
func (s *SQLiteStore) UpdateTodoDetails(
	ctx context.Context,
	id int64,
	details *string,
) (model.Todo, error) {
	return s.updateTodoField(ctx, id, "details", details)
}

// updateTodoField sets one column of a todo. column is always a constant.
func (s *SQLiteStore) updateTodoField(
	ctx context.Context,
	id int64,
	column string,
	value any,
) (model.Todo, error) {
	var todo model.Todo
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE todos SET "+column+" = ? WHERE id = ?", value, id)
		if err != nil {
			return fmt.Errorf("updating %s of todo %d: %w", column, id, err)
		}
		if err := requireRow(res, "todo", id); err != nil {
			return err
		}

		todo, err = getTodo(ctx, tx, id)
		return err
	})
	return todo, err
}

// ToggleTodo flips a todo between active and completed.
//
// Completing sets completed_at and drops the todo out of the positional
// order (position 0). Reactivating clears completed_at and puts the todo
// back on top of the active list. The remaining active todos keep their
// positions: they only need to be strictly ordered, not contiguous.
func (s *SQLiteStore) ToggleTodo(ctx context.Context, id int64) (model.Todo, error) {
	var todo model.Todo
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		current, err := getTodo(ctx, tx, id)
		if err != nil {
			return err
		}

		if current.IsCompleted() {
			position, err := nextPosition(ctx, tx, current.ProjectID)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx,
				"UPDATE todos SET completed_at = NULL, position = ? WHERE id = ?",
				position, id)
			if err != nil {
				return fmt.Errorf("reopening todo %d: %w", id, err)
			}
		} else {
			_, err = tx.ExecContext(ctx,
				"UPDATE todos SET completed_at = ?, position = 0 WHERE id = ?",
				s.timestamp(), id)
			if err != nil {
				return fmt.Errorf("completing todo %d: %w", id, err)
			}
		}

		todo, err = getTodo(ctx, tx, id)
		return err
	})
	return todo, err
}

// MoveTodo swaps an active todo with its neighbour in display order.
// DirectionUp moves it toward the top of the list. Moving past either end
// is a no-op.
func (s *SQLiteStore) MoveTodo(ctx context.Context, id int64, direction string) error {
	var neighbourQuery string
	switch direction {
	case model.DirectionUp:
		neighbourQuery = `
			SELECT id, position FROM todos
			WHERE project_id = ? AND completed_at IS NULL AND position > ?
			ORDER BY position ASC
			LIMIT 1`
	case model.DirectionDown:
		neighbourQuery = `
			SELECT id, position FROM todos
			WHERE project_id = ? AND completed_at IS NULL AND position < ?
			ORDER BY position DESC
			LIMIT 1`
	default:
		return fmt.Errorf("unknown direction %q", direction)
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		current, err := getTodo(ctx, tx, id)
		if err != nil {
			return err
		}
		if !current.CanReorder() {
			return fmt.Errorf("moving todo %d: %w", id, ErrCompleted)
		}

		var neighbour struct {
			ID       int64 `db:"id"`
			Position int64 `db:"position"`
		}
		err = tx.GetContext(ctx, &neighbour, neighbourQuery, current.ProjectID, current.Position)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("finding neighbour of todo %d: %w", id, err)
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE todos SET position = ? WHERE id = ?", current.Position, neighbour.ID); err != nil {
			return fmt.Errorf("moving todo %d: %w", neighbour.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE todos SET position = ? WHERE id = ?", neighbour.Position, id); err != nil {
			return fmt.Errorf("moving todo %d: %w", id, err)
		}
		return nil
	})
}

// DeleteTodo permanently removes a todo by ID.
func (s *SQLiteStore) DeleteTodo(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("deleting todo %d: %w", id, err)
		}
		return requireRow(res, "todo", id)
	})
}

// getTodo loads a todo through either the database or a transaction.
func getTodo(ctx context.Context, q sqlx.QueryerContext, id int64) (model.Todo, error) {
	var todo model.Todo
	err := sqlx.GetContext(ctx, q, &todo,
		"SELECT "+todoColumns+" FROM todos WHERE id = ?", id)
	if err != nil {
		return model.Todo{}, notFound(err, "todo", id)
	}
	return todo, nil
}

// nextPosition returns the position that places a todo above every active
// todo of the project: one more than the current maximum, or 1.
func nextPosition(ctx context.Context, tx *sqlx.Tx, projectID int64) (int64, error) {
	var maxPosition int64
	err := tx.GetContext(ctx, &maxPosition,
		"SELECT COALESCE(MAX(position), 0) FROM todos WHERE project_id = ? AND completed_at IS NULL",
		projectID)
	if err != nil {
		return 0, fmt.Errorf("getting max position: %w", err)
	}
	return maxPosition + 1, nil
}
