package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/docket/internal/model"
)

const projectColumns = "id, name, description, created_at, archived_at"

// CreateProject inserts a new project. Names are unique across active and
// archived projects.
func (s *SQLiteStore) CreateProject(
	ctx context.Context,
	name string,
	description *string,
) (model.Project, error) {
	var project model.Project
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := checkNameFree(ctx, tx, name, 0); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			"INSERT INTO projects (name, description, created_at) VALUES (?, ?, ?)",
			name, description, s.timestamp())
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("project %q: %w", name, ErrDuplicateName)
			}
			return fmt.Errorf("creating project: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading new project id: %w", err)
		}

		project, err = getProject(ctx, tx, id)
		return err
	})
	return project, err
}

// GetProject retrieves a single project by ID.
func (s *SQLiteStore) GetProject(ctx context.Context, id int64) (model.Project, error) {
	return getProject(ctx, s.db, id)
}

// ListProjects retrieves projects with their todo counts, optionally
// including archived ones. Active projects come first, newest first.
func (s *SQLiteStore) ListProjects(
	ctx context.Context,
	includeArchived bool,
) ([]model.ProjectWithStats, error) {
	query := `
		SELECT
			p.id, p.name, p.description, p.created_at, p.archived_at,
			COUNT(t.id) AS total_todos,
			COUNT(t.completed_at) AS completed_todos
		FROM projects p
		LEFT JOIN todos t ON t.project_id = p.id`
	if !includeArchived {
		query += " WHERE p.archived_at IS NULL"
	}
	query += `
		GROUP BY p.id
		ORDER BY p.archived_at IS NOT NULL, p.created_at DESC, p.id DESC`

	projects := []model.ProjectWithStats{}
	if err := s.db.SelectContext(ctx, &projects, query); err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	return projects, nil
}

// RenameProject changes a project's name, keeping names unique.
func (s *SQLiteStore) RenameProject(ctx context.Context, id int64, name string) (model.Project, error) {
	var project model.Project
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := getProject(ctx, tx, id); err != nil {
			return err
		}
		if err := checkNameFree(ctx, tx, name, id); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, "UPDATE projects SET name = ? WHERE id = ?", name, id)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("project %q: %w", name, ErrDuplicateName)
			}
			return fmt.Errorf("renaming project %d: %w", id, err)
		}

		project, err = getProject(ctx, tx, id)
		return err
	})
	return project, err
}

// UpdateProjectDescription sets or clears (nil) a project's description.
func (s *SQLiteStore) UpdateProjectDescription(
	ctx context.Context,
	id int64,
	description *string,
) (model.Project, error) {
	var project model.Project
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE projects SET description = ? WHERE id = ?", description, id)
		if err != nil {
			return fmt.Errorf("updating description of project %d: %w", id, err)
		}
		if err := requireRow(res, "project", id); err != nil {
			return err
		}

		project, err = getProject(ctx, tx, id)
		return err
	})
	return project, err
}

// ArchiveProject sets archived_at. Archiving an archived project keeps the
// original timestamp.
func (s *SQLiteStore) ArchiveProject(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE projects SET archived_at = COALESCE(archived_at, ?) WHERE id = ?",
			s.timestamp(), id)
		if err != nil {
			return fmt.Errorf("archiving project %d: %w", id, err)
		}
		return requireRow(res, "project", id)
	})
}

// UnarchiveProject clears archived_at.
func (s *SQLiteStore) UnarchiveProject(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE projects SET archived_at = NULL WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("unarchiving project %d: %w", id, err)
		}
		return requireRow(res, "project", id)
	})
}

// DeleteProject removes a project and all of its todos in one transaction.
func (s *SQLiteStore) DeleteProject(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := getProject(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM todos WHERE project_id = ?", id); err != nil {
			return fmt.Errorf("deleting todos of project %d: %w", id, err)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("deleting project %d: %w", id, err)
		}
		return requireRow(res, "project", id)
	})
}

// getProject loads a project through either the database or a transaction.
func getProject(ctx context.Context, q sqlx.QueryerContext, id int64) (model.Project, error) {
	var project model.Project
	err := sqlx.GetContext(ctx, q, &project,
		"SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	if err != nil {
		return model.Project{}, notFound(err, "project", id)
	}
	return project, nil
}

// checkNameFree fails with ErrDuplicateName when another project (any
// project but exceptID) already uses name.
func checkNameFree(ctx context.Context, tx *sqlx.Tx, name string, exceptID int64) error {
	var taken bool
	err := tx.GetContext(ctx, &taken,
		"SELECT EXISTS(SELECT 1 FROM projects WHERE name = ? AND id != ?)", name, exceptID)
	if err != nil {
		return fmt.Errorf("checking project name: %w", err)
	}
	if taken {
		return fmt.Errorf("project %q: %w", name, ErrDuplicateName)
	}
	return nil
}

// requireRow returns ErrNotFound when an UPDATE or DELETE matched nothing.
func requireRow(res interface{ RowsAffected() (int64, error) }, what string, id int64) error {
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return nil
}
