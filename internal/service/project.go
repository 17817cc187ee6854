package service

import (
	"context"
	"fmt"

	"github.com/nhle/docket/internal/model"
)

// CreateProject validates name and creates an active project. A blank
// description is stored as absent.
func (s *Service) CreateProject(ctx context.Context, name string, description *string) (model.Project, error) {
	name, err := requireText("name", name, MaxProjectNameLength)
	if err != nil {
		return model.Project{}, err
	}
	description, err = optionalText("description", description, MaxDescriptionLength)
	if err != nil {
		return model.Project{}, err
	}

	p, err := s.store.CreateProject(ctx, name, description)
	if err != nil {
		return model.Project{}, s.translate("create project", fmt.Sprintf("project %q", name), err)
	}
	s.logger.Debug("project created", "id", p.ID, "name", p.Name)
	return p, nil
}

// ListProjects returns active projects, plus archived ones when
// includeArchived is set, with their todo counts.
func (s *Service) ListProjects(ctx context.Context, includeArchived bool) ([]model.ProjectWithStats, error) {
	projects, err := s.store.ListProjects(ctx, includeArchived)
	if err != nil {
		return nil, s.translate("list projects", "projects", err)
	}
	return projects, nil
}

func (s *Service) GetProject(ctx context.Context, id int64) (model.Project, error) {
	p, err := s.store.GetProject(ctx, id)
	if err != nil {
		return model.Project{}, s.translate("get project", projectSubject(id), err)
	}
	return p, nil
}

// RenameProject gives a project a new, unique name.
func (s *Service) RenameProject(ctx context.Context, id int64, name string) (model.Project, error) {
	name, err := requireText("name", name, MaxProjectNameLength)
	if err != nil {
		return model.Project{}, err
	}

	p, err := s.store.RenameProject(ctx, id, name)
	if err != nil {
		subject := projectSubject(id)
		if isDuplicate(err) {
			subject = fmt.Sprintf("project %q", name)
		}
		return model.Project{}, s.translate("rename project", subject, err)
	}
	return p, nil
}

// UpdateProjectDescription sets a project's description; nil or blank
// clears it.
func (s *Service) UpdateProjectDescription(ctx context.Context, id int64, description *string) (model.Project, error) {
	description, err := optionalText("description", description, MaxDescriptionLength)
	if err != nil {
		return model.Project{}, err
	}

	p, err := s.store.UpdateProjectDescription(ctx, id, description)
	if err != nil {
		return model.Project{}, s.translate("update project description", projectSubject(id), err)
	}
	return p, nil
}

func (s *Service) ArchiveProject(ctx context.Context, id int64) error {
	if err := s.store.ArchiveProject(ctx, id); err != nil {
		return s.translate("archive project", projectSubject(id), err)
	}
	s.logger.Debug("project archived", "id", id)
	return nil
}

func (s *Service) UnarchiveProject(ctx context.Context, id int64) error {
	if err := s.store.UnarchiveProject(ctx, id); err != nil {
		return s.translate("unarchive project", projectSubject(id), err)
	}
	s.logger.Debug("project unarchived", "id", id)
	return nil
}

// DeleteProject removes a project together with all of its todos.
func (s *Service) DeleteProject(ctx context.Context, id int64) error {
	if err := s.store.DeleteProject(ctx, id); err != nil {
		return s.translate("delete project", projectSubject(id), err)
	}
	s.logger.Debug("project deleted", "id", id)
	return nil
}
