package model

import "time"

// Project is a named grouping container for todos.
type Project struct {
	ID          int64      `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description *string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty" db:"archived_at"`
}

// IsArchived reports whether the project has been archived.
func (p Project) IsArchived() bool { return p.ArchivedAt != nil }

// IsActive reports whether the project is not archived.
func (p Project) IsActive() bool { return p.ArchivedAt == nil }

// ProjectWithStats is a project together with counts of its todos.
// The embedded Project flattens into the JSON object.
type ProjectWithStats struct {
	Project
	TotalTodos     int64 `json:"total_todos" db:"total_todos"`
	CompletedTodos int64 `json:"completed_todos" db:"completed_todos"`
}

// ActiveTodos returns the number of todos not yet completed.
func (p ProjectWithStats) ActiveTodos() int64 {
	return p.TotalTodos - p.CompletedTodos
}
