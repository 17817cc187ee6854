package model

import "time"

// Direction values accepted when moving a todo within the active list.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// Todo is a single task belonging to one project.
//
// Position orders the project's active todos: the highest position is shown
// first. Completed todos always carry position 0 and are ordered by
// CompletedAt instead.
type Todo struct {
	ID          int64      `json:"id" db:"id"`
	ProjectID   int64      `json:"project_id" db:"project_id"`
	Description string     `json:"description" db:"description"`
	Details     *string    `json:"details,omitempty" db:"details"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	Position    int64      `json:"position" db:"position"`
}

// IsCompleted reports whether the todo has been marked done.
func (t Todo) IsCompleted() bool { return t.CompletedAt != nil }

// IsActive reports whether the todo is still open.
func (t Todo) IsActive() bool { return t.CompletedAt == nil }

// CanReorder reports whether the todo takes part in positional ordering.
func (t Todo) CanReorder() bool { return t.CompletedAt == nil }

// CompletionStatus returns the completion time formatted for display,
// or "Pending" for active todos.
func (t Todo) CompletionStatus() string {
	if t.CompletedAt == nil {
		return "Pending"
	}
	return t.CompletedAt.Local().Format("2006-01-02 15:04")
}
