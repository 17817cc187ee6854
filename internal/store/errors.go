package store

import (
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when a referenced project or todo does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName is returned when a project name is already taken.
	ErrDuplicateName = errors.New("project name already exists")

	// ErrCompleted is returned when an operation needs an active todo.
	ErrCompleted = errors.New("todo is completed")
)

// notFound wraps ErrNotFound when err is sql.ErrNoRows and otherwise
// annotates err with the action that failed.
func notFound(err error, what string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return fmt.Errorf("getting %s %d: %w", what, id, err)
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
