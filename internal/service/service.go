// Package service holds the business rules shared by the terminal and web
// front ends: input validation, the error taxonomy and logging of store
// failures. Every method performs at most one store operation.
package service

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/nhle/docket/internal/store"
)

const (
	MaxProjectNameLength = 255
	MaxDescriptionLength = 500
)

// Service implements project and todo operations on top of a Store.
type Service struct {
	store  store.Store
	logger *log.Logger
}

// New creates a Service. A nil logger discards log output.
func New(s store.Store, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Service{store: s, logger: logger}
}

// translate maps a store error onto the service taxonomy. subject names the
// entity the operation was about, e.g. "project 3". Unexpected errors are
// logged once here and keep the original error in the chain.
func (s *Service) translate(op, subject string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, subject)
	case errors.Is(err, store.ErrDuplicateName):
		return fmt.Errorf("%w: %s", ErrDuplicateName, subject)
	case errors.Is(err, store.ErrCompleted):
		return fmt.Errorf("%w: %s is completed", ErrInvalidInput, subject)
	default:
		s.logger.Error("store operation failed", "op", op, "subject", subject, "err", err)
		return fmt.Errorf("%w: %s: %w", ErrStoreFailure, op, err)
	}
}

// requireText trims value and checks it is non-empty and at most max
// characters long.
func requireText(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	if utf8.RuneCountInString(value) > max {
		return "", fmt.Errorf("%w: %s is too long (max %d characters)", ErrInvalidInput, field, max)
	}
	return value, nil
}

// optionalText trims value and returns nil when it is absent or blank.
// max <= 0 means no length limit.
func optionalText(field string, value *string, max int) (*string, error) {
	if value == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil, nil
	}
	if max > 0 && utf8.RuneCountInString(trimmed) > max {
		return nil, fmt.Errorf("%w: %s is too long (max %d characters)", ErrInvalidInput, field, max)
	}
	return &trimmed, nil
}

func projectSubject(id int64) string { return fmt.Sprintf("project %d", id) }

func todoSubject(id int64) string { return fmt.Sprintf("todo %d", id) }

func isDuplicate(err error) bool { return errors.Is(err, store.ErrDuplicateName) }
