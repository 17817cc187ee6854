package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nhle/docket/internal/service"
)

// ErrorRecorder counts service errors by kind.
type ErrorRecorder interface {
	RecordError(kind string)
}

type nopRecorder struct{}

func (nopRecorder) RecordError(string) {}

// Error kinds reported to the ErrorRecorder.
const (
	KindInvalidInput  = "invalid_input"
	KindNotFound      = "not_found"
	KindDuplicateName = "duplicate_name"
	KindStoreFailure  = "store_failure"
)

// errorMapper writes service errors as JSON responses.
type errorMapper struct {
	rec ErrorRecorder
}

func newErrorMapper(rec ErrorRecorder) errorMapper {
	if rec == nil {
		rec = nopRecorder{}
	}
	return errorMapper{rec: rec}
}

func (m errorMapper) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		m.rec.RecordError(KindInvalidInput)
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, service.ErrNotFound):
		m.rec.RecordError(KindNotFound)
		WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrDuplicateName):
		m.rec.RecordError(KindDuplicateName)
		WriteError(w, http.StatusConflict, "DUPLICATE_NAME", err.Error())
	default:
		// Store failures are logged by the service; the details stay there.
		m.rec.RecordError(KindStoreFailure)
		WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// pathID parses the {id} URL parameter. It writes a 400 response and
// returns false when the parameter is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, http.StatusBadRequest, "INVALID_ID", "invalid id "+strconv.Quote(raw))
		return 0, false
	}
	return id, true
}

// queryBool reads an optional boolean query parameter.
func queryBool(w http.ResponseWriter, r *http.Request, name string, def bool) (bool, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_QUERY", name+" must be a boolean")
		return false, false
	}
	return v, true
}

// noContent runs an id-addressed operation and answers 204 on success.
func (m errorMapper) noContent(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id int64) error) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := op(r.Context(), id); err != nil {
		m.handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
