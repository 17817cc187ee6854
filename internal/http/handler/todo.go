package handler

import (
	"net/http"

	"github.com/nhle/docket/internal/service"
)

type TodoHandler struct {
	svc *service.Service
	errorMapper
}

func NewTodoHandler(svc *service.Service, rec ErrorRecorder) *TodoHandler {
	return &TodoHandler{svc: svc, errorMapper: newErrorMapper(rec)}
}

type todoDescriptionRequest struct {
	Description string `json:"description"`
}

type todoDetailsRequest struct {
	Details *string `json:"details"`
}

type moveTodoRequest struct {
	Direction string `json:"direction"`
}

// List handles GET /api/projects/{id}/todos?include_completed=bool.
// Completed todos are included unless include_completed=false.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r)
	if !ok {
		return
	}
	includeCompleted, ok := queryBool(w, r, "include_completed", true)
	if !ok {
		return
	}

	todos, err := h.svc.ListTodos(r.Context(), projectID, includeCompleted)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, todos)
}

// Create handles POST /api/projects/{id}/todos.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req todoDescriptionRequest
	if !decodeBody(w, r, todoDescriptionSchema, &req) {
		return
	}

	todo, err := h.svc.CreateTodo(r.Context(), projectID, req.Description)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, todo)
}

func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	todo, err := h.svc.GetTodo(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req todoDescriptionRequest
	if !decodeBody(w, r, todoDescriptionSchema, &req) {
		return
	}

	todo, err := h.svc.UpdateTodo(r.Context(), id, req.Description)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req todoDetailsRequest
	if !decodeBody(w, r, todoDetailsSchema, &req) {
		return
	}

	todo, err := h.svc.UpdateTodoDetails(r.Context(), id, req.Details)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	todo, err := h.svc.ToggleTodo(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) Move(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req moveTodoRequest
	if !decodeBody(w, r, moveTodoSchema, &req) {
		return
	}

	if err := h.svc.MoveTodo(r.Context(), id, req.Direction); err != nil {
		h.handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.noContent(w, r, h.svc.DeleteTodo)
}
