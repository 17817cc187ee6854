package handler

import (
	"net/http"

	"github.com/nhle/docket/internal/service"
)

type ProjectHandler struct {
	svc *service.Service
	errorMapper
}

func NewProjectHandler(svc *service.Service, rec ErrorRecorder) *ProjectHandler {
	return &ProjectHandler{svc: svc, errorMapper: newErrorMapper(rec)}
}

type createProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type renameProjectRequest struct {
	Name string `json:"name"`
}

type projectDescriptionRequest struct {
	Description *string `json:"description"`
}

// List handles GET /api/projects?include_archived=bool.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	includeArchived, ok := queryBool(w, r, "include_archived", false)
	if !ok {
		return
	}

	projects, err := h.svc.ListProjects(r.Context(), includeArchived)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if !decodeBody(w, r, createProjectSchema, &req) {
		return
	}

	project, err := h.svc.CreateProject(r.Context(), req.Name, req.Description)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	project, err := h.svc.GetProject(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req renameProjectRequest
	if !decodeBody(w, r, renameProjectSchema, &req) {
		return
	}

	project, err := h.svc.RenameProject(r.Context(), id, req.Name)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) UpdateDescription(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req projectDescriptionRequest
	if !decodeBody(w, r, projectDescriptionSchema, &req) {
		return
	}

	project, err := h.svc.UpdateProjectDescription(r.Context(), id, req.Description)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.noContent(w, r, h.svc.ArchiveProject)
}

func (h *ProjectHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	h.noContent(w, r, h.svc.UnarchiveProject)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.noContent(w, r, h.svc.DeleteProject)
}
