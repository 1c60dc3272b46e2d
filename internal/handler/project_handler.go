package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ooo-portfolio/backend/internal/model"
	"github.com/ooo-portfolio/backend/internal/service"
)

// ProjectHandler はプロジェクト CRUD の HTTP ハンドラ
type ProjectHandler struct {
	projectService service.ProjectService
}

// NewProjectHandler は ProjectHandler を生成する
func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// List は GET /api/projects を処理する
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.List(r.Context())
	if err != nil {
		writeLookupError(w, r, err, "list projects failed")
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// Get は GET /api/projects/{id} を処理する
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.projectService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeLookupError(w, r, err, "get project failed")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// Create は POST /api/admin/projects を処理する
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeProjectInput(w, r)
	if !ok {
		return
	}
	project, err := h.projectService.Create(r.Context(), in)
	if err != nil {
		h.writeWriteError(w, r, err, "create project failed")
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

// Update は PUT /api/admin/projects/{id} を処理する
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeProjectInput(w, r)
	if !ok {
		return
	}
	project, err := h.projectService.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		h.writeWriteError(w, r, err, "update project failed")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// Delete は DELETE /api/admin/projects/{id} を処理する。画像は DB の CASCADE で削除される
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.projectService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeLookupError(w, r, err, "delete project failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProjectHandler) writeWriteError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if errors.Is(err, service.ErrTitleRequired) {
		writeError(w, http.StatusBadRequest, "title_required")
		return
	}
	writeLookupError(w, r, err, msg)
}

func decodeProjectInput(w http.ResponseWriter, r *http.Request) (model.ProjectInput, bool) {
	var in model.ProjectInput
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return in, false
	}
	return in, true
}
