package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/scriptorium/internal/auth"
	"github.com/sakif/scriptorium/internal/service"
)

// TemplateHandler serves the code-template CRUD routes. Reads are
// public; mutations require the caller to own the template, which the
// service enforces.
type TemplateHandler struct {
	templates *service.TemplateService
	logger    *slog.Logger
}

func NewTemplateHandler(templates *service.TemplateService, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{templates: templates, logger: logger}
}

// createTemplateRequest is the POST body. Tags may be omitted.
type createTemplateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Code        string   `json:"code"`
	Tags        []string `json:"tags"`
}

// updateTemplateRequest is the PUT body. Empty scalar fields keep the
// stored value; Tags distinguishes omitted (nil, keep) from [] (clear).
type updateTemplateRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Code        string    `json:"code"`
	Tags        *[]string `json:"tags"`
}

// HandleCreate saves a new template owned by the caller.
//
// HTTP: POST /api/resources
// Auth: required
func (h *TemplateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, errMissingIdentity())
		return
	}

	var req createTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	template, err := h.templates.Create(r.Context(), caller.UserID, req.Title, req.Description, req.Code, req.Tags)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, template)
}

// HandleGet returns a single template with its tags.
//
// HTTP: GET /api/resources/{id}
func (h *TemplateHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	template, err := h.templates.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, template)
}

// HandleUpdate edits a template the caller owns.
//
// HTTP: PUT /api/resources/{id}
// Auth: required; 403 when the caller is not the owner
func (h *TemplateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, errMissingIdentity())
		return
	}

	var req updateTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	template, err := h.templates.Update(r.Context(), chi.URLParam(r, "id"), caller.UserID, service.TemplateUpdate{
		Title:       req.Title,
		Description: req.Description,
		Code:        req.Code,
		Tags:        req.Tags,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, template)
}

// HandleDelete removes a template the caller owns.
//
// HTTP: DELETE /api/resources/{id}
// Auth: required; 403 when the caller is not the owner
func (h *TemplateHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, errMissingIdentity())
		return
	}

	if err := h.templates.Delete(r.Context(), chi.URLParam(r, "id"), caller.UserID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "template deleted"})
}
