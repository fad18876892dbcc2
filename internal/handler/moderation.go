package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/scriptorium/internal/auth"
	"github.com/sakif/scriptorium/internal/service"
	"github.com/sakif/scriptorium/internal/validation"
)

// ModerationHandler serves the admin moderation page and the report
// endpoint. The admin routes are mounted behind RequireAdmin, and the
// service re-checks the role from the verified token.
type ModerationHandler struct {
	moderation *service.ModerationService
	validate   *validation.Validator
	logger     *slog.Logger
}

func NewModerationHandler(moderation *service.ModerationService, validate *validation.Validator, logger *slog.Logger) *ModerationHandler {
	return &ModerationHandler{moderation: moderation, validate: validate, logger: logger}
}

// HandleListReported returns every post and comment with at least one
// report, including already-hidden items so the moderation page shows
// what has been acted on.
//
// HTTP: GET /api/moderation/reported-content
// Auth: admin
func (h *ModerationHandler) HandleListReported(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, errMissingIdentity())
		return
	}

	content, err := h.moderation.ListReported(r.Context(), caller.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, content)
}

type hideContentRequest struct {
	ContentID   string `json:"contentId" validate:"required"`
	ContentType string `json:"contentType" validate:"required,oneof=post comment"`
}

// HandleHideContent flags a post or comment as hidden. Idempotent: a
// second hide of the same item succeeds with the same end state.
//
// HTTP: PUT /api/moderation/hide-content
// Auth: admin
func (h *ModerationHandler) HandleHideContent(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, errMissingIdentity())
		return
	}

	var req hideContentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validate.Validate(req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.moderation.HideContent(r.Context(), caller.Role, req.ContentID, req.ContentType); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "content hidden"})
}

type reportContentRequest struct {
	ContentID   string `json:"contentId" validate:"required"`
	ContentType string `json:"contentType" validate:"required,oneof=post comment"`
	Reason      string `json:"reason" validate:"required,max=1000"`
}

// HandleReport files a report against a post or comment.
//
// HTTP: POST /api/reports
// Auth: required
func (h *ModerationHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, errMissingIdentity())
		return
	}

	var req reportContentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validate.Validate(req); err != nil {
		writeError(w, err)
		return
	}

	report, err := h.moderation.Report(r.Context(), caller.UserID, req.ContentID, req.ContentType, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, report)
}
