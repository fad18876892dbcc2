package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/scriptorium/internal/service"
)

// UserHandler serves the dashboard aggregate read.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// HandleDashboard returns a user's profile plus the templates they
// created, in one response. Any authenticated caller may read any
// user's dashboard.
//
// HTTP: GET /api/users/{id}
// Auth: required
func (h *UserHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.users.Dashboard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboard)
}
