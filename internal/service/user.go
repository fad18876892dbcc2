package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/scriptorium/internal/apperror"
	"github.com/sakif/scriptorium/internal/model"
	"github.com/sakif/scriptorium/internal/repository"
)

// Dashboard is the aggregate returned by GET /api/users/{id}: the
// user's profile plus the templates they created.
type Dashboard struct {
	ID              string                  `json:"id"`
	Name            string                  `json:"name"`
	Email           string                  `json:"email"`
	CreatedProjects []model.TemplateSummary `json:"createdProjects"`
}

// UserService serves the dashboard aggregate read.
//
// Any authenticated caller may read any user's dashboard — the route
// requires a valid token but not an identity match. Restricting it to
// self-only would be a one-line check here if that ever changes.
type UserService struct {
	users     repository.UserRepository
	templates repository.TemplateRepository
	logger    *slog.Logger
}

func NewUserService(users repository.UserRepository, templates repository.TemplateRepository, logger *slog.Logger) *UserService {
	return &UserService{
		users:     users,
		templates: templates,
		logger:    logger,
	}
}

// Dashboard returns the profile-plus-projects aggregate for a user.
// Read-only; no side effects.
func (s *UserService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	projects, err := s.templates.ListTemplatesByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list user templates",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing user templates: %w", err)
	}

	return &Dashboard{
		ID:              user.ID,
		Name:            user.Name(),
		Email:           user.Email,
		CreatedProjects: projects,
	}, nil
}
