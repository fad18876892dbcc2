// Package service contains the business logic layer: validation,
// ownership and role authorization, and orchestration between the
// repositories. Services accept primitives and return domain errors;
// they know nothing about HTTP.
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

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxCodeLength        = 100000 // ~100KB of code
)

// TemplateUpdate carries the fields of an update request.
//
// Title, Description and Code follow the falsy-retain policy: an empty
// string means "keep the stored value". That conflates "omitted" with
// "cleared on purpose", which is deliberate — clearing a field to empty
// is not an operation the app's UI ever performs, so the simpler policy
// wins over per-field presence tracking.
//
// Tags is the one field where omitted and empty genuinely differ (tags
// [] must clear the set), so it carries a presence marker: nil means
// "not supplied, leave tags alone", a non-nil empty slice means
// "replace with nothing".
type TemplateUpdate struct {
	Title       string
	Description string
	Code        string
	Tags        *[]string
}

// TemplateService handles business logic for code templates, including
// the ownership check that guards every mutation.
type TemplateService struct {
	repo   repository.TemplateRepository
	logger *slog.Logger
}

func NewTemplateService(repo repository.TemplateRepository, logger *slog.Logger) *TemplateService {
	return &TemplateService{
		repo:   repo,
		logger: logger,
	}
}

// Create validates and saves a new template owned by callerID.
func (s *TemplateService) Create(ctx context.Context, callerID, title, description, code string, tags []string) (*model.Template, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "template title is required")
	}
	if err := validateTemplateFields(title, description, code); err != nil {
		return nil, err
	}

	template := &model.Template{
		UserID:      callerID,
		Title:       title,
		Description: strings.TrimSpace(description),
		Code:        code,
		Tags:        tags,
	}
	if template.Tags == nil {
		template.Tags = []string{}
	}

	if err := s.repo.CreateTemplate(ctx, template); err != nil {
		s.logger.Error("failed to create template",
			slog.String("userID", callerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating template: %w", err)
	}

	s.logger.Info("template created",
		slog.String("id", template.ID),
		slog.String("userID", callerID),
	)

	return template, nil
}

// GetByID retrieves a template with its tags. Public read, no
// authorization.
func (s *TemplateService) GetByID(ctx context.Context, id string) (*model.Template, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "template ID is required")
	}
	return s.repo.GetTemplateByID(ctx, id)
}

// Update applies an ownership-checked, falsy-retain update.
//
// The pass is load → authorize → execute: fetch the template (NotFound
// if absent), compare its owner to the caller (Forbidden on mismatch,
// before anything is written), then replace only the fields the update
// actually supplies. Tag replacement, when requested, is total
// (delete-all then re-create) and commits atomically with the scalar
// columns: a failed tag write leaves the row as it was.
func (s *TemplateService) Update(ctx context.Context, id, callerID string, upd TemplateUpdate) (*model.Template, error) {
	template, err := s.authorizeOwner(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(upd.Title); title != "" {
		template.Title = title
	}
	if description := strings.TrimSpace(upd.Description); description != "" {
		template.Description = description
	}
	if upd.Code != "" {
		template.Code = upd.Code
	}
	if err := validateTemplateFields(template.Title, template.Description, template.Code); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTemplate(ctx, template, upd.Tags); err != nil {
		s.logger.Error("failed to update template",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating template: %w", err)
	}

	if upd.Tags != nil {
		template.Tags = append([]string{}, *upd.Tags...)
	}

	s.logger.Info("template updated",
		slog.String("id", template.ID),
		slog.String("userID", callerID),
	)

	return template, nil
}

// Delete removes a template after the same ownership check as Update.
// Hard delete; tag rows cascade in the store.
func (s *TemplateService) Delete(ctx context.Context, id, callerID string) error {
	template, err := s.authorizeOwner(ctx, id, callerID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteTemplate(ctx, template.ID); err != nil {
		s.logger.Error("failed to delete template",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting template: %w", err)
	}

	s.logger.Info("template deleted",
		slog.String("id", template.ID),
		slog.String("userID", callerID),
	)

	return nil
}

// authorizeOwner loads the template and verifies the caller owns it.
// Order matters: a missing template is NotFound even for a caller who
// wouldn't have owned it, and ownership is checked before any write.
func (s *TemplateService) authorizeOwner(ctx context.Context, id, callerID string) (*model.Template, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "template ID is required")
	}

	template, err := s.repo.GetTemplateByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if template.UserID != callerID {
		return nil, apperror.Forbidden("you do not have permission to edit or delete this template")
	}

	return template, nil
}

func validateTemplateFields(title, description, code string) error {
	if len(title) > MaxTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("template title must be %d characters or less", MaxTitleLength))
	}
	if len(description) > MaxDescriptionLength {
		return apperror.ValidationFailed("description",
			fmt.Sprintf("template description must be %d characters or less", MaxDescriptionLength))
	}
	if len(code) > MaxCodeLength {
		return apperror.ValidationFailed("code",
			fmt.Sprintf("code must be %d characters or less", MaxCodeLength))
	}
	return nil
}
