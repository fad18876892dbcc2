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

const MaxReportReasonLength = 1000

// ReportedContent is the admin moderation page payload.
type ReportedContent struct {
	ReportedPosts    []model.ReportedPost    `json:"reportedPosts"`
	ReportedComments []model.ReportedComment `json:"reportedComments"`
}

// ModerationService handles content reports and admin hide actions.
//
// The admin routes sit behind a role-checking middleware, but the role
// is verified here again: the service is callable from more than one
// place, and the client-side gate on the admin page counts for nothing.
type ModerationService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	reports  repository.ReportRepository
	logger   *slog.Logger
}

func NewModerationService(
	posts repository.PostRepository,
	comments repository.CommentRepository,
	reports repository.ReportRepository,
	logger *slog.Logger,
) *ModerationService {
	return &ModerationService{
		posts:    posts,
		comments: comments,
		reports:  reports,
		logger:   logger,
	}
}

// ListReported returns all posts and comments with at least one report.
// Admin only.
func (s *ModerationService) ListReported(ctx context.Context, callerRole string) (*ReportedContent, error) {
	if callerRole != model.RoleAdmin {
		return nil, apperror.Forbidden("admin role required")
	}

	posts, err := s.posts.ListReportedPosts(ctx)
	if err != nil {
		s.logger.Error("failed to list reported posts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing reported posts: %w", err)
	}

	comments, err := s.comments.ListReportedComments(ctx)
	if err != nil {
		s.logger.Error("failed to list reported comments", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing reported comments: %w", err)
	}

	return &ReportedContent{
		ReportedPosts:    posts,
		ReportedComments: comments,
	}, nil
}

// HideContent sets the hidden flag on a post or comment. Admin only.
//
// The transition is one-way (there is no unhide) and idempotent:
// hiding an already-hidden item succeeds with the same end state.
func (s *ModerationService) HideContent(ctx context.Context, callerRole, contentID, contentType string) error {
	if callerRole != model.RoleAdmin {
		return apperror.Forbidden("admin role required")
	}

	contentID = strings.TrimSpace(contentID)
	if contentID == "" {
		return apperror.ValidationFailed("contentId", "content ID is required")
	}

	var err error
	switch contentType {
	case model.ContentTypePost:
		err = s.posts.HidePost(ctx, contentID)
	case model.ContentTypeComment:
		err = s.comments.HideComment(ctx, contentID)
	default:
		return apperror.ValidationFailed("contentType",
			fmt.Sprintf("content type must be %q or %q", model.ContentTypePost, model.ContentTypeComment))
	}
	if err != nil {
		return err
	}

	s.logger.Info("content hidden",
		slog.String("contentID", contentID),
		slog.String("contentType", contentType),
	)

	return nil
}

// Report files a report against a post or comment on behalf of the
// authenticated caller.
func (s *ModerationService) Report(ctx context.Context, callerID, contentID, contentType, reason string) (*model.Report, error) {
	contentID = strings.TrimSpace(contentID)
	if contentID == "" {
		return nil, apperror.ValidationFailed("contentId", "content ID is required")
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperror.ValidationFailed("reason", "report reason is required")
	}
	if len(reason) > MaxReportReasonLength {
		return nil, apperror.ValidationFailed("reason",
			fmt.Sprintf("report reason must be %d characters or less", MaxReportReasonLength))
	}

	// Verify the target exists so reports can't dangle. Hidden content
	// can still be reported; moderation sees everything.
	switch contentType {
	case model.ContentTypePost:
		if _, err := s.posts.GetPostByID(ctx, contentID); err != nil {
			return nil, err
		}
	case model.ContentTypeComment:
		if _, err := s.comments.GetCommentByID(ctx, contentID); err != nil {
			return nil, err
		}
	default:
		return nil, apperror.ValidationFailed("contentType",
			fmt.Sprintf("content type must be %q or %q", model.ContentTypePost, model.ContentTypeComment))
	}

	report := &model.Report{
		ContentID:   contentID,
		ContentType: contentType,
		Reason:      reason,
		UserID:      callerID,
	}

	if err := s.reports.CreateReport(ctx, report); err != nil {
		s.logger.Error("failed to create report",
			slog.String("contentID", contentID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating report: %w", err)
	}

	s.logger.Info("content reported",
		slog.String("contentID", contentID),
		slog.String("contentType", contentType),
		slog.String("userID", callerID),
	)

	return report, nil
}
