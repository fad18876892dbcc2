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

const MaxCommentLength = 2000

// PostService serves the visitor-facing blog reads and the append-only
// comment flow.
type PostService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	logger   *slog.Logger
}

func NewPostService(posts repository.PostRepository, comments repository.CommentRepository, logger *slog.Logger) *PostService {
	return &PostService{
		posts:    posts,
		comments: comments,
		logger:   logger,
	}
}

// FetchByID returns a visible post for the blog detail page. A hidden
// post is indistinguishable from a missing one.
func (s *PostService) FetchByID(ctx context.Context, id string) (*model.Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "post ID is required")
	}
	return s.posts.GetVisiblePostByID(ctx, id)
}

// CommentsSorted returns a post's visible comments ascending by
// creation time. An unknown post yields an empty list, matching the
// blog page's "no comments yet" rendering.
func (s *PostService) CommentsSorted(ctx context.Context, postID string) ([]model.Comment, error) {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return []model.Comment{}, nil
	}

	comments, err := s.comments.ListVisibleComments(ctx, postID)
	if err != nil {
		s.logger.Error("failed to list comments",
			slog.String("postID", postID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing comments: %w", err)
	}

	return comments, nil
}

// AddComment appends a comment to a post on behalf of the caller.
//
// The client already refuses to send whitespace-only comments, but the
// check is repeated here — the handler chain, not the browser, is the
// authority. Nothing is persisted on a validation failure.
func (s *PostService) AddComment(ctx context.Context, callerID, postID, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.ValidationFailed("content", "comment content is required")
	}
	if len(content) > MaxCommentLength {
		return nil, apperror.ValidationFailed("content",
			fmt.Sprintf("comment must be %d characters or less", MaxCommentLength))
	}

	// The parent must exist and be visible; commenting on a hidden
	// post would leak its existence.
	if _, err := s.posts.GetVisiblePostByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID:  postID,
		UserID:  callerID,
		Content: content,
	}

	if err := s.comments.CreateComment(ctx, comment); err != nil {
		s.logger.Error("failed to create comment",
			slog.String("postID", postID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	s.logger.Info("comment created",
		slog.String("id", comment.ID),
		slog.String("postID", postID),
		slog.String("userID", callerID),
	)

	return comment, nil
}
