// Package repository declares the storage interfaces the service layer
// depends on. The sqlite subpackage implements all of them on a single
// DB type, which is why the method names carry the entity name; tests
// substitute per-interface in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/scriptorium/internal/model"
)

type UserRepository interface {
	// CreateUser inserts a new user. Returns apperror.ErrConflict if
	// the email is already registered.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

type TemplateRepository interface {
	CreateTemplate(ctx context.Context, template *model.Template) error
	// GetTemplateByID loads the template together with its owner ID and
	// tags, so the caller can authorize without a second query.
	GetTemplateByID(ctx context.Context, id string) (*model.Template, error)
	// UpdateTemplate writes the scalar columns (title, description,
	// code) and, when tags is non-nil, replaces the tag set in the same
	// transaction. An empty non-nil slice clears the set; nil leaves
	// the existing tags untouched.
	UpdateTemplate(ctx context.Context, template *model.Template, tags *[]string) error
	DeleteTemplate(ctx context.Context, id string) error
	ListTemplatesByUser(ctx context.Context, userID string) ([]model.TemplateSummary, error)
}

type PostRepository interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPostByID(ctx context.Context, id string) (*model.Post, error)
	// GetVisiblePostByID behaves like GetPostByID but treats hidden
	// posts as absent — visitors can't tell a hidden post from a
	// missing one.
	GetVisiblePostByID(ctx context.Context, id string) (*model.Post, error)
	// HidePost sets hidden=true. Hiding an already-hidden post succeeds
	// with the same end state.
	HidePost(ctx context.Context, id string) error
	// ListReportedPosts returns posts with at least one report, each
	// with its reports attached.
	ListReportedPosts(ctx context.Context) ([]model.ReportedPost, error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetCommentByID(ctx context.Context, id string) (*model.Comment, error)
	// ListVisibleComments returns the post's visible comments ordered
	// by creation time ascending.
	ListVisibleComments(ctx context.Context, postID string) ([]model.Comment, error)
	HideComment(ctx context.Context, id string) error
	ListReportedComments(ctx context.Context) ([]model.ReportedComment, error)
}

type ReportRepository interface {
	CreateReport(ctx context.Context, report *model.Report) error
}
