package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/scriptorium/internal/apperror"
	"github.com/sakif/scriptorium/internal/model"
)

func newTestModerationService() (*ModerationService, *mockPostRepo, *mockCommentRepo, *mockReportRepo) {
	posts := newMockPostRepo()
	comments := newMockCommentRepo()
	reports := newMockReportRepo()
	svc := NewModerationService(posts, comments, reports, testLogger())
	return svc, posts, comments, reports
}

func seedPost(t *testing.T, posts *mockPostRepo, title string) *model.Post {
	t.Helper()
	post := &model.Post{UserID: "author-1", Title: title, Content: "body"}
	if err := posts.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("seeding post: %v", err)
	}
	return post
}

func TestHideContent_NonAdminForbidden(t *testing.T) {
	svc, posts, _, _ := newTestModerationService()
	post := seedPost(t, posts, "Reported Post")

	err := svc.HideContent(context.Background(), model.RoleUser, post.ID, model.ContentTypePost)
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("HideContent() as USER error = %v, want ErrForbidden", err)
	}

	// hidden must remain false.
	got, _ := posts.GetPostByID(context.Background(), post.ID)
	if got.Hidden {
		t.Error("post hidden after forbidden request")
	}
}

func TestHideContent_AdminHidesPost(t *testing.T) {
	svc, posts, _, _ := newTestModerationService()
	post := seedPost(t, posts, "Reported Post")

	if err := svc.HideContent(context.Background(), model.RoleAdmin, post.ID, model.ContentTypePost); err != nil {
		t.Fatalf("HideContent() error = %v", err)
	}

	got, _ := posts.GetPostByID(context.Background(), post.ID)
	if !got.Hidden {
		t.Error("post not hidden")
	}
}

func TestHideContent_Idempotent(t *testing.T) {
	svc, posts, _, _ := newTestModerationService()
	post := seedPost(t, posts, "Reported Post")

	for i := 0; i < 2; i++ {
		if err := svc.HideContent(context.Background(), model.RoleAdmin, post.ID, model.ContentTypePost); err != nil {
			t.Fatalf("HideContent() call %d error = %v", i+1, err)
		}
	}

	got, _ := posts.GetPostByID(context.Background(), post.ID)
	if !got.Hidden {
		t.Error("post not hidden after two hide calls")
	}
}

func TestHideContent_Comment(t *testing.T) {
	svc, _, comments, _ := newTestModerationService()
	comment := &model.Comment{PostID: "post-1", UserID: "author-1", Content: "rude"}
	if err := comments.CreateComment(context.Background(), comment); err != nil {
		t.Fatalf("seeding comment: %v", err)
	}

	if err := svc.HideContent(context.Background(), model.RoleAdmin, comment.ID, model.ContentTypeComment); err != nil {
		t.Fatalf("HideContent() error = %v", err)
	}

	got, _ := comments.GetCommentByID(context.Background(), comment.ID)
	if !got.Hidden {
		t.Error("comment not hidden")
	}
}

func TestHideContent_UnknownContentType(t *testing.T) {
	svc, _, _, _ := newTestModerationService()

	err := svc.HideContent(context.Background(), model.RoleAdmin, "some-id", "page")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("HideContent() with bad contentType error = %v, want ErrValidation", err)
	}
}

func TestHideContent_NotFound(t *testing.T) {
	svc, _, _, _ := newTestModerationService()

	err := svc.HideContent(context.Background(), model.RoleAdmin, "missing", model.ContentTypePost)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("HideContent() unknown id error = %v, want ErrNotFound", err)
	}
}

func TestListReported_NonAdminForbidden(t *testing.T) {
	svc, _, _, _ := newTestModerationService()

	_, err := svc.ListReported(context.Background(), model.RoleUser)
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("ListReported() as USER error = %v, want ErrForbidden", err)
	}
}

func TestListReported_AdminGetsBothLists(t *testing.T) {
	svc, _, _, _ := newTestModerationService()

	content, err := svc.ListReported(context.Background(), model.RoleAdmin)
	if err != nil {
		t.Fatalf("ListReported() error = %v", err)
	}
	if content.ReportedPosts == nil || content.ReportedComments == nil {
		t.Error("ListReported() returned nil slices; want empty non-nil lists")
	}
}

func TestReport_FilesAgainstExistingPost(t *testing.T) {
	svc, posts, _, reports := newTestModerationService()
	post := seedPost(t, posts, "Spammy")

	report, err := svc.Report(context.Background(), "reporter-1", post.ID, model.ContentTypePost, "spam")
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if report.ID == "" {
		t.Error("Report() did not assign an ID")
	}
	if len(reports.reports) != 1 {
		t.Errorf("stored %d reports, want 1", len(reports.reports))
	}
}

func TestReport_Validation(t *testing.T) {
	svc, posts, _, reports := newTestModerationService()
	post := seedPost(t, posts, "Fine Post")

	tests := []struct {
		name        string
		contentID   string
		contentType string
		reason      string
		wantErr     error
	}{
		{"empty reason", post.ID, model.ContentTypePost, "   ", apperror.ErrValidation},
		{"unknown content type", post.ID, "profile", "bad", apperror.ErrValidation},
		{"missing target", "missing", model.ContentTypePost, "bad", apperror.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Report(context.Background(), "reporter-1", tt.contentID, tt.contentType, tt.reason)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Report() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if len(reports.reports) != 0 {
		t.Errorf("stored %d reports after failed attempts, want 0", len(reports.reports))
	}
}
