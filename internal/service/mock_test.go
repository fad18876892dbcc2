package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/sakif/scriptorium/internal/apperror"
	"github.com/sakif/scriptorium/internal/model"
)

// In-memory mock repositories shared by the service tests. Each one
// implements just the repository interface its service needs; stored
// values are copied on the way in and out so tests can't interfere
// with each other through shared pointers.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// --- templates ---

type mockTemplateRepo struct {
	templates map[string]*model.Template
	nextID    int
	// updateCalls counts UpdateTemplate invocations so tests can assert
	// that rejected requests never reach the store.
	updateCalls int
	// tagReplacements records the tag set of every update that carried
	// one, so tests can assert totality (delete-then-create) and absence.
	tagReplacements [][]string
}

func newMockTemplateRepo() *mockTemplateRepo {
	return &mockTemplateRepo{templates: make(map[string]*model.Template)}
}

func (m *mockTemplateRepo) CreateTemplate(_ context.Context, template *model.Template) error {
	m.nextID++
	template.ID = fmt.Sprintf("tmpl-%d", m.nextID)
	now := time.Now()
	template.CreatedAt = now
	template.UpdatedAt = now
	stored := *template
	stored.Tags = append([]string{}, template.Tags...)
	m.templates[template.ID] = &stored
	return nil
}

func (m *mockTemplateRepo) GetTemplateByID(_ context.Context, id string) (*model.Template, error) {
	template, ok := m.templates[id]
	if !ok {
		return nil, apperror.NotFound("template", id)
	}
	result := *template
	result.Tags = append([]string{}, template.Tags...)
	return &result, nil
}

func (m *mockTemplateRepo) UpdateTemplate(_ context.Context, template *model.Template, tags *[]string) error {
	stored, ok := m.templates[template.ID]
	if !ok {
		return apperror.NotFound("template", template.ID)
	}
	m.updateCalls++
	template.UpdatedAt = time.Now()
	updated := *template
	if tags != nil {
		m.tagReplacements = append(m.tagReplacements, append([]string{}, (*tags)...))
		updated.Tags = append([]string{}, (*tags)...)
	} else {
		updated.Tags = stored.Tags // nil tags leave the stored set alone
	}
	m.templates[template.ID] = &updated
	return nil
}

func (m *mockTemplateRepo) DeleteTemplate(_ context.Context, id string) error {
	if _, ok := m.templates[id]; !ok {
		return apperror.NotFound("template", id)
	}
	delete(m.templates, id)
	return nil
}

func (m *mockTemplateRepo) ListTemplatesByUser(_ context.Context, userID string) ([]model.TemplateSummary, error) {
	summaries := []model.TemplateSummary{}
	for _, t := range m.templates {
		if t.UserID == userID {
			summaries = append(summaries, model.TemplateSummary{ID: t.ID, Title: t.Title})
		}
	}
	return summaries, nil
}

// --- posts ---

type mockPostRepo struct {
	posts  map[string]*model.Post
	nextID int
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{posts: make(map[string]*model.Post)}
}

func (m *mockPostRepo) CreatePost(_ context.Context, post *model.Post) error {
	m.nextID++
	post.ID = fmt.Sprintf("post-%d", m.nextID)
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *mockPostRepo) GetPostByID(_ context.Context, id string) (*model.Post, error) {
	post, ok := m.posts[id]
	if !ok {
		return nil, apperror.NotFound("post", id)
	}
	result := *post
	return &result, nil
}

func (m *mockPostRepo) GetVisiblePostByID(_ context.Context, id string) (*model.Post, error) {
	post, ok := m.posts[id]
	if !ok || post.Hidden {
		return nil, apperror.NotFound("post", id)
	}
	result := *post
	return &result, nil
}

func (m *mockPostRepo) HidePost(_ context.Context, id string) error {
	post, ok := m.posts[id]
	if !ok {
		return apperror.NotFound("post", id)
	}
	post.Hidden = true
	return nil
}

func (m *mockPostRepo) ListReportedPosts(_ context.Context) ([]model.ReportedPost, error) {
	// Driven directly by the tests that use it; the real join lives in
	// the sqlite implementation.
	return []model.ReportedPost{}, nil
}

// --- comments ---

type mockCommentRepo struct {
	comments map[string]*model.Comment
	nextID   int
}

func newMockCommentRepo() *mockCommentRepo {
	return &mockCommentRepo{comments: make(map[string]*model.Comment)}
}

func (m *mockCommentRepo) CreateComment(_ context.Context, comment *model.Comment) error {
	m.nextID++
	comment.ID = fmt.Sprintf("comment-%d", m.nextID)
	comment.CreatedAt = time.Now()
	stored := *comment
	m.comments[comment.ID] = &stored
	return nil
}

func (m *mockCommentRepo) GetCommentByID(_ context.Context, id string) (*model.Comment, error) {
	comment, ok := m.comments[id]
	if !ok {
		return nil, apperror.NotFound("comment", id)
	}
	result := *comment
	return &result, nil
}

func (m *mockCommentRepo) ListVisibleComments(_ context.Context, postID string) ([]model.Comment, error) {
	comments := []model.Comment{}
	for _, c := range m.comments {
		if c.PostID == postID && !c.Hidden {
			comments = append(comments, *c)
		}
	}
	return comments, nil
}

func (m *mockCommentRepo) HideComment(_ context.Context, id string) error {
	comment, ok := m.comments[id]
	if !ok {
		return apperror.NotFound("comment", id)
	}
	comment.Hidden = true
	return nil
}

func (m *mockCommentRepo) ListReportedComments(_ context.Context) ([]model.ReportedComment, error) {
	return []model.ReportedComment{}, nil
}

// --- reports ---

type mockReportRepo struct {
	reports []model.Report
	nextID  int
}

func newMockReportRepo() *mockReportRepo {
	return &mockReportRepo{}
}

func (m *mockReportRepo) CreateReport(_ context.Context, report *model.Report) error {
	m.nextID++
	report.ID = fmt.Sprintf("report-%d", m.nextID)
	report.CreatedAt = time.Now()
	m.reports = append(m.reports, *report)
	return nil
}

// --- users ---

type mockUserRepo struct {
	users  map[string]*model.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperror.Conflict("user", user.Email)
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *user
	return &result, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

// addTemplate seeds a template owned by ownerID straight into the mock.
func (m *mockTemplateRepo) addTemplate(t *testing.T, ownerID, title string, tags []string) *model.Template {
	t.Helper()
	template := &model.Template{
		UserID:      ownerID,
		Title:       title,
		Description: "desc",
		Code:        "code",
		Tags:        tags,
	}
	if err := m.CreateTemplate(context.Background(), template); err != nil {
		t.Fatalf("seeding template: %v", err)
	}
	return template
}
