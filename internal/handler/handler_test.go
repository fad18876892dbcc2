package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/scriptorium/internal/auth"
	"github.com/sakif/scriptorium/internal/handler"
	"github.com/sakif/scriptorium/internal/model"
	"github.com/sakif/scriptorium/internal/repository/sqlite"
	"github.com/sakif/scriptorium/internal/service"
	"github.com/sakif/scriptorium/internal/validation"
)

// testEnv runs the full stack — router, middleware, handlers, services,
// in-memory SQLite — so the handler tests exercise the same paths a real
// request takes.
type testEnv struct {
	db        *sqlite.DB
	tokens    *auth.TokenService
	router    http.Handler
	uploadDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("creating test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("handler-test-secret-key")
	if err != nil {
		t.Fatalf("creating token service: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	validate := validation.New()
	passwords := auth.NewPasswordServiceForTest(4)

	authService := service.NewAuthService(db, tokens, passwords, logger)
	templateService := service.NewTemplateService(db, logger)
	postService := service.NewPostService(db, db, logger)
	moderationService := service.NewModerationService(db, db, db, logger)
	userService := service.NewUserService(db, db, logger)

	uploadDir := t.TempDir()
	authHandler := handler.NewAuthHandler(authService, validate, uploadDir, logger)
	templateHandler := handler.NewTemplateHandler(templateService, logger)
	postHandler := handler.NewPostHandler(postService, logger)
	moderationHandler := handler.NewModerationHandler(moderationService, validate, logger)
	userHandler := handler.NewUserHandler(userService, logger)

	// Same route table as internal/server, minus the global middleware
	// that has no bearing on handler behavior.
	r := chi.NewRouter()
	r.MethodNotAllowed(handler.MethodNotAllowed)
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", authHandler.HandleSignup)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Get("/resources/{id}", templateHandler.HandleGet)
		r.Get("/visitors/fetch-by-id", postHandler.HandleFetchByID)
		r.Get("/visitors/comments-sorted", postHandler.HandleCommentsSorted)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/me", authHandler.HandleMe)
			r.Post("/resources", templateHandler.HandleCreate)
			r.Put("/resources/{id}", templateHandler.HandleUpdate)
			r.Delete("/resources/{id}", templateHandler.HandleDelete)
			r.Post("/posts/{id}/comments", postHandler.HandleAddComment)
			r.Post("/reports", moderationHandler.HandleReport)
			r.Get("/users/{id}", userHandler.HandleDashboard)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin(tokens))
			r.Get("/moderation/reported-content", moderationHandler.HandleListReported)
			r.Put("/moderation/hide-content", moderationHandler.HandleHideContent)
		})
	})

	return &testEnv{db: db, tokens: tokens, router: r, uploadDir: uploadDir}
}

// do sends a JSON request through the router. token may be "" for
// anonymous requests; body may be nil.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// newUser seeds a user straight into the store and returns it with a
// valid token.
func (e *testEnv) newUser(t *testing.T, email, role string) (*model.User, string) {
	t.Helper()

	user := &model.User{
		Email:        email,
		PasswordHash: "$2a$04$fakehashfortestingonly",
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
	}
	if err := e.db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seeding user: %v", err)
	}

	token, err := e.tokens.Generate(auth.Identity{UserID: user.ID, Role: user.Role})
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}

	return user, token
}

// newTemplate seeds a template owned by ownerID.
func (e *testEnv) newTemplate(t *testing.T, ownerID string) *model.Template {
	t.Helper()

	template := &model.Template{
		UserID:      ownerID,
		Title:       "Original Title",
		Description: "original description",
		Code:        "original code",
		Tags:        []string{"go", "web"},
	}
	if err := e.db.CreateTemplate(context.Background(), template); err != nil {
		t.Fatalf("seeding template: %v", err)
	}
	return template
}

// newPost seeds a blog post.
func (e *testEnv) newPost(t *testing.T, authorID, title string) *model.Post {
	t.Helper()

	post := &model.Post{
		UserID:  authorID,
		Title:   title,
		Content: "post body",
	}
	if err := e.db.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("seeding post: %v", err)
	}
	return post
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	return v
}
