// Package server is the composition root: it wires the database,
// services, handlers, and middleware together and owns the HTTP
// listener's lifecycle.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/scriptorium/internal/auth"
	"github.com/sakif/scriptorium/internal/handler"
	"github.com/sakif/scriptorium/internal/middleware"
	sqliteRepo "github.com/sakif/scriptorium/internal/repository/sqlite"
	"github.com/sakif/scriptorium/internal/service"
	"github.com/sakif/scriptorium/internal/validation"
)

// requestTimeout bounds every request, so a stalled store call cannot
// hold a connection open indefinitely.
const requestTimeout = 15 * time.Second

// Config holds server configuration, loaded from the environment in
// cmd/server.
type Config struct {
	Port       int
	DBPath     string
	JWTSecret  string
	UploadDir  string // avatar uploads, served under /uploads/
	CORSOrigin string // the frontend's origin, e.g. http://localhost:5173
}

// Server owns the router and the database connection. The connection
// is closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain: database → services →
// handlers → routes. Each layer receives only what it needs; handlers
// never see the database, services never see HTTP.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("configuring token service: %w", err)
	}

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Timeout(requestTimeout))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.config.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// A known path with the wrong verb is 405, not 404.
	s.router.MethodNotAllowed(handler.MethodNotAllowed)

	validate := validation.New()
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	templateService := service.NewTemplateService(s.db, s.logger)
	postService := service.NewPostService(s.db, s.db, s.logger)
	moderationService := service.NewModerationService(s.db, s.db, s.db, s.logger)
	userService := service.NewUserService(s.db, s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, validate, s.config.UploadDir, s.logger)
	templateHandler := handler.NewTemplateHandler(templateService, s.logger)
	postHandler := handler.NewPostHandler(postService, s.logger)
	moderationHandler := handler.NewModerationHandler(moderationService, validate, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)

	// Uploaded avatars are public, immutable files.
	fileServer := http.FileServer(http.Dir(s.config.UploadDir))
	s.router.Handle("/uploads/*", http.StripPrefix("/uploads/", fileServer))

	requireAuth := auth.RequireAuth(tokens)
	requireAdmin := auth.RequireAdmin(tokens)

	s.router.Route("/api", func(r chi.Router) {
		// Public routes.
		r.Post("/auth/signup", authHandler.HandleSignup)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Get("/resources/{id}", templateHandler.HandleGet)

		// Visitor reads accept anonymous requests; a valid token, if
		// sent, still lands in the context.
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth(tokens))
			r.Get("/visitors/fetch-by-id", postHandler.HandleFetchByID)
			r.Get("/visitors/comments-sorted", postHandler.HandleCommentsSorted)
		})

		// Authenticated routes.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", authHandler.HandleMe)
			r.Post("/resources", templateHandler.HandleCreate)
			r.Put("/resources/{id}", templateHandler.HandleUpdate)
			r.Delete("/resources/{id}", templateHandler.HandleDelete)
			r.Post("/posts/{id}/comments", postHandler.HandleAddComment)
			r.Post("/reports", moderationHandler.HandleReport)
			r.Get("/users/{id}", userHandler.HandleDashboard)
		})

		// Admin routes.
		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/moderation/reported-content", moderationHandler.HandleListReported)
			r.Put("/moderation/hide-content", moderationHandler.HandleHideContent)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests,
// close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
