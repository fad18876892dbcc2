package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/scriptorium/internal/apperror"
	"github.com/sakif/scriptorium/internal/auth"
	"github.com/sakif/scriptorium/internal/model"
	"github.com/sakif/scriptorium/internal/repository"
)

// SignupInput carries the validated signup form fields. AvatarURL is
// set by the handler after it stores the uploaded file; the service
// never touches multipart data.
type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	AvatarURL string
}

// AuthResult bundles the user record with the issued token so the
// handler can respond in one step.
type AuthResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// AuthService handles signup, login, and user lookups for the
// authenticated routes.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Signup registers a new account with the USER role. The email's
// uniqueness is enforced by the store; a duplicate surfaces as a
// conflict rather than a pre-check race.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		// Over-long passwords are the only way Hash fails on user input.
		return nil, apperror.ValidationFailed("password", "password must be 72 characters or fewer")
	}

	user := &model.User{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        strings.TrimSpace(in.Phone),
		AvatarURL:    in.AvatarURL,
		Role:         model.RoleUser,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Login verifies an email/password pair and issues an access token.
//
// Unknown email and wrong password produce the same InvalidCredential
// error — the response never reveals which half was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperror.InvalidCredential("invalid email or password")
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.InvalidCredential("invalid email or password")
	}

	token, err := s.tokens.Generate(auth.Identity{UserID: user.ID, Role: user.Role})
	if err != nil {
		return nil, fmt.Errorf("generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &AuthResult{
		User:  user,
		Token: token,
	}, nil
}

// GetUserByID returns the user for the given internal ID. Backs the
// /api/me route after the middleware validates the token.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	return s.users.GetUserByID(ctx, id)
}
