package handler

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/xid"

	"github.com/sakif/scriptorium/internal/apperror"
	"github.com/sakif/scriptorium/internal/auth"
	"github.com/sakif/scriptorium/internal/service"
	"github.com/sakif/scriptorium/internal/validation"
)

// maxSignupFormSize bounds the multipart signup body, avatar included.
const maxSignupFormSize = 10 << 20 // 10 MB

// AuthHandler serves signup, login, and the current-user lookup.
//
// Signup arrives as a multipart form because it can carry an avatar
// image. The handler stores the file and passes the resulting URL to
// the service; the service never touches multipart data.
type AuthHandler struct {
	users     *service.AuthService
	validate  *validation.Validator
	uploadDir string
	logger    *slog.Logger
}

func NewAuthHandler(users *service.AuthService, validate *validation.Validator, uploadDir string, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:     users,
		validate:  validate,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

type signupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"max=30"`
}

// HandleSignup registers a new account.
//
// HTTP: POST /api/auth/signup
// Body: multipart/form-data with fields email, password, firstName,
// lastName, optional phone, and an optional "avatar" image part.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxSignupFormSize); err != nil {
		writeError(w, apperror.ValidationFailed("body", "request must be a multipart form"))
		return
	}

	req := signupRequest{
		Email:     r.FormValue("email"),
		Password:  r.FormValue("password"),
		FirstName: r.FormValue("firstName"),
		LastName:  r.FormValue("lastName"),
		Phone:     r.FormValue("phone"),
	}
	if err := h.validate.Validate(req); err != nil {
		writeError(w, err)
		return
	}

	avatarURL, avatarPath, err := h.storeAvatar(r)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Signup(r.Context(), service.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		AvatarURL: avatarURL,
	})
	if err != nil {
		// The account was not created, so the avatar has no owner.
		if avatarPath != "" {
			if rmErr := os.Remove(avatarPath); rmErr != nil {
				h.logger.Warn("failed to remove avatar after signup failure",
					slog.String("path", avatarPath),
					slog.String("error", rmErr.Error()),
				)
			}
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// storeAvatar saves the optional avatar part under the upload
// directory with a fresh xid filename and returns its public URL plus
// the on-disk path, so a failed signup can remove the file again.
// Returns "", "" when no avatar was sent.
func (h *AuthHandler) storeAvatar(r *http.Request) (string, string, error) {
	file, header, err := r.FormFile("avatar")
	if err == http.ErrMissingFile {
		return "", "", nil
	}
	if err != nil {
		return "", "", apperror.ValidationFailed("avatar", "avatar upload is malformed")
	}
	defer file.Close()

	// The stored name is never derived from the client's filename;
	// only the extension survives, and only from a known-safe set.
	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return "", "", apperror.ValidationFailed("avatar", "avatar must be a jpg, png, gif, or webp image")
	}

	name := xid.New().String() + ext
	path := filepath.Join(h.uploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		h.logger.Error("failed to create avatar file",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return "", "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		h.logger.Error("failed to store avatar", slog.String("error", err.Error()))
		os.Remove(path)
		return "", "", err
	}

	return "/uploads/" + name, path, nil
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin verifies an email/password pair and returns an access
// token plus the user record.
//
// HTTP: POST /api/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validate.Validate(req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleMe returns the authenticated caller's own record, so the
// frontend can restore its session state on load.
//
// HTTP: GET /api/me
// Auth: required
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, errMissingIdentity())
		return
	}

	user, err := h.users.GetUserByID(r.Context(), caller.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
