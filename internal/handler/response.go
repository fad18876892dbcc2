// Package handler holds the HTTP layer: request decoding, the calls
// into the services, and the translation of domain errors to status
// codes. Handlers never contain business rules.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/scriptorium/internal/apperror"
)

// ErrorResponse is the error shape returned by every API endpoint:
//
//	{"error": "not_found", "message": "template not found with id abc"}
//
// Error is the machine-readable type; Message is for humans.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeJSON sends a JSON response with the given status code. Headers
// and status must go out before the first body byte, so the encode
// failure path can only log.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status and sends the
// standard error shape. This is the only place the apperror taxonomy
// meets status codes:
//
//	ErrValidation        → 400
//	ErrUnauthenticated   → 401 (no credential presented)
//	ErrForbidden         → 403
//	ErrInvalidCredential → 403 (credential presented but bad)
//	ErrNotFound          → 404
//	ErrConflict          → 409
//	anything else        → 500, with a generic message — internal
//	                       details never reach the client
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrUnauthenticated):
			status = http.StatusUnauthorized
			errorType = "unauthenticated"
		case errors.Is(err, apperror.ErrInvalidCredential):
			status = http.StatusForbidden
			errorType = "invalid_credential"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "an internal error occurred",
	})
}

// MethodNotAllowed answers a known path hit with the wrong verb.
// Registered at the router level in internal/server so 405s share the
// standard error shape instead of chi's empty default.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
		Error:   "method_not_allowed",
		Message: "method not allowed for this route",
	})
}

// errMissingIdentity covers the should-never-happen case of a
// protected handler running without an identity in the context.
func errMissingIdentity() error {
	return apperror.Unauthenticated("authentication required")
}

// decodeJSON decodes a request body into dst and reports malformed
// input as a validation error.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.ValidationFailed("body", "request body must be valid JSON")
	}
	return nil
}
