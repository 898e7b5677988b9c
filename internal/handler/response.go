package handler

// RESPONSE HELPERS:
// Every JSON response goes through writeJSON, and every error through
// writeError, so all endpoints share one error shape:
//
//	{"error": "duplicate_email", "message": "an account with email ... already exists"}
//
// "error" is the symbolic code the frontend branches on; "message" is for
// humans and may change.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/landing-auth/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`             // Machine-readable code, e.g. "invalid_credentials"
	Message string `json:"message,omitempty"` // Human-readable description
	Field   string `json:"field,omitempty"`   // Input field at fault, when known
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must be set before the body is written.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// statusFor maps a symbolic error code to an HTTP status.
//
//	duplicate_email     → 409
//	invalid_credentials → 401
//	io_error            → 500
//	invalid_header      → 500 (the table is corrupt, not the request)
//	anything else       → 400
func statusFor(code string) int {
	switch code {
	case apperror.CodeDuplicateEmail:
		return http.StatusConflict
	case apperror.CodeInvalidCredentials:
		return http.StatusUnauthorized
	case apperror.CodeIO, apperror.CodeInvalidHeader:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// writeError maps a domain error to the appropriate HTTP status code and sends it.
//
// The service layer returns *apperror.AppError values, possibly wrapped with
// fmt.Errorf("...: %w", err). errors.As walks that chain to find the code.
// Server-side failures never echo the underlying cause: a filesystem error
// message may contain paths.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := statusFor(appErr.Code)

		resp := ErrorResponse{
			Error:   appErr.Code,
			Message: appErr.Message,
			Field:   appErr.Field,
		}
		if status >= http.StatusInternalServerError {
			resp.Message = "the user store is unavailable"
		}

		writeJSON(w, status, resp)
		return
	}

	// Unknown error: generic 500.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// writeInvalidRequest reports a body that could not be decoded at all.
func writeInvalidRequest(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "invalid_request",
		Message: "request body must be a JSON object",
	})
}
