package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/landing-auth/internal/apperror"
	"github.com/sakif/landing-auth/internal/auth"
	"github.com/sakif/landing-auth/internal/metrics"
	"github.com/sakif/landing-auth/internal/model"
)

// maxBodyBytes caps auth request bodies. Credentials are tiny.
const maxBodyBytes = 64 << 10

// CredentialService is what AuthHandler needs from the service layer.
// *service.CredentialService satisfies it.
type CredentialService interface {
	Signup(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, error)
	Logout(ctx context.Context) error
}

// AuthHandler exposes signup, login and logout as JSON endpoints and
// manages the session cookies on the response.
//
//   - HandleSignup → POST /api/auth/signup
//   - HandleLogin  → POST /api/auth/login
//   - HandleLogout → POST /api/auth/logout
//
// tokens is nil unless a session secret is configured; without it only the
// login indicator cookie is set.
type AuthHandler struct {
	credentials   CredentialService
	tokens        *auth.TokenService
	secureCookies bool
	logger        *slog.Logger
}

func NewAuthHandler(credentials CredentialService, tokens *auth.TokenService, secureCookies bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		credentials:   credentials,
		tokens:        tokens,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignup registers a user.
//
// HTTP: POST /api/auth/signup  {"name":"...","email":"...","password":"..."}
//
// 201 with the new user (password omitted) and the login cookie on success.
// Missing JSON fields are treated as empty strings and fail validation.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeBody(w, r, &req) {
		metrics.RecordAuthAttempt("signup", "invalid_request")
		return
	}

	user, err := h.credentials.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.fail(w, "signup", err)
		return
	}

	if !h.startSession(w, user) {
		return
	}

	metrics.RecordAuthAttempt("signup", "ok")
	writeJSON(w, http.StatusCreated, user)
}

// HandleLogin authenticates a user.
//
// HTTP: POST /api/auth/login  {"email":"...","password":"..."}
//
// 200 with the user and the login cookie on success; 401 invalid_credentials
// for an unknown email or a wrong password alike.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		metrics.RecordAuthAttempt("login", "invalid_request")
		return
	}

	user, err := h.credentials.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, "login", err)
		return
	}

	if !h.startSession(w, user) {
		return
	}

	metrics.RecordAuthAttempt("login", "ok")
	writeJSON(w, http.StatusOK, user)
}

// HandleLogout clears the session cookies.
//
// HTTP: POST /api/auth/logout → 200 {"success":true}
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.credentials.Logout(r.Context()); err != nil {
		h.fail(w, "logout", err)
		return
	}

	auth.ClearLoginIndicator(w)
	auth.ClearSessionToken(w, h.secureCookies)

	metrics.RecordAuthAttempt("logout", "ok")
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// startSession sets the login indicator and, in hardened mode, the signed
// session token. It writes the error response itself and returns false if
// the token cannot be issued.
func (h *AuthHandler) startSession(w http.ResponseWriter, user *model.User) bool {
	if h.tokens != nil {
		token, err := h.tokens.Generate(user.ID)
		if err != nil {
			h.logger.Error("issuing session token failed",
				slog.String("userID", user.ID),
				slog.String("error", err.Error()),
			)
			writeError(w, err)
			return false
		}
		auth.SetSessionToken(w, token, h.secureCookies)
	}

	auth.SetLoginIndicator(w)
	return true
}

func (h *AuthHandler) fail(w http.ResponseWriter, operation string, err error) {
	code := apperror.CodeOf(err)
	if code == "" {
		code = "internal_error"
	}
	metrics.RecordAuthAttempt(operation, code)

	if statusFor(code) >= http.StatusInternalServerError {
		h.logger.Error(operation+" failed",
			slog.String("code", code),
			slog.String("error", err.Error()),
		)
	}

	writeError(w, err)
}

// decodeBody parses a JSON object from the request body into dst. Anything
// else (malformed JSON, null, an array, a scalar) writes 400 invalid_request
// and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeInvalidRequest(w)
		return false
	}
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		writeInvalidRequest(w)
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		writeInvalidRequest(w)
		return false
	}
	return true
}
