package server_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/landing-auth/internal/auth"
	"github.com/sakif/landing-auth/internal/server"
)

func newTestServer(t *testing.T, cfg server.Config) (http.Handler, string) {
	t.Helper()
	if cfg.UserTablePath == "" {
		cfg.UserTablePath = filepath.Join(t.TempDir(), "db", "user.csv")
	}
	srv, err := server.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return srv.Handler(), cfg.UserTablePath
}

func do(h http.Handler, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func cookiesFrom(rr *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range rr.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

// ============================================================
// STARTUP
// ============================================================

func TestNew_CreatesUserTable(t *testing.T) {
	_, path := newTestServer(t, server.Config{})

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,name,email,password,created_at,updated_at\n", string(content))
}

func TestNew_Errors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("short session secret", func(t *testing.T) {
		_, err := server.New(server.Config{
			UserTablePath: filepath.Join(t.TempDir(), "user.csv"),
			SessionSecret: "short",
		}, logger)
		assert.Error(t, err)
	})

	t.Run("bad rate limit", func(t *testing.T) {
		_, err := server.New(server.Config{
			UserTablePath: filepath.Join(t.TempDir(), "user.csv"),
			RateLimit:     "lots",
		}, logger)
		assert.Error(t, err)
	})

	t.Run("unwritable table path", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, nil, 0o644))

		_, err := server.New(server.Config{UserTablePath: filepath.Join(blocker, "user.csv")}, logger)
		assert.Error(t, err)
	})
}

// ============================================================
// GATE
// ============================================================

func TestGate_PublicAndProtectedRoutes(t *testing.T) {
	h, _ := newTestServer(t, server.Config{})

	tests := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{"landing", "/", http.StatusOK},
		{"static asset", "/static/app.js", http.StatusOK},
		{"robots", "/robots.txt", http.StatusOK},
		{"health", "/healthz", http.StatusOK},
		{"metrics", "/metrics", http.StatusOK},
		{"home without cookie", "/home", http.StatusTemporaryRedirect},
		{"unknown path without cookie", "/settings", http.StatusTemporaryRedirect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(h, http.MethodGet, tt.target, "")
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestGate_RedirectKeepsQuery(t *testing.T) {
	h, _ := newTestServer(t, server.Config{})

	rr := do(h, http.MethodGet, "/home?tab=profile", "")

	assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	assert.Equal(t, "/?tab=profile", rr.Header().Get("Location"))
}

func TestGate_WrongIndicatorValue(t *testing.T) {
	h, _ := newTestServer(t, server.Config{})

	rr := do(h, http.MethodGet, "/home", "", &http.Cookie{Name: auth.LoginCookieName, Value: "yes"})

	assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
}

// ============================================================
// END TO END
// ============================================================

func TestFlow_SignupHomeLogoutLogin(t *testing.T) {
	h, path := newTestServer(t, server.Config{})

	signup := do(h, http.MethodPost, "/api/auth/signup",
		`{"name":"Alice","email":"  Alice@Example.COM ","password":"pw1"}`)
	require.Equal(t, http.StatusCreated, signup.Code, signup.Body.String())
	assert.NotContains(t, signup.Body.String(), "pw1")

	login := cookiesFrom(signup)[auth.LoginCookieName]
	require.NotNil(t, login)
	assert.Equal(t, "true", login.Value)

	home := do(h, http.MethodGet, "/home", "", login)
	assert.Equal(t, http.StatusOK, home.Code)
	assert.Contains(t, home.Body.String(), `data-page="home"`)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), ",Alice,alice@example.com,pw1,")

	dup := do(h, http.MethodPost, "/api/auth/signup",
		`{"name":"Bob","email":"alice@example.com","password":"x"}`)
	assert.Equal(t, http.StatusConflict, dup.Code)

	logout := do(h, http.MethodPost, "/api/auth/logout", "", login)
	require.Equal(t, http.StatusOK, logout.Code)
	assert.JSONEq(t, `{"success":true}`, logout.Body.String())
	cleared := cookiesFrom(logout)[auth.LoginCookieName]
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)

	bad := do(h, http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, bad.Code)

	ok := do(h, http.MethodPost, "/api/auth/login", `{"email":"ALICE@example.com","password":"pw1"}`)
	require.Equal(t, http.StatusOK, ok.Code)
	assert.NotNil(t, cookiesFrom(ok)[auth.LoginCookieName])
}

func TestFlow_SignedSessions(t *testing.T) {
	h, _ := newTestServer(t, server.Config{SessionSecret: "0123456789abcdef0123456789abcdef"})

	signup := do(h, http.MethodPost, "/api/auth/signup",
		`{"name":"Alice","email":"alice@example.com","password":"pw1"}`)
	require.Equal(t, http.StatusCreated, signup.Code, signup.Body.String())

	cookies := cookiesFrom(signup)
	login := cookies[auth.LoginCookieName]
	session := cookies[auth.SessionCookieName]
	require.NotNil(t, login)
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	t.Run("indicator alone is not enough", func(t *testing.T) {
		rr := do(h, http.MethodGet, "/home", "", login)
		assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	})

	t.Run("forged token is rejected", func(t *testing.T) {
		forged := &http.Cookie{Name: auth.SessionCookieName, Value: session.Value + "x"}
		rr := do(h, http.MethodGet, "/home", "", login, forged)
		assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	})

	t.Run("indicator and token pass", func(t *testing.T) {
		rr := do(h, http.MethodGet, "/home", "", login, session)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

// ============================================================
// OPERATIONAL
// ============================================================

func TestHealth_CorruptTable(t *testing.T) {
	h, path := newTestServer(t, server.Config{})
	require.NoError(t, os.WriteFile(path, []byte("not,the,header\n"), 0o644))

	rr := do(h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	signup := do(h, http.MethodPost, "/api/auth/signup",
		`{"name":"Alice","email":"alice@example.com","password":"pw1"}`)
	assert.Equal(t, http.StatusInternalServerError, signup.Code)
	assert.Contains(t, signup.Body.String(), "invalid_header")
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestServer(t, server.Config{})

	rr := do(h, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "user_table_rows")
}

func TestSecurityHeaders(t *testing.T) {
	h, _ := newTestServer(t, server.Config{})

	rr := do(h, http.MethodGet, "/", "")

	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rr.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
}
