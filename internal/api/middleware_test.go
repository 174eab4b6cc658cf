package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmarwah/shopline-api/pkg/auth"
	"github.com/tmarwah/shopline-api/pkg/logger"
)

func newTestServer() *Server {
	return &Server{
		logger: logger.NewLogger("error"),
		tokens: auth.NewTokenManager("test-secret", time.Hour),
	}
}

func TestAuthMiddlewarePassesIdentityThrough(t *testing.T) {
	s := newTestServer()

	token, err := s.tokens.GenerateToken(auth.Identity{
		UserID:   "usr-1",
		Username: "jane",
		Email:    "jane@example.com",
	})
	require.NoError(t, err)

	var seen *auth.Identity

	handler := s.authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = identityFrom(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "usr-1", seen.UserID)
	assert.Equal(t, "jane", seen.Username)
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	s := newTestServer()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a valid token")
	})

	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc123",
		"garbage token":  "Bearer not-a-jwt",
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)

			if header != "" {
				req.Header.Set("Authorization", header)
			}

			rec := httptest.NewRecorder()
			s.authMiddleware(next).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"success":false`)
		})
	}
}

func TestAuthMiddlewareRejectsForeignSignature(t *testing.T) {
	s := newTestServer()

	other := auth.NewTokenManager("different-secret", time.Hour)
	token, err := other.GenerateToken(auth.Identity{UserID: "usr-1", Username: "jane"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	s.authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a foreign token")
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
