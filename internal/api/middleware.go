package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/tmarwah/shopline-api/pkg/auth"
)

type contextKey string

const identityKey contextKey = "identity"

// authMiddleware verifies the bearer token and attaches the caller's
// identity to the request. Handlers read it with identityFrom and pass
// it explicitly into the services that need it.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")

		if header == "" {
			s.respondWithError(w, http.StatusUnauthorized, "Missing Authorization header")
			return
		}

		token, found := strings.CutPrefix(header, "Bearer ")

		if !found {
			s.respondWithError(w, http.StatusUnauthorized, "Authorization header must be a bearer token")
			return
		}

		identity, err := s.tokens.VerifyToken(token)

		if err != nil {
			s.logger.Warn("Rejected invalid token", "error", err, "path", r.URL.Path)
			s.respondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// identityFrom extracts the verified identity attached by authMiddleware
func identityFrom(r *http.Request) (*auth.Identity, bool) {
	identity, ok := r.Context().Value(identityKey).(*auth.Identity)
	return identity, ok
}
