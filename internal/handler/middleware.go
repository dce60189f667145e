package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/truefeedback/true-feedback-api/internal/auth"
)

type contextKey struct{}

var sessionClaimsKey = contextKey{}

// requireSession authenticates the request with a bearer session token and
// stores the validated claims in the request context.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			respondError(w, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		claims, err := h.jwtAuth.ValidateToken(parts[1])
		if err != nil {
			respondError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		ctx := context.WithValue(r.Context(), sessionClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionClaims returns the claims stored by requireSession.
func sessionClaims(ctx context.Context) (*auth.SessionClaims, bool) {
	claims, ok := ctx.Value(sessionClaimsKey).(*auth.SessionClaims)
	return claims, ok
}
