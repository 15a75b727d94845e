package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Unknownaod/opslinkOS/internal/token"
)

type contextKey string

const claimsKey contextKey = "claims"

// ClaimsFromContext extracts the verified token claims stored by
// AuthMiddleware.
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*token.Claims)
	return claims, ok
}

// AuthMiddleware verifies the Authorization bearer token and puts its claims
// into the request context. Requests without a valid token get a 401.
func AuthMiddleware(tokens *token.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			raw, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || raw == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CORSMiddleware applies the permissive cross-origin policy used by the
// public auth endpoints.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
