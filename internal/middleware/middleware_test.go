package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Unknownaod/opslinkOS/internal/models"
	"github.com/Unknownaod/opslinkOS/internal/token"
)

func TestAuthMiddleware(t *testing.T) {
	tokens := token.NewManager("test-secret", 0)
	user := &models.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}
	raw, err := tokens.Issue(user)
	require.NoError(t, err)

	var gotClaims *token.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	wrapped := AuthMiddleware(tokens)(next)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "Bearer " + raw, http.StatusOK},
		{"no header", "", http.StatusUnauthorized},
		{"no bearer prefix", raw, http.StatusUnauthorized},
		{"garbage token", "Bearer garbage", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotClaims = nil
			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			wrapped.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				require.NotNil(t, gotClaims)
				assert.Equal(t, user.ID, gotClaims.UID)
				assert.Equal(t, "alice", gotClaims.Username)
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	wrapped := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/auth/login", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}
