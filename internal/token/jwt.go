package token

import (
	"fmt"
	"time"

	"github.com/Unknownaod/opslinkOS/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTTL is how long an issued token stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// Claims carries the public identity fields embedded in a token.
type Claims struct {
	jwt.RegisteredClaims
	UID      uuid.UUID `json:"uid"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// Manager signs and verifies identity tokens with a symmetric HMAC secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a token manager. A zero ttl falls back to DefaultTTL.
func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given user. The expiration is embedded in the
// token; verification needs no server-side state.
func (m *Manager) Issue(user *models.User) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UID:      user.ID,
		Username: user.Username,
		Email:    user.Email,
	})

	signed, err := t.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a token string and returns its claims. Tokens signed with
// a non-HMAC method, a different secret, or past their expiry are rejected.
func (m *Manager) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !t.Valid {
		return nil, fmt.Errorf("token is invalid")
	}
	return claims, nil
}
