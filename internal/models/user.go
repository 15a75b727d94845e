package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Not serialized
	CreatedAt    time.Time `json:"created_at"`
}
