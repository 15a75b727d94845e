package models

import (
	"context"
	"errors"
)

// Storage signals. The service layer matches on these instead of driver
// error shapes, so a store implementation must translate its own failures.
var (
	// ErrNotFound indicates no user matched the lookup.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateUsername indicates an insert violated the username
	// uniqueness constraint.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrDuplicateEmail indicates an insert violated the email uniqueness
	// constraint.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrDuplicate indicates a uniqueness violation where the store could
	// not tell which field collided.
	ErrDuplicate = errors.New("username or email already exists")
)

// UserStore is the persistence contract for user records. Uniqueness of
// username and email is enforced atomically by the store at insert time;
// Create reports violations through the duplicate sentinels above.
type UserStore interface {
	// Create persists a new user, assigning ID and CreatedAt.
	Create(ctx context.Context, user *User) error

	// FindByUsernameOrEmail returns a user whose username equals username
	// or whose email equals email, in a single combined lookup.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*User, error)

	// FindByIdentifier returns a user whose username equals identifier
	// exactly or whose email equals the lowercased identifier.
	FindByIdentifier(ctx context.Context, identifier string) (*User, error)
}
