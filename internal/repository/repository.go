package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Unknownaod/opslinkOS/internal/models"
)

var _ models.UserStore = (*Repository)(nil)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the users table and its unique indexes if they do not
// exist yet. Uniqueness of username and email lives in the schema so that
// concurrent duplicate inserts are resolved atomically by the database.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username TEXT NOT NULL CONSTRAINT users_username_key UNIQUE,
			email TEXT NOT NULL CONSTRAINT users_email_key UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// Create persists a new user, assigning its ID and creation time. A
// unique-constraint violation is translated into the models duplicate
// sentinels so callers never see driver error shapes.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New()
	query := `
		INSERT INTO users (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, user.ID, user.Username, user.Email, user.PasswordHash).
		Scan(&user.CreatedAt)
	if err != nil {
		if dup := duplicateError(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByUsernameOrEmail retrieves a user matching either unique field in a
// single query.
func (r *Repository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE username = $1 OR email = $2`
	return r.findOne(ctx, query, username, email)
}

// FindByIdentifier retrieves a user whose username matches exactly or whose
// email matches the lowercased identifier.
func (r *Repository) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE username = $1 OR email = $2`
	return r.findOne(ctx, query, identifier, strings.ToLower(identifier))
}

func (r *Repository) findOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// duplicateError maps a postgres unique violation (23505) onto the typed
// duplicate sentinels, using the constraint name to identify the field.
func duplicateError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return nil
	}
	switch pqErr.Constraint {
	case "users_username_key":
		return models.ErrDuplicateUsername
	case "users_email_key":
		return models.ErrDuplicateEmail
	default:
		return models.ErrDuplicate
	}
}
