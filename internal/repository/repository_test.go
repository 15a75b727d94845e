package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Unknownaod/opslinkOS/internal/models"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func userColumns() []string {
	return []string{"id", "username", "email", "password_hash", "created_at"}
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)

	created := time.Now()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), "alice", "alice@example.com", "hashed").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	user := &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hashed"}
	err := repo.Create(context.Background(), user)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, created, user.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_DuplicateUsername(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

	err := repo.Create(context.Background(), &models.User{Username: "alice"})
	assert.ErrorIs(t, err, models.ErrDuplicateUsername)
}

func TestRepository_Create_DuplicateEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	err := repo.Create(context.Background(), &models.User{Username: "alice"})
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)
}

func TestRepository_Create_DuplicateUnknownConstraint(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.User{Username: "alice"})
	assert.ErrorIs(t, err, models.ErrDuplicate)
}

func TestRepository_FindByUsernameOrEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	mock.ExpectQuery("SELECT id, username, email, password_hash, created_at").
		WithArgs("alice", "alice@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(id.String(), "alice", "alice@example.com", "hashed", time.Now()))

	user, err := repo.FindByUsernameOrEmail(context.Background(), "alice", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "alice", user.Username)
}

func TestRepository_FindByUsernameOrEmail_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT id, username, email, password_hash, created_at").
		WillReturnRows(sqlmock.NewRows(userColumns()))

	_, err := repo.FindByUsernameOrEmail(context.Background(), "ghost", "ghost@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRepository_FindByIdentifier_LowercasesEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT id, username, email, password_hash, created_at").
		WithArgs("Alice@Example.com", "alice@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(uuid.NewString(), "alice", "alice@example.com", "hashed", time.Now()))

	user, err := repo.FindByIdentifier(context.Background(), "Alice@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_EnsureSchema(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
