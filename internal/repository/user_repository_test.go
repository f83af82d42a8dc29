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

	"github.com/ignatzorin/activity-favorites/internal/models"
	"github.com/ignatzorin/activity-favorites/internal/repository/common"
)

func newUserRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	repo.now = func() time.Time { return fixedNow }
	return repo, mock
}

func TestUserRepository_Create_NormalizesEmail(t *testing.T) {
	repo, mock := newUserRepo(t)
	user := &models.User{Email: "  Anna@Example.COM ", FirstName: "Anna", LastName: "K", PasswordHash: "hash"}

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(sqlmock.AnyArg(), "anna@example.com", "Anna", "K", "hash", models.RoleUser, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), user))
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, fixedNow, user.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	repo, mock := newUserRepo(t)
	mock.ExpectExec(`INSERT INTO users`).WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.User{Email: "a@b.c"})
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	repo, mock := newUserRepo(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).WithArgs("a@b.c").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "first_name", "last_name", "password_hash", "role", "created_at", "updated_at"}).
			AddRow(id.String(), "a@b.c", "A", "B", "hash", "user", fixedNow, fixedNow))

	user, err := repo.GetByEmail(context.Background(), "A@B.C")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "hash", user.PasswordHash)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newUserRepo(t)
	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUserRepository_Count(t *testing.T) {
	repo, mock := newUserRepo(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}
