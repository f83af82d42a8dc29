package common

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	rawDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { rawDB.Close() })
	return sqlx.NewDb(rawDB, "postgres"), mock
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	notFound := errors.New("nope")

	mock.ExpectQuery(`SELECT id, name FROM things WHERE id = \$1`).WithArgs("x").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err := GetByID[row](context.Background(), db, "things", "id, name", "x", notFound)
	assert.ErrorIs(t, err, notFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByField_Found(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(`SELECT id, name FROM things WHERE name = \$1`).WithArgs("a").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("1", "a"))

	got, err := GetByField[row](context.Background(), db, "things", "id, name", "name", "a", ErrNotFound)
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	db, mock := newMock(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := WithTransaction(context.Background(), db, func(*sqlx.Tx) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_Commits(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	require.NoError(t, WithTransaction(context.Background(), db, func(*sqlx.Tx) error { return nil }))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("duplicate")))
}
