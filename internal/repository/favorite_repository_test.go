package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/activity-favorites/internal/models"
	"github.com/ignatzorin/activity-favorites/internal/repository/common"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	rawDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { rawDB.Close() })
	return sqlx.NewDb(rawDB, "postgres"), mock
}

func newFavoriteRepo(t *testing.T) (*FavoriteRepository, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	repo := NewFavoriteRepository(db)
	repo.now = func() time.Time { return fixedNow }
	return repo, mock
}

func favoriteRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "activity_id", "sort_order", "created_at", "updated_at"})
}

func TestFavoriteRepository_ListByUser_Sorted(t *testing.T) {
	repo, mock := newFavoriteRepo(t)
	userID := uuid.New()
	a1, a2 := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM favorites WHERE user_id = \$1 ORDER BY sort_order ASC, created_at ASC, id ASC`).
		WithArgs(userID).
		WillReturnRows(favoriteRows().
			AddRow(uuid.NewString(), userID.String(), a1.String(), 0, fixedNow, fixedNow).
			AddRow(uuid.NewString(), userID.String(), a2.String(), 1, fixedNow, fixedNow))

	favorites, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, favorites, 2)
	assert.Equal(t, a1, favorites[0].ActivityID)
	assert.Equal(t, 1, favorites[1].Order)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteRepository_ListByUser_EmptyIsNotNil(t *testing.T) {
	repo, mock := newFavoriteRepo(t)
	mock.ExpectQuery(`FROM favorites WHERE user_id`).WillReturnRows(favoriteRows())

	favorites, err := repo.ListByUser(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, favorites)
	assert.Empty(t, favorites)
}

func TestFavoriteRepository_ListByIDs_UsesArray(t *testing.T) {
	repo, mock := newFavoriteRepo(t)
	userID, id1, id2 := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(`id = ANY\(\$2::uuid\[\]\)`).
		WithArgs(userID, pq.StringArray{id1.String(), id2.String()}).
		WillReturnRows(favoriteRows())

	_, err := repo.ListByIDs(context.Background(), userID, []uuid.UUID{id1, id2})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteRepository_NextOrder(t *testing.T) {
	repo, mock := newFavoriteRepo(t)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT COALESCE\(MAX\(sort_order\) \+ 1, 0\) FROM favorites WHERE user_id = \$1`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

	next, err := repo.NextOrder(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 0, next)
}

func TestFavoriteRepository_Create_Duplicate(t *testing.T) {
	repo, mock := newFavoriteRepo(t)
	fav := &models.Favorite{UserID: uuid.New(), ActivityID: uuid.New(), Order: 2}

	mock.ExpectExec(`INSERT INTO favorites`).
		WithArgs(sqlmock.AnyArg(), fav.UserID, fav.ActivityID, 2, fixedNow).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "favorites_user_activity_key"})

	err := repo.Create(context.Background(), fav)
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
	assert.NotEqual(t, uuid.Nil, fav.ID)
}

func TestFavoriteRepository_Create_OtherError(t *testing.T) {
	repo, mock := newFavoriteRepo(t)
	mock.ExpectExec(`INSERT INTO favorites`).WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), &models.Favorite{UserID: uuid.New(), ActivityID: uuid.New()})
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrAlreadyExists)
}

func TestFavoriteRepository_CreateAtEnd_LocksAndReturnsOrder(t *testing.T) {
	repo, mock := newFavoriteRepo(t)
	fav := &models.Favorite{UserID: uuid.New(), ActivityID: uuid.New()}

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).WithArgs(fav.UserID.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO favorites .+ COALESCE\(MAX\(f.sort_order\) \+ 1, 0\)`).
		WithArgs(sqlmock.AnyArg(), fav.UserID, fav.ActivityID, fixedNow).
		WillReturnRows(sqlmock.NewRows([]string{"sort_order"}).AddRow(3))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateAtEnd(context.Background(), fav))
	assert.Equal(t, 3, fav.Order)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteRepository_CreateAtEnd_DuplicateRollsBack(t *testing.T) {
	repo, mock := newFavoriteRepo(t)
	fav := &models.Favorite{UserID: uuid.New(), ActivityID: uuid.New()}

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO favorites`).WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err := repo.CreateAtEnd(context.Background(), fav)
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteRepository_GetByIDAndUser_NotFound(t *testing.T) {
	repo, mock := newFavoriteRepo(t)
	userID, favID := uuid.New(), uuid.New()

	mock.ExpectQuery(`WHERE id = \$1 AND user_id = \$2`).WithArgs(favID, userID).
		WillReturnRows(favoriteRows())

	_, err := repo.GetByIDAndUser(context.Background(), userID, favID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestFavoriteRepository_UpdateOrder_ScopedByUser(t *testing.T) {
	repo, mock := newFavoriteRepo(t)
	userID, favID, activityID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(`UPDATE favorites SET sort_order = \$3, updated_at = \$4\s+WHERE id = \$1 AND user_id = \$2`).
		WithArgs(favID, userID, 5, fixedNow).
		WillReturnRows(favoriteRows().AddRow(favID.String(), userID.String(), activityID.String(), 5, fixedNow, fixedNow))

	fav, err := repo.UpdateOrder(context.Background(), userID, favID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, fav.Order)

	mock.ExpectQuery(`UPDATE favorites`).WillReturnRows(favoriteRows())
	_, err = repo.UpdateOrder(context.Background(), uuid.New(), favID, 1)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestFavoriteRepository_Reorder_AllMatched(t *testing.T) {
	repo, mock := newFavoriteRepo(t)
	userID := uuid.New()
	items := []models.FavoriteOrderItem{{FavoriteID: uuid.New(), Order: 0}, {FavoriteID: uuid.New(), Order: 1}}

	mock.ExpectBegin()
	for _, item := range items {
		mock.ExpectExec(`UPDATE favorites SET sort_order`).
			WithArgs(item.FavoriteID, userID, item.Order, fixedNow).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.Reorder(context.Background(), userID, items))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteRepository_Reorder_PartialRollsBack(t *testing.T) {
	repo, mock := newFavoriteRepo(t)
	userID := uuid.New()
	items := []models.FavoriteOrderItem{{FavoriteID: uuid.New(), Order: 0}, {FavoriteID: uuid.New(), Order: 1}}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE favorites`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE favorites`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Reorder(context.Background(), userID, items)
	assert.ErrorIs(t, err, common.ErrPartialUpdate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteRepository_Exists(t *testing.T) {
	repo, mock := newFavoriteRepo(t)
	userID, activityID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT EXISTS`).WithArgs(userID, activityID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), userID, activityID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFavoriteRepository_Delete(t *testing.T) {
	repo, mock := newFavoriteRepo(t)
	userID, activityID := uuid.New(), uuid.New()

	mock.ExpectExec(`DELETE FROM favorites WHERE user_id = \$1 AND activity_id = \$2`).
		WithArgs(userID, activityID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM favorites`).
		WithArgs(userID, activityID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.DeleteByUserAndActivity(context.Background(), userID, activityID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteByUserAndActivity(context.Background(), userID, activityID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
