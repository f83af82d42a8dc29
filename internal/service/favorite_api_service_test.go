package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/activity-favorites/internal/models"
	"github.com/ignatzorin/activity-favorites/internal/pkg/apperror"
	"github.com/ignatzorin/activity-favorites/internal/repository/memstore"
)

type favoriteFixture struct {
	svc        *FavoriteAPIService
	repo       *memstore.FavoriteStore
	users      *memstore.UserStore
	activities *memstore.ActivityStore
	notifier   *recordingNotifier
}

func newFavoriteFixture() *favoriteFixture {
	f := &favoriteFixture{
		repo:       memstore.NewFavoriteStore(),
		users:      memstore.NewUserStore(),
		activities: memstore.NewActivityStore(),
		notifier:   &recordingNotifier{},
	}
	f.svc = NewFavoriteAPIService(NewFavoriteService(f.repo), f.users, NewActivityService(f.activities), f.notifier)
	return f
}

func (f *favoriteFixture) orderOf(t *testing.T, userID uuid.UUID) []uuid.UUID {
	t.Helper()
	all, err := f.svc.GetAllFavoritesByUserID(context.Background(), userID)
	require.NoError(t, err)
	ids := make([]uuid.UUID, len(all))
	for i, fav := range all {
		ids[i] = fav.ActivityID
	}
	return ids
}

func TestFavoriteAPI_AppendAndReorderScenario(t *testing.T) {
	ctx := context.Background()
	f := newFavoriteFixture()
	u1 := addUser(f.users, "u1@example.com")
	a1 := addActivity(f.activities, "A1", "Paris", 10)
	a2 := addActivity(f.activities, "A2", "Paris", 20)
	a3 := addActivity(f.activities, "A3", "Paris", 30)

	favs := make(map[uuid.UUID]*models.Favorite)
	for i, a := range []models.Activity{a1, a2, a3} {
		fav, err := f.svc.CreateFavorite(ctx, u1.ID, CreateFavoriteInput{ActivityID: a.ID})
		require.NoError(t, err)
		assert.Equal(t, i, fav.Order)
		favs[a.ID] = fav
	}

	reordered, err := f.svc.ReorderFavorites(ctx, u1.ID, ReorderFavoritesInput{Favorites: []models.FavoriteOrderItem{
		{FavoriteID: favs[a3.ID].ID, Order: 0},
		{FavoriteID: favs[a2.ID].ID, Order: 1},
		{FavoriteID: favs[a1.ID].ID, Order: 2},
	}})
	require.NoError(t, err)
	assert.Len(t, reordered, 3)

	assert.Equal(t, []uuid.UUID{a3.ID, a2.ID, a1.ID}, f.orderOf(t, u1.ID))
	assert.Equal(t, []string{EventFavoriteCreated, EventFavoriteCreated, EventFavoriteCreated, EventFavoritesReordered}, f.notifier.events)
}

func TestFavoriteAPI_DeleteScenario(t *testing.T) {
	ctx := context.Background()
	f := newFavoriteFixture()
	u1 := addUser(f.users, "u1@example.com")
	a2 := addActivity(f.activities, "A2", "Lyon", 5)

	_, err := f.svc.CreateFavorite(ctx, u1.ID, CreateFavoriteInput{ActivityID: a2.ID})
	require.NoError(t, err)

	deleted, err := f.svc.DeleteFavorite(ctx, u1.ID, a2.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = f.svc.DeleteFavorite(ctx, u1.ID, a2.ID)
	assert.False(t, deleted)
	assert.True(t, apperror.IsNotFound(err))
}

func TestFavoriteAPI_UpdateForeignFavoriteIsNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFavoriteFixture()
	u1 := addUser(f.users, "u1@example.com")
	u2 := addUser(f.users, "u2@example.com")
	a1 := addActivity(f.activities, "A1", "Nice", 15)

	fav, err := f.svc.CreateFavorite(ctx, u1.ID, CreateFavoriteInput{ActivityID: a1.ID})
	require.NoError(t, err)

	_, err = f.svc.UpdateFavoriteOrder(ctx, u2.ID, UpdateFavoriteOrderInput{FavoriteID: fav.ID, NewOrder: 42})
	assert.ErrorIs(t, err, apperror.ErrFavoriteNotFound)

	all, err := f.svc.GetAllFavoritesByUserID(ctx, u1.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 0, all[0].Order)
}

func TestFavoriteAPI_ReorderWithForeignIDIsForbidden(t *testing.T) {
	ctx := context.Background()
	f := newFavoriteFixture()
	u1 := addUser(f.users, "u1@example.com")
	u2 := addUser(f.users, "u2@example.com")
	a1 := addActivity(f.activities, "A1", "Nice", 15)
	a2 := addActivity(f.activities, "A2", "Nice", 25)

	mine, err := f.svc.CreateFavorite(ctx, u1.ID, CreateFavoriteInput{ActivityID: a1.ID})
	require.NoError(t, err)
	theirs, err := f.svc.CreateFavorite(ctx, u2.ID, CreateFavoriteInput{ActivityID: a2.ID})
	require.NoError(t, err)

	_, err = f.svc.ReorderFavorites(ctx, u1.ID, ReorderFavoritesInput{Favorites: []models.FavoriteOrderItem{
		{FavoriteID: mine.ID, Order: 5},
		{FavoriteID: theirs.ID, Order: 0},
	}})
	assert.True(t, apperror.IsForbidden(err))

	got, err := f.repo.GetByIDAndUser(ctx, u1.ID, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Order, "пакет не должен применяться частично")
	got, err = f.repo.GetByIDAndUser(ctx, u2.ID, theirs.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Order)
}

func TestFavoriteAPI_ReorderValidation(t *testing.T) {
	ctx := context.Background()
	f := newFavoriteFixture()
	u1 := addUser(f.users, "u1@example.com")
	a1 := addActivity(f.activities, "A1", "Nice", 15)
	fav, err := f.svc.CreateFavorite(ctx, u1.ID, CreateFavoriteInput{ActivityID: a1.ID})
	require.NoError(t, err)

	_, err = f.svc.ReorderFavorites(ctx, u1.ID, ReorderFavoritesInput{})
	assert.ErrorIs(t, err, apperror.ErrEmptyReorder)

	_, err = f.svc.ReorderFavorites(ctx, uuid.Nil, ReorderFavoritesInput{Favorites: []models.FavoriteOrderItem{{FavoriteID: fav.ID}}})
	assert.ErrorIs(t, err, apperror.ErrUserIDRequired)

	_, err = f.svc.ReorderFavorites(ctx, u1.ID, ReorderFavoritesInput{Favorites: []models.FavoriteOrderItem{
		{FavoriteID: fav.ID, Order: 0},
		{FavoriteID: fav.ID, Order: 1},
	}})
	assert.True(t, apperror.IsBadRequest(err))
}

func TestFavoriteAPI_CreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFavoriteFixture()
	u1 := addUser(f.users, "u1@example.com")
	a1 := addActivity(f.activities, "A1", "Nice", 15)

	_, err := f.svc.CreateFavorite(ctx, uuid.Nil, CreateFavoriteInput{ActivityID: a1.ID})
	assert.ErrorIs(t, err, apperror.ErrUserIDRequired)

	_, err = f.svc.CreateFavorite(ctx, uuid.New(), CreateFavoriteInput{ActivityID: a1.ID})
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)

	_, err = f.svc.CreateFavorite(ctx, u1.ID, CreateFavoriteInput{ActivityID: uuid.New()})
	assert.ErrorIs(t, err, apperror.ErrActivityNotFound)

	_, err = f.svc.CreateFavorite(ctx, u1.ID, CreateFavoriteInput{})
	assert.True(t, apperror.IsBadRequest(err))

	order := 7
	fav, err := f.svc.CreateFavorite(ctx, u1.ID, CreateFavoriteInput{ActivityID: a1.ID, Order: &order})
	require.NoError(t, err)
	assert.Equal(t, 7, fav.Order)

	_, err = f.svc.CreateFavorite(ctx, u1.ID, CreateFavoriteInput{ActivityID: a1.ID})
	assert.True(t, apperror.IsConflict(err))
	assert.Len(t, f.notifier.events, 1, "событие только для успешного создания")
}

func TestFavoriteAPI_GetAllRequiresKnownUser(t *testing.T) {
	f := newFavoriteFixture()

	_, err := f.svc.GetAllFavoritesByUserID(context.Background(), uuid.Nil)
	assert.True(t, apperror.IsBadRequest(err))

	_, err = f.svc.GetAllFavoritesByUserID(context.Background(), uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestFavoriteAPI_IsFavorite(t *testing.T) {
	ctx := context.Background()
	f := newFavoriteFixture()
	u1 := addUser(f.users, "u1@example.com")
	a1 := addActivity(f.activities, "A1", "Nice", 15)

	ok, err := f.svc.IsFavorite(ctx, u1.ID, a1.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.svc.CreateFavorite(ctx, u1.ID, CreateFavoriteInput{ActivityID: a1.ID})
	require.NoError(t, err)

	ok, err = f.svc.IsFavorite(ctx, u1.ID, a1.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFavoriteAPI_UnclassifiedErrorBecomesInternal(t *testing.T) {
	ctx := context.Background()
	repo := new(mockFavoriteRepo)
	users := memstore.NewUserStore()
	u1 := addUser(users, "u1@example.com")
	svc := NewFavoriteAPIService(NewFavoriteService(repo), users, NewActivityService(memstore.NewActivityStore()), nil)

	repo.On("Exists", ctx, u1.ID, mock.Anything).Return(false, errors.New("timeout"))

	_, err := svc.IsFavorite(ctx, u1.ID, uuid.New())
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.ErrCodeInternal, appErr.Code)
}

func TestFavoriteAPI_UnknownUserIsNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFavoriteFixture()
	u1 := addUser(f.users, "u1@example.com")
	a1 := addActivity(f.activities, "A1", "Nice", 15)
	fav, err := f.svc.CreateFavorite(ctx, u1.ID, CreateFavoriteInput{ActivityID: a1.ID})
	require.NoError(t, err)

	ghost := uuid.New()

	_, err = f.svc.UpdateFavoriteOrder(ctx, ghost, UpdateFavoriteOrderInput{FavoriteID: fav.ID, NewOrder: 3})
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)

	_, err = f.svc.ReorderFavorites(ctx, ghost, ReorderFavoritesInput{Favorites: []models.FavoriteOrderItem{
		{FavoriteID: fav.ID, Order: 1},
	}})
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
	assert.False(t, apperror.IsForbidden(err))

	deleted, err := f.svc.DeleteFavorite(ctx, ghost, a1.ID)
	assert.False(t, deleted)
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)

	got, err := f.repo.GetByIDAndUser(ctx, u1.ID, fav.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Order)
	assert.Len(t, f.notifier.events, 1)
}
