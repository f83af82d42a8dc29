package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/activity-favorites/internal/models"
	"github.com/ignatzorin/activity-favorites/internal/repository/memstore"
)

func addUser(users *memstore.UserStore, email string) *models.User {
	u := &models.User{Email: email, FirstName: "Test", LastName: "User", Role: models.RoleUser}
	if err := users.Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

func addActivity(activities *memstore.ActivityStore, name, city string, price int) models.Activity {
	a := &models.Activity{Name: name, City: city, Description: name, Price: price, OwnerID: uuid.New()}
	if err := activities.Create(context.Background(), a); err != nil {
		panic(err)
	}
	return *a
}

// mockFavoriteRepo нужен для проверки обработки ошибок хранилища.
type mockFavoriteRepo struct {
	mock.Mock
}

func (m *mockFavoriteRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Favorite), args.Error(1)
}

func (m *mockFavoriteRepo) ListByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.Favorite, error) {
	args := m.Called(ctx, userID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Favorite), args.Error(1)
}

func (m *mockFavoriteRepo) NextOrder(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockFavoriteRepo) Create(ctx context.Context, fav *models.Favorite) error {
	return m.Called(ctx, fav).Error(0)
}

func (m *mockFavoriteRepo) CreateAtEnd(ctx context.Context, fav *models.Favorite) error {
	return m.Called(ctx, fav).Error(0)
}

func (m *mockFavoriteRepo) GetByIDAndUser(ctx context.Context, userID, favoriteID uuid.UUID) (*models.Favorite, error) {
	args := m.Called(ctx, userID, favoriteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Favorite), args.Error(1)
}

func (m *mockFavoriteRepo) UpdateOrder(ctx context.Context, userID, favoriteID uuid.UUID, order int) (*models.Favorite, error) {
	args := m.Called(ctx, userID, favoriteID, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Favorite), args.Error(1)
}

func (m *mockFavoriteRepo) Reorder(ctx context.Context, userID uuid.UUID, items []models.FavoriteOrderItem) error {
	return m.Called(ctx, userID, items).Error(0)
}

func (m *mockFavoriteRepo) Exists(ctx context.Context, userID, activityID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, activityID)
	return args.Bool(0), args.Error(1)
}

func (m *mockFavoriteRepo) DeleteByUserAndActivity(ctx context.Context, userID, activityID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, activityID)
	return args.Bool(0), args.Error(1)
}

// recordingNotifier запоминает отправленные события.
type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) NotifyFavorites(_ uuid.UUID, event string, _ interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}
