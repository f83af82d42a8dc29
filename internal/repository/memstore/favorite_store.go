package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/ignatzorin/activity-favorites/internal/models"
	"github.com/ignatzorin/activity-favorites/internal/repository/common"
)

// FavoriteStore хранит избранное в map под мьютексом.
type FavoriteStore struct {
	mu    sync.RWMutex
	items map[uuid.UUID]models.Favorite
	clock clock
}

func NewFavoriteStore() *FavoriteStore {
	return &FavoriteStore{items: make(map[uuid.UUID]models.Favorite)}
}

// sortFavorites: позиция, затем время создания и id.
func sortFavorites(list []models.Favorite) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
}

func (s *FavoriteStore) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Favorite{}
	for _, f := range s.items {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	sortFavorites(out)
	return out, nil
}

func (s *FavoriteStore) ListByIDs(_ context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Favorite{}
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if f, ok := s.items[id]; ok && f.UserID == userID && !seen[id] {
			seen[id] = true
			out = append(out, f)
		}
	}
	sortFavorites(out)
	return out, nil
}

func (s *FavoriteStore) NextOrder(_ context.Context, userID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextOrderLocked(userID), nil
}

func (s *FavoriteStore) nextOrderLocked(userID uuid.UUID) int {
	next := 0
	for _, f := range s.items {
		if f.UserID == userID && f.Order+1 > next {
			next = f.Order + 1
		}
	}
	return next
}

func (s *FavoriteStore) Create(_ context.Context, fav *models.Favorite) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(fav)
}

// CreateAtEnd считает позицию и вставляет запись под одной блокировкой.
func (s *FavoriteStore) CreateAtEnd(_ context.Context, fav *models.Favorite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fav.Order = s.nextOrderLocked(fav.UserID)
	return s.insertLocked(fav)
}

func (s *FavoriteStore) insertLocked(fav *models.Favorite) error {
	for _, f := range s.items {
		if f.UserID == fav.UserID && f.ActivityID == fav.ActivityID {
			return common.ErrAlreadyExists
		}
	}
	if fav.ID == uuid.Nil {
		fav.ID = uuid.New()
	}
	if _, ok := s.items[fav.ID]; ok {
		return common.ErrAlreadyExists
	}
	now := s.clock.now()
	fav.CreatedAt, fav.UpdatedAt = now, now
	s.items[fav.ID] = *fav
	return nil
}

func (s *FavoriteStore) GetByIDAndUser(_ context.Context, userID, favoriteID uuid.UUID) (*models.Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.items[favoriteID]
	if !ok || f.UserID != userID {
		return nil, common.ErrNotFound
	}
	return &f, nil
}

func (s *FavoriteStore) UpdateOrder(_ context.Context, userID, favoriteID uuid.UUID, order int) (*models.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.items[favoriteID]
	if !ok || f.UserID != userID {
		return nil, common.ErrNotFound
	}
	f.Order = order
	f.UpdatedAt = s.clock.now()
	s.items[favoriteID] = f
	return &f, nil
}

// Reorder применяет пакет целиком или не применяет ничего.
func (s *FavoriteStore) Reorder(_ context.Context, userID uuid.UUID, items []models.FavoriteOrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		if f, ok := s.items[item.FavoriteID]; !ok || f.UserID != userID {
			return common.ErrPartialUpdate
		}
	}

	now := s.clock.now()
	for _, item := range items {
		f := s.items[item.FavoriteID]
		f.Order = item.Order
		f.UpdatedAt = now
		s.items[item.FavoriteID] = f
	}
	return nil
}

func (s *FavoriteStore) Exists(_ context.Context, userID, activityID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.items {
		if f.UserID == userID && f.ActivityID == activityID {
			return true, nil
		}
	}
	return false, nil
}

func (s *FavoriteStore) DeleteByUserAndActivity(_ context.Context, userID, activityID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, f := range s.items {
		if f.UserID == userID && f.ActivityID == activityID {
			delete(s.items, id)
			return true, nil
		}
	}
	return false, nil
}
