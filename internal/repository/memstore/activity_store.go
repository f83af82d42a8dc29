package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ignatzorin/activity-favorites/internal/models"
	"github.com/ignatzorin/activity-favorites/internal/repository/common"
)

type ActivityStore struct {
	mu    sync.RWMutex
	items []models.Activity
	clock clock
}

func NewActivityStore() *ActivityStore {
	return &ActivityStore{}
}

func (s *ActivityStore) Create(_ context.Context, activity *models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	now := s.clock.now()
	activity.CreatedAt, activity.UpdatedAt = now, now
	s.items = append(s.items, *activity)
	return nil
}

func (s *ActivityStore) GetByID(_ context.Context, id uuid.UUID) (*models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.items {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, common.ErrNotFound
}

func (s *ActivityStore) GetByIDs(_ context.Context, ids []uuid.UUID) ([]models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := []models.Activity{}
	for _, a := range s.items {
		if want[a.ID] {
			out = append(out, a)
		}
	}
	return out, nil
}

// filtered возвращает подходящие активности, новые первыми.
func (s *ActivityStore) filtered(filter models.ActivityFilter) []models.Activity {
	name := strings.ToLower(filter.NameContains)
	out := []models.Activity{}
	for _, a := range s.items {
		if filter.OwnerID != nil && a.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.City != "" && a.City != filter.City {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(a.Name), name) {
			continue
		}
		if filter.Price != nil && a.Price != *filter.Price {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (s *ActivityStore) List(_ context.Context, filter models.ActivityFilter, limit, offset int) ([]models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.filtered(filter)
	if offset >= len(all) {
		return []models.Activity{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *ActivityStore) Count(_ context.Context, filter models.ActivityFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.filtered(filter)), nil
}

func (s *ActivityStore) Latest(ctx context.Context, n int) ([]models.Activity, error) {
	return s.List(ctx, models.ActivityFilter{}, n, 0)
}

func (s *ActivityStore) Cities(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]bool{}
	out := []string{}
	for _, a := range s.items {
		if !seen[a.City] {
			seen[a.City] = true
			out = append(out, a.City)
		}
	}
	sort.Strings(out)
	return out, nil
}
