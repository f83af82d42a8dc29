package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/activity-favorites/internal/repository/memstore"
)

func newTestCache(t *testing.T) (*Cache, *time.Time) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCache(ctx)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestCache_Expiry(t *testing.T) {
	c, now := newTestCache(t)

	c.Set("k", 1, time.Minute)
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	*now = now.Add(2 * time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok)

	c.purgeExpired()
	assert.Empty(t, c.items)
}

func TestCache_InvalidateByPrefix(t *testing.T) {
	c, _ := newTestCache(t)
	c.Set("activities:cities", []string{"Lyon"}, time.Minute)
	c.Set("activities:latest", nil, time.Minute)
	c.Set("other", 1, time.Minute)

	c.InvalidateByPrefix("activities:")

	_, ok := c.Get("activities:cities")
	assert.False(t, ok)
	_, ok = c.Get("other")
	assert.True(t, ok)
}

func TestCache_GetOrSet(t *testing.T) {
	c, _ := newTestCache(t)
	calls := 0
	fn := func() (interface{}, error) {
		calls++
		return "v", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrSet("k", time.Minute, fn)
		require.NoError(t, err)
		assert.Equal(t, "v", v)
	}
	assert.Equal(t, 1, calls)

	_, err := c.GetOrSet("bad", time.Minute, func() (interface{}, error) { return nil, errors.New("boom") })
	assert.Error(t, err)
	_, ok := c.Get("bad")
	assert.False(t, ok)
}

func TestActivityService_CitiesCachedUntilCreate(t *testing.T) {
	c, _ := newTestCache(t)
	repo := memstore.NewActivityStore()
	addActivity(repo, "A", "Nice", 1)
	svc := NewActivityService(repo).WithCache(c)
	ctx := context.Background()

	cities, err := svc.Cities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Nice"}, cities)

	addActivity(repo, "B", "Lyon", 1)
	cities, err = svc.Cities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Nice"}, cities, "значение из кэша")

	_, err = svc.Create(ctx, uuid.New(), CreateActivityInput{Name: "Kayak", City: "Paris", Description: "d", Price: 5})
	require.NoError(t, err)

	cities, err = svc.Cities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Lyon", "Nice", "Paris"}, cities)
}
