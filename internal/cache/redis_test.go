package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thanapat2004/FoodOrder/internal/domain"
)

func setupTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client), mr
}

func TestFoodRoundTrip(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	food := &domain.Food{ID: 1, Name: "Pad Thai", Price: 100, CategoryID: 2}
	require.NoError(t, c.SetFood(ctx, food))

	got, err := c.GetFood(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, food, got)
}

func TestGetFood_Miss(t *testing.T) {
	c, _ := setupTestCache(t)

	_, err := c.GetFood(context.Background(), 42)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMenuRoundTrip(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	menu := []*domain.Food{
		{ID: 1, Name: "Pad Thai", Price: 100},
		{ID: 2, Name: "Tom Yum", Price: 150},
	}
	require.NoError(t, c.SetMenu(ctx, menu))

	got, err := c.GetMenu(ctx)
	require.NoError(t, err)
	assert.Equal(t, menu, got)
}

func TestGetMenu_Miss(t *testing.T) {
	c, _ := setupTestCache(t)

	_, err := c.GetMenu(context.Background())
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestInvalidate_DropsFoodAndMenu(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetFood(ctx, &domain.Food{ID: 1, Name: "Pad Thai"}))
	require.NoError(t, c.SetMenu(ctx, []*domain.Food{{ID: 1, Name: "Pad Thai"}}))

	require.NoError(t, c.Invalidate(ctx, 1))

	assert.False(t, mr.Exists("catalog:food:1"))
	assert.False(t, mr.Exists("catalog:menu"))
}

func TestEntriesExpire(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetFood(ctx, &domain.Food{ID: 1, Name: "Pad Thai"}))

	mr.FastForward(c.baseTTL * 2)

	_, err := c.GetFood(ctx, 1)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestGetFood_ConnectionError(t *testing.T) {
	c, mr := setupTestCache(t)
	mr.Close()

	_, err := c.GetFood(context.Background(), 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}
