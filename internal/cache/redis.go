package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Thanapat2004/FoodOrder/internal/domain"
)

const menuKey = "catalog:menu"

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r *RedisCache) GetFood(ctx context.Context, id int64) (*domain.Food, error) {
	data, err := r.client.Get(ctx, foodKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var food domain.Food
	if e2 := json.Unmarshal(data, &food); e2 != nil {
		return nil, fmt.Errorf("unmarshal food failed: %w", e2)
	}
	return &food, nil
}

func (r *RedisCache) SetFood(ctx context.Context, food *domain.Food) error {
	data, err := json.Marshal(food)
	if err != nil {
		return fmt.Errorf("marshal food failed: %w", err)
	}

	if e2 := r.client.Set(ctx, foodKey(food.ID), data, r.ttl()).Err(); e2 != nil {
		return fmt.Errorf("redis set failed: %w", e2)
	}
	return nil
}

func (r *RedisCache) GetMenu(ctx context.Context) ([]*domain.Food, error) {
	data, err := r.client.Get(ctx, menuKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var foods []*domain.Food
	if e2 := json.Unmarshal(data, &foods); e2 != nil {
		return nil, fmt.Errorf("unmarshal menu failed: %w", e2)
	}
	return foods, nil
}

func (r *RedisCache) SetMenu(ctx context.Context, foods []*domain.Food) error {
	data, err := json.Marshal(foods)
	if err != nil {
		return fmt.Errorf("marshal menu failed: %w", err)
	}

	if e2 := r.client.Set(ctx, menuKey, data, r.ttl()).Err(); e2 != nil {
		return fmt.Errorf("redis set failed: %w", e2)
	}
	return nil
}

// Invalidate drops both the single-food entry and the menu listing; catalog
// writes go through here.
func (r *RedisCache) Invalidate(ctx context.Context, id int64) error {
	if err := r.client.Del(ctx, foodKey(id), menuKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// ttl adds jitter so cached entries do not expire in lockstep.
func (r *RedisCache) ttl() time.Duration {
	return r.baseTTL + time.Duration(rand.Intn(5))*time.Minute
}

func foodKey(id int64) string {
	return fmt.Sprintf("catalog:food:%d", id)
}
