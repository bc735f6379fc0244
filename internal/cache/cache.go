package cache

import (
	"context"
	"errors"

	"github.com/Thanapat2004/FoodOrder/internal/domain"
)

type CatalogCache interface {
	GetFood(ctx context.Context, id int64) (*domain.Food, error)
	SetFood(ctx context.Context, food *domain.Food) error
	GetMenu(ctx context.Context) ([]*domain.Food, error)
	SetMenu(ctx context.Context, foods []*domain.Food) error
	Invalidate(ctx context.Context, id int64) error
}

var ErrCacheMiss = errors.New("cache miss")
