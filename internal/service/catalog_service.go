package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/Thanapat2004/FoodOrder/internal/cache"
	"github.com/Thanapat2004/FoodOrder/internal/domain"
	"github.com/Thanapat2004/FoodOrder/internal/repository"
)

// FoodInput carries the allow-listed fields an admin may set on a food.
type FoodInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	CategoryID  int64   `json:"category_id"`
	Image       string  `json:"image"`
}

// CatalogService fronts the food catalog with a redis cache on the read path.
// Cache failures are logged and bypassed, never fatal.
type CatalogService struct {
	repo  repository.CatalogRepository
	cache cache.CatalogCache
	sfg   singleflight.Group // prevents cache stampede
}

func NewCatalogService(repo repository.CatalogRepository, c cache.CatalogCache) *CatalogService {
	return &CatalogService{repo: repo, cache: c}
}

func (s *CatalogService) ListFoods(ctx context.Context) ([]*domain.Food, error) {
	v, err, _ := s.sfg.Do("menu", func() (interface{}, error) {
		foods, err := s.cache.GetMenu(ctx)
		if err == nil {
			return foods, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("catalog cache get error: %v", err)
		}

		foods, err = s.repo.ListFoods(ctx)
		if err != nil {
			return nil, err
		}

		go func() {
			if e2 := s.cache.SetMenu(context.Background(), foods); e2 != nil {
				log.Printf("catalog cache set error: %v", e2)
			}
		}()

		return foods, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*domain.Food), nil
}

func (s *CatalogService) GetFood(ctx context.Context, id int64) (*domain.Food, error) {
	v, err, _ := s.sfg.Do(fmt.Sprintf("food:%d", id), func() (interface{}, error) {
		food, err := s.cache.GetFood(ctx, id)
		if err == nil {
			return food, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("catalog cache get error: %v", err)
		}

		food, err = s.repo.GetFood(ctx, id)
		if err != nil {
			return nil, err
		}

		go func() {
			if e2 := s.cache.SetFood(context.Background(), food); e2 != nil {
				log.Printf("catalog cache set error: %v", e2)
			}
		}()

		return food, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Food), nil
}

// GetFoodsByIDs feeds the cart aggregator. It reads the store of record
// directly so captured prices are always authoritative.
func (s *CatalogService) GetFoodsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Food, error) {
	return s.repo.GetFoodsByIDs(ctx, ids)
}

func (s *CatalogService) CreateFood(ctx context.Context, actor domain.Actor, in FoodInput) (*domain.Food, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrPermissionDenied
	}
	if err := validateFoodInput(in); err != nil {
		return nil, err
	}

	food := &domain.Food{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		Image:       in.Image,
	}
	if err := s.repo.CreateFood(ctx, food); err != nil {
		return nil, err
	}

	s.invalidate(ctx, food.ID)
	return food, nil
}

func (s *CatalogService) UpdateFood(ctx context.Context, actor domain.Actor, id int64, in FoodInput) (*domain.Food, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrPermissionDenied
	}
	if err := validateFoodInput(in); err != nil {
		return nil, err
	}

	food, err := s.repo.GetFood(ctx, id)
	if err != nil {
		return nil, err
	}

	food.Name = in.Name
	food.Description = in.Description
	food.Price = in.Price
	food.CategoryID = in.CategoryID
	if in.Image != "" {
		food.Image = in.Image
	}

	if err := s.repo.UpdateFood(ctx, food); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return food, nil
}

func (s *CatalogService) DeleteFood(ctx context.Context, actor domain.Actor, id int64) error {
	if !actor.IsAdmin() {
		return domain.ErrPermissionDenied
	}
	if err := s.repo.DeleteFood(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, id int64) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		log.Printf("catalog cache invalidate error: %v", err)
	}
}

func validateFoodInput(in FoodInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return domain.ValidationError{Field: "name", Message: "name is required"}
	}
	if len(in.Name) > 255 {
		return domain.ValidationError{Field: "name", Message: "name must be at most 255 characters"}
	}
	if in.Price < 0 {
		return domain.ValidationError{Field: "price", Message: "price must not be negative"}
	}
	if in.CategoryID <= 0 {
		return domain.ValidationError{Field: "category_id", Message: "category_id is required"}
	}
	return nil
}
