package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Thanapat2004/FoodOrder/internal/domain"
)

// Catalog resolves authoritative menu data for aggregation. Prices always
// come from the store of record, never from the client.
type Catalog interface {
	GetFoodsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Food, error)
}

// CartAggregator turns a possibly-redundant client cart into a canonical set
// of priced order lines. Repeated entries for the same food represent
// repeated "add to cart" clicks and are merged by summing quantities.
type CartAggregator struct {
	catalog Catalog
}

func NewCartAggregator(catalog Catalog) *CartAggregator {
	return &CartAggregator{catalog: catalog}
}

// Aggregate validates the cart, merges duplicate food ids and freezes the
// unit price of every line. Any invalid entry fails the whole call; partial
// orders are never produced.
func (a *CartAggregator) Aggregate(ctx context.Context, lines []domain.CartLine) ([]domain.OrderLine, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	// Group by food id, preserving first-seen order.
	var ids []int64
	quantities := make(map[int64]int, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, domain.ValidationError{
				Field:   "cart.quantity",
				Message: fmt.Sprintf("quantity for food %d must be at least 1", line.FoodID),
			}
		}
		if _, seen := quantities[line.FoodID]; !seen {
			ids = append(ids, line.FoodID)
		}
		quantities[line.FoodID] += line.Quantity
	}

	foods, err := a.catalog.GetFoodsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve cart foods: %w", err)
	}

	aggregated := make([]domain.OrderLine, 0, len(ids))
	for _, id := range ids {
		food, ok := foods[id]
		if !ok {
			return nil, domain.ValidationError{
				Field:   "cart.id",
				Message: fmt.Sprintf("food %d does not exist", id),
			}
		}
		aggregated = append(aggregated, domain.OrderLine{
			ID:       uuid.New(),
			FoodID:   food.ID,
			FoodName: food.Name,
			Quantity: quantities[id],
			Price:    food.Price,
		})
	}

	return aggregated, nil
}
