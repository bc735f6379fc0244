package domain

import (
	"time"

	"github.com/google/uuid"
)

// Review carries denormalized user and food ids copied from the order line
// at creation. At most one review exists per order line (unique constraint
// on order_item_id).
type Review struct {
	ID          uuid.UUID `json:"id"`
	UserID      int64     `json:"user_id"`
	FoodID      int64     `json:"food_id"`
	OrderLineID uuid.UUID `json:"order_item_id"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ReviewableItem is a delivered order line the purchaser has not reviewed yet.
type ReviewableItem struct {
	OrderLine
	FoodImage   string    `json:"food_image"`
	DeliveredAt time.Time `json:"delivered_at"`
}

// ReviewSummary aggregates the reviews of one food.
type ReviewSummary struct {
	AverageRating float64     `json:"average_rating"`
	TotalReviews  int         `json:"total_reviews"`
	RatingCounts  map[int]int `json:"rating_counts"`
}
