package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Thanapat2004/FoodOrder/internal/domain"
)

func (r *Repository) GetOrderLineDetail(ctx context.Context, lineID uuid.UUID) (*OrderLineDetail, error) {
	query := `SELECT oi.id, oi.order_id, oi.food_id, oi.food_name, oi.quantity, oi.price, oi.created_at,
	                 o.user_id, o.status
	          FROM order_items oi
	          JOIN orders o ON o.id = oi.order_id
	          WHERE oi.id = $1`

	var d OrderLineDetail
	err := r.db.QueryRowContext(ctx, query, lineID).Scan(
		&d.Line.ID, &d.Line.OrderID, &d.Line.FoodID, &d.Line.FoodName,
		&d.Line.Quantity, &d.Line.Price, &d.Line.CreatedAt,
		&d.OrderUserID, &d.OrderStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderLineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order item: %w", err)
	}

	return &d, nil
}

// ListReviewableItems returns line items of the user's delivered orders that
// have no review yet, newest first.
func (r *Repository) ListReviewableItems(ctx context.Context, userID int64, limit, offset int) ([]*domain.ReviewableItem, error) {
	query := `SELECT oi.id, oi.order_id, oi.food_id, oi.food_name, oi.quantity, oi.price, oi.created_at,
	                 COALESCE(f.image, ''), o.updated_at
	          FROM order_items oi
	          JOIN orders o ON o.id = oi.order_id
	          LEFT JOIN reviews rv ON rv.order_item_id = oi.id
	          LEFT JOIN foods f ON f.id = oi.food_id
	          WHERE o.user_id = $1 AND o.status = $2 AND rv.id IS NULL
	          ORDER BY oi.created_at DESC
	          LIMIT $3 OFFSET $4`

	rows, err := r.db.QueryContext(ctx, query, userID, domain.OrderStatusDelivered, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query reviewable items: %w", err)
	}
	defer rows.Close()

	var items []*domain.ReviewableItem
	for rows.Next() {
		item := &domain.ReviewableItem{}
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.FoodID, &item.FoodName,
			&item.Quantity, &item.Price, &item.CreatedAt,
			&item.FoodImage, &item.DeliveredAt); err != nil {
			return nil, fmt.Errorf("scan reviewable item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}

// CreateReview relies on the unique constraint on order_item_id; a losing
// concurrent insert surfaces as ErrDuplicateReview.
func (r *Repository) CreateReview(ctx context.Context, review *domain.Review) error {
	imagesJSON, err := json.Marshal(review.Images)
	if err != nil {
		return fmt.Errorf("marshal review images: %w", err)
	}

	query := `INSERT INTO reviews (id, user_id, food_id, order_item_id, rating, comment, images)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING created_at, updated_at`

	err = r.db.QueryRowContext(ctx, query,
		review.ID, review.UserID, review.FoodID, review.OrderLineID,
		review.Rating, review.Comment, imagesJSON).
		Scan(&review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateReview
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (r *Repository) GetReviewByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	query := `SELECT id, user_id, food_id, order_item_id, rating, comment, images, created_at, updated_at
	          FROM reviews WHERE id = $1`
	return r.scanReview(r.db.QueryRowContext(ctx, query, id))
}

func (r *Repository) GetReviewByOrderLine(ctx context.Context, lineID uuid.UUID) (*domain.Review, error) {
	query := `SELECT id, user_id, food_id, order_item_id, rating, comment, images, created_at, updated_at
	          FROM reviews WHERE order_item_id = $1`
	return r.scanReview(r.db.QueryRowContext(ctx, query, lineID))
}

func (r *Repository) scanReview(row *sql.Row) (*domain.Review, error) {
	var review domain.Review
	var imagesJSON []byte
	err := row.Scan(
		&review.ID, &review.UserID, &review.FoodID, &review.OrderLineID,
		&review.Rating, &review.Comment, &imagesJSON,
		&review.CreatedAt, &review.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query review: %w", err)
	}

	if err := json.Unmarshal(imagesJSON, &review.Images); err != nil {
		return nil, fmt.Errorf("unmarshal review images: %w", err)
	}
	return &review, nil
}

func (r *Repository) UpdateReview(ctx context.Context, review *domain.Review) error {
	imagesJSON, err := json.Marshal(review.Images)
	if err != nil {
		return fmt.Errorf("marshal review images: %w", err)
	}

	query := `UPDATE reviews SET rating = $1, comment = $2, images = $3, updated_at = NOW()
	          WHERE id = $4
	          RETURNING updated_at`

	err = r.db.QueryRowContext(ctx, query,
		review.Rating, review.Comment, imagesJSON, review.ID).
		Scan(&review.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrReviewNotFound
	}
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	return nil
}

func (r *Repository) DeleteReview(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete review rows affected: %w", err)
	}
	if affected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *Repository) ListReviewsByFood(ctx context.Context, foodID int64, limit, offset int) ([]*domain.Review, error) {
	query := `SELECT id, user_id, food_id, order_item_id, rating, comment, images, created_at, updated_at
	          FROM reviews WHERE food_id = $1
	          ORDER BY created_at DESC
	          LIMIT $2 OFFSET $3`
	return r.queryReviews(ctx, query, foodID, limit, offset)
}

func (r *Repository) ListReviewsByUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.Review, error) {
	query := `SELECT id, user_id, food_id, order_item_id, rating, comment, images, created_at, updated_at
	          FROM reviews WHERE user_id = $1
	          ORDER BY created_at DESC
	          LIMIT $2 OFFSET $3`
	return r.queryReviews(ctx, query, userID, limit, offset)
}

func (r *Repository) queryReviews(ctx context.Context, query string, args ...interface{}) ([]*domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		var review domain.Review
		var imagesJSON []byte
		if err := rows.Scan(
			&review.ID, &review.UserID, &review.FoodID, &review.OrderLineID,
			&review.Rating, &review.Comment, &imagesJSON,
			&review.CreatedAt, &review.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		if err := json.Unmarshal(imagesJSON, &review.Images); err != nil {
			return nil, fmt.Errorf("unmarshal review images: %w", err)
		}
		reviews = append(reviews, &review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return reviews, nil
}

func (r *Repository) GetReviewSummary(ctx context.Context, foodID int64) (*domain.ReviewSummary, error) {
	query := `SELECT rating, COUNT(*) FROM reviews WHERE food_id = $1 GROUP BY rating`

	rows, err := r.db.QueryContext(ctx, query, foodID)
	if err != nil {
		return nil, fmt.Errorf("query review summary: %w", err)
	}
	defer rows.Close()

	summary := &domain.ReviewSummary{RatingCounts: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	var weighted int
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, fmt.Errorf("scan review summary row: %w", err)
		}
		summary.RatingCounts[rating] = count
		summary.TotalReviews += count
		weighted += rating * count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	if summary.TotalReviews > 0 {
		summary.AverageRating = float64(weighted) / float64(summary.TotalReviews)
	}
	return summary, nil
}
