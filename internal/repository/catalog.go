package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Thanapat2004/FoodOrder/internal/domain"
)

func (r *Repository) ListFoods(ctx context.Context) ([]*domain.Food, error) {
	query := `SELECT id, name, description, price, category_id, image, created_at
	          FROM foods ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query foods: %w", err)
	}
	defer rows.Close()

	var foods []*domain.Food
	for rows.Next() {
		f := &domain.Food{}
		if err := rows.Scan(&f.ID, &f.Name, &f.Description, &f.Price, &f.CategoryID, &f.Image, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan food row: %w", err)
		}
		foods = append(foods, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return foods, nil
}

func (r *Repository) GetFood(ctx context.Context, id int64) (*domain.Food, error) {
	query := `SELECT id, name, description, price, category_id, image, created_at
	          FROM foods WHERE id = $1`

	f := &domain.Food{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&f.ID, &f.Name, &f.Description, &f.Price, &f.CategoryID, &f.Image, &f.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFoodNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query food by id: %w", err)
	}

	return f, nil
}

// GetFoodsByIDs resolves authoritative menu data for a set of food ids in one
// round trip. Missing ids are simply absent from the result map.
func (r *Repository) GetFoodsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Food, error) {
	query := `SELECT id, name, description, price, category_id, image, created_at
	          FROM foods WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("query foods by ids: %w", err)
	}
	defer rows.Close()

	foods := make(map[int64]*domain.Food, len(ids))
	for rows.Next() {
		f := &domain.Food{}
		if err := rows.Scan(&f.ID, &f.Name, &f.Description, &f.Price, &f.CategoryID, &f.Image, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan food row: %w", err)
		}
		foods[f.ID] = f
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return foods, nil
}

func (r *Repository) CreateFood(ctx context.Context, food *domain.Food) error {
	query := `INSERT INTO foods (name, description, price, category_id, image)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		food.Name, food.Description, food.Price, food.CategoryID, food.Image).
		Scan(&food.ID, &food.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert food: %w", err)
	}
	return nil
}

func (r *Repository) UpdateFood(ctx context.Context, food *domain.Food) error {
	query := `UPDATE foods SET name = $1, description = $2, price = $3, category_id = $4, image = $5
	          WHERE id = $6`

	res, err := r.db.ExecContext(ctx, query,
		food.Name, food.Description, food.Price, food.CategoryID, food.Image, food.ID)
	if err != nil {
		return fmt.Errorf("update food: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update food rows affected: %w", err)
	}
	if affected == 0 {
		return ErrFoodNotFound
	}
	return nil
}

func (r *Repository) DeleteFood(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM foods WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete food: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete food rows affected: %w", err)
	}
	if affected == 0 {
		return ErrFoodNotFound
	}
	return nil
}
