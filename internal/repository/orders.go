package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Thanapat2004/FoodOrder/internal/domain"
)

// CreateOrder persists the order, its line items and its payment as a single
// transaction. If anything fails nothing is visible.
func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin order transaction: %w", err)
	}
	defer tx.Rollback()

	orderQuery := `INSERT INTO orders (id, user_id, total_price, status, created_at, updated_at)
	               VALUES ($1, $2, $3, $4, NOW(), NOW())
	               RETURNING created_at, updated_at`
	err = tx.QueryRowContext(ctx, orderQuery,
		order.ID, order.UserID, order.TotalPrice, order.Status).
		Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	lineQuery := `INSERT INTO order_items (id, order_id, food_id, food_name, quantity, price)
	              VALUES ($1, $2, $3, $4, $5, $6)
	              RETURNING created_at`
	for i := range order.Lines {
		line := &order.Lines[i]
		err = tx.QueryRowContext(ctx, lineQuery,
			line.ID, order.ID, line.FoodID, line.FoodName, line.Quantity, line.Price).
			Scan(&line.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if order.Payment != nil {
		paymentQuery := `INSERT INTO payments (id, order_id, amount, payment_method, status)
		                 VALUES ($1, $2, $3, $4, $5)
		                 RETURNING created_at`
		p := order.Payment
		err = tx.QueryRowContext(ctx, paymentQuery,
			p.ID, order.ID, p.Amount, p.Method, p.Status).
			Scan(&p.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order transaction: %w", err)
	}
	return nil
}

func (r *Repository) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT id, user_id, total_price, status, created_at, updated_at
	          FROM orders WHERE id = $1`

	var order domain.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.UserID, &order.TotalPrice, &order.Status,
		&order.CreatedAt, &order.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}

	if err := r.loadOrderRelations(ctx, []*domain.Order{&order}); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *Repository) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	query := `SELECT id, user_id, total_price, status, created_at, updated_at
	          FROM orders ORDER BY created_at DESC`
	return r.queryOrders(ctx, query)
}

func (r *Repository) ListOrdersByUserID(ctx context.Context, userID int64) ([]*domain.Order, error) {
	query := `SELECT id, user_id, total_price, status, created_at, updated_at
	          FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryOrders(ctx, query, userID)
}

func (r *Repository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID, &order.UserID, &order.TotalPrice, &order.Status,
			&order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	if err := r.loadOrderRelations(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// loadOrderRelations attaches line items and payments to the given orders in
// two batched queries.
func (r *Repository) loadOrderRelations(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, 0, len(orders))
	byID := make(map[uuid.UUID]*domain.Order, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID.String())
		byID[o.ID] = o
	}

	lineQuery := `SELECT id, order_id, food_id, food_name, quantity, price, created_at
	              FROM order_items WHERE order_id = ANY($1::uuid[]) ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, lineQuery, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.FoodID, &line.FoodName,
			&line.Quantity, &line.Price, &line.CreatedAt); err != nil {
			return fmt.Errorf("scan order item row: %w", err)
		}
		if o, ok := byID[line.OrderID]; ok {
			o.Lines = append(o.Lines, line)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	paymentQuery := `SELECT id, order_id, amount, payment_method, status, created_at
	                 FROM payments WHERE order_id = ANY($1::uuid[])`
	payRows, err := r.db.QueryContext(ctx, paymentQuery, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("query payments: %w", err)
	}
	defer payRows.Close()

	for payRows.Next() {
		var p domain.Payment
		if err := payRows.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Method, &p.Status, &p.CreatedAt); err != nil {
			return fmt.Errorf("scan payment row: %w", err)
		}
		if o, ok := byID[p.OrderID]; ok {
			payment := p
			o.Payment = &payment
		}
	}
	if err := payRows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	return nil
}

func (r *Repository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order status rows affected: %w", err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
