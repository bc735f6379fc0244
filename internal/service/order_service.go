package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/Thanapat2004/FoodOrder/internal/domain"
	"github.com/Thanapat2004/FoodOrder/internal/events"
	"github.com/Thanapat2004/FoodOrder/internal/repository"
)

type OrderService struct {
	aggregator *CartAggregator
	repo       repository.OrderRepository
	publisher  events.StatusPublisher
}

func NewOrderService(aggregator *CartAggregator, repo repository.OrderRepository, publisher events.StatusPublisher) *OrderService {
	return &OrderService{
		aggregator: aggregator,
		repo:       repo,
		publisher:  publisher,
	}
}

// PlaceOrder aggregates the cart, freezes prices and persists the order, its
// line items and its payment atomically. The order starts in pending.
func (s *OrderService) PlaceOrder(ctx context.Context, actor domain.Actor, lines []domain.CartLine, method domain.PaymentMethod) (*domain.Order, error) {
	if !method.IsValid() {
		return nil, domain.ValidationError{
			Field:   "payment_method",
			Message: fmt.Sprintf("%q is not a supported payment method", method),
		}
	}

	aggregated, err := s.aggregator.Aggregate(ctx, lines)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, line := range aggregated {
		total += line.Subtotal()
	}

	order := &domain.Order{
		ID:         uuid.New(),
		UserID:     actor.UserID,
		TotalPrice: total,
		Status:     domain.OrderStatusPending,
		Lines:      aggregated,
	}
	for i := range order.Lines {
		order.Lines[i].OrderID = order.ID
	}
	order.Payment = &domain.Payment{
		ID:      uuid.New(),
		OrderID: order.ID,
		Amount:  total,
		Method:  method,
		Status:  domain.PaymentStatusPending,
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	return order, nil
}

// Transition applies an admin-initiated status change. No-op transitions and
// transitions out of a terminal state are rejected.
func (s *OrderService) Transition(ctx context.Context, actor domain.Actor, orderID uuid.UUID, next domain.OrderStatus) (*domain.Order, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrPermissionDenied
	}
	if !next.IsValid() {
		return nil, domain.ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("%q is not a valid order status", next),
		}
	}

	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if next == order.Status {
		return nil, fmt.Errorf("%w: order is already %s", domain.ErrInvalidTransition, order.Status)
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, order.Status, next)
	}

	if err := s.repo.UpdateOrderStatus(ctx, orderID, next); err != nil {
		return nil, fmt.Errorf("persist status change: %w", err)
	}

	old := order.Status
	order.Status = next

	if s.publisher != nil {
		event := events.NewStatusEvent(order.ID, order.UserID, old, next)
		if err := s.publisher.PublishStatusChange(ctx, event); err != nil {
			log.Printf("failed to publish status change for order %s: %v", order.ID, err)
		}
	}

	return order, nil
}

// ListOrders returns all orders for admins and only the actor's own orders
// otherwise.
func (s *OrderService) ListOrders(ctx context.Context, actor domain.Actor) ([]*domain.Order, error) {
	if actor.IsAdmin() {
		return s.repo.ListOrders(ctx)
	}
	return s.repo.ListOrdersByUserID(ctx, actor.UserID)
}

func (s *OrderService) GetOrder(ctx context.Context, actor domain.Actor, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && order.UserID != actor.UserID {
		return nil, domain.ErrPermissionDenied
	}
	return order, nil
}
