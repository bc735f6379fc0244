package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Thanapat2004/FoodOrder/internal/domain"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, actor domain.Actor, lines []domain.CartLine, method domain.PaymentMethod) (*domain.Order, error)
	Transition(ctx context.Context, actor domain.Actor, orderID uuid.UUID, next domain.OrderStatus) (*domain.Order, error)
	ListOrders(ctx context.Context, actor domain.Actor) ([]*domain.Order, error)
	GetOrder(ctx context.Context, actor domain.Actor, orderID uuid.UUID) (*domain.Order, error)
}

type OrderHandler struct {
	orders OrderService
}

func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// CreateOrderRequestDTO mirrors the storefront checkout payload.
type CreateOrderRequestDTO struct {
	Cart          []domain.CartLine `json:"cart"`
	PaymentMethod string            `json:"payment_method"`
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status"`
}

type CreateOrderResponseDTO struct {
	OrderID    string  `json:"order_id"`
	TotalPrice float64 `json:"total_price"`
	Status     string  `json:"status"`
}

// POST /api/v1/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		respondUnauthorized(w)
		return
	}

	var req CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.orders.PlaceOrder(r.Context(), actor, req.Cart, domain.PaymentMethod(req.PaymentMethod))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, CreateOrderResponseDTO{
		OrderID:    order.ID.String(),
		TotalPrice: order.TotalPrice,
		Status:     order.Status.String(),
	})
}

// GET /api/v1/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		respondUnauthorized(w)
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), actor)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}

	respondJSON(w, http.StatusOK, orders)
}

// GET /api/v1/orders/{order_id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		respondUnauthorized(w)
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a valid uuid")
		return
	}

	order, err := h.orders.GetOrder(r.Context(), actor, orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// PUT /api/v1/admin/orders/{order_id}
func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		respondUnauthorized(w)
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a valid uuid")
		return
	}

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.orders.Transition(r.Context(), actor, orderID, domain.OrderStatus(req.Status))
	if err != nil {
		// An unknown status value is 422 on this endpoint, like an
		// unchanged or illegal one.
		var ve domain.ValidationError
		if errors.As(err, &ve) {
			respondError(w, http.StatusUnprocessableEntity, "invalid_status", ve.Message)
			return
		}
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}
