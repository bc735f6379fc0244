package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Thanapat2004/FoodOrder/internal/domain"
	"github.com/Thanapat2004/FoodOrder/internal/service"
)

type CatalogService interface {
	ListFoods(ctx context.Context) ([]*domain.Food, error)
	GetFood(ctx context.Context, id int64) (*domain.Food, error)
	CreateFood(ctx context.Context, actor domain.Actor, in service.FoodInput) (*domain.Food, error)
	UpdateFood(ctx context.Context, actor domain.Actor, id int64, in service.FoodInput) (*domain.Food, error)
	DeleteFood(ctx context.Context, actor domain.Actor, id int64) error
}

type CatalogHandler struct {
	catalog CatalogService
}

func NewCatalogHandler(catalog CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// GET /api/v1/foods
func (h *CatalogHandler) ListFoods(w http.ResponseWriter, r *http.Request) {
	foods, err := h.catalog.ListFoods(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if foods == nil {
		foods = []*domain.Food{}
	}

	respondJSON(w, http.StatusOK, foods)
}

// GET /api/v1/foods/{food_id}
func (h *CatalogHandler) GetFood(w http.ResponseWriter, r *http.Request) {
	foodID, err := strconv.ParseInt(chi.URLParam(r, "food_id"), 10, 64)
	if err != nil || foodID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_food_id", "food_id must be a positive integer")
		return
	}

	food, err := h.catalog.GetFood(r.Context(), foodID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, food)
}

// POST /api/v1/admin/foods
func (h *CatalogHandler) CreateFood(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		respondUnauthorized(w)
		return
	}

	var in service.FoodInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	food, err := h.catalog.CreateFood(r.Context(), actor, in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, food)
}

// PUT /api/v1/admin/foods/{food_id}
func (h *CatalogHandler) UpdateFood(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		respondUnauthorized(w)
		return
	}

	foodID, err := strconv.ParseInt(chi.URLParam(r, "food_id"), 10, 64)
	if err != nil || foodID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_food_id", "food_id must be a positive integer")
		return
	}

	var in service.FoodInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	food, err := h.catalog.UpdateFood(r.Context(), actor, foodID, in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, food)
}

// DELETE /api/v1/admin/foods/{food_id}
func (h *CatalogHandler) DeleteFood(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		respondUnauthorized(w)
		return
	}

	foodID, err := strconv.ParseInt(chi.URLParam(r, "food_id"), 10, 64)
	if err != nil || foodID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_food_id", "food_id must be a positive integer")
		return
	}

	if err := h.catalog.DeleteFood(r.Context(), actor, foodID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
