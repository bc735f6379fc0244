package http

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Thanapat2004/FoodOrder/internal/domain"
	"github.com/Thanapat2004/FoodOrder/internal/service"
)

const maxReviewBodySize = 12 << 20 // 5 images at 2MB plus form fields

type ReviewService interface {
	ListReviewable(ctx context.Context, userID int64, limit, offset int) ([]*domain.ReviewableItem, error)
	Create(ctx context.Context, userID int64, lineID uuid.UUID, in service.ReviewInput) (*domain.Review, error)
	Update(ctx context.Context, userID int64, reviewID uuid.UUID, in service.ReviewInput) (*domain.Review, error)
	Delete(ctx context.Context, userID int64, reviewID uuid.UUID) error
	ListForFood(ctx context.Context, foodID int64, limit, offset int) (*service.FoodReviews, error)
	ListMine(ctx context.Context, userID int64, limit, offset int) ([]*domain.Review, error)
}

type ReviewHandler struct {
	reviews ReviewService
}

func NewReviewHandler(reviews ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

type ReviewRequestDTO struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type FoodReviewsResponseDTO struct {
	Reviews       []*domain.Review `json:"reviews"`
	AverageRating float64          `json:"average_rating"`
	TotalReviews  int              `json:"total_reviews"`
	RatingCounts  map[int]int      `json:"rating_counts"`
}

// GET /api/v1/reviews/reviewable
func (h *ReviewHandler) ListReviewable(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		respondUnauthorized(w)
		return
	}

	limit, offset := parsePagination(r)
	items, err := h.reviews.ListReviewable(r.Context(), actor.UserID, limit, offset)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if items == nil {
		items = []*domain.ReviewableItem{}
	}

	respondJSON(w, http.StatusOK, items)
}

// GET /api/v1/reviews/mine
func (h *ReviewHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		respondUnauthorized(w)
		return
	}

	limit, offset := parsePagination(r)
	reviews, err := h.reviews.ListMine(r.Context(), actor.UserID, limit, offset)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if reviews == nil {
		reviews = []*domain.Review{}
	}

	respondJSON(w, http.StatusOK, reviews)
}

// GET /api/v1/foods/{food_id}/reviews
func (h *ReviewHandler) ListForFood(w http.ResponseWriter, r *http.Request) {
	foodID, err := strconv.ParseInt(chi.URLParam(r, "food_id"), 10, 64)
	if err != nil || foodID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_food_id", "food_id must be a positive integer")
		return
	}

	limit, offset := parsePagination(r)
	result, err := h.reviews.ListForFood(r.Context(), foodID, limit, offset)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := FoodReviewsResponseDTO{
		Reviews:       result.Reviews,
		AverageRating: result.Summary.AverageRating,
		TotalReviews:  result.Summary.TotalReviews,
		RatingCounts:  result.Summary.RatingCounts,
	}
	if resp.Reviews == nil {
		resp.Reviews = []*domain.Review{}
	}

	respondJSON(w, http.StatusOK, resp)
}

// POST /api/v1/order-items/{order_item_id}/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		respondUnauthorized(w)
		return
	}

	lineID, err := uuid.Parse(chi.URLParam(r, "order_item_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_item_id", "order_item_id must be a valid uuid")
		return
	}

	input, cleanup, err := parseReviewInput(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	defer cleanup()

	review, err := h.reviews.Create(r.Context(), actor.UserID, lineID, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, review)
}

// PUT /api/v1/reviews/{review_id}
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		respondUnauthorized(w)
		return
	}

	reviewID, err := uuid.Parse(chi.URLParam(r, "review_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_review_id", "review_id must be a valid uuid")
		return
	}

	input, cleanup, err := parseReviewInput(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	defer cleanup()

	review, err := h.reviews.Update(r.Context(), actor.UserID, reviewID, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, review)
}

// DELETE /api/v1/reviews/{review_id}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		respondUnauthorized(w)
		return
	}

	reviewID, err := uuid.Parse(chi.URLParam(r, "review_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_review_id", "review_id must be a valid uuid")
		return
	}

	if err := h.reviews.Delete(r.Context(), actor.UserID, reviewID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseReviewInput accepts either a JSON body (no images) or a
// multipart/form-data body with rating, comment and up to five image files.
// The returned cleanup closes any opened files.
func parseReviewInput(r *http.Request) (service.ReviewInput, func(), error) {
	noop := func() {}

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		var dto ReviewRequestDTO
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			return service.ReviewInput{}, noop, err
		}
		return service.ReviewInput{Rating: dto.Rating, Comment: dto.Comment}, noop, nil
	}

	if err := r.ParseMultipartForm(maxReviewBodySize); err != nil {
		return service.ReviewInput{}, noop, err
	}

	rating, err := strconv.Atoi(r.FormValue("rating"))
	if err != nil {
		rating = 0 // out of range, rejected by validation
	}

	input := service.ReviewInput{
		Rating:  rating,
		Comment: r.FormValue("comment"),
	}

	var opened []multipart.File
	cleanup := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["images"] {
			f, err := header.Open()
			if err != nil {
				cleanup()
				return service.ReviewInput{}, noop, err
			}
			opened = append(opened, f)
			input.Images = append(input.Images, service.ImageUpload{
				Filename: header.Filename,
				Data:     f,
			})
		}
	}

	return input, cleanup, nil
}
