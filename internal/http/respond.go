package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/Thanapat2004/FoodOrder/internal/domain"
	"github.com/Thanapat2004/FoodOrder/internal/repository"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps the business-error taxonomy onto HTTP status codes.
// Unknown errors are treated as persistence failures and logged.
func handleServiceError(w http.ResponseWriter, err error) {
	var ve domain.ValidationError
	switch {
	case errors.As(err, &ve):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: ve.Message,
			Code:  "validation_error",
			// offending field, so callers know what to fix
			Details: ve.Field,
		})
	case errors.Is(err, domain.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, domain.ErrPermissionDenied):
		respondError(w, http.StatusForbidden, "permission_denied", err.Error())
	case errors.Is(err, domain.ErrAlreadyReviewed):
		respondError(w, http.StatusConflict, "already_reviewed", err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		respondError(w, http.StatusUnprocessableEntity, "invalid_transition", err.Error())
	case errors.Is(err, repository.ErrFoodNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrOrderLineNotFound),
		errors.Is(err, repository.ErrReviewNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func respondUnauthorized(w http.ResponseWriter) {
	respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
}

// parsePagination reads limit/offset query params with the listing default
// of 10 entries per page.
func parsePagination(r *http.Request) (limit, offset int) {
	limit = 10
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
