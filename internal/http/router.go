package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the API surface. Handlers are plain chi routes; auth and
// request ids come from middleware.
func NewRouter(orders *OrderHandler, reviews *ReviewHandler, catalog *CatalogHandler, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(AuthMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/foods", func(r chi.Router) {
			r.Get("/", catalog.ListFoods)
			r.Get("/{food_id}", catalog.GetFood)
			r.Get("/{food_id}/reviews", reviews.ListForFood)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orders.CreateOrder)
			r.Get("/", orders.ListOrders)
			r.Get("/{order_id}", orders.GetOrder)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/reviewable", reviews.ListReviewable)
			r.Get("/mine", reviews.ListMine)
			r.Put("/{review_id}", reviews.UpdateReview)
			r.Delete("/{review_id}", reviews.DeleteReview)
		})

		r.Post("/order-items/{order_item_id}/reviews", reviews.CreateReview)

		r.Route("/admin", func(r chi.Router) {
			r.Put("/orders/{order_id}", orders.UpdateOrderStatus)
			r.Post("/foods", catalog.CreateFood)
			r.Put("/foods/{food_id}", catalog.UpdateFood)
			r.Delete("/foods/{food_id}", catalog.DeleteFood)
		})
	})

	return r
}
