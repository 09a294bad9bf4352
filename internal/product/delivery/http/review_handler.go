package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/reclaimed-storefront/internal/product/usecase/command"
	"github.com/tair/reclaimed-storefront/internal/product/usecase/query"
	"github.com/tair/reclaimed-storefront/pkg/auth"
	"github.com/tair/reclaimed-storefront/pkg/metrics"
	"github.com/tair/reclaimed-storefront/pkg/middleware"
)

// ReviewHandler serves product reviews and ratings
type ReviewHandler struct {
	createHandler *command.CreateReviewHandler
	deleteHandler *command.DeleteReviewHandler

	productReviewsHandler *query.ListProductReviewsHandler
	viewerReviewsHandler  *query.ListViewerReviewsHandler
	existingHandler       *query.FindExistingReviewHandler
	ratingHandler         *query.GetProductRatingHandler

	auth    *middleware.Authenticator
	metrics *metrics.HTTPMetrics
}

func NewReviewHandler(
	createHandler *command.CreateReviewHandler,
	deleteHandler *command.DeleteReviewHandler,
	productReviewsHandler *query.ListProductReviewsHandler,
	viewerReviewsHandler *query.ListViewerReviewsHandler,
	existingHandler *query.FindExistingReviewHandler,
	ratingHandler *query.GetProductRatingHandler,
	authenticator *middleware.Authenticator,
	reg prometheus.Registerer,
) *ReviewHandler {
	return &ReviewHandler{
		createHandler:         createHandler,
		deleteHandler:         deleteHandler,
		productReviewsHandler: productReviewsHandler,
		viewerReviewsHandler:  viewerReviewsHandler,
		existingHandler:       existingHandler,
		ratingHandler:         ratingHandler,
		auth:                  authenticator,
		metrics:               metrics.NewHTTPMetrics(reg, "storefront_reviews"),
	}
}

func (h *ReviewHandler) RegisterRoutes(router *mux.Router) {
	m := h.metrics.Wrap

	router.HandleFunc("/api/products/{id}/reviews", m("/api/products/{id}/reviews", h.ListProductReviews)).Methods("GET")
	router.HandleFunc("/api/products/{id}/rating", m("/api/products/{id}/rating", h.GetRating)).Methods("GET")
	router.HandleFunc("/api/products/{id}/reviews", m("/api/products/{id}/reviews", h.auth.RequireAuth(h.CreateReview))).Methods("POST")
	router.HandleFunc("/api/products/{id}/reviews/mine", m("/api/products/{id}/reviews/mine", h.auth.RequireAuth(h.GetExistingReview))).Methods("GET")
	router.HandleFunc("/api/reviews", m("/api/reviews", h.auth.RequireAuth(h.ListViewerReviews))).Methods("GET")
	router.HandleFunc("/api/reviews/{id}", m("/api/reviews/{id}", h.auth.RequireAuth(h.DeleteReview))).Methods("DELETE")
}

// ListProductReviews handles GET /api/products/{id}/reviews
func (h *ReviewHandler) ListProductReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.productReviewsHandler.Handle(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondDomainError(w, r, err, "Failed to list reviews")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    reviews,
	})
}

// GetRating handles GET /api/products/{id}/rating
func (h *ReviewHandler) GetRating(w http.ResponseWriter, r *http.Request) {
	rating, err := h.ratingHandler.Handle(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondDomainError(w, r, err, "Failed to get rating")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    rating,
	})
}

// CreateReview handles POST /api/products/{id}/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var cmd command.CreateReviewCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	viewer, _ := auth.ViewerFromContext(r.Context())
	cmd.ViewerID = viewer.ID
	cmd.AuthorName = viewer.Name
	cmd.AuthorImageURL = viewer.ImageURL
	cmd.ProductID = mux.Vars(r)["id"]

	review, err := h.createHandler.Handle(r.Context(), cmd)
	if err != nil {
		respondDomainError(w, r, err, "Failed to submit review")
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Review submitted",
		Data:    review,
	})
}

// GetExistingReview handles GET /api/products/{id}/reviews/mine
func (h *ReviewHandler) GetExistingReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.existingHandler.Handle(r.Context(), query.ExistingReviewQuery{
		ViewerID:  auth.ViewerID(r.Context()),
		ProductID: mux.Vars(r)["id"],
	})
	if err != nil {
		respondDomainError(w, r, err, "Failed to find review")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    review,
	})
}

// ListViewerReviews handles GET /api/reviews
func (h *ReviewHandler) ListViewerReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.viewerReviewsHandler.Handle(r.Context(), auth.ViewerID(r.Context()))
	if err != nil {
		respondDomainError(w, r, err, "Failed to list reviews")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    reviews,
	})
}

// DeleteReview handles DELETE /api/reviews/{id}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	cmd := command.DeleteReviewCommand{
		ID:       mux.Vars(r)["id"],
		ViewerID: auth.ViewerID(r.Context()),
	}
	if err := h.deleteHandler.Handle(r.Context(), cmd); err != nil {
		respondDomainError(w, r, err, "Failed to delete review")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Review deleted",
	})
}
