package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
	"github.com/tair/reclaimed-storefront/pkg/logger"
)

// CatalogueRedirect is where clients send viewers after a missing product
const CatalogueRedirect = "/products"

type Response struct {
	Success  bool        `json:"success"`
	Message  string      `json:"message,omitempty"`
	Data     interface{} `json:"data,omitempty"`
	Error    string      `json:"error,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
	Redirect string      `json:"redirect,omitempty"`
}

// respondDomainError maps use case errors to status codes. fallback is the message
// for unexpected failures, which are logged.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation):
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Validation failed",
			Errors:  validation.Messages,
		})
	case errors.Is(err, domain.ErrProductNotFound):
		respondJSON(w, http.StatusNotFound, Response{
			Success:  false,
			Error:    "Product not found",
			Redirect: CatalogueRedirect,
		})
	case errors.Is(err, domain.ErrReviewNotFound):
		respondError(w, http.StatusNotFound, "Review not found")
	case errors.Is(err, domain.ErrCartNotFound):
		respondError(w, http.StatusNotFound, "Cart not found")
	case errors.Is(err, domain.ErrDuplicateReview):
		respondError(w, http.StatusConflict, domain.ErrDuplicateReview.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error(r.Context()).Err(err).Msg(fallback)
		respondError(w, http.StatusInternalServerError, fallback+": "+err.Error())
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, Response{
		Success: false,
		Error:   message,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
