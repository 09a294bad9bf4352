package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/reclaimed-storefront/internal/product/usecase/command"
	"github.com/tair/reclaimed-storefront/internal/product/usecase/query"
	"github.com/tair/reclaimed-storefront/pkg/auth"
	"github.com/tair/reclaimed-storefront/pkg/logger"
	"github.com/tair/reclaimed-storefront/pkg/metrics"
	"github.com/tair/reclaimed-storefront/pkg/middleware"
)

// CartHandler serves the viewer's cart
type CartHandler struct {
	addHandler   *command.AddToCartHandler
	getHandler   *query.GetCartHandler
	countHandler *query.CountCartItemsHandler

	auth    *middleware.Authenticator
	metrics *metrics.HTTPMetrics
}

func NewCartHandler(
	addHandler *command.AddToCartHandler,
	getHandler *query.GetCartHandler,
	countHandler *query.CountCartItemsHandler,
	authenticator *middleware.Authenticator,
	reg prometheus.Registerer,
) *CartHandler {
	return &CartHandler{
		addHandler:   addHandler,
		getHandler:   getHandler,
		countHandler: countHandler,
		auth:         authenticator,
		metrics:      metrics.NewHTTPMetrics(reg, "storefront_cart"),
	}
}

func (h *CartHandler) RegisterRoutes(router *mux.Router) {
	m := h.metrics.Wrap

	router.HandleFunc("/api/cart", m("/api/cart", h.auth.RequireAuth(h.GetCart))).Methods("GET")
	router.HandleFunc("/api/cart/count", m("/api/cart/count", h.auth.OptionalAuth(h.CountItems))).Methods("GET")
	router.HandleFunc("/api/cart/items", m("/api/cart/items", h.auth.RequireAuth(h.AddItem))).Methods("POST")
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.getHandler.Handle(r.Context(), auth.ViewerID(r.Context()))
	if err != nil {
		respondDomainError(w, r, err, "Failed to load cart")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    cart,
	})
}

// CountItems handles GET /api/cart/count. Errors degrade to 0 so the badge never breaks a page.
func (h *CartHandler) CountItems(w http.ResponseWriter, r *http.Request) {
	count, err := h.countHandler.Handle(r.Context(), auth.ViewerID(r.Context()))
	if err != nil {
		logger.Warn(r.Context()).Err(err).Msg("Failed to count cart items")
		count = 0
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]int{"numItemsInCart": count},
	})
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var cmd command.AddToCartCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	cmd.ViewerID = auth.ViewerID(r.Context())

	cart, err := h.addHandler.Handle(r.Context(), cmd)
	if err != nil {
		respondDomainError(w, r, err, "Failed to add to cart")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success:  true,
		Message:  command.MessageAddedToCart,
		Data:     cart,
		Redirect: "/cart",
	})
}
