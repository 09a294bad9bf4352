package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
	"github.com/tair/reclaimed-storefront/internal/product/usecase/command"
	"github.com/tair/reclaimed-storefront/internal/product/usecase/query"
	"github.com/tair/reclaimed-storefront/pkg/auth"
	"github.com/tair/reclaimed-storefront/pkg/logger"
	"github.com/tair/reclaimed-storefront/pkg/metrics"
	"github.com/tair/reclaimed-storefront/pkg/middleware"
)

// ProductHandler serves the catalogue, favorites and admin product routes
type ProductHandler struct {
	// Command handlers
	createHandler *command.CreateProductHandler
	updateHandler *command.UpdateProductHandler
	deleteHandler *command.DeleteProductHandler
	toggleHandler *command.ToggleFavoriteHandler

	// Query handlers
	listHandler       *query.ListProductsHandler
	featuredHandler   *query.ListFeaturedHandler
	getProductHandler *query.GetProductHandler
	favoritesHandler  *query.ListFavoritesHandler
	adminListHandler  *query.ListAdminProductsHandler

	repo          domain.ProductRepository
	auth          *middleware.Authenticator
	toggleLimiter *middleware.RateLimiter
	metrics       *metrics.HTTPMetrics
	totalProducts prometheus.Gauge
}

// NewProductHandler wires the handler. toggleLimiter may be nil.
func NewProductHandler(
	createHandler *command.CreateProductHandler,
	updateHandler *command.UpdateProductHandler,
	deleteHandler *command.DeleteProductHandler,
	toggleHandler *command.ToggleFavoriteHandler,
	listHandler *query.ListProductsHandler,
	featuredHandler *query.ListFeaturedHandler,
	getProductHandler *query.GetProductHandler,
	favoritesHandler *query.ListFavoritesHandler,
	adminListHandler *query.ListAdminProductsHandler,
	repo domain.ProductRepository,
	authenticator *middleware.Authenticator,
	toggleLimiter *middleware.RateLimiter,
	reg prometheus.Registerer,
) *ProductHandler {
	totalProducts := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_products_total",
			Help: "Total number of products in the catalogue",
		},
	)
	reg.MustRegister(totalProducts)

	return &ProductHandler{
		createHandler:     createHandler,
		updateHandler:     updateHandler,
		deleteHandler:     deleteHandler,
		toggleHandler:     toggleHandler,
		listHandler:       listHandler,
		featuredHandler:   featuredHandler,
		getProductHandler: getProductHandler,
		favoritesHandler:  favoritesHandler,
		adminListHandler:  adminListHandler,
		repo:              repo,
		auth:              authenticator,
		toggleLimiter:     toggleLimiter,
		metrics:           metrics.NewHTTPMetrics(reg, "storefront_products"),
		totalProducts:     totalProducts,
	}
}

func (h *ProductHandler) RegisterRoutes(router *mux.Router) {
	m := h.metrics.Wrap

	// Public routes, viewer optional
	router.HandleFunc("/api/products", m("/api/products", h.auth.OptionalAuth(h.ListProducts))).Methods("GET")
	router.HandleFunc("/api/products/featured", m("/api/products/featured", h.auth.OptionalAuth(h.ListFeatured))).Methods("GET")
	router.HandleFunc("/api/products/{id}", m("/api/products/{id}", h.auth.OptionalAuth(h.GetProduct))).Methods("GET")

	// Signed-in viewer
	router.HandleFunc("/api/products/{id}/favorite", m("/api/products/{id}/favorite", h.auth.RequireAuth(h.toggleLimiter.Limit(h.ToggleFavorite)))).Methods("POST")
	router.HandleFunc("/api/favorites", m("/api/favorites", h.auth.RequireAuth(h.ListFavorites))).Methods("GET")

	// Admin routes
	router.HandleFunc("/api/admin/products", m("/api/admin/products", h.auth.RequireAdmin(h.ListAdminProducts))).Methods("GET")
	router.HandleFunc("/api/admin/products", m("/api/admin/products", h.auth.RequireAdmin(h.CreateProduct))).Methods("POST")
	router.HandleFunc("/api/admin/products/{id}", m("/api/admin/products/{id}", h.auth.RequireAdmin(h.GetAdminProduct))).Methods("GET")
	router.HandleFunc("/api/admin/products/{id}", m("/api/admin/products/{id}", h.auth.RequireAdmin(h.UpdateProduct))).Methods("PUT")
	router.HandleFunc("/api/admin/products/{id}", m("/api/admin/products/{id}", h.auth.RequireAdmin(h.DeleteProduct))).Methods("DELETE")
}

// ListProducts handles GET /api/products. The body is the bare page, not the envelope.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	q := query.ListProductsQuery{
		Page:     page,
		PageSize: pageSize,
		Search:   r.URL.Query().Get("search"),
		ViewerID: auth.ViewerID(r.Context()),
	}

	result, err := h.listHandler.Handle(r.Context(), q)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list products")
		respondError(w, http.StatusInternalServerError, "Failed to list products")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ListFeatured handles GET /api/products/featured
func (h *ProductHandler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	products, err := h.featuredHandler.Handle(r.Context(), auth.ViewerID(r.Context()))
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list featured products")
		respondError(w, http.StatusInternalServerError, "Failed to list featured products")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    products,
	})
}

// GetProduct handles GET /api/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	q := query.GetProductQuery{
		ID:       mux.Vars(r)["id"],
		ViewerID: auth.ViewerID(r.Context()),
	}

	product, err := h.getProductHandler.Handle(r.Context(), q)
	if err != nil {
		respondDomainError(w, r, err, "Failed to get product")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    product,
	})
}

// ToggleFavorite handles POST /api/products/{id}/favorite. The body is the bare result.
func (h *ProductHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	cmd := command.ToggleFavoriteCommand{
		ViewerID:  auth.ViewerID(r.Context()),
		ProductID: mux.Vars(r)["id"],
	}

	result, err := h.toggleHandler.Handle(r.Context(), cmd)
	if err != nil {
		respondDomainError(w, r, err, "Failed to toggle favorite")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ListFavorites handles GET /api/favorites
func (h *ProductHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.favoritesHandler.Handle(r.Context(), auth.ViewerID(r.Context()))
	if err != nil {
		respondDomainError(w, r, err, "Failed to list favorites")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    favorites,
	})
}

// ListAdminProducts handles GET /api/admin/products
func (h *ProductHandler) ListAdminProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.adminListHandler.Handle(r.Context())
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list admin products")
		respondError(w, http.StatusInternalServerError, "Failed to list products")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    products,
	})
}

// GetAdminProduct handles GET /api/admin/products/{id}
func (h *ProductHandler) GetAdminProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.getProductHandler.Handle(r.Context(), query.GetProductQuery{ID: mux.Vars(r)["id"]})
	if err != nil {
		respondDomainError(w, r, err, "Failed to get product")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    product.Product,
	})
}

// CreateProduct handles POST /api/admin/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var cmd command.CreateProductCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	cmd.ClerkID = auth.ViewerID(r.Context())

	product, err := h.createHandler.Handle(r.Context(), cmd)
	if err != nil {
		respondDomainError(w, r, err, "Failed to create product")
		return
	}

	h.RefreshProductsMetric(r.Context())

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Product created",
		Data:    product,
	})
}

// UpdateProduct handles PUT /api/admin/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var cmd command.UpdateProductCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	cmd.ID = mux.Vars(r)["id"]

	product, err := h.updateHandler.Handle(r.Context(), cmd)
	if err != nil {
		respondDomainError(w, r, err, "Failed to update product")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product updated successfully",
		Data:    product,
	})
}

// DeleteProduct handles DELETE /api/admin/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	cmd := command.DeleteProductCommand{ID: mux.Vars(r)["id"]}
	if err := h.deleteHandler.Handle(r.Context(), cmd); err != nil {
		respondDomainError(w, r, err, "Failed to delete product")
		return
	}

	h.RefreshProductsMetric(r.Context())

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product removed",
	})
}

// Pinger reports whether a backing store is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RegisterHealthCheck serves /health. The database is required; redis is optional
// and only reported.
func (h *ProductHandler) RegisterHealthCheck(router *mux.Router, db Pinger, cache *redis.Client) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			logger.Error(r.Context()).Err(err).Msg("Health check failed")
			respondError(w, http.StatusServiceUnavailable, "Database unavailable")
			return
		}

		message := "Storefront is healthy"
		if cache != nil {
			if err := cache.Ping(r.Context()).Err(); err != nil {
				logger.Warn(r.Context()).Err(err).Msg("Cache unreachable")
				message = "Storefront is healthy, cache unavailable"
			}
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: message,
		})
	}).Methods("GET")
}

// RefreshProductsMetric sets the total products gauge from the repository
func (h *ProductHandler) RefreshProductsMetric(ctx context.Context) {
	count, err := h.repo.Count(ctx, "")
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to refresh products metric")
		return
	}
	h.totalProducts.Set(float64(count))
}
