package query

import (
	"context"
	"fmt"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
)

// GetProductQuery represents the query to get a product by ID
type GetProductQuery struct {
	ID       string
	ViewerID string
}

// GetProductHandler handles get product query
type GetProductHandler struct {
	products  domain.ProductRepository
	favorites domain.FavoriteRepository
	images    domain.ImageResolver
}

// NewGetProductHandler creates a new get product handler
func NewGetProductHandler(products domain.ProductRepository, favorites domain.FavoriteRepository, images domain.ImageResolver) *GetProductHandler {
	return &GetProductHandler{products: products, favorites: favorites, images: images}
}

// Handle executes the get product query
func (h *GetProductHandler) Handle(ctx context.Context, query GetProductQuery) (*domain.ProductWithFavoriteID, error) {
	if query.ID == "" {
		return nil, fmt.Errorf("invalid product id: %w", domain.ErrInvalidInput)
	}

	product, err := h.products.FindByID(ctx, query.ID)
	if err != nil {
		return nil, err
	}
	product.ImageURL = h.images.Resolve(product.Image)

	result, err := withFavoriteIDs(ctx, h.favorites, query.ViewerID, []domain.Product{*product})
	if err != nil {
		return nil, err
	}
	return &result[0], nil
}
