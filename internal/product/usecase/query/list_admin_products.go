package query

import (
	"context"
	"fmt"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
)

// ListAdminProductsHandler lists every product for the admin table
type ListAdminProductsHandler struct {
	products domain.ProductRepository
	images   domain.ImageResolver
}

func NewListAdminProductsHandler(products domain.ProductRepository, images domain.ImageResolver) *ListAdminProductsHandler {
	return &ListAdminProductsHandler{products: products, images: images}
}

func (h *ListAdminProductsHandler) Handle(ctx context.Context) ([]domain.Product, error) {
	products, err := h.products.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	domain.ResolveImages(h.images, products)
	return products, nil
}
