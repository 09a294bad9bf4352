package command

import (
	"context"
	"fmt"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
	"github.com/tair/reclaimed-storefront/internal/storage"
	"github.com/tair/reclaimed-storefront/pkg/logger"
)

// DeleteProductCommand represents the command to delete a product
type DeleteProductCommand struct {
	ID string
}

// DeleteProductHandler handles product deletion command
type DeleteProductHandler struct {
	repo  domain.ProductRepository
	store storage.ObjectStore
	cache ListingInvalidator
}

// NewDeleteProductHandler creates a new delete product handler
func NewDeleteProductHandler(repo domain.ProductRepository, store storage.ObjectStore, cache ListingInvalidator) *DeleteProductHandler {
	return &DeleteProductHandler{repo: repo, store: store, cache: cache}
}

// Handle deletes the product with its favorites, then its stored image
func (h *DeleteProductHandler) Handle(ctx context.Context, cmd DeleteProductCommand) error {
	if cmd.ID == "" {
		return fmt.Errorf("invalid product id: %w", domain.ErrInvalidInput)
	}

	product, err := h.repo.Delete(ctx, cmd.ID)
	if err != nil {
		return err
	}

	invalidateListings(ctx, h.cache)

	if err := removeStoredImage(ctx, h.store, product.Image); err != nil {
		return fmt.Errorf("product removed but image was not: %w", err)
	}

	logger.Info(ctx).Str("product_id", cmd.ID).Msg("Product removed")
	return nil
}
