package command

import (
	"context"
	"fmt"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
	"github.com/tair/reclaimed-storefront/internal/storage"
	"github.com/tair/reclaimed-storefront/pkg/logger"
)

// UpdateProductCommand represents the command to update a product.
// A nil Image keeps the current image.
type UpdateProductCommand struct {
	ID string `json:"-"`
	ProductInput
	Image *string `json:"image"`
}

// UpdateProductHandler handles product update command
type UpdateProductHandler struct {
	repo  domain.ProductRepository
	store storage.ObjectStore
	cache ListingInvalidator
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(repo domain.ProductRepository, store storage.ObjectStore, cache ListingInvalidator) *UpdateProductHandler {
	return &UpdateProductHandler{repo: repo, store: store, cache: cache}
}

// Handle executes the update product command. When the image changes the previous
// stored object is removed after the row is saved.
func (h *UpdateProductHandler) Handle(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	if cmd.ID == "" {
		return nil, fmt.Errorf("invalid product id: %w", domain.ErrInvalidInput)
	}
	input := cmd.ProductInput.normalized()
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	product, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	oldImage := product.Image
	input.apply(product)
	if cmd.Image != nil {
		product.Image = *cmd.Image
	}

	if err := h.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	invalidateListings(ctx, h.cache)

	if product.Image != oldImage {
		if err := removeStoredImage(ctx, h.store, oldImage); err != nil {
			return product, fmt.Errorf("product updated but previous image was not removed: %w", err)
		}
	}

	logger.Info(ctx).Str("product_id", product.ID).Msg("Product updated")
	return product, nil
}
