package command

import (
	"context"
	"fmt"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
	"github.com/tair/reclaimed-storefront/pkg/logger"
)

// CreateProductCommand represents the command to create a new product.
// Image is a reference produced by the upload pipeline: an object key, a /images/ path or a URL.
type CreateProductCommand struct {
	ProductInput
	Image   string `json:"image"`
	ClerkID string `json:"-"`
}

// CreateProductHandler handles product creation command
type CreateProductHandler struct {
	repo  domain.ProductRepository
	cache ListingInvalidator
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(repo domain.ProductRepository, cache ListingInvalidator) *CreateProductHandler {
	return &CreateProductHandler{repo: repo, cache: cache}
}

// Handle executes the create product command
func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	input := cmd.ProductInput.normalized()
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if cmd.ClerkID == "" {
		return nil, fmt.Errorf("creator is required: %w", domain.ErrInvalidInput)
	}

	product := &domain.Product{
		Image:   cmd.Image,
		ClerkID: cmd.ClerkID,
	}
	input.apply(product)

	if err := h.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	invalidateListings(ctx, h.cache)

	logger.Info(ctx).
		Str("product_id", product.ID).
		Str("product_name", product.Name).
		Msg("Product created")

	return product, nil
}
