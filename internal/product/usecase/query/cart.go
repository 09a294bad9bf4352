package query

import (
	"context"
	"fmt"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
)

// GetCartHandler returns the viewer's cart, creating an empty one on first visit
type GetCartHandler struct {
	carts  domain.CartRepository
	images domain.ImageResolver
}

func NewGetCartHandler(carts domain.CartRepository, images domain.ImageResolver) *GetCartHandler {
	return &GetCartHandler{carts: carts, images: images}
}

func (h *GetCartHandler) Handle(ctx context.Context, viewerID string) (*domain.Cart, error) {
	if viewerID == "" {
		return nil, fmt.Errorf("viewer is required: %w", domain.ErrInvalidInput)
	}
	cart, err := h.carts.FetchOrCreate(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	for i := range cart.CartItems {
		if p := cart.CartItems[i].Product; p != nil {
			p.ImageURL = h.images.Resolve(p.Image)
		}
	}
	return cart, nil
}

// CountCartItemsHandler backs the cart badge. Anonymous viewers always have 0.
type CountCartItemsHandler struct {
	carts domain.CartRepository
}

func NewCountCartItemsHandler(carts domain.CartRepository) *CountCartItemsHandler {
	return &CountCartItemsHandler{carts: carts}
}

func (h *CountCartItemsHandler) Handle(ctx context.Context, viewerID string) (int, error) {
	if viewerID == "" {
		return 0, nil
	}
	count, err := h.carts.CountItems(ctx, viewerID)
	if err != nil {
		return 0, fmt.Errorf("failed to count cart items: %w", err)
	}
	return count, nil
}
