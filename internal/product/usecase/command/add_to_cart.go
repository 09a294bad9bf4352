package command

import (
	"context"
	"fmt"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
	"github.com/tair/reclaimed-storefront/pkg/logger"
)

const MessageAddedToCart = "Products added to cart"

// AddToCartCommand adds Amount of a product to the viewer's cart
type AddToCartCommand struct {
	ViewerID  string `json:"-"`
	ProductID string `json:"productId" validate:"required"`
	Amount    int    `json:"amount" validate:"min=1,max=100"`
}

type AddToCartHandler struct {
	carts domain.CartRepository
}

func NewAddToCartHandler(carts domain.CartRepository) *AddToCartHandler {
	return &AddToCartHandler{carts: carts}
}

// Handle creates the cart on first use, merges the amount into an existing line
// and recomputes the totals
func (h *AddToCartHandler) Handle(ctx context.Context, cmd AddToCartCommand) (*domain.Cart, error) {
	if err := validateStruct(cmd); err != nil {
		return nil, err
	}
	if cmd.ViewerID == "" {
		return nil, fmt.Errorf("viewer is required: %w", domain.ErrInvalidInput)
	}

	cart, err := h.carts.AddItem(ctx, cmd.ViewerID, cmd.ProductID, cmd.Amount)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Str("product_id", cmd.ProductID).
		Int("amount", cmd.Amount).
		Int("items_in_cart", cart.NumItemsInCart).
		Msg("Added to cart")

	return cart, nil
}
