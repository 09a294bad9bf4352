package command

import (
	"context"
	"fmt"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
	"github.com/tair/reclaimed-storefront/pkg/logger"
)

const (
	MessageFavoriteAdded   = "Added to favorites"
	MessageFavoriteRemoved = "Removed from favorites"
)

// ToggleFavoriteCommand flips the viewer's favorite for one product
type ToggleFavoriteCommand struct {
	ViewerID  string
	ProductID string
}

// ToggleFavoriteResult carries the favorite id after the toggle, nil when removed
type ToggleFavoriteResult struct {
	Message    string  `json:"message"`
	FavoriteID *string `json:"favoriteId"`
}

// ToggleFavoriteHandler handles the favorite toggle command
type ToggleFavoriteHandler struct {
	favorites domain.FavoriteRepository
	events    FavoriteEventPublisher
}

// NewToggleFavoriteHandler creates a new toggle handler. events may be nil.
func NewToggleFavoriteHandler(favorites domain.FavoriteRepository, events FavoriteEventPublisher) *ToggleFavoriteHandler {
	return &ToggleFavoriteHandler{favorites: favorites, events: events}
}

// Handle executes the toggle
func (h *ToggleFavoriteHandler) Handle(ctx context.Context, cmd ToggleFavoriteCommand) (*ToggleFavoriteResult, error) {
	if cmd.ViewerID == "" {
		return nil, fmt.Errorf("viewer is required: %w", domain.ErrInvalidInput)
	}
	if cmd.ProductID == "" {
		return nil, fmt.Errorf("invalid product id: %w", domain.ErrInvalidInput)
	}

	favoriteID, err := h.favorites.Toggle(ctx, cmd.ViewerID, cmd.ProductID)
	if err != nil {
		return nil, err
	}

	result := &ToggleFavoriteResult{Message: MessageFavoriteRemoved, FavoriteID: favoriteID}
	if favoriteID != nil {
		result.Message = MessageFavoriteAdded
	}

	if h.events != nil {
		if err := h.events.PublishFavoriteToggled(ctx, cmd.ViewerID, cmd.ProductID, favoriteID); err != nil {
			logger.Warn(ctx).Err(err).Str("product_id", cmd.ProductID).Msg("Favorite event not published")
		}
	}

	logger.Info(ctx).
		Str("product_id", cmd.ProductID).
		Bool("favorite", favoriteID != nil).
		Msg("Favorite toggled")

	return result, nil
}
