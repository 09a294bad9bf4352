package query

import (
	"context"
	"fmt"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
)

// ListFavoritesHandler lists the viewer's favorites with their products
type ListFavoritesHandler struct {
	favorites domain.FavoriteRepository
	images    domain.ImageResolver
}

func NewListFavoritesHandler(favorites domain.FavoriteRepository, images domain.ImageResolver) *ListFavoritesHandler {
	return &ListFavoritesHandler{favorites: favorites, images: images}
}

func (h *ListFavoritesHandler) Handle(ctx context.Context, viewerID string) ([]domain.Favorite, error) {
	if viewerID == "" {
		return nil, fmt.Errorf("viewer is required: %w", domain.ErrInvalidInput)
	}

	favorites, err := h.favorites.FindByViewer(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	for i := range favorites {
		if p := favorites[i].Product; p != nil {
			p.ImageURL = h.images.Resolve(p.Image)
		}
	}
	return favorites, nil
}
