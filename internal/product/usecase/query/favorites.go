package query

import (
	"context"
	"fmt"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
)

// withFavoriteIDs pairs every product with the viewer's favorite id using one batched lookup.
// Anonymous viewers get a nil id everywhere without touching the favorites table.
func withFavoriteIDs(ctx context.Context, favorites domain.FavoriteRepository, viewerID string, products []domain.Product) ([]domain.ProductWithFavoriteID, error) {
	out := make([]domain.ProductWithFavoriteID, len(products))
	for i := range products {
		out[i].Product = products[i]
	}

	if viewerID == "" || len(products) == 0 {
		return out, nil
	}

	ids := make([]string, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}

	byProduct, err := favorites.FindIDsByProducts(ctx, viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}

	for i := range out {
		if id, ok := byProduct[out[i].ID]; ok {
			out[i].FavoriteID = &id
		}
	}
	return out, nil
}
