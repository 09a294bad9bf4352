package query

import (
	"context"
	"fmt"

	"github.com/tair/reclaimed-storefront/internal/product/cache"
	"github.com/tair/reclaimed-storefront/internal/product/domain"
)

// ListFeaturedHandler lists featured products, newest first
type ListFeaturedHandler struct {
	products  domain.ProductRepository
	favorites domain.FavoriteRepository
	images    domain.ImageResolver
	cache     *cache.ListingCache
	limit     int
}

// NewListFeaturedHandler creates a featured list handler. A limit <= 0 lists all featured products.
func NewListFeaturedHandler(products domain.ProductRepository, favorites domain.FavoriteRepository, images domain.ImageResolver, listingCache *cache.ListingCache, limit int) *ListFeaturedHandler {
	return &ListFeaturedHandler{
		products:  products,
		favorites: favorites,
		images:    images,
		cache:     listingCache,
		limit:     limit,
	}
}

func (h *ListFeaturedHandler) Handle(ctx context.Context, viewerID string) ([]domain.ProductWithFavoriteID, error) {
	key := cache.FeaturedKey(h.limit)
	if viewerID == "" {
		var cached []domain.ProductWithFavoriteID
		if h.cache.Get(ctx, key, &cached) {
			return cached, nil
		}
	}

	products, err := h.products.FindFeatured(ctx, h.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured products: %w", err)
	}
	domain.ResolveImages(h.images, products)

	result, err := withFavoriteIDs(ctx, h.favorites, viewerID, products)
	if err != nil {
		return nil, err
	}

	if viewerID == "" {
		h.cache.Set(ctx, key, result)
	}
	return result, nil
}
