package command

import (
	"context"

	"github.com/tair/reclaimed-storefront/internal/storage"
	"github.com/tair/reclaimed-storefront/pkg/logger"
)

// ListingInvalidator drops cached catalogue pages after a product write
type ListingInvalidator interface {
	Invalidate(ctx context.Context) error
}

// FavoriteEventPublisher announces favorite changes. A nil favoriteID means removed.
type FavoriteEventPublisher interface {
	PublishFavoriteToggled(ctx context.Context, viewerID, productID string, favoriteID *string) error
}

func invalidateListings(ctx context.Context, cache ListingInvalidator) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx); err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to invalidate listing cache")
	}
}

// removeStoredImage deletes image from the object store when it is a stored object key.
// Bundled assets and external URLs are left alone.
func removeStoredImage(ctx context.Context, store storage.ObjectStore, image string) error {
	if store == nil || !storage.IsObjectKey(image) {
		return nil
	}
	return store.Remove(ctx, image)
}
