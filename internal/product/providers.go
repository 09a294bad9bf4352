package product

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tair/reclaimed-storefront/internal/product/cache"
	"github.com/tair/reclaimed-storefront/internal/product/delivery/http"
	"github.com/tair/reclaimed-storefront/internal/product/domain"
	"github.com/tair/reclaimed-storefront/internal/product/repository"
	"github.com/tair/reclaimed-storefront/internal/product/usecase/command"
	"github.com/tair/reclaimed-storefront/internal/product/usecase/query"
	"github.com/tair/reclaimed-storefront/internal/storage"
	"github.com/tair/reclaimed-storefront/kafka"
	"github.com/tair/reclaimed-storefront/pkg/config"
	"github.com/tair/reclaimed-storefront/pkg/middleware"
)

// Infrastructure holds the adapters built by main. Redis, Publisher and Store
// may be nil, which disables caching and rate limiting, events and image removal.
type Infrastructure struct {
	Redis      *redis.Client
	Publisher  *kafka.Publisher
	Store      *storage.MinioStore
	Images     *storage.ImageResolver
	Registerer prometheus.Registerer
	Catalog    config.CatalogConfig
	Auth       config.AuthConfig
}

// Handlers are the HTTP entry points of the storefront
type Handlers struct {
	Products *http.ProductHandler
	Reviews  *http.ReviewHandler
	Cart     *http.CartHandler
}

// Repositories, traced

func ProvideProductRepository(db *gorm.DB) domain.ProductRepository {
	return repository.NewTracingProductRepository(repository.NewGormProductRepository(db))
}

func ProvideFavoriteRepository(db *gorm.DB) domain.FavoriteRepository {
	return repository.NewTracingFavoriteRepository(repository.NewGormFavoriteRepository(db))
}

func ProvideReviewRepository(db *gorm.DB) domain.ReviewRepository {
	return repository.NewTracingReviewRepository(repository.NewGormReviewRepository(db))
}

func ProvideCartRepository(db *gorm.DB) domain.CartRepository {
	return repository.NewTracingCartRepository(repository.NewGormCartRepository(db))
}

// Adapters. Nil pointers become nil interfaces so the use cases can skip them.

func ProvideImageResolver(images *storage.ImageResolver) domain.ImageResolver {
	return images
}

func ProvideObjectStore(store *storage.MinioStore) storage.ObjectStore {
	if store == nil {
		return nil
	}
	return store
}

func ProvideEventPublisher(publisher *kafka.Publisher) command.FavoriteEventPublisher {
	if publisher == nil {
		return nil
	}
	return publisher
}

func ProvideListingCache(client *redis.Client, catalog config.CatalogConfig) *cache.ListingCache {
	if client == nil {
		return nil
	}
	return cache.NewListingCache(client, catalog.CacheTTL)
}

func ProvideListingInvalidator(listingCache *cache.ListingCache) command.ListingInvalidator {
	if listingCache == nil {
		return nil
	}
	return listingCache
}

func ProvideAuthenticator(cfg config.AuthConfig) (*middleware.Authenticator, error) {
	return middleware.NewAuthenticator(cfg.JWTSecret, cfg.AdminUserID)
}

// ProvideToggleLimiter returns nil, which passes every request, when the limit is off
func ProvideToggleLimiter(client *redis.Client, catalog config.CatalogConfig) *middleware.RateLimiter {
	if client == nil || catalog.ToggleRateLimit <= 0 {
		return nil
	}
	return middleware.NewRateLimiter(client, "storefront:ratelimit:favorite", catalog.ToggleRateLimit, time.Minute)
}

func ProvideListFeaturedHandler(
	products domain.ProductRepository,
	favorites domain.FavoriteRepository,
	images domain.ImageResolver,
	listingCache *cache.ListingCache,
	catalog config.CatalogConfig,
) *query.ListFeaturedHandler {
	return query.NewListFeaturedHandler(products, favorites, images, listingCache, catalog.FeaturedLimit)
}
