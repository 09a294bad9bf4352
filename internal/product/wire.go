//go:build wireinject
// +build wireinject

package product

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/reclaimed-storefront/internal/product/delivery/http"
	"github.com/tair/reclaimed-storefront/internal/product/usecase/command"
	"github.com/tair/reclaimed-storefront/internal/product/usecase/query"
)

var RepositorySet = wire.NewSet(
	ProvideProductRepository,
	ProvideFavoriteRepository,
	ProvideReviewRepository,
	ProvideCartRepository,
)

var AdapterSet = wire.NewSet(
	ProvideImageResolver,
	ProvideObjectStore,
	ProvideEventPublisher,
	ProvideListingCache,
	ProvideListingInvalidator,
	ProvideAuthenticator,
	ProvideToggleLimiter,
)

var CommandHandlerSet = wire.NewSet(
	command.NewCreateProductHandler,
	command.NewUpdateProductHandler,
	command.NewDeleteProductHandler,
	command.NewToggleFavoriteHandler,
	command.NewCreateReviewHandler,
	command.NewDeleteReviewHandler,
	command.NewAddToCartHandler,
)

var QueryHandlerSet = wire.NewSet(
	query.NewListProductsHandler,
	ProvideListFeaturedHandler,
	query.NewGetProductHandler,
	query.NewListFavoritesHandler,
	query.NewListAdminProductsHandler,
	query.NewListProductReviewsHandler,
	query.NewListViewerReviewsHandler,
	query.NewFindExistingReviewHandler,
	query.NewGetProductRatingHandler,
	query.NewGetCartHandler,
	query.NewCountCartItemsHandler,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	AdapterSet,
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeHandlers builds every HTTP handler of the storefront
func InitializeHandlers(db *gorm.DB, infra Infrastructure) (*Handlers, error) {
	wire.Build(
		wire.FieldsOf(new(Infrastructure), "Redis", "Publisher", "Store", "Images", "Registerer", "Catalog", "Auth"),
		AllHandlersSet,
		http.NewProductHandler,
		http.NewReviewHandler,
		http.NewCartHandler,
		wire.Struct(new(Handlers), "*"),
	)
	return nil, nil
}
