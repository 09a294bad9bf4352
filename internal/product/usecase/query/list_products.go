package query

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/tair/reclaimed-storefront/internal/product/cache"
	"github.com/tair/reclaimed-storefront/internal/product/domain"
)

// ListProductsQuery asks for one page of the catalogue as seen by a viewer.
// ViewerID is empty for anonymous requests.
type ListProductsQuery struct {
	Page     int
	PageSize int
	Search   string
	ViewerID string
}

// ListProductsResult is one catalogue page
type ListProductsResult struct {
	Products      []domain.ProductWithFavoriteID `json:"products"`
	TotalProducts int64                          `json:"totalProducts"`
	PageSize      int                            `json:"pageSize"`
}

// ListProductsHandler handles list products query
type ListProductsHandler struct {
	products  domain.ProductRepository
	favorites domain.FavoriteRepository
	images    domain.ImageResolver
	cache     *cache.ListingCache
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(products domain.ProductRepository, favorites domain.FavoriteRepository, images domain.ImageResolver, listingCache *cache.ListingCache) *ListProductsHandler {
	return &ListProductsHandler{
		products:  products,
		favorites: favorites,
		images:    images,
		cache:     listingCache,
	}
}

// Normalize coerces page and page size into range. The search term is kept verbatim.
func (q ListProductsQuery) Normalize() ListProductsQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = domain.DefaultPageSize
	}
	if q.PageSize > domain.MaxPageSize {
		q.PageSize = domain.MaxPageSize
	}
	return q
}

// Offset is the number of rows before the page. ok is false when the offset does
// not fit in an int, which can only be past the end of the catalogue.
func (q ListProductsQuery) Offset() (offset int, ok bool) {
	if q.Page-1 > math.MaxInt/q.PageSize {
		return 0, false
	}
	return (q.Page - 1) * q.PageSize, true
}

// Handle executes the list products query. A page past the end is empty, not an error.
func (h *ListProductsHandler) Handle(ctx context.Context, query ListProductsQuery) (*ListProductsResult, error) {
	query = query.Normalize()

	anonymous := query.ViewerID == ""
	key := cache.PageKey(query.Page, query.PageSize, query.Search)
	if anonymous {
		var cached ListProductsResult
		if h.cache.Get(ctx, key, &cached) {
			return &cached, nil
		}
	}

	var (
		products []domain.Product
		total    int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		offset, ok := query.Offset()
		if !ok {
			return nil
		}
		var err error
		products, err = h.products.List(gctx, domain.ListFilter{
			Search: query.Search,
			Offset: offset,
			Limit:  query.PageSize,
		})
		return err
	})
	g.Go(func() error {
		var err error
		total, err = h.products.Count(gctx, query.Search)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	domain.ResolveImages(h.images, products)

	withFavorites, err := withFavoriteIDs(ctx, h.favorites, query.ViewerID, products)
	if err != nil {
		return nil, err
	}

	result := &ListProductsResult{
		Products:      withFavorites,
		TotalProducts: total,
		PageSize:      query.PageSize,
	}

	if anonymous {
		h.cache.Set(ctx, key, result)
	}
	return result, nil
}
