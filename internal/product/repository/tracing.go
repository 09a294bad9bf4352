package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
)

var tracer = otel.Tracer("product-repository")

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// TracingProductRepository wraps a ProductRepository with spans
type TracingProductRepository struct {
	next domain.ProductRepository
}

func NewTracingProductRepository(next domain.ProductRepository) *TracingProductRepository {
	return &TracingProductRepository{next: next}
}

func (r *TracingProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.String("product.name", product.Name),
			attribute.String("product.material", product.Material),
			attribute.Int("product.price", product.Price),
		),
	)
	defer span.End()

	if err := r.next.Create(ctx, product); err != nil {
		recordError(span, err)
		return err
	}

	span.SetAttributes(attribute.String("product.id", product.ID))
	return nil
}

func (r *TracingProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(attribute.String("product.id", id)),
	)
	defer span.End()

	product, err := r.next.FindByID(ctx, id)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("product.name", product.Name),
		attribute.Bool("product.featured", product.Featured),
	)
	return product, nil
}

func (r *TracingProductRepository) Update(ctx context.Context, product *domain.Product) error {
	ctx, span := tracer.Start(ctx, "repository.Update",
		trace.WithAttributes(attribute.String("product.id", product.ID)),
	)
	defer span.End()

	if err := r.next.Update(ctx, product); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

func (r *TracingProductRepository) Delete(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.Delete",
		trace.WithAttributes(attribute.String("product.id", id)),
	)
	defer span.End()

	product, err := r.next.Delete(ctx, id)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return product, nil
}

func (r *TracingProductRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.List",
		trace.WithAttributes(
			attribute.String("query.search", filter.Search),
			attribute.Int("query.offset", filter.Offset),
			attribute.Int("query.limit", filter.Limit),
		),
	)
	defer span.End()

	products, err := r.next.List(ctx, filter)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

func (r *TracingProductRepository) Count(ctx context.Context, search string) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.Count",
		trace.WithAttributes(attribute.String("query.search", search)),
	)
	defer span.End()

	count, err := r.next.Count(ctx, search)
	if err != nil {
		recordError(span, err)
		return 0, err
	}

	span.SetAttributes(attribute.Int64("result.total", count))
	return count, nil
}

func (r *TracingProductRepository) FindFeatured(ctx context.Context, limit int) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.FindFeatured",
		trace.WithAttributes(attribute.Int("query.limit", limit)),
	)
	defer span.End()

	products, err := r.next.FindFeatured(ctx, limit)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

func (r *TracingProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.FindAll")
	defer span.End()

	products, err := r.next.FindAll(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

// TracingFavoriteRepository wraps a FavoriteRepository with spans
type TracingFavoriteRepository struct {
	next domain.FavoriteRepository
}

func NewTracingFavoriteRepository(next domain.FavoriteRepository) *TracingFavoriteRepository {
	return &TracingFavoriteRepository{next: next}
}

func (r *TracingFavoriteRepository) FindIDsByProducts(ctx context.Context, viewerID string, productIDs []string) (map[string]string, error) {
	ctx, span := tracer.Start(ctx, "repository.FindFavoriteIDs",
		trace.WithAttributes(
			attribute.String("viewer.id", viewerID),
			attribute.Int("query.products", len(productIDs)),
		),
	)
	defer span.End()

	ids, err := r.next.FindIDsByProducts(ctx, viewerID, productIDs)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(ids)))
	return ids, nil
}

func (r *TracingFavoriteRepository) Toggle(ctx context.Context, viewerID, productID string) (*string, error) {
	ctx, span := tracer.Start(ctx, "repository.ToggleFavorite",
		trace.WithAttributes(
			attribute.String("viewer.id", viewerID),
			attribute.String("product.id", productID),
		),
	)
	defer span.End()

	favoriteID, err := r.next.Toggle(ctx, viewerID, productID)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Bool("favorite.added", favoriteID != nil))
	return favoriteID, nil
}

func (r *TracingFavoriteRepository) FindByViewer(ctx context.Context, viewerID string) ([]domain.Favorite, error) {
	ctx, span := tracer.Start(ctx, "repository.FindFavoritesByViewer",
		trace.WithAttributes(attribute.String("viewer.id", viewerID)),
	)
	defer span.End()

	favorites, err := r.next.FindByViewer(ctx, viewerID)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(favorites)))
	return favorites, nil
}

// TracingReviewRepository wraps a ReviewRepository with spans
type TracingReviewRepository struct {
	next domain.ReviewRepository
}

func NewTracingReviewRepository(next domain.ReviewRepository) *TracingReviewRepository {
	return &TracingReviewRepository{next: next}
}

func (r *TracingReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	ctx, span := tracer.Start(ctx, "repository.CreateReview",
		trace.WithAttributes(
			attribute.String("product.id", review.ProductID),
			attribute.Int("review.rating", review.Rating),
		),
	)
	defer span.End()

	if err := r.next.Create(ctx, review); err != nil {
		recordError(span, err)
		return err
	}
	span.SetAttributes(attribute.String("review.id", review.ID))
	return nil
}

func (r *TracingReviewRepository) FindByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	ctx, span := tracer.Start(ctx, "repository.FindReviewsByProduct",
		trace.WithAttributes(attribute.String("product.id", productID)),
	)
	defer span.End()

	reviews, err := r.next.FindByProduct(ctx, productID)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("result.count", len(reviews)))
	return reviews, nil
}

func (r *TracingReviewRepository) FindByViewer(ctx context.Context, viewerID string) ([]domain.Review, error) {
	ctx, span := tracer.Start(ctx, "repository.FindReviewsByViewer",
		trace.WithAttributes(attribute.String("viewer.id", viewerID)),
	)
	defer span.End()

	reviews, err := r.next.FindByViewer(ctx, viewerID)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("result.count", len(reviews)))
	return reviews, nil
}

func (r *TracingReviewRepository) FindExisting(ctx context.Context, viewerID, productID string) (*domain.Review, error) {
	ctx, span := tracer.Start(ctx, "repository.FindExistingReview",
		trace.WithAttributes(
			attribute.String("viewer.id", viewerID),
			attribute.String("product.id", productID),
		),
	)
	defer span.End()

	review, err := r.next.FindExisting(ctx, viewerID, productID)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return review, nil
}

func (r *TracingReviewRepository) Delete(ctx context.Context, id, viewerID string) error {
	ctx, span := tracer.Start(ctx, "repository.DeleteReview",
		trace.WithAttributes(attribute.String("review.id", id)),
	)
	defer span.End()

	if err := r.next.Delete(ctx, id, viewerID); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

func (r *TracingReviewRepository) Rating(ctx context.Context, productID string) (domain.ProductRating, error) {
	ctx, span := tracer.Start(ctx, "repository.ProductRating",
		trace.WithAttributes(attribute.String("product.id", productID)),
	)
	defer span.End()

	rating, err := r.next.Rating(ctx, productID)
	if err != nil {
		recordError(span, err)
		return rating, err
	}
	span.SetAttributes(
		attribute.Float64("rating.average", rating.Rating),
		attribute.Int64("rating.count", rating.Count),
	)
	return rating, nil
}

// TracingCartRepository wraps a CartRepository with spans
type TracingCartRepository struct {
	next domain.CartRepository
}

func NewTracingCartRepository(next domain.CartRepository) *TracingCartRepository {
	return &TracingCartRepository{next: next}
}

func (r *TracingCartRepository) FindByViewer(ctx context.Context, viewerID string) (*domain.Cart, error) {
	ctx, span := tracer.Start(ctx, "repository.FindCart",
		trace.WithAttributes(attribute.String("viewer.id", viewerID)),
	)
	defer span.End()

	cart, err := r.next.FindByViewer(ctx, viewerID)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return cart, nil
}

func (r *TracingCartRepository) FetchOrCreate(ctx context.Context, viewerID string) (*domain.Cart, error) {
	ctx, span := tracer.Start(ctx, "repository.FetchOrCreateCart",
		trace.WithAttributes(attribute.String("viewer.id", viewerID)),
	)
	defer span.End()

	cart, err := r.next.FetchOrCreate(ctx, viewerID)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.String("cart.id", cart.ID))
	return cart, nil
}

func (r *TracingCartRepository) AddItem(ctx context.Context, viewerID, productID string, amount int) (*domain.Cart, error) {
	ctx, span := tracer.Start(ctx, "repository.AddCartItem",
		trace.WithAttributes(
			attribute.String("viewer.id", viewerID),
			attribute.String("product.id", productID),
			attribute.Int("cart.amount", amount),
		),
	)
	defer span.End()

	cart, err := r.next.AddItem(ctx, viewerID, productID, amount)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("cart.items", cart.NumItemsInCart))
	return cart, nil
}

func (r *TracingCartRepository) CountItems(ctx context.Context, viewerID string) (int, error) {
	ctx, span := tracer.Start(ctx, "repository.CountCartItems",
		trace.WithAttributes(attribute.String("viewer.id", viewerID)),
	)
	defer span.End()

	n, err := r.next.CountItems(ctx, viewerID)
	if err != nil {
		recordError(span, err)
		return 0, err
	}
	return n, nil
}
