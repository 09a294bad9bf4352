package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
	"github.com/tair/reclaimed-storefront/internal/product/repository"
	"github.com/tair/reclaimed-storefront/internal/testutil"
)

func TestReviewQueries(t *testing.T) {
	f := setup(t)
	reviews := repository.NewGormReviewRepository(f.db)
	ctx := context.Background()

	product := testutil.CreateTestProduct(f.db, testutil.WithImage("users/u1/door.jpg"))
	testutil.CreateTestReview(f.db, "user_1", product.ID, 5)
	testutil.CreateTestReview(f.db, "user_2", product.ID, 4)

	list, err := NewListProductReviewsHandler(reviews).Handle(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	mine, err := NewListViewerReviewsHandler(reviews, f.images).Handle(ctx, "user_1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Product)
	assert.Equal(t, "https://abc.storage.example.co/storage/v1/object/public/main-bucket/users/u1/door.jpg", mine[0].Product.ImageURL)

	rating, err := NewGetProductRatingHandler(reviews).Handle(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, rating.Rating)
	assert.Equal(t, int64(2), rating.Count)

	existing := NewFindExistingReviewHandler(reviews)
	found, err := existing.Handle(ctx, ExistingReviewQuery{ViewerID: "user_2", ProductID: product.ID})
	require.NoError(t, err)
	assert.Equal(t, 4, found.Rating)

	_, err = existing.Handle(ctx, ExistingReviewQuery{ViewerID: "user_3", ProductID: product.ID})
	assert.ErrorIs(t, err, domain.ErrReviewNotFound)

	_, err = NewListProductReviewsHandler(reviews).Handle(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = NewListViewerReviewsHandler(reviews, f.images).Handle(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCartQueries(t *testing.T) {
	f := setup(t)
	carts := repository.NewGormCartRepository(f.db)
	ctx := context.Background()

	count, err := NewCountCartItemsHandler(carts).Handle(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = NewCountCartItemsHandler(carts).Handle(ctx, "user_1")
	require.NoError(t, err)
	assert.Zero(t, count)

	empty, err := NewGetCartHandler(carts, f.images).Handle(ctx, "user_1")
	require.NoError(t, err)
	assert.Empty(t, empty.CartItems)
	assert.Equal(t, "0", empty.OrderTotal.String())

	product := testutil.CreateTestProduct(f.db, testutil.WithImage("users/u1/beam.jpg"), testutil.WithPrice(50))
	_, err = carts.AddItem(ctx, "user_1", product.ID, 2)
	require.NoError(t, err)

	cart, err := NewGetCartHandler(carts, f.images).Handle(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, empty.ID, cart.ID)
	require.Len(t, cart.CartItems, 1)
	require.NotNil(t, cart.CartItems[0].Product)
	assert.Equal(t, "https://abc.storage.example.co/storage/v1/object/public/main-bucket/users/u1/beam.jpg", cart.CartItems[0].Product.ImageURL)
	assert.Equal(t, 100, cart.CartTotal)

	count, err = NewCountCartItemsHandler(carts).Handle(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = NewGetCartHandler(carts, f.images).Handle(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
