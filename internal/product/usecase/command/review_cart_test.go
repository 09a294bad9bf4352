package command

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
	"github.com/tair/reclaimed-storefront/internal/product/repository"
	"github.com/tair/reclaimed-storefront/internal/testutil"
)

func TestCreateReview(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewCreateReviewHandler(repository.NewGormReviewRepository(db))
	ctx := context.Background()

	product := testutil.CreateTestProduct(db)

	review, err := h.Handle(ctx, CreateReviewCommand{
		ViewerID:       "user_1",
		ProductID:      product.ID,
		AuthorName:     "  Kim  ",
		AuthorImageURL: "https://img.example.com/kim.png",
		Rating:         4,
		Comment:        "  Sturdy frame, minor scratches on the left side  ",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, review.ID)
	assert.Equal(t, "Kim", review.AuthorName)
	assert.Equal(t, "Sturdy frame, minor scratches on the left side", review.Comment)

	_, err = h.Handle(ctx, CreateReviewCommand{
		ViewerID:  "user_1",
		ProductID: product.ID,
		Rating:    2,
		Comment:   "Changed my mind about this one",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateReview)

	anonymous, err := h.Handle(ctx, CreateReviewCommand{
		ViewerID:  "user_2",
		ProductID: product.ID,
		Rating:    5,
		Comment:   "Exactly what the renovation needed",
	})
	require.NoError(t, err)
	assert.Equal(t, "Anonymous", anonymous.AuthorName)
}

func TestCreateReviewValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewCreateReviewHandler(repository.NewGormReviewRepository(db))
	ctx := context.Background()
	product := testutil.CreateTestProduct(db)

	tests := []struct {
		name string
		cmd  CreateReviewCommand
		want []string
	}{
		{
			name: "rating too low",
			cmd:  CreateReviewCommand{ViewerID: "user_1", ProductID: product.ID, Rating: 0, Comment: "Perfectly fine panel"},
			want: []string{"rating must be at least 1."},
		},
		{
			name: "rating too high",
			cmd:  CreateReviewCommand{ViewerID: "user_1", ProductID: product.ID, Rating: 6, Comment: "Perfectly fine panel"},
			want: []string{"rating must be at most 5."},
		},
		{
			name: "comment too short",
			cmd:  CreateReviewCommand{ViewerID: "user_1", ProductID: product.ID, Rating: 3, Comment: "   ok    "},
			want: []string{"comment must be at least 10 characters."},
		},
		{
			name: "comment too long",
			cmd:  CreateReviewCommand{ViewerID: "user_1", ProductID: product.ID, Rating: 3, Comment: strings.Repeat("a", 1001)},
			want: []string{"comment must be less than 1000 characters."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Handle(ctx, tt.cmd)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.want, verr.Messages)
		})
	}

	_, err := h.Handle(ctx, CreateReviewCommand{ViewerID: "user_1", ProductID: "missing", Rating: 3, Comment: "Never arrived at all"})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = h.Handle(ctx, CreateReviewCommand{ProductID: product.ID, Rating: 3, Comment: "Never arrived at all"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeleteReview(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewDeleteReviewHandler(repository.NewGormReviewRepository(db))
	ctx := context.Background()

	product := testutil.CreateTestProduct(db)
	review := testutil.CreateTestReview(db, "user_1", product.ID, 5)

	err := h.Handle(ctx, DeleteReviewCommand{ID: review.ID, ViewerID: "user_2"})
	assert.ErrorIs(t, err, domain.ErrReviewNotFound)

	require.NoError(t, h.Handle(ctx, DeleteReviewCommand{ID: review.ID, ViewerID: "user_1"}))

	err = h.Handle(ctx, DeleteReviewCommand{ID: review.ID, ViewerID: "user_1"})
	assert.ErrorIs(t, err, domain.ErrReviewNotFound)

	err = h.Handle(ctx, DeleteReviewCommand{ID: review.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddToCart(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewAddToCartHandler(repository.NewGormCartRepository(db))
	ctx := context.Background()

	door := testutil.CreateTestProduct(db, testutil.WithPrice(100))
	window := testutil.CreateTestProduct(db, testutil.WithPrice(20))

	cart, err := h.Handle(ctx, AddToCartCommand{ViewerID: "user_1", ProductID: door.ID, Amount: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, cart.NumItemsInCart)
	assert.Equal(t, 100, cart.CartTotal)

	cart, err = h.Handle(ctx, AddToCartCommand{ViewerID: "user_1", ProductID: window.ID, Amount: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, cart.NumItemsInCart)
	assert.Equal(t, 140, cart.CartTotal)
	assert.Equal(t, "14", cart.Tax.String())
	assert.Equal(t, "159", cart.OrderTotal.String())

	_, err = h.Handle(ctx, AddToCartCommand{ViewerID: "user_1", ProductID: door.ID, Amount: 0})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"amount must be at least 1."}, verr.Messages)

	_, err = h.Handle(ctx, AddToCartCommand{ViewerID: "user_1", ProductID: "missing", Amount: 1})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = h.Handle(ctx, AddToCartCommand{ProductID: door.ID, Amount: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
