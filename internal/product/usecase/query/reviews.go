package query

import (
	"context"
	"fmt"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
)

// ListProductReviewsHandler lists a product's reviews, newest first
type ListProductReviewsHandler struct {
	reviews domain.ReviewRepository
}

func NewListProductReviewsHandler(reviews domain.ReviewRepository) *ListProductReviewsHandler {
	return &ListProductReviewsHandler{reviews: reviews}
}

func (h *ListProductReviewsHandler) Handle(ctx context.Context, productID string) ([]domain.Review, error) {
	if productID == "" {
		return nil, fmt.Errorf("invalid product id: %w", domain.ErrInvalidInput)
	}
	reviews, err := h.reviews.FindByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// ListViewerReviewsHandler lists the reviews written by the viewer
type ListViewerReviewsHandler struct {
	reviews domain.ReviewRepository
	images  domain.ImageResolver
}

func NewListViewerReviewsHandler(reviews domain.ReviewRepository, images domain.ImageResolver) *ListViewerReviewsHandler {
	return &ListViewerReviewsHandler{reviews: reviews, images: images}
}

func (h *ListViewerReviewsHandler) Handle(ctx context.Context, viewerID string) ([]domain.Review, error) {
	if viewerID == "" {
		return nil, fmt.Errorf("viewer is required: %w", domain.ErrInvalidInput)
	}
	reviews, err := h.reviews.FindByViewer(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	for i := range reviews {
		if p := reviews[i].Product; p != nil {
			p.ImageURL = h.images.Resolve(p.Image)
		}
	}
	return reviews, nil
}

// ExistingReviewQuery asks whether the viewer already reviewed a product
type ExistingReviewQuery struct {
	ViewerID  string
	ProductID string
}

type FindExistingReviewHandler struct {
	reviews domain.ReviewRepository
}

func NewFindExistingReviewHandler(reviews domain.ReviewRepository) *FindExistingReviewHandler {
	return &FindExistingReviewHandler{reviews: reviews}
}

// Handle returns ErrReviewNotFound when the viewer has not reviewed the product
func (h *FindExistingReviewHandler) Handle(ctx context.Context, q ExistingReviewQuery) (*domain.Review, error) {
	if q.ViewerID == "" || q.ProductID == "" {
		return nil, fmt.Errorf("viewer and product are required: %w", domain.ErrInvalidInput)
	}
	return h.reviews.FindExisting(ctx, q.ViewerID, q.ProductID)
}

type GetProductRatingHandler struct {
	reviews domain.ReviewRepository
}

func NewGetProductRatingHandler(reviews domain.ReviewRepository) *GetProductRatingHandler {
	return &GetProductRatingHandler{reviews: reviews}
}

// Handle returns the average rating rounded to one decimal and the review count
func (h *GetProductRatingHandler) Handle(ctx context.Context, productID string) (domain.ProductRating, error) {
	if productID == "" {
		return domain.ProductRating{}, fmt.Errorf("invalid product id: %w", domain.ErrInvalidInput)
	}
	rating, err := h.reviews.Rating(ctx, productID)
	if err != nil {
		return domain.ProductRating{}, fmt.Errorf("failed to compute rating: %w", err)
	}
	return rating, nil
}
