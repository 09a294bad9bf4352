package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
	"github.com/tair/reclaimed-storefront/pkg/logger"
)

// CreateReviewCommand records the viewer's review of a product.
// Author details come from the viewer's session, not the request body.
type CreateReviewCommand struct {
	ViewerID       string `json:"-"`
	ProductID      string `json:"-"`
	AuthorName     string `json:"-"`
	AuthorImageURL string `json:"-"`
	Rating         int    `json:"rating" validate:"min=1,max=5"`
	Comment        string `json:"comment" validate:"min=10,max=1000"`
}

type CreateReviewHandler struct {
	reviews domain.ReviewRepository
}

func NewCreateReviewHandler(reviews domain.ReviewRepository) *CreateReviewHandler {
	return &CreateReviewHandler{reviews: reviews}
}

func (h *CreateReviewHandler) Handle(ctx context.Context, cmd CreateReviewCommand) (*domain.Review, error) {
	cmd.Comment = strings.TrimSpace(cmd.Comment)
	if err := validateStruct(cmd); err != nil {
		return nil, err
	}
	if cmd.ViewerID == "" {
		return nil, fmt.Errorf("viewer is required: %w", domain.ErrInvalidInput)
	}
	if cmd.ProductID == "" {
		return nil, fmt.Errorf("invalid product id: %w", domain.ErrInvalidInput)
	}

	authorName := strings.TrimSpace(cmd.AuthorName)
	if authorName == "" {
		authorName = "Anonymous"
	}

	review := &domain.Review{
		ClerkID:        cmd.ViewerID,
		ProductID:      cmd.ProductID,
		AuthorName:     authorName,
		AuthorImageURL: cmd.AuthorImageURL,
		Rating:         cmd.Rating,
		Comment:        cmd.Comment,
	}
	if err := h.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Str("product_id", cmd.ProductID).
		Int("rating", cmd.Rating).
		Msg("Review submitted")

	return review, nil
}
