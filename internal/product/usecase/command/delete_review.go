package command

import (
	"context"
	"fmt"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
	"github.com/tair/reclaimed-storefront/pkg/logger"
)

// DeleteReviewCommand removes one of the viewer's own reviews
type DeleteReviewCommand struct {
	ID       string
	ViewerID string
}

type DeleteReviewHandler struct {
	reviews domain.ReviewRepository
}

func NewDeleteReviewHandler(reviews domain.ReviewRepository) *DeleteReviewHandler {
	return &DeleteReviewHandler{reviews: reviews}
}

func (h *DeleteReviewHandler) Handle(ctx context.Context, cmd DeleteReviewCommand) error {
	if cmd.ID == "" || cmd.ViewerID == "" {
		return fmt.Errorf("review and viewer are required: %w", domain.ErrInvalidInput)
	}
	if err := h.reviews.Delete(ctx, cmd.ID, cmd.ViewerID); err != nil {
		return err
	}
	logger.Info(ctx).Str("review_id", cmd.ID).Msg("Review deleted")
	return nil
}
