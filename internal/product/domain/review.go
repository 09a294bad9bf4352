package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is one viewer's rating of a product. A viewer reviews a product at most once.
type Review struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ClerkID        string    `json:"clerkId" gorm:"not null;uniqueIndex:idx_reviews_viewer_product"`
	ProductID      string    `json:"productId" gorm:"type:varchar(36);not null;uniqueIndex:idx_reviews_viewer_product;index"`
	Product        *Product  `json:"product,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	AuthorName     string    `json:"authorName" gorm:"not null"`
	AuthorImageURL string    `json:"authorImageUrl"`
	Rating         int       `json:"rating" gorm:"not null"`
	Comment        string    `json:"comment"`
	CreatedAt      time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (Review) TableName() string {
	return "reviews"
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ProductRating is the average rating rounded to one decimal and the number of reviews
type ProductRating struct {
	Rating float64 `json:"rating"`
	Count  int64   `json:"count"`
}

// ReviewRepository defines the contract for review data access
type ReviewRepository interface {
	// Create fails with ErrDuplicateReview when the viewer already reviewed the product
	Create(ctx context.Context, review *Review) error
	FindByProduct(ctx context.Context, productID string) ([]Review, error)
	FindByViewer(ctx context.Context, viewerID string) ([]Review, error)
	FindExisting(ctx context.Context, viewerID, productID string) (*Review, error)
	// Delete removes the review only when it belongs to viewerID
	Delete(ctx context.Context, id, viewerID string) error
	Rating(ctx context.Context, productID string) (ProductRating, error)
}
