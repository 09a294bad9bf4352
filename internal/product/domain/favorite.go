package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favorite marks a product as favorited by one viewer
type Favorite struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ClerkID   string    `json:"clerkId" gorm:"not null;uniqueIndex:idx_favorites_viewer_product"`
	ProductID string    `json:"productId" gorm:"type:varchar(36);not null;uniqueIndex:idx_favorites_viewer_product;index"`
	Product   *Product  `json:"product,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (Favorite) TableName() string {
	return "favorites"
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// FavoriteRepository defines the contract for favorite data access
type FavoriteRepository interface {
	// FindIDsByProducts returns productID -> favoriteID for the viewer's favorites among productIDs
	FindIDsByProducts(ctx context.Context, viewerID string, productIDs []string) (map[string]string, error)
	// Toggle removes the viewer's favorite for the product if present, otherwise creates it.
	// It returns the new favorite id, or nil when the favorite was removed.
	Toggle(ctx context.Context, viewerID, productID string) (*string, error)
	FindByViewer(ctx context.Context, viewerID string) ([]Favorite, error)
}
