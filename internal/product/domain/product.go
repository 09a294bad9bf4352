package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// Product is a reclaimed building component offered in the storefront
type Product struct {
	ID               string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name             string    `json:"name" gorm:"not null"`
	Material         string    `json:"material" gorm:"not null;default:''"`
	ComponentGroup   string    `json:"componentGroup"`
	Component        string    `json:"component"`
	Condition        string    `json:"condition"`
	BuildingFloorRef string    `json:"buildingFloorRef"`
	Width            float64   `json:"width"`
	Height           float64   `json:"height"`
	Depth            float64   `json:"depth"`
	Area             float64   `json:"area"`
	Mass             float64   `json:"mass"`
	Quantity         int       `json:"quantity" gorm:"not null;default:1"`
	Price            int       `json:"price" gorm:"not null;default:0"`
	CO2              float64   `json:"co2" gorm:"column:co2"`
	Description      string    `json:"description"`
	Image            string    `json:"image"`
	Featured         bool      `json:"featured" gorm:"not null;default:false;index"`
	ClerkID          string    `json:"clerkId" gorm:"not null;index"`
	CreatedAt        time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt        time.Time `json:"updatedAt"`

	// ImageURL is the displayable form of Image, filled in before responding
	ImageURL string `json:"imageUrl" gorm:"-"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ProductWithFavoriteID is a product as seen by one viewer. FavoriteID is the id of the
// viewer's favorite row for the product, nil when there is none or the viewer is anonymous.
type ProductWithFavoriteID struct {
	Product
	FavoriteID *string `json:"favoriteId"`
}

// ListFilter selects one page of the catalogue
type ListFilter struct {
	Search string
	Offset int
	Limit  int
}

// ImageResolver turns a stored image reference into a URL
type ImageResolver interface {
	Resolve(image string) string
}

// ResolveImages fills ImageURL on every product
func ResolveImages(resolver ImageResolver, products []Product) {
	for i := range products {
		products[i].ImageURL = resolver.Resolve(products[i].Image)
	}
}

// ProductRepository defines the contract for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	Update(ctx context.Context, product *Product) error
	// Delete removes the product together with its favorites and returns the removed row
	Delete(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, filter ListFilter) ([]Product, error)
	Count(ctx context.Context, search string) (int64, error)
	FindFeatured(ctx context.Context, limit int) ([]Product, error)
	FindAll(ctx context.Context) ([]Product, error)
}
