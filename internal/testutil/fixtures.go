package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
)

// ProductOption configures a test product
type ProductOption func(*domain.Product)

func WithName(name string) ProductOption {
	return func(p *domain.Product) {
		p.Name = name
	}
}

func WithMaterial(material string) ProductOption {
	return func(p *domain.Product) {
		p.Material = material
	}
}

func WithImage(image string) ProductOption {
	return func(p *domain.Product) {
		p.Image = image
	}
}

func WithPrice(price int) ProductOption {
	return func(p *domain.Product) {
		p.Price = price
	}
}

func WithFeatured() ProductOption {
	return func(p *domain.Product) {
		p.Featured = true
	}
}

// WithCreatedAt pins the creation time, which drives listing order
func WithCreatedAt(at time.Time) ProductOption {
	return func(p *domain.Product) {
		p.CreatedAt = at
	}
}

// CreateTestProduct inserts a product with unique defaults
func CreateTestProduct(db *gorm.DB, opts ...ProductOption) *domain.Product {
	suffix := uuid.NewString()[:8]
	product := &domain.Product{
		Name:             fmt.Sprintf("Test Door %s", suffix),
		Material:         "Oak",
		ComponentGroup:   "Doors",
		Component:        "Interior door",
		Condition:        "good",
		BuildingFloorRef: "EG",
		Width:            0.9,
		Height:           2.1,
		Depth:            0.04,
		Area:             1.89,
		Mass:             25,
		Quantity:         1,
		Price:            120,
		CO2:              12.5,
		Description:      "Solid oak interior door salvaged from a school building in good condition",
		Image:            "/images/door.jpg",
		ClerkID:          "user_admin",
	}

	for _, opt := range opts {
		opt(product)
	}

	if err := db.Create(product).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test product: %v", err))
	}
	return product
}

// CreateTestProducts inserts n products created one second apart, oldest first
func CreateTestProducts(db *gorm.DB, n int) []*domain.Product {
	base := time.Now().Add(-time.Hour)
	products := make([]*domain.Product, 0, n)
	for i := 0; i < n; i++ {
		products = append(products, CreateTestProduct(db,
			WithName(fmt.Sprintf("Product %02d", i)),
			WithCreatedAt(base.Add(time.Duration(i)*time.Second)),
		))
	}
	return products
}

// CreateTestFavorite inserts a favorite row for viewer and product
func CreateTestFavorite(db *gorm.DB, viewerID, productID string) *domain.Favorite {
	favorite := &domain.Favorite{ClerkID: viewerID, ProductID: productID}
	if err := db.Create(favorite).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test favorite: %v", err))
	}
	return favorite
}

// CreateTestReview inserts a review by viewer for product
func CreateTestReview(db *gorm.DB, viewerID, productID string, rating int) *domain.Review {
	review := &domain.Review{
		ClerkID:        viewerID,
		ProductID:      productID,
		AuthorName:     "Test Viewer",
		AuthorImageURL: "https://img.example.com/avatar.png",
		Rating:         rating,
		Comment:        "Arrived as described and fitted well",
	}
	if err := db.Create(review).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test review: %v", err))
	}
	return review
}
