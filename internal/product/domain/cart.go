package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DefaultShipping = 5
	DefaultTaxRate  = 0.1
)

// Cart is the single shopping cart of a viewer. Totals are recomputed from the
// items after every change.
type Cart struct {
	ID             string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ClerkID        string          `json:"clerkId" gorm:"not null;uniqueIndex"`
	CartItems      []CartItem      `json:"cartItems" gorm:"constraint:OnDelete:CASCADE"`
	NumItemsInCart int             `json:"numItemsInCart" gorm:"not null;default:0"`
	CartTotal      int             `json:"cartTotal" gorm:"not null;default:0"`
	Shipping       int             `json:"shipping" gorm:"not null;default:5"`
	TaxRate        float64         `json:"taxRate" gorm:"not null;default:0.1"`
	Tax            decimal.Decimal `json:"tax" gorm:"type:numeric(12,2);not null;default:0"`
	OrderTotal     decimal.Decimal `json:"orderTotal" gorm:"type:numeric(12,2);not null;default:0"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (Cart) TableName() string {
	return "carts"
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CartItem is an amount of one product in a cart
type CartItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID    string    `json:"cartId" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_items_cart_product"`
	ProductID string    `json:"productId" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_items_cart_product;index"`
	Product   *Product  `json:"product,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Amount    int       `json:"amount" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// Recalculate sets item count, subtotal, tax and order total from items.
// Items must have their Product loaded. Shipping is only charged on a non-empty subtotal.
func (c *Cart) Recalculate(items []CartItem) {
	numItems := 0
	total := 0
	for _, item := range items {
		numItems += item.Amount
		if item.Product != nil {
			total += item.Amount * item.Product.Price
		}
	}

	subtotal := decimal.NewFromInt(int64(total))
	tax := subtotal.Mul(decimal.NewFromFloat(c.TaxRate)).Round(2)
	shipping := decimal.Zero
	if total > 0 {
		shipping = decimal.NewFromInt(int64(c.Shipping))
	}

	c.NumItemsInCart = numItems
	c.CartTotal = total
	c.Tax = tax
	c.OrderTotal = subtotal.Add(tax).Add(shipping)
}

// CartRepository defines the contract for cart data access
type CartRepository interface {
	// FindByViewer returns the viewer's cart with items and products, or ErrCartNotFound
	FindByViewer(ctx context.Context, viewerID string) (*Cart, error)
	// FetchOrCreate returns the viewer's cart, creating an empty one when missing
	FetchOrCreate(ctx context.Context, viewerID string) (*Cart, error)
	// AddItem adds amount of the product to the viewer's cart and recomputes totals
	AddItem(ctx context.Context, viewerID, productID string, amount int) (*Cart, error)
	// CountItems returns the number of items in the viewer's cart, 0 without a cart
	CountItems(ctx context.Context, viewerID string) (int, error)
}
