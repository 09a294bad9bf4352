package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
)

type GormCartRepository struct {
	db *gorm.DB
}

func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

func (r *GormCartRepository) FindByViewer(ctx context.Context, viewerID string) (*domain.Cart, error) {
	return findCart(r.db.WithContext(ctx), viewerID)
}

func (r *GormCartRepository) FetchOrCreate(ctx context.Context, viewerID string) (*domain.Cart, error) {
	var cart *domain.Cart
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		cart, err = fetchOrCreateCart(tx, viewerID)
		return err
	})
	return cart, err
}

func (r *GormCartRepository) AddItem(ctx context.Context, viewerID, productID string, amount int) (*domain.Cart, error) {
	var cart *domain.Cart
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrProductNotFound
		}

		current, err := fetchOrCreateCart(tx, viewerID)
		if err != nil {
			return err
		}

		item := domain.CartItem{CartID: current.ID, ProductID: productID, Amount: amount}
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"amount": gorm.Expr("cart_items.amount + ?", amount)}),
		}).Create(&item).Error
		if err != nil {
			return err
		}

		cart, err = recalculateCart(tx, current.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *GormCartRepository) CountItems(ctx context.Context, viewerID string) (int, error) {
	if viewerID == "" {
		return 0, nil
	}

	var cart domain.Cart
	err := r.db.WithContext(ctx).
		Select("num_items_in_cart").
		Where("clerk_id = ?", viewerID).
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return cart.NumItemsInCart, nil
}

func findCart(db *gorm.DB, viewerID string) (*domain.Cart, error) {
	var cart domain.Cart
	err := db.
		Preload("CartItems", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("CartItems.Product").
		Where("clerk_id = ?", viewerID).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCartNotFound
		}
		return nil, err
	}
	return &cart, nil
}

func fetchOrCreateCart(tx *gorm.DB, viewerID string) (*domain.Cart, error) {
	cart := domain.Cart{
		ClerkID:  viewerID,
		Shipping: domain.DefaultShipping,
		TaxRate:  domain.DefaultTaxRate,
	}
	// a concurrent first add may have created it already
	err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "clerk_id"}}, DoNothing: true}).
		Create(&cart).Error
	if err != nil {
		return nil, err
	}
	return findCart(tx, viewerID)
}

// recalculateCart reloads the cart's items and stores fresh totals
func recalculateCart(tx *gorm.DB, cartID string) (*domain.Cart, error) {
	var cart domain.Cart
	err := tx.
		Preload("CartItems", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("CartItems.Product").
		Where("id = ?", cartID).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCartNotFound
		}
		return nil, err
	}

	cart.Recalculate(cart.CartItems)

	err = tx.Model(&domain.Cart{}).Where("id = ?", cart.ID).Updates(map[string]interface{}{
		"num_items_in_cart": cart.NumItemsInCart,
		"cart_total":        cart.CartTotal,
		"tax":               cart.Tax,
		"order_total":       cart.OrderTotal,
	}).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}
