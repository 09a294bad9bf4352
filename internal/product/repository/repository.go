package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
)

const listingOrder = "created_at DESC, id DESC"

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Migrate creates or updates every storefront table
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}

func (r *GormProductRepository) Create(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *GormProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) Update(ctx context.Context, product *domain.Product) error {
	res := r.db.WithContext(ctx).Model(product).Select("*").Omit("id", "created_at", "clerk_id").Updates(product)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *GormProductRepository) Delete(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrProductNotFound
			}
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&domain.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&domain.Review{}).Error; err != nil {
			return err
		}

		var cartIDs []string
		if err := tx.Model(&domain.CartItem{}).Where("product_id = ?", id).Distinct().Pluck("cart_id", &cartIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&domain.CartItem{}).Error; err != nil {
			return err
		}
		for _, cartID := range cartIDs {
			if _, err := recalculateCart(tx, cartID); err != nil {
				return err
			}
		}

		return tx.Delete(&domain.Product{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error) {
	var products []domain.Product
	err := r.search(r.db.WithContext(ctx), filter.Search).
		Order(listingOrder).
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&products).Error
	return products, err
}

func (r *GormProductRepository) Count(ctx context.Context, search string) (int64, error) {
	var count int64
	err := r.search(r.db.WithContext(ctx).Model(&domain.Product{}), search).Count(&count).Error
	return count, err
}

func (r *GormProductRepository) FindFeatured(ctx context.Context, limit int) ([]domain.Product, error) {
	var products []domain.Product
	q := r.db.WithContext(ctx).Where("featured = ?", true).Order(listingOrder)
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&products).Error
	return products, err
}

func (r *GormProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.WithContext(ctx).Order(listingOrder).Find(&products).Error
	return products, err
}

// search restricts q to products whose name or material contains term, ignoring case.
// An empty term matches everything.
func (r *GormProductRepository) search(q *gorm.DB, term string) *gorm.DB {
	if term == "" {
		return q
	}
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	return q.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(material) LIKE ? ESCAPE '\')`, pattern, pattern)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
