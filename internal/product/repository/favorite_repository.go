package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
)

type GormFavoriteRepository struct {
	db *gorm.DB
}

func NewGormFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

func (r *GormFavoriteRepository) FindIDsByProducts(ctx context.Context, viewerID string, productIDs []string) (map[string]string, error) {
	ids := make(map[string]string, len(productIDs))
	if viewerID == "" || len(productIDs) == 0 {
		return ids, nil
	}

	var favorites []domain.Favorite
	err := r.db.WithContext(ctx).
		Select("id", "product_id").
		Where("clerk_id = ? AND product_id IN ?", viewerID, productIDs).
		Find(&favorites).Error
	if err != nil {
		return nil, err
	}

	for _, f := range favorites {
		ids[f.ProductID] = f.ID
	}
	return ids, nil
}

func (r *GormFavoriteRepository) Toggle(ctx context.Context, viewerID, productID string) (*string, error) {
	var favoriteID *string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrProductNotFound
		}

		res := tx.Where("clerk_id = ? AND product_id = ?", viewerID, productID).Delete(&domain.Favorite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			favoriteID = nil
			return nil
		}

		favorite := domain.Favorite{ClerkID: viewerID, ProductID: productID}
		res = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&favorite)
		if res.Error != nil {
			return res.Error
		}

		// lost a race with a concurrent add, report the row that won
		if res.RowsAffected == 0 {
			var existing domain.Favorite
			err := tx.Where("clerk_id = ? AND product_id = ?", viewerID, productID).First(&existing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			favorite.ID = existing.ID
		}

		favoriteID = &favorite.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return favoriteID, nil
}

func (r *GormFavoriteRepository) FindByViewer(ctx context.Context, viewerID string) ([]domain.Favorite, error) {
	var favorites []domain.Favorite
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("clerk_id = ?", viewerID).
		Order("created_at DESC").
		Find(&favorites).Error
	return favorites, err
}
