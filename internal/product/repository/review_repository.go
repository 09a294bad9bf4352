package repository

import (
	"context"
	"errors"
	"math"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
)

type GormReviewRepository struct {
	db *gorm.DB
}

func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

func (r *GormReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Product{}).Where("id = ?", review.ProductID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrProductNotFound
		}

		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(review)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrDuplicateReview
		}
		return nil
	})
}

func (r *GormReviewRepository) FindByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	var reviews []domain.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *GormReviewRepository) FindByViewer(ctx context.Context, viewerID string) ([]domain.Review, error) {
	var reviews []domain.Review
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("clerk_id = ?", viewerID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *GormReviewRepository) FindExisting(ctx context.Context, viewerID, productID string) (*domain.Review, error) {
	var review domain.Review
	err := r.db.WithContext(ctx).
		Where("clerk_id = ? AND product_id = ?", viewerID, productID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *GormReviewRepository) Delete(ctx context.Context, id, viewerID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND clerk_id = ?", id, viewerID).
		Delete(&domain.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

func (r *GormReviewRepository) Rating(ctx context.Context, productID string) (domain.ProductRating, error) {
	var row struct {
		Average *float64
		Count   int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Review{}).
		Select("AVG(rating) AS average, COUNT(rating) AS count").
		Where("product_id = ?", productID).
		Scan(&row).Error
	if err != nil {
		return domain.ProductRating{}, err
	}

	rating := domain.ProductRating{Count: row.Count}
	if row.Average != nil {
		rating.Rating = math.Round(*row.Average*10) / 10
	}
	return rating, nil
}
