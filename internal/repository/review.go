package repository

import (
	"context"
	"errors"

	"github.com/monocle-dev/house/internal/models"
	"github.com/monocle-dev/house/internal/query"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) List(ctx context.Context, sellerID *uint, p query.Pagination) ([]models.Review, int64, query.Pagination, error) {
	base := r.db.WithContext(ctx).Model(&models.Review{})
	if sellerID != nil {
		base = base.Where("seller_id = ?", *sellerID)
	}

	items, count, p, err := paginate[models.Review](base, p, func(tx *gorm.DB) *gorm.DB {
		return tx.Preload("Author").Preload("Seller").Order("created_at DESC").Order("id DESC")
	})
	if err != nil && !errors.Is(err, query.ErrInvalidPage) {
		err = wrap("list reviews", err)
	}

	return items, count, p, err
}

func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	db := r.db.WithContext(ctx)

	if err := db.Omit("Author", "Seller").Create(review).Error; err != nil {
		return wrap("create review", err)
	}

	return wrap("reload review", db.Preload("Author").Preload("Seller").First(review, review.ID).Error)
}
