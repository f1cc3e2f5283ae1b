package repository

import (
	"context"
	"errors"

	"github.com/monocle-dev/house/internal/models"
	"github.com/monocle-dev/house/internal/query"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func withDetail(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Region").
		Preload("City").
		Preload("District").
		Preload("Seller").
		Preload("Images", byID).
		Preload("Documents", byID)
}

// List returns one page of listings matching filter together with the total
// match count and the resolved page window.
func (r *PropertyRepository) List(ctx context.Context, filter query.PropertyFilter, p query.Pagination) ([]models.Property, int64, query.Pagination, error) {
	base := filter.Where(r.db.WithContext(ctx).Model(&models.Property{}))

	items, count, p, err := paginate[models.Property](base, p, func(tx *gorm.DB) *gorm.DB {
		return withDetail(filter.Order(tx))
	})
	if err != nil && !errors.Is(err, query.ErrInvalidPage) {
		err = wrap("list properties", err)
	}

	return items, count, p, err
}

func (r *PropertyRepository) Get(ctx context.Context, id uint) (*models.Property, error) {
	var property models.Property

	if err := withDetail(r.db.WithContext(ctx)).First(&property, id).Error; err != nil {
		return nil, wrap("get property", err)
	}

	return &property, nil
}

// Create inserts the listing and reloads it with its relations.
func (r *PropertyRepository) Create(ctx context.Context, property *models.Property) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(property).Error; err != nil {
		return wrap("create property", err)
	}

	return r.reload(ctx, property)
}

// Update writes every scalar column of the listing and reloads it.
func (r *PropertyRepository) Update(ctx context.Context, property *models.Property) error {
	err := r.db.WithContext(ctx).
		Model(property).
		Select("*").
		Omit(clause.Associations, "id", "created_at", "seller_id").
		Updates(property).Error
	if err != nil {
		return wrap("update property", err)
	}

	return r.reload(ctx, property)
}

func (r *PropertyRepository) reload(ctx context.Context, property *models.Property) error {
	fresh, err := r.Get(ctx, property.ID)
	if err != nil {
		return err
	}
	*property = *fresh
	return nil
}

// Delete removes the listing with its images and documents and returns the
// stored file paths that were attached to it.
func (r *PropertyRepository) Delete(ctx context.Context, id uint) ([]string, error) {
	var files []string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var property models.Property
		if err := tx.Preload("Images").Preload("Documents").First(&property, id).Error; err != nil {
			return wrap("get property", err)
		}

		for _, img := range property.Images {
			files = append(files, img.Image)
		}
		for _, doc := range property.Documents {
			files = append(files, doc.File)
		}

		if err := tx.Where("property_id = ?", id).Delete(&models.PropertyImage{}).Error; err != nil {
			return wrap("delete images", err)
		}
		if err := tx.Where("property_id = ?", id).Delete(&models.PropertyDocument{}).Error; err != nil {
			return wrap("delete documents", err)
		}

		return wrap("delete property", tx.Delete(&models.Property{}, id).Error)
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (r *PropertyRepository) AddImage(ctx context.Context, image *models.PropertyImage) error {
	return wrap("add image", r.db.WithContext(ctx).Create(image).Error)
}

func (r *PropertyRepository) AddDocument(ctx context.Context, doc *models.PropertyDocument) error {
	return wrap("add document", r.db.WithContext(ctx).Create(doc).Error)
}

// DeleteImage removes an image of the given listing and returns its stored path.
func (r *PropertyRepository) DeleteImage(ctx context.Context, propertyID, imageID uint) (string, error) {
	var image models.PropertyImage

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", propertyID).First(&image, imageID).Error; err != nil {
			return wrap("get image", err)
		}
		return wrap("delete image", tx.Delete(&image).Error)
	})

	return image.Image, err
}

// DeleteDocument removes a document of the given listing and returns its stored path.
func (r *PropertyRepository) DeleteDocument(ctx context.Context, propertyID, documentID uint) (string, error) {
	var doc models.PropertyDocument

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", propertyID).First(&doc, documentID).Error; err != nil {
			return wrap("get document", err)
		}
		return wrap("delete document", tx.Delete(&doc).Error)
	})

	return doc.File, err
}
