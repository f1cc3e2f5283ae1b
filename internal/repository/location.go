package repository

import (
	"context"

	"github.com/monocle-dev/house/internal/models"
	"gorm.io/gorm"
)

func byID(tx *gorm.DB) *gorm.DB {
	return tx.Order("id")
}

type RegionRepository struct {
	db *gorm.DB
}

func NewRegionRepository(db *gorm.DB) *RegionRepository {
	return &RegionRepository{db: db}
}

// ListWithChildren loads all regions with their cities and districts in three queries.
func (r *RegionRepository) ListWithChildren(ctx context.Context) ([]models.Region, error) {
	regions := []models.Region{}

	err := r.db.WithContext(ctx).
		Preload("Cities", byID).
		Preload("Cities.Districts", byID).
		Order("id").
		Find(&regions).Error

	return regions, wrap("list regions", err)
}

func (r *RegionRepository) Get(ctx context.Context, id uint) (*models.Region, error) {
	var region models.Region

	if err := r.db.WithContext(ctx).First(&region, id).Error; err != nil {
		return nil, wrap("get region", err)
	}

	return &region, nil
}

func (r *RegionRepository) GetWithChildren(ctx context.Context, id uint) (*models.Region, error) {
	var region models.Region

	err := r.db.WithContext(ctx).
		Preload("Cities", byID).
		Preload("Cities.Districts", byID).
		First(&region, id).Error
	if err != nil {
		return nil, wrap("get region", err)
	}

	return &region, nil
}

func (r *RegionRepository) Create(ctx context.Context, region *models.Region) error {
	return wrap("create region", r.db.WithContext(ctx).Omit("Cities").Create(region).Error)
}

// Delete removes a region that no city or listing references. The schema
// cascades region deletes to cities; this method refuses with ErrProtected.
func (r *RegionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var region models.Region
		if err := tx.First(&region, id).Error; err != nil {
			return wrap("get region", err)
		}

		var refs int64
		if err := tx.Model(&models.City{}).Where("region_id = ?", id).Count(&refs).Error; err != nil {
			return wrap("count region cities", err)
		}
		if refs == 0 {
			err := tx.Model(&models.Property{}).Where("region_id = ?", id).Count(&refs).Error
			if err != nil {
				return wrap("count region listings", err)
			}
		}
		if refs > 0 {
			return ErrProtected
		}

		return wrap("delete region", tx.Delete(&region).Error)
	})
}

type CityRepository struct {
	db *gorm.DB
}

func NewCityRepository(db *gorm.DB) *CityRepository {
	return &CityRepository{db: db}
}

// List returns cities with their districts, optionally restricted to one region.
func (r *CityRepository) List(ctx context.Context, regionID *uint) ([]models.City, error) {
	cities := []models.City{}

	tx := r.db.WithContext(ctx).Preload("Districts", byID).Order("id")
	if regionID != nil {
		tx = tx.Where("region_id = ?", *regionID)
	}

	return cities, wrap("list cities", tx.Find(&cities).Error)
}

func (r *CityRepository) Get(ctx context.Context, id uint) (*models.City, error) {
	var city models.City

	if err := r.db.WithContext(ctx).Preload("Districts", byID).First(&city, id).Error; err != nil {
		return nil, wrap("get city", err)
	}

	return &city, nil
}

func (r *CityRepository) Create(ctx context.Context, city *models.City) error {
	return wrap("create city", r.db.WithContext(ctx).Omit("Region", "Districts").Create(city).Error)
}

func (r *CityRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var city models.City
		if err := tx.First(&city, id).Error; err != nil {
			return wrap("get city", err)
		}

		districts := tx.Model(&models.District{}).Select("id").Where("city_id = ?", id)

		var refs int64
		err := tx.Model(&models.Property{}).
			Where("city_id = ? OR district_id IN (?)", id, districts).
			Count(&refs).Error
		if err != nil {
			return wrap("count city references", err)
		}
		if refs > 0 {
			return ErrProtected
		}

		if err := tx.Where("city_id = ?", id).Delete(&models.District{}).Error; err != nil {
			return wrap("delete districts", err)
		}

		return wrap("delete city", tx.Delete(&city).Error)
	})
}

type DistrictRepository struct {
	db *gorm.DB
}

func NewDistrictRepository(db *gorm.DB) *DistrictRepository {
	return &DistrictRepository{db: db}
}

func (r *DistrictRepository) List(ctx context.Context, cityID *uint) ([]models.District, error) {
	districts := []models.District{}

	tx := r.db.WithContext(ctx).Order("id")
	if cityID != nil {
		tx = tx.Where("city_id = ?", *cityID)
	}

	return districts, wrap("list districts", tx.Find(&districts).Error)
}

func (r *DistrictRepository) Get(ctx context.Context, id uint) (*models.District, error) {
	var district models.District

	if err := r.db.WithContext(ctx).First(&district, id).Error; err != nil {
		return nil, wrap("get district", err)
	}

	return &district, nil
}

func (r *DistrictRepository) Create(ctx context.Context, district *models.District) error {
	return wrap("create district", r.db.WithContext(ctx).Omit("City").Create(district).Error)
}

func (r *DistrictRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var district models.District
		if err := tx.First(&district, id).Error; err != nil {
			return wrap("get district", err)
		}

		var refs int64
		if err := tx.Model(&models.Property{}).Where("district_id = ?", id).Count(&refs).Error; err != nil {
			return wrap("count district references", err)
		}
		if refs > 0 {
			return ErrProtected
		}

		return wrap("delete district", tx.Delete(&district).Error)
	})
}
