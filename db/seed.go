package db

import (
	"context"
	"fmt"

	"github.com/monocle-dev/house/internal/models"
	"gorm.io/gorm"
)

// SampleLocations is the taxonomy inserted by SeedLocations.
var SampleLocations = map[string]map[string][]string{
	"Tashkent Region": {
		"Tashkent": {"Yunusabad", "Chilanzar", "Mirzo Ulugbek"},
		"Chirchiq": {"Central"},
		"Angren":   {},
	},
	"Samarkand Region": {
		"Samarkand": {"Old Town", "Registan"},
		"Urgut":     {},
	},
}

// SeedAdmin creates the admin account unless the username already exists.
// It reports whether a row was inserted.
func SeedAdmin(ctx context.Context, db *gorm.DB, username, email, passwordHash string) (bool, error) {
	var existing models.User

	result := db.WithContext(ctx).Where("username = ?", username).Limit(1).Find(&existing)
	if result.Error != nil {
		return false, fmt.Errorf("lookup admin: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		return false, nil
	}

	admin := models.User{
		Username:     username,
		FirstName:    username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
	}

	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}

	return true, nil
}

// SeedLocations inserts SampleLocations. Running it twice adds nothing.
func SeedLocations(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for regionName, cities := range SampleLocations {
			region := models.Region{Name: regionName}
			if err := tx.Where("name = ?", regionName).FirstOrCreate(&region).Error; err != nil {
				return fmt.Errorf("seed region %s: %w", regionName, err)
			}

			for cityName, districts := range cities {
				city := models.City{RegionID: region.ID, Name: cityName}
				if err := tx.Where("region_id = ? AND name = ?", region.ID, cityName).FirstOrCreate(&city).Error; err != nil {
					return fmt.Errorf("seed city %s: %w", cityName, err)
				}

				for _, districtName := range districts {
					district := models.District{CityID: city.ID, Name: districtName}
					if err := tx.Where("city_id = ? AND name = ?", city.ID, districtName).FirstOrCreate(&district).Error; err != nil {
						return fmt.Errorf("seed district %s: %w", districtName, err)
					}
				}
			}
		}

		return nil
	})
}
