package testutil

import (
	"testing"

	"github.com/monocle-dev/house/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Password is the plain-text password of every user created by CreateUser.
const Password = "correct-horse-battery"

var passwordHash = func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}()

func CreateUser(t testing.TB, db *gorm.DB, username string, role models.Role) models.User {
	t.Helper()

	user := models.User{
		Username:     username,
		FirstName:    username,
		Email:        username + "@example.com",
		PasswordHash: passwordHash,
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)

	return user
}

// Location is a region with one city and one district.
type Location struct {
	Region   models.Region
	City     models.City
	District models.District
}

func CreateLocation(t testing.TB, db *gorm.DB, name string) Location {
	t.Helper()

	loc := Location{Region: models.Region{Name: name}}
	require.NoError(t, db.Create(&loc.Region).Error)

	loc.City = models.City{RegionID: loc.Region.ID, Name: name + " City"}
	require.NoError(t, db.Create(&loc.City).Error)

	loc.District = models.District{CityID: loc.City.ID, Name: name + " District"}
	require.NoError(t, db.Create(&loc.District).Error)

	return loc
}

// CreateProperty inserts a two-room apartment owned by seller in loc.
func CreateProperty(t testing.TB, db *gorm.DB, seller models.User, loc Location, title string, price string) models.Property {
	t.Helper()

	districtID := loc.District.ID
	property := models.Property{
		Title:        title,
		Description:  "A listing called " + title,
		PropertyType: models.PropertyTypeApartment,
		RegionID:     loc.Region.ID,
		CityID:       loc.City.ID,
		DistrictID:   &districtID,
		Address:      "1 Main Street",
		Area:         50,
		Price:        decimal.RequireFromString(price),
		Rooms:        2,
		Floor:        1,
		TotalFloors:  5,
		SellerID:     seller.ID,
	}
	require.NoError(t, db.Omit("Region", "City", "District", "Seller", "Images", "Documents").Create(&property).Error)

	return property
}
