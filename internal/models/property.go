package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type PropertyType string

const (
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeLand       PropertyType = "land"
	PropertyTypeCommercial PropertyType = "commercial"
	PropertyTypeStudio     PropertyType = "studio"
)

var PropertyTypes = []PropertyType{
	PropertyTypeApartment,
	PropertyTypeHouse,
	PropertyTypeLand,
	PropertyTypeCommercial,
	PropertyTypeStudio,
}

func (t PropertyType) Valid() bool {
	for _, known := range PropertyTypes {
		if t == known {
			return true
		}
	}
	return false
}

type Property struct {
	BaseModel

	Title        string          `gorm:"size:100;not null"`
	Description  string          `gorm:"type:text;not null"`
	PropertyType PropertyType    `gorm:"size:20;not null;index"`
	RegionID     uint            `gorm:"not null;index"`
	CityID       uint            `gorm:"not null;index"`
	DistrictID   *uint           `gorm:"index"`
	Address      string          `gorm:"size:255;not null"`
	Area         float64         `gorm:"not null"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null;index"`
	Rooms        uint            `gorm:"not null"`
	Floor        uint            `gorm:"not null"`
	TotalFloors  uint            `gorm:"not null"`
	SellerID     uint            `gorm:"not null;index"`

	// Relationships
	Region    Region             `gorm:"foreignKey:RegionID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	City      City               `gorm:"foreignKey:CityID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	District  *District          `gorm:"foreignKey:DistrictID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Seller    User               `gorm:"foreignKey:SellerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Images    []PropertyImage    `gorm:"foreignKey:PropertyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Documents []PropertyDocument `gorm:"foreignKey:PropertyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// GetOwnerID returns the user that owns the listing.
func (p *Property) GetOwnerID() uint {
	return p.SellerID
}

type PropertyImage struct {
	BaseModel

	PropertyID uint              `gorm:"not null;index"`
	Image      string            `gorm:"size:255;not null"`
	Metadata   datatypes.JSONMap `gorm:"type:json"`
}

type PropertyDocument struct {
	BaseModel

	PropertyID uint              `gorm:"not null;index"`
	File       string            `gorm:"size:255;not null"`
	Metadata   datatypes.JSONMap `gorm:"type:json"`
}
