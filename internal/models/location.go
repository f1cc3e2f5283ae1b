package models

type Region struct {
	BaseModel

	Name string `gorm:"size:100;not null"`

	// Relationships
	Cities []City `gorm:"foreignKey:RegionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

type City struct {
	BaseModel

	RegionID uint   `gorm:"not null;index"`
	Name     string `gorm:"size:100;not null"`

	// Relationships
	Region    *Region    `gorm:"foreignKey:RegionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Districts []District `gorm:"foreignKey:CityID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

type District struct {
	BaseModel

	CityID uint   `gorm:"not null;index"`
	Name   string `gorm:"size:100;not null"`

	// Relationships
	City *City `gorm:"foreignKey:CityID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
