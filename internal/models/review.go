package models

type Review struct {
	BaseModel

	AuthorID uint   `gorm:"not null;index"`
	SellerID uint   `gorm:"not null;index"`
	Rating   uint8  `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment  string `gorm:"type:text;not null"`

	// Relationships
	Author User `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Seller User `gorm:"foreignKey:SellerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
