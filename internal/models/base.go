package models

import "time"

// BaseModel mirrors gorm.Model without soft deletes: listings and accounts are
// removed for real so cascade and restrict rules apply.
type BaseModel struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
