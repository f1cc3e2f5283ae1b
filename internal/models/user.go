package models

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
	RoleBuyer  Role = "buyer"
)

// Roles lists every valid role in a stable order.
var Roles = []Role{RoleAdmin, RoleSeller, RoleBuyer}

// ParseRole accepts the canonical role names plus the legacy "host"/"guest" aliases.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, nil
	case "seller", "host":
		return RoleSeller, nil
	case "buyer", "guest":
		return RoleBuyer, nil
	}

	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSeller, RoleBuyer:
		return true
	}
	return false
}

type User struct {
	BaseModel

	Username     string  `gorm:"size:150;uniqueIndex;not null"`
	FirstName    string  `gorm:"size:150"`
	Email        string  `gorm:"size:254;not null"`
	PhoneNumber  *string `gorm:"size:32;uniqueIndex"`
	PasswordHash string  `gorm:"not null"`
	Role         Role    `gorm:"size:10;not null;default:buyer"`

	// Relationships
	Properties      []Property `gorm:"foreignKey:SellerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	ReviewsWritten  []Review   `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	ReviewsReceived []Review   `gorm:"foreignKey:SellerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
