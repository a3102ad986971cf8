package models

import (
	"time"
)

// User model
type User struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time `gorm:"index"`
	Username       string     `gorm:"size:255;not null;unique"`
	HashedPassword []byte     `gorm:"not null"`
	// CompanyID is nil for OTC staff (administrator/reviewer roles).
	CompanyID *uint   `gorm:"index"`
	Company   Company `gorm:"foreignKey:CompanyID;references:ID"`
	RoleID    *uint   `gorm:"index"`
	Role      Role    `gorm:"foreignKey:RoleID;references:ID"`
}
