package models

import "time"

// Company represents a contractor company working for OTC.
type Company struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time `gorm:"index"`
	// Active indicates whether the company is currently contracted. Use this
	// for soft-state instead of physically deleting the record.
	Active       bool   `gorm:"default:true;not null"`
	Name         string `gorm:"size:255;not null"`
	RUT          string `gorm:"size:32;uniqueIndex;not null"` // tax id, used for user binding
	ContactEmail string `gorm:"size:255"`
	Folders      []Folder `gorm:"foreignKey:CompanyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Vehicles     []Vehicle `gorm:"foreignKey:CompanyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Workers      []Worker  `gorm:"foreignKey:CompanyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
