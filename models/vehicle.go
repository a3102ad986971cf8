package models

import "time"

// Vehicle is a company vehicle entering OTC premises. Each vehicle owns one
// VEHICLES folder created at registration time.
type Vehicle struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompanyID   uint   `gorm:"index;not null;uniqueIndex:idx_company_plate"`
	PlateNumber string `gorm:"size:16;not null;uniqueIndex:idx_company_plate"`
	Description string `gorm:"size:255"`
}
