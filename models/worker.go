package models

import "time"

// Worker is a contractor employee. Each worker owns one PERSONNEL folder plus
// one labor-control sub-folder per period.
type Worker struct {
	ID         uint `gorm:"primaryKey"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Active     bool   `gorm:"default:true;not null"`
	CompanyID  uint   `gorm:"index;not null;uniqueIndex:idx_company_worker"`
	FullName   string `gorm:"size:255;not null"`
	NationalID string `gorm:"size:32;not null;uniqueIndex:idx_company_worker"` // unique per company, a worker may move between contractors
	Position   string `gorm:"size:255"`
}
