package models

import "time"

// Notification is an in-app message for a company or an OTC role, created on
// folder submissions and review decisions.
type Notification struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	CompanyID *uint  `gorm:"index"`           // nil = targeted at an OTC role
	Role      string `gorm:"size:32;index"`   // set when CompanyID is nil
	Message   string `gorm:"size:512;not null"`
	Link      string `gorm:"size:255"`
	ReadAt    *time.Time
}
