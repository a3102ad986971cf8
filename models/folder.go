package models

import "time"

// Folder is the unit of review: one per (category, owning entity). Company-level
// categories attach directly to the company; VEHICLES folders carry a VehicleID,
// PERSONNEL folders a WorkerID, and labor-control folders a Period plus, for
// worker sub-folders, a ParentID pointing at the company-level period folder.
type Folder struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Category  string `gorm:"size:32;not null;index"`
	Status    string `gorm:"size:16;not null;default:DRAFT;index"`
	CompanyID uint   `gorm:"index;not null"`
	VehicleID *uint  `gorm:"index"`
	WorkerID  *uint  `gorm:"index"`
	ParentID  *uint  `gorm:"index"`
	// Period is YYYY-MM for labor-control folders, empty otherwise.
	Period       string `gorm:"size:7;index"`
	ReviewerID   *uint  `gorm:"index"`
	NotifyEmails string `gorm:"size:512"` // comma separated, optional
	SubmittedAt  *time.Time
	ReviewedAt   *time.Time
	Documents    []Document `gorm:"foreignKey:FolderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
