package models

import "time"

// Document is one uploaded artifact filling a slot of its folder's category.
// Rows are never physically deleted: a rejected document keeps its row, status
// and reviewer notes, and a re-upload resets the same row back to DRAFT.
type Document struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	FolderID  uint   `gorm:"index;not null;uniqueIndex:idx_folder_slot"`
	Folder    Folder `gorm:"foreignKey:FolderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	// Type is the slot code from the category catalog, set at upload time.
	Type        string `gorm:"size:64;not null;uniqueIndex:idx_folder_slot"`
	Name        string `gorm:"size:255;not null"`
	URL         string `gorm:"size:512"` // empty = not uploaded
	StorageKey  string `gorm:"size:128"` // uuid-based object name on disk
	ContentType string `gorm:"size:128"`
	Size        int64
	Status      string `gorm:"size:16;not null;default:DRAFT;index"`
	ReviewNotes string `gorm:"size:1024"`
	ReviewedAt  *time.Time
	ReviewerID  *uint `gorm:"index"`
	// ExpirationDate is optional; for scanned documents an OCR suggestion may
	// fill it when the uploader leaves it blank.
	ExpirationDate *time.Time
	UploadedByID   uint `gorm:"index;not null"`
}
