package models

import "time"

// Activity is an audit record written on every create/update/review/undo
// operation. Rows are append-only.
type Activity struct {
	ID         uint `gorm:"primaryKey"`
	CreatedAt  time.Time
	ActorID    uint   `gorm:"index;not null"`
	Action     string `gorm:"size:32;not null"` // upload, update, submit, review, undo_review, ...
	EntityType string `gorm:"size:32;not null"`
	EntityID   uint   `gorm:"index;not null"`
	Module     string `gorm:"size:32;not null;index"` // startup_folders, labor_control, ...
	Detail     string `gorm:"size:512"`
}
