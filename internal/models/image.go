package models

import "gorm.io/gorm"

// Image is a photo attached to a goat record. The blob itself lives in the
// upload directory; this row only points at it.
type Image struct {
	ID         string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	GoatID     *string `json:"goatId" gorm:"index;type:varchar(36)"` // nullable: legacy uploads may precede the goat
	FileName   string  `json:"fileName" gorm:"type:varchar(255)"`
	URL        string  `json:"url" gorm:"type:varchar(500)"`
	Notes      string  `json:"notes" gorm:"type:varchar(500)"`
	Position   int     `json:"position"` // ordinal within the batch, so "first image" is deterministic
	gorm.Model         // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
