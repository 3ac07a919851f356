package models

import "time"

// Setting is a site-visibility toggle or similar key/value switch.
type Setting struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Key         string `gorm:"size:50;uniqueIndex;not null" json:"key"`
	Value       string `gorm:"size:255" json:"value"`
	Description string `gorm:"size:255" json:"description"`

	UpdatedAt time.Time `json:"updated_at"`
}
