package models

import "time"

// Visibility states shared by specialists and services. Deletion is always
// logical so historical appointments stay joinable.
const (
	VisibilityDeleted = 0
	VisibilityActive  = 1
	VisibilityHidden  = 2
)

type Specialist struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`
	Photo       string `gorm:"size:255" json:"photo"`

	Visibility int `gorm:"default:1" json:"visibility"`

	TelegramID string `gorm:"size:50" json:"telegram_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
