package models

import "time"

// Client is looked up or created by phone during booking; no login.
type Client struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name       string `gorm:"size:100;not null" json:"name"`
	Phone      string `gorm:"size:20;uniqueIndex;not null" json:"phone"`
	TelegramID string `gorm:"size:50" json:"telegram_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
