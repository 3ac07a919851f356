package models

import "time"

type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Category    string  `gorm:"size:50" json:"category"`
	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"size:500" json:"description"`
	Price       float64 `json:"price"`
	Photo       string  `gorm:"size:255" json:"photo"`

	Visibility int `gorm:"default:1" json:"visibility"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
