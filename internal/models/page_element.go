package models

import "time"

// PageElement is a CMS-style text block rendered by the public site.
type PageElement struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Page     string `gorm:"size:50;uniqueIndex:idx_page_elements_key;not null" json:"page"`
	Key      string `gorm:"size:50;uniqueIndex:idx_page_elements_key;not null" json:"key"`
	Text     string `gorm:"type:text" json:"text"`
	Position int    `json:"position"`

	UpdatedAt time.Time `json:"updated_at"`
}
