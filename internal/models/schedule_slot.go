package models

import "time"

// ScheduleSlot is one bookable (specialist, service, date, time) combination.
// Dates and times are stored as strings ("2006-01-02" / "15:04") so slots and
// appointments compare exactly, without timezone drift.
//
// At most one available slot may exist per tuple; a partial unique index is
// created in internal/db on top of AutoMigrate.
type ScheduleSlot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SpecialistID uint       `gorm:"index;not null" json:"specialist_id"`
	Specialist   Specialist `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"specialist"`

	ServiceID uint    `gorm:"index;not null" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	Date string `gorm:"size:10;index;not null" json:"date"`
	Time string `gorm:"size:5;not null" json:"time"`

	Available bool `gorm:"default:true" json:"available"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
