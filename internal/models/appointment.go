package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint   `gorm:"index;not null" json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	ServiceID uint    `gorm:"index;not null" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	SpecialistID uint       `gorm:"index;not null" json:"specialist_id"`
	Specialist   Specialist `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"specialist"`

	// Nil for admin force-bookings made without a pre-existing slot.
	ScheduleSlotID *uint `gorm:"index" json:"schedule_slot_id"`

	Date string `gorm:"size:10;index;not null" json:"date"`
	Time string `gorm:"size:5;not null" json:"time"`

	// Snapshot of the service price at booking time; never recomputed when
	// the service price changes later.
	Price float64 `json:"price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
