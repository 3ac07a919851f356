package models

import "time"

// Notification kinds consumed by the external Telegram notifier.
const (
	NotifyDayBefore        = "day_before"
	NotifyHourBefore       = "hour_before"
	NotifyNewBooking       = "new_booking"
	NotifyNewBookingMaster = "new_booking_master"
)

// Notification deduplicates outbound reminders per appointment and kind.
type Notification struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AppointmentID uint   `gorm:"uniqueIndex:idx_notifications_dedup;not null" json:"appointment_id"`
	Kind          string `gorm:"size:30;uniqueIndex:idx_notifications_dedup;not null" json:"kind"`

	Sent   bool       `gorm:"default:false" json:"sent"`
	SentAt *time.Time `json:"sent_at"`

	CreatedAt time.Time `json:"created_at"`
}
