package notify

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/glowpoint/salon-api/internal/models"
)

// Recorder persists notification records. Rows are deduplicated per
// (appointment, kind) so the external notifier never sends twice.
type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// Record creates a pending notification, ignoring duplicates.
func (r *Recorder) Record(appointmentID uint, kind string) error {
	n := models.Notification{
		AppointmentID: appointmentID,
		Kind:          kind,
	}

	return r.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&n).Error
}

// MarkSent upserts the record and flags it sent.
func (r *Recorder) MarkSent(appointmentID uint, kind string) error {
	now := time.Now()

	n := models.Notification{
		AppointmentID: appointmentID,
		Kind:          kind,
		Sent:          true,
		SentAt:        &now,
	}

	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "appointment_id"}, {Name: "kind"}},
			DoUpdates: clause.AssignmentColumns([]string{"sent", "sent_at"}),
		}).
		Create(&n).Error
}
