package booking

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/glowpoint/salon-api/internal/domain/booking"
)

// CancelBooking deletes the appointment and restores its slot in a single
// transaction. A slot removed out-of-band is a benign no-op, never an error.
type CancelBooking struct {
	repo domain.Repository
}

func NewCancelBooking(repo domain.Repository) *CancelBooking {
	return &CancelBooking{repo: repo}
}

func (uc *CancelBooking) Execute(ctx context.Context, appointmentID uint) error {
	return uc.repo.InTx(ctx, func(tx domain.Repository) error {

		ap, err := tx.GetAppointment(ctx, appointmentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrAppointmentNotFound
			}
			return err
		}

		if err := tx.DeleteAppointment(ctx, ap.ID); err != nil {
			return err
		}

		if err := tx.ReleaseSlot(
			ctx,
			ap.ScheduleSlotID,
			ap.SpecialistID, ap.ServiceID, ap.Date, ap.Time,
		); err != nil {
			return err
		}

		return tx.DeleteNotifications(ctx, ap.ID)
	})
}
