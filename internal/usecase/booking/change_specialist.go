package booking

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/glowpoint/salon-api/internal/domain/booking"
	"github.com/glowpoint/salon-api/internal/models"
)

type ChangeSpecialistInput struct {
	AppointmentID uint
	SpecialistID  uint

	// Force keeps the appointment even when the new specialist has no free
	// slot at the same service/date/time.
	Force bool
}

// ChangeSpecialist reassigns an appointment to another specialist, issued by
// the admin panel as its own request, separate from the date/time edit.
type ChangeSpecialist struct {
	repo domain.Repository
}

func NewChangeSpecialist(repo domain.Repository) *ChangeSpecialist {
	return &ChangeSpecialist{repo: repo}
}

func (uc *ChangeSpecialist) Execute(
	ctx context.Context,
	in ChangeSpecialistInput,
) (*models.Appointment, error) {

	var updated *models.Appointment

	err := uc.repo.InTx(ctx, func(tx domain.Repository) error {

		ap, err := tx.GetAppointment(ctx, in.AppointmentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrAppointmentNotFound
			}
			return err
		}

		if _, err := tx.GetSpecialist(ctx, in.SpecialistID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrSpecialistNotFound
			}
			return err
		}

		if err := tx.ReleaseSlot(
			ctx,
			ap.ScheduleSlotID,
			ap.SpecialistID, ap.ServiceID, ap.Date, ap.Time,
		); err != nil {
			return err
		}

		slot, err := tx.ClaimSlot(ctx, in.SpecialistID, ap.ServiceID, ap.Date, ap.Time)
		switch {
		case err == nil:
			ap.ScheduleSlotID = &slot.ID
		case err == domain.ErrSlotTaken && in.Force:
			ap.ScheduleSlotID = nil
		default:
			return err
		}

		ap.SpecialistID = in.SpecialistID

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		if err := tx.DeleteNotifications(ctx, ap.ID); err != nil {
			return err
		}

		updated = ap
		return nil
	})

	if err != nil {
		return nil, err
	}
	return updated, nil
}
