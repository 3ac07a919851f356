package booking

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/glowpoint/salon-api/internal/domain/booking"
	"github.com/glowpoint/salon-api/internal/models"
	"github.com/glowpoint/salon-api/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type EditBookingInput struct {
	AppointmentID uint

	Date string
	Time string

	// Nil keeps the current service (and its snapshotted price).
	ServiceID *uint

	ClientName  string
	ClientPhone string
}

// ======================================================
// USE CASE
// ======================================================

// EditBooking reschedules an appointment. When date, time or service change,
// the old slot is freed and a slot for the new tuple must be claimed; a
// failed claim rolls the whole edit back, leaving the old reservation in
// place. A client-only edit never touches the slot table.
type EditBooking struct {
	repo domain.Repository
}

func NewEditBooking(repo domain.Repository) *EditBooking {
	return &EditBooking{repo: repo}
}

func (uc *EditBooking) Execute(
	ctx context.Context,
	in EditBookingInput,
) (*models.Appointment, error) {

	phone := validators.NormalizePhone(in.ClientPhone)

	var updated *models.Appointment

	err := uc.repo.InTx(ctx, func(tx domain.Repository) error {

		ap, err := tx.GetAppointment(ctx, in.AppointmentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrAppointmentNotFound
			}
			return err
		}

		newServiceID := ap.ServiceID
		if in.ServiceID != nil {
			newServiceID = *in.ServiceID
		}

		serviceChanged := newServiceID != ap.ServiceID
		moved := in.Date != ap.Date || in.Time != ap.Time || serviceChanged

		if moved {
			if err := tx.ReleaseSlot(
				ctx,
				ap.ScheduleSlotID,
				ap.SpecialistID, ap.ServiceID, ap.Date, ap.Time,
			); err != nil {
				return err
			}

			slot, err := tx.ClaimSlot(ctx, ap.SpecialistID, newServiceID, in.Date, in.Time)
			if err != nil {
				// rollback restores the old reservation
				return err
			}
			ap.ScheduleSlotID = &slot.ID
		}

		client, err := tx.UpsertClientByPhone(ctx, in.ClientName, phone)
		if err != nil {
			return err
		}
		ap.ClientID = client.ID

		if serviceChanged {
			svc, err := tx.GetService(ctx, newServiceID)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					return domain.ErrServiceNotFound
				}
				return err
			}
			ap.ServiceID = newServiceID
			ap.Price = svc.Price
		}

		ap.Date = in.Date
		ap.Time = in.Time

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		// reminders recompute against the new schedule
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
