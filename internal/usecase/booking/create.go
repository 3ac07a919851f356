package booking

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/glowpoint/salon-api/internal/domain/booking"
	"github.com/glowpoint/salon-api/internal/models"
	"github.com/glowpoint/salon-api/internal/notify"
	"github.com/glowpoint/salon-api/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	SpecialistID uint
	ServiceID    uint

	Date string // 2006-01-02
	Time string // 15:04

	ClientName  string
	ClientPhone string
}

// ======================================================
// USE CASE
// ======================================================

// CreateBooking is the client-facing path: a matching available slot must
// exist, and the slot flip plus the appointment insert commit atomically.
type CreateBooking struct {
	repo   domain.Repository
	notify *notify.Dispatcher
}

func NewCreateBooking(
	repo domain.Repository,
	notify *notify.Dispatcher,
) *CreateBooking {
	return &CreateBooking{
		repo:   repo,
		notify: notify,
	}
}

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Appointment, error) {
	return createBooking(ctx, uc.repo, uc.notify, in, false)
}

// createBooking reserves the slot, upserts the client and inserts the
// appointment inside one transaction. force skips the slot requirement
// (admins may book without a pre-existing slot).
func createBooking(
	ctx context.Context,
	repo domain.Repository,
	dispatcher *notify.Dispatcher,
	in CreateBookingInput,
	force bool,
) (*models.Appointment, error) {

	phone := validators.NormalizePhone(in.ClientPhone)

	var created *models.Appointment

	err := repo.InTx(ctx, func(tx domain.Repository) error {

		svc, err := tx.GetService(ctx, in.ServiceID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrServiceNotFound
			}
			return err
		}

		var slotID *uint
		slot, err := tx.ClaimSlot(ctx, in.SpecialistID, in.ServiceID, in.Date, in.Time)
		switch {
		case err == nil:
			slotID = &slot.ID
		case err == domain.ErrSlotTaken && force:
			// admin force-booking without a slot
		default:
			return err
		}

		client, err := tx.UpsertClientByPhone(ctx, in.ClientName, phone)
		if err != nil {
			return err
		}

		ap := &models.Appointment{
			ClientID:       client.ID,
			ServiceID:      in.ServiceID,
			SpecialistID:   in.SpecialistID,
			ScheduleSlotID: slotID,
			Date:           in.Date,
			Time:           in.Time,
			Price:          svc.Price,
		}

		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		created = ap
		return nil
	})

	if err != nil {
		return nil, err
	}

	dispatcher.Dispatch(notify.Event{
		AppointmentID: created.ID,
		Kinds: []string{
			models.NotifyNewBooking,
			models.NotifyNewBookingMaster,
		},
	})

	return created, nil
}
