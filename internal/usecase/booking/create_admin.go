package booking

import (
	"context"

	domain "github.com/glowpoint/salon-api/internal/domain/booking"
	"github.com/glowpoint/salon-api/internal/models"
	"github.com/glowpoint/salon-api/internal/notify"
)

// CreateAdminBooking is the admin-facing path: a matching slot is claimed
// when one exists, but its absence does not block the booking.
type CreateAdminBooking struct {
	repo   domain.Repository
	notify *notify.Dispatcher
}

func NewCreateAdminBooking(
	repo domain.Repository,
	notify *notify.Dispatcher,
) *CreateAdminBooking {
	return &CreateAdminBooking{
		repo:   repo,
		notify: notify,
	}
}

func (uc *CreateAdminBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Appointment, error) {
	return createBooking(ctx, uc.repo, uc.notify, in, true)
}
