package booking

import (
	"context"

	"github.com/glowpoint/salon-api/internal/models"
)

// Repository is the persistence contract of the booking core. Every
// multi-step write runs through InTx so a failed step rolls back the whole
// operation.
type Repository interface {
	// InTx runs fn against a repository bound to one transaction.
	InTx(ctx context.Context, fn func(Repository) error) error

	// -------- Catalog --------
	GetService(ctx context.Context, id uint) (*models.Service, error)
	GetSpecialist(ctx context.Context, id uint) (*models.Specialist, error)

	// -------- Client --------
	UpsertClientByPhone(ctx context.Context, name, phone string) (*models.Client, error)

	// -------- Slots --------

	// ClaimSlot reserves the available slot matching the tuple, returning
	// ErrSlotTaken when none exists. The claim is atomic within the
	// surrounding transaction.
	ClaimSlot(ctx context.Context, specialistID, serviceID uint, date, tm string) (*models.ScheduleSlot, error)

	// ReleaseSlot restores a slot to available, by ID when known, falling
	// back to the tuple. A missing slot is a benign no-op.
	ReleaseSlot(ctx context.Context, slotID *uint, specialistID, serviceID uint, date, tm string) error

	ListSlotTimes(ctx context.Context, specialistID uint, date string) ([]string, error)
	CreateSlot(ctx context.Context, slot *models.ScheduleSlot) error

	// -------- Appointments --------
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error
	DeleteAppointment(ctx context.Context, id uint) error

	// -------- Notifications --------

	// DeleteNotifications drops an appointment's notification records so
	// reminders recompute after a reschedule.
	DeleteNotifications(ctx context.Context, appointmentID uint) error
}
