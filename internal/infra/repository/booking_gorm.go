package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/glowpoint/salon-api/internal/domain/booking"
	"github.com/glowpoint/salon-api/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

func (r *BookingGormRepository) InTx(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND visibility != ?", id, models.VisibilityDeleted).
		First(&svc).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *BookingGormRepository) GetSpecialist(
	ctx context.Context,
	id uint,
) (*models.Specialist, error) {

	var sp models.Specialist
	if err := r.db.WithContext(ctx).
		Where("id = ? AND visibility != ?", id, models.VisibilityDeleted).
		First(&sp).Error; err != nil {
		return nil, err
	}
	return &sp, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *BookingGormRepository) UpsertClientByPhone(
	ctx context.Context,
	name string,
	phone string,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		First(&client).Error

	if err == nil {
		if client.Name != name {
			client.Name = name
			if err := r.db.WithContext(ctx).Save(&client).Error; err != nil {
				return nil, err
			}
		}
		return &client, nil
	}

	client = models.Client{
		Name:  name,
		Phone: phone,
	}

	if err := r.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}

	return &client, nil
}

// --------------------------------------------------
// Slots
// --------------------------------------------------

func (r *BookingGormRepository) ClaimSlot(
	ctx context.Context,
	specialistID uint,
	serviceID uint,
	date string,
	tm string,
) (*models.ScheduleSlot, error) {

	q := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var slot models.ScheduleSlot
	if err := q.
		Where(
			"specialist_id = ? AND service_id = ? AND date = ? AND time = ? AND available",
			specialistID, serviceID, date, tm,
		).
		First(&slot).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrSlotTaken
		}
		return nil, err
	}

	res := r.db.WithContext(ctx).
		Model(&models.ScheduleSlot{}).
		Where("id = ? AND available", slot.ID).
		Update("available", false)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrSlotTaken
	}

	slot.Available = false
	return &slot, nil
}

func (r *BookingGormRepository) ReleaseSlot(
	ctx context.Context,
	slotID *uint,
	specialistID uint,
	serviceID uint,
	date string,
	tm string,
) error {

	q := r.db.WithContext(ctx).Model(&models.ScheduleSlot{})

	if slotID != nil {
		q = q.Where("id = ?", *slotID)
	} else {
		q = q.Where(
			"specialist_id = ? AND service_id = ? AND date = ? AND time = ?",
			specialistID, serviceID, date, tm,
		)
	}

	// 0 rows affected is fine: the slot may have been removed out-of-band.
	return q.Update("available", true).Error
}

func (r *BookingGormRepository) ListSlotTimes(
	ctx context.Context,
	specialistID uint,
	date string,
) ([]string, error) {

	var times []string
	if err := r.db.WithContext(ctx).
		Model(&models.ScheduleSlot{}).
		Where("specialist_id = ? AND date = ?", specialistID, date).
		Order("time ASC").
		Pluck("time", &times).Error; err != nil {
		return nil, err
	}
	return times, nil
}

func (r *BookingGormRepository) CreateSlot(
	ctx context.Context,
	slot *models.ScheduleSlot,
) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

// --------------------------------------------------
// Appointments
// --------------------------------------------------

func (r *BookingGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *BookingGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *BookingGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *BookingGormRepository) DeleteAppointment(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).Delete(&models.Appointment{}, id).Error
}

// --------------------------------------------------
// Notifications
// --------------------------------------------------

func (r *BookingGormRepository) DeleteNotifications(
	ctx context.Context,
	appointmentID uint,
) error {
	return r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Delete(&models.Notification{}).Error
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
