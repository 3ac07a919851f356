package booking

import (
	"context"
	"path/filepath"
	"testing"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dbpkg "github.com/glowpoint/salon-api/internal/db"
	domain "github.com/glowpoint/salon-api/internal/domain/booking"
	infraRepo "github.com/glowpoint/salon-api/internal/infra/repository"
	"github.com/glowpoint/salon-api/internal/models"
	"github.com/glowpoint/salon-api/internal/notify"
)

// ----- Test fixtures -----

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "booking.db")
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func newTestDispatcher(gdb *gorm.DB) *notify.Dispatcher {
	return notify.NewDispatcher(notify.NewRecorder(gdb), zerolog.Nop())
}

func seedCatalog(t *testing.T, gdb *gorm.DB) (models.Specialist, models.Service) {
	t.Helper()

	sp := models.Specialist{Name: "Анна", Visibility: models.VisibilityActive}
	require.NoError(t, gdb.Create(&sp).Error)

	svc := models.Service{Name: "Стрижка", Price: 1500, Visibility: models.VisibilityActive}
	require.NoError(t, gdb.Create(&svc).Error)

	return sp, svc
}

func seedSlot(t *testing.T, gdb *gorm.DB, specialistID, serviceID uint, date, tm string) models.ScheduleSlot {
	t.Helper()

	slot := models.ScheduleSlot{
		SpecialistID: specialistID,
		ServiceID:    serviceID,
		Date:         date,
		Time:         tm,
		Available:    true,
	}
	require.NoError(t, gdb.Create(&slot).Error)
	return slot
}

func slotByID(t *testing.T, gdb *gorm.DB, id uint) models.ScheduleSlot {
	t.Helper()

	var slot models.ScheduleSlot
	require.NoError(t, gdb.First(&slot, id).Error)
	return slot
}

// ----- CreateBooking -----

func TestCreateBooking_ReservesSlotAndSnapshotsPrice(t *testing.T) {
	gdb := newTestDB(t)
	sp, svc := seedCatalog(t, gdb)
	slot := seedSlot(t, gdb, sp.ID, svc.ID, "2030-04-01", "10:00")

	uc := NewCreateBooking(infraRepo.NewBookingGormRepository(gdb), newTestDispatcher(gdb))

	ap, err := uc.Execute(context.Background(), CreateBookingInput{
		SpecialistID: sp.ID,
		ServiceID:    svc.ID,
		Date:         "2030-04-01",
		Time:         "10:00",
		ClientName:   "Мария",
		ClientPhone:  "+7 (900) 123-45-67",
	})
	require.NoError(t, err)
	require.NotNil(t, ap.ScheduleSlotID)
	require.Equal(t, slot.ID, *ap.ScheduleSlotID)
	require.Equal(t, 1500.0, ap.Price)

	require.False(t, slotByID(t, gdb, slot.ID).Available)

	var client models.Client
	require.NoError(t, gdb.First(&client, ap.ClientID).Error)
	require.Equal(t, "+79001234567", client.Phone)
}

func TestCreateBooking_SecondClaimFails(t *testing.T) {
	gdb := newTestDB(t)
	sp, svc := seedCatalog(t, gdb)
	seedSlot(t, gdb, sp.ID, svc.ID, "2030-04-01", "10:00")

	uc := NewCreateBooking(infraRepo.NewBookingGormRepository(gdb), newTestDispatcher(gdb))

	in := CreateBookingInput{
		SpecialistID: sp.ID,
		ServiceID:    svc.ID,
		Date:         "2030-04-01",
		Time:         "10:00",
		ClientName:   "Мария",
		ClientPhone:  "79001234567",
	}
	_, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)

	in.ClientName = "Ольга"
	in.ClientPhone = "79007654321"
	_, err = uc.Execute(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrSlotTaken)

	var count int64
	gdb.Model(&models.Appointment{}).Count(&count)
	require.EqualValues(t, 1, count)
}

func TestCreateBooking_UnknownService(t *testing.T) {
	gdb := newTestDB(t)
	sp, _ := seedCatalog(t, gdb)

	uc := NewCreateBooking(infraRepo.NewBookingGormRepository(gdb), newTestDispatcher(gdb))

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		SpecialistID: sp.ID,
		ServiceID:    999,
		Date:         "2030-04-01",
		Time:         "10:00",
		ClientName:   "Мария",
		ClientPhone:  "79001234567",
	})
	require.ErrorIs(t, err, domain.ErrServiceNotFound)
}

func TestCreateBooking_ReusesClientByPhone(t *testing.T) {
	gdb := newTestDB(t)
	sp, svc := seedCatalog(t, gdb)
	seedSlot(t, gdb, sp.ID, svc.ID, "2030-04-01", "10:00")
	seedSlot(t, gdb, sp.ID, svc.ID, "2030-04-02", "10:00")

	uc := NewCreateBooking(infraRepo.NewBookingGormRepository(gdb), newTestDispatcher(gdb))

	first, err := uc.Execute(context.Background(), CreateBookingInput{
		SpecialistID: sp.ID, ServiceID: svc.ID,
		Date: "2030-04-01", Time: "10:00",
		ClientName: "Мария", ClientPhone: "7 900 123 45 67",
	})
	require.NoError(t, err)

	second, err := uc.Execute(context.Background(), CreateBookingInput{
		SpecialistID: sp.ID, ServiceID: svc.ID,
		Date: "2030-04-02", Time: "10:00",
		ClientName: "Мария П.", ClientPhone: "7 (900) 123-45-67",
	})
	require.NoError(t, err)
	require.Equal(t, first.ClientID, second.ClientID)

	var client models.Client
	require.NoError(t, gdb.First(&client, second.ClientID).Error)
	require.Equal(t, "Мария П.", client.Name)
}

// ----- CreateAdminBooking -----

func TestCreateAdminBooking_ClaimsSlotWhenPresent(t *testing.T) {
	gdb := newTestDB(t)
	sp, svc := seedCatalog(t, gdb)
	slot := seedSlot(t, gdb, sp.ID, svc.ID, "2030-04-01", "10:00")

	uc := NewCreateAdminBooking(infraRepo.NewBookingGormRepository(gdb), newTestDispatcher(gdb))

	ap, err := uc.Execute(context.Background(), CreateBookingInput{
		SpecialistID: sp.ID, ServiceID: svc.ID,
		Date: "2030-04-01", Time: "10:00",
		ClientName: "Мария", ClientPhone: "79001234567",
	})
	require.NoError(t, err)
	require.NotNil(t, ap.ScheduleSlotID)
	require.Equal(t, slot.ID, *ap.ScheduleSlotID)
	require.False(t, slotByID(t, gdb, slot.ID).Available)
}

func TestCreateAdminBooking_ForceWithoutSlot(t *testing.T) {
	gdb := newTestDB(t)
	sp, svc := seedCatalog(t, gdb)

	uc := NewCreateAdminBooking(infraRepo.NewBookingGormRepository(gdb), newTestDispatcher(gdb))

	ap, err := uc.Execute(context.Background(), CreateBookingInput{
		SpecialistID: sp.ID, ServiceID: svc.ID,
		Date: "2030-04-01", Time: "23:30",
		ClientName: "Мария", ClientPhone: "79001234567",
	})
	require.NoError(t, err)
	require.Nil(t, ap.ScheduleSlotID)
}

// ----- CancelBooking -----

func TestCancelBooking_RestoresSlot(t *testing.T) {
	gdb := newTestDB(t)
	sp, svc := seedCatalog(t, gdb)
	slot := seedSlot(t, gdb, sp.ID, svc.ID, "2030-04-01", "10:00")

	repo := infraRepo.NewBookingGormRepository(gdb)
	create := NewCreateBooking(repo, newTestDispatcher(gdb))

	ap, err := create.Execute(context.Background(), CreateBookingInput{
		SpecialistID: sp.ID, ServiceID: svc.ID,
		Date: "2030-04-01", Time: "10:00",
		ClientName: "Мария", ClientPhone: "79001234567",
	})
	require.NoError(t, err)

	require.NoError(t, NewCancelBooking(repo).Execute(context.Background(), ap.ID))

	var count int64
	gdb.Model(&models.Appointment{}).Where("id = ?", ap.ID).Count(&count)
	require.Zero(t, count)

	require.True(t, slotByID(t, gdb, slot.ID).Available)
}

func TestCancelBooking_MissingSlotIsBenign(t *testing.T) {
	gdb := newTestDB(t)
	sp, svc := seedCatalog(t, gdb)
	slot := seedSlot(t, gdb, sp.ID, svc.ID, "2030-04-01", "10:00")

	repo := infraRepo.NewBookingGormRepository(gdb)
	create := NewCreateBooking(repo, newTestDispatcher(gdb))

	ap, err := create.Execute(context.Background(), CreateBookingInput{
		SpecialistID: sp.ID, ServiceID: svc.ID,
		Date: "2030-04-01", Time: "10:00",
		ClientName: "Мария", ClientPhone: "79001234567",
	})
	require.NoError(t, err)

	// slot removed out-of-band
	require.NoError(t, gdb.Delete(&models.ScheduleSlot{}, slot.ID).Error)

	require.NoError(t, NewCancelBooking(repo).Execute(context.Background(), ap.ID))
}

func TestCancelBooking_NotFound(t *testing.T) {
	gdb := newTestDB(t)

	err := NewCancelBooking(infraRepo.NewBookingGormRepository(gdb)).
		Execute(context.Background(), 123)
	require.ErrorIs(t, err, domain.ErrAppointmentNotFound)
}

// ----- EditBooking -----

func TestEditBooking_ClientOnlyKeepsSlot(t *testing.T) {
	gdb := newTestDB(t)
	sp, svc := seedCatalog(t, gdb)
	slot := seedSlot(t, gdb, sp.ID, svc.ID, "2030-04-01", "10:00")

	repo := infraRepo.NewBookingGormRepository(gdb)
	create := NewCreateBooking(repo, newTestDispatcher(gdb))

	ap, err := create.Execute(context.Background(), CreateBookingInput{
		SpecialistID: sp.ID, ServiceID: svc.ID,
		Date: "2030-04-01", Time: "10:00",
		ClientName: "Мария", ClientPhone: "79001234567",
	})
	require.NoError(t, err)

	updated, err := NewEditBooking(repo).Execute(context.Background(), EditBookingInput{
		AppointmentID: ap.ID,
		Date:          "2030-04-01",
		Time:          "10:00",
		ClientName:    "Ольга",
		ClientPhone:   "79007654321",
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ScheduleSlotID)
	require.Equal(t, slot.ID, *updated.ScheduleSlotID)
	require.NotEqual(t, ap.ClientID, updated.ClientID)

	// the original reservation stays claimed
	require.False(t, slotByID(t, gdb, slot.ID).Available)
}

func TestEditBooking_MoveClaimsNewSlot(t *testing.T) {
	gdb := newTestDB(t)
	sp, svc := seedCatalog(t, gdb)
	oldSlot := seedSlot(t, gdb, sp.ID, svc.ID, "2030-04-01", "10:00")
	newSlot := seedSlot(t, gdb, sp.ID, svc.ID, "2030-04-02", "12:00")

	repo := infraRepo.NewBookingGormRepository(gdb)
	create := NewCreateBooking(repo, newTestDispatcher(gdb))

	ap, err := create.Execute(context.Background(), CreateBookingInput{
		SpecialistID: sp.ID, ServiceID: svc.ID,
		Date: "2030-04-01", Time: "10:00",
		ClientName: "Мария", ClientPhone: "79001234567",
	})
	require.NoError(t, err)

	updated, err := NewEditBooking(repo).Execute(context.Background(), EditBookingInput{
		AppointmentID: ap.ID,
		Date:          "2030-04-02",
		Time:          "12:00",
		ClientName:    "Мария",
		ClientPhone:   "79001234567",
	})
	require.NoError(t, err)
	require.Equal(t, "2030-04-02", updated.Date)
	require.Equal(t, "12:00", updated.Time)
	require.NotNil(t, updated.ScheduleSlotID)
	require.Equal(t, newSlot.ID, *updated.ScheduleSlotID)

	require.True(t, slotByID(t, gdb, oldSlot.ID).Available)
	require.False(t, slotByID(t, gdb, newSlot.ID).Available)
}

func TestEditBooking_MoveConflictRollsBack(t *testing.T) {
	gdb := newTestDB(t)
	sp, svc := seedCatalog(t, gdb)
	oldSlot := seedSlot(t, gdb, sp.ID, svc.ID, "2030-04-01", "10:00")

	repo := infraRepo.NewBookingGormRepository(gdb)
	create := NewCreateBooking(repo, newTestDispatcher(gdb))

	ap, err := create.Execute(context.Background(), CreateBookingInput{
		SpecialistID: sp.ID, ServiceID: svc.ID,
		Date: "2030-04-01", Time: "10:00",
		ClientName: "Мария", ClientPhone: "79001234567",
	})
	require.NoError(t, err)

	// no slot exists at the target time
	_, err = NewEditBooking(repo).Execute(context.Background(), EditBookingInput{
		AppointmentID: ap.ID,
		Date:          "2030-04-02",
		Time:          "12:00",
		ClientName:    "Мария",
		ClientPhone:   "79001234567",
	})
	require.ErrorIs(t, err, domain.ErrSlotTaken)

	// the rollback keeps the old reservation claimed and the row unchanged
	require.False(t, slotByID(t, gdb, oldSlot.ID).Available)

	var got models.Appointment
	require.NoError(t, gdb.First(&got, ap.ID).Error)
	require.Equal(t, "2030-04-01", got.Date)
	require.Equal(t, "10:00", got.Time)
}

func TestEditBooking_ServiceChangeResnapshotsPrice(t *testing.T) {
	gdb := newTestDB(t)
	sp, svc := seedCatalog(t, gdb)

	svc2 := models.Service{Name: "Окрашивание", Price: 4000, Visibility: models.VisibilityActive}
	require.NoError(t, gdb.Create(&svc2).Error)

	seedSlot(t, gdb, sp.ID, svc.ID, "2030-04-01", "10:00")
	seedSlot(t, gdb, sp.ID, svc2.ID, "2030-04-01", "14:00")

	repo := infraRepo.NewBookingGormRepository(gdb)
	create := NewCreateBooking(repo, newTestDispatcher(gdb))

	ap, err := create.Execute(context.Background(), CreateBookingInput{
		SpecialistID: sp.ID, ServiceID: svc.ID,
		Date: "2030-04-01", Time: "10:00",
		ClientName: "Мария", ClientPhone: "79001234567",
	})
	require.NoError(t, err)
	require.Equal(t, 1500.0, ap.Price)

	updated, err := NewEditBooking(repo).Execute(context.Background(), EditBookingInput{
		AppointmentID: ap.ID,
		Date:          "2030-04-01",
		Time:          "14:00",
		ServiceID:     &svc2.ID,
		ClientName:    "Мария",
		ClientPhone:   "79001234567",
	})
	require.NoError(t, err)
	require.Equal(t, svc2.ID, updated.ServiceID)
	require.Equal(t, 4000.0, updated.Price)
}

// ----- ChangeSpecialist -----

func TestChangeSpecialist_MovesReservation(t *testing.T) {
	gdb := newTestDB(t)
	sp, svc := seedCatalog(t, gdb)

	sp2 := models.Specialist{Name: "Ирина", Visibility: models.VisibilityActive}
	require.NoError(t, gdb.Create(&sp2).Error)

	oldSlot := seedSlot(t, gdb, sp.ID, svc.ID, "2030-04-01", "10:00")
	newSlot := seedSlot(t, gdb, sp2.ID, svc.ID, "2030-04-01", "10:00")

	repo := infraRepo.NewBookingGormRepository(gdb)
	create := NewCreateBooking(repo, newTestDispatcher(gdb))

	ap, err := create.Execute(context.Background(), CreateBookingInput{
		SpecialistID: sp.ID, ServiceID: svc.ID,
		Date: "2030-04-01", Time: "10:00",
		ClientName: "Мария", ClientPhone: "79001234567",
	})
	require.NoError(t, err)

	updated, err := NewChangeSpecialist(repo).Execute(context.Background(), ChangeSpecialistInput{
		AppointmentID: ap.ID,
		SpecialistID:  sp2.ID,
	})
	require.NoError(t, err)
	require.Equal(t, sp2.ID, updated.SpecialistID)
	require.NotNil(t, updated.ScheduleSlotID)
	require.Equal(t, newSlot.ID, *updated.ScheduleSlotID)

	require.True(t, slotByID(t, gdb, oldSlot.ID).Available)
	require.False(t, slotByID(t, gdb, newSlot.ID).Available)
}

func TestChangeSpecialist_NoSlotFailsWithoutForce(t *testing.T) {
	gdb := newTestDB(t)
	sp, svc := seedCatalog(t, gdb)

	sp2 := models.Specialist{Name: "Ирина", Visibility: models.VisibilityActive}
	require.NoError(t, gdb.Create(&sp2).Error)

	oldSlot := seedSlot(t, gdb, sp.ID, svc.ID, "2030-04-01", "10:00")

	repo := infraRepo.NewBookingGormRepository(gdb)
	create := NewCreateBooking(repo, newTestDispatcher(gdb))

	ap, err := create.Execute(context.Background(), CreateBookingInput{
		SpecialistID: sp.ID, ServiceID: svc.ID,
		Date: "2030-04-01", Time: "10:00",
		ClientName: "Мария", ClientPhone: "79001234567",
	})
	require.NoError(t, err)

	_, err = NewChangeSpecialist(repo).Execute(context.Background(), ChangeSpecialistInput{
		AppointmentID: ap.ID,
		SpecialistID:  sp2.ID,
	})
	require.ErrorIs(t, err, domain.ErrSlotTaken)

	// rollback keeps the original specialist's reservation
	require.False(t, slotByID(t, gdb, oldSlot.ID).Available)
}

func TestChangeSpecialist_ForceWithoutSlot(t *testing.T) {
	gdb := newTestDB(t)
	sp, svc := seedCatalog(t, gdb)

	sp2 := models.Specialist{Name: "Ирина", Visibility: models.VisibilityActive}
	require.NoError(t, gdb.Create(&sp2).Error)

	oldSlot := seedSlot(t, gdb, sp.ID, svc.ID, "2030-04-01", "10:00")

	repo := infraRepo.NewBookingGormRepository(gdb)
	create := NewCreateBooking(repo, newTestDispatcher(gdb))

	ap, err := create.Execute(context.Background(), CreateBookingInput{
		SpecialistID: sp.ID, ServiceID: svc.ID,
		Date: "2030-04-01", Time: "10:00",
		ClientName: "Мария", ClientPhone: "79001234567",
	})
	require.NoError(t, err)

	updated, err := NewChangeSpecialist(repo).Execute(context.Background(), ChangeSpecialistInput{
		AppointmentID: ap.ID,
		SpecialistID:  sp2.ID,
		Force:         true,
	})
	require.NoError(t, err)
	require.Equal(t, sp2.ID, updated.SpecialistID)
	require.Nil(t, updated.ScheduleSlotID)

	require.True(t, slotByID(t, gdb, oldSlot.ID).Available)
}

// ----- GenerateFreeTime -----

func TestGenerateFreeTime_CreatesGrid(t *testing.T) {
	gdb := newTestDB(t)
	sp, svc := seedCatalog(t, gdb)

	sp2 := models.Specialist{Name: "Ирина", Visibility: models.VisibilityActive}
	require.NoError(t, gdb.Create(&sp2).Error)

	uc := NewGenerateFreeTime(infraRepo.NewBookingGormRepository(gdb), 5)

	// 2030-04-01 is a Monday
	res, err := uc.Execute(context.Background(), GenerateFreeTimeInput{
		ServiceID:     svc.ID,
		SpecialistIDs: []uint{sp.ID, sp2.ID},
		DateFrom:      "2030-04-01",
		DateTo:        "2030-04-03",
		Days:          domain.DaysAll,
		Times:         []string{"10:00", "11:00", "12:00", "13:00", "14:00"},
	})
	require.NoError(t, err)
	require.Equal(t, 30, res.Created)
	require.Zero(t, res.Skipped)

	var count int64
	gdb.Model(&models.ScheduleSlot{}).Count(&count)
	require.EqualValues(t, 30, count)
}

func TestGenerateFreeTime_SecondRunSkipsEverything(t *testing.T) {
	gdb := newTestDB(t)
	sp, svc := seedCatalog(t, gdb)

	uc := NewGenerateFreeTime(infraRepo.NewBookingGormRepository(gdb), 5)

	in := GenerateFreeTimeInput{
		ServiceID:     svc.ID,
		SpecialistIDs: []uint{sp.ID},
		DateFrom:      "2030-04-01",
		DateTo:        "2030-04-01",
		Days:          domain.DaysAll,
		Times:         []string{"10:00", "11:00"},
	}

	res, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, 2, res.Created)

	res, err = uc.Execute(context.Background(), in)
	require.NoError(t, err)
	require.Zero(t, res.Created)
	require.Equal(t, 2, res.Skipped)
}

func TestGenerateFreeTime_GapSkipsNearbyTimes(t *testing.T) {
	gdb := newTestDB(t)
	sp, svc := seedCatalog(t, gdb)
	seedSlot(t, gdb, sp.ID, svc.ID, "2030-04-01", "10:00")

	uc := NewGenerateFreeTime(infraRepo.NewBookingGormRepository(gdb), 5)

	res, err := uc.Execute(context.Background(), GenerateFreeTimeInput{
		ServiceID:     svc.ID,
		SpecialistIDs: []uint{sp.ID},
		DateFrom:      "2030-04-01",
		DateTo:        "2030-04-01",
		Days:          domain.DaysAll,
		Times:         []string{"10:02", "10:04", "10:05"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Created) // 10:05 clears the 5-minute gap
	require.Equal(t, 2, res.Skipped)
}

func TestGenerateFreeTime_WorkdaysFilter(t *testing.T) {
	gdb := newTestDB(t)
	sp, svc := seedCatalog(t, gdb)

	uc := NewGenerateFreeTime(infraRepo.NewBookingGormRepository(gdb), 5)

	// 2030-04-05 Fri .. 2030-04-08 Mon: workdays are Fri and Mon
	res, err := uc.Execute(context.Background(), GenerateFreeTimeInput{
		ServiceID:     svc.ID,
		SpecialistIDs: []uint{sp.ID},
		DateFrom:      "2030-04-05",
		DateTo:        "2030-04-08",
		Days:          domain.DaysWorkdays,
		Times:         []string{"10:00"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, res.Created)

	var dates []string
	gdb.Model(&models.ScheduleSlot{}).Order("date").Pluck("date", &dates)
	require.Equal(t, []string{"2030-04-05", "2030-04-08"}, dates)
}

func TestGenerateFreeTime_UnknownSpecialist(t *testing.T) {
	gdb := newTestDB(t)
	_, svc := seedCatalog(t, gdb)

	uc := NewGenerateFreeTime(infraRepo.NewBookingGormRepository(gdb), 5)

	_, err := uc.Execute(context.Background(), GenerateFreeTimeInput{
		ServiceID:     svc.ID,
		SpecialistIDs: []uint{999},
		DateFrom:      "2030-04-01",
		DateTo:        "2030-04-01",
		Days:          domain.DaysAll,
		Times:         []string{"10:00"},
	})
	require.ErrorIs(t, err, domain.ErrSpecialistNotFound)
}
