package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dbpkg "github.com/glowpoint/salon-api/internal/db"
	infraRepo "github.com/glowpoint/salon-api/internal/infra/repository"
	"github.com/glowpoint/salon-api/internal/models"
	"github.com/glowpoint/salon-api/internal/notify"
	ucBooking "github.com/glowpoint/salon-api/internal/usecase/booking"
)

func newBookingRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := filepath.Join(t.TempDir(), "handlers.db")
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

	repo := infraRepo.NewBookingGormRepository(gdb)
	dispatcher := notify.NewDispatcher(notify.NewRecorder(gdb), zerolog.Nop())

	h := NewAppointmentHandler(
		gdb,
		ucBooking.NewCreateBooking(repo, dispatcher),
		ucBooking.NewCreateAdminBooking(repo, dispatcher),
		ucBooking.NewEditBooking(repo),
		ucBooking.NewChangeSpecialist(repo),
		ucBooking.NewCancelBooking(repo),
	)

	r := gin.New()
	r.POST("/api/appointment", h.Create)
	r.POST("/api/admin/appointment", h.CreateAdmin)
	r.DELETE("/api/appointments/:id", h.Cancel)
	return r, gdb
}

func seedBookable(t *testing.T, gdb *gorm.DB) (models.Specialist, models.Service, models.ScheduleSlot) {
	t.Helper()

	sp := models.Specialist{Name: "Анна", Visibility: models.VisibilityActive}
	require.NoError(t, gdb.Create(&sp).Error)

	svc := models.Service{Name: "Стрижка", Price: 1500, Visibility: models.VisibilityActive}
	require.NoError(t, gdb.Create(&svc).Error)

	slot := models.ScheduleSlot{
		SpecialistID: sp.ID,
		ServiceID:    svc.ID,
		Date:         "2030-04-01",
		Time:         "10:00",
		Available:    true,
	}
	require.NoError(t, gdb.Create(&slot).Error)

	return sp, svc, slot
}

func postJSON(r *gin.Engine, path string, body gin.H) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateAppointment_Endpoint(t *testing.T) {
	r, gdb := newBookingRouter(t)
	sp, svc, slot := seedBookable(t, gdb)

	w := postJSON(r, "/api/appointment", gin.H{
		"specialistId": sp.ID,
		"serviceId":    svc.ID,
		"date":         "2030-04-01",
		"time":         "10:00",
		"clientName":   "Мария",
		"clientPhone":  "+7 (900) 123-45-67",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Message string             `json:"message"`
		Data    models.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "success", resp.Message)
	require.Equal(t, 1500.0, resp.Data.Price)
	require.NotNil(t, resp.Data.ScheduleSlotID)
	require.Equal(t, slot.ID, *resp.Data.ScheduleSlotID)
}

func TestCreateAppointment_Conflict(t *testing.T) {
	r, gdb := newBookingRouter(t)
	sp, svc, _ := seedBookable(t, gdb)

	body := gin.H{
		"specialistId": sp.ID,
		"serviceId":    svc.ID,
		"date":         "2030-04-01",
		"time":         "10:00",
		"clientName":   "Мария",
		"clientPhone":  "79001234567",
	}
	require.Equal(t, http.StatusCreated, postJSON(r, "/api/appointment", body).Code)

	w := postJSON(r, "/api/appointment", body)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "error")
}

func TestCreateAppointment_InvalidPhone(t *testing.T) {
	r, gdb := newBookingRouter(t)
	sp, svc, _ := seedBookable(t, gdb)

	w := postJSON(r, "/api/appointment", gin.H{
		"specialistId": sp.ID,
		"serviceId":    svc.ID,
		"date":         "2030-04-01",
		"time":         "10:00",
		"clientName":   "Мария",
		"clientPhone":  "123",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAppointment_MissingFields(t *testing.T) {
	r, _ := newBookingRouter(t)

	w := postJSON(r, "/api/appointment", gin.H{"date": "2030-04-01"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAdminAppointment_ForceWithoutSlot(t *testing.T) {
	r, gdb := newBookingRouter(t)
	sp, svc, _ := seedBookable(t, gdb)

	w := postJSON(r, "/api/admin/appointment", gin.H{
		"specialistId": sp.ID,
		"serviceId":    svc.ID,
		"date":         "2030-04-09",
		"time":         "18:00",
		"clientName":   "Ольга",
		"clientPhone":  "79007654321",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data models.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Nil(t, resp.Data.ScheduleSlotID)
}

func TestCancelAppointment_Endpoint(t *testing.T) {
	r, gdb := newBookingRouter(t)
	sp, svc, slot := seedBookable(t, gdb)

	w := postJSON(r, "/api/appointment", gin.H{
		"specialistId": sp.ID,
		"serviceId":    svc.ID,
		"date":         "2030-04-01",
		"time":         "10:00",
		"clientName":   "Мария",
		"clientPhone":  "79001234567",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data models.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/appointments/%d", resp.Data.ID), nil)
	del := httptest.NewRecorder()
	r.ServeHTTP(del, req)
	require.Equal(t, http.StatusOK, del.Code)

	var got models.ScheduleSlot
	require.NoError(t, gdb.First(&got, slot.ID).Error)
	require.True(t, got.Available)
}

func TestCancelAppointment_NotFound(t *testing.T) {
	r, _ := newBookingRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/appointments/9999", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}
