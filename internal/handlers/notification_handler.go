package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/glowpoint/salon-api/internal/httperr"
	"github.com/glowpoint/salon-api/internal/httpresp"
	"github.com/glowpoint/salon-api/internal/models"
	"github.com/glowpoint/salon-api/internal/notify"
	"github.com/glowpoint/salon-api/internal/timezone"
)

// NotificationHandler is the polling interface of the external Telegram
// notifier: it fetches appointments still owed a notification of some kind
// and marks them sent.
type NotificationHandler struct {
	db       *gorm.DB
	recorder *notify.Recorder
	tz       string
}

func NewNotificationHandler(db *gorm.DB, recorder *notify.Recorder, tz string) *NotificationHandler {
	return &NotificationHandler{
		db:       db,
		recorder: recorder,
		tz:       tz,
	}
}

type NotificationSentRequest struct {
	AppointmentID uint   `json:"appointmentId" binding:"required"`
	Kind          string `json:"kind" binding:"required"`
}

// PendingRow extends the journal row with the recipient routing IDs.
type PendingRow struct {
	AppointmentRow
	ClientTelegramID     string `json:"client_telegram_id"`
	SpecialistTelegramID string `json:"specialist_telegram_id"`
}

// ======================================================
// GET /api/appointments-for-notifications
// ======================================================

func (h *NotificationHandler) Pending(c *gin.Context) {
	kind := c.Query("kind")
	switch kind {
	case models.NotifyDayBefore, models.NotifyHourBefore,
		models.NotifyNewBooking, models.NotifyNewBookingMaster:
	default:
		httperr.BadRequest(c, "Некорректный тип уведомления")
		return
	}

	date := c.Query("date")
	if date == "" {
		date = timezone.Today(h.tz)
	}

	var rows []PendingRow
	if err := h.db.
		Model(&models.Appointment{}).
		Select(`appointments.id, appointments.date, appointments.time, appointments.price,
            clients.name AS client_name, clients.phone AS client_phone,
            services.name AS service_name, specialists.name AS specialist_name,
            appointments.created_at,
            clients.telegram_id AS client_telegram_id,
            specialists.telegram_id AS specialist_telegram_id`).
		Joins("JOIN clients ON clients.id = appointments.client_id").
		Joins("JOIN services ON services.id = appointments.service_id").
		Joins("JOIN specialists ON specialists.id = appointments.specialist_id").
		Where("appointments.date = ?", date).
		Where(`NOT EXISTS (
            SELECT 1 FROM notifications
            WHERE notifications.appointment_id = appointments.id
            AND notifications.kind = ?
            AND notifications.sent
        )`, kind).
		Order("appointments.time ASC").
		Scan(&rows).Error; err != nil {
		httperr.Internal(c, err.Error())
		return
	}
	httpresp.OK(c, rows)
}

// ======================================================
// POST /api/notification-sent
// ======================================================

func (h *NotificationHandler) MarkSent(c *gin.Context) {
	var req NotificationSentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Все поля обязательны")
		return
	}

	var count int64
	h.db.Model(&models.Appointment{}).Where("id = ?", req.AppointmentID).Count(&count)
	if count == 0 {
		httperr.NotFound(c, "Запись не найдена")
		return
	}

	if err := h.recorder.MarkSent(req.AppointmentID, req.Kind); err != nil {
		httperr.Internal(c, err.Error())
		return
	}

	httpresp.OK(c, gin.H{"appointmentId": req.AppointmentID, "kind": req.Kind})
}
