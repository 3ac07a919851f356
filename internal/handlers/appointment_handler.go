package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/glowpoint/salon-api/internal/httperr"
	"github.com/glowpoint/salon-api/internal/httpresp"
	"github.com/glowpoint/salon-api/internal/models"
	"github.com/glowpoint/salon-api/internal/validators"
	ucBooking "github.com/glowpoint/salon-api/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db *gorm.DB

	create           *ucBooking.CreateBooking
	createAdmin      *ucBooking.CreateAdminBooking
	edit             *ucBooking.EditBooking
	changeSpecialist *ucBooking.ChangeSpecialist
	cancel           *ucBooking.CancelBooking
}

func NewAppointmentHandler(
	db *gorm.DB,
	create *ucBooking.CreateBooking,
	createAdmin *ucBooking.CreateAdminBooking,
	edit *ucBooking.EditBooking,
	changeSpecialist *ucBooking.ChangeSpecialist,
	cancel *ucBooking.CancelBooking,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:               db,
		create:           create,
		createAdmin:      createAdmin,
		edit:             edit,
		changeSpecialist: changeSpecialist,
		cancel:           cancel,
	}
}

// --------- Requests ---------

type CreateAppointmentRequest struct {
	SpecialistID uint   `json:"specialistId" binding:"required"`
	ServiceID    uint   `json:"serviceId" binding:"required"`
	Date         string `json:"date" binding:"required"`
	Time         string `json:"time" binding:"required"`
	ClientName   string `json:"clientName" binding:"required"`
	ClientPhone  string `json:"clientPhone" binding:"required"`
}

type EditAppointmentRequest struct {
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	ServiceID   *uint  `json:"serviceId,omitempty"`
	ClientName  string `json:"clientName" binding:"required"`
	ClientPhone string `json:"clientPhone" binding:"required"`
}

type ChangeSpecialistRequest struct {
	SpecialistID uint `json:"specialistId" binding:"required"`
	Force        bool `json:"force"`
}

// --------- Rows ---------

// AppointmentRow is the joined shape the admin journal renders.
type AppointmentRow struct {
	ID             uint    `json:"id"`
	Date           string  `json:"date"`
	Time           string  `json:"time"`
	Price          float64 `json:"price"`
	ClientName     string  `json:"client_name"`
	ClientPhone    string  `json:"client_phone"`
	ServiceName    string  `json:"service_name"`
	SpecialistName string  `json:"specialist_name"`
	CreatedAt      string  `json:"created_at"`
}

// ======================================================
// CREATE (public: slot required)
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Все поля обязательны для заполнения")
		return
	}

	if !validators.IsPhoneValid(req.ClientPhone) {
		httperr.BadRequest(c, "Некорректный номер телефона")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		SpecialistID: req.SpecialistID,
		ServiceID:    req.ServiceID,
		Date:         req.Date,
		Time:         req.Time,
		ClientName:   req.ClientName,
		ClientPhone:  req.ClientPhone,
	})
	if err != nil {
		h.writeBookingError(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// CREATE (admin: may force-book without a slot)
// ======================================================

func (h *AppointmentHandler) CreateAdmin(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Все поля обязательны для заполнения")
		return
	}

	ap, err := h.createAdmin.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		SpecialistID: req.SpecialistID,
		ServiceID:    req.ServiceID,
		Date:         req.Date,
		Time:         req.Time,
		ClientName:   req.ClientName,
		ClientPhone:  req.ClientPhone,
	})
	if err != nil {
		h.writeBookingError(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// EDIT / CHANGE SPECIALIST / CANCEL
// ======================================================

func (h *AppointmentHandler) Edit(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "Некорректный идентификатор")
		return
	}

	var req EditAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Все поля обязательны для заполнения")
		return
	}

	ap, err := h.edit.Execute(c.Request.Context(), ucBooking.EditBookingInput{
		AppointmentID: id,
		Date:          req.Date,
		Time:          req.Time,
		ServiceID:     req.ServiceID,
		ClientName:    req.ClientName,
		ClientPhone:   req.ClientPhone,
	})
	if err != nil {
		h.writeBookingError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) ChangeSpecialist(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "Некорректный идентификатор")
		return
	}

	var req ChangeSpecialistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Все поля обязательны для заполнения")
		return
	}

	ap, err := h.changeSpecialist.Execute(c.Request.Context(), ucBooking.ChangeSpecialistInput{
		AppointmentID: id,
		SpecialistID:  req.SpecialistID,
		Force:         req.Force,
	})
	if err != nil {
		h.writeBookingError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "Некорректный идентификатор")
		return
	}

	if err := h.cancel.Execute(c.Request.Context(), id); err != nil {
		h.writeBookingError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"deletedId": id})
}

// ======================================================
// LISTS
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	q := h.db.
		Model(&models.Appointment{}).
		Select(`appointments.id, appointments.date, appointments.time, appointments.price,
            clients.name AS client_name, clients.phone AS client_phone,
            services.name AS service_name, specialists.name AS specialist_name,
            appointments.created_at`).
		Joins("JOIN clients ON clients.id = appointments.client_id").
		Joins("JOIN services ON services.id = appointments.service_id").
		Joins("JOIN specialists ON specialists.id = appointments.specialist_id")

	if specialistID := c.Query("specialistId"); specialistID != "" {
		q = q.Where("appointments.specialist_id = ?", specialistID)
	}

	startDate := c.Query("startDate")
	endDate := c.Query("endDate")
	switch {
	case startDate != "" && endDate != "":
		q = q.Where("appointments.date BETWEEN ? AND ?", startDate, endDate)
	case startDate != "":
		q = q.Where("appointments.date >= ?", startDate)
	case endDate != "":
		q = q.Where("appointments.date <= ?", endDate)
	}

	if createdSince := c.Query("createdSince"); createdSince != "" {
		q = q.Where("appointments.created_at >= ?", createdSince)
	}

	var rows []AppointmentRow
	if err := q.
		Order("appointments.date DESC, appointments.time DESC").
		Scan(&rows).Error; err != nil {
		httperr.Internal(c, err.Error())
		return
	}
	httpresp.OK(c, rows)
}

// ListRange returns per-day appointment counts for the calendar view.
func (h *AppointmentHandler) ListRange(c *gin.Context) {
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")
	if startDate == "" || endDate == "" {
		httperr.BadRequest(c, "Диапазон дат обязателен")
		return
	}

	q := h.db.
		Model(&models.Appointment{}).
		Select("date, COUNT(id) AS appointment_count").
		Where("date BETWEEN ? AND ?", startDate, endDate)

	if specialistID := c.Query("specialistId"); specialistID != "" {
		q = q.Where("specialist_id = ?", specialistID)
	}

	var rows []struct {
		Date             string `json:"date"`
		AppointmentCount int    `json:"appointment_count"`
	}
	if err := q.
		Group("date").
		Order("date ASC").
		Scan(&rows).Error; err != nil {
		httperr.Internal(c, err.Error())
		return
	}

	result := make(map[string]int, len(rows))
	for _, row := range rows {
		result[row.Date] = row.AppointmentCount
	}
	httpresp.OK(c, result)
}

// ======================================================
// ERROR MAPPING
// ======================================================

func (h *AppointmentHandler) writeBookingError(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "slot_taken"):
		httperr.Conflict(c, "Время уже занято")
	case httperr.IsBusiness(err, "service_not_found"):
		httperr.NotFound(c, "Услуга не найдена")
	case httperr.IsBusiness(err, "specialist_not_found"):
		httperr.NotFound(c, "Мастер не найден")
	case httperr.IsBusiness(err, "appointment_not_found"):
		httperr.NotFound(c, "Запись не найдена")
	default:
		httperr.Internal(c, err.Error())
	}
}
