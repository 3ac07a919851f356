package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/glowpoint/salon-api/internal/domain/booking"
	"github.com/glowpoint/salon-api/internal/httperr"
	"github.com/glowpoint/salon-api/internal/httpresp"
	"github.com/glowpoint/salon-api/internal/models"
	"github.com/glowpoint/salon-api/internal/timezone"
	ucBooking "github.com/glowpoint/salon-api/internal/usecase/booking"
)

type ScheduleHandler struct {
	db       *gorm.DB
	generate *ucBooking.GenerateFreeTime
	tz       string
}

func NewScheduleHandler(db *gorm.DB, generate *ucBooking.GenerateFreeTime, tz string) *ScheduleHandler {
	return &ScheduleHandler{
		db:       db,
		generate: generate,
		tz:       tz,
	}
}

// --------- Requests ---------

type SlotRequest struct {
	SpecialistID uint   `json:"specialist_id" binding:"required"`
	ServiceID    uint   `json:"service_id" binding:"required"`
	Date         string `json:"date" binding:"required"`
	Time         string `json:"time" binding:"required"`
	Available    *bool  `json:"available,omitempty"`
}

type SlotAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

type GenerateRequest struct {
	ServiceID     uint     `json:"service_id" binding:"required"`
	SpecialistIDs []uint   `json:"specialist_ids" binding:"required,min=1"`
	DateFrom      string   `json:"date_from" binding:"required"`
	DateTo        string   `json:"date_to" binding:"required"`
	Days          string   `json:"days"`
	Times         []string `json:"times" binding:"required,min=1"`
}

// --------- Rows ---------

// ScheduleRow mirrors the joined shape the admin panel renders.
type ScheduleRow struct {
	ID           uint    `json:"id"`
	SpecialistID uint    `json:"specialist_id"`
	ServiceID    uint    `json:"service_id"`
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	Available    bool    `json:"available"`
	Specialist   string  `json:"specialist_name"`
	Service      string  `json:"service_name"`
	ServicePrice float64 `json:"service_price"`
}

func (h *ScheduleHandler) joined() *gorm.DB {
	return h.db.
		Model(&models.ScheduleSlot{}).
		Select(`schedule_slots.id, schedule_slots.specialist_id, schedule_slots.service_id,
            schedule_slots.date, schedule_slots.time, schedule_slots.available,
            specialists.name AS specialist, services.name AS service, services.price AS service_price`).
		Joins("JOIN specialists ON specialists.id = schedule_slots.specialist_id").
		Joins("JOIN services ON services.id = schedule_slots.service_id")
}

// ======================================================
// GET ONE
// ======================================================

func (h *ScheduleHandler) Get(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "Некорректный идентификатор")
		return
	}

	var row ScheduleRow
	if err := h.joined().
		Where("schedule_slots.id = ?", id).
		Scan(&row).Error; err != nil {
		httperr.Internal(c, err.Error())
		return
	}
	if row.ID == 0 {
		httperr.NotFound(c, "Расписание не найдено")
		return
	}
	httpresp.OK(c, row)
}

// ======================================================
// LISTS
// ======================================================

// ListAvailable returns bookable slots within a date range, optionally for
// one specialist.
func (h *ScheduleHandler) ListAvailable(c *gin.Context) {
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")
	if startDate == "" || endDate == "" {
		httperr.BadRequest(c, "Диапазон дат обязателен")
		return
	}

	q := h.joined().
		Where("schedule_slots.available AND schedule_slots.date BETWEEN ? AND ?", startDate, endDate)

	if specialistID := c.Query("specialistId"); specialistID != "" {
		q = q.Where("schedule_slots.specialist_id = ?", specialistID)
	}

	var rows []ScheduleRow
	if err := q.
		Order("schedule_slots.date ASC, schedule_slots.time ASC").
		Scan(&rows).Error; err != nil {
		httperr.Internal(c, err.Error())
		return
	}
	httpresp.OK(c, rows)
}

// FreetimeAvailable is the admin "free time" view; defaults to today onward.
func (h *ScheduleHandler) FreetimeAvailable(c *gin.Context) {
	fromDate := c.Query("fromDate")
	if fromDate == "" {
		fromDate = timezone.Today(h.tz)
	}

	q := h.joined().
		Where("schedule_slots.available AND schedule_slots.date >= ?", fromDate)

	if toDate := c.Query("toDate"); toDate != "" {
		q = q.Where("schedule_slots.date <= ?", toDate)
	}
	if masterID := c.Query("masterId"); masterID != "" {
		q = q.Where("schedule_slots.specialist_id = ?", masterID)
	}

	var rows []ScheduleRow
	if err := q.
		Order("schedule_slots.date ASC, schedule_slots.time ASC").
		Scan(&rows).Error; err != nil {
		httperr.Internal(c, err.Error())
		return
	}
	httpresp.OK(c, rows)
}

// AvailableDates lists dates (today onward) where the specialist still has a
// free slot for the service.
func (h *ScheduleHandler) AvailableDates(c *gin.Context) {
	specialistID, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "Некорректный идентификатор")
		return
	}
	serviceID, ok := parseUintParam(c, "serviceId")
	if !ok {
		httperr.BadRequest(c, "Некорректный идентификатор")
		return
	}

	var dates []string
	if err := h.db.
		Model(&models.ScheduleSlot{}).
		Distinct("date").
		Where(
			"specialist_id = ? AND service_id = ? AND available AND date >= ?",
			specialistID, serviceID, timezone.Today(h.tz),
		).
		Order("date ASC").
		Pluck("date", &dates).Error; err != nil {
		httperr.Internal(c, err.Error())
		return
	}
	httpresp.OK(c, dates)
}

// TimesForDate lists the free times on one date for a specialist/service.
func (h *ScheduleHandler) TimesForDate(c *gin.Context) {
	specialistID, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "Некорректный идентификатор")
		return
	}
	serviceID, ok := parseUintParam(c, "serviceId")
	if !ok {
		httperr.BadRequest(c, "Некорректный идентификатор")
		return
	}
	date := c.Param("date")

	var times []string
	if err := h.db.
		Model(&models.ScheduleSlot{}).
		Where(
			"specialist_id = ? AND service_id = ? AND date = ? AND available",
			specialistID, serviceID, date,
		).
		Order("time ASC").
		Pluck("time", &times).Error; err != nil {
		httperr.Internal(c, err.Error())
		return
	}
	httpresp.OK(c, times)
}

// ======================================================
// CREATE / UPDATE / DELETE
// ======================================================

func (h *ScheduleHandler) Create(c *gin.Context) {
	var req SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Все поля обязательны")
		return
	}

	var count int64
	h.db.Model(&models.ScheduleSlot{}).
		Where(
			"specialist_id = ? AND service_id = ? AND date = ? AND time = ?",
			req.SpecialistID, req.ServiceID, req.Date, req.Time,
		).
		Count(&count)
	if count > 0 {
		httperr.Conflict(c, "Такое время уже существует для этого мастера и услуги")
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	slot := models.ScheduleSlot{
		SpecialistID: req.SpecialistID,
		ServiceID:    req.ServiceID,
		Date:         req.Date,
		Time:         req.Time,
		Available:    available,
	}

	if err := h.db.Create(&slot).Error; err != nil {
		httperr.Internal(c, err.Error())
		return
	}
	httpresp.Created(c, slot)
}

func (h *ScheduleHandler) Update(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "Некорректный идентификатор")
		return
	}

	var req SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Все поля обязательны")
		return
	}

	var count int64
	h.db.Model(&models.ScheduleSlot{}).
		Where(
			"specialist_id = ? AND service_id = ? AND date = ? AND time = ? AND id != ?",
			req.SpecialistID, req.ServiceID, req.Date, req.Time, id,
		).
		Count(&count)
	if count > 0 {
		httperr.Conflict(c, "Такое время уже существует для этого мастера и услуги")
		return
	}

	res := h.db.Model(&models.ScheduleSlot{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"specialist_id": req.SpecialistID,
			"service_id":    req.ServiceID,
			"date":          req.Date,
			"time":          req.Time,
		})
	if res.Error != nil {
		httperr.Internal(c, res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Расписание не найдено")
		return
	}

	httpresp.OK(c, gin.H{
		"id":            id,
		"specialist_id": req.SpecialistID,
		"service_id":    req.ServiceID,
		"date":          req.Date,
		"time":          req.Time,
	})
}

func (h *ScheduleHandler) UpdateAvailability(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "Некорректный идентификатор")
		return
	}

	var req SlotAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Available == nil {
		httperr.BadRequest(c, "Некорректные данные")
		return
	}

	res := h.db.Model(&models.ScheduleSlot{}).
		Where("id = ?", id).
		Update("available", *req.Available)
	if res.Error != nil {
		httperr.Internal(c, res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Расписание не найдено")
		return
	}

	httpresp.OK(c, gin.H{"id": id, "available": *req.Available})
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "Некорректный идентификатор")
		return
	}

	res := h.db.Delete(&models.ScheduleSlot{}, id)
	if res.Error != nil {
		httperr.Internal(c, res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Расписание не найдено")
		return
	}

	httpresp.OK(c, gin.H{"id": id, "deleted": true})
}

// ======================================================
// BATCH GENERATION
// ======================================================

func (h *ScheduleHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Все поля обязательны")
		return
	}

	days := domain.DayFilter(req.Days)
	switch days {
	case domain.DaysAll, domain.DaysWorkdays, domain.DaysWeekends:
	case "":
		days = domain.DaysAll
	default:
		httperr.BadRequest(c, "Некорректный фильтр дней")
		return
	}

	result, err := h.generate.Execute(c.Request.Context(), ucBooking.GenerateFreeTimeInput{
		ServiceID:     req.ServiceID,
		SpecialistIDs: req.SpecialistIDs,
		DateFrom:      req.DateFrom,
		DateTo:        req.DateTo,
		Days:          days,
		Times:         req.Times,
	})
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "service_not_found"):
			httperr.NotFound(c, "Услуга не найдена")
		case httperr.IsBusiness(err, "specialist_not_found"):
			httperr.NotFound(c, "Мастер не найден")
		case httperr.IsBusiness(err, "invalid_date"),
			httperr.IsBusiness(err, "invalid_date_range"),
			httperr.IsBusiness(err, "invalid_time"):
			httperr.BadRequest(c, "Некорректные дата или время")
		default:
			httperr.Internal(c, err.Error())
		}
		return
	}

	httpresp.Created(c, result)
}
