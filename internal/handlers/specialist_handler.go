package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/glowpoint/salon-api/internal/httperr"
	"github.com/glowpoint/salon-api/internal/httpresp"
	"github.com/glowpoint/salon-api/internal/models"
	"github.com/glowpoint/salon-api/internal/timezone"
)

type SpecialistHandler struct {
	db *gorm.DB
	tz string
}

func NewSpecialistHandler(db *gorm.DB, tz string) *SpecialistHandler {
	return &SpecialistHandler{db: db, tz: tz}
}

// --------- Requests ---------

type CreateSpecialistRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Photo       string `json:"photo"`
}

type UpdateSpecialistRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Photo       *string `json:"photo,omitempty"`
}

type VisibilityRequest struct {
	Visibility int `json:"visibility" binding:"min=1,max=2"`
}

type TelegramIDRequest struct {
	TelegramID string `json:"telegram_id"`
}

// ======================================================
// PUBLIC LIST (active only)
// ======================================================

func (h *SpecialistHandler) List(c *gin.Context) {
	var specialists []models.Specialist
	if err := h.db.
		Where("visibility = ?", models.VisibilityActive).
		Order("name ASC").
		Find(&specialists).Error; err != nil {
		httperr.Internal(c, err.Error())
		return
	}
	httpresp.OK(c, specialists)
}

// ======================================================
// ADMIN LIST (active + hidden, never deleted)
// ======================================================

func (h *SpecialistHandler) ListAll(c *gin.Context) {
	var specialists []models.Specialist
	if err := h.db.
		Where("visibility != ?", models.VisibilityDeleted).
		Order("visibility ASC, name ASC").
		Find(&specialists).Error; err != nil {
		httperr.Internal(c, err.Error())
		return
	}
	httpresp.OK(c, specialists)
}

// ======================================================
// GET
// ======================================================

func (h *SpecialistHandler) Get(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "Некорректный идентификатор")
		return
	}

	var sp models.Specialist
	if err := h.db.
		Where("id = ? AND visibility != ?", id, models.VisibilityDeleted).
		First(&sp).Error; err != nil {
		httperr.NotFound(c, "Мастер не найден")
		return
	}
	httpresp.OK(c, sp)
}

// ======================================================
// CREATE / UPDATE
// ======================================================

func (h *SpecialistHandler) Create(c *gin.Context) {
	var req CreateSpecialistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Все поля обязательны для заполнения")
		return
	}

	sp := models.Specialist{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Photo:       req.Photo,
		Visibility:  models.VisibilityActive,
	}

	if err := h.db.Create(&sp).Error; err != nil {
		httperr.Internal(c, err.Error())
		return
	}
	httpresp.Created(c, sp)
}

func (h *SpecialistHandler) Update(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "Некорректный идентификатор")
		return
	}

	var sp models.Specialist
	if err := h.db.
		Where("id = ? AND visibility != ?", id, models.VisibilityDeleted).
		First(&sp).Error; err != nil {
		httperr.NotFound(c, "Мастер не найден")
		return
	}

	var req UpdateSpecialistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Некорректные данные")
		return
	}

	if req.Name != nil {
		sp.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		sp.Description = *req.Description
	}
	if req.Photo != nil {
		sp.Photo = *req.Photo
	}

	if err := h.db.Save(&sp).Error; err != nil {
		httperr.Internal(c, err.Error())
		return
	}
	httpresp.OK(c, sp)
}

// ======================================================
// VISIBILITY / TELEGRAM ID
// ======================================================

func (h *SpecialistHandler) UpdateVisibility(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "Некорректный идентификатор")
		return
	}

	var req VisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Некорректные данные")
		return
	}

	res := h.db.Model(&models.Specialist{}).
		Where("id = ? AND visibility != ?", id, models.VisibilityDeleted).
		Update("visibility", req.Visibility)
	if res.Error != nil {
		httperr.Internal(c, res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Мастер не найден")
		return
	}

	httpresp.OK(c, gin.H{"id": id, "visibility": req.Visibility})
}

func (h *SpecialistHandler) UpdateTelegramID(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "Некорректный идентификатор")
		return
	}

	var req TelegramIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Некорректные данные")
		return
	}

	res := h.db.Model(&models.Specialist{}).
		Where("id = ? AND visibility != ?", id, models.VisibilityDeleted).
		Update("telegram_id", req.TelegramID)
	if res.Error != nil {
		httperr.Internal(c, res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Мастер не найден")
		return
	}

	httpresp.OK(c, gin.H{"id": id, "telegram_id": req.TelegramID})
}

// ======================================================
// DELETE (always logical, appointments stay joinable)
// ======================================================

func (h *SpecialistHandler) Delete(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "Некорректный идентификатор")
		return
	}

	res := h.db.Model(&models.Specialist{}).
		Where("id = ? AND visibility != ?", id, models.VisibilityDeleted).
		Update("visibility", models.VisibilityDeleted)
	if res.Error != nil {
		httperr.Internal(c, res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Мастер не найден")
		return
	}

	httpresp.OK(c, gin.H{"id": id, "deleted": true})
}

// ======================================================
// CROSS LISTS (derived from future available slots)
// ======================================================

// ServicesForSpecialist lists visible services the specialist still has free
// time for, from today onward.
func (h *SpecialistHandler) ServicesForSpecialist(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "Некорректный идентификатор")
		return
	}

	today := timezone.Today(h.tz)

	var services []models.Service
	if err := h.db.
		Distinct("services.*").
		Joins("JOIN schedule_slots ON schedule_slots.service_id = services.id").
		Where("schedule_slots.specialist_id = ? AND schedule_slots.available AND schedule_slots.date >= ?", id, today).
		Where("services.visibility = ?", models.VisibilityActive).
		Order("services.name ASC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, err.Error())
		return
	}
	httpresp.OK(c, services)
}

// SpecialistsForService is the inverse lookup used by the booking flow.
func (h *SpecialistHandler) SpecialistsForService(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "Некорректный идентификатор")
		return
	}

	today := timezone.Today(h.tz)

	var specialists []models.Specialist
	if err := h.db.
		Distinct("specialists.*").
		Joins("JOIN schedule_slots ON schedule_slots.specialist_id = specialists.id").
		Where("schedule_slots.service_id = ? AND schedule_slots.available AND schedule_slots.date >= ?", id, today).
		Where("specialists.visibility = ?", models.VisibilityActive).
		Order("specialists.name ASC").
		Find(&specialists).Error; err != nil {
		httperr.Internal(c, err.Error())
		return
	}
	httpresp.OK(c, specialists)
}
