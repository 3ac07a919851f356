package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/glowpoint/salon-api/internal/httperr"
	"github.com/glowpoint/salon-api/internal/httpresp"
	"github.com/glowpoint/salon-api/internal/models"
)

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Category    string  `json:"category"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required"`
	Photo       string  `json:"photo"`
}

type UpdateServiceRequest struct {
	Category    *string  `json:"category,omitempty"`
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Photo       *string  `json:"photo,omitempty"`
}

// ======================================================
// LISTS
// ======================================================

func (h *ServiceHandler) List(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))

	q := h.db.Where("visibility = ?", models.VisibilityActive)
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var services []models.Service
	if err := q.Order("category ASC, name ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, err.Error())
		return
	}
	httpresp.OK(c, services)
}

func (h *ServiceHandler) ListAll(c *gin.Context) {
	var services []models.Service
	if err := h.db.
		Where("visibility != ?", models.VisibilityDeleted).
		Order("visibility ASC, category ASC, name ASC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, err.Error())
		return
	}
	httpresp.OK(c, services)
}

// ======================================================
// GET
// ======================================================

func (h *ServiceHandler) Get(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "Некорректный идентификатор")
		return
	}

	var svc models.Service
	if err := h.db.
		Where("id = ? AND visibility != ?", id, models.VisibilityDeleted).
		First(&svc).Error; err != nil {
		httperr.NotFound(c, "Услуга не найдена")
		return
	}
	httpresp.OK(c, svc)
}

// ======================================================
// CREATE / UPDATE
// ======================================================

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Все поля обязательны для заполнения")
		return
	}

	svc := models.Service{
		Category:    strings.TrimSpace(req.Category),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Photo:       req.Photo,
		Visibility:  models.VisibilityActive,
	}

	if err := h.db.Create(&svc).Error; err != nil {
		httperr.Internal(c, err.Error())
		return
	}
	httpresp.Created(c, svc)
}

// Update edits the catalog row; prices already snapshotted on appointments
// are not recomputed.
func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "Некорректный идентификатор")
		return
	}

	var svc models.Service
	if err := h.db.
		Where("id = ? AND visibility != ?", id, models.VisibilityDeleted).
		First(&svc).Error; err != nil {
		httperr.NotFound(c, "Услуга не найдена")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Некорректные данные")
		return
	}

	if req.Category != nil {
		svc.Category = strings.TrimSpace(*req.Category)
	}
	if req.Name != nil {
		svc.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.Photo != nil {
		svc.Photo = *req.Photo
	}

	if err := h.db.Save(&svc).Error; err != nil {
		httperr.Internal(c, err.Error())
		return
	}
	httpresp.OK(c, svc)
}

// ======================================================
// VISIBILITY / DELETE
// ======================================================

func (h *ServiceHandler) UpdateVisibility(c *gin.Context) {
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

	res := h.db.Model(&models.Service{}).
		Where("id = ? AND visibility != ?", id, models.VisibilityDeleted).
		Update("visibility", req.Visibility)
	if res.Error != nil {
		httperr.Internal(c, res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Услуга не найдена")
		return
	}

	httpresp.OK(c, gin.H{"id": id, "visibility": req.Visibility})
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "Некорректный идентификатор")
		return
	}

	res := h.db.Model(&models.Service{}).
		Where("id = ? AND visibility != ?", id, models.VisibilityDeleted).
		Update("visibility", models.VisibilityDeleted)
	if res.Error != nil {
		httperr.Internal(c, res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Услуга не найдена")
		return
	}

	httpresp.OK(c, gin.H{"id": id, "deleted": true})
}
