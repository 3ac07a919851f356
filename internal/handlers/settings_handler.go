package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/glowpoint/salon-api/internal/httperr"
	"github.com/glowpoint/salon-api/internal/httpresp"
	"github.com/glowpoint/salon-api/internal/models"
)

type SettingsHandler struct {
	db *gorm.DB
}

func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{db: db}
}

type UpdateSettingRequest struct {
	Value string `json:"value" binding:"required"`
}

func (h *SettingsHandler) List(c *gin.Context) {
	var settings []models.Setting
	if err := h.db.Order("key ASC").Find(&settings).Error; err != nil {
		httperr.Internal(c, err.Error())
		return
	}
	httpresp.OK(c, settings)
}

func (h *SettingsHandler) Update(c *gin.Context) {
	key := c.Param("key")

	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Значение обязательно")
		return
	}

	res := h.db.Model(&models.Setting{}).
		Where("key = ?", key).
		Update("value", req.Value)
	if res.Error != nil {
		httperr.Internal(c, res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Настройка не найдена")
		return
	}

	httpresp.OK(c, gin.H{"key": key, "value": req.Value})
}
