package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/glowpoint/salon-api/internal/httperr"
	"github.com/glowpoint/salon-api/internal/httpresp"
	"github.com/glowpoint/salon-api/internal/models"
)

type PageContentHandler struct {
	db *gorm.DB
}

func NewPageContentHandler(db *gorm.DB) *PageContentHandler {
	return &PageContentHandler{db: db}
}

type PageElementRequest struct {
	Key      string `json:"key" binding:"required"`
	Text     string `json:"text"`
	Position int    `json:"position"`
}

type UpdatePageRequest struct {
	Elements []PageElementRequest `json:"elements" binding:"required"`
}

func (h *PageContentHandler) Get(c *gin.Context) {
	page := c.Param("page")

	var elements []models.PageElement
	if err := h.db.
		Where("page = ?", page).
		Order("position ASC").
		Find(&elements).Error; err != nil {
		httperr.Internal(c, err.Error())
		return
	}
	httpresp.OK(c, elements)
}

// Update replaces a page's text blocks wholesale; the admin editor always
// submits the full set.
func (h *PageContentHandler) Update(c *gin.Context) {
	page := c.Param("page")

	var req UpdatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Некорректные данные")
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		for _, el := range req.Elements {
			row := models.PageElement{
				Page:     page,
				Key:      el.Key,
				Text:     el.Text,
				Position: el.Position,
			}
			if err := tx.
				Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "page"}, {Name: "key"}},
					DoUpdates: clause.AssignmentColumns([]string{"text", "position"}),
				}).
				Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		httperr.Internal(c, err.Error())
		return
	}

	httpresp.OK(c, gin.H{"page": page, "updated": len(req.Elements)})
}
