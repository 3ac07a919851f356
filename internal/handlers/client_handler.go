package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/glowpoint/salon-api/internal/httperr"
	"github.com/glowpoint/salon-api/internal/httpresp"
	"github.com/glowpoint/salon-api/internal/models"
)

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

// ClientStatsRow aggregates a client's booking history.
type ClientStatsRow struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Phone        string  `json:"phone"`
	RecordsCount int     `json:"recordsCount"`
	TotalPrice   float64 `json:"totalPrice"`
	LastDate     string  `json:"lastDate"`
}

// ======================================================
// LIST WITH STATS
// ======================================================

// ListWithStats returns clients that have at least one appointment, best
// customers first.
func (h *ClientHandler) ListWithStats(c *gin.Context) {
	var rows []ClientStatsRow
	if err := h.db.
		Model(&models.Client{}).
		Select(`clients.id, clients.name, clients.phone,
            COUNT(appointments.id) AS records_count,
            COALESCE(SUM(appointments.price), 0) AS total_price,
            COALESCE(MAX(appointments.date), '') AS last_date`).
		Joins("LEFT JOIN appointments ON appointments.client_id = clients.id").
		Group("clients.id, clients.name, clients.phone").
		Having("COUNT(appointments.id) > 0").
		Order("total_price DESC").
		Scan(&rows).Error; err != nil {
		httperr.Internal(c, err.Error())
		return
	}
	httpresp.OK(c, rows)
}

// ======================================================
// CLIENT HISTORY
// ======================================================

func (h *ClientHandler) Appointments(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "Некорректный идентификатор")
		return
	}

	var client models.Client
	if err := h.db.First(&client, id).Error; err != nil {
		httperr.NotFound(c, "Клиент не найден")
		return
	}

	var rows []AppointmentRow
	if err := h.db.
		Model(&models.Appointment{}).
		Select(`appointments.id, appointments.date, appointments.time, appointments.price,
            clients.name AS client_name, clients.phone AS client_phone,
            services.name AS service_name, specialists.name AS specialist_name,
            appointments.created_at`).
		Joins("JOIN clients ON clients.id = appointments.client_id").
		Joins("JOIN services ON services.id = appointments.service_id").
		Joins("JOIN specialists ON specialists.id = appointments.specialist_id").
		Where("appointments.client_id = ?", id).
		Order("appointments.date DESC, appointments.time DESC").
		Scan(&rows).Error; err != nil {
		httperr.Internal(c, err.Error())
		return
	}
	httpresp.OK(c, rows)
}
