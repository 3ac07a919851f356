package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/glowpoint/salon-api/internal/httperr"
	"github.com/glowpoint/salon-api/internal/httpresp"
	"github.com/glowpoint/salon-api/internal/models"
	"github.com/glowpoint/salon-api/internal/timezone"
)

type StatisticsHandler struct {
	db *gorm.DB
	tz string
}

func NewStatisticsHandler(db *gorm.DB, tz string) *StatisticsHandler {
	return &StatisticsHandler{db: db, tz: tz}
}

type revenueRow struct {
	ID      uint    `json:"id"`
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type statisticsResponse struct {
	StartDate         string       `json:"start_date"`
	EndDate           string       `json:"end_date"`
	TotalAppointments int          `json:"total_appointments"`
	TotalRevenue      float64      `json:"total_revenue"`
	ByService         []revenueRow `json:"by_service"`
	BySpecialist      []revenueRow `json:"by_specialist"`
}

// ======================================================
// GET /api/statistics
// ======================================================

// Get aggregates revenue over a period, grouped by service and by
// specialist. Revenue uses the price snapshotted at booking time.
func (h *StatisticsHandler) Get(c *gin.Context) {
	startDate, endDate, ok := h.period(c)
	if !ok {
		httperr.BadRequest(c, "Некорректный период")
		return
	}

	base := func() *gorm.DB {
		q := h.db.
			Model(&models.Appointment{}).
			Where("appointments.date BETWEEN ? AND ?", startDate, endDate)

		if masterID := c.Query("masterId"); masterID != "" {
			q = q.Where("appointments.specialist_id = ?", masterID)
		}
		if serviceID := c.Query("serviceId"); serviceID != "" {
			q = q.Where("appointments.service_id = ?", serviceID)
		}
		return q
	}

	var totals struct {
		Count   int
		Revenue float64
	}
	if err := base().
		Select("COUNT(id) AS count, COALESCE(SUM(price), 0) AS revenue").
		Scan(&totals).Error; err != nil {
		httperr.Internal(c, err.Error())
		return
	}

	var byService []revenueRow
	if err := base().
		Select("services.id, services.name, COUNT(appointments.id) AS count, COALESCE(SUM(appointments.price), 0) AS revenue").
		Joins("JOIN services ON services.id = appointments.service_id").
		Group("services.id, services.name").
		Order("revenue DESC").
		Scan(&byService).Error; err != nil {
		httperr.Internal(c, err.Error())
		return
	}

	var bySpecialist []revenueRow
	if err := base().
		Select("specialists.id, specialists.name, COUNT(appointments.id) AS count, COALESCE(SUM(appointments.price), 0) AS revenue").
		Joins("JOIN specialists ON specialists.id = appointments.specialist_id").
		Group("specialists.id, specialists.name").
		Order("revenue DESC").
		Scan(&bySpecialist).Error; err != nil {
		httperr.Internal(c, err.Error())
		return
	}

	httpresp.OK(c, statisticsResponse{
		StartDate:         startDate,
		EndDate:           endDate,
		TotalAppointments: totals.Count,
		TotalRevenue:      totals.Revenue,
		ByService:         byService,
		BySpecialist:      bySpecialist,
	})
}

// period resolves the range query parameter to salon-local dates.
func (h *StatisticsHandler) period(c *gin.Context) (string, string, bool) {
	now := timezone.NowIn(h.tz)
	today := now.Format("2006-01-02")

	switch c.DefaultQuery("range", "month") {
	case "today":
		return today, today, true
	case "week":
		return now.AddDate(0, 0, -7).Format("2006-01-02"), today, true
	case "month":
		return now.AddDate(0, -1, 0).Format("2006-01-02"), today, true
	case "custom":
		startDate := c.Query("startDate")
		endDate := c.Query("endDate")
		if startDate == "" || endDate == "" {
			return "", "", false
		}
		return startDate, endDate, true
	default:
		return "", "", false
	}
}
