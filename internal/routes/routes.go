package routes

import (
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/glowpoint/salon-api/internal/auth"
	"github.com/glowpoint/salon-api/internal/config"
	"github.com/glowpoint/salon-api/internal/handlers"
	infraRepo "github.com/glowpoint/salon-api/internal/infra/repository"
	"github.com/glowpoint/salon-api/internal/middleware"
	"github.com/glowpoint/salon-api/internal/notify"
	"github.com/glowpoint/salon-api/internal/photo"
	ucBooking "github.com/glowpoint/salon-api/internal/usecase/booking"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, log zerolog.Logger) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	recorder := notify.NewRecorder(db)
	dispatcher := notify.NewDispatcher(recorder, log)

	lockout := time.Duration(cfg.LockoutMinutes) * time.Minute
	var limiter auth.Limiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		limiter = auth.NewRedisLimiter(rdb, cfg.LoginMaxAttempts, lockout)
	} else {
		limiter = auth.NewMemoryLimiter(cfg.LoginMaxAttempts, lockout)
	}

	storage := photo.NewStorage(cfg)

	// ======================================================
	// 🧠 USE CASES — BOOKING
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(bookingRepo, dispatcher)
	createAdminBookingUC := ucBooking.NewCreateAdminBooking(bookingRepo, dispatcher)
	editBookingUC := ucBooking.NewEditBooking(bookingRepo)
	changeSpecialistUC := ucBooking.NewChangeSpecialist(bookingRepo)
	cancelBookingUC := ucBooking.NewCancelBooking(bookingRepo)
	generateFreeTimeUC := ucBooking.NewGenerateFreeTime(bookingRepo, cfg.SlotMinGapMinutes)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(cfg, limiter)

	specialistHandler := handlers.NewSpecialistHandler(db, cfg.Timezone)
	serviceHandler := handlers.NewServiceHandler(db)
	scheduleHandler := handlers.NewScheduleHandler(db, generateFreeTimeUC, cfg.Timezone)

	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		createBookingUC,
		createAdminBookingUC,
		editBookingUC,
		changeSpecialistUC,
		cancelBookingUC,
	)

	clientHandler := handlers.NewClientHandler(db)
	statisticsHandler := handlers.NewStatisticsHandler(db, cfg.Timezone)
	settingsHandler := handlers.NewSettingsHandler(db)
	pageContentHandler := handlers.NewPageContentHandler(db)
	notificationHandler := handlers.NewNotificationHandler(db, recorder, cfg.Timezone)
	photoHandler := handlers.NewPhotoHandler(storage, cfg.PhotoDir, cfg.ServicePhotoDir)

	// ======================================================
	// 🌍 STATIC + OPS
	// ======================================================
	r.Static("/public", cfg.PublicDir)
	r.Static("/admin", cfg.AdminDir)

	// uploaded photos are referenced as /<dir base>/<uuid>.jpg
	r.Static("/"+filepath.Base(cfg.PhotoDir), cfg.PhotoDir)
	r.Static("/"+filepath.Base(cfg.ServicePhotoDir), cfg.ServicePhotoDir)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 PUBLIC API
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)

		api.GET("/specialists", specialistHandler.List)
		api.GET("/services", serviceHandler.List)
		api.GET("/specialist/:id", specialistHandler.Get)
		api.GET("/service/:id", serviceHandler.Get)
		api.GET("/specialist/:id/services", specialistHandler.ServicesForSpecialist)
		api.GET("/service/:id/specialists", specialistHandler.SpecialistsForService)

		api.GET("/specialist/:id/service/:serviceId/available-dates", scheduleHandler.AvailableDates)
		api.GET("/specialist/:id/service/:serviceId/schedule/:date", scheduleHandler.TimesForDate)

		api.POST("/appointment", appointmentHandler.Create)

		api.GET("/settings", settingsHandler.List)
		api.GET("/page-content/:page", pageContentHandler.Get)

		// ------------------------------
		// 🔐 ADMIN API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/specialists-all", specialistHandler.ListAll)
			secured.POST("/specialists", specialistHandler.Create)
			secured.PUT("/specialist/:id", specialistHandler.Update)
			secured.PATCH("/specialist/:id/visibility", specialistHandler.UpdateVisibility)
			secured.PATCH("/specialist/:id/tg-id", specialistHandler.UpdateTelegramID)
			secured.DELETE("/specialist/:id", specialistHandler.Delete)

			secured.GET("/services-all", serviceHandler.ListAll)
			secured.POST("/services", serviceHandler.Create)
			secured.PUT("/service/:id", serviceHandler.Update)
			secured.PATCH("/service/:id/visibility", serviceHandler.UpdateVisibility)
			secured.DELETE("/service/:id", serviceHandler.Delete)

			secured.GET("/schedule-available", scheduleHandler.ListAvailable)
			secured.GET("/freetime-available", scheduleHandler.FreetimeAvailable)
			secured.GET("/schedule/:id", scheduleHandler.Get)
			secured.POST("/schedule", scheduleHandler.Create)
			secured.PUT("/schedule/:id", scheduleHandler.Update)
			secured.PATCH("/schedule/:id", scheduleHandler.UpdateAvailability)
			secured.DELETE("/schedule/:id", scheduleHandler.Delete)
			secured.POST("/schedule/generate", scheduleHandler.Generate)

			secured.POST("/admin/appointment", appointmentHandler.CreateAdmin)
			secured.GET("/appointments", appointmentHandler.List)
			secured.GET("/appointments-range", appointmentHandler.ListRange)
			secured.PUT("/appointments/:id", appointmentHandler.Edit)
			secured.PATCH("/appointments/:id/specialist", appointmentHandler.ChangeSpecialist)
			secured.DELETE("/appointments/:id", appointmentHandler.Cancel)

			secured.GET("/clients-with-stats", clientHandler.ListWithStats)
			secured.GET("/client/:id/appointments", clientHandler.Appointments)

			secured.GET("/statistics", statisticsHandler.Get)

			secured.PUT("/settings/:key", settingsHandler.Update)
			secured.PUT("/page-content/:page", pageContentHandler.Update)

			secured.POST("/upload-photo", photoHandler.UploadSpecialistPhoto)
			secured.POST("/upload-service-photo", photoHandler.UploadServicePhoto)

			// ------------------------------
			// 🤖 NOTIFIER
			// ------------------------------
			secured.GET("/appointments-for-notifications", notificationHandler.Pending)
			secured.POST("/notification-sent", notificationHandler.MarkSent)
		}
	}

	// ======================================================
	// ❌ DEFAULT 404
	// ======================================================
	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "Endpoint not found"})
	})
}
