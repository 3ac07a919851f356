package db

import (
	"log"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/glowpoint/salon-api/internal/config"
	"github.com/glowpoint/salon-api/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(dialector(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if !strings.HasPrefix(cfg.DBUrl, "postgres://") {
		db.Exec("PRAGMA journal_mode=WAL;")
		db.Exec("PRAGMA foreign_keys=ON;")
		db.Exec("PRAGMA busy_timeout=5000;")
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	return db
}

func dialector(url string) gorm.Dialector {
	if strings.HasPrefix(url, "postgres://") {
		return postgres.Open(url)
	}
	return sqlite.Open(url)
}

// Migrate applies the schema and the constraints AutoMigrate cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Specialist{},
		&models.Service{},
		&models.Client{},
		&models.ScheduleSlot{},
		&models.Appointment{},
		&models.Notification{},
		&models.Setting{},
		&models.PageElement{},
	); err != nil {
		return err
	}

	// One bookable slot per (specialist, service, date, time). Guards the
	// double-booking race on multi-writer databases; sqlite serializes
	// writers anyway but accepts the same syntax.
	db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS idx_schedule_slots_bookable
        ON schedule_slots (specialist_id, service_id, date, time)
        WHERE available
    `)

	seedSettings(db)

	return nil
}

func seedSettings(db *gorm.DB) {
	defaults := []models.Setting{
		{Key: "show_prices", Value: "1", Description: "Show service prices on the public site"},
		{Key: "show_specialists", Value: "1", Description: "Show the specialists page"},
		{Key: "booking_enabled", Value: "1", Description: "Allow online booking"},
	}

	for _, s := range defaults {
		var count int64
		db.Model(&models.Setting{}).Where("key = ?", s.Key).Count(&count)
		if count == 0 {
			db.Create(&s)
		}
	}
}
