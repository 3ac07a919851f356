package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// "postgres://..." selects the postgres driver; anything else is treated
	// as a sqlite file path.
	DBUrl string

	ServerPort string

	JWTSecret         string
	SessionTTLMinutes int

	// bcrypt hash of the shared admin password.
	AdminPasswordHash string

	// Empty RedisAddr falls back to the in-process login limiter.
	RedisAddr        string
	LoginMaxAttempts int
	LockoutMinutes   int

	PublicDir string
	AdminDir  string

	PhotoDir        string
	ServicePhotoDir string

	// Non-empty S3Bucket switches photo storage from local disk to S3.
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	SlotMinGapMinutes int

	Timezone string
	LogLevel string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBUrl: getEnv("DATABASE_URL", "salon.db"),

		ServerPort: getEnv("SERVER_PORT", "3000"),

		JWTSecret:         getEnv("JWT_SECRET", "changeme"),
		SessionTTLMinutes: getEnvInt("SESSION_TTL_MINUTES", 60),

		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),

		RedisAddr:        getEnv("REDIS_ADDR", ""),
		LoginMaxAttempts: getEnvInt("LOGIN_MAX_ATTEMPTS", 5),
		LockoutMinutes:   getEnvInt("LOGIN_LOCKOUT_MINUTES", 15),

		PublicDir: getEnv("PUBLIC_DIR", "./public"),
		AdminDir:  getEnv("ADMIN_DIR", "./admin"),

		PhotoDir:        getEnv("PHOTO_DIR", "./uploads/photos"),
		ServicePhotoDir: getEnv("SERVICE_PHOTO_DIR", "./uploads/service-photos"),

		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),

		SlotMinGapMinutes: getEnvInt("SLOT_MIN_GAP_MINUTES", 5),

		Timezone: getEnv("SALON_TIMEZONE", "Europe/Moscow"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}
