package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	DatabaseURL        string
	RedisURL           string
	SessionSecret      string
	TokenEncryptionKey string
	Env                string
	Port               string
	SiteURL            string
	LogLevel           string
	LogFormat          string

	// OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string

	// Outbound email
	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	FromEmail string

	// Uploads
	UploadDir string

	// Listing cache
	CacheTTL time.Duration

	// Retention and sweeps
	NotificationRetentionDays int
	JobRetentionDays          int
	CleanupSchedule           string // cron expression for the nightly sweeps

	SeedDev bool
}

// Load reads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           getEnvWithDefault("REDIS_URL", "redis://localhost:6379/0"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		TokenEncryptionKey: os.Getenv("TOKEN_ENCRYPTION_KEY"),
		Env:                getEnvWithDefault("ENV", "development"),
		Port:               getEnvWithDefault("PORT", "8080"),
		SiteURL:            getEnvWithDefault("SITE_URL", "http://localhost:8080"),
		LogLevel:           getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat:          getEnvWithDefault("LOG_FORMAT", "text"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleCallbackURL:  os.Getenv("GOOGLE_CALLBACK_URL"),

		SMTPHost:  os.Getenv("SMTP_HOST"),
		SMTPPort:  getEnvInt("SMTP_PORT", 587),
		SMTPUser:  os.Getenv("SMTP_USER"),
		SMTPPass:  os.Getenv("SMTP_PASS"),
		FromEmail: getEnvWithDefault("FROM_EMAIL", "noreply@jobportal.local"),

		UploadDir: getEnvWithDefault("UPLOAD_DIR", "uploads"),

		CacheTTL: getEnvDuration("CACHE_TTL", 15*time.Minute),

		NotificationRetentionDays: getEnvInt("NOTIFICATION_RETENTION_DAYS", 30),
		JobRetentionDays:          getEnvInt("JOB_RETENTION_DAYS", 30),
		CleanupSchedule:           getEnvWithDefault("CLEANUP_SCHEDULE", "0 3 * * *"),

		SeedDev: os.Getenv("SEED_DEV") == "true",
	}

	// Warn if using default session secret (insecure for production)
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "dev-secret-change-in-production-use-openssl-rand-hex-32"
		log.Println("WARNING: Using default SESSION_SECRET. Generate a secure secret with: openssl rand -hex 32")
	}

	return cfg
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("WARNING: invalid %s=%q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("WARNING: invalid %s=%q, using default %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
