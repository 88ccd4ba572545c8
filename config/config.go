package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	DBPath      string
	Environment string
	// NAS share (S3-compatible gateway). When unset, a local directory is used.
	NasEndpoint     string
	NasAccessKeyID  string
	NasSecretKey    string
	NasBucket       string
	NasBaseDir      string
	NasCompletedDir string
	LocalShareDir   string
	// Diavgeia open-data API
	DiavgeiaBaseURL string
	// Email (Resend)
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	EmailTestMode bool // When true, emails are logged to console instead of sent
	OfficeEmail   string
	// Jobs
	ReminderSchedule string // cron expression; empty disables the reminder job
	// Other
	AllowedOrigins []string
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "4000"),
		DBPath:           getEnv("DB_PATH", "data.db"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		NasEndpoint:      getEnv("NAS_ENDPOINT", ""),
		NasAccessKeyID:   getEnv("NAS_ACCESS_KEY_ID", ""),
		NasSecretKey:     getEnv("NAS_SECRET_KEY", ""),
		NasBucket:        getEnv("NAS_BUCKET", ""),
		NasBaseDir:       getEnv("NAS_BASE_DIR", "cases"),
		NasCompletedDir:  getEnv("NAS_COMPLETED_DIR", "completed"),
		LocalShareDir:    getEnv("LOCAL_SHARE_DIR", "share"),
		DiavgeiaBaseURL:  getEnv("DIAVGEIA_BASE_URL", "https://diavgeia.gov.gr/luminapi/opendata"),
		ResendAPIKey:     getEnv("RESEND_API_KEY", ""),
		EmailFrom:        getEnv("EMAIL_FROM", "noreply@techoffice.local"),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "Tech Office CMS"),
		EmailTestMode:    getEnvBool("EMAIL_TEST_MODE", true), // Default true for safety
		OfficeEmail:      getEnv("OFFICE_EMAIL", ""),
		ReminderSchedule: getEnv("REMINDER_SCHEDULE", ""),
		AllowedOrigins:   strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}
