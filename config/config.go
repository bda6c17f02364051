package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	DBPath      string
	Environment string
	AppURL      string
	// Hub'eau API
	HubeauBaseURL string
	// Observation cache refresh
	RefreshSpec         string // cron spec for the observation refresh job
	RefreshOnStart      bool
	ObservationWindow   int // days of observations kept in the local cache
	ObservationPageSize int
	// Email (Resend)
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	EmailOpsTo    string
	EmailTestMode bool // When true, emails are logged to console instead of sent
	// Exports / snapshots
	SnapshotDir string
	// Other
	AllowedOrigins []string
	// Cloudflare R2 Storage (snapshot archive)
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		ServerPort:          getEnv("SERVER_PORT", "5000"),
		DBPath:              getEnv("DB_PATH", "ecoulement.db"),
		Environment:         getEnv("ENVIRONMENT", "development"),
		AppURL:              getEnv("APP_URL", "http://localhost:5000"),
		HubeauBaseURL:       getEnv("HUBEAU_BASE_URL", "https://hubeau.eaufrance.fr/api/v1/ecoulement"),
		RefreshSpec:         getEnv("REFRESH_CRON", "0 6 * * *"),
		RefreshOnStart:      getEnvBool("REFRESH_ON_START", false),
		ObservationWindow:   getEnvInt("OBSERVATION_WINDOW_DAYS", 90),
		ObservationPageSize: getEnvInt("OBSERVATION_PAGE_SIZE", 200),
		ResendAPIKey:        getEnv("RESEND_API_KEY", ""),
		EmailFrom:           getEnv("EMAIL_FROM", "noreply@ecoulement.example.org"),
		EmailFromName:       getEnv("EMAIL_FROM_NAME", "Ecoulement App"),
		EmailOpsTo:          getEnv("EMAIL_OPS_TO", ""),
		EmailTestMode:       getEnvBool("EMAIL_TEST_MODE", true), // Default true for safety
		SnapshotDir:         getEnv("SNAPSHOT_DIR", "static/snapshots"),
		AllowedOrigins:      strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		R2AccountID:         getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:       getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey:   getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:        getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:         getEnv("R2_PUBLIC_URL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Printf("Using default value for %s: %s", key, defaultValue)
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

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Printf("[WARNING] Invalid value for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
