package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	APIBaseURL     string
	ListenAddr     string
	PageSize       int
	MaxUploadMB    int
	Locale         string
	RequestTimeout time.Duration
	SessionTTL     time.Duration

	HistoryEnabled   bool
	HistoryCSVPath   string
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MaxConcurrency int
	RateLimitMs    int
	MaxRetries     int

	ChromeBin string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		APIBaseURL:     strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080"), "/"),
		ListenAddr:     getEnv("LISTEN_ADDR", ":3000"),
		PageSize:       getEnvInt("PAGE_SIZE", 50),
		MaxUploadMB:    getEnvInt("MAX_UPLOAD_MB", 10),
		Locale:         getEnv("LOCALE", "en"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 0)) * time.Second,
		SessionTTL:     time.Duration(getEnvInt("SESSION_TTL_MIN", 60)) * time.Minute,

		HistoryEnabled:   getEnvBool("HISTORY_ENABLED", false),
		HistoryCSVPath:   getEnv("HISTORY_CSV", ""),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "loans"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "loans123"),
		PostgresDB:       getEnv("POSTGRES_DB", "loan_dashboard"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 3),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 250),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),

		ChromeBin: getEnv("CHROME_BIN", ""),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
