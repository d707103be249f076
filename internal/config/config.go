package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Google sign-in
	GoogleClientID string

	// Admin
	AdminEmails string
	AdminToken  string

	// Submission limits per rolling 24h window
	ReviewDailyLimit  int
	CompanyDailyLimit int
	ReportDailyLimit  int

	// News ingestion
	NewsFeedsPath      string
	NewsIngestInterval time.Duration

	// Indeed scraper
	ScraperBaseURL string
	ScraperDelay   time.Duration

	// Server
	Port         string
	CORSOrigins  string
	AppEnv       string
	SentryDSN    string
	LogLevel     string
	LegalContact string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "ratemyemployer"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),

		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),

		AdminEmails: getEnv("ADMIN_EMAILS", ""),
		AdminToken:  getEnv("ADMIN_TOKEN", ""),

		ReviewDailyLimit:  parseInt(getEnv("REVIEW_DAILY_LIMIT", "5"), 5),
		CompanyDailyLimit: parseInt(getEnv("COMPANY_DAILY_LIMIT", "3"), 3),
		ReportDailyLimit:  parseInt(getEnv("REPORT_DAILY_LIMIT", "10"), 10),

		NewsFeedsPath:      getEnv("NEWS_FEEDS_PATH", "feeds.json5"),
		NewsIngestInterval: parseDuration(getEnv("NEWS_INGEST_INTERVAL", "0s"), 0),

		ScraperBaseURL: getEnv("SCRAPER_BASE_URL", "https://www.indeed.com"),
		ScraperDelay:   parseDuration(getEnv("SCRAPER_DELAY", "2s"), 2*time.Second),

		Port:         getEnv("PORT", "8080"),
		CORSOrigins:  getEnv("CORS_ORIGINS", "*"),
		AppEnv:       getEnv("APP_ENV", "development"),
		SentryDSN:    getEnv("SENTRY_DSN", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LegalContact: getEnv("LEGAL_CONTACT", "support@ratemyemployer.app"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
