// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Document store backends.
const (
	DocumentStoreFirestore = "firestore"
	DocumentStoreSQL       = "sql"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"SERVER_TIMEOUT_SECONDS"`
	CORSOrigins   []string      `mapstructure:"CORS_ALLOWED_ORIGINS"`

	// Database Configuration
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	DBSource          string        `mapstructure:"DB_SOURCE"`
	DBAutoMigrate     bool          `mapstructure:"DB_AUTO_MIGRATE"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Profiles and gigs live in Firestore ("firestore") or in the relational database ("sql").
	DocumentStore string `mapstructure:"DOCUMENT_STORE"`

	// Firebase Configuration
	FirebaseServiceAccountKeyPath string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_KEY_PATH"`
	FirebaseProjectID             string `mapstructure:"FIREBASE_PROJECT_ID"`

	// Session cookie
	SessionCookieName   string        `mapstructure:"SESSION_COOKIE_NAME"`
	SessionCookieMaxAge time.Duration `mapstructure:"SESSION_COOKIE_MAX_AGE_SECONDS"`
	SessionCookieSecure bool          `mapstructure:"SESSION_COOKIE_SECURE"`

	// Route guard and pages
	RouteGuardVerifyToken bool   `mapstructure:"ROUTE_GUARD_VERIFY_TOKEN"`
	LandingPath           string `mapstructure:"LANDING_PATH"`
	LoginPath             string `mapstructure:"LOGIN_PATH"`
	DashboardPath         string `mapstructure:"DASHBOARD_PATH"`
	WebRoot               string `mapstructure:"WEB_ROOT"`

	// Gig catalog
	GigListDefaultLimit int           `mapstructure:"GIG_LIST_DEFAULT_LIMIT"`
	GigListMaxLimit     int           `mapstructure:"GIG_LIST_MAX_LIMIT"`
	RedisURL            string        `mapstructure:"REDIS_URL"`
	GigListCacheTTL     time.Duration `mapstructure:"GIG_LIST_CACHE_TTL_SECONDS"`

	// Cron Jobs
	GigIndexSyncSchedule string `mapstructure:"GIG_INDEX_SYNC_SCHEDULE"`

	// Elasticsearch Configuration. Empty disables search indexing.
	ElasticsearchURL string `mapstructure:"ELASTICSEARCH_URL"`

	NotificationsEnabled bool `mapstructure:"NOTIFICATIONS_ENABLED"`
}

// Addr is the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.ServerHost, c.ServerPort)
}

// UsesSQLDocumentStore reports whether profiles and gigs are kept in the relational database.
func (c *Config) UsesSQLDocumentStore() bool {
	return c.DocumentStore == DocumentStoreSQL
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "gigmarket_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)
	v.SetDefault("DB_SOURCE", "")
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("DOCUMENT_STORE", DocumentStoreFirestore)

	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "")

	v.SetDefault("SESSION_COOKIE_NAME", "firebaseAuth")
	v.SetDefault("SESSION_COOKIE_MAX_AGE_SECONDS", 3600)
	v.SetDefault("SESSION_COOKIE_SECURE", false)

	v.SetDefault("ROUTE_GUARD_VERIFY_TOKEN", false)
	v.SetDefault("LANDING_PATH", "/")
	v.SetDefault("LOGIN_PATH", "/login")
	v.SetDefault("DASHBOARD_PATH", "/dashboard")
	v.SetDefault("WEB_ROOT", "")

	v.SetDefault("GIG_LIST_DEFAULT_LIMIT", 50)
	v.SetDefault("GIG_LIST_MAX_LIMIT", 100)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("GIG_LIST_CACHE_TTL_SECONDS", 30)

	v.SetDefault("GIG_INDEX_SYNC_SCHEDULE", "@hourly")

	v.SetDefault("ELASTICSEARCH_URL", "")

	v.SetDefault("NOTIFICATIONS_ENABLED", true)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.SessionCookieMaxAge = time.Duration(v.GetInt("SESSION_COOKIE_MAX_AGE_SECONDS")) * time.Second
	cfg.GigListCacheTTL = time.Duration(v.GetInt("GIG_LIST_CACHE_TTL_SECONDS")) * time.Second

	cfg.CORSOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))

	// DB_SOURCE overrides the DSN assembled from the individual DB_* parameters.
	if strings.TrimSpace(cfg.DBSource) == "" {
		cfg.DBSource = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode, cfg.DBTimezone)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.FirebaseServiceAccountKeyPath) == "" {
		return fmt.Errorf("FATAL: FIREBASE_SERVICE_ACCOUNT_KEY_PATH is not set. This is required for Firebase Admin SDK initialization")
	}
	if _, err := os.Stat(c.FirebaseServiceAccountKeyPath); os.IsNotExist(err) {
		return fmt.Errorf("FATAL: Firebase service account key file specified in FIREBASE_SERVICE_ACCOUNT_KEY_PATH (%s) not found", c.FirebaseServiceAccountKeyPath)
	}
	switch c.DocumentStore {
	case DocumentStoreFirestore, DocumentStoreSQL:
	default:
		return fmt.Errorf("DOCUMENT_STORE must be %q or %q, got %q", DocumentStoreFirestore, DocumentStoreSQL, c.DocumentStore)
	}
	if c.GigListDefaultLimit <= 0 || c.GigListMaxLimit < c.GigListDefaultLimit {
		return fmt.Errorf("invalid gig list limits: default=%d max=%d", c.GigListDefaultLimit, c.GigListMaxLimit)
	}
	if c.SessionCookieName == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME must not be empty")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
