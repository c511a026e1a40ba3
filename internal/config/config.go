package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Marker policies control when the sweep worker records a sent marker for a
// dispatched reminder. "after_dispatch" gives at-most-once delivery,
// "after_delivery" gives at-least-once.
const (
	MarkerAfterDispatch = "after_dispatch"
	MarkerAfterDelivery = "after_delivery"
)

type Config struct {
	// Legacy database (combined identity + per-user tables)
	LegacyDBHost     string
	LegacyDBPort     string
	LegacyDBUser     string
	LegacyDBPassword string
	LegacyDBName     string

	// Dedicated MemrE database (newer per-user tables)
	AppDBHost     string
	AppDBPort     string
	AppDBUser     string
	AppDBPassword string
	AppDBName     string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// SMTP (reminder dispatch + deletion confirmations)
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	// Backup vault
	VaultType   string // filesystem | s3 | memory
	VaultRoot   string
	VaultBucket string
	VaultRegion string
	VaultAccess string
	VaultSecret string

	// Lifecycle
	TrialDays      int
	DeletionExpiry time.Duration
	SiteURL        string

	// Due-reminder sweep
	SweepInterval  time.Duration
	MarkerPolicy   string
	StatementLimit time.Duration

	// DB error-log retention
	LogRetention time.Duration

	// Verification policy: when true, all tables must exist in the legacy
	// backend for a schema to count as complete.
	StrictVerification bool

	// Admin
	AdminEmails  string
	AdminUserIDs string
	AdminToken   string

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		LegacyDBHost:     getEnv("LEGACY_DB_HOST", "localhost"),
		LegacyDBPort:     getEnv("LEGACY_DB_PORT", "3306"),
		LegacyDBUser:     getEnv("LEGACY_DB_USER", "root"),
		LegacyDBPassword: getEnv("LEGACY_DB_PASSWORD", ""),
		LegacyDBName:     getEnv("LEGACY_DB_NAME", "memre_legacy"),

		AppDBHost:     getEnv("APP_DB_HOST", "localhost"),
		AppDBPort:     getEnv("APP_DB_PORT", "3306"),
		AppDBUser:     getEnv("APP_DB_USER", "root"),
		AppDBPassword: getEnv("APP_DB_PASSWORD", ""),
		AppDBName:     getEnv("APP_DB_NAME", "memre_data"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     parseInt(getEnv("SMTP_PORT", "587"), 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "no-reply@memre.app"),

		VaultType:   getEnv("BACKUP_VAULT_TYPE", "filesystem"),
		VaultRoot:   getEnv("BACKUP_VAULT_ROOT", "user-backups"),
		VaultBucket: getEnv("BACKUP_S3_BUCKET", ""),
		VaultRegion: getEnv("BACKUP_S3_REGION", "us-east-1"),
		VaultAccess: getEnv("BACKUP_S3_ACCESS_KEY", ""),
		VaultSecret: getEnv("BACKUP_S3_SECRET_KEY", ""),

		TrialDays:      parseInt(getEnv("TRIAL_DAYS", "14"), 14),
		DeletionExpiry: parseDuration(getEnv("DELETION_REQUEST_EXPIRY", "168h"), 168*time.Hour),
		SiteURL:        getEnv("SITE_URL", "https://memre.app"),

		SweepInterval:  parseDuration(getEnv("SWEEP_INTERVAL", "60s"), time.Minute),
		MarkerPolicy:   markerPolicy(getEnv("MARKER_POLICY", MarkerAfterDispatch)),
		StatementLimit: parseDuration(getEnv("STATEMENT_TIMEOUT", "10s"), 10*time.Second),

		LogRetention: parseDuration(getEnv("LOG_RETENTION", "720h"), 720*time.Hour),

		StrictVerification: getEnv("STRICT_VERIFICATION", "false") == "true",

		AdminEmails:  getEnv("ADMIN_EMAILS", ""),
		AdminUserIDs: getEnv("ADMIN_USER_IDS", ""),
		AdminToken:   getEnv("ADMIN_TOKEN", ""),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

// LegacyDSN returns the MySQL DSN for the combined legacy database.
func (c *Config) LegacyDSN() string {
	return dsn(c.LegacyDBUser, c.LegacyDBPassword, c.LegacyDBHost, c.LegacyDBPort, c.LegacyDBName)
}

// AppDSN returns the MySQL DSN for the dedicated MemrE database.
func (c *Config) AppDSN() string {
	return dsn(c.AppDBUser, c.AppDBPassword, c.AppDBHost, c.AppDBPort, c.AppDBName)
}

func dsn(user, pass, host, port, name string) string {
	return user + ":" + pass + "@tcp(" + host + ":" + port + ")/" + name +
		"?charset=utf8mb4&parseTime=True&loc=UTC"
}

func markerPolicy(s string) string {
	if s == MarkerAfterDelivery {
		return MarkerAfterDelivery
	}
	return MarkerAfterDispatch
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
	if err != nil {
		return fallback
	}
	return n
}
