package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	AWS          AWSConfig
	Careers      CareersConfig
	Reporting    ReportingConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
	// Format is "json" (default) or "console".
	Format  string
	Service string
	Env     string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	BootstrapAdminEmail   string
	BootstrapAdminName    string
	BootstrapAdminPass    string
}

// NotificationConfig controls outbound reminder delivery.
type NotificationConfig struct {
	EmailFrom  string
	RenewalsTo string
	WebhookURL string
}

// AWSConfig selects the region used by the SES and S3 clients.
type AWSConfig struct {
	Region       string
	ResumeBucket string
	EmailEnabled bool
}

// CareersConfig bounds résumé uploads.
type CareersConfig struct {
	MaxResumeBytes   int64
	AllowedMIMETypes []string
}

// ReportingConfig tunes dashboard behavior.
type ReportingConfig struct {
	SummaryCacheTTLSeconds int
	SearchDebounceMillis   int
	SearchDefaultLimit     int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "backoffice-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			MigrationsDir:  os.Getenv("POSTGRES_MIGRATIONS_DIR"),
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        redisDB,
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "backoffice"),
		},
		Logger: LoggerConfig{
			Level:   getEnv("LOG_LEVEL", "info"),
			Format:  getEnv("LOG_FORMAT", "json"),
			Service: getEnv("APP_NAME", "backoffice-service"),
			Env:     getEnv("APP_ENV", "development"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
			BootstrapAdminEmail:   getEnv("AUTH_ADMIN_EMAIL", "admin@example.com"),
			BootstrapAdminName:    getEnv("AUTH_ADMIN_NAME", "Super Admin"),
			BootstrapAdminPass:    os.Getenv("AUTH_ADMIN_PASSWORD"),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			RenewalsTo: getEnv("NOTIFY_RENEWALS_TO", "renewals@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
		AWS: AWSConfig{
			Region:       getEnv("AWS_REGION", "us-east-1"),
			ResumeBucket: os.Getenv("CAREERS_RESUME_BUCKET"),
			EmailEnabled: getEnvAsBool("NOTIFY_EMAIL_ENABLED", false),
		},
		Careers: CareersConfig{
			MaxResumeBytes:   int64(getEnvAsInt("CAREERS_MAX_RESUME_BYTES", 5*1024*1024)),
			AllowedMIMETypes: getEnvAsList("CAREERS_ALLOWED_MIME_TYPES", DefaultResumeMIMETypes),
		},
		Reporting: ReportingConfig{
			SummaryCacheTTLSeconds: getEnvAsInt("SUMMARY_CACHE_TTL_SECONDS", 60),
			SearchDebounceMillis:   getEnvAsInt("SEARCH_DEBOUNCE_MILLIS", 300),
			SearchDefaultLimit:     getEnvAsInt("SEARCH_DEFAULT_LIMIT", 20),
		},
	}

	return cfg, nil
}

// DefaultResumeMIMETypes lists the document types accepted for résumés.
var DefaultResumeMIMETypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// SummaryCacheTTL returns how long a cached dashboard summary stays valid.
func (r ReportingConfig) SummaryCacheTTL() time.Duration {
	if r.SummaryCacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(r.SummaryCacheTTLSeconds) * time.Second
}

// SearchDebounce returns the debounce window for search-driven recomputation.
func (r ReportingConfig) SearchDebounce() time.Duration {
	if r.SearchDebounceMillis <= 0 {
		return 300 * time.Millisecond
	}
	return time.Duration(r.SearchDebounceMillis) * time.Millisecond
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}
