package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultTokenTTLMillis is the token lifetime used when AUTH_TOKEN_TTL_MS is unset.
const DefaultTokenTTLMillis = 86_400_000

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Uploads      UploadsConfig
	Seed         SeedConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	CORSAllowOrigins      string
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
	Addr            string
	Password        string
	DB              int
	BookCacheTTLSec int
	DialTimeoutMS   int
	IOTimeoutMS     int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
	// Encoding is "json" or "console".
	Encoding string
	Service  string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	// JWTSecret has no default. auth.BuildSigningKey rejects it when blank
	// or shorter than 32 characters, which stops the process at startup.
	JWTSecret      string
	TokenTTLMillis int64
	BcryptCost     int
	// Requests per minute allowed on register/login/refresh per client IP.
	RateLimitPerMinute int
}

// UploadsConfig controls on-disk storage of book covers and PDFs.
type UploadsConfig struct {
	Dir      string
	MaxBytes int
}

// SeedConfig controls creation of the default admin and sample books.
type SeedConfig struct {
	Enabled       bool
	AdminEmail    string
	AdminPassword string
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	ttlMillis, err := strconv.ParseInt(getEnv("AUTH_TOKEN_TTL_MS", strconv.Itoa(DefaultTokenTTLMillis)), 10, 64)
	if err != nil || ttlMillis <= 0 {
		return nil, fmt.Errorf("invalid AUTH_TOKEN_TTL_MS: %q", os.Getenv("AUTH_TOKEN_TTL_MS"))
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))
	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "library-service"),
			Env:                   env,
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			CORSAllowOrigins:      getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:            getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:        os.Getenv("REDIS_PASSWORD"),
			DB:              redisDB,
			BookCacheTTLSec: getEnvAsInt("REDIS_BOOK_CACHE_TTL_SECONDS", 300),
			DialTimeoutMS:   getEnvAsInt("REDIS_DIAL_TIMEOUT_MS", 2000),
			IOTimeoutMS:     getEnvAsInt("REDIS_IO_TIMEOUT_MS", 500),
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
			Service:  getEnv("APP_NAME", "library-service"),
		},
		Auth: AuthConfig{
			JWTSecret:          os.Getenv("AUTH_JWT_SECRET"),
			TokenTTLMillis:     ttlMillis,
			BcryptCost:         getEnvAsInt("AUTH_BCRYPT_COST", 12),
			RateLimitPerMinute: getEnvAsInt("AUTH_RATE_LIMIT_PER_MINUTE", 20),
		},
		Uploads: UploadsConfig{
			Dir:      getEnv("UPLOADS_DIR", "uploads"),
			MaxBytes: getEnvAsInt("UPLOADS_MAX_BYTES", 20<<20),
		},
		Seed: SeedConfig{
			Enabled:       getEnvAsBool("SEED_ENABLED", env == "development"),
			AdminEmail:    getEnv("SEED_ADMIN_EMAIL", "admin@library.com"),
			AdminPassword: getEnv("SEED_ADMIN_PASSWORD", "admin123"),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
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

// TokenTTL returns the token lifetime as a duration.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMillis) * time.Millisecond
}

// BookCacheTTL returns how long cached books stay in Redis.
func (r RedisConfig) BookCacheTTL() time.Duration {
	if r.BookCacheTTLSec <= 0 {
		return 0
	}
	return time.Duration(r.BookCacheTTLSec) * time.Second
}

// DialTimeout bounds connection setup. Zero keeps the go-redis default.
func (r RedisConfig) DialTimeout() time.Duration {
	return millis(r.DialTimeoutMS)
}

// IOTimeout bounds each read and write. A slow cache must not stall book reads.
func (r RedisConfig) IOTimeout() time.Duration {
	return millis(r.IOTimeoutMS)
}

func millis(v int) time.Duration {
	if v <= 0 {
		return 0
	}
	return time.Duration(v) * time.Millisecond
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
