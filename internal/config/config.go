package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration, loaded once at startup and
// handed to constructors. Nothing reads the environment after Load.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	TokenSecret string
	TokenTTL    time.Duration

	// BaseURL is prepended to invitation links embedded in emails.
	BaseURL string

	CORSOrigins []string

	// HeadcountCeiling caps the total employee count a company
	// invitation may request.
	HeadcountCeiling int

	RateLimit RateLimitConfig
	Email     EmailConfig
	Bootstrap BootstrapConfig

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
}

// RateLimitConfig controls the fixed-window abuse limiter applied to
// authentication and public invitation endpoints.
type RateLimitConfig struct {
	Enabled   bool
	Window    time.Duration
	Max       int
	RedisAddr string
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

// BootstrapConfig seeds a first admin account on an empty database.
type BootstrapConfig struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "evalia"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		TokenSecret: strings.TrimSpace(getenv("AUTH_TOKEN_SECRET", "")),
		TokenTTL:    time.Duration(getenvInt("AUTH_TOKEN_TTL_HOURS", 168)) * time.Hour,

		BaseURL: strings.TrimRight(getenv("APP_BASE_URL", "http://localhost:5000"), "/"),

		CORSOrigins: splitList(getenv("CORS_ORIGINS", "")),

		HeadcountCeiling: getenvInt("EMPLOYEE_HEADCOUNT_CEILING", 1000),

		RateLimit: RateLimitConfig{
			Enabled:   getenvBool("RATE_LIMIT_ENABLED", true),
			Window:    time.Duration(getenvInt("RATE_LIMIT_WINDOW_SECONDS", 900)) * time.Second,
			Max:       getenvInt("RATE_LIMIT_MAX", 100),
			RedisAddr: strings.TrimSpace(getenv("RATE_LIMIT_REDIS_ADDR", "")),
		},

		Email: EmailConfig{
			SMTPHost:     getenv("SMTP_HOST", ""),
			SMTPPort:     getenvInt("SMTP_PORT", 587),
			SMTPUsername: getenv("SMTP_USERNAME", ""),
			SMTPPassword: getenv("SMTP_PASSWORD", ""),
			SMTPFrom:     getenv("SMTP_FROM", "no-reply@evalia.app"),
		},

		Bootstrap: BootstrapConfig{
			AdminEmail:    strings.TrimSpace(getenv("BOOTSTRAP_ADMIN_EMAIL", "")),
			AdminPassword: getenv("BOOTSTRAP_ADMIN_PASSWORD", ""),
			AdminName:     getenv("BOOTSTRAP_ADMIN_NAME", "Evalia Admin"),
		},

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "evalia"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 30),
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
