package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int
	LogLevel     slog.Level

	CORSAllowedOrigins []string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string

	// UploadsDir is where avatars go when R2 is not configured.
	UploadsDir string

	// AuthRateLimit is requests per minute per client IP on the auth routes.
	AuthRateLimit int

	// MatchIdleTTL is how long an untouched match stays in memory.
	MatchIdleTTL time.Duration

	// PublicURL is the frontend address used in share links.
	PublicURL string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

// SMTPEnabled reports whether results can be emailed.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}

// R2Enabled reports whether every Cloudflare R2 setting is present.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv(os.Getenv)
}

func fromEnv(getenv func(string) string) (*Config, error) {
	dbURL := getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := intFromEnv(getenv, "SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	var level slog.Level
	if raw := getenv("LOG_LEVEL"); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
		}
	}

	rateLimit, err := intFromEnv(getenv, "AUTH_RATE_LIMIT", 20)
	if err != nil {
		return nil, err
	}
	if rateLimit <= 0 {
		return nil, fmt.Errorf("AUTH_RATE_LIMIT must be positive, got %d", rateLimit)
	}

	idleTTL := 12 * time.Hour
	if raw := getenv("MATCH_IDLE_TTL"); raw != "" {
		idleTTL, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid MATCH_IDLE_TTL environment variable: %w", err)
		}
		if idleTTL <= 0 {
			return nil, fmt.Errorf("MATCH_IDLE_TTL must be positive, got %s", idleTTL)
		}
	}

	smtpPort, err := intFromEnv(getenv, "SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	if smtpPort <= 0 || smtpPort > 65535 {
		return nil, fmt.Errorf("SMTP_PORT must be between 1 and 65535, got %d", smtpPort)
	}

	uploadsDir := getenv("UPLOADS_DIR")
	if uploadsDir == "" {
		uploadsDir = "public/uploads"
	}

	cfg := &Config{
		DatabaseURL:        dbURL,
		JWTSecretKey:       jwtKey,
		ServerPort:         port,
		LogLevel:           level,
		CORSAllowedOrigins: splitList(getenv("CORS_ALLOWED_ORIGINS"), []string{"*"}),
		R2AccountID:        getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:      getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:  getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:       getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:    getenv("R2_PUBLIC_BASE_URL"),
		UploadsDir:         uploadsDir,
		AuthRateLimit:      rateLimit,
		MatchIdleTTL:       idleTTL,
		PublicURL:          getenv("PUBLIC_URL"),
		SMTPHost:           getenv("SMTP_HOST"),
		SMTPPort:           smtpPort,
		SMTPUser:           getenv("SMTP_USER"),
		SMTPPass:           getenv("SMTP_PASS"),
		SMTPFrom:           getenv("SMTP_FROM"),
	}

	return cfg, nil
}

func intFromEnv(getenv func(string) string, key string, def int) (int, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func splitList(raw string, def []string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
