package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := fromEnv(envMap(map[string]string{
		"DATABASE_URL":   "postgres://localhost/ladder",
		"JWT_SECRET_KEY": "secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "public/uploads", cfg.UploadsDir)
	assert.Equal(t, 20, cfg.AuthRateLimit)
	assert.Equal(t, 12*time.Hour, cfg.MatchIdleTTL)
	assert.False(t, cfg.R2Enabled())
	assert.False(t, cfg.SMTPEnabled())
	assert.Equal(t, 587, cfg.SMTPPort)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := fromEnv(envMap(map[string]string{
		"DATABASE_URL":         "postgres://localhost/ladder",
		"JWT_SECRET_KEY":       "secret",
		"SERVER_PORT":          "9000",
		"LOG_LEVEL":            "debug",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example,",
		"AUTH_RATE_LIMIT":      "5",
		"MATCH_IDLE_TTL":       "90m",
		"SMTP_HOST":            "smtp.example",
		"SMTP_PORT":            "465",
		"SMTP_FROM":            "ladder@example.com",
		"PUBLIC_URL":           "https://ladder.example",
		"R2_ACCOUNT_ID":        "acct",
		"R2_ACCESS_KEY_ID":     "key",
		"R2_SECRET_ACCESS_KEY": "secret",
		"R2_BUCKET_NAME":       "avatars",
		"R2_PUBLIC_BASE_URL":   "https://cdn.example",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.ServerPort)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 5, cfg.AuthRateLimit)
	assert.Equal(t, 90*time.Minute, cfg.MatchIdleTTL)
	assert.True(t, cfg.R2Enabled())
	assert.True(t, cfg.SMTPEnabled())
	assert.Equal(t, 465, cfg.SMTPPort)
	assert.Equal(t, "https://ladder.example", cfg.PublicURL)
}

func TestFromEnvErrors(t *testing.T) {
	base := func() map[string]string {
		return map[string]string{"DATABASE_URL": "postgres://x", "JWT_SECRET_KEY": "s"}
	}
	tests := []struct {
		name string
		edit func(map[string]string)
	}{
		{name: "missing database url", edit: func(m map[string]string) { delete(m, "DATABASE_URL") }},
		{name: "missing jwt secret", edit: func(m map[string]string) { delete(m, "JWT_SECRET_KEY") }},
		{name: "port not a number", edit: func(m map[string]string) { m["SERVER_PORT"] = "http" }},
		{name: "port out of range", edit: func(m map[string]string) { m["SERVER_PORT"] = "70000" }},
		{name: "bad log level", edit: func(m map[string]string) { m["LOG_LEVEL"] = "loud" }},
		{name: "zero rate limit", edit: func(m map[string]string) { m["AUTH_RATE_LIMIT"] = "0" }},
		{name: "bad idle ttl", edit: func(m map[string]string) { m["MATCH_IDLE_TTL"] = "soon" }},
		{name: "smtp port out of range", edit: func(m map[string]string) { m["SMTP_PORT"] = "0" }},
		{name: "negative idle ttl", edit: func(m map[string]string) { m["MATCH_IDLE_TTL"] = "-1h" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base()
			tt.edit(m)
			_, err := fromEnv(envMap(m))
			assert.Error(t, err)
		})
	}
}
