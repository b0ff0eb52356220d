package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "dev-secret-change-in-production"

var ErrDefaultSecret = errors.New("JWT_SECRET must be set in production environment")

type Config struct {
	Port           string
	Env            string
	DatabaseDSN    string
	JWTSecret      string
	SessionTTL     time.Duration
	CookieName     string
	CookieSecure   bool
	AllowedOrigins []string
	LogLevel       slog.Level
	AutoMigrate    bool
}

func Load() Config {
	return Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/todos?parseTime=true"),
		JWTSecret:      getEnv("JWT_SECRET", defaultJWTSecret),
		SessionTTL:     getDuration("SESSION_TTL", 24*time.Hour),
		CookieName:     getEnv("SESSION_COOKIE", "todo_session"),
		CookieSecure:   getBool("SESSION_COOKIE_SECURE", getEnv("ENV", "development") == "production"),
		AllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		LogLevel:       getLevel("LOG_LEVEL", slog.LevelInfo),
		AutoMigrate:    getBool("AUTO_MIGRATE", false),
	}
}

// Production reports whether the service runs with ENV=production.
func (c Config) Production() bool {
	return c.Env == "production"
}

// Validate rejects settings that are unsafe to run with.
func (c Config) Validate() error {
	if c.Production() && c.JWTSecret == defaultJWTSecret {
		return ErrDefaultSecret
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getLevel(key string, fallback slog.Level) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(os.Getenv(key))); err != nil {
		return fallback
	}
	return lvl
}
