package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Bookkeeping API v1.0"`
		Port     string `envconfig:"PORT" default:"3000"`
		Timezone string `envconfig:"APP_TIMEZONE" default:"Asia/Jakarta"`
	}

	Log struct {
		Format string `envconfig:"LOG_FORMAT" default:"text"`
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
	}

	DB struct {
		URL             string        `envconfig:"DATABASE_URL"`
		Host            string        `envconfig:"DB_HOST" default:"localhost"`
		Port            string        `envconfig:"DB_PORT" default:"5432"`
		User            string        `envconfig:"DB_USER" default:"postgres"`
		Password        string        `envconfig:"DB_PASSWORD" default:""`
		Name            string        `envconfig:"DB_NAME" default:"bookkeeping"`
		MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
		MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"100"`
		ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"1h"`
		AutoMigrate     bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`
	}

	Redis struct {
		// Kosong = cache dashboard di memori proses
		Addr string `envconfig:"REDIS_ADDR"`
	}

	Dashboard struct {
		CacheTTL time.Duration `envconfig:"DASHBOARD_CACHE_TTL" default:"5m"`
	}

	Transaction struct {
		CleanupTimeout time.Duration `envconfig:"CLEANUP_TIMEOUT" default:"5s"`
	}

	Performance struct {
		SlowThreshold time.Duration `envconfig:"SLOW_REQUEST_THRESHOLD" default:"500ms"`
		LogAll        bool          `envconfig:"PERFORMANCE_LOG_ALL" default:"false"`
	}
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN built from the DB_* parts.
// Sessions run in UTC so date-only columns compare against UTC-midnight parameters.
func (c *Config) DSN() string {
	if c.DB.URL != "" {
		return c.DB.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DB.Host, c.DB.User, c.DB.Password, c.DB.Name, c.DB.Port,
	)
}

// Location resolves APP_TIMEZONE, falling back to a fixed UTC+7 zone when tzdata is missing.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.FixedZone("WIB", 7*60*60)
	}
	return loc
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a JSON logger when LOG_FORMAT=json, text otherwise.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
