// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Redis    RedisConfig
	Paging   PagingConfig
	Media    MediaConfig
	Notify   NotifyConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string
	GinMode        string
	AllowedOrigins []string
	// TrustedProxies are the IPs or CIDRs allowed to set X-Forwarded-*
	// headers. Empty trusts no proxy.
	TrustedProxies []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AutoMigrate    bool
}

// DatabaseConfig selects the GORM driver and its connection settings.
// URL wins over the discrete host/user/... fields when set.
type DatabaseConfig struct {
	Driver   string // postgres, sqlite, mysql
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	LogLevel string
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	PurgeInterval   time.Duration // how often expired blacklist rows are removed
}

// RedisConfig is optional; an empty URL keeps the token blacklist in the database.
type RedisConfig struct {
	URL string
}

type PagingConfig struct {
	PageSize    int
	MaxPageSize int
}

type MediaConfig struct {
	Root           string
	URL            string
	MaxUploadBytes int64
}

// NotifyConfig lists outbound webhooks that receive new-listing announcements.
type NotifyConfig struct {
	SlackWebhook   string
	DiscordWebhook string
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}

	switch d.Driver {
	case "sqlite":
		name := d.Name
		if name == "" {
			name = "house.db"
		}
		return "file:" + name + "?_foreign_keys=on"
	case "mysql":
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			d.User, d.Password, d.Host, d.Port, d.Name,
		)
	default:
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
		)
	}
}

// Load reads configuration from environment variables.
// Call godotenv.Load before it to pick up a .env file.
func Load() (*Config, error) {
	var errs []string

	intVar := func(key string, def int) int {
		v, err := getEnvInt(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}
	durationVar := func(key string, def time.Duration) time.Duration {
		v, err := getEnvDuration(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}
	boolVar := func(key string, def bool) bool {
		v, err := getEnvBool(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "3000"),
			GinMode:        getEnv("GIN_MODE", "debug"),
			AllowedOrigins: allowedOrigins(),
			TrustedProxies: splitList(os.Getenv("TRUSTED_PROXIES")),
			ReadTimeout:    durationVar("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   durationVar("SERVER_WRITE_TIMEOUT", 30*time.Second),
			AutoMigrate:    boolVar("AUTO_MIGRATE", true),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			URL:      os.Getenv("DATABASE_URL"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     intVar("DB_PORT", 5432),
			User:     getEnv("DB_USER", "house"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "house"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			LogLevel: strings.ToLower(getEnv("DB_LOG_LEVEL", "warn")),
		},
		Auth: AuthConfig{
			JWTSecret:       os.Getenv("JWT_SECRET"),
			AccessTokenTTL:  durationVar("ACCESS_TOKEN_TTL", 15*time.Minute),
			RefreshTokenTTL: durationVar("REFRESH_TOKEN_TTL", 24*time.Hour),
			PurgeInterval:   durationVar("BLACKLIST_PURGE_INTERVAL", time.Hour),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Paging: PagingConfig{
			PageSize:    intVar("PAGE_SIZE", 20),
			MaxPageSize: intVar("MAX_PAGE_SIZE", 100),
		},
		Media: MediaConfig{
			Root:           getEnv("MEDIA_ROOT", "media"),
			URL:            getEnv("MEDIA_URL", "/media/"),
			MaxUploadBytes: int64(intVar("MAX_UPLOAD_BYTES", 10<<20)),
		},
		Notify: NotifyConfig{
			SlackWebhook:   os.Getenv("SLACK_WEBHOOK_URL"),
			DiscordWebhook: os.Getenv("DISCORD_WEBHOOK_URL"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET environment variable is not set")
	}

	switch cfg.Database.Driver {
	case "postgres", "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Sprintf("DB_DRIVER %q is not supported", cfg.Database.Driver))
	}

	if cfg.Auth.AccessTokenTTL <= 0 || cfg.Auth.RefreshTokenTTL <= 0 {
		errs = append(errs, "token lifetimes must be positive")
	}
	if cfg.Auth.PurgeInterval <= 0 {
		errs = append(errs, "BLACKLIST_PURGE_INTERVAL must be positive")
	}

	for _, proxy := range cfg.Server.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				errs = append(errs, fmt.Sprintf("TRUSTED_PROXIES entry %q is not an IP or CIDR", proxy))
			}
		}
	}

	if cfg.Paging.PageSize < 1 {
		errs = append(errs, "PAGE_SIZE must be at least 1")
	}
	if cfg.Paging.MaxPageSize < cfg.Paging.PageSize {
		errs = append(errs, "MAX_PAGE_SIZE must not be smaller than PAGE_SIZE")
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

func allowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	return append(origins, splitList(os.Getenv("ALLOWED_ORIGINS"))...)
}

// splitList splits a comma separated env value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return i, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s must be a duration like 15m, got %q", key, value)
	}
	return d, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s must be a boolean, got %q", key, value)
	}
	return b, nil
}
