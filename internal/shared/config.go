package shared

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	LogLevel       string
	HTTPAddr       string
	HTTPTimeout    time.Duration
	MetricsAddr    string
	MySQLDSN       string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	RedisPrefix    string
	CacheTTL       time.Duration
	SessionSecret  string
	SessionTTL     time.Duration
	CookieSecure   bool
	BookingWorkers int

	// importer
	UpstreamBase    string
	UpstreamKey     string
	UpstreamCookie  string
	UpstreamRPS     int
	UpstreamTimeout time.Duration
	ImportWorkers   int
}

// Load reads the environment, after merging a local .env file if one exists.
// Problems that fall back to a default are returned as warnings; the caller
// logs them once its logger is configured.
func Load() (Config, []string) {
	_ = godotenv.Load()

	var warnings []string
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			warnings = append(warnings, fmt.Sprintf("%s=%q is not an integer, using default %d", k, v, def))
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		LogLevel:       env("LOG_LEVEL", "info"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		HTTPTimeout:    time.Duration(atoi("HTTP_TIMEOUT_SECONDS", 15)) * time.Second,
		MetricsAddr:    env("METRICS_ADDR", ""),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/staybook?parseTime=true&charset=utf8mb4&loc=UTC"),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		RedisPrefix:    env("REDIS_PREFIX", "staybook:"),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		SessionSecret:  env("SESSION_SECRET", ""),
		SessionTTL:     time.Duration(atoi("SESSION_TTL_HOURS", 24)) * time.Hour,
		CookieSecure:   boolEnv("COOKIE_SECURE", true),
		BookingWorkers: atoi("BOOKING_WORKERS", 4),

		UpstreamBase:    env("UPSTREAM_BASE_URL", "http://localhost:7000/api"),
		UpstreamKey:     env("UPSTREAM_API_KEY", ""),
		UpstreamCookie:  env("UPSTREAM_SESSION_COOKIE", ""),
		UpstreamRPS:     atoi("UPSTREAM_RPS", 5),
		UpstreamTimeout: time.Duration(atoi("UPSTREAM_TIMEOUT_SECONDS", 10)) * time.Second,
		ImportWorkers:   atoi("IMPORT_WORKERS", 8),
	}
	if c.SessionSecret == "" {
		warnings = append(warnings, "SESSION_SECRET is empty")
	}
	return c, warnings
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func boolEnv(k string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(k))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}
