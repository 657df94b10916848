package utils

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	port string

	databasePath string
	location     *time.Location

	metricCollectionInterval time.Duration

	staticWebClientDir string
	corsAllowedOrigin  string

	calendarAPIURL string
	logLevel       slog.Level
}

// NewConfig reads the config from env vars. Invalid values are logged and
// replaced with their defaults.
func NewConfig() *Config {
	return &Config{
		port: func() string {
			port := os.Getenv("PORT")
			if port == "" {
				port = "5000"
			}
			slog.Debug("env", "PORT", port)
			return port
		}(),

		databasePath: func() string {
			databasePath := os.Getenv("DATABASE_PATH")
			if databasePath == "" {
				databasePath = "./sqlite.db"
			}
			slog.Debug("env", "DATABASE_PATH", databasePath)
			return databasePath
		}(),
		location: func() *time.Location {
			timezoneStr := os.Getenv("TIMEZONE")
			switch timezoneStr {
			case "":
				slog.Warn("TIMEZONE is not set, using local timezone", "timezone", time.Local)
				return time.Local
			case "UTC":
				return time.UTC
			}
			loc, err := time.LoadLocation(timezoneStr)
			if err != nil {
				slog.Error("invalid TIMEZONE, using local timezone", "timezone", timezoneStr, "error", err)
				return time.Local
			}
			slog.Debug("env", "TIMEZONE", timezoneStr)
			return loc
		}(),

		metricCollectionInterval: func() time.Duration {
			interval := os.Getenv("METRIC_COLLECTION_INTERVAL")
			if interval == "" {
				interval = "15s"
			}
			duration, err := time.ParseDuration(interval)
			if err != nil || duration <= 0 {
				slog.Error("invalid METRIC_COLLECTION_INTERVAL, using 15s", "value", interval, "error", err)
				return 15 * time.Second
			}
			slog.Debug("env", "METRIC_COLLECTION_INTERVAL", duration)
			return duration
		}(),

		staticWebClientDir: func() string {
			staticWebClientDir := os.Getenv("STATIC_WEB_CLIENT_DIR")
			if staticWebClientDir == "" {
				return ""
			}
			info, err := os.Stat(staticWebClientDir)
			if err != nil {
				slog.Error("can't get info of STATIC_WEB_CLIENT_DIR", "error", err)
				return ""
			}
			if !info.IsDir() {
				slog.Error("STATIC_WEB_CLIENT_DIR is not a directory", "path", staticWebClientDir)
				return ""
			}
			slog.Debug("env", "STATIC_WEB_CLIENT_DIR", staticWebClientDir)
			return filepath.Clean(staticWebClientDir)
		}(),
		corsAllowedOrigin: func() string {
			origin := os.Getenv("CORS_ALLOWED_ORIGIN")
			if origin == "" {
				origin = "*"
			}
			slog.Debug("env", "CORS_ALLOWED_ORIGIN", origin)
			return origin
		}(),

		calendarAPIURL: func() string {
			url := os.Getenv("CALENDAR_API_URL")
			if url == "" {
				url = "http://localhost:5000"
			}
			slog.Debug("env", "CALENDAR_API_URL", url)
			return strings.TrimSuffix(url, "/")
		}(),
		logLevel: func() slog.Level {
			var level slog.Level
			raw := os.Getenv("LOG_LEVEL")
			if raw == "" {
				return slog.LevelDebug
			}
			if err := level.UnmarshalText([]byte(raw)); err != nil {
				slog.Error("invalid LOG_LEVEL, using DEBUG", "value", raw)
				return slog.LevelDebug
			}
			return level
		}(),
	}
}

// Get PORT env, default to 5000
func (c *Config) GetPort() string {
	return c.port
}

// Get DATABASE_PATH env, default to ./sqlite.db
func (c *Config) GetDatabasePath() string {
	return c.databasePath
}

// Get TIMEZONE env
func (c *Config) GetLocation() *time.Location {
	return c.location
}

// Get METRIC_COLLECTION_INTERVAL env
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}

// Get STATIC_WEB_CLIENT_DIR env, empty when the web client isn't served
func (c *Config) GetStaticWebClientDir() string {
	return c.staticWebClientDir
}

// Get CORS_ALLOWED_ORIGIN env
func (c *Config) GetCorsAllowedOrigin() string {
	return c.corsAllowedOrigin
}

// Get CALENDAR_API_URL env
func (c *Config) GetCalendarAPIURL() string {
	return c.calendarAPIURL
}

// Get LOG_LEVEL env
func (c *Config) GetLogLevel() slog.Level {
	return c.logLevel
}
