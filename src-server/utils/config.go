package utils

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	port   string
	dbPath string

	location     *time.Location
	calendarName string

	metricCollectionInterval time.Duration

	staticWebClientDir string
}

func NewConfig() *Config {
	return &Config{
		port: func() string {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			slog.Debug("env", "PORT", port)
			return port
		}(),

		dbPath: func() string {
			dbPath := os.Getenv("DB_PATH")
			if dbPath == "" {
				dbPath = "./sqlite.db"
			}
			slog.Debug("env", "DB_PATH", dbPath)
			return dbPath
		}(),

		location: func() *time.Location {
			timezoneStr := os.Getenv("TIMEZONE")
			var loc *time.Location
			var err error
			switch timezoneStr {
			case "":
				slog.Warn("TIMEZONE is not set, using local timezone", "timezone", time.Local)
				loc = time.Local
			case "UTC":
				loc = time.UTC
			default:
				loc, err = time.LoadLocation(timezoneStr)
				if err != nil {
					slog.Error("invalid timezone", "timezone", timezoneStr, "error", err)
					os.Exit(1)
				}
			}
			slog.Debug("env", "TIMEZONE", timezoneStr)
			return loc
		}(),

		calendarName: func() string {
			calendarName := os.Getenv("CALENDAR_NAME")
			if calendarName == "" {
				calendarName = "Calendar"
			}
			slog.Debug("env", "CALENDAR_NAME", calendarName)
			return calendarName
		}(),

		metricCollectionInterval: func() time.Duration {
			intervalStr := os.Getenv("METRIC_COLLECTION_INTERVAL")
			if intervalStr == "" {
				intervalStr = "15s"
			}
			interval, err := time.ParseDuration(intervalStr)
			if err != nil {
				slog.Error("invalid METRIC_COLLECTION_INTERVAL", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "METRIC_COLLECTION_INTERVAL", interval)
			return interval
		}(),

		staticWebClientDir: func() string {
			staticWebClientDir := os.Getenv("STATIC_WEB_CLIENT_DIR")
			if staticWebClientDir == "" {
				slog.Warn("STATIC_WEB_CLIENT_DIR is not set, web client won't be served")
				return ""
			}
			info, err := os.Stat(staticWebClientDir)
			if err != nil {
				slog.Error("can't get info of STATIC_WEB_CLIENT_DIR", "error", err)
				os.Exit(1)
			}
			if !info.IsDir() {
				slog.Error("STATIC_WEB_CLIENT_DIR is not a directory")
				os.Exit(1)
			}

			slog.Debug("env", "STATIC_WEB_CLIENT_DIR", staticWebClientDir)
			return filepath.Clean(staticWebClientDir)
		}(),
	}
}

// Get PORT env, default to 8080
func (c *Config) GetPort() string {
	return c.port
}

// Get DB_PATH env, default to ./sqlite.db
func (c *Config) GetDBPath() string {
	return c.dbPath
}

// Get TIMEZONE env; all natural language dates resolve in this location
func (c *Config) GetLocation() *time.Location {
	return c.location
}

// Get CALENDAR_NAME env, used as the display name of the iCalendar feed
func (c *Config) GetCalendarName() string {
	return c.calendarName
}

// Get METRIC_COLLECTION_INTERVAL env, default to 15s
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}

// Get STATIC_WEB_CLIENT_DIR env, empty when not set
func (c *Config) GetStaticWebClientDir() string {
	return c.staticWebClientDir
}
