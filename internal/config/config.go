package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vytor/phrasecards/internal/logger"
)

type Config struct {
	Addr                  string
	DBPath                string
	CatalogSource         string
	CatalogTimeoutSeconds int
	LogLevel              string
	DailyGoal             int
	Timezone              string
	WorkerCount           int
	QueueSize             int
	GradeRatePerSecond    int
	GradeRateBurst        int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                  envOr("ADDR", ":8080"),
		DBPath:                envOr("DB_PATH", "file:phrasecards.db"),
		CatalogSource:         envOr("CATALOG_SOURCE", "data.csv"),
		CatalogTimeoutSeconds: envIntOr("CATALOG_TIMEOUT_SECONDS", 15),
		LogLevel:              envOr("LOG_LEVEL", "INFO"),
		DailyGoal:             envIntOr("DAILY_GOAL", 10),
		Timezone:              os.Getenv("TIMEZONE"),
		WorkerCount:           envIntOr("WORKER_COUNT", 1),
		QueueSize:             envIntOr("QUEUE_SIZE", 4),
		GradeRatePerSecond:    envIntOr("GRADE_RATE_PER_SECOND", 10),
		GradeRateBurst:        envIntOr("GRADE_RATE_BURST", 20),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	if strings.TrimSpace(c.CatalogSource) == "" {
		errs = append(errs, errors.New("CATALOG_SOURCE cannot be empty"))
	}
	if c.CatalogTimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("CATALOG_TIMEOUT_SECONDS must be positive, got %d", c.CatalogTimeoutSeconds))
	}
	if _, ok := logger.ParseLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel))
	}
	if c.DailyGoal < 1 {
		errs = append(errs, fmt.Errorf("DAILY_GOAL must be at least 1, got %d", c.DailyGoal))
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("TIMEZONE %q is not a known zone", c.Timezone))
		}
	}
	if c.WorkerCount <= 0 {
		errs = append(errs, fmt.Errorf("WORKER_COUNT must be positive, got %d", c.WorkerCount))
	}
	if c.QueueSize <= 0 {
		errs = append(errs, fmt.Errorf("QUEUE_SIZE must be positive, got %d", c.QueueSize))
	}
	if c.GradeRatePerSecond <= 0 {
		errs = append(errs, fmt.Errorf("GRADE_RATE_PER_SECOND must be positive, got %d", c.GradeRatePerSecond))
	}
	if c.GradeRateBurst <= 0 {
		errs = append(errs, fmt.Errorf("GRADE_RATE_BURST must be positive, got %d", c.GradeRateBurst))
	}

	return errors.Join(errs...)
}

// Location is the zone whose calendar day bounds the daily quota.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c Config) CatalogTimeout() time.Duration {
	return time.Duration(c.CatalogTimeoutSeconds) * time.Second
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
