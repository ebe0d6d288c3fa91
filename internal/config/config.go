package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string
	DBPath            string
	CatalogPath       string
	TagsPath          string
	LogLevel          string
	ImportWorkerCount int
	ImportQueueSize   int
	DashboardCacheTTL int // seconds
	RefreshDebounceMS int
	HeatmapWindowDays int
	RecentLimit       int
	PriorityLimit     int
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", ":8080"),
		DBPath:            envOr("DB_PATH", "file:steptracker.db"),
		CatalogPath:       envOr("CATALOG_PATH", "questions.json"),
		TagsPath:          envOr("TAGS_PATH", "question_tags.json"),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		ImportWorkerCount: envIntOr("IMPORT_WORKER_COUNT", 1),
		ImportQueueSize:   envIntOr("IMPORT_QUEUE_SIZE", 8),
		DashboardCacheTTL: envIntOr("DASHBOARD_CACHE_TTL", 60),
		RefreshDebounceMS: envIntOr("REFRESH_DEBOUNCE_MS", 500),
		HeatmapWindowDays: envIntOr("HEATMAP_WINDOW_DAYS", 120),
		RecentLimit:       envIntOr("RECENT_LIMIT", 5),
		PriorityLimit:     envIntOr("PRIORITY_LIMIT", 10),
	}
}

// Validate checks the configuration and returns all problems found.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	if c.ImportWorkerCount <= 0 {
		problems = append(problems, "IMPORT_WORKER_COUNT must be positive")
	}
	if c.ImportQueueSize <= 0 {
		problems = append(problems, "IMPORT_QUEUE_SIZE must be positive")
	}
	if c.DashboardCacheTTL < 0 {
		problems = append(problems, "DASHBOARD_CACHE_TTL cannot be negative")
	}
	if c.RefreshDebounceMS < 0 {
		problems = append(problems, "REFRESH_DEBOUNCE_MS cannot be negative")
	}
	if c.HeatmapWindowDays <= 0 {
		problems = append(problems, "HEATMAP_WINDOW_DAYS must be positive")
	}
	if c.RecentLimit <= 0 {
		problems = append(problems, "RECENT_LIMIT must be positive")
	}
	if c.PriorityLimit <= 0 {
		problems = append(problems, "PRIORITY_LIMIT must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
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
