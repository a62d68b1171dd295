// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"
)

// Pagination defaults
const (
	DefaultPageSizeValue = 20
	MaxPageSizeValue     = 100
)

// Session defaults
const (
	HistoryCapacityValue = 50
	LatencyWindowValue   = 32
)

// Config holds all configuration for the car search MCP server.
type Config struct {
	ListenAddr       string // LISTEN_ADDR, default ":8765"
	DefaultPageSize  int    // DEFAULT_PAGE_SIZE, default 20
	MaxPageSize      int    // MAX_PAGE_SIZE, default 100
	HistoryCapacity  int    // HISTORY_CAPACITY, default 50
	LatencyWindow    int    // LATENCY_WINDOW, default 32
	CarCacheMaxItems int    // CAR_CACHE_MAX_ITEMS, default 512

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		ListenAddr:       getEnvString("LISTEN_ADDR", ":8765"),
		DefaultPageSize:  getEnvInt("DEFAULT_PAGE_SIZE", DefaultPageSizeValue),
		MaxPageSize:      getEnvInt("MAX_PAGE_SIZE", MaxPageSizeValue),
		HistoryCapacity:  getEnvInt("HISTORY_CAPACITY", HistoryCapacityValue),
		LatencyWindow:    getEnvInt("LATENCY_WINDOW", LatencyWindowValue),
		CarCacheMaxItems: getEnvInt("CAR_CACHE_MAX_ITEMS", 512),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
