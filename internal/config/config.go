// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"
)

// Sample handling defaults
const (
	SampleCacheMaxSetsValue = 64
	SampleMaxPerSetValue    = 10000
	LoadWorkersValue        = 8
	LoadMaxLineBytesValue   = 4 << 20
	LoadTimeoutSecondsValue = 300
)

// Tool output defaults
const (
	DefaultStatsDepthValue = 5
	DefaultFindLimitValue  = 50
	MaxQueryResultsValue   = 10000
)

// Config holds all configuration for the MCP server and CLI.
type Config struct {
	SampleCacheMaxSets int    // SAMPLE_CACHE_MAX_SETS, default 64
	SampleMaxPerSet    int    // SAMPLE_MAX_PER_SET, default 10000
	LoadWorkers        int    // LOAD_WORKERS, default 8
	LoadMaxLineBytes   int    // LOAD_MAX_LINE_BYTES, default 4 MiB
	LoadTimeoutSeconds int    // LOAD_TIMEOUT_SECONDS, default 300
	SampleRoot         string // SAMPLE_ROOT, default "" (current directory)

	// Tool output limits
	DefaultStatsDepth int // DEFAULT_STATS_DEPTH
	DefaultFindLimit  int // DEFAULT_FIND_LIMIT
	MaxQueryResults   int // MAX_QUERY_RESULTS

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFormat     string // LOG_FORMAT, "text" or "json", default "text"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		SampleCacheMaxSets: getEnvPositiveInt("SAMPLE_CACHE_MAX_SETS", SampleCacheMaxSetsValue),
		SampleMaxPerSet:    getEnvPositiveInt("SAMPLE_MAX_PER_SET", SampleMaxPerSetValue),
		LoadWorkers:        getEnvPositiveInt("LOAD_WORKERS", LoadWorkersValue),
		LoadMaxLineBytes:   getEnvPositiveInt("LOAD_MAX_LINE_BYTES", LoadMaxLineBytesValue),
		LoadTimeoutSeconds: getEnvPositiveInt("LOAD_TIMEOUT_SECONDS", LoadTimeoutSecondsValue),
		SampleRoot:         getEnvString("SAMPLE_ROOT", ""),

		DefaultStatsDepth: getEnvPositiveInt("DEFAULT_STATS_DEPTH", DefaultStatsDepthValue),
		DefaultFindLimit:  getEnvPositiveInt("DEFAULT_FIND_LIMIT", DefaultFindLimitValue),
		MaxQueryResults:   getEnvPositiveInt("MAX_QUERY_RESULTS", MaxQueryResultsValue),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
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

// getEnvPositiveInt is getEnvInt for limits where zero or less makes no sense.
func getEnvPositiveInt(key string, defaultVal int) int {
	if i := getEnvInt(key, defaultVal); i > 0 {
		return i
	}
	return defaultVal
}
