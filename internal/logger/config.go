package logger

import (
	"os"
	"strings"
)

// DefaultFile is the log file written next to the reports.
const DefaultFile = "serial_logger.log"

type Config struct {
	Level      string `json:"level" toml:"level"`
	Debug      bool   `json:"debug" toml:"debug"`
	File       string `json:"file" toml:"file"`
	TimeFormat string `json:"time_format" toml:"time_format"`
}

func DefaultConfig() *Config {
	return &Config{
		Level:      getEnvOrDefault("LOG_LEVEL", "info"),
		Debug:      getEnvBoolOrDefault("DEBUG", false),
		File:       getEnvOrDefault("LOG_FILE", DefaultFile),
		TimeFormat: getEnvOrDefault("LOG_TIME_FORMAT", "2006-01-02 15:04:05"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	value = strings.ToLower(value)

	return value == "true" || value == "1" || value == "yes" || value == "on"
}
