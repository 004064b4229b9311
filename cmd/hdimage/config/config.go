package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ConfigFile string
	InputPath  string
	OutputPath string
	LogLevel   string
	LogFormat  string
	Images     []string
}

// Load loads configuration from environment variables
// Automatically loads .env file if present
func Load() *Config {
	// Try to load .env file (fail silently if not present)
	_ = godotenv.Load()

	cfg := &Config{
		ConfigFile: getEnv("CONFIG", "hdimage.yaml"),
		InputPath:  getEnv("INPUT_PATH", "input"),
		OutputPath: getEnv("OUTPUT_PATH", "images"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "json"),
		Images:     splitList(getEnv("IMAGES", "")),
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitList splits a comma separated list, dropping empty entries
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
