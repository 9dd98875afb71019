// Package config loads bookvox settings from the environment.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds settings shared by the CLI and the interactive session.
// Command-line flags override these values.
type Config struct {
	StateDir  string
	Language  string
	Preset    string
	Style     string
	Context   int
	ReadCount int
	Debug     bool
}

// Load reads an optional .env file and then the BOOKVOX_* environment.
// Values already set in the environment win over the .env file.
func Load(envFiles ...string) *Config {
	// Missing .env files are fine.
	_ = godotenv.Load(envFiles...)

	return &Config{
		StateDir:  getEnv("BOOKVOX_STATE_DIR", ""),
		Language:  getEnv("BOOKVOX_LANGUAGE", "en"),
		Preset:    getEnv("BOOKVOX_PRESET", "custom"),
		Style:     getEnv("BOOKVOX_STYLE", ""),
		Context:   getEnvInt("BOOKVOX_CONTEXT", 1),
		ReadCount: getEnvInt("BOOKVOX_READ_COUNT", 3),
		Debug:     getEnvBool("BOOKVOX_DEBUG", false),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value < 0 {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}
