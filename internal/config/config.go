package config

import "os"

type Config struct {
	DatabasePath string
	LogMode      string // development or production
	LogFile      string // optional; enables rotating file output when set
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() Config {
	cfg := Config{}
	cfg.DatabasePath = getEnv("MEATHOUSE_DB", "meat_house.db")
	cfg.LogMode = getEnv("LOG_MODE", "development")
	cfg.LogFile = getEnv("LOG_FILE", "")
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
