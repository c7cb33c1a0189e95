package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	DataFile    string `yaml:"data_file"`
	UploadDir   string `yaml:"upload_dir"`
	DatabaseURL string `yaml:"database_url"`
	CORSOrigins string `yaml:"cors_origins"`
	JWKSURL     string `yaml:"jwks_url"`
	LogLevel    string `yaml:"log_level"`
}

// Load builds the configuration from an optional YAML file plus the
// environment. Environment variables always win over file values, and
// the file named by CONFIG_FILE (default config.yaml) may be absent.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        "8080",
		Environment: "dev",
		DataFile:    "data/parakeet.json",
		UploadDir:   "data/uploads",
		CORSOrigins: "http://localhost:3000",
		LogLevel:    "info",
	}

	path := getEnv("CONFIG_FILE", "config.yaml")
	if raw, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.DataFile = getEnv("DATA_FILE", cfg.DataFile)
	cfg.UploadDir = getEnv("UPLOAD_DIR", cfg.UploadDir)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.CORSOrigins = getEnv("CORS_ORIGINS", cfg.CORSOrigins)
	cfg.JWKSURL = getEnv("AUTH_JWKS_URL", cfg.JWKSURL)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
