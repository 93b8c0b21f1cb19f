package config

import (
	"log"
	"os"
)

type Config struct {
	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	JWTSecret   string
	GinMode     string
	Port        string
	LogLevel    string
}

func Load() *Config {
	cfg := &Config{
		DBDriver:    getEnv("DB_DRIVER", "postgres"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "repairtrack"),
		DBPassword:  getEnv("DB_PASSWORD", "repairtrack"),
		DBName:      getEnv("DB_NAME", "repairtrack"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		GinMode:     getEnv("GIN_MODE", "debug"),
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
	}

	if cfg.JWTSecret == "" {
		// Refuse to start with a guessable signing key in production.
		if cfg.GinMode == "release" {
			log.Fatal("JWT_SECRET is required in release mode")
		}
		cfg.JWTSecret = "dev-secret-change-me"
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
