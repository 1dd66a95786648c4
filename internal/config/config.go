package config

import (
	"os"
	"strconv"
)

type Config struct {
	DBDriver    string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	JWTSecret   string
	JWTTTLHours int
	GinMode     string
	Port        string
}

func Load() *Config {
	return &Config{
		DBDriver:    getEnv("DB_DRIVER", "mysql"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "3306"),
		DBUser:      getEnv("DB_USER", "taskuser"),
		DBPassword:  getEnv("DB_PASSWORD", "taskpassword"),
		DBName:      getEnv("DB_NAME", "taskboard"),
		JWTSecret:   getEnv("JWT_SECRET", "default-secret-key-change-me"),
		JWTTTLHours: getEnvInt("JWT_TTL_HOURS", 72),
		GinMode:     getEnv("GIN_MODE", "debug"),
		Port:        getEnv("PORT", "8080"),
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
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
