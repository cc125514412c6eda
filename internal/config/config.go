package config

import (
	"os"
	"strconv"
)

// Backend names selectable through the GATEWAY_BACKEND variable.
const (
	BackendPostgres = "postgres"
	BackendDocument = "document"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort     string
	GatewayBackend string
	PostgresDSN    string
	DocumentDBPath string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	JWTSecret      string
	StorageDir     string
	StorageBaseURL string
	SwaggerHost    string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		GatewayBackend: getEnv("GATEWAY_BACKEND", BackendPostgres),
		PostgresDSN:    getEnv("POSTGRES_DSN", "host=localhost user=paintpro password=paintpro dbname=paintpro port=5432 sslmode=disable"),
		DocumentDBPath: getEnv("DOCUMENT_DB_PATH", "paintpro.db"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		RedisPass:      os.Getenv("REDIS_PASSWORD"),
		JWTSecret:      getEnv("JWT_SECRET", "change-me"),
		StorageDir:     getEnv("STORAGE_DIR", "data/storage"),
		StorageBaseURL: getEnv("STORAGE_BASE_URL", "http://localhost:8080/files"),
		SwaggerHost:    os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
