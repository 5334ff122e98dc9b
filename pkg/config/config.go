package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string
	LogLevel   string

	// External API credentials. Both may be empty at startup; the owning
	// stage rejects work lazily when it runs without its credential.
	AssemblyAIKey string
	GPTZeroKey    string

	// DataDir is the root for screenshots/, audio/ and results/.
	DataDir string

	NavTimeout   time.Duration
	ReadyTimeout time.Duration
	ProbeTimeout time.Duration

	// RedisAddr switches the task store from in-memory to Redis when set.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// PostgresDSN enables the database result mirror when set.
	PostgresDSN string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AssemblyAIKey: getEnv("ASSEMBLYAI_API_KEY", ""),
		GPTZeroKey:    getEnv("GPTZERO_API_KEY", ""),
		DataDir:       getEnv("DATA_DIR", "./data"),
		NavTimeout:    getEnvAsDuration("NAV_TIMEOUT_SECONDS", 30) * time.Second,
		ReadyTimeout:  getEnvAsDuration("READY_TIMEOUT_SECONDS", 10) * time.Second,
		ProbeTimeout:  getEnvAsDuration("PROBE_TIMEOUT_SECONDS", 10) * time.Second,
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		PostgresDSN:   getEnv("POSTGRES_DSN", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallback))
}
