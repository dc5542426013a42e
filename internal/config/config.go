package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	// HTTPAddr is where cmd/api listens.
	HTTPAddr string
	// DBConnString selects the Postgres-backed store for cmd/api; empty
	// means the seeded in-memory store.
	DBConnString string
	// PaymentURLBase prefixes external payment redirect URLs.
	PaymentURLBase string
	// APIBaseURL is the backend the shopper-side engine talks to.
	APIBaseURL string
	// StatePath is the SQLite file holding the engine's durable local
	// state (guest cart, token pair).
	StatePath string
	// RedisAddr, when set, switches local state to the redis backend for
	// shared-terminal deployments.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ShutdownTimeout time.Duration
}

// Load reads a .env file when one exists, then builds Config with defaults
// overridden by environment variables.
func Load() Config {
	godotenv.Load()
	return Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		DBConnString:    envOrDefault("DB_DSN", ""),
		PaymentURLBase:  envOrDefault("PAYMENT_URL_BASE", "https://payments.example.com/session/"),
		APIBaseURL:      envOrDefault("API_BASE_URL", "http://localhost:8080"),
		StatePath:       envOrDefault("CART_STATE_PATH", "cart-state.db"),
		RedisAddr:       envOrDefault("REDIS_ADDR", ""),
		RedisPassword:   envOrDefault("REDIS_PASSWORD", ""),
		RedisDB:         envInt("REDIS_DB", 0),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}
