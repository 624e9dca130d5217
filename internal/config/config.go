// Package config reads storefront settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SessionBackendBolt   = "bolt"
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

type Config struct {
	APIURL         string
	RequestTimeout  time.Duration
	BreakerFailures uint32
	LogLevel        string

	SessionBackend string
	SessionPath    string
	SessionProfile string

	RedisAddr     string
	RedisPassword string
	CatalogCache  bool

	OrdersDB string

	KafkaBrokers []string
	NotifyTopic  string

	BackendPort      string
	BackendJWTSecret string
	BackendRateLimit int
	ShutdownTimeout  time.Duration
}

// Load reads envFiles (".env" when none are given; missing files are fine)
// and then the environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dataDir := filepath.Join(home, ".storefront")

	// zero means no client-side timeout; a checkout the backend commits late
	// must not be reported as failed
	timeout, err := time.ParseDuration(getEnv("STOREFRONT_REQUEST_TIMEOUT", "0"))
	if err != nil {
		return nil, fmt.Errorf("STOREFRONT_REQUEST_TIMEOUT: %w", err)
	}
	catalogCache, err := strconv.ParseBool(getEnv("STOREFRONT_CATALOG_CACHE", "false"))
	if err != nil {
		return nil, fmt.Errorf("STOREFRONT_CATALOG_CACHE: %w", err)
	}
	breakerFailures, err := strconv.ParseUint(getEnv("STOREFRONT_BREAKER_FAILURES", "5"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("STOREFRONT_BREAKER_FAILURES: %w", err)
	}
	rateLimit, err := strconv.Atoi(getEnv("BACKEND_RATE_LIMIT", "20"))
	if err != nil {
		return nil, fmt.Errorf("BACKEND_RATE_LIMIT: %w", err)
	}

	cfg := &Config{
		APIURL:          getEnv("STOREFRONT_API_URL", "http://localhost:8082/api/v1"),
		RequestTimeout:  timeout,
		BreakerFailures: uint32(breakerFailures),
		LogLevel:        getEnv("STOREFRONT_LOG_LEVEL", "info"),

		SessionBackend: getEnv("STOREFRONT_SESSION_BACKEND", SessionBackendBolt),
		SessionPath:    getEnv("STOREFRONT_SESSION_PATH", filepath.Join(dataDir, "session.db")),
		SessionProfile: getEnv("STOREFRONT_SESSION_PROFILE", "default"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		CatalogCache:  catalogCache,

		OrdersDB: getEnv("STOREFRONT_ORDERS_DB", filepath.Join(dataDir, "orders.db")),

		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),
		NotifyTopic:  getEnv("STOREFRONT_NOTIFY_TOPIC", "storefront-notifications"),

		BackendPort:      getEnv("BACKEND_PORT", "8082"),
		BackendJWTSecret: getEnv("BACKEND_JWT_SECRET", "dev-secret"),
		BackendRateLimit: rateLimit,
		ShutdownTimeout:  10 * time.Second,
	}

	switch cfg.SessionBackend {
	case SessionBackendBolt, SessionBackendRedis, SessionBackendMemory:
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
