// Package config loads StellarRoute's process configuration from
// environment variables, per spec.md §6, using the getEnv-family
// helpers idiomatic to the example pack's gateway services.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Indexer holds the Indexer process's configuration.
type Indexer struct {
	DatabaseURL       string
	HorizonURL        string
	PollInterval      time.Duration
	HorizonLimit      int
	MaxConnections    int32
	MinConnections    int32
	ConnectionTimeout time.Duration
	IdleTimeout       time.Duration
	MaxLifetime       time.Duration
}

// API holds the API process's configuration.
type API struct {
	DatabaseURL       string
	RedisURL          string
	Host              string
	Port              int
	MaxConnections    int32
	MinConnections    int32
	ConnectionTimeout time.Duration
	IdleTimeout       time.Duration
	MaxLifetime       time.Duration
	RateLimitWindow   time.Duration
	RateLimitPairs    uint32
	RateLimitOrderbook uint32
	RateLimitQuote    uint32
}

// LoadIndexer reads the Indexer's configuration from the environment.
// DATABASE_URL is required; every other field has the documented
// default from spec.md §6.
func LoadIndexer() (Indexer, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return Indexer{}, fmt.Errorf("config: DATABASE_URL is required")
	}

	return Indexer{
		DatabaseURL:       dbURL,
		HorizonURL:        getEnv("STELLAR_HORIZON_URL", "https://horizon.stellar.org"),
		PollInterval:      time.Duration(getEnvInt("POLL_INTERVAL_SECS", 2)) * time.Second,
		HorizonLimit:      getEnvInt("HORIZON_LIMIT", 200),
		MaxConnections:    int32(getEnvInt("DB_MAX_CONNECTIONS", 10)),
		MinConnections:    int32(getEnvInt("DB_MIN_CONNECTIONS", 1)),
		ConnectionTimeout: time.Duration(getEnvInt("DB_CONNECTION_TIMEOUT", 30)) * time.Second,
		IdleTimeout:       time.Duration(getEnvInt("DB_IDLE_TIMEOUT", 600)) * time.Second,
		MaxLifetime:       time.Duration(getEnvInt("DB_MAX_LIFETIME", 1800)) * time.Second,
	}, nil
}

// LoadAPI reads the API's configuration from the environment.
// DATABASE_URL is required; REDIS_URL is optional (cache runs in
// no-op mode when unset).
func LoadAPI() (API, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return API{}, fmt.Errorf("config: DATABASE_URL is required")
	}

	return API{
		DatabaseURL:        dbURL,
		RedisURL:           os.Getenv("REDIS_URL"),
		Host:               getEnv("API_HOST", "0.0.0.0"),
		Port:               getEnvInt("API_PORT", 8080),
		MaxConnections:     int32(getEnvInt("DB_MAX_CONNECTIONS", 10)),
		MinConnections:     int32(getEnvInt("DB_MIN_CONNECTIONS", 1)),
		ConnectionTimeout:  time.Duration(getEnvInt("DB_CONNECTION_TIMEOUT", 30)) * time.Second,
		IdleTimeout:        time.Duration(getEnvInt("DB_IDLE_TIMEOUT", 600)) * time.Second,
		MaxLifetime:        time.Duration(getEnvInt("DB_MAX_LIFETIME", 1800)) * time.Second,
		RateLimitWindow:    time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECS", 60)) * time.Second,
		RateLimitPairs:     uint32(getEnvInt("RATE_LIMIT_PAIRS", 60)),
		RateLimitOrderbook: uint32(getEnvInt("RATE_LIMIT_ORDERBOOK", 30)),
		RateLimitQuote:     uint32(getEnvInt("RATE_LIMIT_QUOTE", 100)),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}
