package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Settings holds runtime options for the HTTP server.
type Settings struct {
	Addr           string
	PopulationPath string
	DatabaseURL    string
	RedisAddr      string
	RedisPassword  string
	CacheTTL       time.Duration
	CacheSize      int
	LogLevel       string
}

// LoadSettings reads the given .env files (default ".env"), ignoring missing
// ones, and then the BIA_* environment variables.
func LoadSettings(envFiles ...string) (*Settings, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	s := &Settings{
		Addr:           getenv("BIA_ADDR", ":8080"),
		PopulationPath: os.Getenv("BIA_POPULATION"),
		DatabaseURL:    os.Getenv("BIA_DATABASE_URL"),
		RedisAddr:      os.Getenv("BIA_REDIS_ADDR"),
		RedisPassword:  os.Getenv("BIA_REDIS_PASSWORD"),
		CacheTTL:       time.Hour,
		CacheSize:      1024,
		LogLevel:       getenv("LOG_LEVEL", "info"),
	}

	if v := os.Getenv("BIA_CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BIA_CACHE_TTL %q: %w", v, err)
		}
		s.CacheTTL = ttl
	}
	if v := os.Getenv("BIA_CACHE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BIA_CACHE_SIZE %q: %w", v, err)
		}
		s.CacheSize = n
	}

	if s.PopulationPath == "" && s.DatabaseURL == "" {
		return nil, fmt.Errorf("BIA_POPULATION or BIA_DATABASE_URL must be set")
	}
	return s, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
