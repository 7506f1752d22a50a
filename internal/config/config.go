// ABOUTME: Configuration loader for the affordaily CLI
// ABOUTME: Loads settings from environment variables with defaults

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultAPIURL = "http://affordaily-api.test/api/v1"

type Config struct {
	// Backend
	APIURL         string        // base URL of the Affordaily API
	RequestTimeout time.Duration // per-request HTTP timeout

	// Query cache
	StaleTime       time.Duration // default freshness window for reads
	GCTime          time.Duration // eviction delay after last subscriber detaches
	ReadRetries     int           // extra attempts for failed reads (default 3)
	MutationRetries int           // extra attempts for failed mutations (default 1)
	RefetchEnabled  bool          // allow background interval refetches

	// Token storage
	TokenPath string // path to the persisted bearer token file
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first when present.
func Load() (*Config, error) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	cfg := &Config{
		APIURL:         ensureScheme(getEnv("AFFORDAILY_API_URL", defaultAPIURL)),
		RequestTimeout: time.Duration(getEnvInt("AFFORDAILY_REQUEST_TIMEOUT", 30)) * time.Second,

		StaleTime:       time.Duration(getEnvInt("AFFORDAILY_STALE_TIME", 300)) * time.Second,
		GCTime:          time.Duration(getEnvInt("AFFORDAILY_GC_TIME", 600)) * time.Second,
		ReadRetries:     getEnvInt("AFFORDAILY_READ_RETRIES", 3),
		MutationRetries: getEnvInt("AFFORDAILY_MUTATION_RETRIES", 1),
		RefetchEnabled:  getEnvBool("AFFORDAILY_REFETCH_ENABLED", true),

		TokenPath: getEnv("AFFORDAILY_TOKEN_PATH", defaultTokenPath()),
	}

	for _, v := range []struct {
		name  string
		value int
	}{
		{"AFFORDAILY_READ_RETRIES", cfg.ReadRetries},
		{"AFFORDAILY_MUTATION_RETRIES", cfg.MutationRetries},
	} {
		if v.value < 0 || v.value > 10 {
			return nil, fmt.Errorf("%s must be between 0 and 10, got %d", v.name, v.value)
		}
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("AFFORDAILY_REQUEST_TIMEOUT must be positive")
	}

	return cfg, nil
}

// defaultTokenPath returns the token file location following XDG spec.
func defaultTokenPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "affordaily", "token.json")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "affordaily", "token.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// ensureScheme adds http:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "http://" + url
	}
	return url
}
