// ABOUTME: Centralized configuration for the knowledge base system
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Storage backend names accepted by KB_STORAGE
const (
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"
)

// Config holds all configuration for the knowledge base system
type Config struct {
	// Storage settings
	StorageBackend string
	DBPath         string
	CharmHost      string
	CharmDBName    string
	AutoSync       bool

	// OpenAI settings
	OpenAIKey      string
	OpenAIBaseURL  string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Embedding settings
	VectorDimension int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		StorageBackend:  getEnv("KB_STORAGE", BackendSQLite),
		DBPath:          os.Getenv("KB_DB_PATH"),
		CharmHost:       getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName:     getEnv("CHARM_DB", "knowbase"),
		AutoSync:        getEnvBool("CHARM_AUTO_SYNC", true),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		EmbeddingModel:  getEnv("KB_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:         getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:      getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:      getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		VectorDimension: getEnvInt("KB_VECTOR_DIMENSION", 1536),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.StorageBackend != BackendSQLite && c.StorageBackend != BackendCharm {
		return fmt.Errorf("KB_STORAGE must be %q or %q, got %q", BackendSQLite, BackendCharm, c.StorageBackend)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.VectorDimension < 1 {
		return fmt.Errorf("KB_VECTOR_DIMENSION must be positive, got %d", c.VectorDimension)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
