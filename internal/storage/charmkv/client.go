// ABOUTME: Charm KV client wrapper for cloud-synced chunk storage
// ABOUTME: Thin JSON layer over charm kv with prefix-scoped keys
package charmkv

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/kv"
)

// Key prefixes for stored entity types
const (
	ChunkPrefix = "chunk:"
	seqKey      = "meta:chunk_seq"
)

// Config holds charm client configuration
type Config struct {
	Host     string
	DBName   string
	AutoSync bool
}

// DefaultConfig returns default configuration for the charm client
func DefaultConfig() *Config {
	host := os.Getenv("CHARM_HOST")
	if host == "" {
		host = "cloud.charm.sh"
	}
	return &Config{
		Host:     host,
		DBName:   "knowbase",
		AutoSync: true,
	}
}

// Client wraps charm KV for chunk storage operations
type Client struct {
	kv     *kv.KV
	config *Config
	mu     sync.Mutex
}

// NewClient creates a new charm client with the given config
func NewClient(cfg *Config) (*Client, error) {
	// Set CHARM_HOST before opening KV
	os.Setenv("CHARM_HOST", cfg.Host)

	db, err := kv.OpenWithDefaults(cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}

	c := &Client{
		kv:     db,
		config: cfg,
	}

	// Pull remote data on startup
	if cfg.AutoSync {
		_ = db.Sync()
	}

	return c, nil
}

// Close closes the KV database
func (c *Client) Close() error {
	if c.kv != nil {
		err := c.kv.Close()
		c.kv = nil
		return err
	}
	return nil
}

// syncIfEnabled syncs to cloud after writes
func (c *Client) syncIfEnabled() {
	if c.config.AutoSync {
		_ = c.kv.Sync()
	}
}

// SetJSON marshals and stores a value as JSON
func (c *Client) SetJSON(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Set([]byte(key), data); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	c.syncIfEnabled()
	return nil
}

// GetJSON retrieves and unmarshals a JSON value
func (c *Client) GetJSON(key string, dest interface{}) error {
	c.mu.Lock()
	data, err := c.kv.Get([]byte(key))
	c.mu.Unlock()

	if err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("key not found: %s", key)
	}
	return json.Unmarshal(data, dest)
}

// ListKeys returns all keys with the given prefix
func (c *Client) ListKeys(prefix string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys, err := c.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	var result []string
	for _, key := range keys {
		keyStr := string(key)
		if strings.HasPrefix(keyStr, prefix) {
			result = append(result, keyStr)
		}
	}
	return result, nil
}

// NextSeq atomically advances and returns the chunk insertion sequence.
// The sequence orders chunks for similarity tie-breaking.
func (c *Client) NextSeq() (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var seq int64
	data, err := c.kv.Get([]byte(seqKey))
	if err == nil && len(data) > 0 {
		if err := json.Unmarshal(data, &seq); err != nil {
			return 0, fmt.Errorf("failed to decode sequence: %w", err)
		}
	}

	seq++
	out, err := json.Marshal(seq)
	if err != nil {
		return 0, fmt.Errorf("failed to encode sequence: %w", err)
	}
	if err := c.kv.Set([]byte(seqKey), out); err != nil {
		return 0, fmt.Errorf("failed to advance sequence: %w", err)
	}
	c.syncIfEnabled()
	return seq, nil
}

// Sync manually triggers a sync with the cloud
func (c *Client) Sync() error {
	return c.kv.Sync()
}

// ChunkKey generates a storage key for a chunk id
func ChunkKey(chunkID string) string {
	return ChunkPrefix + chunkID
}
