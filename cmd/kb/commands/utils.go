// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Tool construction, metadata parsing, and output helpers
package commands

import (
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/harper/knowbase/internal/config"
	"github.com/harper/knowbase/internal/kb"
	"github.com/harper/knowbase/internal/llm"
	"github.com/harper/knowbase/internal/storage/charmkv"
	"github.com/harper/knowbase/internal/storage/sqlite"
)

// newSearchTool builds the knowledge base tool from configuration. The
// returned closer releases the storage backend.
func newSearchTool() (*kb.Tool, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	embedder, err := llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
		APIKey:         cfg.OpenAIKey,
		BaseURL:        cfg.OpenAIBaseURL,
		EmbeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("initializing embedding client: %w", err)
	}

	switch cfg.StorageBackend {
	case config.BackendCharm:
		client, err := charmkv.NewClient(&charmkv.Config{
			Host:     cfg.CharmHost,
			DBName:   cfg.CharmDBName,
			AutoSync: cfg.AutoSync,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("initializing charm storage: %w", err)
		}
		return kb.NewTool(embedder, charmkv.NewStore(client, cfg.VectorDimension)), client.Close, nil

	default:
		path := cfg.DBPath
		if path == "" {
			path = sqlite.DefaultDBPath()
		}
		db, err := sqlite.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing sqlite storage: %w", err)
		}
		return kb.NewTool(embedder, sqlite.NewStore(db, cfg.VectorDimension)), db.Close, nil
	}
}

// parseMetaPairs parses key=value pairs into a metadata map
func parseMetaPairs(pairs []string) (map[string]interface{}, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	metadata := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid metadata pair %q, expected key=value", pair)
		}
		metadata[key] = value
	}
	return metadata, nil
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
