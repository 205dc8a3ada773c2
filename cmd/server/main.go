// ABOUTME: Main entry point for the knowledge base MCP server with stdio transport
// ABOUTME: Initializes storage, embedding client, and MCP server with all tools
package main

import (
	"log"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/harper/knowbase/internal/config"
	"github.com/harper/knowbase/internal/kb"
	"github.com/harper/knowbase/internal/llm"
	kbmcp "github.com/harper/knowbase/internal/mcp"
	"github.com/harper/knowbase/internal/storage/charmkv"
	"github.com/harper/knowbase/internal/storage/sqlite"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Println("Warning: OPENAI_API_KEY not set - embedding calls will fail")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
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
		log.Fatalf("Failed to initialize embedding client: %v", err)
	}

	var (
		store      kb.VectorStore
		closeStore func() error
	)
	switch cfg.StorageBackend {
	case config.BackendCharm:
		client, err := charmkv.NewClient(&charmkv.Config{
			Host:     cfg.CharmHost,
			DBName:   cfg.CharmDBName,
			AutoSync: cfg.AutoSync,
		})
		if err != nil {
			log.Fatalf("Failed to initialize charm storage: %v", err)
		}
		store = charmkv.NewStore(client, cfg.VectorDimension)
		closeStore = client.Close
	default:
		path := cfg.DBPath
		if path == "" {
			path = sqlite.DefaultDBPath()
		}
		db, err := sqlite.Open(path)
		if err != nil {
			log.Fatalf("Failed to initialize sqlite storage: %v", err)
		}
		store = sqlite.NewStore(db, cfg.VectorDimension)
		closeStore = db.Close
	}
	defer func() { _ = closeStore() }()

	// Create MCP server
	server := mcpserver.NewMCPServer(
		"Knowledge Base",
		"0.1.0",
	)

	kbmcp.RegisterTools(server, kb.NewTool(embedder, store))

	// Start server with stdio transport
	log.Println("Knowledge base MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
