// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to search and grow the knowledge base via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	kbmcp "github.com/harper/knowbase/internal/mcp"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the knowledge base as an MCP (Model Context Protocol) server,
exposing search_knowledge_base and add_to_knowledge_base tools over
stdio.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP client)
  kb mcp

  # Configure in an MCP client config:
  # {
  #   "mcpServers": {
  #     "knowbase": {
  #       "command": "kb",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && verbose {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Println("Warning: OPENAI_API_KEY not set - embedding calls will fail")
	}

	tool, closeStore, err := newSearchTool()
	if err != nil {
		return err
	}

	// Create MCP server
	server := mcpserver.NewMCPServer(
		"Knowledge Base",
		"0.1.0",
	)

	kbmcp.RegisterTools(server, tool)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("Knowledge base MCP server starting on stdio...")
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, gracefully shutting down...")
		}

		if err := closeStore(); err != nil {
			log.Printf("Warning: Error closing storage: %v", err)
		}

		if !quiet {
			log.Println("Shutdown complete")
		}

	case err := <-serverErr:
		_ = closeStore()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
