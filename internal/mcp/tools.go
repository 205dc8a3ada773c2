// ABOUTME: MCP tool definitions and registration for the knowledge base server
// ABOUTME: Defines JSON schemas for the search and ingestion tools
package mcp

import (
	"github.com/harper/knowbase/internal/kb"
	"github.com/harper/knowbase/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, tool *kb.Tool) *Handlers {
	handlers := NewHandlers(tool)

	// 1. search_knowledge_base - semantic search over stored chunks
	server.AddTool(mcp.Tool{
		Name:        "search_knowledge_base",
		Description: "Search the knowledge base with a natural-language query. Returns chunks ranked by semantic similarity, optionally restricted to one source.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural-language search query",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results to return (default: 5)",
					"default":     models.DefaultMaxResults,
				},
				"source_filter": map[string]interface{}{
					"type":        "string",
					"description": "Restrict results to chunks from this source",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchKnowledgeBase)

	// 2. add_to_knowledge_base - ingest one chunk of content
	server.AddTool(mcp.Tool{
		Name:        "add_to_knowledge_base",
		Description: "Add content to the knowledge base. The content is embedded and persisted with its source metadata; returns the assigned chunk id.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Text content to index",
				},
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Identifier of the originating document or resource",
				},
				"source_type": map[string]interface{}{
					"type":        "string",
					"description": "Category tag for the source (default: text)",
				},
				"metadata": map[string]interface{}{
					"type":        "object",
					"description": "Optional metadata key-value pairs stored with the chunk",
				},
			},
			Required: []string{"content", "source"},
		},
	}, handlers.AddToKnowledgeBase)

	return handlers
}
