// ABOUTME: MCP tool handler implementations for the knowledge base server
// ABOUTME: Maps tool calls onto the search tool and shapes JSON responses
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harper/knowbase/internal/kb"
	"github.com/harper/knowbase/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	tool *kb.Tool
}

// NewHandlers creates handlers around the given search tool
func NewHandlers(tool *kb.Tool) *Handlers {
	return &Handlers{tool: tool}
}

// SearchKnowledgeBase handles the search_knowledge_base tool
func (h *Handlers) SearchKnowledgeBase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	req := models.SearchRequest{
		Query:        query,
		MaxResults:   request.GetInt("max_results", models.DefaultMaxResults),
		SourceFilter: request.GetString("source_filter", ""),
	}

	results, err := h.tool.Search(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("knowledge base search failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"results": results,
		"count":   len(results),
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// AddToKnowledgeBase handles the add_to_knowledge_base tool
func (h *Handlers) AddToKnowledgeBase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content argument is required and must be a string"), nil
	}

	source, err := request.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError("source argument is required and must be a string"), nil
	}

	sourceType := request.GetString("source_type", "text")

	var metadata map[string]interface{}
	if raw, ok := request.GetArguments()["metadata"]; ok {
		metadata, ok = raw.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("metadata argument must be an object"), nil
		}
	}

	id, err := h.tool.AddToKnowledgeBase(ctx, content, source, sourceType, metadata)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add to knowledge base: %v", err)), nil
	}

	response := map[string]interface{}{
		"id":     id,
		"source": source,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}
