// ABOUTME: Data model for knowledge base chunks and search requests/results
// ABOUTME: Shared between the search tool, storage backends, and boundaries
package models

import "time"

// DefaultMaxResults is the result cap applied when a caller does not specify
// one. Boundary layers (CLI flags, MCP argument defaults) consume this; the
// core itself rejects any MaxResults below 1.
const DefaultMaxResults = 5

// Chunk is one stored unit of knowledge base content with its embedding.
// The ID is assigned by the store at insertion and never changes.
type Chunk struct {
	ID         string                 `json:"id"`
	Content    string                 `json:"content"`
	Source     string                 `json:"source"`
	SourceType string                 `json:"source_type"`
	Embedding  []float64              `json:"embedding"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// SearchRequest describes one knowledge base query.
type SearchRequest struct {
	Query        string `json:"query"`
	MaxResults   int    `json:"max_results"`
	SourceFilter string `json:"source_filter,omitempty"`
}

// NewSearchRequest returns a request for query with the default result cap
// and no source filter.
func NewSearchRequest(query string) SearchRequest {
	return SearchRequest{
		Query:      query,
		MaxResults: DefaultMaxResults,
	}
}

// Match is a raw store hit: a chunk annotated with its similarity to the
// query embedding. Similarity semantics belong to the store; callers treat
// the score as an opaque, totally ordered relevance value.
type Match struct {
	ID         string                 `json:"id"`
	Content    string                 `json:"content"`
	Source     string                 `json:"source"`
	SourceType string                 `json:"source_type"`
	Similarity float64                `json:"similarity"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// SearchResult is one entry of the ordered list returned by the search tool.
type SearchResult struct {
	Content    string                 `json:"content"`
	Source     string                 `json:"source"`
	SourceType string                 `json:"source_type"`
	Similarity float64                `json:"similarity"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}
