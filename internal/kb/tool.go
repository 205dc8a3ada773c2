// ABOUTME: Knowledge base search tool orchestrating embedding and vector store
// ABOUTME: Stateless per call; validates, embeds, searches, shapes results
package kb

import (
	"context"
	"fmt"
	"strings"

	"github.com/harper/knowbase/internal/models"
)

// EmbeddingGenerator converts text into a fixed-dimension vector. The same
// generator instance serves both the ingestion and query paths so all vectors
// share one dimensionality.
type EmbeddingGenerator interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
}

// VectorStore persists chunk records and performs similarity search with
// optional equality filtering. SearchVectors returns matches ordered by
// similarity descending, ties broken by insertion order.
type VectorStore interface {
	InsertVector(ctx context.Context, content string, embedding []float64, source, sourceType string, metadata map[string]interface{}) (string, error)
	SearchVectors(ctx context.Context, embedding []float64, limit int, filters map[string]string) ([]models.Match, error)
}

// Tool orchestrates the ingestion and query paths over a shared store. It
// holds no mutable state, so concurrent calls need no locking.
type Tool struct {
	embedder EmbeddingGenerator
	store    VectorStore
}

// NewTool creates a search tool from its two collaborators.
func NewTool(embedder EmbeddingGenerator, store VectorStore) *Tool {
	return &Tool{
		embedder: embedder,
		store:    store,
	}
}

// Search embeds the query and returns up to MaxResults chunks ranked by the
// store, most similar first. An empty knowledge base or an unmatched filter
// yields an empty list, never an error. No downstream call is made when the
// request fails validation.
func (t *Tool) Search(ctx context.Context, req models.SearchRequest) ([]models.SearchResult, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: query must not be empty", ErrInvalidSearchParams)
	}
	if req.MaxResults < 1 {
		return nil, fmt.Errorf("%w: max_results must be >= 1, got %d", ErrInvalidSearchParams, req.MaxResults)
	}

	queryEmbedding, err := t.embedder.GenerateEmbedding(ctx, req.Query)
	if err != nil {
		return nil, err
	}

	var filters map[string]string
	if req.SourceFilter != "" {
		filters = map[string]string{"source": req.SourceFilter}
	}

	matches, err := t.store.SearchVectors(ctx, queryEmbedding, req.MaxResults, filters)
	if err != nil {
		return nil, err
	}

	// Store order is already similarity-descending; ranking authority
	// belongs to the store, so no re-ranking happens here.
	results := make([]models.SearchResult, len(matches))
	for i, m := range matches {
		results[i] = models.SearchResult{
			Content:    m.Content,
			Source:     m.Source,
			SourceType: m.SourceType,
			Similarity: m.Similarity,
			Metadata:   m.Metadata,
		}
	}

	return results, nil
}

// AddToKnowledgeBase embeds content and persists it as a new chunk, returning
// the store-assigned id. A nil metadata map is stored as empty.
func (t *Tool) AddToKnowledgeBase(ctx context.Context, content, source, sourceType string, metadata map[string]interface{}) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: content must not be empty", ErrEmptyInput)
	}

	embedding, err := t.embedder.GenerateEmbedding(ctx, content)
	if err != nil {
		return "", err
	}

	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	id, err := t.store.InsertVector(ctx, content, embedding, source, sourceType, metadata)
	if err != nil {
		return "", err
	}

	return id, nil
}
