// ABOUTME: Cloud-synced vector store backend over Charm KV
// ABOUTME: Brute-force cosine ranking with insertion-sequence tie-break
package charmkv

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/harper/knowbase/internal/kb"
	"github.com/harper/knowbase/internal/models"
)

// chunkRecord is the stored representation of a chunk in Charm KV. Seq
// captures insertion order for deterministic tie-breaking.
type chunkRecord struct {
	ID         string                 `json:"id"`
	Seq        int64                  `json:"seq"`
	Content    string                 `json:"content"`
	Source     string                 `json:"source"`
	SourceType string                 `json:"source_type"`
	Vector     []float64              `json:"vector"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// Store implements the vector store contract over a Charm KV client. Like
// the SQLite backend, a dimension of 0 disables dimension validation.
type Store struct {
	client    *Client
	dimension int
}

// NewStore creates a chunk store enforcing the given embedding dimension.
func NewStore(client *Client, dimension int) *Store {
	return &Store{client: client, dimension: dimension}
}

// InsertVector persists a new chunk record and returns its assigned id.
func (s *Store) InsertVector(ctx context.Context, content string, embedding []float64, source, sourceType string, metadata map[string]interface{}) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", kb.ErrStorageWrite, err)
	}
	if s.dimension > 0 && len(embedding) != s.dimension {
		return "", fmt.Errorf("%w: invalid embedding dimension: expected %d, got %d", kb.ErrStorageWrite, s.dimension, len(embedding))
	}
	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	seq, err := s.client.NextSeq()
	if err != nil {
		return "", fmt.Errorf("%w: %v", kb.ErrStorageWrite, err)
	}

	rec := chunkRecord{
		ID:         "chunk_" + uuid.New().String(),
		Seq:        seq,
		Content:    content,
		Source:     source,
		SourceType: sourceType,
		Vector:     embedding,
		Metadata:   metadata,
		CreatedAt:  time.Now(),
	}

	if err := s.client.SetJSON(ChunkKey(rec.ID), rec); err != nil {
		return "", fmt.Errorf("%w: %v", kb.ErrStorageWrite, err)
	}

	return rec.ID, nil
}

// SearchVectors scans all stored chunks, ranks them by cosine similarity
// descending with insertion-sequence tie-break, and returns up to limit
// matches. Filters support equality on "source".
func (s *Store) SearchVectors(ctx context.Context, embedding []float64, limit int, filters map[string]string) ([]models.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", kb.ErrStorageRead, err)
	}
	if s.dimension > 0 && len(embedding) != s.dimension {
		return nil, fmt.Errorf("%w: invalid query embedding dimension: expected %d, got %d", kb.ErrStorageRead, s.dimension, len(embedding))
	}

	keys, err := s.client.ListKeys(ChunkPrefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kb.ErrStorageRead, err)
	}

	sourceFilter, filterBySource := filters["source"]

	var records []chunkRecord
	for _, key := range keys {
		var rec chunkRecord
		if err := s.client.GetJSON(key, &rec); err != nil {
			return nil, fmt.Errorf("%w: failed to load %s: %v", kb.ErrStorageRead, key, err)
		}
		if filterBySource && rec.Source != sourceFilter {
			continue
		}
		records = append(records, rec)
	}

	// Seq order first so the stable similarity sort breaks ties by insertion
	sort.Slice(records, func(i, j int) bool {
		return records[i].Seq < records[j].Seq
	})

	matches := make([]models.Match, 0, len(records))
	for _, rec := range records {
		matches = append(matches, models.Match{
			ID:         rec.ID,
			Content:    rec.Content,
			Source:     rec.Source,
			SourceType: rec.SourceType,
			Similarity: cosineSimilarity(embedding, rec.Vector),
			Metadata:   rec.Metadata,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	if len(matches) == 0 {
		return []models.Match{}, nil
	}

	return matches, nil
}

// cosineSimilarity calculates cosine similarity between two vectors
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
