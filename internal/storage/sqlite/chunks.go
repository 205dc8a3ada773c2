// ABOUTME: Chunk persistence and cosine similarity search over SQLite
// ABOUTME: Vectors stored as little-endian float64 BLOBs, ranked in Go
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/harper/knowbase/internal/kb"
	"github.com/harper/knowbase/internal/models"
)

// Store implements the vector store contract over a SQLite database.
// A dimension of 0 disables dimension validation (used by tests with small
// vectors); production configs fix it to the embedding model's output size.
type Store struct {
	db        *DB
	dimension int
}

// NewStore creates a chunk store enforcing the given embedding dimension.
func NewStore(db *DB, dimension int) *Store {
	return &Store{db: db, dimension: dimension}
}

// InsertVector persists a new chunk and returns its assigned id. Ids are
// never reused; the chunk is durable only once this returns without error.
func (s *Store) InsertVector(ctx context.Context, content string, embedding []float64, source, sourceType string, metadata map[string]interface{}) (string, error) {
	if s.dimension > 0 && len(embedding) != s.dimension {
		return "", fmt.Errorf("%w: invalid embedding dimension: expected %d, got %d", kb.ErrStorageWrite, s.dimension, len(embedding))
	}
	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal metadata: %v", kb.ErrStorageWrite, err)
	}

	id := "chunk_" + uuid.New().String()
	blob := vectorToBlob(embedding)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO chunks (id, content, source, source_type, embedding, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, content, source, sourceType, blob, string(metaJSON), time.Now())
	if err != nil {
		return "", fmt.Errorf("%w: failed to insert chunk: %v", kb.ErrStorageWrite, err)
	}

	return id, nil
}

// SearchVectors returns up to limit chunks most similar to the query
// embedding, ordered by cosine similarity descending. Ties keep insertion
// (rowid) order. Filters support equality on "source". An empty store or an
// unmatched filter yields an empty list.
func (s *Store) SearchVectors(ctx context.Context, embedding []float64, limit int, filters map[string]string) ([]models.Match, error) {
	if s.dimension > 0 && len(embedding) != s.dimension {
		return nil, fmt.Errorf("%w: invalid query embedding dimension: expected %d, got %d", kb.ErrStorageRead, s.dimension, len(embedding))
	}

	query := `
		SELECT id, content, source, source_type, embedding, metadata
		FROM chunks
	`
	var args []interface{}
	if source, ok := filters["source"]; ok {
		query += " WHERE source = ?"
		args = append(args, source)
	}
	// rowid order makes the similarity sort's tie-break deterministic
	query += " ORDER BY rowid ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query chunks: %v", kb.ErrStorageRead, err)
	}
	defer func() { _ = rows.Close() }()

	var matches []models.Match

	for rows.Next() {
		var (
			m        models.Match
			blob     []byte
			metaJSON string
		)

		if err := rows.Scan(&m.ID, &m.Content, &m.Source, &m.SourceType, &blob, &metaJSON); err != nil {
			return nil, fmt.Errorf("%w: failed to scan chunk: %v", kb.ErrStorageRead, err)
		}

		if err := json.Unmarshal([]byte(metaJSON), &m.Metadata); err != nil {
			return nil, fmt.Errorf("%w: failed to unmarshal metadata for chunk %s: %v", kb.ErrStorageRead, m.ID, err)
		}

		m.Similarity = CosineSimilarity(embedding, blobToVector(blob))
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate chunks: %v", kb.ErrStorageRead, err)
	}

	// Stable sort preserves rowid order between equal scores
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}

// Get retrieves a stored chunk by id. Returns nil without error when the id
// is unknown.
func (s *Store) Get(ctx context.Context, id string) (*models.Chunk, error) {
	var (
		chunk    models.Chunk
		blob     []byte
		metaJSON string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, content, source, source_type, embedding, metadata, created_at
		FROM chunks
		WHERE id = ?
	`, id).Scan(&chunk.ID, &chunk.Content, &chunk.Source, &chunk.SourceType, &blob, &metaJSON, &chunk.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get chunk %s: %v", kb.ErrStorageRead, id, err)
	}

	if err := json.Unmarshal([]byte(metaJSON), &chunk.Metadata); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal metadata for chunk %s: %v", kb.ErrStorageRead, id, err)
	}
	chunk.Embedding = blobToVector(blob)

	return &chunk, nil
}

// Count returns the number of stored chunks, optionally restricted to source.
func (s *Store) Count(ctx context.Context, source string) (int, error) {
	query := "SELECT COUNT(*) FROM chunks"
	var args []interface{}
	if source != "" {
		query += " WHERE source = ?"
		args = append(args, source)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: failed to count chunks: %v", kb.ErrStorageRead, err)
	}
	return n, nil
}

// vectorToBlob converts a float64 slice to binary blob
func vectorToBlob(vector []float64) []byte {
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// blobToVector converts a binary blob to float64 slice
func blobToVector(blob []byte) []float64 {
	count := len(blob) / 8
	vector := make([]float64, count)
	for i := 0; i < count; i++ {
		bits := binary.LittleEndian.Uint64(blob[i*8:])
		vector[i] = math.Float64frombits(bits)
	}
	return vector
}

// CosineSimilarity calculates cosine similarity between two vectors
func CosineSimilarity(a, b []float64) float64 {
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
