// ABOUTME: Unit tests for chunk persistence and similarity search
// ABOUTME: Runs against in-memory SQLite with small test vectors
package sqlite

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/harper/knowbase/internal/kb"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db, 3)
}

func TestStore_InsertAndSearch(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id1, err := store.InsertVector(ctx, "first chunk", []float64{1.0, 0.0, 0.0}, "a.txt", "text", nil)
	if err != nil {
		t.Fatalf("InsertVector failed: %v", err)
	}
	id2, err := store.InsertVector(ctx, "second chunk", []float64{0.0, 1.0, 0.0}, "b.txt", "text",
		map[string]interface{}{"page": "2"})
	if err != nil {
		t.Fatalf("InsertVector failed: %v", err)
	}
	if id1 == id2 {
		t.Fatalf("duplicate ids assigned: %s", id1)
	}
	if !strings.HasPrefix(id1, "chunk_") {
		t.Errorf("id = %q, want chunk_ prefix", id1)
	}

	matches, err := store.SearchVectors(ctx, []float64{0.95, 0.05, 0.0}, 5, nil)
	if err != nil {
		t.Fatalf("SearchVectors failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].Content != "first chunk" {
		t.Errorf("top match = %q, want %q", matches[0].Content, "first chunk")
	}
	if matches[0].Similarity < matches[1].Similarity {
		t.Error("matches not sorted by similarity descending")
	}
	if matches[1].Metadata["page"] != "2" {
		t.Errorf("metadata = %v, want page=2", matches[1].Metadata)
	}
}

func TestStore_SourceFilter(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	vec := []float64{1.0, 0.0, 0.0}
	for _, src := range []string{"faq.txt", "faq.txt", "handbook.md"} {
		if _, err := store.InsertVector(ctx, "content from "+src, vec, src, "text", nil); err != nil {
			t.Fatalf("InsertVector failed: %v", err)
		}
	}

	matches, err := store.SearchVectors(ctx, vec, 10, map[string]string{"source": "faq.txt"})
	if err != nil {
		t.Fatalf("SearchVectors failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	for _, m := range matches {
		if m.Source != "faq.txt" {
			t.Errorf("match source = %q, want faq.txt", m.Source)
		}
	}

	// Filter matching nothing yields empty list, not an error
	matches, err = store.SearchVectors(ctx, vec, 10, map[string]string{"source": "missing.txt"})
	if err != nil {
		t.Fatalf("SearchVectors failed: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("got %d matches for unmatched filter, want 0", len(matches))
	}
}

func TestStore_EmptyStore(t *testing.T) {
	store := newTestStore(t)

	matches, err := store.SearchVectors(context.Background(), []float64{1, 0, 0}, 5, nil)
	if err != nil {
		t.Fatalf("expected no error for empty store, got %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("got %d matches from empty store, want 0", len(matches))
	}
}

func TestStore_LimitCapsResults(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for i := 0; i < 10; i++ {
		v := []float64{1.0, float64(i) / 10, 0.0}
		if _, err := store.InsertVector(ctx, "chunk", v, "a.txt", "text", nil); err != nil {
			t.Fatalf("InsertVector failed: %v", err)
		}
	}

	matches, err := store.SearchVectors(ctx, []float64{1, 0, 0}, 3, nil)
	if err != nil {
		t.Fatalf("SearchVectors failed: %v", err)
	}
	if len(matches) != 3 {
		t.Errorf("got %d matches, want 3", len(matches))
	}
}

func TestStore_TieBreakByInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	// Identical vectors produce identical similarities
	vec := []float64{0.5, 0.5, 0.0}
	first, err := store.InsertVector(ctx, "inserted first", vec, "a.txt", "text", nil)
	if err != nil {
		t.Fatalf("InsertVector failed: %v", err)
	}
	second, err := store.InsertVector(ctx, "inserted second", vec, "a.txt", "text", nil)
	if err != nil {
		t.Fatalf("InsertVector failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		matches, err := store.SearchVectors(ctx, vec, 5, nil)
		if err != nil {
			t.Fatalf("SearchVectors failed: %v", err)
		}
		if len(matches) != 2 {
			t.Fatalf("got %d matches, want 2", len(matches))
		}
		if matches[0].ID != first || matches[1].ID != second {
			t.Fatalf("tie-break order = [%s %s], want [%s %s]", matches[0].ID, matches[1].ID, first, second)
		}
	}
}

func TestStore_DimensionValidation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.InsertVector(ctx, "bad", []float64{1, 0}, "a.txt", "text", nil)
	if !errors.Is(err, kb.ErrStorageWrite) {
		t.Errorf("insert with wrong dimension: expected ErrStorageWrite, got %v", err)
	}

	_, err = store.SearchVectors(ctx, []float64{1, 0, 0, 0}, 5, nil)
	if !errors.Is(err, kb.ErrStorageRead) {
		t.Errorf("search with wrong dimension: expected ErrStorageRead, got %v", err)
	}
}

func TestStore_Get(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	vec := []float64{1, 0, 0}
	id, err := store.InsertVector(ctx, "stored content", vec, "a.txt", "text",
		map[string]interface{}{"team": "platform"})
	if err != nil {
		t.Fatalf("InsertVector failed: %v", err)
	}

	chunk, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if chunk == nil {
		t.Fatal("Get returned nil for existing chunk")
	}
	if chunk.Content != "stored content" || chunk.Source != "a.txt" {
		t.Errorf("chunk = %+v", chunk)
	}
	if chunk.Metadata["team"] != "platform" {
		t.Errorf("metadata = %v, want team=platform", chunk.Metadata)
	}
	if len(chunk.Embedding) != 3 {
		t.Errorf("embedding length = %d, want 3", len(chunk.Embedding))
	}

	missing, err := store.Get(ctx, "chunk_does-not-exist")
	if err != nil {
		t.Fatalf("Get failed for unknown id: %v", err)
	}
	if missing != nil {
		t.Errorf("Get(unknown) = %+v, want nil", missing)
	}
}

func TestStore_Count(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	vec := []float64{1, 0, 0}
	for _, src := range []string{"a.txt", "a.txt", "b.txt"} {
		if _, err := store.InsertVector(ctx, "content", vec, src, "text", nil); err != nil {
			t.Fatalf("InsertVector failed: %v", err)
		}
	}

	total, err := store.Count(ctx, "")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if total != 3 {
		t.Errorf("Count = %d, want 3", total)
	}

	bySource, err := store.Count(ctx, "a.txt")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if bySource != 2 {
		t.Errorf("Count(a.txt) = %d, want 2", bySource)
	}
}

func TestVectorBlobRoundTrip(t *testing.T) {
	vector := []float64{1.5, -2.25, 0.0, math.Pi}
	got := blobToVector(vectorToBlob(vector))

	if len(got) != len(vector) {
		t.Fatalf("round trip length = %d, want %d", len(got), len(vector))
	}
	for i := range vector {
		if got[i] != vector[i] {
			t.Errorf("round trip[%d] = %v, want %v", i, got[i], vector[i])
		}
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        []float64
		b        []float64
		expected float64
		delta    float64
	}{
		{
			name:     "identical vectors",
			a:        []float64{1.0, 0.0, 0.0},
			b:        []float64{1.0, 0.0, 0.0},
			expected: 1.0,
			delta:    0.001,
		},
		{
			name:     "orthogonal vectors",
			a:        []float64{1.0, 0.0, 0.0},
			b:        []float64{0.0, 1.0, 0.0},
			expected: 0.0,
			delta:    0.001,
		},
		{
			name:     "opposite vectors",
			a:        []float64{1.0, 0.0, 0.0},
			b:        []float64{-1.0, 0.0, 0.0},
			expected: -1.0,
			delta:    0.001,
		},
		{
			name:     "mismatched lengths",
			a:        []float64{1.0, 0.0},
			b:        []float64{1.0, 0.0, 0.0},
			expected: 0.0,
			delta:    0.001,
		},
		{
			name:     "zero vector",
			a:        []float64{0.0, 0.0, 0.0},
			b:        []float64{1.0, 0.0, 0.0},
			expected: 0.0,
			delta:    0.001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CosineSimilarity(tt.a, tt.b)
			if math.Abs(result-tt.expected) > tt.delta {
				t.Errorf("CosineSimilarity(%v, %v) = %.4f, expected %.4f",
					tt.a, tt.b, result, tt.expected)
			}
		})
	}
}
