package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryStore implements VectorStore in process memory. It mirrors the
// Milvus semantics (upsert by key, owner filtering, cosine scores) and
// is used in tests and local development.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]*ChunkRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string][]*ChunkRecord),
	}
}

// EnsureCollection creates the collection if it does not exist.
func (s *MemoryStore) EnsureCollection(_ context.Context, config *CollectionConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[config.Name]; !ok {
		s.collections[config.Name] = nil
	}
	return nil
}

// Upsert writes chunk records keyed by ChunkID.
func (s *MemoryStore) Upsert(_ context.Context, collection string, chunks []*ChunkRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, ok := s.collections[collection]
	if !ok {
		return fmt.Errorf("collection %q does not exist", collection)
	}

	byID := make(map[string]int, len(records))
	for i, r := range records {
		byID[r.ChunkID] = i
	}

	for _, chunk := range chunks {
		cp := *chunk
		if i, ok := byID[chunk.ChunkID]; ok {
			records[i] = &cp
		} else {
			records = append(records, &cp)
			byID[chunk.ChunkID] = len(records) - 1
		}
	}

	s.collections[collection] = records
	return nil
}

// Search returns up to topK hits for the owner ordered by descending
// cosine similarity.
func (s *MemoryStore) Search(_ context.Context, collection string, embedding []float32, ownerID string, topK int) ([]*SearchHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("collection %q does not exist", collection)
	}

	var hits []*SearchHit
	for _, r := range records {
		if r.OwnerID != ownerID {
			continue
		}
		hits = append(hits, &SearchHit{
			ChunkID:    r.ChunkID,
			Score:      cosineSimilarity(embedding, r.Embedding),
			DocumentID: r.DocumentID,
			Filename:   r.Filename,
			Text:       r.Text,
			ChunkIndex: r.ChunkIndex,
			CreatedAt:  r.CreatedAt,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}

	return hits, nil
}

// Scroll reads up to limit records matching the filter in insertion order.
func (s *MemoryStore) Scroll(_ context.Context, collection string, filter Filter, limit int) ([]*ChunkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("collection %q does not exist", collection)
	}

	var out []*ChunkRecord
	for _, r := range records {
		if filter.OwnerID != "" && r.OwnerID != filter.OwnerID {
			continue
		}
		if filter.DocumentID != "" && r.DocumentID != filter.DocumentID {
			continue
		}
		cp := *r
		out = append(out, &cp)
		if len(out) >= limit {
			break
		}
	}

	return out, nil
}

// Delete removes records by chunk ID. Unknown IDs are ignored.
func (s *MemoryStore) Delete(_ context.Context, collection string, chunkIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, ok := s.collections[collection]
	if !ok {
		return fmt.Errorf("collection %q does not exist", collection)
	}

	drop := make(map[string]struct{}, len(chunkIDs))
	for _, id := range chunkIDs {
		drop[id] = struct{}{}
	}

	kept := records[:0]
	for _, r := range records {
		if _, ok := drop[r.ChunkID]; !ok {
			kept = append(kept, r)
		}
	}
	s.collections[collection] = kept
	return nil
}

// GetStats returns the number of records in the collection.
func (s *MemoryStore) GetStats(_ context.Context, collection string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.collections[collection]
	if !ok {
		return 0, fmt.Errorf("collection %q does not exist", collection)
	}
	return int64(len(records)), nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close(_ context.Context) error {
	return nil
}

// cosineSimilarity computes the cosine similarity of two vectors.
// Mismatched or zero-length vectors score 0.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// Ensure MemoryStore implements the VectorStore interface.
var _ VectorStore = (*MemoryStore)(nil)
