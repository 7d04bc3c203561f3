package biz

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/docvault/internal/docvault/store"
	"github.com/kart-io/docvault/pkg/errors"
)

const testCollection = "documents"

// seedChunks writes records with axis-aligned embeddings so cosine
// ranking in the memory store is predictable.
func seedChunks(t *testing.T, s store.VectorStore, ownerID string, vectors map[string][]float32) {
	t.Helper()

	ctx := context.Background()
	require.NoError(t, s.EnsureCollection(ctx, &store.CollectionConfig{
		Name:      testCollection,
		Dimension: 3,
	}))

	var records []*store.ChunkRecord
	i := 0
	for chunkID, vec := range vectors {
		records = append(records, &store.ChunkRecord{
			ChunkID:    chunkID,
			DocumentID: "doc-" + chunkID,
			OwnerID:    ownerID,
			Filename:   chunkID + ".txt",
			Text:       "text of " + chunkID,
			Embedding:  vec,
			ChunkIndex: int64(i),
		})
		i++
	}
	require.NoError(t, s.Upsert(ctx, testCollection, records))
}

func newTestRetriever(s store.VectorStore, provider *fakeEmbeddingProvider) *Retriever {
	return NewRetriever(s, NewEmbedder(provider), &RetrieverConfig{
		Collection:  testCollection,
		SearchLimit: 10,
	})
}

func TestSearchRanksByScore(t *testing.T) {
	memStore := store.NewMemoryStore()
	seedChunks(t, memStore, "owner-1", map[string][]float32{
		"close":   {1, 0.1, 0},
		"closer":  {1, 0, 0},
		"distant": {0, 0, 1},
	})

	provider := newFakeEmbeddingProvider()
	provider.embedFn = func(string) []float32 { return []float32{1, 0, 0} }
	r := newTestRetriever(memStore, provider)

	hits, err := r.Search(context.Background(), "owner-1", "query", 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "closer", hits[0].ChunkID)
	assert.Equal(t, "close", hits[1].ChunkID)
	assert.GreaterOrEqual(t, hits[0].Score, hits[1].Score)
}

func TestSearchScopedToOwner(t *testing.T) {
	memStore := store.NewMemoryStore()
	seedChunks(t, memStore, "owner-1", map[string][]float32{"mine": {1, 0, 0}})
	seedChunks(t, memStore, "owner-2", map[string][]float32{"theirs": {1, 0, 0}})

	provider := newFakeEmbeddingProvider()
	provider.embedFn = func(string) []float32 { return []float32{1, 0, 0} }
	r := newTestRetriever(memStore, provider)

	hits, err := r.Search(context.Background(), "owner-1", "query", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "mine", hits[0].ChunkID)
}

func TestSearchLimitClamped(t *testing.T) {
	memStore := store.NewMemoryStore()
	vectors := make(map[string][]float32)
	for i := 0; i < 20; i++ {
		vectors[fmt.Sprintf("c%02d", i)] = []float32{1, float32(i) / 100, 0}
	}
	seedChunks(t, memStore, "owner-1", vectors)

	provider := newFakeEmbeddingProvider()
	provider.embedFn = func(string) []float32 { return []float32{1, 0, 0} }
	r := newTestRetriever(memStore, provider)

	// Zero and oversized limits fall back to the configured cap.
	hits, err := r.Search(context.Background(), "owner-1", "query", 0)
	require.NoError(t, err)
	assert.Len(t, hits, 10)

	hits, err = r.Search(context.Background(), "owner-1", "query", 500)
	require.NoError(t, err)
	assert.Len(t, hits, 10)
}

func TestSearchEmbeddingFailure(t *testing.T) {
	memStore := store.NewMemoryStore()
	provider := newFakeEmbeddingProvider()
	provider.err = fmt.Errorf("provider down")
	r := newTestRetriever(memStore, provider)

	hits, err := r.Search(context.Background(), "owner-1", "query", 5)
	require.Error(t, err)
	assert.Nil(t, hits)
	assert.Equal(t, errors.ErrEmbedding.Code, errors.GetCode(err))
}

func TestSearchStoreFailure(t *testing.T) {
	// The collection was never created, so the store errors.
	memStore := store.NewMemoryStore()
	provider := newFakeEmbeddingProvider()
	r := newTestRetriever(memStore, provider)

	hits, err := r.Search(context.Background(), "owner-1", "query", 5)
	require.Error(t, err)
	assert.Nil(t, hits)
	assert.Equal(t, errors.ErrStorage.Code, errors.GetCode(err))
}

func TestRetrieveContextDegradesToEmpty(t *testing.T) {
	memStore := store.NewMemoryStore()
	provider := newFakeEmbeddingProvider()
	provider.err = fmt.Errorf("provider down")
	r := newTestRetriever(memStore, provider)

	hits := r.RetrieveContext(context.Background(), "owner-1", "query", 5)
	assert.Empty(t, hits)
}

func TestRetrieveContextReturnsHits(t *testing.T) {
	memStore := store.NewMemoryStore()
	seedChunks(t, memStore, "owner-1", map[string][]float32{"hit": {1, 0, 0}})

	provider := newFakeEmbeddingProvider()
	provider.embedFn = func(string) []float32 { return []float32{1, 0, 0} }
	r := newTestRetriever(memStore, provider)

	hits := r.RetrieveContext(context.Background(), "owner-1", "query", 5)
	require.Len(t, hits, 1)
	assert.Equal(t, "hit", hits[0].ChunkID)
}
