package biz

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/docvault/internal/docvault/store"
)

func newTestDocuments(t *testing.T) (*Documents, store.VectorStore) {
	t.Helper()

	memStore := store.NewMemoryStore()
	require.NoError(t, memStore.EnsureCollection(context.Background(), &store.CollectionConfig{
		Name:      testCollection,
		Dimension: 3,
	}))

	d := NewDocuments(memStore, &DocumentsConfig{
		Collection: testCollection,
		ScanLimit:  1000,
	})
	return d, memStore
}

func seedDocument(t *testing.T, s store.VectorStore, ownerID, documentID, filename, createdAt string, wordCounts []int64) {
	t.Helper()

	records := make([]*store.ChunkRecord, len(wordCounts))
	for i, wc := range wordCounts {
		records[i] = &store.ChunkRecord{
			ChunkID:    fmt.Sprintf("%s-chunk-%d", documentID, i),
			DocumentID: documentID,
			OwnerID:    ownerID,
			Filename:   filename,
			Text:       "chunk text",
			Embedding:  []float32{1, 0, 0},
			ChunkIndex: int64(i),
			WordCount:  wc,
			CreatedAt:  createdAt,
		}
	}
	require.NoError(t, s.Upsert(context.Background(), testCollection, records))
}

func TestListAggregatesByDocument(t *testing.T) {
	d, memStore := newTestDocuments(t)
	seedDocument(t, memStore, "owner-1", "doc-a", "a.txt", "2026-08-01T10:00:00Z", []int64{10, 20, 30})
	seedDocument(t, memStore, "owner-1", "doc-b", "b.pdf", "2026-08-02T10:00:00Z", []int64{5})

	docs, err := d.List(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, docs, 2)

	byID := make(map[string]*DocumentInfo)
	for _, doc := range docs {
		byID[doc.DocumentID] = doc
	}

	a := byID["doc-a"]
	require.NotNil(t, a)
	assert.Equal(t, "a.txt", a.Filename)
	assert.Equal(t, int64(3), a.ChunksCount)
	assert.Equal(t, int64(60), a.TotalWords)
	assert.Equal(t, "2026-08-01T10:00:00Z", a.CreatedAt)

	b := byID["doc-b"]
	require.NotNil(t, b)
	assert.Equal(t, int64(1), b.ChunksCount)
	assert.Equal(t, int64(5), b.TotalWords)
}

func TestListTenantIsolation(t *testing.T) {
	d, memStore := newTestDocuments(t)
	seedDocument(t, memStore, "owner-1", "doc-a", "a.txt", "2026-08-01T10:00:00Z", []int64{10})
	seedDocument(t, memStore, "owner-2", "doc-b", "b.txt", "2026-08-01T10:00:00Z", []int64{10})

	docs, err := d.List(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "doc-a", docs[0].DocumentID)

	docs, err = d.List(context.Background(), "owner-3")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDeleteDocument(t *testing.T) {
	d, memStore := newTestDocuments(t)
	seedDocument(t, memStore, "owner-1", "doc-a", "a.txt", "2026-08-01T10:00:00Z", []int64{10, 20})
	seedDocument(t, memStore, "owner-1", "doc-b", "b.txt", "2026-08-01T11:00:00Z", []int64{5})

	deleted, err := d.Delete(context.Background(), "owner-1", "doc-a")
	require.NoError(t, err)
	assert.True(t, deleted)

	docs, err := d.List(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "doc-b", docs[0].DocumentID)
}

func TestDeleteUnknownDocument(t *testing.T) {
	d, _ := newTestDocuments(t)

	deleted, err := d.Delete(context.Background(), "owner-1", "no-such-doc")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteOtherOwnersDocument(t *testing.T) {
	d, memStore := newTestDocuments(t)
	seedDocument(t, memStore, "owner-2", "doc-x", "x.txt", "2026-08-01T10:00:00Z", []int64{10})

	// owner-1 cannot see or delete owner-2's document.
	deleted, err := d.Delete(context.Background(), "owner-1", "doc-x")
	require.NoError(t, err)
	assert.False(t, deleted)

	docs, err := d.List(context.Background(), "owner-2")
	require.NoError(t, err)
	require.Len(t, docs, 1)
}

func TestDeleteIdempotent(t *testing.T) {
	d, memStore := newTestDocuments(t)
	seedDocument(t, memStore, "owner-1", "doc-a", "a.txt", "2026-08-01T10:00:00Z", []int64{10})

	deleted, err := d.Delete(context.Background(), "owner-1", "doc-a")
	require.NoError(t, err)
	assert.True(t, deleted)

	// Second delete finds nothing.
	deleted, err = d.Delete(context.Background(), "owner-1", "doc-a")
	require.NoError(t, err)
	assert.False(t, deleted)
}
