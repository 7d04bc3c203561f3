package biz

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/docvault/internal/docvault/store"
	"github.com/kart-io/docvault/pkg/errors"
)

func newTestService(t *testing.T, embedProvider *fakeEmbeddingProvider, chatProvider *fakeChatProvider) *Service {
	t.Helper()

	memStore := store.NewMemoryStore()
	require.NoError(t, memStore.EnsureCollection(context.Background(), &store.CollectionConfig{
		Name:      testCollection,
		Dimension: 4,
	}))

	embedder := NewEmbedder(embedProvider)
	retriever := NewRetriever(memStore, embedder, &RetrieverConfig{
		Collection:  testCollection,
		SearchLimit: 10,
	})

	return NewService(
		memStore,
		NewBuilder(NewSegmenter(10, 2), embedder, &BuilderConfig{
			WindowSize:     10,
			Overlap:        2,
			EmbeddingModel: "nomic-embed-text",
		}),
		retriever,
		NewDocuments(memStore, &DocumentsConfig{Collection: testCollection, ScanLimit: 1000}),
		NewChat(retriever, chatProvider, &ChatConfig{ContextLimit: 5}),
		NewAnswerCache(nil, nil),
		&ServiceConfig{Collection: testCollection, RecentLimit: 5},
		embedProvider.Name(),
	)
}

func TestServiceIngestAndSearch(t *testing.T) {
	embedProvider := newFakeEmbeddingProvider()
	svc := newTestService(t, embedProvider, &fakeChatProvider{answer: "ok"})
	ctx := context.Background()

	result, err := svc.Ingest(ctx, "owner-1", "notes.txt", []byte("alpha beta gamma delta"))
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", result.Filename)
	assert.Equal(t, 1, result.ChunksCount)
	assert.Equal(t, 4, result.TotalWords)
	assert.NotEmpty(t, result.DocumentID)

	hits, err := svc.Search(ctx, "owner-1", "alpha", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, result.DocumentID, hits[0].DocumentID)
	assert.Equal(t, "alpha beta gamma delta", hits[0].Text)

	// Other owners see nothing.
	hits, err = svc.Search(ctx, "owner-2", "alpha", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestServiceIngestEmptyFile(t *testing.T) {
	svc := newTestService(t, newFakeEmbeddingProvider(), &fakeChatProvider{})

	_, err := svc.Ingest(context.Background(), "owner-1", "empty.txt", []byte("   "))
	require.Error(t, err)
	assert.Equal(t, errors.ErrEmptyDocument.Code, errors.GetCode(err))
}

func TestServiceIngestUnsupportedType(t *testing.T) {
	svc := newTestService(t, newFakeEmbeddingProvider(), &fakeChatProvider{})

	_, err := svc.Ingest(context.Background(), "owner-1", "payload.bin", []byte("data"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrUnsupportedFileType.Code, errors.GetCode(err))
}

func TestServiceListAndDelete(t *testing.T) {
	svc := newTestService(t, newFakeEmbeddingProvider(), &fakeChatProvider{})
	ctx := context.Background()

	first, err := svc.Ingest(ctx, "owner-1", "a.txt", []byte("one two three"))
	require.NoError(t, err)
	_, err = svc.Ingest(ctx, "owner-1", "b.txt", []byte("four five"))
	require.NoError(t, err)

	docs, err := svc.ListDocuments(ctx, "owner-1", 50)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	deleted, err := svc.DeleteDocument(ctx, "owner-1", first.DocumentID)
	require.NoError(t, err)
	assert.True(t, deleted)

	docs, err = svc.ListDocuments(ctx, "owner-1", 50)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "b.txt", docs[0].Filename)

	deleted, err = svc.DeleteDocument(ctx, "owner-1", first.DocumentID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestServiceStats(t *testing.T) {
	svc := newTestService(t, newFakeEmbeddingProvider(), &fakeChatProvider{})
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "owner-1", "a.txt", []byte("one two three"))
	require.NoError(t, err)
	_, err = svc.Ingest(ctx, "owner-1", "b.txt", []byte("four five"))
	require.NoError(t, err)

	stats, err := svc.GetStats(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalDocuments)
	assert.Equal(t, int64(2), stats.TotalChunks)
	assert.Equal(t, int64(5), stats.TotalWords)
	assert.Len(t, stats.RecentDocuments, 2)
	assert.Equal(t, "fake-embed", stats.EmbedProvider)
	assert.Equal(t, "fake-chat", stats.ChatProvider)
	assert.NotNil(t, stats.Metrics)
}

func TestServiceStatsRecentLimit(t *testing.T) {
	svc := newTestService(t, newFakeEmbeddingProvider(), &fakeChatProvider{})
	ctx := context.Background()

	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt", "f.txt", "g.txt"} {
		_, err := svc.Ingest(ctx, "owner-1", name, []byte("some words in "+name))
		require.NoError(t, err)
	}

	stats, err := svc.GetStats(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 7, stats.TotalDocuments)
	assert.Len(t, stats.RecentDocuments, 5)

	// Newest first.
	for i := 1; i < len(stats.RecentDocuments); i++ {
		assert.GreaterOrEqual(t,
			stats.RecentDocuments[i-1].CreatedAt,
			stats.RecentDocuments[i].CreatedAt,
		)
	}
}

func TestServiceChatAnswerUsesContext(t *testing.T) {
	embedProvider := newFakeEmbeddingProvider()
	chatProvider := &fakeChatProvider{answer: "grounded"}
	svc := newTestService(t, embedProvider, chatProvider)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "owner-1", "facts.txt", []byte("the sky is blue"))
	require.NoError(t, err)

	hits := svc.ChatContext(ctx, "owner-1", "what color is the sky?", 0)
	require.Len(t, hits, 1)

	answer, cached, err := svc.ChatAnswer(ctx, "owner-1", "what color is the sky?", hits)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "grounded", answer)

	require.Len(t, chatProvider.messages, 2)
	assert.Contains(t, chatProvider.messages[0].Content, "the sky is blue")
}

func TestServiceChatAnswerStreamCollectsFull(t *testing.T) {
	chatProvider := &fakeChatProvider{deltas: []string{"a", "b", "c"}}
	svc := newTestService(t, newFakeEmbeddingProvider(), chatProvider)

	var got strings.Builder
	err := svc.ChatAnswerStream(context.Background(), "owner-1", "hi", nil, func(delta string) error {
		got.WriteString(delta)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "abc", got.String())
}
