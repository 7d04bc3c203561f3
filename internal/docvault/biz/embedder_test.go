package biz

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/docvault/pkg/errors"
)

func TestEmbedOrderPreserved(t *testing.T) {
	provider := newFakeEmbeddingProvider()
	provider.embedFn = func(text string) []float32 {
		return []float32{float32(len(text))}
	}
	e := NewEmbedder(provider)

	texts := []string{"a", "bb", "ccc"}
	embeddings, err := e.Embed(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, embeddings, 3)
	assert.Equal(t, []float32{1}, embeddings[0])
	assert.Equal(t, []float32{2}, embeddings[1])
	assert.Equal(t, []float32{3}, embeddings[2])
}

func TestEmbedBatching(t *testing.T) {
	provider := newFakeEmbeddingProvider()
	e := NewEmbedder(provider)

	texts := make([]string, 250)
	for i := range texts {
		texts[i] = fmt.Sprintf("text %d", i)
	}

	embeddings, err := e.Embed(context.Background(), texts)
	require.NoError(t, err)
	assert.Len(t, embeddings, 250)

	require.Len(t, provider.calls, 3)
	assert.Len(t, provider.calls[0], 100)
	assert.Len(t, provider.calls[1], 100)
	assert.Len(t, provider.calls[2], 50)
}

func TestEmbedCleansInput(t *testing.T) {
	provider := newFakeEmbeddingProvider()
	e := NewEmbedder(provider)

	_, err := e.Embed(context.Background(), []string{"  hello \n\t world  ", "", "   "})
	require.NoError(t, err)

	inputs := provider.inputs()
	require.Len(t, inputs, 3)
	assert.Equal(t, "hello world", inputs[0])
	assert.Equal(t, "empty text", inputs[1])
	assert.Equal(t, "empty text", inputs[2])
}

func TestEmbedTruncatesLongInput(t *testing.T) {
	provider := newFakeEmbeddingProvider()
	e := NewEmbedder(provider)

	long := strings.Repeat("x", 50000)
	_, err := e.Embed(context.Background(), []string{long})
	require.NoError(t, err)

	inputs := provider.inputs()
	require.Len(t, inputs, 1)
	assert.Len(t, inputs[0], 32000)
	assert.Equal(t, strings.Repeat("x", 32000), inputs[0])
}

func TestEmbedProviderFailure(t *testing.T) {
	provider := newFakeEmbeddingProvider()
	provider.err = fmt.Errorf("connection refused")
	e := NewEmbedder(provider)

	embeddings, err := e.Embed(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.Nil(t, embeddings)
	assert.Equal(t, errors.ErrEmbedding.Code, errors.GetCode(err))
}

func TestEmbedLengthMismatch(t *testing.T) {
	provider := newFakeEmbeddingProvider()
	provider.short = true
	e := NewEmbedder(provider)

	embeddings, err := e.Embed(context.Background(), []string{"a", "b", "c"})
	require.Error(t, err)
	assert.Nil(t, embeddings)
	assert.Equal(t, errors.ErrEmbedding.Code, errors.GetCode(err))
}

func TestEmbedNoInputs(t *testing.T) {
	provider := newFakeEmbeddingProvider()
	e := NewEmbedder(provider)

	embeddings, err := e.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, embeddings)
	assert.Empty(t, provider.calls)
}

func TestEmbedSingle(t *testing.T) {
	provider := newFakeEmbeddingProvider()
	provider.embedFn = func(text string) []float32 {
		return []float32{float32(len(text)), 1}
	}
	e := NewEmbedder(provider)

	vec, err := e.EmbedSingle(context.Background(), "  what is docvault  ")
	require.NoError(t, err)
	assert.Equal(t, []float32{float32(len("what is docvault")), 1}, vec)
}
