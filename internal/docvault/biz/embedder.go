package biz

import (
	"context"

	"github.com/kart-io/logger"

	"github.com/kart-io/docvault/internal/pkg/textutil"
	"github.com/kart-io/docvault/pkg/errors"
	"github.com/kart-io/docvault/pkg/llm"
)

const (
	// embedBatchSize is the maximum number of inputs per provider call.
	embedBatchSize = 100
	// embedMaxChars is the per-input character cap before embedding.
	embedMaxChars = 32000
	// emptyTextPlaceholder replaces inputs that clean down to nothing,
	// so batch positions stay aligned with the caller's texts.
	emptyTextPlaceholder = "empty text"
)

// Embedder generates embeddings in provider-sized batches.
type Embedder struct {
	provider llm.EmbeddingProvider
}

// NewEmbedder creates an embedder over the given provider.
func NewEmbedder(provider llm.EmbeddingProvider) *Embedder {
	return &Embedder{provider: provider}
}

// Embed returns one embedding per input text, in input order. Inputs are
// cleaned and truncated before the provider call; any provider failure
// or response length mismatch fails the whole operation with no partial
// results.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	cleaned := make([]string, len(texts))
	for i, text := range texts {
		cleaned[i] = cleanEmbeddingInput(text)
	}

	embeddings := make([][]float32, 0, len(cleaned))
	for start := 0; start < len(cleaned); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(cleaned) {
			end = len(cleaned)
		}
		batch := cleaned[start:end]

		result, err := e.provider.Embed(ctx, batch)
		if err != nil {
			logger.Warnw("embedding batch failed",
				"provider", e.provider.Name(),
				"batch_start", start,
				"batch_size", len(batch),
				"error", err.Error(),
			)
			return nil, errors.ErrEmbedding.WithCause(err)
		}
		if len(result) != len(batch) {
			return nil, errors.ErrEmbedding.WithMessagef(
				"embedding count mismatch: sent %d inputs, got %d vectors", len(batch), len(result))
		}

		embeddings = append(embeddings, result...)
	}

	return embeddings, nil
}

// EmbedSingle embeds one text through the same cleaning path.
func (e *Embedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// cleanEmbeddingInput collapses whitespace, substitutes the placeholder
// for empty input, and cuts the text at the provider character cap.
func cleanEmbeddingInput(text string) string {
	cleaned := textutil.NormalizeWhitespace(text)
	if cleaned == "" {
		cleaned = emptyTextPlaceholder
	}
	return textutil.Truncate(cleaned, embedMaxChars)
}
