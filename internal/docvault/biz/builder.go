package biz

import (
	"context"
	"time"

	"github.com/kart-io/logger"

	"github.com/kart-io/docvault/internal/docvault/store"
	"github.com/kart-io/docvault/internal/pkg/textutil"
	"github.com/kart-io/docvault/pkg/errors"
	"github.com/kart-io/docvault/pkg/id"
)

// BuilderConfig configures chunk record assembly.
type BuilderConfig struct {
	// WindowSize is the segmentation window in words.
	WindowSize int
	// Overlap is the word overlap between consecutive windows.
	Overlap int
	// EmbeddingModel is the model identifier stamped on every chunk.
	EmbeddingModel string
}

// Builder turns one document's text into embedded chunk records. It is
// pure computation; persisting the records is the store's job.
type Builder struct {
	segmenter *Segmenter
	embedder  *Embedder
	config    *BuilderConfig
}

// NewBuilder creates a builder.
func NewBuilder(segmenter *Segmenter, embedder *Embedder, config *BuilderConfig) *Builder {
	return &Builder{
		segmenter: segmenter,
		embedder:  embedder,
		config:    config,
	}
}

// Build segments the text, embeds every chunk in one batched call, and
// assembles the chunk records of a new document. All records share one
// fresh document id and the fingerprint of the full text; chunk indexes
// are dense from zero in segment order.
func (b *Builder) Build(ctx context.Context, ownerID, filename, text string) ([]*store.ChunkRecord, error) {
	segments := b.segmenter.Segment(text)
	if len(segments) == 0 {
		return nil, errors.ErrEmptyDocument.WithMessagef("no text content extracted from %q", filename)
	}

	embeddings, err := b.embedder.Embed(ctx, segments)
	if err != nil {
		return nil, err
	}

	documentID := id.NewUUID()
	fingerprint := textutil.Fingerprint(text)
	createdAt := time.Now().UTC().Format(time.RFC3339)

	chunks := make([]*store.ChunkRecord, len(segments))
	for i, segment := range segments {
		chunks[i] = &store.ChunkRecord{
			ChunkID:        id.NewUUID(),
			DocumentID:     documentID,
			OwnerID:        ownerID,
			Filename:       filename,
			Text:           segment,
			Embedding:      embeddings[i],
			ChunkIndex:     int64(i),
			WordCount:      int64(textutil.WordCount(segment)),
			Fingerprint:    fingerprint,
			EmbeddingModel: b.config.EmbeddingModel,
			CreatedAt:      createdAt,
		}
	}

	logger.Infow("built document chunks",
		"document_id", documentID,
		"filename", filename,
		"chunks", len(chunks),
	)

	return chunks, nil
}
