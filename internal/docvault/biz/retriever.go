package biz

import (
	"context"

	"github.com/kart-io/logger"

	"github.com/kart-io/docvault/internal/docvault/store"
	"github.com/kart-io/docvault/pkg/errors"
)

// RetrieverConfig configures semantic retrieval.
type RetrieverConfig struct {
	// Collection is the chunk collection name.
	Collection string
	// SearchLimit caps user-facing search results.
	SearchLimit int
}

// Retriever performs owner-scoped semantic search.
type Retriever struct {
	store    store.VectorStore
	embedder *Embedder
	config   *RetrieverConfig
}

// NewRetriever creates a retriever.
func NewRetriever(vectorStore store.VectorStore, embedder *Embedder, config *RetrieverConfig) *Retriever {
	return &Retriever{
		store:    vectorStore,
		embedder: embedder,
		config:   config,
	}
}

// Search embeds the query and returns the owner's best-matching chunks,
// highest score first. Failures surface as typed errors.
func (r *Retriever) Search(ctx context.Context, ownerID, query string, limit int) ([]*store.SearchHit, error) {
	if limit <= 0 || limit > r.config.SearchLimit {
		limit = r.config.SearchLimit
	}

	embedding, err := r.embedder.EmbedSingle(ctx, query)
	if err != nil {
		return nil, err
	}

	hits, err := r.store.Search(ctx, r.config.Collection, embedding, ownerID, limit)
	if err != nil {
		return nil, errors.ErrStorage.WithCause(err)
	}

	return hits, nil
}

// RetrieveContext fetches chat context chunks. Any failure degrades to
// an empty result set so the chat can still answer without context.
func (r *Retriever) RetrieveContext(ctx context.Context, ownerID, query string, limit int) []*store.SearchHit {
	hits, err := r.Search(ctx, ownerID, query, limit)
	if err != nil {
		logger.Warnw("context retrieval failed, continuing without context",
			"owner_id", ownerID,
			"error", err.Error(),
		)
		return nil
	}
	return hits
}
