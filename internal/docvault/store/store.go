package store

import (
	"context"
)

// ChunkRecord is the unit of persistence: one embedded chunk of one
// owner's document.
type ChunkRecord struct {
	// ChunkID is the record's unique key.
	ChunkID string
	// DocumentID groups all chunks of one ingestion.
	DocumentID string
	// OwnerID scopes the record to a tenant. Every read path must filter by it.
	OwnerID string
	// Filename is the original upload name.
	Filename string
	// Text is the chunk text.
	Text string
	// Embedding is the chunk's vector.
	Embedding []float32
	// ChunkIndex is the chunk's position within the document, 0-based and dense.
	ChunkIndex int64
	// WordCount is the number of words in Text.
	WordCount int64
	// Fingerprint is the MD5 hex digest of the full document text.
	Fingerprint string
	// EmbeddingModel is the model that produced the embedding.
	EmbeddingModel string
	// CreatedAt is the ingestion timestamp, UTC RFC 3339.
	CreatedAt string
}

// SearchHit is one similarity search result.
type SearchHit struct {
	ChunkID    string
	Score      float32
	DocumentID string
	Filename   string
	Text       string
	ChunkIndex int64
	CreatedAt  string
}

// Filter selects records by exact field match. Zero-valued fields are
// not part of the filter.
type Filter struct {
	OwnerID    string
	DocumentID string
}

// CollectionConfig describes a chunk collection.
type CollectionConfig struct {
	// Name is the collection name.
	Name string
	// Description is the collection description.
	Description string
	// Dimension is the embedding vector dimension.
	Dimension int
}

// VectorStore is the gateway to the vector index.
type VectorStore interface {
	// EnsureCollection creates the collection if it does not exist.
	// Calling it again with the same config is a no-op.
	EnsureCollection(ctx context.Context, config *CollectionConfig) error

	// Upsert writes chunk records keyed by ChunkID. On error nothing is
	// considered stored.
	Upsert(ctx context.Context, collection string, chunks []*ChunkRecord) error

	// Search returns up to topK hits for the owner, best score first.
	Search(ctx context.Context, collection string, embedding []float32, ownerID string, topK int) ([]*SearchHit, error)

	// Scroll reads up to limit records matching the filter. Pagination
	// against the backend is internal to the implementation.
	Scroll(ctx context.Context, collection string, filter Filter, limit int) ([]*ChunkRecord, error)

	// Delete removes records by chunk ID. Unknown IDs are ignored.
	Delete(ctx context.Context, collection string, chunkIDs []string) error

	// GetStats returns the number of records in the collection.
	GetStats(ctx context.Context, collection string) (int64, error)

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
