package biz

import (
	"context"

	"github.com/kart-io/logger"

	"github.com/kart-io/docvault/internal/docvault/store"
	"github.com/kart-io/docvault/pkg/errors"
)

// DocumentsConfig configures document aggregation and deletion.
type DocumentsConfig struct {
	// Collection is the chunk collection name.
	Collection string
	// ScanLimit caps how many chunk records one listing scan reads.
	ScanLimit int
}

// DocumentInfo is the per-document aggregate view derived from chunks.
type DocumentInfo struct {
	DocumentID  string `json:"document_id"`
	Filename    string `json:"filename"`
	ChunksCount int64  `json:"chunks_count"`
	TotalWords  int64  `json:"total_words"`
	CreatedAt   string `json:"created_at"`
}

// Documents aggregates and deletes documents through their chunks.
// There is no document table; documents exist only as groups of chunk
// records sharing a document id.
type Documents struct {
	store  store.VectorStore
	config *DocumentsConfig
}

// NewDocuments creates the document aggregation service.
func NewDocuments(vectorStore store.VectorStore, config *DocumentsConfig) *Documents {
	return &Documents{
		store:  vectorStore,
		config: config,
	}
}

// List scrolls the owner's chunks and folds them by document id. The
// first chunk seen for a document seeds filename and created_at; every
// chunk adds to the counts. Result order is unspecified. Documents with
// chunks beyond the scan cap may be missing or undercounted.
func (d *Documents) List(ctx context.Context, ownerID string) ([]*DocumentInfo, error) {
	records, err := d.store.Scroll(ctx, d.config.Collection, store.Filter{OwnerID: ownerID}, d.config.ScanLimit)
	if err != nil {
		return nil, errors.ErrStorage.WithCause(err)
	}

	byDoc := make(map[string]*DocumentInfo)
	var docs []*DocumentInfo
	for _, r := range records {
		info, ok := byDoc[r.DocumentID]
		if !ok {
			info = &DocumentInfo{
				DocumentID: r.DocumentID,
				Filename:   r.Filename,
				CreatedAt:  r.CreatedAt,
			}
			byDoc[r.DocumentID] = info
			docs = append(docs, info)
		}
		info.ChunksCount++
		info.TotalWords += r.WordCount
	}

	return docs, nil
}

// Delete removes every chunk of one of the owner's documents. It
// returns false when no chunks matched. The scroll and the delete are
// separate calls; chunks written in between may survive.
func (d *Documents) Delete(ctx context.Context, ownerID, documentID string) (bool, error) {
	filter := store.Filter{OwnerID: ownerID, DocumentID: documentID}
	records, err := d.store.Scroll(ctx, d.config.Collection, filter, d.config.ScanLimit)
	if err != nil {
		return false, errors.ErrStorage.WithCause(err)
	}
	if len(records) == 0 {
		return false, nil
	}

	chunkIDs := make([]string, len(records))
	for i, r := range records {
		chunkIDs[i] = r.ChunkID
	}

	if err := d.store.Delete(ctx, d.config.Collection, chunkIDs); err != nil {
		return false, errors.ErrStorage.WithCause(err)
	}

	logger.Infow("deleted document",
		"owner_id", ownerID,
		"document_id", documentID,
		"chunks", len(chunkIDs),
	)

	return true, nil
}
