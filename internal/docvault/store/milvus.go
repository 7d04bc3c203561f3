package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/milvus-io/milvus/client/v2/entity"

	"github.com/kart-io/docvault/pkg/component/milvus"
)

// pkField is the primary key field of chunk collections.
const pkField = "chunk_id"

// scrollPageSize is how many rows one backend query page reads.
const scrollPageSize = 1000

// chunkOutputFields are the non-vector fields read back from Milvus.
var chunkOutputFields = []string{
	"document_id", "owner_id", "filename", "text",
	"chunk_index", "word_count", "fingerprint", "embedding_model", "created_at",
}

// MilvusStore implements VectorStore on Milvus.
type MilvusStore struct {
	client *milvus.Client
}

// NewMilvusStore creates a Milvus-backed store.
func NewMilvusStore(client *milvus.Client) *MilvusStore {
	return &MilvusStore{client: client}
}

// EnsureCollection creates the chunk collection if it does not exist.
func (s *MilvusStore) EnsureCollection(ctx context.Context, config *CollectionConfig) error {
	schema := &milvus.CollectionSchema{
		Name:        config.Name,
		Description: config.Description,
		Dimension:   config.Dimension,
		PrimaryKey:  pkField,
		PKMaxLen:    64,
		MetaFields: []milvus.MetaField{
			{Name: "document_id", DataType: entity.FieldTypeVarChar, MaxLen: 64},
			{Name: "owner_id", DataType: entity.FieldTypeVarChar, MaxLen: 64},
			{Name: "filename", DataType: entity.FieldTypeVarChar, MaxLen: 255},
			{Name: "text", DataType: entity.FieldTypeVarChar, MaxLen: 65535},
			{Name: "chunk_index", DataType: entity.FieldTypeInt64},
			{Name: "word_count", DataType: entity.FieldTypeInt64},
			{Name: "fingerprint", DataType: entity.FieldTypeVarChar, MaxLen: 64},
			{Name: "embedding_model", DataType: entity.FieldTypeVarChar, MaxLen: 128},
			{Name: "created_at", DataType: entity.FieldTypeVarChar, MaxLen: 64},
		},
	}
	return s.client.CreateCollection(ctx, schema)
}

// Upsert writes chunk records keyed by chunk_id.
func (s *MilvusStore) Upsert(ctx context.Context, collection string, chunks []*ChunkRecord) error {
	if len(chunks) == 0 {
		return nil
	}

	ids := make([]string, len(chunks))
	embeddings := make([][]float32, len(chunks))
	metadata := map[string][]any{
		"document_id":     make([]any, len(chunks)),
		"owner_id":        make([]any, len(chunks)),
		"filename":        make([]any, len(chunks)),
		"text":            make([]any, len(chunks)),
		"chunk_index":     make([]any, len(chunks)),
		"word_count":      make([]any, len(chunks)),
		"fingerprint":     make([]any, len(chunks)),
		"embedding_model": make([]any, len(chunks)),
		"created_at":      make([]any, len(chunks)),
	}

	for i, chunk := range chunks {
		ids[i] = chunk.ChunkID
		embeddings[i] = chunk.Embedding
		metadata["document_id"][i] = chunk.DocumentID
		metadata["owner_id"][i] = chunk.OwnerID
		metadata["filename"][i] = chunk.Filename
		metadata["text"][i] = chunk.Text
		metadata["chunk_index"][i] = chunk.ChunkIndex
		metadata["word_count"][i] = chunk.WordCount
		metadata["fingerprint"][i] = chunk.Fingerprint
		metadata["embedding_model"][i] = chunk.EmbeddingModel
		metadata["created_at"][i] = chunk.CreatedAt
	}

	data := &milvus.UpsertData{
		PrimaryKey: pkField,
		IDs:        ids,
		Embeddings: embeddings,
		Metadata:   metadata,
	}

	if err := s.client.Upsert(ctx, collection, data); err != nil {
		return fmt.Errorf("failed to upsert into milvus: %w", err)
	}
	return nil
}

// Search performs a similarity search restricted to one owner.
func (s *MilvusStore) Search(ctx context.Context, collection string, embedding []float32, ownerID string, topK int) ([]*SearchHit, error) {
	expr := (Filter{OwnerID: ownerID}).expr()
	outputFields := []string{"document_id", "filename", "text", "chunk_index", "created_at"}

	results, err := s.client.Search(ctx, collection, embedding, topK, expr, outputFields)
	if err != nil {
		return nil, fmt.Errorf("failed to search milvus: %w", err)
	}

	hits := make([]*SearchHit, len(results))
	for i, r := range results {
		hits[i] = &SearchHit{
			ChunkID:    r.ID,
			Score:      r.Score,
			DocumentID: asString(r.Metadata["document_id"]),
			Filename:   asString(r.Metadata["filename"]),
			Text:       asString(r.Metadata["text"]),
			ChunkIndex: asInt64(r.Metadata["chunk_index"]),
			CreatedAt:  asString(r.Metadata["created_at"]),
		}
	}

	return hits, nil
}

// Scroll reads records matching the filter, paging through the backend
// until limit records are collected or the result set is exhausted.
func (s *MilvusStore) Scroll(ctx context.Context, collection string, filter Filter, limit int) ([]*ChunkRecord, error) {
	expr := filter.expr()
	if expr == "" {
		return nil, fmt.Errorf("scroll requires a non-empty filter")
	}

	outputFields := append([]string{pkField}, chunkOutputFields...)

	var records []*ChunkRecord
	offset := 0
	for len(records) < limit {
		page := scrollPageSize
		if remaining := limit - len(records); remaining < page {
			page = remaining
		}

		rows, err := s.client.Query(ctx, collection, expr, outputFields, page, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to scroll milvus: %w", err)
		}

		for _, row := range rows {
			records = append(records, &ChunkRecord{
				ChunkID:        asString(row[pkField]),
				DocumentID:     asString(row["document_id"]),
				OwnerID:        asString(row["owner_id"]),
				Filename:       asString(row["filename"]),
				Text:           asString(row["text"]),
				ChunkIndex:     asInt64(row["chunk_index"]),
				WordCount:      asInt64(row["word_count"]),
				Fingerprint:    asString(row["fingerprint"]),
				EmbeddingModel: asString(row["embedding_model"]),
				CreatedAt:      asString(row["created_at"]),
			})
		}

		if len(rows) < page {
			break
		}
		offset += len(rows)
	}

	return records, nil
}

// Delete removes records by chunk ID. Unknown IDs are ignored by Milvus.
func (s *MilvusStore) Delete(ctx context.Context, collection string, chunkIDs []string) error {
	if err := s.client.DeleteByIDs(ctx, collection, pkField, chunkIDs); err != nil {
		return fmt.Errorf("failed to delete from milvus: %w", err)
	}
	return nil
}

// GetStats returns the number of records in the collection.
func (s *MilvusStore) GetStats(ctx context.Context, collection string) (int64, error) {
	return s.client.GetCollectionStats(ctx, collection)
}

// Close closes the Milvus connection.
func (s *MilvusStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

// expr renders the filter as a Milvus boolean expression.
func (f Filter) expr() string {
	var parts []string
	if f.OwnerID != "" {
		parts = append(parts, fmt.Sprintf(`owner_id == "%s"`, escapeExpr(f.OwnerID)))
	}
	if f.DocumentID != "" {
		parts = append(parts, fmt.Sprintf(`document_id == "%s"`, escapeExpr(f.DocumentID)))
	}
	return strings.Join(parts, " && ")
}

// escapeExpr escapes a string literal for a Milvus filter expression.
func escapeExpr(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt64(v any) int64 {
	n, _ := v.(int64)
	return n
}

// Ensure MilvusStore implements the VectorStore interface.
var _ VectorStore = (*MilvusStore)(nil)
