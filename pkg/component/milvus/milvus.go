// Package milvus wraps the Milvus SDK client for vector collections keyed
// by application-assigned string identifiers.
package milvus

import (
	"context"
	"fmt"
	"strconv"

	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"

	milvusopts "github.com/kart-io/docvault/pkg/options/milvus"
)

// Client wraps the Milvus SDK client.
type Client struct {
	client *milvusclient.Client
	opts   *milvusopts.Options
}

// New creates a new Milvus client.
func New(opts *milvusopts.Options) (*Client, error) {
	if opts == nil {
		return nil, fmt.Errorf("milvus options is nil")
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	c, err := milvusclient.New(ctx, &milvusclient.ClientConfig{
		Address:  opts.Address,
		Username: opts.Username,
		Password: opts.Password,
		DBName:   opts.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to milvus: %w", err)
	}

	return &Client{
		client: c,
		opts:   opts,
	}, nil
}

// Close closes the Milvus client connection.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Close(ctx)
}

// RawClient returns the underlying Milvus client.
func (c *Client) RawClient() *milvusclient.Client {
	return c.client
}

// CollectionSchema defines the schema for a vector collection.
// The primary key is a VARCHAR assigned by the application, which makes
// inserts upsert-able by key.
type CollectionSchema struct {
	Name        string
	Description string
	Dimension   int
	PrimaryKey  string
	PKMaxLen    int
	MetaFields  []MetaField
}

// MetaField defines a metadata field in the collection.
type MetaField struct {
	Name     string
	DataType entity.FieldType
	MaxLen   int // For VARCHAR type
}

// CreateCollection creates a collection with the given schema.
// It is idempotent: an existing collection is left untouched.
func (c *Client) CreateCollection(ctx context.Context, schema *CollectionSchema) error {
	exists, err := c.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(schema.Name))
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}
	if exists {
		return nil
	}

	pkMaxLen := schema.PKMaxLen
	if pkMaxLen <= 0 {
		pkMaxLen = 64
	}

	collSchema := entity.NewSchema().
		WithName(schema.Name).
		WithDescription(schema.Description)

	collSchema.WithField(
		entity.NewField().
			WithName(schema.PrimaryKey).
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(int64(pkMaxLen)).
			WithIsPrimaryKey(true),
	)

	collSchema.WithField(
		entity.NewField().
			WithName("embedding").
			WithDataType(entity.FieldTypeFloatVector).
			WithDim(int64(schema.Dimension)),
	)

	for _, f := range schema.MetaFields {
		field := entity.NewField().
			WithName(f.Name).
			WithDataType(f.DataType)
		if f.DataType == entity.FieldTypeVarChar && f.MaxLen > 0 {
			field.WithMaxLength(int64(f.MaxLen))
		}
		collSchema.WithField(field)
	}

	if err := c.client.CreateCollection(ctx, milvusclient.NewCreateCollectionOption(schema.Name, collSchema)); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	// Cosine similarity over an IVF_FLAT index
	idx := index.NewIvfFlatIndex(entity.COSINE, 128)
	createIdxTask, err := c.client.CreateIndex(ctx, milvusclient.NewCreateIndexOption(schema.Name, "embedding", idx))
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if err := createIdxTask.Await(ctx); err != nil {
		return fmt.Errorf("failed to wait for index creation: %w", err)
	}

	loadTask, err := c.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(schema.Name))
	if err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}
	if err := loadTask.Await(ctx); err != nil {
		return fmt.Errorf("failed to wait for collection loading: %w", err)
	}

	return nil
}

// UpsertData represents rows to be upserted into a collection.
// IDs, Embeddings, and every metadata column must have equal length.
type UpsertData struct {
	PrimaryKey string
	IDs        []string
	Embeddings [][]float32
	Metadata   map[string][]any
}

// Upsert writes rows keyed by their string primary key. Rows with an
// existing key are replaced.
func (c *Client) Upsert(ctx context.Context, collectionName string, data *UpsertData) error {
	if len(data.IDs) == 0 {
		return nil
	}

	columns := make([]column.Column, 0, len(data.Metadata)+2)
	columns = append(columns, column.NewColumnVarChar(data.PrimaryKey, data.IDs))
	columns = append(columns, column.NewColumnFloatVector("embedding", len(data.Embeddings[0]), data.Embeddings))

	for name, values := range data.Metadata {
		switch v := values[0].(type) {
		case string:
			strVals := make([]string, len(values))
			for i, val := range values {
				strVals[i] = val.(string)
			}
			columns = append(columns, column.NewColumnVarChar(name, strVals))
		case int64:
			intVals := make([]int64, len(values))
			for i, val := range values {
				intVals[i] = val.(int64)
			}
			columns = append(columns, column.NewColumnInt64(name, intVals))
		default:
			return fmt.Errorf("unsupported metadata type: %T for field %s", v, name)
		}
	}

	if _, err := c.client.Upsert(ctx, milvusclient.NewColumnBasedInsertOption(collectionName, columns...)); err != nil {
		return fmt.Errorf("failed to upsert data: %w", err)
	}

	// Flush so the rows are visible to searches right after ingestion
	flushTask, err := c.client.Flush(ctx, milvusclient.NewFlushOption(collectionName))
	if err != nil {
		return fmt.Errorf("failed to flush collection: %w", err)
	}
	if err := flushTask.Await(ctx); err != nil {
		return fmt.Errorf("failed to wait for flush: %w", err)
	}

	return nil
}

// SearchResult represents a single search result.
type SearchResult struct {
	ID       string
	Score    float32
	Metadata map[string]any
}

// Search performs a vector similarity search. An optional boolean filter
// expression restricts the candidate rows server-side.
func (c *Client) Search(ctx context.Context, collectionName string, vector []float32, topK int, filter string, outputFields []string) ([]SearchResult, error) {
	loadTask, err := c.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(collectionName))
	if err != nil {
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}
	if err := loadTask.Await(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for collection loading: %w", err)
	}

	searchVectors := []entity.Vector{entity.FloatVector(vector)}

	opt := milvusclient.NewSearchOption(collectionName, topK, searchVectors).
		WithANNSField("embedding").
		WithSearchParam("nprobe", "16").
		WithOutputFields(outputFields...)
	if filter != "" {
		opt = opt.WithFilter(filter)
	}

	results, err := c.client.Search(ctx, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	if len(results) == 0 {
		return []SearchResult{}, nil
	}

	searchResults := make([]SearchResult, 0, results[0].ResultCount)
	for i := 0; i < results[0].ResultCount; i++ {
		result := SearchResult{
			Score:    results[0].Scores[i],
			Metadata: make(map[string]any),
		}

		if idCol, ok := results[0].IDs.(*column.ColumnVarChar); ok {
			result.ID = idCol.Data()[i]
		}

		for _, field := range results[0].Fields {
			switch col := field.(type) {
			case *column.ColumnVarChar:
				result.Metadata[col.Name()] = col.Data()[i]
			case *column.ColumnInt64:
				result.Metadata[col.Name()] = col.Data()[i]
			}
		}

		searchResults = append(searchResults, result)
	}

	return searchResults, nil
}

// Query reads rows matching a boolean filter expression, one offset page
// at a time.
func (c *Client) Query(ctx context.Context, collectionName string, filter string, outputFields []string, limit, offset int) ([]map[string]any, error) {
	loadTask, err := c.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(collectionName))
	if err != nil {
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}
	if err := loadTask.Await(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for collection loading: %w", err)
	}

	rs, err := c.client.Query(ctx, milvusclient.NewQueryOption(collectionName).
		WithFilter(filter).
		WithOutputFields(outputFields...).
		WithLimit(limit).
		WithOffset(offset))
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	count := rs.ResultCount
	rows := make([]map[string]any, count)
	for i := 0; i < count; i++ {
		rows[i] = make(map[string]any)
	}

	for _, field := range rs.Fields {
		switch col := field.(type) {
		case *column.ColumnVarChar:
			for i, v := range col.Data() {
				rows[i][col.Name()] = v
			}
		case *column.ColumnInt64:
			for i, v := range col.Data() {
				rows[i][col.Name()] = v
			}
		}
	}

	return rows, nil
}

// DeleteByIDs deletes rows by their string primary keys.
// Keys with no matching row are ignored.
func (c *Client) DeleteByIDs(ctx context.Context, collectionName, pkName string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := c.client.Delete(ctx, milvusclient.NewDeleteOption(collectionName).WithStringIDs(pkName, ids)); err != nil {
		return fmt.Errorf("failed to delete by ids: %w", err)
	}
	return nil
}

// DropCollection drops a collection.
func (c *Client) DropCollection(ctx context.Context, collectionName string) error {
	if err := c.client.DropCollection(ctx, milvusclient.NewDropCollectionOption(collectionName)); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	return nil
}

// GetCollectionStats returns the number of entities in a collection.
func (c *Client) GetCollectionStats(ctx context.Context, collectionName string) (int64, error) {
	stats, err := c.client.GetCollectionStats(ctx, milvusclient.NewGetCollectionStatsOption(collectionName))
	if err != nil {
		return 0, fmt.Errorf("failed to get collection stats: %w", err)
	}

	if val, ok := stats["row_count"]; ok {
		return strconv.ParseInt(val, 10, 64)
	}
	return 0, nil
}
