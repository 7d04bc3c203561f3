package biz

import (
	"context"
	"sort"
	"time"

	"github.com/kart-io/logger"

	"github.com/kart-io/docvault/internal/docvault/metrics"
	"github.com/kart-io/docvault/internal/docvault/store"
	"github.com/kart-io/docvault/internal/pkg/extract"
	"github.com/kart-io/docvault/pkg/errors"
)

// ServiceConfig wires the pipeline components together.
type ServiceConfig struct {
	BuilderConfig   *BuilderConfig
	RetrieverConfig *RetrieverConfig
	DocumentsConfig *DocumentsConfig
	ChatConfig      *ChatConfig
	CacheConfig     *AnswerCacheConfig
	// Collection is the chunk collection name.
	Collection string
	// RecentLimit caps the recent-documents list in stats.
	RecentLimit int
}

// IngestResult summarizes one successful upload.
type IngestResult struct {
	DocumentID  string `json:"document_id"`
	Filename    string `json:"filename"`
	ChunksCount int    `json:"chunks_count"`
	TotalWords  int    `json:"total_words"`
}

// Stats is the owner's knowledge-base summary.
type Stats struct {
	TotalDocuments  int             `json:"total_documents"`
	TotalChunks     int64           `json:"total_chunks"`
	TotalWords      int64           `json:"total_words"`
	RecentDocuments []*DocumentInfo `json:"recent_documents"`
	EmbedProvider   string          `json:"embed_provider"`
	ChatProvider    string          `json:"chat_provider"`
	Metrics         map[string]any  `json:"metrics"`
	Cache           map[string]any  `json:"cache,omitempty"`
}

// Service composes the pipeline components behind the HTTP handlers.
type Service struct {
	builder       *Builder
	retriever     *Retriever
	documents     *Documents
	chat          *Chat
	cache         *AnswerCache
	store         store.VectorStore
	metrics       *metrics.ServiceMetrics
	config        *ServiceConfig
	embedProvider string
}

// NewService assembles the document service from its components.
func NewService(
	vectorStore store.VectorStore,
	builder *Builder,
	retriever *Retriever,
	documents *Documents,
	chat *Chat,
	cache *AnswerCache,
	config *ServiceConfig,
	embedProviderName string,
) *Service {
	return &Service{
		builder:       builder,
		retriever:     retriever,
		documents:     documents,
		chat:          chat,
		cache:         cache,
		store:         vectorStore,
		metrics:       metrics.Get(),
		config:        config,
		embedProvider: embedProviderName,
	}
}

// Ingest extracts text from an upload, builds embedded chunks, and
// persists them as a new document.
func (s *Service) Ingest(ctx context.Context, ownerID, filename string, data []byte) (*IngestResult, error) {
	text, err := extract.Text(filename, data)
	if err != nil {
		s.metrics.RecordIngest(0, err)
		return nil, err
	}

	start := time.Now()
	chunks, err := s.builder.Build(ctx, ownerID, filename, text)
	s.metrics.RecordEmbedding(time.Since(start), err)
	if err != nil {
		s.metrics.RecordIngest(0, err)
		return nil, err
	}

	if err := s.store.Upsert(ctx, s.config.Collection, chunks); err != nil {
		s.metrics.RecordIngest(0, err)
		return nil, errors.ErrStorage.WithCause(err)
	}

	totalWords := 0
	for _, c := range chunks {
		totalWords += int(c.WordCount)
	}
	s.metrics.RecordIngest(len(chunks), nil)

	logger.Infow("document ingested",
		"owner_id", ownerID,
		"document_id", chunks[0].DocumentID,
		"filename", filename,
		"chunks", len(chunks),
		"words", totalWords,
	)

	return &IngestResult{
		DocumentID:  chunks[0].DocumentID,
		Filename:    filename,
		ChunksCount: len(chunks),
		TotalWords:  totalWords,
	}, nil
}

// Search returns the owner's best-matching chunks for the query.
func (s *Service) Search(ctx context.Context, ownerID, query string, limit int) ([]*store.SearchHit, error) {
	hits, err := s.retriever.Search(ctx, ownerID, query, limit)
	s.metrics.RecordSearch(err)
	return hits, err
}

// ListDocuments returns the owner's documents, newest first.
func (s *Service) ListDocuments(ctx context.Context, ownerID string, limit int) ([]*DocumentInfo, error) {
	docs, err := s.documents.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CreatedAt > docs[j].CreatedAt
	})
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

// DeleteDocument removes every chunk of the owner's document. It
// returns false when the document does not exist for this owner.
func (s *Service) DeleteDocument(ctx context.Context, ownerID, documentID string) (bool, error) {
	deleted, err := s.documents.Delete(ctx, ownerID, documentID)
	if err != nil {
		return false, err
	}
	if deleted {
		s.metrics.RecordDeletion()
	}
	return deleted, nil
}

// GetStats aggregates the owner's documents into totals plus the most
// recent uploads.
func (s *Service) GetStats(ctx context.Context, ownerID string) (*Stats, error) {
	docs, err := s.documents.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalDocuments:  len(docs),
		RecentDocuments: []*DocumentInfo{},
		EmbedProvider:   s.embedProvider,
		ChatProvider:    s.chat.ProviderName(),
		Metrics:         s.metrics.Stats(),
	}
	for _, d := range docs {
		stats.TotalChunks += d.ChunksCount
		stats.TotalWords += d.TotalWords
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CreatedAt > docs[j].CreatedAt
	})
	recent := s.config.RecentLimit
	if recent <= 0 {
		recent = 5
	}
	if len(docs) > recent {
		docs = docs[:recent]
	}
	stats.RecentDocuments = docs

	if s.cache != nil {
		stats.Cache = s.cache.Stats(ctx)
	}

	return stats, nil
}

// ChatContext retrieves the chunks grounding one chat turn. Failures
// degrade to an empty context.
func (s *Service) ChatContext(ctx context.Context, ownerID, message string, limit int) []*store.SearchHit {
	return s.chat.Context(ctx, ownerID, message, limit)
}

// ChatAnswer produces a complete answer, consulting the answer cache
// first. The second return reports a cache hit.
func (s *Service) ChatAnswer(ctx context.Context, ownerID, message string, contextHits []*store.SearchHit) (string, bool, error) {
	start := time.Now()

	if s.cache != nil {
		if cached := s.cache.Get(ctx, ownerID, message); cached != nil {
			s.metrics.RecordChat(time.Since(start), true, nil)
			return cached.Answer, true, nil
		}
	}

	answer, err := s.chat.Answer(ctx, message, contextHits)
	s.metrics.RecordChat(time.Since(start), false, err)
	if err != nil {
		return "", false, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, ownerID, message, &CachedAnswer{
			Answer:    answer,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}

	return answer, false, nil
}

// ChatAnswerStream streams an answer's fragments to onDelta. A cached
// answer is delivered as a single fragment; otherwise the full answer
// is cached once the stream completes.
func (s *Service) ChatAnswerStream(ctx context.Context, ownerID, message string, contextHits []*store.SearchHit, onDelta func(delta string) error) error {
	start := time.Now()

	if s.cache != nil {
		if cached := s.cache.Get(ctx, ownerID, message); cached != nil {
			s.metrics.RecordChat(time.Since(start), true, nil)
			return onDelta(cached.Answer)
		}
	}

	var full []byte
	err := s.chat.AnswerStream(ctx, message, contextHits, func(delta string) error {
		full = append(full, delta...)
		return onDelta(delta)
	})
	s.metrics.RecordChat(time.Since(start), false, err)
	if err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Set(ctx, ownerID, message, &CachedAnswer{
			Answer:    string(full),
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}

	return nil
}

// ChatHealth checks chat provider reachability.
func (s *Service) ChatHealth(ctx context.Context) error {
	return s.chat.Ping(ctx)
}

// ChatProviderName returns the configured chat provider's name.
func (s *Service) ChatProviderName() string {
	return s.chat.ProviderName()
}
