// Package docvault provides the document service server implementation.
package docvault

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kart-io/docvault/internal/docvault/biz"
	"github.com/kart-io/docvault/internal/docvault/handler"
	"github.com/kart-io/docvault/internal/docvault/router"
	"github.com/kart-io/docvault/internal/docvault/store"
	"github.com/kart-io/docvault/pkg/component/milvus"
	"github.com/kart-io/docvault/pkg/llm"
	"github.com/kart-io/docvault/pkg/llm/ollama"
	"github.com/kart-io/docvault/pkg/llm/openai"
	cacheopts "github.com/kart-io/docvault/pkg/options/cache"
	httpopts "github.com/kart-io/docvault/pkg/options/http"
	llmopts "github.com/kart-io/docvault/pkg/options/llm"
	logopts "github.com/kart-io/docvault/pkg/options/logger"
	milvusopts "github.com/kart-io/docvault/pkg/options/milvus"
	pipelineopts "github.com/kart-io/docvault/pkg/options/pipeline"
	"github.com/kart-io/docvault/pkg/server"
)

// Name is the name of the application.
const Name = "docvault"

// Config contains application-related configurations.
type Config struct {
	HTTPOptions      *httpopts.Options
	LogOptions       *logopts.Options
	MilvusOptions    *milvusopts.Options
	EmbeddingOptions *llmopts.ProviderOptions
	ChatOptions      *llmopts.ProviderOptions
	PipelineOptions  *pipelineopts.Options
	CacheOptions     *cacheopts.Options
	ShutdownTimeout  time.Duration
}

// Server is the assembled document service.
type Server struct {
	httpServer      *server.HTTPServer
	shutdownTimeout time.Duration
	closers         []func()
}

// NewServer initializes and returns a new Server instance.
func (cfg *Config) NewServer(ctx context.Context) (*Server, error) {
	if err := cfg.LogOptions.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Infow("starting document service", "name", Name)

	srv := &Server{shutdownTimeout: cfg.ShutdownTimeout}

	// Vector store
	milvusClient, err := milvus.New(cfg.MilvusOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize milvus: %w", err)
	}
	srv.closers = append(srv.closers, func() { _ = milvusClient.Close(context.Background()) })
	vectorStore := store.NewMilvusStore(milvusClient)
	logger.Infow("vector store initialized", "address", cfg.MilvusOptions.Address)

	dimension := llm.EmbeddingDimension(cfg.EmbeddingOptions.Model)
	if err := vectorStore.EnsureCollection(ctx, &store.CollectionConfig{
		Name:        cfg.PipelineOptions.Collection,
		Description: "Embedded document chunks",
		Dimension:   dimension,
	}); err != nil {
		return nil, fmt.Errorf("failed to ensure collection: %w", err)
	}
	logger.Infow("collection ready",
		"collection", cfg.PipelineOptions.Collection,
		"dimension", dimension,
	)

	// Providers
	embedProvider := newEmbeddingProvider(cfg.EmbeddingOptions)
	chatProvider := newChatProvider(cfg.ChatOptions)
	logger.Infow("model providers initialized",
		"embedding.provider", cfg.EmbeddingOptions.Provider,
		"embedding.model", cfg.EmbeddingOptions.Model,
		"chat.provider", cfg.ChatOptions.Provider,
		"chat.model", cfg.ChatOptions.Model,
	)

	// Answer cache: a failed Redis connection disables the cache
	// instead of failing startup.
	answerCache := cfg.newAnswerCache(ctx, srv)

	// Business layer
	embedder := biz.NewEmbedder(embedProvider)
	segmenter := biz.NewSegmenter(cfg.PipelineOptions.WindowSize, cfg.PipelineOptions.Overlap)
	builder := biz.NewBuilder(segmenter, embedder, &biz.BuilderConfig{
		WindowSize:     cfg.PipelineOptions.WindowSize,
		Overlap:        cfg.PipelineOptions.Overlap,
		EmbeddingModel: cfg.EmbeddingOptions.Model,
	})
	retriever := biz.NewRetriever(vectorStore, embedder, &biz.RetrieverConfig{
		Collection:  cfg.PipelineOptions.Collection,
		SearchLimit: cfg.PipelineOptions.SearchLimit,
	})
	documents := biz.NewDocuments(vectorStore, &biz.DocumentsConfig{
		Collection: cfg.PipelineOptions.Collection,
		ScanLimit:  cfg.PipelineOptions.ScanLimit,
	})
	chat := biz.NewChat(retriever, chatProvider, &biz.ChatConfig{
		ContextLimit: 5,
	})

	service := biz.NewService(
		vectorStore, builder, retriever, documents, chat, answerCache,
		&biz.ServiceConfig{
			Collection:  cfg.PipelineOptions.Collection,
			RecentLimit: cfg.PipelineOptions.RecentLimit,
		},
		embedProvider.Name(),
	)
	logger.Info("document service initialized")

	// HTTP layer
	docHandler := handler.NewDocumentHandler(service, cfg.PipelineOptions.MaxUploadBytes)
	chatHandler := handler.NewChatHandler(service)
	engine := router.New(docHandler, chatHandler)
	srv.httpServer = server.NewHTTPServer(cfg.HTTPOptions, engine)

	return srv, nil
}

// newAnswerCache connects Redis when the cache is enabled, degrading to
// a disabled cache when the server is unreachable.
func (cfg *Config) newAnswerCache(ctx context.Context, srv *Server) *biz.AnswerCache {
	if !cfg.CacheOptions.Enabled {
		logger.Info("answer cache disabled")
		return biz.NewAnswerCache(nil, nil)
	}

	redisOpts := cfg.CacheOptions.Redis
	redisClient := goredis.NewClient(&goredis.Options{
		Addr:         redisOpts.Addr,
		Password:     redisOpts.Password,
		DB:           redisOpts.Database,
		PoolSize:     redisOpts.PoolSize,
		DialTimeout:  redisOpts.DialTimeout,
		ReadTimeout:  redisOpts.ReadTimeout,
		WriteTimeout: redisOpts.WriteTimeout,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warnw("redis unreachable, answer cache disabled", "error", err.Error())
		_ = redisClient.Close()
		return biz.NewAnswerCache(nil, nil)
	}

	srv.closers = append(srv.closers, func() { _ = redisClient.Close() })
	logger.Infow("answer cache initialized",
		"addr", redisOpts.Addr,
		"ttl", cfg.CacheOptions.TTL,
	)

	return biz.NewAnswerCache(redisClient, &biz.AnswerCacheConfig{
		Enabled:   true,
		TTL:       cfg.CacheOptions.TTL,
		KeyPrefix: cfg.CacheOptions.KeyPrefix,
	})
}

// newEmbeddingProvider builds the embedding provider for the options.
// The options layer already validated the provider name.
func newEmbeddingProvider(opts *llmopts.ProviderOptions) llm.EmbeddingProvider {
	switch opts.Provider {
	case openai.ProviderName:
		return openai.New(openai.Config{
			BaseURL:    opts.BaseURL,
			APIKey:     opts.APIKey,
			EmbedModel: opts.Model,
			Timeout:    opts.Timeout,
		})
	default:
		return ollama.New(ollama.Config{
			BaseURL:    opts.BaseURL,
			EmbedModel: opts.Model,
			Timeout:    opts.Timeout,
		})
	}
}

// newChatProvider builds the chat provider for the options.
func newChatProvider(opts *llmopts.ProviderOptions) llm.ChatProvider {
	switch opts.Provider {
	case openai.ProviderName:
		return openai.New(openai.Config{
			BaseURL:   opts.BaseURL,
			APIKey:    opts.APIKey,
			ChatModel: opts.Model,
			Timeout:   opts.Timeout,
		})
	default:
		return ollama.New(ollama.Config{
			BaseURL:   opts.BaseURL,
			ChatModel: opts.Model,
			Timeout:   opts.Timeout,
		})
	}
}

// Run starts the HTTP server and blocks until a termination signal or
// a listen failure, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	defer func() {
		for _, closeFn := range s.closers {
			closeFn()
		}
	}()

	errCh := s.httpServer.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		logger.Infow("received signal, shutting down", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	timeout := s.shutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return s.httpServer.Stop(shutdownCtx)
}
