// Package options contains flags and options for initializing the
// document service server.
package options

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/docvault/internal/docvault"
	cacheopts "github.com/kart-io/docvault/pkg/options/cache"
	httpopts "github.com/kart-io/docvault/pkg/options/http"
	llmopts "github.com/kart-io/docvault/pkg/options/llm"
	logopts "github.com/kart-io/docvault/pkg/options/logger"
	milvusopts "github.com/kart-io/docvault/pkg/options/milvus"
	pipelineopts "github.com/kart-io/docvault/pkg/options/pipeline"
)

// ServerOptions contains the configuration options for the server.
type ServerOptions struct {
	// HTTPOptions contains HTTP server configuration.
	HTTPOptions *httpopts.Options `json:"http" mapstructure:"http"`

	// LogOptions contains logger configuration.
	LogOptions *logopts.Options `json:"log" mapstructure:"log"`

	// MilvusOptions contains Milvus connection configuration.
	MilvusOptions *milvusopts.Options `json:"milvus" mapstructure:"milvus"`

	// EmbeddingOptions contains embedding provider configuration.
	EmbeddingOptions *llmopts.ProviderOptions `json:"embedding" mapstructure:"embedding"`

	// ChatOptions contains chat provider configuration.
	ChatOptions *llmopts.ProviderOptions `json:"chat" mapstructure:"chat"`

	// PipelineOptions contains document pipeline configuration.
	PipelineOptions *pipelineopts.Options `json:"pipeline" mapstructure:"pipeline"`

	// CacheOptions contains answer cache configuration.
	CacheOptions *cacheopts.Options `json:"cache" mapstructure:"cache"`

	// ShutdownTimeout is the timeout for graceful shutdown.
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`
}

// NewServerOptions creates a ServerOptions instance with default values.
func NewServerOptions() *ServerOptions {
	return &ServerOptions{
		HTTPOptions:      httpopts.NewOptions(),
		LogOptions:       logopts.NewOptions(),
		MilvusOptions:    milvusopts.NewOptions(),
		EmbeddingOptions: llmopts.NewEmbeddingOptions(),
		ChatOptions:      llmopts.NewChatOptions(),
		PipelineOptions:  pipelineopts.NewOptions(),
		CacheOptions:     cacheopts.NewOptions(),
		ShutdownTimeout:  30 * time.Second,
	}
}

// AddFlags adds all server flags to the given flag set.
func (o *ServerOptions) AddFlags(fs *pflag.FlagSet) {
	o.HTTPOptions.AddFlags(fs)
	o.LogOptions.AddFlags(fs)
	o.MilvusOptions.AddFlags(fs)
	o.EmbeddingOptions.AddFlags(fs)
	o.ChatOptions.AddFlags(fs)
	o.PipelineOptions.AddFlags(fs)
	o.CacheOptions.AddFlags(fs)

	fs.DurationVar(&o.ShutdownTimeout, "shutdown-timeout", o.ShutdownTimeout, "Graceful shutdown timeout.")
}

// Complete completes all the required options.
func (o *ServerOptions) Complete() error {
	return o.LogOptions.Complete()
}

// Validate checks whether the options in ServerOptions are valid.
func (o *ServerOptions) Validate() error {
	var errs []error

	errs = append(errs, o.HTTPOptions.Validate()...)
	errs = append(errs, o.MilvusOptions.Validate()...)
	errs = append(errs, o.EmbeddingOptions.Validate()...)
	errs = append(errs, o.ChatOptions.Validate()...)
	errs = append(errs, o.PipelineOptions.Validate()...)
	errs = append(errs, o.CacheOptions.Validate()...)
	if err := o.LogOptions.Validate(); err != nil {
		errs = append(errs, err)
	}
	if o.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("shutdown-timeout must be positive"))
	}

	return errors.Join(errs...)
}

// Config builds a docvault.Config based on ServerOptions.
func (o *ServerOptions) Config() (*docvault.Config, error) {
	return &docvault.Config{
		HTTPOptions:      o.HTTPOptions,
		LogOptions:       o.LogOptions,
		MilvusOptions:    o.MilvusOptions,
		EmbeddingOptions: o.EmbeddingOptions,
		ChatOptions:      o.ChatOptions,
		PipelineOptions:  o.PipelineOptions,
		CacheOptions:     o.CacheOptions,
		ShutdownTimeout:  o.ShutdownTimeout,
	}, nil
}
