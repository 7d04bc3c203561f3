// Package llm provides embedding and chat provider configuration options.
package llm

import (
	"fmt"
	"time"

	"github.com/kart-io/docvault/pkg/options"
	"github.com/spf13/pflag"
)

var _ options.IOptions = (*ProviderOptions)(nil)

// ProviderOptions configures one remote model provider endpoint.
type ProviderOptions struct {
	// Provider is the provider name (ollama, openai).
	Provider string `json:"provider" mapstructure:"provider"`

	// BaseURL is the provider API base URL.
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// APIKey authenticates against the provider (required for openai).
	APIKey string `json:"-" mapstructure:"api-key"`

	// Model is the model name to use.
	Model string `json:"model" mapstructure:"model"`

	// Timeout for provider requests.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// flagGroup is the flag name segment (embedding or chat).
	flagGroup string
}

// NewEmbeddingOptions creates default embedding provider options.
func NewEmbeddingOptions() *ProviderOptions {
	return &ProviderOptions{
		Provider:  "ollama",
		BaseURL:   "http://localhost:11434",
		Model:     "nomic-embed-text",
		Timeout:   120 * time.Second,
		flagGroup: "embedding",
	}
}

// NewChatOptions creates default chat provider options.
func NewChatOptions() *ProviderOptions {
	return &ProviderOptions{
		Provider:  "ollama",
		BaseURL:   "http://localhost:11434",
		Model:     "deepseek-r1:7b",
		Timeout:   120 * time.Second,
		flagGroup: "chat",
	}
}

// AddFlags adds flags for provider options to the specified FlagSet.
func (o *ProviderOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	group := o.flagGroup
	if group == "" {
		group = "llm"
	}
	fs.StringVar(&o.Provider, options.Join(prefixes...)+group+".provider", o.Provider, "Model provider (ollama, openai).")
	fs.StringVar(&o.BaseURL, options.Join(prefixes...)+group+".base-url", o.BaseURL, "Provider API base URL.")
	fs.StringVar(&o.APIKey, options.Join(prefixes...)+group+".api-key", o.APIKey, "Provider API key.")
	fs.StringVar(&o.Model, options.Join(prefixes...)+group+".model", o.Model, "Model name.")
	fs.DurationVar(&o.Timeout, options.Join(prefixes...)+group+".timeout", o.Timeout, "Provider request timeout.")
}

// Validate validates the provider options.
func (o *ProviderOptions) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	switch o.Provider {
	case "ollama", "openai":
	default:
		errs = append(errs, fmt.Errorf("unsupported provider %q", o.Provider))
	}
	if o.BaseURL == "" {
		errs = append(errs, fmt.Errorf("provider base-url is required"))
	}
	if o.Model == "" {
		errs = append(errs, fmt.Errorf("provider model is required"))
	}
	if o.Provider == "openai" && o.APIKey == "" {
		errs = append(errs, fmt.Errorf("openai provider requires an api-key"))
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("provider timeout must be positive"))
	}
	return errs
}
