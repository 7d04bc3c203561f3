// Package cache provides answer cache configuration options.
package cache

import (
	"time"

	"github.com/kart-io/docvault/pkg/options"
	redisopts "github.com/kart-io/docvault/pkg/options/redis"
	"github.com/spf13/pflag"
)

var _ options.IOptions = (*Options)(nil)

// Options configures the chat answer cache.
type Options struct {
	// Enabled toggles the cache. When disabled, answers are always regenerated.
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// TTL is the cache entry lifetime.
	TTL time.Duration `json:"ttl" mapstructure:"ttl"`

	// KeyPrefix namespaces cache keys.
	KeyPrefix string `json:"key-prefix" mapstructure:"key-prefix"`

	// Redis is the Redis connection configuration.
	Redis *redisopts.Options `json:"redis" mapstructure:"redis"`
}

// NewOptions creates default cache options.
func NewOptions() *Options {
	return &Options{
		Enabled:   false,
		TTL:       1 * time.Hour,
		KeyPrefix: "docvault:answer:",
		Redis:     redisopts.NewOptions(),
	}
}

// AddFlags adds flags for cache options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.BoolVar(&o.Enabled, options.Join(prefixes...)+"cache.enabled", o.Enabled, "Enable the chat answer cache.")
	fs.DurationVar(&o.TTL, options.Join(prefixes...)+"cache.ttl", o.TTL, "Cache entry TTL.")
	fs.StringVar(&o.KeyPrefix, options.Join(prefixes...)+"cache.key-prefix", o.KeyPrefix, "Cache key prefix.")

	if o.Redis == nil {
		o.Redis = redisopts.NewOptions()
	}
	o.Redis.AddFlags(fs, prefixes...)
}

// Validate validates the cache options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.Enabled {
		errs = append(errs, o.Redis.Validate()...)
	}
	return errs
}
