// Package redis provides Redis connection configuration options.
package redis

import (
	"fmt"
	"time"

	"github.com/kart-io/docvault/pkg/options"
	"github.com/spf13/pflag"
)

var _ options.IOptions = (*Options)(nil)

// Options defines configuration options for Redis.
type Options struct {
	Addr         string        `json:"addr" mapstructure:"addr"`
	Password     string        `json:"-" mapstructure:"password"`
	Database     int           `json:"database" mapstructure:"database"`
	PoolSize     int           `json:"pool-size" mapstructure:"pool-size"`
	DialTimeout  time.Duration `json:"dial-timeout" mapstructure:"dial-timeout"`
	ReadTimeout  time.Duration `json:"read-timeout" mapstructure:"read-timeout"`
	WriteTimeout time.Duration `json:"write-timeout" mapstructure:"write-timeout"`
}

// NewOptions creates a new Options object with default values.
func NewOptions() *Options {
	return &Options{
		Addr:         "127.0.0.1:6379",
		Database:     0,
		PoolSize:     10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// String returns a string representation with password redacted.
// Safe for logging and debugging.
func (o *Options) String() string {
	password := ""
	if o.Password != "" {
		password = "[REDACTED]"
	}
	return fmt.Sprintf("Redis{addr=%s, password=%s, database=%d}", o.Addr, password, o.Database)
}

// AddFlags adds flags for Redis options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Addr, options.Join(prefixes...)+"redis.addr", o.Addr, "Redis server address (host:port).")
	fs.StringVar(&o.Password, options.Join(prefixes...)+"redis.password", o.Password, "Redis password.")
	fs.IntVar(&o.Database, options.Join(prefixes...)+"redis.database", o.Database, "Redis database number.")
	fs.IntVar(&o.PoolSize, options.Join(prefixes...)+"redis.pool-size", o.PoolSize, "Redis connection pool size.")
	fs.DurationVar(&o.DialTimeout, options.Join(prefixes...)+"redis.dial-timeout", o.DialTimeout, "Redis dial timeout.")
	fs.DurationVar(&o.ReadTimeout, options.Join(prefixes...)+"redis.read-timeout", o.ReadTimeout, "Redis read timeout.")
	fs.DurationVar(&o.WriteTimeout, options.Join(prefixes...)+"redis.write-timeout", o.WriteTimeout, "Redis write timeout.")
}

// Validate checks if the options are valid.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.Addr == "" {
		errs = append(errs, fmt.Errorf("redis addr is required"))
	}
	if o.Database < 0 {
		errs = append(errs, fmt.Errorf("redis database cannot be negative"))
	}
	return errs
}
