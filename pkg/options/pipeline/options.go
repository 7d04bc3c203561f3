// Package pipeline provides document pipeline configuration options.
package pipeline

import (
	"fmt"

	"github.com/kart-io/docvault/pkg/options"
	"github.com/spf13/pflag"
)

var _ options.IOptions = (*Options)(nil)

// Options contains document pipeline configuration.
type Options struct {
	// WindowSize is the number of words per chunk window.
	WindowSize int `json:"window-size" mapstructure:"window-size"`

	// Overlap is the number of words shared between consecutive windows.
	Overlap int `json:"overlap" mapstructure:"overlap"`

	// Collection is the name of the vector store collection.
	Collection string `json:"collection" mapstructure:"collection"`

	// SearchLimit is the default number of results from similarity search.
	SearchLimit int `json:"search-limit" mapstructure:"search-limit"`

	// ScanLimit caps how many chunk records a listing scan reads per owner.
	ScanLimit int `json:"scan-limit" mapstructure:"scan-limit"`

	// RecentLimit is the number of recent documents in the stats payload.
	RecentLimit int `json:"recent-limit" mapstructure:"recent-limit"`

	// MaxUploadBytes is the maximum accepted upload size.
	MaxUploadBytes int64 `json:"max-upload-bytes" mapstructure:"max-upload-bytes"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		WindowSize:     500,
		Overlap:        50,
		Collection:     "documents",
		SearchLimit:    10,
		ScanLimit:      1000,
		RecentLimit:    5,
		MaxUploadBytes: 10 << 20,
	}
}

// AddFlags adds flags for pipeline options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.IntVar(&o.WindowSize, options.Join(prefixes...)+"pipeline.window-size", o.WindowSize, "Words per chunk window.")
	fs.IntVar(&o.Overlap, options.Join(prefixes...)+"pipeline.overlap", o.Overlap, "Words shared between consecutive windows.")
	fs.StringVar(&o.Collection, options.Join(prefixes...)+"pipeline.collection", o.Collection, "Vector store collection name.")
	fs.IntVar(&o.SearchLimit, options.Join(prefixes...)+"pipeline.search-limit", o.SearchLimit, "Default number of similarity search results.")
	fs.IntVar(&o.ScanLimit, options.Join(prefixes...)+"pipeline.scan-limit", o.ScanLimit, "Maximum chunk records read per listing scan.")
	fs.IntVar(&o.RecentLimit, options.Join(prefixes...)+"pipeline.recent-limit", o.RecentLimit, "Number of recent documents in statistics.")
	fs.Int64Var(&o.MaxUploadBytes, options.Join(prefixes...)+"pipeline.max-upload-bytes", o.MaxUploadBytes, "Maximum accepted upload size in bytes.")
}

// Validate validates the pipeline options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.WindowSize <= 0 {
		errs = append(errs, fmt.Errorf("pipeline.window-size must be positive"))
	}
	if o.Overlap < 0 {
		errs = append(errs, fmt.Errorf("pipeline.overlap cannot be negative"))
	}
	if o.Overlap >= o.WindowSize {
		errs = append(errs, fmt.Errorf("pipeline.overlap must be smaller than pipeline.window-size"))
	}
	if o.Collection == "" {
		errs = append(errs, fmt.Errorf("pipeline.collection is required"))
	}
	if o.SearchLimit <= 0 {
		errs = append(errs, fmt.Errorf("pipeline.search-limit must be positive"))
	}
	if o.ScanLimit <= 0 {
		errs = append(errs, fmt.Errorf("pipeline.scan-limit must be positive"))
	}
	if o.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("pipeline.max-upload-bytes must be positive"))
	}
	return errs
}
