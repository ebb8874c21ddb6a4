// Package pipeline provides the load → build → mine pipeline for sppgrowth.
//
// This package implements the complete pipeline that the CLI and the HTTP
// server share. By centralizing this logic, both entry points validate the
// same options, apply the same defaults and hit the same cache entries.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read a transaction database from a file or from memory
//  2. Build: Scan item stats, drop infrequent items, build the prefix tree
//  3. Mine: Run pattern growth and collect the patterns
//
// Mined results are cached by database content and options.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:      "retail.dat",
//	    MinSupport: 50,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, p := range result.Patterns {
//	    fmt.Println(p)
//	}
package pipeline

import (
	"time"

	"github.com/matzehuels/sppgrowth/pkg/bound"
	"github.com/matzehuels/sppgrowth/pkg/cache"
	errs "github.com/matzehuels/sppgrowth/pkg/errors"
	"github.com/matzehuels/sppgrowth/pkg/pattern"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMinSupport is the minimum support used when none is given.
	DefaultMinSupport = 2

	// DefaultMaxLength caps pattern length when none is given.
	DefaultMaxLength = 1000
)

// Tree rendering formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// TreeFormats lists the supported tree rendering formats.
var TreeFormats = []string{FormatDOT, FormatSVG}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a mining run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input is a transaction file path (".gz" and ".zst" are decompressed).
	Input string `json:"input,omitempty"`

	// Transactions is an in-memory database used when Input is empty.
	Transactions [][]int `json:"transactions,omitempty"`

	MinSupport int          `json:"min_support,omitempty"`
	TopK       int          `json:"top_k,omitempty"`
	MaxLength  int          `json:"max_length,omitempty"`
	Bound      bound.Config `json:"bound"`
	Refresh    bool         `json:"refresh,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// DatabaseHash is the content hash of the mined database.
	DatabaseHash string `json:"database_hash"`

	// Patterns are the mined patterns in presentation order.
	Patterns []pattern.Itemset `json:"patterns"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`

	// CacheInfo tracks whether the result came from the cache.
	CacheInfo CacheInfo `json:"cache"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Transactions     int           `json:"transactions"`
	Items            int           `json:"items"`
	FrequentItems    int           `json:"frequent_items"`
	TreeNodes        int           `json:"tree_nodes"`
	Patterns         int           `json:"patterns"`
	ConditionalTrees int           `json:"conditional_trees"`
	MaxDepth         int           `json:"max_depth"`
	LoadTime         time.Duration `json:"load_time"`
	BuildTime        time.Duration `json:"build_time"`
	MineTime         time.Duration `json:"mine_time"`
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	ResultHit bool `json:"result_hit"`
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input != "" && len(o.Transactions) > 0 {
		return errs.New(errs.ErrCodeInvalidInput, "input and transactions are mutually exclusive")
	}
	if o.Input != "" {
		if err := errs.ValidatePath(o.Input); err != nil {
			return err
		}
	}
	if err := o.validateMining(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// validateMining applies defaults and checks the options that only affect
// mining, not loading.
func (o *Options) validateMining() error {
	if o.MinSupport == 0 {
		o.MinSupport = DefaultMinSupport
	}
	if o.MaxLength == 0 {
		o.MaxLength = DefaultMaxLength
	}
	if err := errs.ValidateMinSupport(o.MinSupport); err != nil {
		return err
	}
	if err := errs.ValidateLimits(o.TopK, o.MaxLength); err != nil {
		return err
	}
	if _, err := o.Bound.Build(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidBound, err, "invalid bound")
	}
	return nil
}

// ResultKeyOpts returns cache key options for mining results.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{
		MinSupport: o.MinSupport,
		TopK:       o.TopK,
		MaxLength:  o.MaxLength,
		Bound:      o.Bound.Key(),
	}
}

// ArtifactKeyOpts returns cache key options for a rendered tree.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		MinSupport: o.MinSupport,
		Bound:      o.Bound.Key(),
	}
}
