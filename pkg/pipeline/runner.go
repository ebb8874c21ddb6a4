package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sppgrowth/pkg/cache"
	errs "github.com/matzehuels/sppgrowth/pkg/errors"
	"github.com/matzehuels/sppgrowth/pkg/growth"
	"github.com/matzehuels/sppgrowth/pkg/observability"
	"github.com/matzehuels/sppgrowth/pkg/pattern"
	"github.com/matzehuels/sppgrowth/pkg/render/nodelink"
	"github.com/matzehuels/sppgrowth/pkg/txdb"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → build → mine pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	loadStart := time.Now()
	db, err := Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	loadTime := time.Since(loadStart)
	r.Logger.Info("loaded transactions",
		"transactions", db.Len(),
		"last_tid", db.LastTID,
		"duration", loadTime)

	result, err := r.MineDatabase(ctx, db, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.LoadTime = loadTime
	return result, nil
}

// cachedResult is the cached form of a mining result.
type cachedResult struct {
	Patterns []pattern.Itemset `json:"patterns"`
	Stats    Stats             `json:"stats"`
}

// MineDatabase mines an already loaded database with caching.
func (r *Runner) MineDatabase(ctx context.Context, db *txdb.Database, opts Options) (*Result, error) {
	if err := opts.validateMining(); err != nil {
		return nil, err
	}

	result := &Result{DatabaseHash: DatabaseHash(db)}
	cacheKey := r.Keyer.ResultKey(result.DatabaseHash, opts.ResultKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached cachedResult
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "result")
				result.Patterns = cached.Patterns
				result.Stats = cached.Stats
				result.CacheInfo.ResultHit = true
				r.Logger.Debug("result cache hit", "patterns", len(cached.Patterns))
				return result, nil
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "result")
	}

	built, err := Build(ctx, db, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Stats.Transactions = db.Len()
	result.Stats.Items = built.Items
	result.Stats.FrequentItems = len(built.Stats)
	result.Stats.TreeNodes = built.Tree.NodeCount()
	result.Stats.BuildTime = built.Duration
	r.Logger.Info("built tree",
		"items", built.Items,
		"frequent", len(built.Stats),
		"nodes", built.Tree.NodeCount(),
		"duration", built.Duration)

	miner, err := growth.New(growth.Options{
		MinSupport: opts.MinSupport,
		Bound:      built.Bound,
		MaxLength:  opts.MaxLength,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidThreshold, err, "configure miner")
	}

	var (
		sink    growth.Sink
		collect func() []pattern.Itemset
	)
	if opts.TopK > 0 {
		top := growth.NewTopK(opts.TopK)
		sink, collect = top, top.Patterns
	} else {
		c := &growth.Collector{}
		sink, collect = c, c.Sorted
	}

	st, err := miner.Mine(ctx, built.Tree, sink)
	if err != nil {
		return nil, fmt.Errorf("mine: %w", err)
	}
	result.Patterns = collect()
	result.Stats.Patterns = len(result.Patterns)
	result.Stats.ConditionalTrees = st.ConditionalTrees
	result.Stats.MaxDepth = st.MaxDepth
	result.Stats.MineTime = st.Duration
	r.Logger.Info("mined patterns",
		"patterns", len(result.Patterns),
		"conditional_trees", st.ConditionalTrees,
		"max_depth", st.MaxDepth,
		"duration", st.Duration)

	if data, err := json.Marshal(cachedResult{Patterns: result.Patterns, Stats: result.Stats}); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLResult); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "result", len(data))
		}
	}

	return result, nil
}

// RenderTreeWithCacheInfo renders the top-level tree of db in format and
// reports whether the artifact came from the cache.
func (r *Runner) RenderTreeWithCacheInfo(ctx context.Context, db *txdb.Database, opts Options, render nodelink.Options, format string) ([]byte, bool, error) {
	if err := opts.validateMining(); err != nil {
		return nil, false, err
	}
	format, err := errs.ValidateFormat(format, TreeFormats...)
	if err != nil {
		return nil, false, err
	}

	keyOpts := opts.ArtifactKeyOpts(format)
	if render.ShowTIDs {
		keyOpts.Format += "+tids"
	}
	if render.ShowLinks {
		keyOpts.Format += "+links"
	}
	if render.MaxNodes > 0 {
		keyOpts.Format += fmt.Sprintf("+max%d", render.MaxNodes)
	}
	cacheKey := r.Keyer.ArtifactKey(DatabaseHash(db), keyOpts)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	built, err := Build(ctx, db, opts)
	if err != nil {
		return nil, false, err
	}
	dot := nodelink.ToDOT(built.Tree, render)

	data := []byte(dot)
	if format == FormatSVG {
		if data, err = nodelink.RenderSVG(ctx, dot); err != nil {
			return nil, false, err
		}
	}

	if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}

// RenderTree is a convenience wrapper that calls RenderTreeWithCacheInfo and discards the cache hit info.
func (r *Runner) RenderTree(ctx context.Context, db *txdb.Database, opts Options, render nodelink.Options, format string) ([]byte, error) {
	data, _, err := r.RenderTreeWithCacheInfo(ctx, db, opts, render, format)
	return data, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
