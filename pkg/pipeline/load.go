package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/sppgrowth/pkg/bound"
	"github.com/matzehuels/sppgrowth/pkg/cache"
	"github.com/matzehuels/sppgrowth/pkg/fptree"
	"github.com/matzehuels/sppgrowth/pkg/observability"
	"github.com/matzehuels/sppgrowth/pkg/pattern"
	"github.com/matzehuels/sppgrowth/pkg/txdb"
)

// Load reads the database described by opts: the Input file when set,
// otherwise the in-memory Transactions.
func Load(ctx context.Context, opts Options) (*txdb.Database, error) {
	start := time.Now()
	var (
		db  *txdb.Database
		err error
	)
	if opts.Input != "" {
		db, err = txdb.Open(opts.Input)
	} else {
		db, err = txdb.New(opts.Transactions)
	}

	n := 0
	if db != nil {
		n = db.Len()
	}
	observability.Pipeline().OnLoadComplete(ctx, n, time.Since(start), err)
	return db, err
}

// DatabaseHash returns the content hash of db used in cache keys.
func DatabaseHash(db *txdb.Database) string {
	data, err := json.Marshal(db.Transactions)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}

// Built is a database prepared for mining.
type Built struct {
	Tree     *fptree.Tree
	Stats    pattern.StatMap // frequent items only
	Items    int             // distinct items before filtering
	Bound    bound.Aggregate // bound fixed to the database horizon
	Duration time.Duration
}

// Build scans db, drops items that fail the thresholds and builds the
// top-level tree.
func Build(ctx context.Context, db *txdb.Database, opts Options) (*Built, error) {
	start := time.Now()
	agg, err := opts.Bound.Build()
	if err != nil {
		return nil, err
	}
	agg = bound.Bind(agg, db.LastTID)

	all := txdb.Scan(db, agg)
	stats := txdb.Frequent(all, opts.MinSupport, agg)
	tree, err := txdb.BuildTree(db, stats)
	if err != nil {
		return nil, err
	}

	b := &Built{Tree: tree, Stats: stats, Items: len(all), Bound: agg, Duration: time.Since(start)}
	observability.Pipeline().OnBuildComplete(ctx, len(stats), tree.NodeCount(), b.Duration)
	return b, nil
}
