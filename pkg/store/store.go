// Package store persists completed mining runs.
//
// A [Run] records what was mined (database hash and options), what came out
// (patterns and stats) and when. Runs are identified by a random UUID so the
// HTTP API can hand out an id before anyone asks for the run again.
//
// Two implementations are provided:
//
//   - [Memory]: process-local, used by tests and by the server when no
//     database is configured
//   - [Mongo]: MongoDB-backed, one document per run
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/sppgrowth/pkg/pattern"
	"github.com/matzehuels/sppgrowth/pkg/pipeline"
)

// Store saves and fetches runs.
type Store interface {
	// SaveRun persists run. An empty run.ID is replaced with a new UUID.
	SaveRun(ctx context.Context, run *Run) error

	// Run fetches a run by id. A missing run yields an error with code
	// NOT_FOUND.
	Run(ctx context.Context, id string) (*Run, error)

	// Close releases the backend.
	Close(ctx context.Context) error
}

// Run is one completed mining run.
type Run struct {
	ID           string            `json:"run_id"`
	CreatedAt    time.Time         `json:"created_at"`
	DatabaseHash string            `json:"database_hash"`
	Options      RunOptions        `json:"options"`
	Patterns     []pattern.Itemset `json:"patterns"`
	Stats        pipeline.Stats    `json:"stats"`
}

// RunOptions are the mining options that shaped a run's result.
type RunOptions struct {
	MinSupport int    `json:"min_support"`
	TopK       int    `json:"top_k,omitempty"`
	MaxLength  int    `json:"max_length"`
	Bound      string `json:"bound"`
}

// NewRun builds a run with a fresh id from a pipeline result.
func NewRun(opts pipeline.Options, res *pipeline.Result) *Run {
	return &Run{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		DatabaseHash: res.DatabaseHash,
		Options: RunOptions{
			MinSupport: opts.MinSupport,
			TopK:       opts.TopK,
			MaxLength:  opts.MaxLength,
			Bound:      opts.Bound.Key(),
		},
		Patterns: res.Patterns,
		Stats:    res.Stats,
	}
}

// ensureID fills in the id and timestamp of a run about to be saved.
func ensureID(run *Run) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
}
