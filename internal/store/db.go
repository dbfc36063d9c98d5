// Package store persists one search's results and checkpoint state,
// plus the cross-search fertilizer pile, to a SQLite-backed durable
// store. It implements search.Sink and search.Checkpointer against
// that store so the search driver never has to know it's SQLite.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/MJE43/balatro-seed-search/internal/search"
)

// ErrNoSearchState is returned by State when no search has ever run
// against this store.
var ErrNoSearchState = sql.ErrNoRows

// SearchState is the single-row checkpoint record a store tracks:
// which batch enumeration last completed, and under which filter
// identity — a filter-document change invalidates it.
type SearchState struct {
	FilterID           string
	Columns            []string
	BatchSize          int
	LastCompletedBatch int64 // -1 means no batch has completed yet
	UpdatedAt          time.Time
}

// DB is the persistence surface internal/store implements. Kept as an
// interface so tests and internal/api can swap in a fake without
// dragging in a real SQLite file.
type DB interface {
	search.Sink
	search.Checkpointer

	Migrate(ctx context.Context) error
	Close() error

	// ResetForFilter clears the results table and checkpoint for a new
	// filter identity, first salvaging the current top results into the
	// fertilizer pile, per the filter-change-invalidation contract.
	ResetForFilter(ctx context.Context, filterID string, columns []string, batchSize int) error

	State(ctx context.Context) (SearchState, error)

	// TopResults returns up to limit rows ordered by score descending.
	TopResults(ctx context.Context, limit int) ([]search.Result, error)

	// FertilizerSeeds returns every seed accumulated in the pile across
	// all past searches.
	FertilizerSeeds(ctx context.Context) ([]string, error)
}
