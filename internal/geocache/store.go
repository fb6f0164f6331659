// Package geocache persists resolution outcomes across pipeline runs so an
// address is never looked up twice, successfully or not.
package geocache

import (
	"context"
	"time"

	"github.com/liberty-analytics/panel-cli/internal/model"
)

// Run records one pipeline execution for `cache status` reporting.
type Run struct {
	ID         string
	InputFile  string
	Records    int
	Resolved   int
	Failed     int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Store is the persistence interface for resolution outcomes. Keys are
// opaque canonical query strings. Negative (FAILED) outcomes are stored
// like any other so future runs skip straight to the cached failure.
type Store interface {
	// Get returns the cached outcome for a query, or nil on a miss.
	Get(ctx context.Context, query string) (*model.Outcome, error)

	// Put creates or overwrites the outcome for a query.
	Put(ctx context.Context, query string, outcome model.Outcome) error

	// Stats counts cached outcomes by source tag.
	Stats(ctx context.Context) (map[model.GeoSource]int, error)

	// Clear removes cached outcomes, optionally only FAILED ones, and
	// returns the number of rows removed.
	Clear(ctx context.Context, failedOnly bool) (int, error)

	// Runs
	RecordRun(ctx context.Context, run Run) error
	RecentRuns(ctx context.Context, limit int) ([]Run, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Noop is a Store that remembers nothing. It backs runs configured with
// the cache disabled: every Get is a miss and every Put is discarded.
type Noop struct{}

// NewNoop returns a no-op Store.
func NewNoop() *Noop { return &Noop{} }

func (*Noop) Get(context.Context, string) (*model.Outcome, error)    { return nil, nil }
func (*Noop) Put(context.Context, string, model.Outcome) error       { return nil }
func (*Noop) Stats(context.Context) (map[model.GeoSource]int, error) { return nil, nil }
func (*Noop) Clear(context.Context, bool) (int, error)               { return 0, nil }
func (*Noop) RecordRun(context.Context, Run) error                   { return nil }
func (*Noop) RecentRuns(context.Context, int) ([]Run, error)         { return nil, nil }
func (*Noop) Migrate(context.Context) error                          { return nil }
func (*Noop) Close() error                                           { return nil }
