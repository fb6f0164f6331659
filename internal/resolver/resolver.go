// Package resolver implements the tiered fallback resolution of provider
// addresses: cache, full address, town centroid, terminal failure.
package resolver

import (
	"context"

	"go.uber.org/zap"

	"github.com/liberty-analytics/panel-cli/internal/geocache"
	"github.com/liberty-analytics/panel-cli/internal/model"
	"github.com/liberty-analytics/panel-cli/internal/resilience"
	"github.com/liberty-analytics/panel-cli/pkg/geocode"
)

// Request is one record's resolution input, prepared by the pipeline
// driver: the canonical full-address query (also the cache key), the
// coarser town-tier query, and the virtual classification.
type Request struct {
	Query     string
	TownQuery string
	Virtual   bool
}

// Resolver runs the fallback state machine. Every record receives a
// terminal outcome; resolution never fails the run.
type Resolver struct {
	client geocode.Client
	cache  geocache.Store
	retry  resilience.RetryConfig
}

// New creates a Resolver. Pass geocache.NewNoop() to run without a cache.
func New(client geocode.Client, cache geocache.Store, retry resilience.RetryConfig) *Resolver {
	// Any lookup failure, including an empty result, spends one attempt
	// of the tier budget.
	retry.ShouldRetry = func(err error) bool { return true }
	return &Resolver{client: client, cache: cache, retry: retry}
}

// Resolve returns the terminal outcome for one record. Virtual records
// short-circuit before the cache and the network. Cached outcomes are
// returned verbatim, cached failures included. Otherwise the full-address
// tier and then the town tier are attempted, and whatever terminal
// outcome results is written back to the cache.
func (r *Resolver) Resolve(ctx context.Context, req Request) model.Outcome {
	if req.Virtual {
		return model.VirtualOutcome()
	}

	log := zap.L().With(zap.String("query", req.Query))

	cached, err := r.cache.Get(ctx, req.Query)
	if err != nil {
		log.Warn("resolution cache read failed, treating as miss", zap.Error(err))
	}
	if cached != nil {
		log.Debug("resolution cache hit", zap.String("source", string(cached.Source)))
		return *cached
	}

	if loc, ok := r.attemptTier(ctx, "full_address", req.Query); ok {
		return r.store(ctx, req.Query, model.PhysicalOutcome(loc.Latitude, loc.Longitude))
	}

	if loc, ok := r.attemptTier(ctx, "town", req.TownQuery); ok {
		return r.store(ctx, req.Query, model.TownOutcome(loc.Latitude, loc.Longitude))
	}

	log.Info("both resolution tiers exhausted")
	return r.store(ctx, req.Query, model.FailedOutcome())
}

// attemptTier runs one tier's bounded retry loop. A missing result and a
// provider error are the same thing here: one spent attempt.
func (r *Resolver) attemptTier(ctx context.Context, tier, query string) (*geocode.Location, bool) {
	cfg := r.retry
	cfg.OnRetry = resilience.RetryLogger("geocoder", tier)

	loc, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (*geocode.Location, error) {
		return r.client.Lookup(ctx, query)
	})
	if err != nil {
		zap.L().Debug("tier exhausted",
			zap.String("tier", tier),
			zap.String("query", query),
			zap.Error(err),
		)
		return nil, false
	}
	return loc, true
}

// store writes the outcome to the cache and returns it. A write failure
// is logged and otherwise ignored: the record still gets its outcome.
func (r *Resolver) store(ctx context.Context, query string, outcome model.Outcome) model.Outcome {
	if err := r.cache.Put(ctx, query, outcome); err != nil {
		zap.L().Warn("resolution cache write failed",
			zap.String("query", query),
			zap.Error(err),
		)
	}
	return outcome
}
