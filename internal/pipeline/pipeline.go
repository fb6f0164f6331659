// Package pipeline drives the provider panel through normalization,
// classification, resolution, and output emission.
package pipeline

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/liberty-analytics/panel-cli/internal/model"
	"github.com/liberty-analytics/panel-cli/internal/normalize"
	"github.com/liberty-analytics/panel-cli/internal/resolver"
)

// Resolver is the fallback resolution collaborator.
type Resolver interface {
	Resolve(ctx context.Context, req resolver.Request) model.Outcome
}

// Summary aggregates one run's resolution counts.
type Summary struct {
	Total    int
	Mapped   int
	Physical int // active, street-level
	Centroid int // active, town-level
	Inactive int
	Virtual  int
	Failed   int
}

// Pipeline enriches provider records with resolution outcomes.
type Pipeline struct {
	resolver Resolver
	country  string
}

// New creates a Pipeline resolving against the given country.
func New(res Resolver, country string) *Pipeline {
	return &Pipeline{resolver: res, country: country}
}

// Run processes records strictly in input order. Every record receives a
// terminal outcome; a single record's failure never aborts the run. The
// returned slice holds the enriched records in the original order.
func (p *Pipeline) Run(ctx context.Context, records []model.ProviderRecord) ([]model.ProviderRecord, Summary, error) {
	log := zap.L().With(zap.String("country", p.country))
	summary := Summary{Total: len(records)}

	out := make([]model.ProviderRecord, len(records))
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, Summary{}, err
		}

		rec.Address = normalize.Address(rec.Address)
		rec.Town = strings.TrimSpace(rec.Town)
		rec.County = strings.TrimSpace(rec.County)

		req := resolver.Request{
			Query:     normalize.CanonicalQuery(rec.Address, rec.Town, rec.County, p.country),
			TownQuery: normalize.TownQuery(rec.Town, rec.County, p.country),
			Virtual:   normalize.IsVirtual(rec.Address),
		}

		outcome := p.resolver.Resolve(ctx, req)
		outcome.Apply(&rec)
		out[i] = rec

		p.count(&summary, rec)
	}

	log.Info("panel processed",
		zap.Int("records", summary.Total),
		zap.Int("mapped", summary.Mapped),
		zap.Int("physical", summary.Physical),
		zap.Int("centroid", summary.Centroid),
		zap.Int("inactive", summary.Inactive),
		zap.Int("virtual", summary.Virtual),
		zap.Int("failed", summary.Failed),
	)

	return out, summary, nil
}

func (p *Pipeline) count(s *Summary, rec model.ProviderRecord) {
	if rec.Latitude != nil && rec.Longitude != nil {
		s.Mapped++
	}
	switch {
	case rec.GeoSource == model.SourceVirtual:
		s.Virtual++
	case rec.GeoSource == model.SourceFailed:
		s.Failed++
	case !rec.Active():
		s.Inactive++
	case rec.GeoSource == model.SourcePhysical:
		s.Physical++
	case rec.GeoSource == model.SourceTownCentroid:
		s.Centroid++
	}
}
