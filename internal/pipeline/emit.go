package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/liberty-analytics/panel-cli/internal/config"
	"github.com/liberty-analytics/panel-cli/internal/fetcher"
	"github.com/liberty-analytics/panel-cli/internal/geomap"
	"github.com/liberty-analytics/panel-cli/internal/model"
)

// Emit writes all run artifacts: the enriched spreadsheet, the GeoJSON
// layer, the Leaflet map, and the markdown summary. The artifacts are
// independent, so they are written in parallel.
func Emit(ctx context.Context, records []model.ProviderRecord, out config.OutputConfig) error {
	if err := os.MkdirAll(out.Dir, 0o755); err != nil {
		return eris.Wrap(err, "pipeline: create output dir")
	}

	eg, _ := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return fetcher.WriteProviders(filepath.Join(out.Dir, out.Spreadsheet), records)
	})

	eg.Go(func() error {
		encoded, err := geomap.Encode(records)
		if err != nil {
			return err
		}
		return eris.Wrap(
			os.WriteFile(filepath.Join(out.Dir, out.GeoJSONFile), encoded, 0o644),
			"pipeline: write geojson",
		)
	})

	eg.Go(func() error {
		html, err := geomap.RenderHTML(records)
		if err != nil {
			return err
		}
		return eris.Wrap(
			os.WriteFile(filepath.Join(out.Dir, out.MapFile), html, 0o644),
			"pipeline: write map",
		)
	})

	eg.Go(func() error {
		summary := FormatSummary(records)
		return eris.Wrap(
			os.WriteFile(filepath.Join(out.Dir, out.SummaryFile), []byte(summary), 0o644),
			"pipeline: write summary",
		)
	})

	return eg.Wait()
}
