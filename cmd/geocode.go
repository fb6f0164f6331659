package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/liberty-analytics/panel-cli/internal/fetcher"
	"github.com/liberty-analytics/panel-cli/internal/geocache"
	"github.com/liberty-analytics/panel-cli/internal/pipeline"
	"github.com/liberty-analytics/panel-cli/internal/resilience"
	"github.com/liberty-analytics/panel-cli/internal/resolver"
	"github.com/liberty-analytics/panel-cli/pkg/geocode"
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Geocode the provider panel",
	Long:  "Resolves every panel record to coordinates via the cache, the full address, or the town centroid, then writes the enriched spreadsheet, map, and summary.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if input, _ := cmd.Flags().GetString("input"); input != "" {
			cfg.Input.File = input
		}
		if output, _ := cmd.Flags().GetString("output"); output != "" {
			cfg.Output.Dir = output
		}
		if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
			cfg.Cache.Enabled = false
		}

		log := zap.L().With(zap.String("command", "geocode"))

		// Unreadable input is fatal before any geocoding starts.
		records, err := fetcher.ReadProviders(cfg.Input.File, fetcher.Options{
			SheetName: cfg.Input.Sheet,
			SkipRows:  cfg.Input.SkipRows,
		})
		if err != nil {
			return eris.Wrap(err, "geocode: read input")
		}
		if len(records) == 0 {
			return eris.Errorf("geocode: no provider records in %s", cfg.Input.File)
		}

		cache, err := openCache()
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := cache.Close(); closeErr != nil {
				log.Warn("cache close failed", zap.Error(closeErr))
			}
		}()
		if err := cache.Migrate(ctx); err != nil {
			return err
		}

		client := geocode.NewClient(
			geocode.WithBaseURL(cfg.Geocoder.BaseURL),
			geocode.WithUserAgent(cfg.Geocoder.UserAgent),
			geocode.WithMinDelay(cfg.Geocoder.MinDelay()),
			geocode.WithHTTPClient(&http.Client{Timeout: cfg.Geocoder.Timeout()}),
		)

		res := resolver.New(client, cache, resilience.RetryConfig{
			MaxAttempts: cfg.Resolver.AttemptsPerTier,
			Backoff:     cfg.Resolver.Backoff(),
		})

		log.Info("starting geocode run",
			zap.String("input", cfg.Input.File),
			zap.Int("records", len(records)),
			zap.Bool("cache", cfg.Cache.Enabled),
		)

		started := time.Now()
		enriched, summary, err := pipeline.New(res, cfg.Input.Country).Run(ctx, records)
		if err != nil {
			return eris.Wrap(err, "geocode: run pipeline")
		}

		if err := pipeline.Emit(ctx, enriched, cfg.Output); err != nil {
			return eris.Wrap(err, "geocode: write outputs")
		}

		if err := cache.RecordRun(ctx, geocache.Run{
			InputFile:  cfg.Input.File,
			Records:    summary.Total,
			Resolved:   summary.Mapped,
			Failed:     summary.Failed,
			StartedAt:  started,
			FinishedAt: time.Now(),
		}); err != nil {
			log.Warn("failed to record run", zap.Error(err))
		}

		fmt.Printf("Providers input: %d | Mapped: %d (Physical: %d, Centroid: %d, Inactive: %d) | Virtual: %d | Failed: %d\n",
			summary.Total, summary.Mapped, summary.Physical, summary.Centroid, summary.Inactive, summary.Virtual, summary.Failed)
		fmt.Printf("Output dir: %s\n", cfg.Output.Dir)
		return nil
	},
}

// openCache returns the configured resolution cache. Open failure is
// fatal: a run never starts against a broken cache.
func openCache() (geocache.Store, error) {
	if !cfg.Cache.Enabled {
		return geocache.NewNoop(), nil
	}
	if dir := filepath.Dir(cfg.Cache.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eris.Wrap(err, "geocode: create cache dir")
		}
	}
	return geocache.NewSQLite(cfg.Cache.Path)
}

func init() {
	geocodeCmd.Flags().String("input", "", "input spreadsheet (overrides config)")
	geocodeCmd.Flags().String("output", "", "output directory (overrides config)")
	geocodeCmd.Flags().Bool("no-cache", false, "run without the resolution cache")
	rootCmd.AddCommand(geocodeCmd)
}
