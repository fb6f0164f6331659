package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/liberty-analytics/panel-cli/internal/model"
)

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cached outcome counts and recent runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		cache, err := openCache()
		if err != nil {
			return err
		}
		defer cache.Close()
		if err := cache.Migrate(ctx); err != nil {
			return err
		}

		stats, err := cache.Stats(ctx)
		if err != nil {
			return err
		}

		total := 0
		for _, n := range stats {
			total += n
		}
		fmt.Printf("Cache: %s\n", cfg.Cache.Path)
		fmt.Printf("Cached outcomes: %d\n", total)
		for _, source := range []model.GeoSource{model.SourcePhysical, model.SourceTownCentroid, model.SourceVirtual, model.SourceFailed} {
			if n, ok := stats[source]; ok {
				fmt.Printf("  %-14s %d\n", source, n)
			}
		}

		limit, _ := cmd.Flags().GetInt("runs")
		runs, err := cache.RecentRuns(ctx, limit)
		if err != nil {
			return err
		}
		if len(runs) > 0 {
			fmt.Println("\nRecent runs:")
			for _, run := range runs {
				fmt.Printf("  %s  %s  records=%d resolved=%d failed=%d  took=%s\n",
					run.StartedAt.Format("2006-01-02 15:04:05"), run.InputFile,
					run.Records, run.Resolved, run.Failed,
					run.FinishedAt.Sub(run.StartedAt).Round(time.Second))
			}
		}
		return nil
	},
}

func init() {
	cacheStatusCmd.Flags().Int("runs", 5, "number of recent runs to show")
	cacheCmd.AddCommand(cacheStatusCmd)
}
