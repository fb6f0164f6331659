package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached resolution outcomes",
	Long:  "Removes cached outcomes so the next run re-queries the geocoding service. With --failed-only, successful resolutions are kept and only cached failures are retried.",
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

		failedOnly, _ := cmd.Flags().GetBool("failed-only")
		removed, err := cache.Clear(ctx, failedOnly)
		if err != nil {
			return err
		}

		if failedOnly {
			fmt.Printf("Cleared %d failed outcomes\n", removed)
		} else {
			fmt.Printf("Cleared %d cached outcomes\n", removed)
		}
		return nil
	},
}

func init() {
	cacheClearCmd.Flags().Bool("failed-only", false, "clear only cached failures")
	cacheCmd.AddCommand(cacheClearCmd)
}
