package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"farmstay-go/internal/stamp"
)

// SeedRegionsCmd returns the seed-regions command
func SeedRegionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-regions",
		Short: "Upsert the prefecture catalog",
		Long:  `Insert or update all 47 prefectures keyed by code. Safe to run multiple times.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			n, err := e.catalog.Seed(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to seed regions: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d prefectures seeded\n", color.New(color.FgGreen).Sprint("✓"), n)
			return nil
		},
	}
}

// BackfillCmd returns the backfill command
func BackfillCmd() *cobra.Command {
	var workers, progressEvery, top int

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Stamp every historical review",
		Long: `Replay all reviews through the stamp synchronizer in review id order.

Reviews that already have a stamp are reported as already applied, so the
command is safe to run multiple times. Ctrl-C stops the run between reviews.

Examples:
  stampctl backfill
  stampctl backfill --workers 4 --progress-every 100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			if !cmd.Flags().Changed("workers") {
				workers = e.cfg.BackfillWorkers
			}
			if !cmd.Flags().Changed("progress-every") {
				progressEvery = e.cfg.BackfillProgressEvery
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			b := stamp.NewBackfiller(e.store, e.syncer, e.log, stamp.BackfillOptions{
				Workers:       workers,
				ProgressEvery: progressEvery,
				Progress: func(processed, total int) {
					fmt.Fprintf(out, "  %d/%d reviews\n", processed, total)
				},
			})
			report, err := b.Run(ctx)
			if err != nil {
				return err
			}
			PrintBackfillReport(out, report)

			stats, err := e.store.Stats(context.WithoutCancel(ctx), top)
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			PrintStats(out, stats)

			if report.Cancelled {
				return fmt.Errorf("backfill cancelled after %d of %d reviews", report.Processed, report.Total)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 1, "Number of users processed in parallel")
	cmd.Flags().IntVar(&progressEvery, "progress-every", 10, "Report progress every N reviews")
	cmd.Flags().IntVar(&top, "top", 5, "Number of top users to list afterwards")

	return cmd
}

// StatsCmd returns the stats command
func StatsCmd() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stamp ledger and aggregate totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			stats, err := e.store.Stats(cmd.Context(), top)
			if err != nil {
				return err
			}
			PrintStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", 5, "Number of top users to list")

	return cmd
}

// VerifyCmd returns the verify command
func VerifyCmd() *cobra.Command {
	var repair bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check every aggregate against the visit ledger",
		Long: `Recompute each (user, prefecture) aggregate from its visit records and list
the ones that disagree. With --repair, drifted aggregates are rebuilt.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := cmd.Context()
			drifts, err := e.store.Verify(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			PrintDrifts(out, drifts)

			if !repair || len(drifts) == 0 {
				if len(drifts) > 0 {
					return fmt.Errorf("%d aggregates drifted from the ledger", len(drifts))
				}
				return nil
			}

			for _, d := range drifts {
				if _, err := e.syncer.Reconcile(ctx, d.UserID, d.RegionCode); err != nil {
					return fmt.Errorf("failed to repair user %d region %s: %w", d.UserID, d.RegionCode, err)
				}
			}
			fmt.Fprintf(out, "%s repaired %d aggregates\n", color.New(color.FgGreen).Sprint("✓"), len(drifts))
			return nil
		},
	}

	cmd.Flags().BoolVar(&repair, "repair", false, "Rebuild drifted aggregates from the ledger")

	return cmd
}
