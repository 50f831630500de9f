package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"farmstay-go/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stampctl",
		Short: "Operator tools for the prefecture stamp rally",
		Long: `stampctl seeds the prefecture catalog, backfills stamps from historical
reviews and checks aggregates against the visit ledger. It reads the same
environment (.env, DATABASE_DRIVER, DATABASE_URL) as the API server.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cli.SeedRegionsCmd())
	rootCmd.AddCommand(cli.BackfillCmd())
	rootCmd.AddCommand(cli.StatsCmd())
	rootCmd.AddCommand(cli.VerifyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
