package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/pr-stats/internal/config"
	"github.com/naka-gawa/pr-stats/internal/gateway"
	"github.com/naka-gawa/pr-stats/internal/storage"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetches merged pull requests through the gh CLI and stores them per repository",
	Long: `Fetches merged pull requests for each configured repository by invoking
the gh CLI (authentication is handled by gh itself) and writes one JSON
document per repository into the data directory. A failure on one
repository does not abort the others.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd)

		cfg, err := config.Load(cmd.Flags())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		if err := cfg.ValidateForFetch(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}
		since, _ := cfg.ParseSince()

		fetcher := gateway.NewGHGateway(logger)
		store := storage.NewStore(logger)

		// Repositories are processed one at a time: gh does not support
		// safe concurrent invocation, and sequential progress reads better.
		fetched := 0
		for _, repository := range cfg.Repositories {
			fmt.Printf("Fetching %s...\n", repository)
			prs, err := fetcher.FetchPullRequests(ctx, repository, since, cfg.Limit)
			if err != nil {
				color.Yellow("  skipped %s: %v", repository, err)
				continue
			}
			if err := store.Save(cfg.DataDir, repository, prs); err != nil {
				color.Yellow("  skipped %s: %v", repository, err)
				continue
			}
			fmt.Printf("  stored %d pull requests\n", len(prs))
			fetched++
		}

		if fetched == 0 {
			fmt.Fprintln(os.Stderr, "No repositories could be fetched.")
			os.Exit(1)
		}
		color.Green("Fetched %d of %d repositories into %s", fetched, len(cfg.Repositories), cfg.DataDir)
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringSliceP("repositories", "r", nil, "Repositories to fetch (owner/name, repeatable)")
	fetchCmd.Flags().String("since", "", "Only include pull requests merged on or after this date (YYYY-MM-DD)")
	fetchCmd.Flags().Int("limit", 200, "Maximum pull requests per repository")
	fetchCmd.Flags().String("data-dir", "data", "Directory for stored pull request data")
}
