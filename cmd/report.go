package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/pr-stats/internal/config"
	"github.com/naka-gawa/pr-stats/internal/ignore"
	"github.com/naka-gawa/pr-stats/internal/report"
	"github.com/naka-gawa/pr-stats/internal/storage"
	"github.com/naka-gawa/pr-stats/internal/usecase"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Aggregates stored pull request data into a Markdown report",
	Long: `Loads the per-repository JSON documents written by fetch, aggregates
them into global and per-repository leaderboards under the configured
ignore rules, writes the Markdown report, and prints a console summary.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger(cmd)

		cfg, err := config.Load(cmd.Flags())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}

		store := storage.NewStore(logger)
		prs, err := store.LoadAll(cfg.DataDir)
		if err != nil {
			if errors.Is(err, storage.ErrNoData) {
				fmt.Fprintf(os.Stderr, "Nothing to report: %v\nRun `pr-stats fetch` first.\n", err)
			} else {
				fmt.Fprintf(os.Stderr, "Failed to load stored data: %v\n", err)
			}
			os.Exit(1)
		}

		rules := ignore.Load(cfg.IgnoreFile, logger)
		aggregator := usecase.NewAggregator(rules, logger)
		result, err := aggregator.Aggregate(prs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to aggregate: %v\n", err)
			os.Exit(1)
		}

		markdown := report.Markdown(result, time.Now())
		if err := store.WriteReport(cfg.Output, markdown); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write report: %v\n", err)
			os.Exit(1)
		}

		report.ConsoleSummary(os.Stdout, result, cfg.Output)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().String("data-dir", "data", "Directory with stored pull request data")
	reportCmd.Flags().String("output", "report.md", "Path of the Markdown report to write")
	reportCmd.Flags().String("ignore-file", "ignore.yaml", "YAML file with per-repository ignore rules")
}
