// Package main provides a one-shot reporting tool: fetch, aggregate, print.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/bet-signals/internal/config"
	"github.com/yourusername/bet-signals/internal/database"
	"github.com/yourusername/bet-signals/internal/logger"
	"github.com/yourusername/bet-signals/internal/rowsource"
	"github.com/yourusername/bet-signals/internal/service"
)

func main() {
	var (
		configPath string
		view       string
	)

	rootCmd := &cobra.Command{
		Use:   "signals-report",
		Short: "Fetches the current rows and prints one aggregated view as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, view)
		},
	}
	rootCmd.Flags().StringVar(&configPath, "config", "config/config.yaml", "path to config file")
	rootCmd.Flags().StringVar(&view, "view", "stats", "view to print: stats, daily, monthly, transparency, predictions, history")

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("signals-report: %v", err)
	}
}

func run(configPath, view string) error {
	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog := logger.NewLogger("warn", cfg.IsProduction())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var source rowsource.RowSource
	switch cfg.Source.Kind {
	case config.SourceKindSheet:
		client := rowsource.NewRateLimitedHTTPClient(rowsource.DefaultHTTPClientConfig(), appLog)
		source = rowsource.NewSheetSource(cfg.Sheet.URL, client, appLog)
	case config.SourceKindPostgres:
		db, err := database.NewDB(ctx, &cfg.Database)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer db.Close()
		source = rowsource.NewPostgresSource(db, cfg.Database.Table, appLog)
	default:
		return fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}

	rows, err := source.FetchRows(ctx)
	if err != nil {
		return fmt.Errorf("fetching rows: %w", err)
	}

	records, dropped := service.NewNormalizer(appLog).NormalizeRows(rows)
	fmt.Fprintf(os.Stderr, "fetched %d rows, normalized %d records (%d dropped)\n", len(rows), len(records), dropped)

	agg := service.NewAggregator(cfg.Aggregation.StakeUnit, cfg.Aggregation.WindowDays)

	var out interface{}
	switch view {
	case "stats":
		out = agg.SportStats(records)
	case "daily":
		out = agg.DailySnapshot(records)
	case "monthly":
		out = agg.MonthlyReport(records)
	case "transparency":
		out = agg.Transparency(records)
	case "predictions":
		out = agg.Predictions(records)
	case "history":
		out = agg.History(records, service.HistoryQuery{})
	default:
		return fmt.Errorf("unknown view %q", view)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
