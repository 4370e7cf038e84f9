package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"nepsecli/internal/config"
	"nepsecli/internal/infrastructure"
	"nepsecli/internal/pipeline"
	"nepsecli/internal/store"
)

func main() {
	input := flag.String("input", "", "input file path for date-wise summarized data (defaults to <data_dir>/date_summarized_floorsheet.csv)")
	output := flag.String("output", "", "output file path for aggregated data (defaults to <data_dir>/summarized_floorsheet.csv)")
	retentionDays := flag.Int("retention-days", 0, "number of days of retained data (informational; retention is enforced upstream)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	paths := config.NewPaths(cfg.Paths)
	if err := paths.EnsureDirectories(); err != nil {
		logger.Error("Failed to create required directories", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *input == "" {
		*input = paths.DateSummarizedCSV
	}
	if *output == "" {
		*output = paths.GlobalSummarizedCSV
	}

	if *retentionDays <= 0 {
		*retentionDays = cfg.Retention.Days
	}

	logger.Info("Starting all-time aggregation",
		slog.String("input", *input),
		slog.String("output", *output))
	fmt.Printf("Using date-summarized data with %d-day retention policy\n", *retentionDays)

	ctx := context.Background()
	runner := pipeline.NewRunner(store.New(logger), logger)

	report, err := runner.RunGlobalRollup(ctx, *input, *output)
	if err != nil {
		logger.Error("Aggregation failed", slog.String("error", err.Error()))
		fmt.Println("\nData aggregation failed.")
		os.Exit(1)
	}

	fmt.Println("\nData aggregation completed successfully.")
	fmt.Printf("Aggregated data saved to: %s (%d broker-stock combinations)\n", *output, report.RowsWritten)
	fmt.Println("This file contains aggregated data for all dates in the input file")
}
