package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"nepsecli/internal/config"
	"nepsecli/internal/dataprocessing"
	"nepsecli/internal/infrastructure"
	"nepsecli/internal/pipeline"
	"nepsecli/internal/store"
)

func main() {
	input := flag.String("input", "", "input file path for raw floorsheet data (defaults to <data_dir>/raw_floorsheet.csv)")
	output := flag.String("output", "", "output file path for date-wise summarized data (defaults to <data_dir>/date_summarized_floorsheet.csv)")
	retentionDays := flag.Int("retention-days", 0, "number of days to retain data (default: configured retention, 365)")
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
		*input = paths.RawFloorsheetCSV
	}
	if *output == "" {
		*output = paths.DateSummarizedCSV
	}
	if *retentionDays <= 0 {
		*retentionDays = cfg.Retention.Days
	}

	logger.Info("Starting date-wise summarization",
		slog.String("input", *input),
		slog.String("output", *output),
		slog.Int("retention_days", *retentionDays))
	fmt.Printf("Data retention policy: %d days\n", *retentionDays)

	ctx := context.Background()
	cutoff := dataprocessing.CutoffDate(time.Now(), *retentionDays)
	runner := pipeline.NewRunner(store.New(logger), logger)

	report, err := runner.RunDateRollup(ctx, *input, *output, cutoff)
	if err != nil {
		logger.Error("Date-wise summarization failed", slog.String("error", err.Error()))
		fmt.Println("\nDate-wise summarization failed.")
		os.Exit(1)
	}

	fmt.Println("\nDate-wise summarization completed successfully.")
	fmt.Printf("Date-wise summarized data saved to: %s (%d rows)\n", *output, report.RowsWritten)
	fmt.Printf("Data retention: keeping data for the last %d days\n", *retentionDays)
}
