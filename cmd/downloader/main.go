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
	"nepsecli/internal/domain"
	"nepsecli/internal/fetch"
	"nepsecli/internal/infrastructure"
	"nepsecli/internal/pipeline"
	"nepsecli/internal/store"
)

func main() {
	dateStr := flag.String("date", "", "specific date to download in format YYYY-MM-DD (empty for latest)")
	maxPages := flag.Int("max-pages", 0, "maximum number of pages to download (0 = all)")
	output := flag.String("output", "", "output file path for the raw data (defaults to <data_dir>/raw_floorsheet.csv)")
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

	if *output == "" {
		*output = paths.RawFloorsheetCSV
	}
	if *retentionDays <= 0 {
		*retentionDays = cfg.Retention.Days
	}

	var targetDate time.Time
	if *dateStr != "" {
		targetDate, err = time.Parse(domain.DateFormat, *dateStr)
		if err != nil {
			logger.Error("Invalid --date value",
				slog.String("date", *dateStr),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("Starting floorsheet download",
		slog.String("output", *output),
		slog.String("target_date", *dateStr),
		slog.Int("max_pages", *maxPages),
		slog.Int("retention_days", *retentionDays))

	ctx := context.Background()
	client := fetch.NewClient(cfg.Source, logger)

	result, err := client.Fetch(ctx, targetDate, *maxPages)
	if err != nil {
		logger.Error("Floorsheet download failed", slog.String("error", err.Error()))
		fmt.Println("No data was downloaded.")
		os.Exit(1)
	}

	fmt.Printf("Downloaded %d transactions for %s (%d of %d pages)\n",
		len(result.Records),
		result.TradingDate.Format(domain.DateFormat),
		result.PagesFetched,
		result.TotalPages)
	if result.Incomplete {
		fmt.Println("Warning: download incomplete, later pages failed; re-run to fetch the rest")
	}

	cutoff := dataprocessing.CutoffDate(time.Now(), *retentionDays)
	runner := pipeline.NewRunner(store.New(logger), logger)

	report, err := runner.RunRawStore(ctx, *output, result.Records, cutoff)
	if err != nil {
		logger.Error("Failed to store downloaded data", slog.String("error", err.Error()))
		fmt.Println("Failed to save the downloaded data")
		os.Exit(1)
	}

	if report.NoOp {
		fmt.Println("No data left after applying retention policy")
		return
	}

	fmt.Println("\nDownload Summary:")
	fmt.Printf("Total records downloaded: %d\n", len(result.Records))
	fmt.Printf("Trading date: %s\n", result.TradingDate.Format(domain.DateFormat))
	fmt.Printf("Duplicate records replaced: %d\n", report.Duplicates)
	fmt.Printf("Raw data saved to: %s (%d records)\n", *output, report.RowsWritten)
	fmt.Printf("Data retention: keeping last %d days only\n", *retentionDays)
}
