package pipeline

import (
	"context"
	"log/slog"
	"time"

	"nepsecli/internal/dataprocessing"
	"nepsecli/internal/errors"
)

// RunGlobalRollup folds the entire per-date summary table into one all-time
// row per (broker, symbol) pair and overwrites the persisted global table
// wholesale. Retention is not re-applied here: the date summary table was
// already pruned upstream.
func (r *Runner) RunGlobalRollup(ctx context.Context, inputPath, outputPath string) (*Report, error) {
	logger, runID := r.stageLogger("global-rollup")
	started := time.Now()
	report := &Report{RunID: runID}

	// Load
	dateSummaries, err := r.store.LoadDateSummaries(ctx, inputPath)
	if err != nil {
		if errors.IsType(err, errors.ErrTypeNotFound) {
			return nil, errors.NewSourceError("no date summaries to aggregate", err)
		}
		return nil, err
	}
	if len(dateSummaries) == 0 {
		return nil, errors.NewSourceError("no date summaries to aggregate", nil)
	}

	// Transform
	folded := dataprocessing.FoldGlobal(dateSummaries)
	logger.InfoContext(ctx, "folded date summaries",
		slog.Int("input_rows", len(dateSummaries)),
		slog.Int("broker_stock_count", len(folded)))

	// Persist
	if err := r.store.SaveGlobalSummaries(ctx, outputPath, folded); err != nil {
		return nil, err
	}

	report.RowsWritten = len(folded)
	report.Elapsed = time.Since(started)

	logger.InfoContext(ctx, "global rollup run complete",
		slog.Int("rows_written", report.RowsWritten),
		slog.Duration("elapsed", report.Elapsed))

	return report, nil
}
