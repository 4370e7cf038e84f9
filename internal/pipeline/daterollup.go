package pipeline

import (
	"context"
	"log/slog"
	"time"

	"nepsecli/internal/dataprocessing"
	"nepsecli/internal/domain"
	"nepsecli/internal/errors"
)

// RunDateRollup recomputes per-date broker-stock summaries from the raw
// floorsheet table and upserts them by date into the persisted summary
// table: every recomputed date fully replaces its stored rows, untouched
// dates survive, and the retention cutoff prunes both sides.
func (r *Runner) RunDateRollup(ctx context.Context, inputPath, outputPath string, cutoff time.Time) (*Report, error) {
	logger, runID := r.stageLogger("date-rollup")
	started := time.Now()
	report := &Report{RunID: runID}

	// Load
	raw, err := r.store.LoadTransactions(ctx, inputPath)
	if err != nil {
		if errors.IsType(err, errors.ErrTypeNotFound) {
			return nil, errors.NewSourceError("no raw data to roll up", err)
		}
		return nil, err
	}

	rawKept, expiredRaw := dataprocessing.ApplyRetention(raw, transactionDate, cutoff)
	if expiredRaw > 0 {
		logger.InfoContext(ctx, "retention window pruned raw rows",
			slog.String("cutoff", cutoff.Format(domain.DateFormat)),
			slog.Int("expired", expiredRaw))
	}
	if len(rawKept) == 0 {
		return nil, errors.NewSourceError("no raw data to roll up", nil)
	}

	// Transform
	fresh := dataprocessing.SummarizeByDate(ctx, logger, rawKept)
	if len(fresh) == 0 {
		return nil, errors.NewParsingError("no date summaries produced", nil)
	}

	existing, err := r.store.LoadDateSummaries(ctx, outputPath)
	if err != nil {
		if !errors.IsType(err, errors.ErrTypeNotFound) {
			logger.WarnContext(ctx, "could not read existing date summaries, treating as empty",
				slog.String("path", outputPath),
				slog.String("error", err.Error()))
		}
		existing = nil
	}

	existingKept, expiredExisting := dataprocessing.ApplyRetention(existing, summaryDate, cutoff)
	report.RowsExpired = expiredRaw + expiredExisting

	merged, replaced := dataprocessing.UpsertByDate(existingKept, fresh)
	report.DatesReplaced = replaced
	if replaced > 0 {
		logger.InfoContext(ctx, "replaced previously stored dates",
			slog.Int("dates_replaced", replaced))
	}

	// Persist
	if err := r.store.SaveDateSummaries(ctx, outputPath, merged); err != nil {
		return nil, err
	}

	report.RowsWritten = len(merged)
	report.Elapsed = time.Since(started)

	logger.InfoContext(ctx, "date rollup run complete",
		slog.Int("rows_written", report.RowsWritten),
		slog.Int("dates_computed", len(fresh)),
		slog.Int("dates_replaced", report.DatesReplaced),
		slog.Int("rows_expired", report.RowsExpired),
		slog.Duration("elapsed", report.Elapsed))

	return report, nil
}

func summaryDate(s domain.BrokerStockSummary) time.Time {
	return s.Date
}
