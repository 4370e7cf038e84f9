package pipeline

import (
	"context"
	"log/slog"
	"time"

	"nepsecli/internal/dataprocessing"
	"nepsecli/internal/domain"
	"nepsecli/internal/errors"
)

// RunRawStore merges a freshly fetched transaction batch into the persisted
// raw floorsheet table at path. The batch wins on key collisions, the
// retention cutoff prunes both the batch and the stored table, and the write
// replaces the file atomically. An empty batch is a stage failure; a batch
// fully expired by retention is a no-op when no stored table exists yet.
func (r *Runner) RunRawStore(ctx context.Context, path string, batch []domain.TransactionRecord, cutoff time.Time) (*Report, error) {
	logger, runID := r.stageLogger("raw-store")
	started := time.Now()
	report := &Report{RunID: runID}

	if len(batch) == 0 {
		return nil, errors.NewSourceError("no transactions to store", nil)
	}

	// Load
	existing, err := r.store.LoadTransactions(ctx, path)
	existingTablePresent := true
	if err != nil {
		if !errors.IsType(err, errors.ErrTypeNotFound) {
			logger.WarnContext(ctx, "could not read existing raw table, treating as empty",
				slog.String("path", path),
				slog.String("error", err.Error()))
		} else {
			logger.InfoContext(ctx, "no existing raw table", slog.String("path", path))
		}
		existing = nil
		existingTablePresent = false
	}

	// Transform
	existingKept, expiredExisting := dataprocessing.ApplyRetention(existing, transactionDate, cutoff)
	batchKept, expiredBatch := dataprocessing.ApplyRetention(batch, transactionDate, cutoff)
	report.RowsExpired = expiredExisting + expiredBatch

	if report.RowsExpired > 0 {
		logger.InfoContext(ctx, "retention window pruned rows",
			slog.String("cutoff", cutoff.Format(domain.DateFormat)),
			slog.Int("expired", report.RowsExpired))
	}

	if len(batchKept) == 0 && !existingTablePresent {
		logger.WarnContext(ctx, "batch fully expired and no stored table, skipping write")
		report.NoOp = true
		report.Elapsed = time.Since(started)
		return report, nil
	}

	merged, duplicates := dataprocessing.MergeTransactions(existingKept, batchKept)
	report.Duplicates = duplicates
	if duplicates > 0 {
		logger.InfoContext(ctx, "batch overlaps stored table",
			slog.Int("duplicates", duplicates))
	}

	// Persist
	if err := r.store.SaveTransactions(ctx, path, merged); err != nil {
		return nil, err
	}

	report.RowsWritten = len(merged)
	report.Elapsed = time.Since(started)

	logger.InfoContext(ctx, "raw store run complete",
		slog.Int("rows_written", report.RowsWritten),
		slog.Int("duplicates", report.Duplicates),
		slog.Int("rows_expired", report.RowsExpired),
		slog.Duration("elapsed", report.Elapsed))

	return report, nil
}

func transactionDate(r domain.TransactionRecord) time.Time {
	return r.Date
}
