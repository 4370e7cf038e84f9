// Package pipeline wires the three floorsheet processing stages. Every stage
// is a strict load-transform-persist sequence over whole tables and is safe
// to re-run against the same or overlapping inputs.
package pipeline

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"nepsecli/internal/store"
)

// Runner executes pipeline stages against the persisted tables.
type Runner struct {
	store  *store.Store
	logger *slog.Logger
}

// NewRunner creates a stage runner. A nil logger falls back to slog.Default.
func NewRunner(st *store.Store, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{store: st, logger: logger}
}

// Report describes the outcome of a stage run.
type Report struct {
	RunID string
	// NoOp is set when the stage legitimately had nothing new to write
	// while a valid table remains on disk.
	NoOp        bool
	RowsWritten int
	// RowsExpired counts persisted or incoming rows dropped by the
	// retention window during this run.
	RowsExpired int
	// Duplicates counts raw rows replaced by the incoming batch.
	Duplicates int
	// DatesReplaced counts dates whose summary rows were superseded.
	DatesReplaced int
	Elapsed       time.Duration
}

// stageLogger returns a logger carrying the stage name and a fresh run id.
func (r *Runner) stageLogger(stage string) (*slog.Logger, string) {
	runID := uuid.NewString()
	return r.logger.With(
		slog.String("stage", stage),
		slog.String("run_id", runID),
	), runID
}
