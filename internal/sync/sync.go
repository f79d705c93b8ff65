// Copyright (c) 2025 AgriData, Inc. All rights reserved.

// Package sync sequences one full-refresh run: extract, erase, upload,
// publish.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/agridata/hubdb-sync-tool/internal/hubdb"
	"github.com/agridata/hubdb-sync-tool/internal/warehouse"
	"go.uber.org/zap"
)

// Outcome classifies how a run ended.
type Outcome int

const (
	// OutcomeSuccess means every row reached the draft and the table was
	// published.
	OutcomeSuccess Outcome = iota
	// OutcomeNothingToSync means the source query returned zero rows and
	// the destination was never touched.
	OutcomeNothingToSync
	// OutcomePartial means some batches failed, or publish did not go
	// through; the run still completed.
	OutcomePartial
	// OutcomeFatal means extraction (or setup) failed before any
	// destination mutation.
	OutcomeFatal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNothingToSync:
		return "nothing-to-sync"
	case OutcomePartial:
		return "partial"
	case OutcomeFatal:
		return "fatal"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the run summary returned to the caller so outcomes can be
// asserted on without parsing logs.
type Result struct {
	Outcome       Outcome
	RowsSucceeded int
	RowsFailed    int
	RowsDeleted   int
	Published     bool
	Elapsed       time.Duration
	Err           error // Set only for OutcomeFatal
}

// RowFetcher extracts the complete normalized result set from the source.
type RowFetcher interface {
	FetchRows(ctx context.Context) (*warehouse.ResultSet, error)
	Close() error
}

// Destination is the draft-state surface of the target table.
type Destination interface {
	ClearDraft(ctx context.Context) (int, error)
	UploadRows(ctx context.Context, rows []warehouse.Row) []hubdb.BatchOutcome
	PublishDraft(ctx context.Context) bool
}

// Syncer runs the pipeline strictly sequentially: no concurrency, no
// retries.
type Syncer struct {
	fetcher RowFetcher
	dest    Destination
	logger  *zap.Logger
}

func New(fetcher RowFetcher, dest Destination, logger *zap.Logger) *Syncer {
	return &Syncer{
		fetcher: fetcher,
		dest:    dest,
		logger:  logger,
	}
}

// Run executes one sync. Extraction failure is fatal; erase and upload
// swallow per-batch failures internally; publish happens only when at least
// one row landed. The run always ends with a Result, never a panic.
func (s *Syncer) Run(ctx context.Context) (result *Result) {
	start := time.Now()
	result = &Result{}

	defer func() {
		result.Elapsed = time.Since(start)
		if r := recover(); r != nil {
			s.logger.Error("Unexpected fault during sync", zap.Any("fault", r))
			result.Outcome = OutcomeFatal
			result.Err = fmt.Errorf("unexpected fault: %v", r)
		}
	}()

	rs, err := s.extract(ctx)
	if err != nil {
		s.logger.Error("Extraction failed", zap.Error(err))
		result.Outcome = OutcomeFatal
		result.Err = err
		return result
	}

	if len(rs.Rows) == 0 {
		s.logger.Info("No data returned from warehouse, nothing to sync")
		result.Outcome = OutcomeNothingToSync
		return result
	}

	deleted, err := s.dest.ClearDraft(ctx)
	if err != nil {
		// Best-effort: stale rows may remain in the draft, but aborting
		// would achieve even less.
		s.logger.Error("Failed to clear existing rows, continuing", zap.Error(err))
	}
	result.RowsDeleted = deleted

	s.logger.Info("Transforming rows to HubDB format", zap.Int("rows", len(rs.Rows)))

	outcomes := s.dest.UploadRows(ctx, rs.Rows)
	result.RowsSucceeded, result.RowsFailed = hubdb.Totals(outcomes)

	if result.RowsSucceeded > 0 {
		result.Published = s.dest.PublishDraft(ctx)
	} else {
		s.logger.Warn("No rows uploaded, skipping publish")
	}

	switch {
	case result.RowsFailed == 0 && result.Published:
		result.Outcome = OutcomeSuccess
	default:
		result.Outcome = OutcomePartial
	}

	return result
}

// extract fetches the full result set and releases the source connection on
// every path so it is never held across the destination phases.
func (s *Syncer) extract(ctx context.Context) (*warehouse.ResultSet, error) {
	defer func() {
		if err := s.fetcher.Close(); err != nil {
			s.logger.Warn("Failed to close warehouse connection", zap.Error(err))
		}
	}()

	return s.fetcher.FetchRows(ctx)
}
