// Copyright (c) 2025 AgriData, Inc. All rights reserved.

package hubdb

import (
	"context"
	"net/http"

	"github.com/agridata/hubdb-sync-tool/internal/batch"
	"github.com/agridata/hubdb-sync-tool/internal/warehouse"
	"go.uber.org/zap"
)

// UploadRows loads normalized rows into the table's draft state. Each row is
// wrapped in the create endpoint's values envelope, partitioned into batches
// in original row order, and submitted one batch per request.
//
// There is no per-row status inside a batch: a 200/201 response marks the
// whole batch succeeded, anything else marks it failed. Failed batches are
// logged with status and a truncated body and the remaining batches still
// run. The returned outcome list carries one entry per batch.
func (c *Client) UploadRows(ctx context.Context, rows []warehouse.Row) []BatchOutcome {
	inputs := make([]rowInput, len(rows))
	for i, row := range rows {
		inputs[i] = rowInput{Values: row}
	}

	batches, err := batch.Partition(inputs, c.batchSize)
	if err != nil {
		// Batch size is validated at config load; reaching this is a
		// programming error.
		c.logger.Error("Failed to partition rows", zap.Error(err))
		return []BatchOutcome{{Index: 0, Rows: len(rows), Err: err}}
	}

	c.logger.Info("Inserting rows",
		zap.Int("rows", len(rows)),
		zap.Int("batches", len(batches)),
		zap.Int("batch_size", c.batchSize))

	createURL := c.tableURL + "/rows/draft/batch/create"
	outcomes := make([]BatchOutcome, 0, len(batches))
	inserted := 0

	for i, b := range batches {
		outcome := BatchOutcome{Index: i, Rows: len(b)}

		status, body, err := c.doJSON(ctx, http.MethodPost, createURL, batchInput[rowInput]{Inputs: b})
		outcome.StatusCode = status

		switch {
		case err != nil:
			outcome.Err = err
			c.logger.Error("Insert batch failed",
				zap.Int("batch", i+1),
				zap.Int("total_batches", len(batches)),
				zap.Error(err))
		case status != http.StatusOK && status != http.StatusCreated:
			outcome.Err = &StatusError{Status: status}
			c.logger.Error("Insert batch failed",
				zap.Int("batch", i+1),
				zap.Int("total_batches", len(batches)),
				zap.Int("status", status),
				zap.String("body", truncate(body)))
		default:
			inserted += len(b)
			c.logger.Info("Inserted batch",
				zap.Int("batch", i+1),
				zap.Int("total_batches", len(batches)),
				zap.Int("inserted", inserted),
				zap.Int("total", len(rows)))
		}

		outcomes = append(outcomes, outcome)
	}

	succeeded, failed := Totals(outcomes)
	c.logger.Info("Insert complete",
		zap.Int("succeeded", succeeded),
		zap.Int("failed", failed))

	return outcomes
}
