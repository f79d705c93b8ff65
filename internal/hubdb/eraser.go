// Copyright (c) 2025 AgriData, Inc. All rights reserved.

package hubdb

import (
	"context"
	"fmt"
	"net/http"

	"github.com/agridata/hubdb-sync-tool/internal/batch"
	"go.uber.org/zap"
)

// ClearDraft empties the table's draft state ahead of re-population. HubDB
// has no atomic replace-all operation, so this enumerates every draft row id
// and purges them in batches. Enumeration completes before the first delete
// so a purge can never race a later page.
//
// Purging is best-effort per batch: a failed batch is logged and the rest
// proceed, since leaving stale rows behind is less harmful than aborting the
// sync. Only enumeration failure is reported as an error.
func (c *Client) ClearDraft(ctx context.Context) (int, error) {
	c.logger.Info("Fetching existing rows to delete")

	ids, err := c.ListDraftRowIDs(ctx)
	if err != nil {
		return 0, err
	}

	c.logger.Info("Found existing rows", zap.Int("count", len(ids)))

	if len(ids) == 0 {
		c.logger.Info("Nothing to delete, table already empty")
		return 0, nil
	}

	batches, err := batch.Partition(ids, c.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to partition row ids: %w", err)
	}

	purgeURL := c.tableURL + "/rows/draft/batch/purge"
	total := len(ids)
	deleted := 0

	for i, batchIDs := range batches {
		status, body, err := c.doJSON(ctx, http.MethodPost, purgeURL, batchInput[RowID]{Inputs: batchIDs})
		if err != nil {
			c.logger.Error("Delete batch failed",
				zap.Int("batch", i+1),
				zap.Int("total_batches", len(batches)),
				zap.Error(err))
			continue
		}

		if status != http.StatusOK && status != http.StatusNoContent {
			c.logger.Error("Delete batch failed",
				zap.Int("batch", i+1),
				zap.Int("total_batches", len(batches)),
				zap.Int("status", status),
				zap.String("body", truncate(body)))
			continue
		}

		deleted += len(batchIDs)
		c.logger.Info("Deleted batch",
			zap.Int("batch", i+1),
			zap.Int("total_batches", len(batches)),
			zap.Int("deleted", deleted),
			zap.Int("total", total))
	}

	c.logger.Info("Cleared rows", zap.Int("deleted", deleted))
	return deleted, nil
}
