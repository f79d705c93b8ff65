// Copyright (c) 2025 AgriData, Inc. All rights reserved.

package warehouse

import (
	"context"
	"fmt"

	"github.com/agridata/hubdb-sync-tool/internal/config"
	"github.com/agridata/hubdb-sync-tool/internal/store"
	"go.uber.org/zap"
)

const queryTimeoutSecs = 300

// Extractor runs the reporting query and yields normalized rows.
type Extractor struct {
	client *store.SQLClient
	config *config.Config
	logger *zap.Logger
}

// NewExtractor connects to the warehouse. Failure here means the source is
// unreachable, which is fatal for the run.
func NewExtractor(cfg *config.Config, logger *zap.Logger) (*Extractor, error) {
	logger.Info("Connecting to warehouse",
		zap.String("host", cfg.WarehouseHost),
		zap.String("database", cfg.WarehouseDatabase))

	client, err := store.NewSQLClient(cfg.GetWarehouseDSN(), queryTimeoutSecs)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to warehouse: %w", err)
	}

	return &Extractor{
		client: client,
		config: cfg,
		logger: logger,
	}, nil
}

// Close releases the warehouse connection. The connection is never held
// across the erase/upload/publish phases.
func (e *Extractor) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// FetchRows executes the fixed reporting query and returns the complete
// ordered result set with every value normalized. An empty result set is not
// an error; the caller treats it as nothing to sync.
func (e *Extractor) FetchRows(ctx context.Context) (*ResultSet, error) {
	query := fmt.Sprintf("SELECT * FROM %s.%s ORDER BY %s ASC",
		e.config.WarehouseDatabase, e.config.SourceView, e.config.OrderColumn)

	e.logger.Info("Executing query", zap.String("view", e.config.SourceView))

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read column names: %w", err)
	}

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}

	kinds := make([]ColumnKind, len(columnTypes))
	for i, ct := range columnTypes {
		kinds[i] = KindOf(ct.DatabaseTypeName())
	}

	e.logger.Info("Columns found", zap.Strings("columns", columns))

	result := &ResultSet{Columns: columns}

	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			normalized, err := NormalizeValue(values[i], kinds[i])
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", col, err)
			}
			row[col] = normalized
		}
		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	e.logger.Info("Fetched rows", zap.Int("count", len(result.Rows)))

	return result, nil
}
