// Copyright (c) 2025 AgriData, Inc. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agridata/hubdb-sync-tool/internal/config"
	"github.com/agridata/hubdb-sync-tool/internal/hubdb"
	hublog "github.com/agridata/hubdb-sync-tool/internal/log"
	"github.com/agridata/hubdb-sync-tool/internal/secrets"
	"github.com/agridata/hubdb-sync-tool/internal/sync"
	"github.com/agridata/hubdb-sync-tool/internal/warehouse"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := hublog.NewLogger("", "hubdb-sync", cfg.Debug, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Resolve the HubSpot token from Secrets Manager when not given directly
	if cfg.HubSpotToken == "" {
		token, err := secrets.ResolveHubSpotToken(ctx, cfg.HubSpotTokenSecret, cfg.AWSRegion)
		if err != nil {
			logger.Error("Failed to resolve HubSpot token", zap.Error(err))
			os.Exit(1)
		}
		cfg.HubSpotToken = token
	}

	// Resolve the warehouse password from Secrets Manager when not given directly
	if cfg.WarehousePassword == "" && cfg.WarehousePasswordSecret != "" {
		pwd, err := secrets.ResolveWarehousePassword(ctx, cfg.WarehousePasswordSecret, cfg.AWSRegion)
		if err != nil {
			logger.Error("Failed to resolve warehouse password", zap.Error(err))
			os.Exit(1)
		}
		cfg.WarehousePassword = pwd
	}

	logger.Info("Starting HubDB sync",
		zap.String("table_id", cfg.TableID),
		zap.String("source_view", cfg.SourceView))

	if !cfg.Quiet {
		fmt.Println()
		fmt.Println(strings.Repeat("=", 60))
		fmt.Println("  HubDB Sync — Starting")
		fmt.Println(strings.Repeat("=", 60))
		fmt.Println()
	}

	// Connect to the warehouse; this is the only fatal setup step that
	// touches an external system.
	extractor, err := warehouse.NewExtractor(cfg, logger)
	if err != nil {
		logger.Error("Failed to connect to warehouse", zap.Error(err))
		os.Exit(1)
	}

	client := hubdb.NewClient(cfg, logger)

	result := sync.New(extractor, client, logger).Run(ctx)

	printSummary(os.Stdout, cfg.Quiet, *result)

	if result.Outcome == sync.OutcomeFatal {
		os.Exit(1)
	}

	logger.Info("Sync completed",
		zap.String("outcome", result.Outcome.String()),
		zap.Int("succeeded", result.RowsSucceeded),
		zap.Int("failed", result.RowsFailed))
}

// printSummary writes the closing banner. Quiet mode suppresses it entirely;
// the structured log line above carries the same numbers for scripts.
func printSummary(w io.Writer, quiet bool, result sync.Result) {
	if quiet {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "  Sync %s — %d rows in %.1fs\n",
		result.Outcome, result.RowsSucceeded, result.Elapsed.Seconds())
	if result.RowsFailed > 0 {
		fmt.Fprintf(w, "  %d rows failed — check logs above\n", result.RowsFailed)
	}
	if result.RowsDeleted > 0 {
		fmt.Fprintf(w, "  %d stale rows cleared\n", result.RowsDeleted)
	}
	if result.RowsSucceeded > 0 && !result.Published {
		fmt.Fprintln(w, "  Publish did not go through — draft changes are staged but not live")
	}
	if result.Err != nil {
		fmt.Fprintf(w, "  Error: %v\n", result.Err)
	}
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w)
}
