// Copyright (c) 2025 AgriData, Inc. All rights reserved.

// Package hubdb talks to one HubDB table's draft-state REST endpoints:
// paginated row listing, batched purge and create, and draft publish.
package hubdb

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/agridata/hubdb-sync-tool/internal/config"
	"go.uber.org/zap"
)

// responseBodyLogLimit caps error bodies quoted in log lines.
const responseBodyLogLimit = 300

// Client is an authenticated handle on one HubDB table.
type Client struct {
	tableURL  string
	token     string
	pageSize  int
	batchSize int
	http      *http.Client
	logger    *zap.Logger
}

// NewClient builds a client for the configured table. TLS verification is on
// unless the operator opted out with -insecure-skip-verify.
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	httpClient := &http.Client{}
	if cfg.InsecureSkipVerify {
		logger.Warn("TLS certificate verification disabled for HubSpot calls")
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &Client{
		tableURL:  cfg.TableURL(),
		token:     cfg.HubSpotToken,
		pageSize:  cfg.PageSize,
		batchSize: cfg.BatchSize,
		http:      httpClient,
		logger:    logger,
	}
}

// doJSON issues one authenticated JSON request and returns the status code
// and response body.
func (c *Client) doJSON(ctx context.Context, method, rawURL string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, respBody, nil
}

// ListDraftRowIDs enumerates every row identifier currently in the table's
// draft state, following the continuation cursor until the API stops
// returning one. The full set is accumulated before the caller deletes
// anything.
func (c *Client) ListDraftRowIDs(ctx context.Context) ([]RowID, error) {
	var ids []RowID
	after := ""

	for {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(c.pageSize))
		if after != "" {
			params.Set("after", after)
		}

		listURL := c.tableURL + "/rows/draft?" + params.Encode()
		status, body, err := c.doJSON(ctx, http.MethodGet, listURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to list draft rows: %w", err)
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("list draft rows returned status %d: %s", status, truncate(body))
		}

		var page listResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("failed to decode row listing: %w", err)
		}

		for _, r := range page.Results {
			ids = append(ids, r.ID)
		}

		if page.Paging == nil || page.Paging.Next == nil || page.Paging.Next.After == "" {
			break
		}
		after = page.Paging.Next.After
	}

	return ids, nil
}

// PublishDraft promotes the table's draft state to its live state in one
// request. The result is reported as a boolean; there is no retry.
func (c *Client) PublishDraft(ctx context.Context) bool {
	c.logger.Info("Publishing table to make changes live")

	status, body, err := c.doJSON(ctx, http.MethodPost, c.tableURL+"/draft/publish", nil)
	if err != nil {
		c.logger.Error("Publish request failed", zap.Error(err))
		return false
	}

	if status != http.StatusOK && status != http.StatusCreated {
		c.logger.Error("Publish failed",
			zap.Int("status", status),
			zap.String("body", truncate(body)))
		return false
	}

	c.logger.Info("Table published successfully")
	return true
}

// truncate bounds a response body for log output.
func truncate(body []byte) string {
	if len(body) > responseBodyLogLimit {
		return string(body[:responseBodyLogLimit])
	}
	return string(body)
}
