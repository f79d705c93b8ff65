// Copyright (c) 2025 AgriData, Inc. All rights reserved.

package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/agridata/hubdb-sync-tool/internal/hubdb"
	"github.com/agridata/hubdb-sync-tool/internal/warehouse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeFetcher struct {
	rs     *warehouse.ResultSet
	err    error
	closed bool
}

func (f *fakeFetcher) FetchRows(ctx context.Context) (*warehouse.ResultSet, error) {
	return f.rs, f.err
}

func (f *fakeFetcher) Close() error {
	f.closed = true
	return nil
}

type fakeDest struct {
	clearCalls   int
	clearDeleted int
	clearErr     error

	uploadCalls    int
	uploadOutcomes []hubdb.BatchOutcome
	gotRows        []warehouse.Row

	publishCalls int
	publishOK    bool
}

func (d *fakeDest) ClearDraft(ctx context.Context) (int, error) {
	d.clearCalls++
	return d.clearDeleted, d.clearErr
}

func (d *fakeDest) UploadRows(ctx context.Context, rows []warehouse.Row) []hubdb.BatchOutcome {
	d.uploadCalls++
	d.gotRows = rows
	return d.uploadOutcomes
}

func (d *fakeDest) PublishDraft(ctx context.Context) bool {
	d.publishCalls++
	return d.publishOK
}

func resultSet(n int) *warehouse.ResultSet {
	rs := &warehouse.ResultSet{Columns: []string{"week_index"}}
	for i := 0; i < n; i++ {
		rs.Rows = append(rs.Rows, warehouse.Row{"week_index": int64(i)})
	}
	return rs
}

func TestRun_Success(t *testing.T) {
	fetcher := &fakeFetcher{rs: resultSet(250)}
	dest := &fakeDest{
		clearDeleted: 40,
		uploadOutcomes: []hubdb.BatchOutcome{
			{Index: 0, Rows: 100},
			{Index: 1, Rows: 100},
			{Index: 2, Rows: 50},
		},
		publishOK: true,
	}

	result := New(fetcher, dest, zaptest.NewLogger(t)).Run(t.Context())

	assert.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Equal(t, 250, result.RowsSucceeded)
	assert.Zero(t, result.RowsFailed)
	assert.Equal(t, 40, result.RowsDeleted)
	assert.True(t, result.Published)
	assert.True(t, fetcher.closed, "warehouse connection must be released")
	assert.Equal(t, 1, dest.clearCalls)
	assert.Equal(t, 1, dest.publishCalls)
	assert.Len(t, dest.gotRows, 250)
}

func TestRun_EmptySourceTouchesNothing(t *testing.T) {
	fetcher := &fakeFetcher{rs: resultSet(0)}
	dest := &fakeDest{}

	result := New(fetcher, dest, zaptest.NewLogger(t)).Run(t.Context())

	assert.Equal(t, OutcomeNothingToSync, result.Outcome)
	assert.Zero(t, dest.clearCalls)
	assert.Zero(t, dest.uploadCalls)
	assert.Zero(t, dest.publishCalls)
	assert.True(t, fetcher.closed)
}

func TestRun_ExtractionFailureIsFatal(t *testing.T) {
	fetchErr := errors.New("query failed: table missing")
	fetcher := &fakeFetcher{err: fetchErr}
	dest := &fakeDest{}

	result := New(fetcher, dest, zaptest.NewLogger(t)).Run(t.Context())

	assert.Equal(t, OutcomeFatal, result.Outcome)
	require.ErrorIs(t, result.Err, fetchErr)
	assert.Zero(t, dest.clearCalls, "destination must not be touched after fatal extraction")
	assert.Zero(t, dest.uploadCalls)
	assert.Zero(t, dest.publishCalls)
	assert.True(t, fetcher.closed)
}

func TestRun_AllBatchesFailSkipsPublish(t *testing.T) {
	fetcher := &fakeFetcher{rs: resultSet(200)}
	dest := &fakeDest{
		uploadOutcomes: []hubdb.BatchOutcome{
			{Index: 0, Rows: 100, StatusCode: 500, Err: &hubdb.StatusError{Status: 500}},
			{Index: 1, Rows: 100, StatusCode: 500, Err: &hubdb.StatusError{Status: 500}},
		},
	}

	result := New(fetcher, dest, zaptest.NewLogger(t)).Run(t.Context())

	assert.Equal(t, OutcomePartial, result.Outcome)
	assert.Zero(t, result.RowsSucceeded)
	assert.Equal(t, 200, result.RowsFailed)
	assert.Zero(t, dest.publishCalls, "publish must be skipped when nothing succeeded")
	assert.False(t, result.Published)
}

func TestRun_PartialFailureStillPublishes(t *testing.T) {
	fetcher := &fakeFetcher{rs: resultSet(2500)}
	outcomes := make([]hubdb.BatchOutcome, 25)
	for i := range outcomes {
		outcomes[i] = hubdb.BatchOutcome{Index: i, Rows: 100}
	}
	outcomes[4] = hubdb.BatchOutcome{Index: 4, Rows: 100, StatusCode: 500, Err: &hubdb.StatusError{Status: 500}}
	dest := &fakeDest{uploadOutcomes: outcomes, publishOK: true}

	result := New(fetcher, dest, zaptest.NewLogger(t)).Run(t.Context())

	assert.Equal(t, OutcomePartial, result.Outcome)
	assert.Equal(t, 2400, result.RowsSucceeded)
	assert.Equal(t, 100, result.RowsFailed)
	assert.Equal(t, 1, dest.publishCalls)
	assert.True(t, result.Published)
}

func TestRun_ClearFailureContinues(t *testing.T) {
	fetcher := &fakeFetcher{rs: resultSet(100)}
	dest := &fakeDest{
		clearErr:       errors.New("list draft rows returned status 503"),
		uploadOutcomes: []hubdb.BatchOutcome{{Index: 0, Rows: 100}},
		publishOK:      true,
	}

	result := New(fetcher, dest, zaptest.NewLogger(t)).Run(t.Context())

	// Stale rows may remain, but the upload and publish still happen.
	assert.Equal(t, 1, dest.uploadCalls)
	assert.Equal(t, 1, dest.publishCalls)
	assert.Equal(t, OutcomeSuccess, result.Outcome)
}

func TestRun_PublishFailureIsPartial(t *testing.T) {
	fetcher := &fakeFetcher{rs: resultSet(100)}
	dest := &fakeDest{
		uploadOutcomes: []hubdb.BatchOutcome{{Index: 0, Rows: 100}},
		publishOK:      false,
	}

	result := New(fetcher, dest, zaptest.NewLogger(t)).Run(t.Context())

	assert.Equal(t, OutcomePartial, result.Outcome)
	assert.Equal(t, 100, result.RowsSucceeded)
	assert.False(t, result.Published)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "success", OutcomeSuccess.String())
	assert.Equal(t, "nothing-to-sync", OutcomeNothingToSync.String())
	assert.Equal(t, "partial", OutcomePartial.String())
	assert.Equal(t, "fatal", OutcomeFatal.String())
}
