// Copyright (c) 2025 AgriData, Inc. All rights reserved.

package hubdb

import (
	"encoding/json"
	"fmt"
)

// StatusError marks a batch rejected with a non-success HTTP status.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Status)
}

// RowID is an opaque row identifier assigned by HubDB. The API has returned
// both string and integer forms, so the raw JSON is carried through
// unmodified and echoed back verbatim in purge requests.
type RowID = json.RawMessage

type listedRow struct {
	ID RowID `json:"id"`
}

type pagingNext struct {
	After string `json:"after"`
}

type paging struct {
	Next *pagingNext `json:"next"`
}

type listResponse struct {
	Results []listedRow `json:"results"`
	Paging  *paging     `json:"paging"`
}

// rowInput is the envelope the batch create endpoint expects: a single
// "values" key holding the row's column mapping.
type rowInput struct {
	Values map[string]any `json:"values"`
}

type batchInput[T any] struct {
	Inputs []T `json:"inputs"`
}

// BatchOutcome records the result of one batch call. Outcomes are appended
// as batches complete and folded into run totals afterwards, so the
// partial-failure accounting is testable without parsing logs.
type BatchOutcome struct {
	Index      int // 0-based batch index
	Rows       int // Items submitted in this batch
	StatusCode int // 0 when the request never completed
	Err        error
}

// Succeeded reports whether the whole batch was accepted.
func (o BatchOutcome) Succeeded() bool {
	return o.Err == nil
}

// Totals folds a list of batch outcomes into (succeeded, failed) row counts.
// A failed batch discards all of its rows from the success count.
func Totals(outcomes []BatchOutcome) (succeeded, failed int) {
	for _, o := range outcomes {
		if o.Succeeded() {
			succeeded += o.Rows
		} else {
			failed += o.Rows
		}
	}
	return succeeded, failed
}
