// Copyright (c) 2025 AgriData, Inc. All rights reserved.

package warehouse

// Row maps column name to a normalized scalar value. Column order lives on
// the owning ResultSet; map iteration order is irrelevant to the sync.
type Row map[string]any

// ResultSet is the complete ordered extraction of one run. Columns holds the
// query's column order, read once from the result metadata; Rows holds every
// record in source-determined order with all values already normalized.
type ResultSet struct {
	Columns []string
	Rows    []Row
}
