// Copyright (c) 2025 AgriData, Inc. All rights reserved.

// Package batch partitions item lists into the fixed-size groups the HubDB
// batch endpoints accept per call.
package batch

import "fmt"

// Partition splits items into consecutive batches of at most size items,
// preserving input order. Every item appears in exactly one batch and the
// number of batches is Count(len(items), size).
func Partition[T any](items []T, size int) ([][]T, error) {
	if size <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", size)
	}

	if len(items) == 0 {
		return nil, nil
	}

	batches := make([][]T, 0, Count(len(items), size))
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}

	return batches, nil
}

// Count returns the number of batches needed for n items at the given batch
// size: ceil(n/size).
func Count(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}
