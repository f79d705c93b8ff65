// Copyright (c) 2025 AgriData, Inc. All rights reserved.

package warehouse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ColumnKind classifies a source column for normalization. The driver's
// database type name determines the kind once per query; every value in the
// column is then normalized the same way.
type ColumnKind int

const (
	// KindScalar values (integers, floats, strings, booleans) pass through
	// unchanged.
	KindScalar ColumnKind = iota
	// KindDate columns carry a calendar date with no time component.
	KindDate
	// KindDateTime columns carry a full temporal instant.
	KindDateTime
	// KindDecimal columns carry arbitrary-precision decimals, which the
	// driver surfaces as byte strings.
	KindDecimal
)

// KindOf maps a driver database type name to a ColumnKind.
func KindOf(databaseTypeName string) ColumnKind {
	switch strings.ToUpper(databaseTypeName) {
	case "DATE":
		return KindDate
	case "DATETIME", "TIMESTAMP":
		return KindDateTime
	case "DECIMAL", "NUMERIC":
		return KindDecimal
	default:
		return KindScalar
	}
}

// NormalizeValue converts one source scalar into the representation HubDB
// accepts:
//
//   - temporal instants become epoch milliseconds, interpreted in the
//     timezone the driver already decoded them in (no conversion applied)
//   - dates become epoch milliseconds for midnight of that date, via the
//     same instant conversion
//   - decimals become float64; precision loss is accepted
//   - nulls pass through as nil
//   - everything else passes through unchanged
//
// The mapping is total over the kinds the warehouse can emit. A value whose
// Go type contradicts its column kind indicates a driver or schema problem
// and fails the extraction rather than being silently coerced.
func NormalizeValue(v any, kind ColumnKind) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch kind {
	case KindDateTime:
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("datetime column holds %T, expected time.Time", v)
		}
		return t.UnixMilli(), nil

	case KindDate:
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("date column holds %T, expected time.Time", v)
		}
		// Midnight of the date, in the same location the driver decoded.
		midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		return midnight.UnixMilli(), nil

	case KindDecimal:
		var s string
		switch d := v.(type) {
		case []byte:
			s = string(d)
		case string:
			s = d
		case float64:
			// Already normalized; idempotent by construction.
			return d, nil
		default:
			return nil, fmt.Errorf("decimal column holds %T, expected string form", v)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("decimal column holds unparseable value %q: %w", s, err)
		}
		return f, nil

	default:
		// The driver hands text columns back as []byte.
		if b, ok := v.([]byte); ok {
			return string(b), nil
		}
		return v, nil
	}
}
