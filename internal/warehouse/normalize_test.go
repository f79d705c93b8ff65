// Copyright (c) 2025 AgriData, Inc. All rights reserved.

package warehouse

import (
	"testing"
	"time"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		typeName string
		want     ColumnKind
	}{
		{"DATE", KindDate},
		{"DATETIME", KindDateTime},
		{"TIMESTAMP", KindDateTime},
		{"DECIMAL", KindDecimal},
		{"NUMERIC", KindDecimal},
		{"decimal", KindDecimal},
		{"INT", KindScalar},
		{"BIGINT", KindScalar},
		{"VARCHAR", KindScalar},
		{"DOUBLE", KindScalar},
		{"TINYINT", KindScalar},
		{"", KindScalar},
	}

	for _, tt := range tests {
		if got := KindOf(tt.typeName); got != tt.want {
			t.Errorf("KindOf(%q) = %v, want %v", tt.typeName, got, tt.want)
		}
	}
}

func TestNormalizeValue_DateTime(t *testing.T) {
	instant := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	got, err := NormalizeValue(instant, KindDateTime)
	if err != nil {
		t.Fatalf("NormalizeValue() error = %v", err)
	}
	if got != instant.UnixMilli() {
		t.Errorf("expected %d, got %v", instant.UnixMilli(), got)
	}
}

func TestNormalizeValue_DateMatchesMidnightInstant(t *testing.T) {
	// Normalizing a date must yield the same milliseconds as normalizing
	// the instant at 00:00:00 of that date in the same location.
	locs := []*time.Location{time.UTC, time.FixedZone("CST", -6*3600)}
	for _, loc := range locs {
		for _, d := range []time.Time{
			time.Date(2024, 1, 1, 0, 0, 0, 0, loc),
			time.Date(2024, 2, 29, 0, 0, 0, 0, loc),
			time.Date(2025, 12, 31, 0, 0, 0, 0, loc),
			// A date the driver decoded with a stray time component.
			time.Date(2025, 6, 15, 13, 45, 0, 0, loc),
		} {
			fromDate, err := NormalizeValue(d, KindDate)
			if err != nil {
				t.Fatalf("NormalizeValue(date) error = %v", err)
			}

			midnight := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
			fromInstant, err := NormalizeValue(midnight, KindDateTime)
			if err != nil {
				t.Fatalf("NormalizeValue(instant) error = %v", err)
			}

			if fromDate != fromInstant {
				t.Errorf("date %v: got %v, instant conversion gives %v", d, fromDate, fromInstant)
			}
		}
	}
}

func TestNormalizeValue_Decimal(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    float64
		wantErr bool
	}{
		{"byte string", []byte("1234.5678"), 1234.5678, false},
		{"plain string", "42.1", 42.1, false},
		{"negative", []byte("-0.25"), -0.25, false},
		{"integer form", []byte("100"), 100, false},
		{"garbage", []byte("not-a-number"), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeValue(tt.value, KindDecimal)
			if tt.wantErr {
				if err == nil {
					t.Error("NormalizeValue() should fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeValue() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNormalizeValue_DecimalIdempotent(t *testing.T) {
	once, err := NormalizeValue([]byte("99.95"), KindDecimal)
	if err != nil {
		t.Fatalf("NormalizeValue() error = %v", err)
	}
	twice, err := NormalizeValue(once, KindDecimal)
	if err != nil {
		t.Fatalf("NormalizeValue() second pass error = %v", err)
	}
	if once != twice {
		t.Errorf("normalization not idempotent: %v != %v", once, twice)
	}
}

func TestNormalizeValue_NullPassthrough(t *testing.T) {
	for _, kind := range []ColumnKind{KindScalar, KindDate, KindDateTime, KindDecimal} {
		got, err := NormalizeValue(nil, kind)
		if err != nil {
			t.Fatalf("NormalizeValue(nil, %v) error = %v", kind, err)
		}
		if got != nil {
			t.Errorf("NormalizeValue(nil, %v) = %v, want nil", kind, got)
		}
	}
}

func TestNormalizeValue_ScalarPassthrough(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  any
	}{
		{"int64", int64(42), int64(42)},
		{"float64", 3.14, 3.14},
		{"bool", true, true},
		{"string", "herd-a", "herd-a"},
		{"byte string", []byte("herd-b"), "herd-b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeValue(tt.value, KindScalar)
			if err != nil {
				t.Fatalf("NormalizeValue() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v (%T), got %v (%T)", tt.want, tt.want, got, got)
			}
		})
	}
}

func TestNormalizeValue_TemporalTypeMismatch(t *testing.T) {
	if _, err := NormalizeValue("2024-01-01", KindDate); err == nil {
		t.Error("date column with string value should fail")
	}
	if _, err := NormalizeValue(int64(12345), KindDateTime); err == nil {
		t.Error("datetime column with integer value should fail")
	}
}
