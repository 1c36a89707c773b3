package adapters

import (
	"errors"
	"fmt"
	"testing"

	"lccwatch/faregraph/internal/constants"
)

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		month string
		days  int
	}{
		{"2024-01", 31},
		{"2024-02", 29}, // leap year
		{"2023-02", 28},
		{"2024-04", 30},
		{"2024-12", 31},
	}

	for _, tc := range cases {
		days, err := DaysInMonth(tc.month)
		if err != nil {
			t.Fatalf("DaysInMonth(%q): unexpected error %v", tc.month, err)
		}
		if days != tc.days {
			t.Errorf("DaysInMonth(%q) = %d, want %d", tc.month, days, tc.days)
		}
	}
}

func TestDaysInMonth_Invalid(t *testing.T) {
	if _, err := DaysInMonth("2024/02"); err == nil {
		t.Error("Expected error for malformed month")
	}
	if _, err := DaysInMonth(""); err == nil {
		t.Error("Expected error for empty month")
	}
}

func TestZeroSeries(t *testing.T) {
	series := ZeroSeries(constants.Jetstar, "2024-02", 29)

	if len(series) != 29 {
		t.Fatalf("Expected 29 points, got %d", len(series))
	}
	if series[0].Date != "2024-02-01" {
		t.Errorf("Expected first date 2024-02-01, got %s", series[0].Date)
	}
	if series[28].Date != "2024-02-29" {
		t.Errorf("Expected last date 2024-02-29, got %s", series[28].Date)
	}
	for i, point := range series {
		if point.Price != 0 {
			t.Errorf("Expected price 0 at index %d, got %d", i, point.Price)
		}
		if point.Airline != "Jetstar" {
			t.Errorf("Expected airline Jetstar at index %d, got %s", i, point.Airline)
		}
	}
}

func TestRegistry_AllFollowsEnumerationOrder(t *testing.T) {
	// register deliberately out of order
	registry := NewRegistry(
		NewJetstarAdapter(),
		NewTigerairAdapter(),
		NewPeachAdapter(),
	)

	all := registry.All()
	if len(all) != 3 {
		t.Fatalf("Expected 3 adapters, got %d", len(all))
	}

	want := []constants.Airline{constants.TigerairTaiwan, constants.PeachAviation, constants.Jetstar}
	for i, adapter := range all {
		if adapter.Airline() != want[i] {
			t.Errorf("Position %d: expected airline %d, got %d", i, want[i], adapter.Airline())
		}
	}
}

func TestErrNotSupported_Classification(t *testing.T) {
	if ErrNotSupported.Code != constants.ErrCodeNotSupported {
		t.Errorf("Expected code %s, got %s", constants.ErrCodeNotSupported, ErrNotSupported.Code)
	}

	// wrapped sentinels must still be recognized by callers
	wrapped := fmt.Errorf("fetching route snapshot: %w", ErrNotSupported)
	if !errors.Is(wrapped, ErrNotSupported) {
		t.Error("Expected errors.Is to match the wrapped sentinel")
	}

	var srcErr *SourceError
	if !errors.As(wrapped, &srcErr) || srcErr.Code != constants.ErrCodeNotSupported {
		t.Errorf("Expected source error classification, got %v", wrapped)
	}
}

func TestRegistry_Get(t *testing.T) {
	registry := NewDefaultRegistry()

	adapter, ok := registry.Get(constants.Scoot)
	if !ok {
		t.Fatal("Expected Scoot adapter to be registered")
	}
	if adapter.Airline() != constants.Scoot {
		t.Errorf("Expected Scoot, got %d", adapter.Airline())
	}

	if _, ok := registry.Get(constants.Airline(99)); ok {
		t.Error("Expected no adapter for unknown airline")
	}
}
