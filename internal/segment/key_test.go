package segment

import (
	"errors"
	"testing"
	"time"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/timerange"
)

func TestKeyString(t *testing.T) {
	r := timerange.Range{
		Start: time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 10, 9, 15, 0, 0, time.UTC),
	}

	key := NewKey("W101", r, "15min")
	if got := key.String(); got != "W101_2024-03-01_2024-03-10_15min" {
		t.Errorf("Expected W101_2024-03-01_2024-03-10_15min, got %s", got)
	}
}

func TestKeyCollapsesSubDayOffsets(t *testing.T) {
	// Viewports on the same calendar days share a key so small pans reuse
	// the fetched segment.
	morning := timerange.Range{
		Start: time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC),
	}
	evening := timerange.Range{
		Start: time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC),
	}

	if NewKey("W101", morning, "daily").String() != NewKey("W101", evening, "daily").String() {
		t.Error("Expected sub-day offsets on the same days to share a key")
	}
}

func TestParseKeyRoundTrip(t *testing.T) {
	r := timerange.Range{
		Start: time.Date(2023, 11, 5, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 2, 1, 16, 45, 0, 0, time.UTC),
	}

	testCases := []struct {
		wellID      string
		granularity string
	}{
		{"W101", "15min"},
		{"MW-22", "daily"},
		{"TN157A", "1hour"},
		{"W101", "full"},
		{"W101", "6months"},
	}

	for _, tc := range testCases {
		original := NewKey(tc.wellID, r, tc.granularity)
		parsed, err := ParseKey(original.String())
		if err != nil {
			t.Fatalf("ParseKey(%s) failed: %v", original.String(), err)
		}
		if parsed.WellID != original.WellID || parsed.Granularity != original.Granularity ||
			!parsed.Start.Equal(original.Start) || !parsed.End.Equal(original.End) {
			t.Errorf("Round trip changed the key: %+v != %+v", parsed, original)
		}
	}
}

func TestParseKeyInvalid(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{"too few components", "W101_2024-03-01_daily"},
		{"too many components", "W_101_2024-03-01_2024-03-10_daily"},
		{"empty well id", "_2024-03-01_2024-03-10_daily"},
		{"bad start date", "W101_03-01-2024_2024-03-10_daily"},
		{"bad end date", "W101_2024-03-01_notadate_daily"},
		{"reversed dates", "W101_2024-03-10_2024-03-01_daily"},
		{"unknown granularity", "W101_2024-03-01_2024-03-10_weekly"},
		{"empty string", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseKey(tc.raw); !errors.Is(err, ErrInvalidKey) {
				t.Errorf("Expected ErrInvalidKey for %q, got %v", tc.raw, err)
			}
		})
	}
}

func TestKeyRange(t *testing.T) {
	r := timerange.Range{
		Start: time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 10, 9, 15, 0, 0, time.UTC),
	}

	bounds := NewKey("W101", r, "daily").Range()
	if !bounds.Start.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected day-aligned start, got %v", bounds.Start)
	}
	if !bounds.End.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected day-aligned end, got %v", bounds.End)
	}
}

func TestKeyNonUTCInput(t *testing.T) {
	// Bounds are normalized to UTC days regardless of the input zone.
	zone := time.FixedZone("UTC+7", 7*3600)
	r := timerange.Range{
		Start: time.Date(2024, 3, 2, 3, 0, 0, 0, zone),   // 2024-03-01 20:00 UTC
		End:   time.Date(2024, 3, 10, 12, 0, 0, 0, zone), // 2024-03-10 05:00 UTC
	}

	key := NewKey("W101", r, "daily")
	if got := key.String(); got != "W101_2024-03-01_2024-03-10_daily" {
		t.Errorf("Expected UTC day normalization, got %s", got)
	}
}
