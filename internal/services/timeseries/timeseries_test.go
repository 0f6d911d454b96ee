package timeseries

import (
	"testing"
	"time"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/entities/readings"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/resolution"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/timerange"
)

func day(d int, hour int) time.Time {
	return time.Date(2024, 6, d, hour, 0, 0, 0, time.UTC)
}

func TestDayAlignedWidensSubDayViewport(t *testing.T) {
	viewport := timerange.Range{Start: day(10, 9), End: day(12, 15)}

	aligned := dayAligned(viewport)

	if !aligned.Start.Equal(day(10, 0)) {
		t.Errorf("Start should truncate to midnight, got %v", aligned.Start)
	}
	if !aligned.End.Equal(day(13, 0)) {
		t.Errorf("End should round up to next midnight, got %v", aligned.End)
	}
}

func TestDayAlignedKeepsMidnightBounds(t *testing.T) {
	viewport := timerange.Range{Start: day(10, 0), End: day(12, 0)}

	aligned := dayAligned(viewport)

	if !aligned.Start.Equal(viewport.Start) || !aligned.End.Equal(viewport.End) {
		t.Errorf("Already-aligned bounds should be unchanged, got %v", aligned)
	}
}

func TestDayAlignedZeroSpanCoversOneDay(t *testing.T) {
	at := day(10, 0)
	aligned := dayAligned(timerange.Range{Start: at, End: at})

	if aligned.Span() != 24*time.Hour {
		t.Errorf("Zero-span viewport should align to one full day, got %v", aligned.Span())
	}
}

func TestDayAlignedStableForSameDays(t *testing.T) {
	// Two sub-day viewports on the same calendar days must share one
	// segment, so the cache key derived from the aligned range matches.
	a := dayAligned(timerange.Range{Start: day(10, 2), End: day(11, 5)})
	b := dayAligned(timerange.Range{Start: day(10, 20), End: day(11, 23)})

	if !a.Start.Equal(b.Start) || !a.End.Equal(b.End) {
		t.Errorf("Same-day viewports should align identically: %v vs %v", a, b)
	}
}

func TestCropTrimsToViewport(t *testing.T) {
	level := 215.3
	rows := []readings.Response{
		{Timestamp: day(10, 1), WaterLevelFt: &level},
		{Timestamp: day(10, 12), WaterLevelFt: &level},
		{Timestamp: day(11, 6), WaterLevelFt: &level},
		{Timestamp: day(11, 23), WaterLevelFt: &level},
	}
	viewport := timerange.Range{Start: day(10, 12), End: day(11, 6)}

	got := crop(rows, viewport)

	if len(got) != 2 {
		t.Fatalf("Expected 2 rows inside viewport, got %d", len(got))
	}
	if !got[0].Timestamp.Equal(day(10, 12)) || !got[1].Timestamp.Equal(day(11, 6)) {
		t.Errorf("Crop should keep boundary rows inclusive: %+v", got)
	}
}

func TestCropEmptySegment(t *testing.T) {
	got := crop(nil, timerange.Range{Start: day(10, 0), End: day(11, 0)})
	if len(got) != 0 {
		t.Errorf("Expected empty result, got %d rows", len(got))
	}
}

func TestForceModeRecomputesEstimate(t *testing.T) {
	// A 5-day viewport the selector resolved finely, then forced to the
	// daily overview mode: the estimate must follow the coarser interval.
	viewport := timerange.Range{Start: day(10, 0), End: day(15, 0)}
	calc, err := resolution.SelectResolution(viewport, timerange.Range{})
	if err != nil {
		t.Fatalf("SelectResolution failed: %v", err)
	}
	if calc.IntervalMinutes != 15 || calc.EstimatedPoints != 480 {
		t.Fatalf("Unexpected selector baseline: interval=%v points=%d", calc.IntervalMinutes, calc.EstimatedPoints)
	}

	full, err := resolution.Lookup(resolution.ModeFull)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	got := forceMode(calc, full)

	if got.Mode != resolution.ModeFull {
		t.Errorf("Expected mode %s, got %s", resolution.ModeFull, got.Mode)
	}
	if got.IntervalMinutes != 1440 {
		t.Errorf("Expected interval 1440, got %v", got.IntervalMinutes)
	}
	if got.EstimatedPoints != 5 {
		t.Errorf("Estimate should match the overridden interval, got %d", got.EstimatedPoints)
	}
}

func TestForceModeKeepsCoarserRefinedInterval(t *testing.T) {
	// A 400-day span refines to a daily interval; forcing a finer mode must
	// not sharpen the interval or touch the estimate.
	viewport := timerange.Range{
		Start: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
	}
	calc, err := resolution.SelectResolution(viewport, timerange.Range{})
	if err != nil {
		t.Fatalf("SelectResolution failed: %v", err)
	}

	month, err := resolution.Lookup(resolution.Mode1Month)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	got := forceMode(calc, month)

	if got.Mode != resolution.Mode1Month {
		t.Errorf("Expected mode %s, got %s", resolution.Mode1Month, got.Mode)
	}
	if got.IntervalMinutes != calc.IntervalMinutes {
		t.Errorf("Coarser refined interval should survive: %v -> %v", calc.IntervalMinutes, got.IntervalMinutes)
	}
	if got.EstimatedPoints != calc.EstimatedPoints {
		t.Errorf("Estimate should be unchanged: %d -> %d", calc.EstimatedPoints, got.EstimatedPoints)
	}
}

func TestCacheWellIDAvoidsKeyDelimiter(t *testing.T) {
	id := cacheWellID("memphis", "MW_21_A", readings.SeriesTransducer)

	for _, r := range id {
		if r == '_' {
			t.Fatalf("Cache well id must not contain the key delimiter: %s", id)
		}
	}
	if id != "memphis:MW-21-A:transducer" {
		t.Errorf("Unexpected cache well id: %s", id)
	}
}
